/*
MIT License

# Copyright (c) 2025 OcomSoft

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package migration

import "github.com/ocomsoft/schemamigrate/internal/prompt"

// Diff computes the flat list of primitive Operations turning old into new
// (§4.4). old is nil when there is no prior snapshot for this table.
func Diff(new Snapshot, old *Snapshot, p prompt.Prompter) ([]Operation, error) {
	var ops []Operation

	base := Snapshot{Table: new.Table, Repo: new.Repo}
	if old == nil {
		ops = append(ops, Operation{Kind: OpCreateTable, Table: new.Table})
	} else {
		base = *old
	}

	attrOps, err := diffAttributes(new.Table, base.Attributes, new.Attributes, p)
	if err != nil {
		return nil, err
	}
	ops = append(ops, attrOps...)

	ops = append(ops, diffIdentities(new.Table, base.Identities, new.Identities)...)

	return ops, nil
}

func diffAttributes(table string, oldAttrs, newAttrs []Attribute, p prompt.Prompter) ([]Operation, error) {
	oldByName := make(map[string]Attribute, len(oldAttrs))
	for _, a := range oldAttrs {
		oldByName[a.Name] = a
	}
	newByName := make(map[string]Attribute, len(newAttrs))
	for _, a := range newAttrs {
		newByName[a.Name] = a
	}

	var toAdd, toRemove []Attribute
	for _, a := range newAttrs {
		if _, ok := oldByName[a.Name]; !ok {
			toAdd = append(toAdd, a)
		}
	}
	for _, a := range oldAttrs {
		if _, ok := newByName[a.Name]; !ok {
			toRemove = append(toRemove, a)
		}
	}

	toAdd, toRemove, renames, err := ResolveRenames(table, toAdd, toRemove, p)
	if err != nil {
		return nil, err
	}

	var toAlter []Rename // reuse Old/New shape for matching pairs
	for _, n := range newAttrs {
		o, ok := oldByName[n.Name]
		if !ok {
			continue
		}
		if !o.Equal(n) {
			toAlter = append(toAlter, Rename{Old: o, New: n})
		}
	}

	var ops []Operation
	for _, r := range renames {
		ops = append(ops, Operation{Kind: OpRenameAttribute, Table: table, OldAttribute: r.Old, NewAttribute: r.New})
	}
	for _, a := range toAdd {
		if a.References == nil {
			ops = append(ops, Operation{Kind: OpAddAttribute, Table: table, Attribute: a})
			continue
		}
		bare := a.WithoutReferences()
		ops = append(ops, Operation{Kind: OpAddAttribute, Table: table, Attribute: bare})
		ops = append(ops, Operation{Kind: OpAlterAttribute, Table: table, OldAttribute: bare, NewAttribute: a})
	}
	for _, pair := range toAlter {
		if pair.New.References == nil {
			ops = append(ops, Operation{Kind: OpAlterAttribute, Table: table, OldAttribute: pair.Old, NewAttribute: pair.New})
			continue
		}
		stripped := pair.New.WithoutReferences()
		ops = append(ops, Operation{Kind: OpAlterAttribute, Table: table, OldAttribute: pair.Old, NewAttribute: stripped})
		ops = append(ops, Operation{Kind: OpAlterAttribute, Table: table, OldAttribute: stripped, NewAttribute: pair.New})
	}
	for _, a := range toRemove {
		ops = append(ops, Operation{Kind: OpRemoveAttribute, Table: table, Attribute: a})
	}

	return ops, nil
}

// diffIdentities returns adds before removes, matching the Differ's overall
// concatenation order (attribute ops, then adds, then removes); the Orderer
// reshuffles as needed from there.
func diffIdentities(table string, oldIdentities, newIdentities []Identity) []Operation {
	var adds, removes []Operation

	for _, o := range oldIdentities {
		if !identitySetContains(newIdentities, o) {
			removes = append(removes, Operation{Kind: OpRemoveUniqueIndex, Table: table, Identity: o})
		}
	}
	for _, n := range newIdentities {
		if !identitySetContains(oldIdentities, n) {
			adds = append(adds, Operation{Kind: OpAddUniqueIndex, Table: table, Identity: n})
		}
	}

	return append(adds, removes...)
}

func identitySetContains(set []Identity, target Identity) bool {
	for _, id := range set {
		if id.SameKeys(target) {
			return true
		}
	}
	return false
}
