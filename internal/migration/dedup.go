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

import (
	"fmt"
	"sort"
	"strings"

	schemaerrors "github.com/ocomsoft/schemamigrate/internal/errors"
	"github.com/ocomsoft/schemamigrate/internal/prompt"
)

// Pair is one table's merged fresh snapshot alongside its existing snapshot,
// if any (§4.3).
type Pair struct {
	New Snapshot
	Old *Snapshot
}

// Dedup groups fresh snapshots by table, merges the contributors sharing a
// table, reconciles the primary key, and loads each table's existing
// snapshot from store.
func Dedup(fresh []Snapshot, store *Store, p prompt.Prompter) ([]Pair, error) {
	groups := make(map[string][]Snapshot)
	var order []string
	for _, snap := range fresh {
		if _, seen := groups[snap.Table]; !seen {
			order = append(order, snap.Table)
		}
		groups[snap.Table] = append(groups[snap.Table], snap)
	}

	var pairs []Pair
	for _, table := range order {
		contributors := groups[table]
		repo := contributors[0].Repo

		existing, exists, err := store.Load(repo, table)
		if err != nil {
			return nil, err
		}
		var existingPtr *Snapshot
		if exists {
			existingPtr = &existing
		}

		pkNames, synthetic, err := reconcilePrimaryKey(table, contributors, existingPtr, p)
		if err != nil {
			return nil, err
		}

		merged, err := mergeAttributes(table, contributors)
		if err != nil {
			return nil, err
		}

		identities := mergeIdentities(contributors, synthetic)

		pkSet := make(map[string]bool, len(pkNames))
		for _, n := range pkNames {
			pkSet[n] = true
		}
		for i := range merged {
			merged[i].PrimaryKey = pkSet[merged[i].Name]
		}

		snap := Snapshot{
			Table:      table,
			Repo:       repo,
			Attributes: merged,
			Identities: identities,
		}
		snap.Hash = ContentHash(snap)

		pairs = append(pairs, Pair{New: snap, Old: existingPtr})
	}

	return pairs, nil
}

// mergeAttributes merges per-name contributions across snapshots sharing a
// table (§4.3 step 3).
func mergeAttributes(table string, contributors []Snapshot) ([]Attribute, error) {
	byName := make(map[string][]Attribute)
	var order []string
	for _, snap := range contributors {
		for _, a := range snap.Attributes {
			if _, seen := byName[a.Name]; !seen {
				order = append(order, a.Name)
			}
			byName[a.Name] = append(byName[a.Name], a)
		}
	}
	sort.Strings(order)

	merged := make([]Attribute, 0, len(order))
	for _, name := range order {
		contribs := byName[name]
		if len(contribs) == 1 {
			merged = append(merged, contribs[0])
			continue
		}

		types := map[FieldType]bool{}
		defaults := map[string]bool{}
		allowNil := false
		var ref *Reference
		conflictingRef := false
		var typeList []string

		for _, c := range contribs {
			if !types[c.Type] {
				typeList = append(typeList, string(c.Type))
			}
			types[c.Type] = true
			defaults[c.Default] = true
			if c.AllowNil {
				allowNil = true
			}
			if c.References != nil {
				if ref == nil {
					ref = c.References
				} else if *ref != *c.References {
					conflictingRef = true
				}
			}
		}

		if len(types) > 1 {
			return nil, schemaerrors.NewConflictingTypesError(table, name, typeList)
		}
		if conflictingRef {
			return nil, schemaerrors.NewConflictingReferencesError(table, name)
		}

		defaultValue := NoDefault
		if len(defaults) == 1 {
			for d := range defaults {
				defaultValue = d
			}
		}

		merged = append(merged, Attribute{
			Name:     name,
			Type:     contribs[0].Type,
			Default:  defaultValue,
			AllowNil: allowNil,
			References: ref,
		})
	}

	return merged, nil
}

// mergeIdentities unions identities across contributors, appends synthetic
// identities, sorts by name, and deduplicates by key set (§4.3 step 4).
func mergeIdentities(contributors []Snapshot, synthetic []Identity) []Identity {
	var all []Identity
	for _, snap := range contributors {
		all = append(all, snap.Identities...)
	}
	all = append(all, synthetic...)

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	seen := map[string]bool{}
	var deduped []Identity
	for _, id := range all {
		key := id.KeySet()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, id)
	}
	return deduped
}

// reconcilePrimaryKey implements §4.3.1.
func reconcilePrimaryKey(table string, contributors []Snapshot, existing *Snapshot, p prompt.Prompter) ([]string, []Identity, error) {
	candidates := map[string][]string{} // keySet -> keys (first occurrence order)
	var candidateOrder []string
	for _, snap := range contributors {
		pk := snap.PrimaryKeyNames()
		if len(pk) == 0 {
			continue
		}
		key := (Identity{Keys: pk}).KeySet()
		if _, seen := candidates[key]; !seen {
			candidateOrder = append(candidateOrder, key)
			candidates[key] = pk
		}
	}

	if existing != nil {
		existingPK := existing.PrimaryKeyNames()
		existingKey := (Identity{Keys: existingPK}).KeySet()
		if _, agrees := candidates[existingKey]; agrees && len(existingPK) > 0 {
			return existingPK, syntheticIdentities(table, candidateOrder, candidates, existingKey), nil
		}
		// No fresh snapshot agrees with the existing primary key: fall back
		// to the no-existing-snapshot prompt flow (open question, decided
		// in favor of prompting rather than erroring).
	}

	if len(candidateOrder) == 0 {
		return nil, nil, nil
	}
	if len(candidateOrder) == 1 {
		return candidates[candidateOrder[0]], nil, nil
	}

	chosenKey, err := promptForPrimaryKey(table, candidateOrder, candidates, p)
	if err != nil {
		return nil, nil, err
	}
	return candidates[chosenKey], syntheticIdentities(table, candidateOrder, candidates, chosenKey), nil
}

func promptForPrimaryKey(table string, order []string, candidates map[string][]string, p prompt.Prompter) (string, error) {
	msg := fmt.Sprintf("Multiple primary key candidates for %s:\n", table)
	for i, key := range order {
		msg += fmt.Sprintf("  %d. %s\n", i+1, strings.Join(candidates[key], ", "))
	}
	msg += "Which is the primary key?"

	answer, err := p.Prompt(msg)
	if err != nil {
		return "", err
	}
	idx, convErr := parseChoice(answer, len(order))
	if convErr != nil {
		return "", convErr
	}
	return order[idx], nil
}

func parseChoice(answer string, n int) (int, error) {
	answer = strings.TrimSpace(answer)
	var idx int
	if _, err := fmt.Sscanf(answer, "%d", &idx); err != nil {
		return 0, fmt.Errorf("invalid choice %q", answer)
	}
	if idx < 1 || idx > n {
		return 0, fmt.Errorf("choice %d out of range", idx)
	}
	return idx - 1, nil
}

// syntheticIdentities turns every candidate other than chosenKey into a
// synthetic identity named "<table>_<keys joined by _>".
func syntheticIdentities(table string, order []string, candidates map[string][]string, chosenKey string) []Identity {
	var out []Identity
	for _, key := range order {
		if key == chosenKey {
			continue
		}
		keys := candidates[key]
		out = append(out, Identity{
			Name: table + "_" + strings.Join(keys, "_"),
			Keys: keys,
		})
	}
	return out
}
