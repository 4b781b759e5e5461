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

// Package migration holds the closed data model the generator operates on:
// Snapshot/Attribute/Identity describe schema state, Operation and Phase
// describe the change stream derived from it.
package migration

import "sort"

// FieldType is the closed set of migration-level column types. Any other
// source type is a fatal UnsupportedTypeError at snapshot build time.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldInteger  FieldType = "integer"
	FieldBoolean  FieldType = "boolean"
	FieldBinaryID FieldType = "binary_id"
)

// NoDefault is the sentinel rendered when an attribute has no recognized
// default expression.
const NoDefault = "nil"

// Reference is a foreign-key edge from an attribute to another table's
// column, populated when the attribute is the source of a belongs_to-style
// relationship whose destination lives in the same repo.
type Reference struct {
	Table             string `json:"table"`
	DestinationField  string `json:"destination_field"`
}

// Attribute is one column of a Snapshot.
type Attribute struct {
	Name       string     `json:"name"`
	Type       FieldType  `json:"type"`
	Default    string     `json:"default"`
	AllowNil   bool       `json:"allow_nil?"`
	PrimaryKey bool       `json:"primary_key?"`
	References *Reference `json:"references"`
}

// Equal reports whether two attributes are identical in every field the
// Differ cares about.
func (a Attribute) Equal(b Attribute) bool {
	if a.Name != b.Name || a.Type != b.Type || a.Default != b.Default ||
		a.AllowNil != b.AllowNil || a.PrimaryKey != b.PrimaryKey {
		return false
	}
	if (a.References == nil) != (b.References == nil) {
		return false
	}
	if a.References != nil && *a.References != *b.References {
		return false
	}
	return true
}

// WithoutReferences returns a copy of the attribute with References cleared,
// used by the Differ's references-first split (§4.4.1).
func (a Attribute) WithoutReferences() Attribute {
	a.References = nil
	return a
}

// Identity is a named unique index; equality is set-wise over Keys.
type Identity struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// KeySet returns the sorted key list, joined, used for identity equality.
// Duplicate keys are kept as they are.
func (i Identity) KeySet() string {
	keys := append([]string(nil), i.Keys...)
	sort.Strings(keys)
	out := ""
	for idx, k := range keys {
		if idx > 0 {
			out += "\x00"
		}
		out += k
	}
	return out
}

// SameKeys reports whether two identities cover the same set of attributes,
// regardless of name or key order.
func (i Identity) SameKeys(o Identity) bool {
	return i.KeySet() == o.KeySet()
}

// Snapshot is the canonical description of one table at a point in time.
type Snapshot struct {
	Table      string      `json:"table"`
	Repo       string      `json:"repo"`
	Attributes []Attribute `json:"attributes"`
	Identities []Identity  `json:"identities"`
	Hash       string      `json:"hash"`
}

// AttributeByName finds an attribute by name, or nil.
func (s *Snapshot) AttributeByName(name string) *Attribute {
	for i := range s.Attributes {
		if s.Attributes[i].Name == name {
			return &s.Attributes[i]
		}
	}
	return nil
}

// PrimaryKeyNames returns the sorted list of primary-key attribute names.
func (s *Snapshot) PrimaryKeyNames() []string {
	var names []string
	for _, a := range s.Attributes {
		if a.PrimaryKey {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}

// OperationKind tags the variant of an Operation.
type OperationKind int

const (
	OpCreateTable OperationKind = iota
	OpAddAttribute
	OpAlterAttribute
	OpRenameAttribute
	OpRemoveAttribute
	OpAddUniqueIndex
	OpRemoveUniqueIndex
)

// Operation is one primitive DDL action in the generated migration. Exactly
// one of the payload fields is meaningful for a given Kind; the type is a
// single struct rather than an interface so the Orderer/Streamliner/Phaser
// can pattern-match on Kind the way spec.md's after? predicate table does.
type Operation struct {
	Kind OperationKind
	Table string

	Attribute    Attribute // AddAttribute, RemoveAttribute
	OldAttribute Attribute // AlterAttribute, RenameAttribute
	NewAttribute Attribute // AlterAttribute, RenameAttribute

	Identity Identity // AddUniqueIndex, RemoveUniqueIndex
}

// AttributeLevel reports whether this operation targets a single named
// column the way the Phaser groups things (§4.8).
func (op Operation) AttributeLevel() bool {
	switch op.Kind {
	case OpAddAttribute, OpAlterAttribute, OpRenameAttribute, OpRemoveAttribute:
		return true
	default:
		return false
	}
}

// PhaseKind tags the variant of a Phase.
type PhaseKind int

const (
	PhaseCreate PhaseKind = iota
	PhaseAlter
)

// Phase groups consecutive same-table operations for rendering as one block.
type Phase struct {
	Kind       PhaseKind
	Table      string
	Operations []Operation
}
