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

import "testing"

func TestAttributeEqual(t *testing.T) {
	a := Attribute{Name: "email", Type: FieldText, Default: NoDefault}
	b := a
	if !a.Equal(b) {
		t.Error("expected identical attributes to be equal")
	}

	b.Default = `"x"`
	if a.Equal(b) {
		t.Error("expected differing defaults to be unequal")
	}

	a.References = &Reference{Table: "users", DestinationField: "id"}
	b = a
	if !a.Equal(b) {
		t.Error("expected identical references to be equal")
	}
	b.References = &Reference{Table: "users", DestinationField: "uuid"}
	if a.Equal(b) {
		t.Error("expected differing references to be unequal")
	}
}

func TestAttributeWithoutReferences(t *testing.T) {
	a := Attribute{Name: "author_id", References: &Reference{Table: "users", DestinationField: "id"}}
	b := a.WithoutReferences()
	if b.References != nil {
		t.Error("expected References to be cleared")
	}
	if a.References == nil {
		t.Error("expected original attribute to be untouched")
	}
}

func TestIdentityKeySetAndSameKeys(t *testing.T) {
	a := Identity{Name: "idx_a", Keys: []string{"b", "a"}}
	b := Identity{Name: "idx_b", Keys: []string{"a", "b"}}
	if !a.SameKeys(b) {
		t.Error("expected identities with the same key set (different order) to match")
	}

	c := Identity{Name: "idx_c", Keys: []string{"a", "c"}}
	if a.SameKeys(c) {
		t.Error("expected identities with different keys to not match")
	}
}

func TestSnapshotAttributeByName(t *testing.T) {
	s := Snapshot{Attributes: []Attribute{{Name: "id"}, {Name: "email"}}}
	if s.AttributeByName("email") == nil {
		t.Error("expected to find email attribute")
	}
	if s.AttributeByName("missing") != nil {
		t.Error("expected nil for unknown attribute")
	}
}

func TestSnapshotPrimaryKeyNames(t *testing.T) {
	s := Snapshot{Attributes: []Attribute{
		{Name: "b", PrimaryKey: true},
		{Name: "a", PrimaryKey: true},
		{Name: "c"},
	}}
	names := s.PrimaryKeyNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("expected sorted [a b], got %v", names)
	}
}

func TestOperationAttributeLevel(t *testing.T) {
	cases := []struct {
		kind OperationKind
		want bool
	}{
		{OpCreateTable, false},
		{OpAddAttribute, true},
		{OpAlterAttribute, true},
		{OpRenameAttribute, true},
		{OpRemoveAttribute, true},
		{OpAddUniqueIndex, false},
		{OpRemoveUniqueIndex, false},
	}
	for _, c := range cases {
		op := Operation{Kind: c.kind}
		if got := op.AttributeLevel(); got != c.want {
			t.Errorf("kind %d: expected AttributeLevel()=%v, got %v", c.kind, c.want, got)
		}
	}
}
