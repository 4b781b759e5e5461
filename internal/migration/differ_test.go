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
	"testing"

	"github.com/ocomsoft/schemamigrate/internal/prompt"
)

func TestDiffNewTableEmitsCreateTableThenAttributes(t *testing.T) {
	new := Snapshot{
		Table: "users",
		Attributes: []Attribute{
			{Name: "id", Type: FieldBinaryID, PrimaryKey: true},
			{Name: "email", Type: FieldText},
		},
	}

	ops, err := Diff(new, nil, &prompt.Scripted{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 3 {
		t.Fatalf("expected CreateTable + 2 AddAttribute ops, got %d: %+v", len(ops), ops)
	}
	if ops[0].Kind != OpCreateTable {
		t.Errorf("expected first op to be CreateTable, got %v", ops[0].Kind)
	}
	for _, op := range ops[1:] {
		if op.Kind != OpAddAttribute {
			t.Errorf("expected AddAttribute, got %v", op.Kind)
		}
	}
}

func TestDiffNoChangesProducesNoOps(t *testing.T) {
	snap := Snapshot{
		Table:      "users",
		Attributes: []Attribute{{Name: "id", Type: FieldBinaryID}},
	}
	ops, err := Diff(snap, &snap, &prompt.Scripted{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 0 {
		t.Errorf("expected no operations for an unchanged table, got %+v", ops)
	}
}

func TestDiffAddAttributeWithReferenceSplitsIntoTwoOps(t *testing.T) {
	old := Snapshot{Table: "posts", Attributes: nil}
	new := Snapshot{
		Table: "posts",
		Attributes: []Attribute{
			{Name: "author_id", Type: FieldBinaryID, References: &Reference{Table: "users", DestinationField: "id"}},
		},
	}

	ops, err := Diff(new, &old, &prompt.Scripted{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected a bare AddAttribute followed by an AlterAttribute restoring the reference, got %d: %+v", len(ops), ops)
	}
	if ops[0].Kind != OpAddAttribute || ops[0].Attribute.References != nil {
		t.Errorf("expected op 0 to be a bare AddAttribute, got %+v", ops[0])
	}
	if ops[1].Kind != OpAlterAttribute || ops[1].NewAttribute.References == nil {
		t.Errorf("expected op 1 to restore the reference, got %+v", ops[1])
	}
}

func TestDiffRemoveAttribute(t *testing.T) {
	old := Snapshot{Table: "users", Attributes: []Attribute{{Name: "legacy_flag", Type: FieldBoolean}}}
	new := Snapshot{Table: "users"}

	ops, err := Diff(new, &old, &prompt.Scripted{Confirms: []bool{false}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 1 || ops[0].Kind != OpRemoveAttribute || ops[0].Attribute.Name != "legacy_flag" {
		t.Fatalf("expected a single RemoveAttribute op, got %+v", ops)
	}
}

func TestDiffAlterAttributeSimpleTypeChange(t *testing.T) {
	old := Snapshot{Table: "users", Attributes: []Attribute{{Name: "age", Type: FieldInteger}}}
	new := Snapshot{Table: "users", Attributes: []Attribute{{Name: "age", Type: FieldText}}}

	ops, err := Diff(new, &old, &prompt.Scripted{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ops) != 1 || ops[0].Kind != OpAlterAttribute {
		t.Fatalf("expected a single AlterAttribute op, got %+v", ops)
	}
}

func TestDiffIdentitiesAddsBeforeRemoves(t *testing.T) {
	old := Snapshot{Identities: []Identity{{Name: "old_idx", Keys: []string{"a"}}}}
	new := Snapshot{Identities: []Identity{{Name: "new_idx", Keys: []string{"b"}}}}

	ops := diffIdentities("users", old.Identities, new.Identities)
	if len(ops) != 2 {
		t.Fatalf("expected 2 identity ops, got %d", len(ops))
	}
	if ops[0].Kind != OpAddUniqueIndex {
		t.Errorf("expected adds before removes, got %+v", ops)
	}
	if ops[1].Kind != OpRemoveUniqueIndex {
		t.Errorf("expected a remove op second, got %+v", ops)
	}
}

func TestDiffIdentitiesSameKeysDifferentNameIsNotAChange(t *testing.T) {
	old := []Identity{{Name: "idx_a", Keys: []string{"x", "y"}}}
	new := []Identity{{Name: "idx_b", Keys: []string{"y", "x"}}}

	ops := diffIdentities("users", old, new)
	if len(ops) != 0 {
		t.Errorf("expected identities with the same key set to be treated as unchanged, got %+v", ops)
	}
}
