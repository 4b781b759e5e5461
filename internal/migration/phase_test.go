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

func TestPhasesGroupsCreateTableWithItsColumns(t *testing.T) {
	ops := []Operation{
		{Kind: OpCreateTable, Table: "users"},
		{Kind: OpAddAttribute, Table: "users", Attribute: Attribute{Name: "id"}},
		{Kind: OpAddAttribute, Table: "users", Attribute: Attribute{Name: "email"}},
	}
	phases := Phases(ops)
	if len(phases) != 1 {
		t.Fatalf("expected a single Create phase, got %d: %+v", len(phases), phases)
	}
	p := phases[0]
	if p.Kind != PhaseCreate || p.Table != "users" {
		t.Fatalf("expected a Create phase for users, got %+v", p)
	}
	if len(p.Operations) != 3 {
		t.Fatalf("expected 3 operations in the phase, got %d", len(p.Operations))
	}
	// insertion order is restored: CreateTable, id, email
	if p.Operations[0].Kind != OpCreateTable || p.Operations[1].Attribute.Name != "id" || p.Operations[2].Attribute.Name != "email" {
		t.Errorf("expected operations to preserve input order, got %+v", p.Operations)
	}
}

func TestPhasesSeparatesDifferentTables(t *testing.T) {
	ops := []Operation{
		{Kind: OpAddAttribute, Table: "users", Attribute: Attribute{Name: "email"}},
		{Kind: OpAddAttribute, Table: "posts", Attribute: Attribute{Name: "title"}},
	}
	phases := Phases(ops)
	if len(phases) != 2 {
		t.Fatalf("expected 2 phases, one per table, got %d: %+v", len(phases), phases)
	}
	if phases[0].Table != "users" || phases[1].Table != "posts" {
		t.Errorf("expected phases in input order, got %+v", phases)
	}
}

func TestPhasesNonAttributeOpIsASingletonPhase(t *testing.T) {
	ops := []Operation{
		{Kind: OpAddAttribute, Table: "users", Attribute: Attribute{Name: "email"}},
		{Kind: OpAddUniqueIndex, Table: "users", Identity: Identity{Name: "users_email_index", Keys: []string{"email"}}},
		{Kind: OpAddAttribute, Table: "users", Attribute: Attribute{Name: "name"}},
	}
	phases := Phases(ops)
	if len(phases) != 3 {
		t.Fatalf("expected the index op to close the attribute phase and start its own, got %d: %+v", len(phases), phases)
	}
	if phases[1].Kind != PhaseAlter || len(phases[1].Operations) != 1 || phases[1].Operations[0].Kind != OpAddUniqueIndex {
		t.Errorf("expected the middle phase to be a singleton index phase, got %+v", phases[1])
	}
}

func TestPhasesEmptyInput(t *testing.T) {
	phases := Phases(nil)
	if len(phases) != 0 {
		t.Errorf("expected no phases for no operations, got %+v", phases)
	}
}
