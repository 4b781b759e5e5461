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

// Package render turns phased operations into the migration artifact's text
// (spec §6's "module-like artifact exposing up() and down()"). The core
// only depends on the Renderer interface; this package supplies the one
// concrete implementation for the supported engine.
package render

import (
	"fmt"
	"strings"

	"github.com/ocomsoft/schemamigrate/internal/migration"
)

// Renderer is the external collaborator spec.md §1/§6 calls the
// "downstream migration-script renderer". Given the phased operation stream
// for one migration, it produces the up and down bodies.
type Renderer interface {
	Render(artifactName string, phases []migration.Phase) (up, down string, err error)
}

// QuoteFunc quotes a table or column identifier for safe inclusion in
// generated DDL; normally providers.Provider.QuoteIdent.
type QuoteFunc func(string) string

// SQL is the default Renderer, targeting the supported PostgreSQL-family
// engine with goose-style statement markers, grounded on the teacher's
// buildUpMigration/buildDownMigration text assembly.
type SQL struct {
	Quote QuoteFunc
}

// New builds the default Renderer.
func New(quote QuoteFunc) *SQL {
	return &SQL{Quote: quote}
}

func (r *SQL) Render(artifactName string, phases []migration.Phase) (string, string, error) {
	var up strings.Builder
	fmt.Fprintf(&up, "-- %s\n", artifactName)
	up.WriteString("-- +goose Up\n")
	up.WriteString("-- +goose StatementBegin\n")
	for i, ph := range phases {
		if i > 0 {
			up.WriteString("\n")
		}
		up.WriteString(r.renderPhaseUp(ph))
	}
	up.WriteString("-- +goose StatementEnd\n")

	var down strings.Builder
	fmt.Fprintf(&down, "-- %s\n", artifactName)
	down.WriteString("-- +goose Down\n")
	down.WriteString("-- +goose StatementBegin\n")
	for i := len(phases) - 1; i >= 0; i-- {
		if i < len(phases)-1 {
			down.WriteString("\n")
		}
		down.WriteString(r.renderPhaseDown(phases[i]))
	}
	down.WriteString("-- +goose StatementEnd\n")

	return up.String(), down.String(), nil
}

func (r *SQL) renderPhaseUp(ph migration.Phase) string {
	if ph.Kind == migration.PhaseCreate {
		return r.renderCreateTable(ph)
	}
	var lines []string
	for _, op := range ph.Operations {
		lines = append(lines, r.renderOperationUp(op))
	}
	return strings.Join(lines, "\n")
}

func (r *SQL) renderPhaseDown(ph migration.Phase) string {
	if ph.Kind == migration.PhaseCreate {
		return fmt.Sprintf("DROP TABLE %s;", r.Quote(ph.Table))
	}
	var lines []string
	for i := len(ph.Operations) - 1; i >= 0; i-- {
		lines = append(lines, r.renderOperationDown(ph.Operations[i]))
	}
	return strings.Join(lines, "\n")
}

// renderCreateTable combines a Create phase's CreateTable and AddAttribute
// operations into a single CREATE TABLE statement.
func (r *SQL) renderCreateTable(ph migration.Phase) string {
	var cols []string
	var pk []string
	for _, op := range ph.Operations {
		if op.Kind != migration.OpAddAttribute {
			continue
		}
		cols = append(cols, "  "+r.columnDef(op.Attribute))
		if op.Attribute.PrimaryKey {
			pk = append(pk, r.Quote(op.Attribute.Name))
		}
	}
	if len(pk) > 0 {
		cols = append(cols, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);", r.Quote(ph.Table), strings.Join(cols, ",\n"))
}

func (r *SQL) columnDef(a migration.Attribute) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", r.Quote(a.Name), sqlType(a.Type))
	if !a.AllowNil {
		b.WriteString(" NOT NULL")
	}
	if def := sqlDefault(a.Default); def != "" {
		fmt.Fprintf(&b, " DEFAULT %s", def)
	}
	if a.References != nil {
		fmt.Fprintf(&b, " REFERENCES %s (%s)", r.Quote(a.References.Table), r.Quote(a.References.DestinationField))
	}
	return b.String()
}

func (r *SQL) renderOperationUp(op migration.Operation) string {
	table := r.Quote(op.Table)
	switch op.Kind {
	case migration.OpAddAttribute:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", table, r.columnDef(op.Attribute))
	case migration.OpAlterAttribute:
		return r.renderAlterUp(op)
	case migration.OpRenameAttribute:
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", table, r.Quote(op.OldAttribute.Name), r.Quote(op.NewAttribute.Name))
	case migration.OpRemoveAttribute:
		return fmt.Sprintf("-- REVIEW\nALTER TABLE %s DROP COLUMN %s;", table, r.Quote(op.Attribute.Name))
	case migration.OpAddUniqueIndex:
		return r.renderCreateIndex(op.Table, op.Identity)
	case migration.OpRemoveUniqueIndex:
		return fmt.Sprintf("-- REVIEW\nDROP INDEX %s;", r.Quote(op.Identity.Name))
	}
	return ""
}

func (r *SQL) renderOperationDown(op migration.Operation) string {
	table := r.Quote(op.Table)
	switch op.Kind {
	case migration.OpAddAttribute:
		return fmt.Sprintf("-- REVIEW\nALTER TABLE %s DROP COLUMN %s;", table, r.Quote(op.Attribute.Name))
	case migration.OpAlterAttribute:
		return r.renderAlterDown(op)
	case migration.OpRenameAttribute:
		return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s;", table, r.Quote(op.NewAttribute.Name), r.Quote(op.OldAttribute.Name))
	case migration.OpRemoveAttribute:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", table, r.columnDef(op.Attribute))
	case migration.OpAddUniqueIndex:
		return fmt.Sprintf("-- REVIEW\nDROP INDEX %s;", r.Quote(op.Identity.Name))
	case migration.OpRemoveUniqueIndex:
		return r.renderCreateIndex(op.Table, op.Identity)
	}
	return ""
}

func (r *SQL) renderAlterUp(op migration.Operation) string {
	return r.renderAlterClauses(op.Table, op.OldAttribute, op.NewAttribute)
}

func (r *SQL) renderAlterDown(op migration.Operation) string {
	return r.renderAlterClauses(op.Table, op.NewAttribute, op.OldAttribute)
}

// renderAlterClauses emits the ALTER COLUMN clauses needed to turn from
// into to, one clause per changed facet.
func (r *SQL) renderAlterClauses(table string, from, to migration.Attribute) string {
	quotedTable := r.Quote(table)
	col := r.Quote(to.Name)
	var clauses []string

	if from.Type != to.Type {
		clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;", quotedTable, col, sqlType(to.Type)))
	}
	if from.AllowNil != to.AllowNil {
		if to.AllowNil {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", quotedTable, col))
		} else {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", quotedTable, col))
		}
	}
	if from.Default != to.Default {
		if def := sqlDefault(to.Default); def != "" {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;", quotedTable, col, def))
		} else {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", quotedTable, col))
		}
	}
	if from.PrimaryKey != to.PrimaryKey {
		if to.PrimaryKey {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s);", quotedTable, col))
		} else {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s_pkey;", quotedTable, table))
		}
	}
	refFrom, refTo := from.References, to.References
	if (refFrom == nil) != (refTo == nil) || (refFrom != nil && refTo != nil && *refFrom != *refTo) {
		if refFrom != nil {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s_%s_fkey;", quotedTable, table, to.Name))
		}
		if refTo != nil {
			clauses = append(clauses, fmt.Sprintf("ALTER TABLE %s ADD FOREIGN KEY (%s) REFERENCES %s (%s);", quotedTable, col, r.Quote(refTo.Table), r.Quote(refTo.DestinationField)))
		}
	}

	if len(clauses) == 0 {
		return fmt.Sprintf("-- no-op alter on %s.%s", table, to.Name)
	}
	return strings.Join(clauses, "\n")
}

func (r *SQL) renderCreateIndex(table string, id migration.Identity) string {
	cols := make([]string, len(id.Keys))
	for i, k := range id.Keys {
		cols[i] = r.Quote(k)
	}
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s);", r.Quote(id.Name), r.Quote(table), strings.Join(cols, ", "))
}

func sqlType(t migration.FieldType) string {
	switch t {
	case migration.FieldInteger:
		return "INTEGER"
	case migration.FieldBoolean:
		return "BOOLEAN"
	case migration.FieldBinaryID:
		return "UUID"
	default:
		return "TEXT"
	}
}

// sqlDefault converts a Snapshot Builder's rendered default into a SQL
// fragment, or "" for the builder's "no default" sentinel.
func sqlDefault(d string) string {
	if d == "" || d == migration.NoDefault {
		return ""
	}
	if strings.HasPrefix(d, `fragment("`) && strings.HasSuffix(d, `")`) {
		return strings.TrimSuffix(strings.TrimPrefix(d, `fragment("`), `")`)
	}
	// A JSON-encoded literal value: strings keep their quotes translated to
	// SQL's single-quote convention, numbers/booleans pass through as-is.
	if strings.HasPrefix(d, `"`) && strings.HasSuffix(d, `"`) && len(d) >= 2 {
		return "'" + strings.ReplaceAll(d[1:len(d)-1], "'", "''") + "'"
	}
	return d
}
