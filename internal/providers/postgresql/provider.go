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

// Package postgresql implements the providers.Provider surface for the one
// supported relational engine.
package postgresql

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/ocomsoft/schemamigrate/internal/migration"
)

// Provider implements providers.Provider for PostgreSQL.
type Provider struct{}

// New creates a PostgreSQL provider.
func New() *Provider {
	return &Provider{}
}

// QuoteIdent quotes a table or column name PostgreSQL-style.
func (p *Provider) QuoteIdent(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}

// Introspect reconstructs one Snapshot per user table in the public schema of
// a live database, for the introspect command.
func (p *Provider) Introspect(db *sql.DB) ([]migration.Snapshot, error) {
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	tableNames, err := p.tableNames(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	var snapshots []migration.Snapshot
	for _, table := range tableNames {
		attrs, err := p.attributes(db, table)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect table %s: %w", table, err)
		}
		identities, err := p.identities(db, table)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect indexes for table %s: %w", table, err)
		}
		snapshots = append(snapshots, migration.Snapshot{
			Table:      table,
			Attributes: attrs,
			Identities: identities,
		})
	}
	return snapshots, nil
}

func (p *Provider) tableNames(db *sql.DB) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (p *Provider) attributes(db *sql.DB, table string) ([]migration.Attribute, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable,
			c.column_default,
			CASE WHEN pk.column_name IS NOT NULL THEN true ELSE false END as is_primary_key
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT ku.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage ku
				ON tc.constraint_name = ku.constraint_name
			WHERE tc.table_schema = 'public'
				AND tc.table_name = $1
				AND tc.constraint_type = 'PRIMARY KEY'
		) pk ON c.column_name = pk.column_name
		WHERE c.table_schema = 'public'
			AND c.table_name = $1
		ORDER BY c.ordinal_position
	`
	rows, err := db.Query(query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns for table %s: %w", table, err)
	}
	defer rows.Close()

	var attrs []migration.Attribute
	for rows.Next() {
		var (
			name          string
			dataType      string
			isNullable    string
			columnDefault sql.NullString
			isPrimaryKey  bool
		)
		if err := rows.Scan(&name, &dataType, &isNullable, &columnDefault, &isPrimaryKey); err != nil {
			return nil, fmt.Errorf("failed to scan column data: %w", err)
		}

		attrs = append(attrs, migration.Attribute{
			Name:       name,
			Type:       sqlTypeToFieldType(dataType),
			Default:    sqlDefaultToLiteral(columnDefault),
			AllowNil:   isNullable == "YES",
			PrimaryKey: isPrimaryKey,
		})
	}
	return attrs, rows.Err()
}

func (p *Provider) identities(db *sql.DB, table string) ([]migration.Identity, error) {
	query := `
		SELECT DISTINCT i.indexname, i.indexdef
		FROM pg_indexes i
		WHERE i.schemaname = 'public'
			AND i.tablename = $1
			AND i.indexdef LIKE '%UNIQUE%'
			AND i.indexname NOT LIKE '%_pkey'
		ORDER BY i.indexname
	`
	rows, err := db.Query(query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes for table %s: %w", table, err)
	}
	defer rows.Close()

	var identities []migration.Identity
	for rows.Next() {
		var name, def string
		if err := rows.Scan(&name, &def); err != nil {
			return nil, fmt.Errorf("failed to scan index data: %w", err)
		}
		keys := parseIndexColumns(def)
		if len(keys) == 0 {
			continue
		}
		identities = append(identities, migration.Identity{Name: name, Keys: keys})
	}
	return identities, rows.Err()
}

// sqlTypeToFieldType maps a PostgreSQL column type onto the closed set of
// migration field types; anything not recognized collapses to text.
func sqlTypeToFieldType(sqlType string) migration.FieldType {
	switch {
	case sqlType == "uuid":
		return migration.FieldBinaryID
	case sqlType == "integer", sqlType == "bigint", sqlType == "smallint":
		return migration.FieldInteger
	case sqlType == "boolean":
		return migration.FieldBoolean
	default:
		return migration.FieldText
	}
}

func sqlDefaultToLiteral(d sql.NullString) string {
	if !d.Valid {
		return migration.NoDefault
	}
	switch {
	case strings.Contains(d.String, "CURRENT_TIMESTAMP"), strings.Contains(d.String, "now("):
		return `fragment("now()")`
	case strings.Contains(d.String, "uuid_generate_v4()"), strings.Contains(d.String, "gen_random_uuid()"):
		return `fragment("uuid_generate_v4()")`
	default:
		cleaned := strings.Split(d.String, "::")[0]
		return strings.Trim(cleaned, "'")
	}
}

// parseIndexColumns extracts the column list from a pg_indexes indexdef
// string, e.g. "CREATE UNIQUE INDEX ... ON t (a, b)" -> ["a", "b"].
func parseIndexColumns(indexDef string) []string {
	start := strings.Index(indexDef, "(")
	end := strings.LastIndex(indexDef, ")")
	if start == -1 || end == -1 || end <= start {
		return nil
	}
	var cols []string
	for _, field := range strings.Split(indexDef[start+1:end], ",") {
		field = strings.Trim(strings.TrimSpace(field), `"`)
		if field != "" {
			cols = append(cols, field)
		}
	}
	return cols
}
