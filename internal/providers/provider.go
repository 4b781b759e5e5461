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

// Package providers declares the narrow surface the target relational engine
// must offer: identifier quoting for the Renderer and schema introspection
// for the introspect command (SPEC_FULL §9.1). Only one engine is
// supported; the interface exists so the Renderer and the introspect command
// never import database/sql drivers directly.
package providers

import (
	"database/sql"

	"github.com/ocomsoft/schemamigrate/internal/migration"
)

// Provider is implemented once, by internal/providers/postgresql, for the
// single supported relational engine.
type Provider interface {
	// QuoteIdent quotes a table or column name for inclusion in the
	// generated DDL.
	QuoteIdent(name string) string

	// Introspect connects to a live database and reconstructs one Snapshot
	// per user table, for the introspect command.
	Introspect(db *sql.DB) ([]migration.Snapshot, error)
}
