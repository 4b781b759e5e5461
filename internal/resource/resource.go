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

// Package resource declares the interfaces the migration generator's core
// requires from the resource-introspection framework and repo configuration
// (spec §6). The core never depends on a concrete ORM; it only ever sees
// these interfaces. internal/registry provides one concrete way to satisfy
// them.
package resource

// AttributeDef is one field of a resource as the introspection framework
// reports it, prior to any migration-type mapping.
type AttributeDef struct {
	Name       string
	SourceType string // e.g. "string", "integer", "boolean", "binary_id"
	Default    Default
	AllowNil   bool
	PrimaryKey bool
}

// Default describes a resource attribute's default value in the three
// shapes the Snapshot Builder recognizes (§4.1): a well-known generator
// function, an arbitrary callable, or a concrete value.
type Default struct {
	// Func, when non-nil, is compared by function pointer against the
	// closed table of recognized generators (uuid.New, time.Now).
	Func any
	// IsCallable marks a non-nil, non-recognized callable default (any
	// other function value), which always renders to the "no default"
	// sentinel.
	IsCallable bool
	// IsASTNode marks a three-tuple/quoted-expression default, which also
	// always renders to the "no default" sentinel.
	IsASTNode bool
	// Value is a concrete literal default, rendered through the type's
	// native encoder when neither Func, IsCallable nor IsASTNode is set.
	Value any
	// HasValue distinguishes "no default was declared" from Value's zero
	// value being the declared default.
	HasValue bool
}

// IdentityDef is a named unique index as the introspection framework
// reports it.
type IdentityDef struct {
	Name string
	Keys []string
}

// RelationshipType enumerates the relationship shapes the Builder inspects
// when populating an attribute's Reference (§4.1). Only BelongsTo relates
// an attribute to a foreign key.
type RelationshipType string

const BelongsTo RelationshipType = "belongs_to"

// RelationshipDef is one relationship edge of a resource.
type RelationshipDef struct {
	Type             RelationshipType
	SourceField      string
	DestinationField string
	Destination      Handle
}

// Handle is the introspection surface the core needs for one resource: its
// table, repo, attributes, identities, and relationships. It is the "in
// memory schema" spec.md §1 calls an out-of-scope external collaborator —
// this repo owns only the interface, not the framework that implements it.
type Handle interface {
	Table() string
	Repo() Repo
	Attributes() []AttributeDef
	Identities() []IdentityDef
	Relationships() []RelationshipDef
}

// Repo is the logical database target a resource belongs to. It governs the
// on-disk snapshot subdirectory and the emitted migration module name.
type Repo interface {
	// LastNameSegment returns the final path/module segment used to derive
	// the snapshot subdirectory, e.g. "MyApp.Repo" -> "Repo".
	LastNameSegment() string
	// InstalledExtensions lists database extensions the repo has declared
	// available (e.g. "uuid-ossp"), consulted by the Builder's default
	// rendering rule for the UUID v4 generator (§4.1).
	InstalledExtensions() []string
	// String returns the repo's full opaque identifier, used verbatim as
	// Snapshot.Repo and in the emitted migration module name.
	String() string
}
