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
	"time"

	"github.com/google/uuid"

	schemaerrors "github.com/ocomsoft/schemamigrate/internal/errors"
	"github.com/ocomsoft/schemamigrate/internal/resource"
)

type fakeRepo struct {
	name       string
	extensions []string
}

func (r fakeRepo) LastNameSegment() string        { return r.name }
func (r fakeRepo) InstalledExtensions() []string  { return r.extensions }
func (r fakeRepo) String() string                 { return "MyApp." + r.name }

type fakeHandle struct {
	table         string
	repo          resource.Repo
	attrs         []resource.AttributeDef
	identities    []resource.IdentityDef
	relationships []resource.RelationshipDef
}

func (h fakeHandle) Table() string                          { return h.table }
func (h fakeHandle) Repo() resource.Repo                     { return h.repo }
func (h fakeHandle) Attributes() []resource.AttributeDef     { return h.attrs }
func (h fakeHandle) Identities() []resource.IdentityDef      { return h.identities }
func (h fakeHandle) Relationships() []resource.RelationshipDef { return h.relationships }

func TestBuildBasicAttributes(t *testing.T) {
	h := fakeHandle{
		table: "users",
		repo:  fakeRepo{name: "Repo"},
		attrs: []resource.AttributeDef{
			{Name: "id", SourceType: "binary_id", PrimaryKey: true},
			{Name: "active", SourceType: "boolean", Default: resource.Default{Value: true, HasValue: true}},
			{Name: "name", SourceType: "string"},
		},
	}

	snap, err := Build(h)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if snap.Table != "users" || snap.Repo != "MyApp.Repo" {
		t.Fatalf("unexpected snapshot identity: %+v", snap)
	}
	if len(snap.Attributes) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(snap.Attributes))
	}
	// sorted by name: active, id, name
	if snap.Attributes[0].Name != "active" || snap.Attributes[1].Name != "id" || snap.Attributes[2].Name != "name" {
		t.Errorf("expected attributes sorted by name, got %v", snap.Attributes)
	}
	if snap.Attributes[0].Default != "true" {
		t.Errorf("expected rendered default \"true\", got %q", snap.Attributes[0].Default)
	}
	if !snap.Attributes[1].PrimaryKey {
		t.Error("expected id to be marked primary key")
	}
	if snap.Hash == "" {
		t.Error("expected a non-empty content hash")
	}
}

func TestBuildUnsupportedType(t *testing.T) {
	h := fakeHandle{
		table: "widgets",
		repo:  fakeRepo{name: "Repo"},
		attrs: []resource.AttributeDef{{Name: "blob", SourceType: "bytea"}},
	}
	_, err := Build(h)
	if !schemaerrors.IsUnsupportedTypeError(err) {
		t.Fatalf("expected UnsupportedTypeError, got %v", err)
	}
}

func TestRenderDefaultRecognizedGenerators(t *testing.T) {
	repoWithUUID := fakeRepo{name: "Repo", extensions: []string{"uuid-ossp"}}
	repoWithoutUUID := fakeRepo{name: "Repo"}

	if got := renderDefault(resource.Default{Func: uuid.New}, repoWithUUID); got != `fragment("uuid_generate_v4()")` {
		t.Errorf("expected uuid_generate_v4 fragment, got %q", got)
	}
	if got := renderDefault(resource.Default{Func: uuid.New}, repoWithoutUUID); got != NoDefault {
		t.Errorf("expected no default without uuid-ossp installed, got %q", got)
	}
	if got := renderDefault(resource.Default{Func: time.Now}, repoWithoutUUID); got != `fragment("now()")` {
		t.Errorf("expected now() fragment, got %q", got)
	}
}

func TestRenderDefaultCallableAndASTNode(t *testing.T) {
	repo := fakeRepo{name: "Repo"}
	if got := renderDefault(resource.Default{IsCallable: true}, repo); got != NoDefault {
		t.Errorf("expected no default for an arbitrary callable, got %q", got)
	}
	if got := renderDefault(resource.Default{IsASTNode: true}, repo); got != NoDefault {
		t.Errorf("expected no default for an AST node default, got %q", got)
	}
	if got := renderDefault(resource.Default{}, repo); got != NoDefault {
		t.Errorf("expected no default when HasValue is false, got %q", got)
	}
}

func TestBuildPopulatesReferences(t *testing.T) {
	author := fakeHandle{table: "users", repo: fakeRepo{name: "Repo"}, attrs: []resource.AttributeDef{{Name: "id", SourceType: "binary_id"}}}
	post := fakeHandle{
		table: "posts",
		repo:  fakeRepo{name: "Repo"},
		attrs: []resource.AttributeDef{
			{Name: "author_id", SourceType: "binary_id"},
		},
		relationships: []resource.RelationshipDef{
			{Type: resource.BelongsTo, SourceField: "author_id", DestinationField: "id", Destination: author},
		},
	}

	snap, err := Build(post)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	attr := snap.AttributeByName("author_id")
	if attr == nil || attr.References == nil {
		t.Fatal("expected author_id to carry a reference")
	}
	if attr.References.Table != "users" || attr.References.DestinationField != "id" {
		t.Errorf("unexpected reference: %+v", attr.References)
	}
}

func TestBuildIdentitiesDropsUnknownKeys(t *testing.T) {
	h := fakeHandle{
		table: "users",
		repo:  fakeRepo{name: "Repo"},
		attrs: []resource.AttributeDef{{Name: "email", SourceType: "string"}},
		identities: []resource.IdentityDef{
			{Name: "users_email_index", Keys: []string{"email"}},
			{Name: "users_ghost_index", Keys: []string{"ghost"}},
		},
	}
	snap, err := Build(h)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(snap.Identities) != 1 || snap.Identities[0].Name != "users_email_index" {
		t.Errorf("expected only the email identity to survive, got %+v", snap.Identities)
	}
}

func TestContentHashStableAndExcludesHashField(t *testing.T) {
	snap := Snapshot{Table: "users", Repo: "MyApp.Repo", Attributes: []Attribute{{Name: "id", Type: FieldBinaryID}}}
	h1 := ContentHash(snap)
	snap.Hash = "whatever-was-here-before"
	h2 := ContentHash(snap)
	if h1 != h2 {
		t.Error("expected ContentHash to ignore the existing Hash field")
	}
	if h1 == "" {
		t.Error("expected a non-empty hash")
	}

	snap.Attributes[0].Name = "uuid"
	if ContentHash(snap) == h1 {
		t.Error("expected the hash to change when content changes")
	}
}
