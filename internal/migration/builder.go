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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"github.com/google/uuid"

	schemaerrors "github.com/ocomsoft/schemamigrate/internal/errors"
	"github.com/ocomsoft/schemamigrate/internal/resource"
)

// uuidV4Pointer and nowPointer are the two recognized default-generator
// functions (§4.1), compared by function pointer against whatever the
// resource reports as its Default.Func.
var (
	uuidV4Pointer = reflect.ValueOf(uuid.New).Pointer()
	nowPointer    = reflect.ValueOf(time.Now).Pointer()
)

// sourceTypeMap is the closed mapping from resource source types onto the
// migration-level FieldType set (§4.1).
var sourceTypeMap = map[string]FieldType{
	"string":    FieldText,
	"integer":   FieldInteger,
	"boolean":   FieldBoolean,
	"binary_id": FieldBinaryID,
}

// Build constructs the canonical Snapshot for a resource (§4.1).
func Build(h resource.Handle) (Snapshot, error) {
	table := h.Table()

	attrs := make([]Attribute, 0, len(h.Attributes()))
	for _, a := range h.Attributes() {
		ftype, ok := sourceTypeMap[a.SourceType]
		if !ok {
			return Snapshot{}, schemaerrors.NewUnsupportedTypeError(table, a.Name, a.SourceType)
		}

		attrs = append(attrs, Attribute{
			Name:       a.Name,
			Type:       ftype,
			Default:    renderDefault(a.Default, h.Repo()),
			AllowNil:   a.AllowNil,
			PrimaryKey: a.PrimaryKey,
		})
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	populateReferences(attrs, h)

	identities := buildIdentities(h, attrs)

	snap := Snapshot{
		Table:      table,
		Repo:       h.Repo().String(),
		Attributes: attrs,
		Identities: identities,
	}
	snap.Hash = ContentHash(snap)
	return snap, nil
}

// renderDefault implements §4.1's default-rendering rules.
func renderDefault(d resource.Default, repo resource.Repo) string {
	if d.Func != nil {
		ptr := reflect.ValueOf(d.Func).Pointer()
		switch {
		case ptr == uuidV4Pointer && hasExtension(repo, "uuid-ossp"):
			return `fragment("uuid_generate_v4()")`
		case ptr == nowPointer:
			return `fragment("now()")`
		default:
			return NoDefault
		}
	}
	if d.IsCallable || d.IsASTNode {
		return NoDefault
	}
	if !d.HasValue {
		return NoDefault
	}
	encoded, err := json.Marshal(d.Value)
	if err != nil {
		return NoDefault
	}
	return string(encoded)
}

func hasExtension(repo resource.Repo, name string) bool {
	if repo == nil {
		return false
	}
	for _, ext := range repo.InstalledExtensions() {
		if ext == name {
			return true
		}
	}
	return false
}

// populateReferences scans h's relationships for a belongs_to whose
// source_field names an attribute already present in attrs.
func populateReferences(attrs []Attribute, h resource.Handle) {
	byName := make(map[string]*Attribute, len(attrs))
	for i := range attrs {
		byName[attrs[i].Name] = &attrs[i]
	}

	for _, rel := range h.Relationships() {
		if rel.Type != resource.BelongsTo || rel.Destination == nil {
			continue
		}
		attr, ok := byName[rel.SourceField]
		if !ok {
			continue
		}
		attr.References = &Reference{
			Table:            rel.Destination.Table(),
			DestinationField: rel.DestinationField,
		}
	}
}

// buildIdentities keeps only identities whose keys all name an existing
// attribute, sorted by name (§4.1).
func buildIdentities(h resource.Handle, attrs []Attribute) []Identity {
	known := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		known[a.Name] = true
	}

	var identities []Identity
	for _, idef := range h.Identities() {
		allKnown := true
		for _, k := range idef.Keys {
			if !known[k] {
				allKnown = false
				break
			}
		}
		if !allKnown {
			continue
		}
		identities = append(identities, Identity{Name: idef.Name, Keys: idef.Keys})
	}
	sort.Slice(identities, func(i, j int) bool { return identities[i].Name < identities[j].Name })
	return identities
}

// ContentHash is the hex-encoded SHA-256 over the canonical serialization of
// snap, excluding the hash field itself (§4.1). Exported so callers that
// construct a Snapshot outside the Builder (the introspect command) can
// stamp a consistent hash too.
func ContentHash(snap Snapshot) string {
	snap.Hash = ""
	canonical, err := json.Marshal(snap)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
