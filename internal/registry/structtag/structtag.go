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

// Package structtag lets an ordinary tagged Go struct satisfy
// resource.Handle without the caller hand-writing the interface: it reads
// db/sql/gorm/bun field tags off a struct value via reflection, the way
// an ORM would, and reports them as AttributeDef/IdentityDef/RelationshipDef.
package structtag

import (
	"reflect"
	"strings"

	"github.com/ocomsoft/schemamigrate/internal/resource"
)

// tagPriority mirrors the order an ORM's own tag resolution would check:
// an explicit db tag wins over a looser sql/gorm/bun annotation.
var tagPriority = []string{"db", "sql", "gorm", "bun"}

type tagInfo struct {
	ColumnName string
	Type       string
	PrimaryKey bool
	Nullable   *bool
	Default    string
	Unique     bool
	Ignore     bool
	ForeignKey string // referenced table name, if this field is a belongs_to FK
}

func parseTags(tag reflect.StructTag) tagInfo {
	var info tagInfo
	for _, key := range tagPriority {
		if v := tag.Get(key); v != "" {
			parseOne(key, v, &info)
		}
	}
	return info
}

func parseOne(key, value string, info *tagInfo) {
	if value == "-" {
		info.Ignore = true
		return
	}
	switch key {
	case "db":
		if info.ColumnName == "" {
			info.ColumnName = value
		}
	case "sql", "bun":
		parts := strings.Split(value, ",")
		for i, part := range parts {
			part = strings.TrimSpace(part)
			if i == 0 && part != "" && info.ColumnName == "" {
				info.ColumnName = part
				continue
			}
			parseOption(part, info)
		}
	case "gorm":
		for _, part := range strings.Split(value, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if idx := strings.Index(part, ":"); idx >= 0 {
				parseGORMOption(strings.TrimSpace(part[:idx]), strings.TrimSpace(part[idx+1:]), info)
			} else {
				parseGORMOption(part, "", info)
			}
		}
	}
}

func parseOption(option string, info *tagInfo) {
	switch strings.ToLower(option) {
	case "primary_key", "pk":
		info.PrimaryKey = true
	case "not null", "notnull":
		f := false
		info.Nullable = &f
	case "null":
		t := true
		info.Nullable = &t
	case "unique":
		info.Unique = true
	}
}

func parseGORMOption(key, value string, info *tagInfo) {
	switch strings.ToLower(key) {
	case "column":
		if info.ColumnName == "" {
			info.ColumnName = value
		}
	case "type":
		if info.Type == "" {
			info.Type = value
		}
	case "primarykey", "primary_key":
		info.PrimaryKey = true
	case "not null", "notnull":
		f := false
		info.Nullable = &f
	case "null":
		t := true
		info.Nullable = &t
	case "default":
		if info.Default == "" {
			info.Default = value
		}
	case "foreignkey", "foreign_key", "references":
		info.ForeignKey = value
	case "unique", "uniqueindex", "unique_index":
		info.Unique = true
	}
}

func toSnakeCase(s string) string {
	if s == "" {
		return ""
	}
	var out strings.Builder
	out.Grow(len(s) + 4)
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			out.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			out.WriteRune(r + 32)
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// goKindToSourceType maps a Go field's reflect.Kind to the source-type
// vocabulary resource.AttributeDef.SourceType expects, prior to the
// Snapshot Builder's closed-type mapping.
func goKindToSourceType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 && t.Len() == 16 {
			return "binary_id"
		}
		return "string"
	case reflect.Ptr:
		return goKindToSourceType(t.Elem())
	default:
		return "string"
	}
}

// Handle adapts a tagged Go struct value into a resource.Handle.
type Handle struct {
	table         string
	repo          resource.Repo
	attrs         []resource.AttributeDef
	identities    []resource.IdentityDef
	relationships []resource.RelationshipDef
}

// New builds a Handle for table from v, a pointer to (or value of) a tagged
// struct, resolving belongs_to relationships against resolve, which maps a
// referenced table name to its own Handle (nil entries are skipped: the
// destination is assumed to live outside this repo).
func New(table string, v any, repo resource.Repo, resolve func(table string) resource.Handle) *Handle {
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	h := &Handle{table: table, repo: repo}

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue // unexported
		}
		info := parseTags(field.Tag)
		if info.Ignore {
			continue
		}

		name := info.ColumnName
		if name == "" {
			name = toSnakeCase(field.Name)
		}

		allowNil := info.Nullable == nil || *info.Nullable
		sourceType := info.Type
		if sourceType == "" {
			sourceType = goKindToSourceType(field.Type)
		}

		var def resource.Default
		if info.Default != "" {
			def = resource.Default{Value: info.Default, HasValue: true}
		}

		h.attrs = append(h.attrs, resource.AttributeDef{
			Name:       name,
			SourceType: sourceType,
			Default:    def,
			AllowNil:   allowNil,
			PrimaryKey: info.PrimaryKey,
		})

		if info.Unique {
			h.identities = append(h.identities, resource.IdentityDef{
				Name: table + "_" + name + "_index",
				Keys: []string{name},
			})
		}

		if info.ForeignKey != "" {
			var dest resource.Handle
			if resolve != nil {
				dest = resolve(info.ForeignKey)
			}
			h.relationships = append(h.relationships, resource.RelationshipDef{
				Type:             resource.BelongsTo,
				SourceField:      name,
				DestinationField: "id",
				Destination:      dest,
			})
		}
	}

	return h
}

func (h *Handle) Table() string                             { return h.table }
func (h *Handle) Repo() resource.Repo                        { return h.repo }
func (h *Handle) Attributes() []resource.AttributeDef        { return h.attrs }
func (h *Handle) Identities() []resource.IdentityDef         { return h.identities }
func (h *Handle) Relationships() []resource.RelationshipDef  { return h.relationships }
