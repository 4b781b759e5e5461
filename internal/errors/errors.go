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
package errors

import "fmt"

// Common error types for the schema migration generator.

type UnsupportedTypeError struct {
	Table     string
	Attribute string
	Type      string
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("no migration_type set up for %s.%s (%s)", e.Table, e.Attribute, e.Type)
}

type ConflictingTypesError struct {
	Table     string
	Attribute string
	Types     []string
}

func (e ConflictingTypesError) Error() string {
	return fmt.Sprintf("conflicting types for %s.%s: %v", e.Table, e.Attribute, e.Types)
}

type ConflictingReferencesError struct {
	Table     string
	Attribute string
}

func (e ConflictingReferencesError) Error() string {
	return fmt.Sprintf("conflicting references for %s.%s", e.Table, e.Attribute)
}

type RenameResolutionFailedError struct {
	Table string
	Tries int
}

func (e RenameResolutionFailedError) Error() string {
	return fmt.Sprintf("could not resolve renames for table %s after %d tries", e.Table, e.Tries)
}

type SnapshotDecodeError struct {
	Path    string
	Message string
}

func (e SnapshotDecodeError) Error() string {
	return fmt.Sprintf("snapshot decode error in %s: %s", e.Path, e.Message)
}

// NoChangesError is non-fatal: it signals the generator should exit quietly
// with no migration written.
type NoChangesError struct {
	Table string
}

func (e NoChangesError) Error() string {
	return fmt.Sprintf("no changes detected for table %s", e.Table)
}

// Error construction helpers.

func NewUnsupportedTypeError(table, attribute, sourceType string) error {
	return UnsupportedTypeError{Table: table, Attribute: attribute, Type: sourceType}
}

func NewConflictingTypesError(table, attribute string, types []string) error {
	return ConflictingTypesError{Table: table, Attribute: attribute, Types: types}
}

func NewConflictingReferencesError(table, attribute string) error {
	return ConflictingReferencesError{Table: table, Attribute: attribute}
}

func NewRenameResolutionFailedError(table string, tries int) error {
	return RenameResolutionFailedError{Table: table, Tries: tries}
}

func NewSnapshotDecodeError(path, message string) error {
	return SnapshotDecodeError{Path: path, Message: message}
}

func NewNoChangesError(table string) error {
	return NoChangesError{Table: table}
}

// Error-checking predicates.

func IsUnsupportedTypeError(err error) bool {
	_, ok := err.(UnsupportedTypeError)
	return ok
}

func IsConflictingTypesError(err error) bool {
	_, ok := err.(ConflictingTypesError)
	return ok
}

func IsConflictingReferencesError(err error) bool {
	_, ok := err.(ConflictingReferencesError)
	return ok
}

func IsRenameResolutionFailedError(err error) bool {
	_, ok := err.(RenameResolutionFailedError)
	return ok
}

func IsSnapshotDecodeError(err error) bool {
	_, ok := err.(SnapshotDecodeError)
	return ok
}

func IsNoChangesError(err error) bool {
	_, ok := err.(NoChangesError)
	return ok
}
