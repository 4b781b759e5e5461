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

import (
	"errors"
	"testing"
)

func TestErrorConstructorsAndPredicates(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		is      func(error) bool
		wrongIs func(error) bool
	}{
		{"unsupported type", NewUnsupportedTypeError("users", "blob", "bytea"), IsUnsupportedTypeError, IsNoChangesError},
		{"conflicting types", NewConflictingTypesError("users", "age", []string{"integer", "text"}), IsConflictingTypesError, IsUnsupportedTypeError},
		{"conflicting references", NewConflictingReferencesError("posts", "author_id"), IsConflictingReferencesError, IsConflictingTypesError},
		{"rename resolution failed", NewRenameResolutionFailedError("users", 3), IsRenameResolutionFailedError, IsConflictingReferencesError},
		{"snapshot decode", NewSnapshotDecodeError("users.json", "bad field"), IsSnapshotDecodeError, IsRenameResolutionFailedError},
		{"no changes", NewNoChangesError("users"), IsNoChangesError, IsSnapshotDecodeError},
	}

	for _, c := range cases {
		if !c.is(c.err) {
			t.Errorf("%s: expected the matching predicate to report true", c.name)
		}
		if c.wrongIs(c.err) {
			t.Errorf("%s: expected an unrelated predicate to report false", c.name)
		}
		if c.err.Error() == "" {
			t.Errorf("%s: expected a non-empty error message", c.name)
		}
	}
}

func TestPredicatesRejectPlainErrors(t *testing.T) {
	plain := errors.New("boom")
	for _, is := range []func(error) bool{
		IsUnsupportedTypeError, IsConflictingTypesError, IsConflictingReferencesError,
		IsRenameResolutionFailedError, IsSnapshotDecodeError, IsNoChangesError,
	} {
		if is(plain) {
			t.Error("expected a plain error to not match any typed predicate")
		}
	}
}
