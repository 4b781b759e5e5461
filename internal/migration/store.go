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
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	schemaerrors "github.com/ocomsoft/schemamigrate/internal/errors"
)

// Store loads and persists Snapshot values as JSON files on disk, keyed by
// (repo, table) (§4.2).
type Store struct {
	// SnapshotPath is the root directory snapshots are written under
	// (config's snapshot_path, default "priv/resource_snapshots").
	SnapshotPath string
}

// NewStore builds a Store rooted at snapshotPath.
func NewStore(snapshotPath string) *Store {
	return &Store{SnapshotPath: snapshotPath}
}

// path computes <snapshot_path>/<underscore(last_segment(repo))>/<table>.json.
func (s *Store) path(repo, table string) string {
	segment := repo
	if idx := strings.LastIndex(repo, "."); idx != -1 {
		segment = repo[idx+1:]
	}
	return filepath.Join(s.SnapshotPath, underscore(segment), table+".json")
}

// underscore lowercases a CamelCase segment into snake_case, the way the
// repo's last name segment becomes a directory name.
func underscore(s string) string {
	var out strings.Builder
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

// Load returns the existing snapshot for (repo, table), or (Snapshot{},
// false, nil) when none has ever been written — "no prior snapshot" is
// distinct from an empty one. A snapshot file that exists but violates the
// strict-key decode policy is a fatal SnapshotDecodeError.
func (s *Store) Load(repo, table string) (Snapshot, bool, error) {
	path := s.path(repo, table)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, false, schemaerrors.NewSnapshotDecodeError(path, err.Error())
	}
	return snap, true, nil
}

// Save pretty-prints snap to its canonical path, creating parent directories
// as needed and backing up any file it is about to overwrite.
func (s *Store) Save(snap Snapshot) error {
	path := s.path(snap.Repo, snap.Table)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := s.backup(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for %s: %w", snap.Table, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// backup copies an existing snapshot file to a .bak sibling before it is
// overwritten, so an operator can recover from a bad generation.
func (s *Store) backup(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot for backup %s: %w", path, err)
	}
	if err := os.WriteFile(path+".bak", data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot backup for %s: %w", path, err)
	}
	return nil
}
