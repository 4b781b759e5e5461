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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	schemaerrors "github.com/ocomsoft/schemamigrate/internal/errors"
	"github.com/ocomsoft/schemamigrate/internal/prompt"
)

// migrationExt is the file extension for the one supported renderer's
// output. A different Renderer implementation would need a different
// extension; this generator only ships the SQL one.
const migrationExt = ".sql"

// Renderer is the external collaborator spec.md §1/§6 calls the
// "downstream migration-script renderer". Given the phased operation stream
// for one migration, it produces the up and down bodies.
type Renderer interface {
	Render(artifactName string, phases []Phase) (up, down string, err error)
}

// Formatter is the opaque external post-processor spec §4.9 allows running
// over the final migration text when the config's format flag is set.
type Formatter interface {
	Format(source string) (string, error)
}

// EmitResult describes the migration file Emit wrote.
type EmitResult struct {
	Path         string
	ArtifactName string
}

// Emit runs the Differ/Orderer/Streamliner/Phaser/Renderer chain over every
// table pair for one repo and writes a single migration file plus the
// updated snapshots (§4.9). When the differ yields no changes it returns a
// nil result and a NoChangesError (§7 NoChanges, non-fatal).
func Emit(pairs []Pair, repo, repoLastSegment, migrationPath string, store *Store, renderer Renderer, formatter Formatter, format, quiet bool, p prompt.Prompter, out io.Writer) (*EmitResult, error) {
	return emit(pairs, repo, repoLastSegment, migrationPath, store, renderer, formatter, format, quiet, false, p, out)
}

// EmitDryRun runs the same Differ/Orderer/Streamliner/Phaser/Renderer chain
// as Emit but writes nothing to disk: the rendered migration text is
// written to out instead of a file, and no snapshot is saved. It is the
// basis for the generate command's --dry-run and --check flags.
func EmitDryRun(pairs []Pair, repo, repoLastSegment, migrationPath string, store *Store, renderer Renderer, formatter Formatter, format, quiet bool, p prompt.Prompter, out io.Writer) (*EmitResult, error) {
	return emit(pairs, repo, repoLastSegment, migrationPath, store, renderer, formatter, format, quiet, true, p, out)
}

func emit(pairs []Pair, repo, repoLastSegment, migrationPath string, store *Store, renderer Renderer, formatter Formatter, format, quiet, dryRun bool, p prompt.Prompter, out io.Writer) (*EmitResult, error) {
	var allOps []Operation
	for _, pair := range pairs {
		ops, err := Diff(pair.New, pair.Old, p)
		if err != nil {
			return nil, err
		}
		allOps = append(allOps, ops...)
	}

	if len(allOps) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No changes detected.")
		}
		return nil, schemaerrors.NewNoChangesError(repo)
	}

	ordered := Order(allOps)
	streamlined := Streamline(ordered)
	phases := Phases(streamlined)

	dir := filepath.Join(migrationPath, underscore(repoLastSegment), "migrations")

	var n int
	var err error
	if dryRun {
		n, err = nextMigrationNumber(dir)
		if err != nil {
			n = 1
		}
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}
		n, err = nextMigrationNumber(dir)
		if err != nil {
			return nil, err
		}
	}

	artifactName := fmt.Sprintf("%s.Migrations.MigrateResources%d", repo, n)

	up, down, err := renderer.Render(artifactName, phases)
	if err != nil {
		return nil, fmt.Errorf("failed to render migration: %w", err)
	}
	text := up + "\n\n" + down

	if format && formatter != nil {
		formatted, err := formatter.Format(text)
		if err != nil {
			return nil, fmt.Errorf("failed to format migration: %w", err)
		}
		text = formatted
	}

	if dryRun {
		fmt.Fprintf(out, "-- %s (not written, --dry-run)\n%s\n", artifactName, text)
		return &EmitResult{ArtifactName: artifactName}, nil
	}

	timestamp := time.Now().UTC().Format("20060102150405")
	filename := fmt.Sprintf("%s_migrate_resources%d%s", timestamp, n, migrationExt)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return nil, fmt.Errorf("failed to write migration %s: %w", path, err)
	}

	for _, pair := range pairs {
		if err := store.Save(pair.New); err != nil {
			return nil, err
		}
	}

	if !quiet {
		fmt.Fprintf(out, "Generated migration: %s\n", path)
	}

	return &EmitResult{Path: path, ArtifactName: artifactName}, nil
}

// nextMigrationNumber counts existing "<timestamp>_migrate_resources<n>.ext"
// files in dir and returns one more than that count (§4.9).
func nextMigrationNumber(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_migrate_resources*"+migrationExt))
	if err != nil {
		return 0, fmt.Errorf("failed to list existing migrations: %w", err)
	}
	return len(matches) + 1, nil
}
