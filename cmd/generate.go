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
package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	schemaerrors "github.com/ocomsoft/schemamigrate/internal/errors"
	"github.com/ocomsoft/schemamigrate/internal/config"
	"github.com/ocomsoft/schemamigrate/internal/migration"
	"github.com/ocomsoft/schemamigrate/internal/prompt"
	"github.com/ocomsoft/schemamigrate/internal/providers/postgresql"
	"github.com/ocomsoft/schemamigrate/internal/registry"
	"github.com/ocomsoft/schemamigrate/internal/render"
)

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Diff registered resources against their snapshots and write a migration",
	Long: `Build a Snapshot for every resource registered with internal/registry,
merge duplicates sharing a table, diff each against its last recorded
snapshot, order and phase the resulting operations, and write a single
migration file plus updated snapshots.

Prints an informational message and writes nothing if there are no
changes.`,
	RunE: runGenerate,
}

var (
	generateQuiet         bool
	generateNoFormat      bool
	generateSnapshotPath  string
	generateMigrationPath string
	generateDryRun        bool
	generateCheck         bool
)

func init() {
	generateCmd.Flags().BoolVar(&generateQuiet, "quiet", false, "suppress progress messages")
	generateCmd.Flags().BoolVar(&generateNoFormat, "no-format", false, "skip the optional post-processing formatter")
	generateCmd.Flags().StringVar(&generateSnapshotPath, "snapshot-path", "", "override the configured snapshot directory")
	generateCmd.Flags().StringVar(&generateMigrationPath, "migration-path", "", "override the configured migration directory")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print the would-be migration text instead of writing it")
	generateCmd.Flags().BoolVar(&generateCheck, "check", false, "exit nonzero if any registered repo has pending changes")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg := config.LoadOrDefault(configFile)

	if cmd.Flags().Changed("quiet") {
		cfg.Output.Quiet = generateQuiet
	}
	if generateNoFormat {
		cfg.Output.Format = false
	}
	if generateSnapshotPath != "" {
		cfg.Snapshot.SnapshotPath = generateSnapshotPath
	}
	if generateMigrationPath != "" {
		cfg.Snapshot.MigrationPath = generateMigrationPath
	}

	handles := registry.All()
	if len(handles) == 0 {
		return fmt.Errorf("no resources registered; import a package that calls registry.Register in an init function")
	}

	byRepo := make(map[string][]migration.Snapshot)
	repoHandle := make(map[string]struct {
		String, LastSegment string
	})
	for _, h := range handles {
		snap, err := migration.Build(h)
		if err != nil {
			return err
		}
		repo := h.Repo()
		byRepo[repo.String()] = append(byRepo[repo.String()], snap)
		repoHandle[repo.String()] = struct{ String, LastSegment string }{repo.String(), repo.LastNameSegment()}
	}

	repos := make([]string, 0, len(byRepo))
	for r := range byRepo {
		repos = append(repos, r)
	}
	sort.Strings(repos)

	store := migration.NewStore(cfg.Snapshot.SnapshotPath)
	p := prompt.NewConsole()
	provider := postgresql.New()
	renderer := render.New(provider.QuoteIdent)

	var out io.Writer = os.Stdout

	changed := false
	for _, r := range repos {
		pairs, err := migration.Dedup(byRepo[r], store, p)
		if err != nil {
			return err
		}

		var result *migration.EmitResult
		if generateDryRun || generateCheck {
			result, err = migration.EmitDryRun(pairs, r, repoHandle[r].LastSegment, cfg.Snapshot.MigrationPath, store, renderer, nil, cfg.Output.Format, cfg.Output.Quiet || generateCheck, p, out)
		} else {
			result, err = migration.Emit(pairs, r, repoHandle[r].LastSegment, cfg.Snapshot.MigrationPath, store, renderer, nil, cfg.Output.Format, cfg.Output.Quiet, p, out)
		}
		if err != nil {
			if schemaerrors.IsNoChangesError(err) {
				continue
			}
			return err
		}
		changed = true
		if !cfg.Output.Quiet && !generateDryRun && !generateCheck {
			fmt.Fprintf(out, "Wrote %s\n", result.Path)
		}
	}

	if generateCheck && changed {
		return fmt.Errorf("pending schema changes detected")
	}

	if !changed && !cfg.Output.Quiet {
		fmt.Fprintln(out, "No changes detected across any registered repo.")
	}

	return nil
}
