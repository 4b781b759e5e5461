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
	"database/sql"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ocomsoft/schemamigrate/internal/config"
	"github.com/ocomsoft/schemamigrate/internal/migration"
	"github.com/ocomsoft/schemamigrate/internal/providers/postgresql"
)

var introspectRepo string

// introspectCmd represents the introspect command.
var introspectCmd = &cobra.Command{
	Use:   "introspect",
	Short: "Reconstruct snapshots from a live database",
	Long: `Connect to a live database and reconstruct one snapshot per table,
writing them to the snapshot store as-is. Use this to seed the snapshot
directory for a pre-existing database that schemamigrate has not generated
migrations for before; 'generate' will diff future resource changes against
what this command records.`,
	RunE: runIntrospect,
}

func init() {
	rootCmd.AddCommand(introspectCmd)
	introspectCmd.Flags().StringVar(&introspectRepo, "repo", "default", "Repo identifier to stamp onto the recorded snapshots")
}

func runIntrospect(_ *cobra.Command, _ []string) error {
	cfg := config.LoadOrDefault(configFile)

	if cfg.Database.ConnectionString == "" {
		return fmt.Errorf("database.connection_string is not set; configure it in %s or SCHEMAMIGRATE_DATABASE_CONNECTION_STRING", config.GetConfigPath())
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	provider := postgresql.New()
	snapshots, err := provider.Introspect(db)
	if err != nil {
		return fmt.Errorf("failed to introspect database: %w", err)
	}

	store := migration.NewStore(cfg.Snapshot.SnapshotPath)
	for i := range snapshots {
		snapshots[i].Repo = introspectRepo
		snapshots[i].Hash = migration.ContentHash(snapshots[i])
		if err := store.Save(snapshots[i]); err != nil {
			return fmt.Errorf("failed to save snapshot for table %s: %w", snapshots[i].Table, err)
		}
		if !cfg.Output.Quiet {
			color.Green("Recorded snapshot for table: %s\n", snapshots[i].Table)
		}
	}

	if !cfg.Output.Quiet {
		color.Cyan("Introspected %d tables from %s\n", len(snapshots), cfg.Database.Type)
	}

	return nil
}
