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
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ocomsoft/schemamigrate/internal/config"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the snapshot directory, migrations directory, and config file",
	Long: `Initialize a project for schemamigrate.

This command:
- Creates the snapshot directory (snapshot_path, default priv/resource_snapshots)
- Creates the migrations directory (migration_path, default priv/)
- Writes a config file (migrations.config.yaml) if one doesn't already exist

Run this once before the first 'schemamigrate generate'.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	if verbose {
		color.Cyan("Initializing schemamigrate")
	}

	if _, err := os.Stat("go.mod"); os.IsNotExist(err) {
		return fmt.Errorf("go.mod not found. Please run this command from the root of a Go module")
	}

	cfg := config.DefaultConfig()

	if err := os.MkdirAll(cfg.Snapshot.SnapshotPath, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if verbose {
		color.Green("Created snapshot directory: %s\n", cfg.Snapshot.SnapshotPath)
	}

	if err := os.MkdirAll(cfg.Snapshot.MigrationPath, 0755); err != nil {
		return fmt.Errorf("failed to create migration directory: %w", err)
	}
	if verbose {
		color.Green("Created migration directory: %s\n", cfg.Snapshot.MigrationPath)
	}

	configPath := config.GetConfigPath()
	if config.ConfigExists() {
		color.Yellow("Config file already exists: %s\n", configPath)
		return nil
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	color.Green("Created config file: %s\n", configPath)
	color.Cyan("Register your resources with the registry package, then run 'schemamigrate generate'.")

	return nil
}
