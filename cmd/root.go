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

// Package cmd wires the generator's cobra commands: generate, init,
// introspect, and version.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ocomsoft/schemamigrate/internal/version"
)

var (
	configFile string
	verbose    bool
)

// rootCmd is the base command when schemamigrate is called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "schemamigrate",
	Short: "Schema migration generator",
	Long: `Compare the in-memory resource definitions registered with this tool
against the last recorded snapshot of the schema, compute a minimal and
correctly ordered sequence of schema changes, and emit a timestamped
migration file plus an updated snapshot.

Available commands:
- generate: diff registered resources against their snapshots and write a migration
- init: set up the snapshot directory, migrations directory, and config file
- introspect: reconstruct snapshots from a live database
- version: show version information`,
}

// GetRootCmd returns the root command, for embedding in other applications.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. Called once from main.
func Execute() {
	fmt.Printf("%s\n", version.GetDisplayVersion())
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: migrations.config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Show detailed processing information")
}
