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
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Database.Type != "postgresql" {
		t.Errorf("expected default database type postgresql, got %s", cfg.Database.Type)
	}
	if cfg.Snapshot.SnapshotPath != "priv/resource_snapshots" {
		t.Errorf("unexpected default snapshot path: %s", cfg.Snapshot.SnapshotPath)
	}
	if !cfg.Output.Format {
		t.Error("expected format to default to true")
	}
}

func TestLoadWithoutConfigFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Type != "postgresql" {
		t.Errorf("expected defaults when no config file is present, got %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "migrations.config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Quiet = true
	cfg.Database.ConnectionString = "postgres://localhost/test"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !loaded.Output.Quiet {
		t.Error("expected the saved quiet=true setting to round-trip")
	}
	if loaded.Database.ConnectionString != "postgres://localhost/test" {
		t.Errorf("expected the connection string to round-trip, got %q", loaded.Database.ConnectionString)
	}
}

func TestLoadOrDefaultNeverErrors(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg == nil {
		t.Fatal("expected a non-nil config even when the file is missing")
	}
}

func TestConfigExists(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	defer os.Chdir(cwd)

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	if ConfigExists() {
		t.Error("expected no config file in a fresh directory")
	}

	if err := DefaultConfig().Save(GetConfigPath()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !ConfigExists() {
		t.Error("expected ConfigExists to find the file just saved")
	}
}
