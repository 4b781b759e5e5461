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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	yaml "gopkg.in/yaml.v3"
)

// Config represents the schema migration generator's configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Snapshot SnapshotConfig `yaml:"snapshot" mapstructure:"snapshot"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// DatabaseConfig names the single target relational engine. The type is
// fixed at postgresql; the field exists so connection settings have a home
// for the introspect command.
type DatabaseConfig struct {
	Type             string `yaml:"type" mapstructure:"type"`
	ConnectionString string `yaml:"connection_string" mapstructure:"connection_string"`
}

// SnapshotConfig locates the on-disk snapshot store and migration output.
type SnapshotConfig struct {
	SnapshotPath string `yaml:"snapshot_path" mapstructure:"snapshot_path"` // priv/resource_snapshots by default
	MigrationPath string `yaml:"migration_path" mapstructure:"migration_path"` // priv/ by default
}

// OutputConfig controls the generator's console posture.
type OutputConfig struct {
	Quiet  bool `yaml:"quiet" mapstructure:"quiet"`   // suppress non-error output
	Format bool `yaml:"format" mapstructure:"format"` // run the emitted artifact through a formatter
}

// DefaultConfig returns the generator's defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type: "postgresql",
		},
		Snapshot: SnapshotConfig{
			SnapshotPath:  "priv/resource_snapshots",
			MigrationPath: "priv/",
		},
		Output: OutputConfig{
			Quiet:  false,
			Format: true,
		},
	}
}

// Load reads configuration from a file and the environment, falling back to
// DefaultConfig for anything unset.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SCHEMAMIGRATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("migrations.config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads configuration or returns the defaults if not found.
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// Save writes the configuration to path, with a commented header describing
// the environment-variable override scheme.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# schemamigrate configuration file
#
# All settings can be overridden using environment variables with the
# prefix SCHEMAMIGRATE_. For example: SCHEMAMIGRATE_OUTPUT_QUIET=true
#
# For nested values, use underscores: SCHEMAMIGRATE_SNAPSHOT_SNAPSHOT_PATH=priv/snapshots
#

`

	fullContent := []byte(header + string(data))
	if err := os.WriteFile(path, fullContent, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("database.type", cfg.Database.Type)
	v.SetDefault("database.connection_string", cfg.Database.ConnectionString)

	v.SetDefault("snapshot.snapshot_path", cfg.Snapshot.SnapshotPath)
	v.SetDefault("snapshot.migration_path", cfg.Snapshot.MigrationPath)

	v.SetDefault("output.quiet", cfg.Output.Quiet)
	v.SetDefault("output.format", cfg.Output.Format)
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	return "migrations.config.yaml"
}

// ConfigExists reports whether a config file exists at the default path.
func ConfigExists() bool {
	_, err := os.Stat(GetConfigPath())
	return err == nil
}
