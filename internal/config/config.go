// Package config provides configuration management for msgsync.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/msgsync/internal/util"
)

// Config represents the complete msgsync configuration.
type Config struct {
	// Snapshots configures the default snapshot files for each side
	Snapshots SnapshotsConfig `yaml:"snapshots"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`

	// Backup configures backup behavior
	Backup BackupConfig `yaml:"backup"`
}

// SnapshotsConfig holds the snapshot paths used when --local or --remote are omitted.
type SnapshotsConfig struct {
	// LocalPath is the snapshot loaded into the local store
	LocalPath string `yaml:"local_path"`
	// RemotePath is the snapshot loaded into the remote store
	RemotePath string `yaml:"remote_path"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json, yaml, markdown)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// PreviewWidth is the display width content previews are truncated to
	PreviewWidth int `yaml:"preview_width"`
}

// BackupConfig holds backup settings.
type BackupConfig struct {
	// Enabled enables backups of the local snapshot before it is rewritten
	Enabled bool `yaml:"enabled"`
	// Location is the backup directory path
	Location string `yaml:"location"`
	// MaxBackups is the maximum number of backups to keep (0 keeps all)
	MaxBackups int `yaml:"max_backups"`
}

// Valid output formats.
var validFormats = []string{"table", "json", "yaml", "markdown"}

// Valid color modes.
var validColors = []string{"auto", "always", "never"}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Snapshots: SnapshotsConfig{
			LocalPath:  "local.yaml",
			RemotePath: "remote.yaml",
		},
		Output: OutputConfig{
			Format:       "table",
			Color:        "auto",
			PreviewWidth: 60,
		},
		Backup: BackupConfig{
			Enabled:    true,
			Location:   util.MsgsyncBackupsPath(),
			MaxBackups: 10,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.MsgsyncConfigPath(), configFileName)
}

// Exists reports whether the config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg, err := LoadFromPath(FilePath())
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	cfg.applyEnvironment()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("output.format %q (valid: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if !slices.Contains(validColors, c.Output.Color) {
		return fmt.Errorf("output.color %q (valid: %s)", c.Output.Color, strings.Join(validColors, ", "))
	}
	if c.Output.PreviewWidth < 0 {
		return fmt.Errorf("output.preview_width must not be negative, got %d", c.Output.PreviewWidth)
	}
	if c.Backup.MaxBackups < 0 {
		return fmt.Errorf("backup.max_backups must not be negative, got %d", c.Backup.MaxBackups)
	}
	return nil
}

// LocalPath returns the local snapshot path expanded against baseDir.
func (c *Config) LocalPath(baseDir string) string {
	return util.ExpandPath(c.Snapshots.LocalPath, baseDir)
}

// RemotePath returns the remote snapshot path expanded against baseDir.
func (c *Config) RemotePath(baseDir string) string {
	return util.ExpandPath(c.Snapshots.RemotePath, baseDir)
}

// BackupLocation returns the expanded backup directory.
func (c *Config) BackupLocation() string {
	if c.Backup.Location == "" {
		return util.MsgsyncBackupsPath()
	}
	return util.ExpandPath(c.Backup.Location, "")
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern MSGSYNC_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	// Snapshot settings
	if v := os.Getenv("MSGSYNC_SNAPSHOTS_LOCAL_PATH"); v != "" {
		c.Snapshots.LocalPath = v
	}
	if v := os.Getenv("MSGSYNC_SNAPSHOTS_REMOTE_PATH"); v != "" {
		c.Snapshots.RemotePath = v
	}

	// Output settings
	if v := os.Getenv("MSGSYNC_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = strings.ToLower(v)
	}
	if v := os.Getenv("MSGSYNC_OUTPUT_COLOR"); v != "" {
		c.Output.Color = strings.ToLower(v)
	}
	if v := os.Getenv("MSGSYNC_OUTPUT_PREVIEW_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Output.PreviewWidth = n
		}
	}

	// Backup settings
	if v := os.Getenv("MSGSYNC_BACKUP_ENABLED"); v != "" {
		c.Backup.Enabled = parseBool(v)
	}
	if v := os.Getenv("MSGSYNC_BACKUP_LOCATION"); v != "" {
		c.Backup.Location = v
	}
	if v := os.Getenv("MSGSYNC_BACKUP_MAX_BACKUPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Backup.MaxBackups = n
		}
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
