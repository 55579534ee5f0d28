// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/hydutils/internal/dateutil"
	"github.com/javiermolinar/hydutils/internal/frame"
	"github.com/javiermolinar/hydutils/internal/hydro"
)

// Config holds the application configuration.
type Config struct {
	Table  TableConfig  `toml:"table"`
	Checks ChecksConfig `toml:"checks"`
	Output OutputConfig `toml:"output"`
}

// TableConfig describes how tables are read.
type TableConfig struct {
	TimestampColumn string   `toml:"timestamp_column"` // e.g., "Timeseries"
	TimeLayout      string   `toml:"time_layout"`      // Go layout, e.g., "2006-01-02 15:04:05"
	IndexColumn     string   `toml:"index_column"`     // optional column holding row labels
	NAValues        []string `toml:"na_values"`        // cell values read as missing
}

// ChecksConfig holds the defaults for the validation commands.
type ChecksConfig struct {
	Interval string   `toml:"interval"` // e.g., "1h", "15m" or "60" (minutes)
	Columns  []string `toml:"columns"`  // empty means all columns
	Start    string   `toml:"start"`    // optional filter start
	End      string   `toml:"end"`      // optional filter end
}

// OutputConfig holds terminal output settings.
type OutputConfig struct {
	Color       bool `toml:"color"`
	PreviewRows int  `toml:"preview_rows"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Table: TableConfig{
			TimestampColumn: hydro.TimeseriesColumn,
			TimeLayout:      frame.DefaultTimeLayout,
			IndexColumn:     "",
			NAValues:        []string{"", "NA", "NaN", "null", "<nil>"},
		},
		Checks: ChecksConfig{
			Interval: "1h",
			Columns:  []string{},
		},
		Output: OutputConfig{
			Color:       true,
			PreviewRows: 10,
		},
	}
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "hydutils", "config.toml")
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(expandPath(path), cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFile loads configuration from path over the defaults, without
// environment overrides. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(expandPath(path), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// Table overrides
	if v := os.Getenv("HYDUTILS_TIMESTAMP_COLUMN"); v != "" {
		cfg.Table.TimestampColumn = v
	}
	if v := os.Getenv("HYDUTILS_TIME_LAYOUT"); v != "" {
		cfg.Table.TimeLayout = v
	}
	if v := os.Getenv("HYDUTILS_INDEX_COLUMN"); v != "" {
		cfg.Table.IndexColumn = v
	}

	// Check overrides
	if v := os.Getenv("HYDUTILS_INTERVAL"); v != "" {
		cfg.Checks.Interval = v
	}
	if v := os.Getenv("HYDUTILS_COLUMNS"); v != "" {
		cfg.Checks.Columns = splitList(v)
	}
	if v := os.Getenv("HYDUTILS_START"); v != "" {
		cfg.Checks.Start = v
	}
	if v := os.Getenv("HYDUTILS_END"); v != "" {
		cfg.Checks.End = v
	}

	// Output overrides
	if v := os.Getenv("HYDUTILS_NO_COLOR"); v != "" {
		if noColor, err := strconv.ParseBool(v); err == nil {
			cfg.Output.Color = !noColor
		}
	}
}

// splitList splits a comma-separated list, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Table.TimestampColumn) == "" {
		return errors.New("timestamp_column must be set")
	}
	if c.Table.TimeLayout == "" {
		return errors.New("time_layout must be set")
	}
	if c.Table.IndexColumn != "" && c.Table.IndexColumn == c.Table.TimestampColumn {
		return errors.New("index_column must differ from timestamp_column")
	}
	if _, err := dateutil.ParseInterval(c.Checks.Interval); err != nil {
		return fmt.Errorf("interval %q: %w", c.Checks.Interval, err)
	}
	if _, err := c.Range(); err != nil {
		return err
	}
	if c.Output.PreviewRows < 0 {
		return errors.New("preview_rows must not be negative")
	}
	return nil
}

// Interval returns the parsed check interval.
func (c *Config) Interval() time.Duration {
	d, err := dateutil.ParseInterval(c.Checks.Interval)
	if err != nil {
		return time.Hour
	}
	return d
}

// Range returns the configured filter range.
func (c *Config) Range() (dateutil.TimeRange, error) {
	r, err := dateutil.NewTimeRange(c.Checks.Start, c.Checks.End, c.Table.TimeLayout)
	if err != nil {
		return dateutil.TimeRange{}, fmt.Errorf("filter range: %w", err)
	}
	return r, nil
}

// LoadOptions returns the table load options described by the config.
func (c *Config) LoadOptions() *frame.LoadOptions {
	return &frame.LoadOptions{
		TimeColumn:  c.Table.TimestampColumn,
		TimeLayout:  c.Table.TimeLayout,
		IndexColumn: c.Table.IndexColumn,
		NAValues:    c.Table.NAValues,
	}
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
