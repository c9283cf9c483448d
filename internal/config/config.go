package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/osutil"
)

const (
	// AppName is the application name used for config directory
	AppName = "punch"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// DefaultRefreshInterval is how often the live status is republished
	DefaultRefreshInterval = "30s"
	// MinRefreshInterval is the smallest accepted refresh_interval
	MinRefreshInterval = time.Second
)

// Environment variables that override the config file
const (
	EnvDataDir   = "PUNCH_DATA_DIR"
	EnvTimezone  = "PUNCH_TIMEZONE"
	EnvReminders = "PUNCH_REMINDERS"
)

// Config represents the application configuration
type Config struct {
	// WeekStartDay defines which day starts the week (monday or sunday)
	WeekStartDay string `toml:"week_start_day"`
	// Timezone defines the timezone for time operations (IANA timezone name, e.g., "America/New_York")
	Timezone string `toml:"timezone"`
	// DefaultColor is the display colour of projects without a category
	DefaultColor string `toml:"default_color"`
	// RemindersEnabled turns the hourly "still working?" reminders on or off
	RemindersEnabled bool `toml:"reminders_enabled"`
	// RefreshInterval is a Go duration string, e.g. "30s"
	RefreshInterval string `toml:"refresh_interval"`
	// Theme is the bubbletint id used by `punch watch`
	Theme string `toml:"theme"`
	// DataDir overrides where the database and state files live
	DataDir string `toml:"data_dir,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		WeekStartDay:     "monday",
		Timezone:         "Local",
		DefaultColor:     entry.DefaultColor,
		RemindersEnabled: true,
		RefreshInterval:  DefaultRefreshInterval,
		Theme:            "dracula",
	}
}

// Normalize lower-cases and trims fields that are matched case-insensitively.
func (c *Config) Normalize() {
	c.WeekStartDay = strings.ToLower(strings.TrimSpace(c.WeekStartDay))
	c.Timezone = strings.TrimSpace(c.Timezone)
	c.DefaultColor = strings.ToUpper(strings.TrimSpace(c.DefaultColor))
	c.RefreshInterval = strings.TrimSpace(c.RefreshInterval)
	c.Theme = strings.TrimSpace(c.Theme)
	c.DataDir = strings.TrimSpace(c.DataDir)
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.WeekStartDay != "monday" && c.WeekStartDay != "sunday" {
		return fmt.Errorf("invalid week_start_day %q: must be \"monday\" or \"sunday\"", c.WeekStartDay)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.DefaultColor != "" {
		if _, err := entry.NormalizeColor(c.DefaultColor); err != nil {
			return fmt.Errorf("invalid default_color: %w", err)
		}
	}

	if c.RefreshInterval != "" {
		d, err := time.ParseDuration(c.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid refresh_interval %q: %w", c.RefreshInterval, err)
		}
		if d < MinRefreshInterval {
			return fmt.Errorf("invalid refresh_interval %q: must be at least %s", c.RefreshInterval, MinRefreshInterval)
		}
	}

	return nil
}

// Location resolves Timezone. Empty and "Local" mean the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// WeekStart returns the configured first day of the week.
func (c Config) WeekStart() time.Weekday {
	if c.WeekStartDay == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// Refresh returns the refresh interval, falling back to the default.
func (c Config) Refresh() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d < MinRefreshInterval {
		d, _ = time.ParseDuration(DefaultRefreshInterval)
	}
	return d
}

// Color returns the default project colour, falling back to entry.DefaultColor.
func (c Config) Color() string {
	if c.DefaultColor == "" {
		return entry.DefaultColor
	}
	return c.DefaultColor
}

// Load reads and validates the config file at path. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file, or returns DefaultConfig when the file
// does not exist. An existing but invalid file is an error.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// Save writes cfg to path in TOML format.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	buf.WriteString("# punch configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return osutil.WriteFileAtomic(path, buf.Bytes(), 0644)
}

// LoadEnvFiles loads KEY=value pairs from the given .env files (or ".env"
// when none are given) into the process environment. Missing files are
// ignored; existing variables are not overwritten.
func LoadEnvFiles(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides fields from environment variables read with lookup,
// usually os.LookupEnv. Malformed values are reported and leave the field
// unchanged.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvTimezone); ok && v != "" {
		c.Timezone = v
	}
	if v, ok := lookup(EnvReminders); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvReminders, v, err)
		}
		c.RemindersEnabled = enabled
	}
	c.Normalize()
	return nil
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)

	// Create config directory if it doesn't exist
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, ConfigFile), nil
}

// GenerateSampleConfig returns a commented config file documenting every key.
func GenerateSampleConfig() string {
	return `# punch configuration file
# Uncomment and edit the values you want to change.

# Week start day: "monday" or "sunday"
# week_start_day = "monday"

# Timezone: IANA timezone name or "Local"
# Examples: "America/New_York", "Europe/London", "Asia/Tokyo"
# timezone = "Local"

# Colour of projects without a category (#RRGGBB)
# default_color = "#8E8E93"

# Hourly "still working?" reminders while a session is running
# reminders_enabled = true

# How often the live status is republished while running (minimum 1s)
# refresh_interval = "30s"

# Theme for "punch watch" (any bubbletint id)
# theme = "dracula"

# Where the database and state files live (defaults to the config directory)
# data_dir = "/path/to/data"

# Environment overrides (also read from a .env file in the working directory):
#   PUNCH_DATA_DIR, PUNCH_TIMEZONE, PUNCH_REMINDERS
`
}
