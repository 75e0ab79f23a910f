// ABOUTME: Configuration for the salesdesk backend connection, caller identity and local services
// ABOUTME: Layers defaults, a YAML file on the XDG config path, .env and SALESDESK_* variables

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/harperreed/salesdesk/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName names the XDG config and data directories.
	AppName = "salesdesk"

	// ConfigFileName is the YAML file under the config directory.
	ConfigFileName = "config.yaml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SALESDESK_"
)

// Config holds everything needed to reach the backend and scope its data.
type Config struct {
	BaseURL  string          `yaml:"base_url"`
	Token    string          `yaml:"token,omitempty"`
	Identity models.Identity `yaml:"identity"`

	DateRangeDays   int           `yaml:"date_range_days"`
	PageSize        int           `yaml:"page_size"`
	Timeout         time.Duration `yaml:"timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// Sequential paces dependent backend calls instead of issuing them together.
	Sequential bool          `yaml:"sequential"`
	Pace       time.Duration `yaml:"pace"`

	Listen      string   `yaml:"listen"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	SnapshotDB string `yaml:"snapshot_db"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:3000",
		Identity:        models.Identity{Role: models.RoleSalesman},
		DateRangeDays:   30,
		PageSize:        10,
		Timeout:         15 * time.Second,
		RefreshInterval: 120 * time.Second,
		Pace:            500 * time.Millisecond,
		Listen:          ":8080",
		CORSOrigins:     []string{"*"},
		LogLevel:        "info",
		LogFormat:       "console",
		SnapshotDB:      filepath.Join(xdg.DataHome, AppName, "snapshots.db"),
	}
}

// Path returns the config file location, creating its directory.
func Path() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join(AppName, ConfigFileName))
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}

// Load reads the config file, then .env, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	path, err := Path()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads config from path, or returns defaults if it does not exist.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Apply defaults for zeroed fields
	defaults := DefaultConfig()
	if cfg.DateRangeDays <= 0 {
		cfg.DateRangeDays = defaults.DateRangeDays
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = defaults.RefreshInterval
	}
	if cfg.SnapshotDB == "" {
		cfg.SnapshotDB = defaults.SnapshotDB
	}

	return cfg, nil
}

// ApplyEnv overrides fields from SALESDESK_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	str("BASE_URL", &c.BaseURL)
	str("TOKEN", &c.Token)
	str("ROLE", &c.Identity.Role)
	str("USER_ID", &c.Identity.ID)
	str("USER_NAME", &c.Identity.Name)
	str("TEAM", &c.Identity.Team)
	str("MANAGED_TEAM", &c.Identity.ManagedTeam)
	str("LISTEN", &c.Listen)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("SNAPSHOT_DB", &c.SnapshotDB)

	if v, ok := lookup(EnvPrefix + "CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}

	ints := map[string]*int{
		"DATE_RANGE_DAYS": &c.DateRangeDays,
		"PAGE_SIZE":       &c.PageSize,
	}
	for key, dst := range ints {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"TIMEOUT":          &c.Timeout,
		"REFRESH_INTERVAL": &c.RefreshInterval,
		"PACE":             &c.Pace,
	}
	for key, dst := range durations {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("failed to parse %s%s: %w", EnvPrefix, key, err)
			}
			*dst = d
		}
	}

	if v, ok := lookup(EnvPrefix + "SEQUENTIAL"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("failed to parse %sSEQUENTIAL: %w", EnvPrefix, err)
		}
		c.Sequential = b
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if !models.IsValidRole(c.Identity.Role) {
		return fmt.Errorf("%w: unknown role %q", models.ErrValidation, c.Identity.Role)
	}
	if c.Timeout < time.Second || c.Timeout > time.Minute {
		return fmt.Errorf("%w: timeout %s outside 1s..60s", models.ErrValidation, c.Timeout)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base_url is required", models.ErrValidation)
	}
	return nil
}

// Save persists the config to the XDG config path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Token != "" {
		out.Token = "********"
	}
	return &out
}
