package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Garmin    GarminConfig    `yaml:"garmin"`
	Timezone  string          `yaml:"timezone"`
	Sync      SyncConfig      `yaml:"sync"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Schema   string `yaml:"schema"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// GarminConfig locates the vendor account. DisplayName is the profile UUID
// Garmin embeds in per-user endpoint paths; TokenFile holds the bearer token
// maintained by an external refresher.
type GarminConfig struct {
	APIURL      string `yaml:"api_url"`
	DisplayName string `yaml:"display_name"`
	TokenFile   string `yaml:"token_file"`
}

// SyncConfig tunes the homepulse-sync CLI.
type SyncConfig struct {
	Metrics     []string `yaml:"metrics"`
	Concurrency int      `yaml:"concurrency"`
	StateDir    string   `yaml:"state_dir"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string. A non-empty schema is applied
// via search_path so all tables live outside public.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
	if d.Schema != "" {
		dsn += "&search_path=" + d.Schema
	}
	return dsn
}

// Location resolves the configured timezone name. Stored timestamps are
// rendered in this zone; empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix HOMEPULSE_ and underscore-separated paths:
//
//	HOMEPULSE_SERVER_HOST, HOMEPULSE_SERVER_PORT,
//	HOMEPULSE_DB_HOST, HOMEPULSE_DB_PORT, HOMEPULSE_DB_NAME,
//	HOMEPULSE_DB_USER, HOMEPULSE_DB_PASSWORD, HOMEPULSE_DB_SCHEMA,
//	HOMEPULSE_DB_SSLMODE, HOMEPULSE_AUTH_API_KEY,
//	HOMEPULSE_GARMIN_API_URL, HOMEPULSE_GARMIN_DISPLAY_NAME,
//	HOMEPULSE_GARMIN_TOKEN_FILE, HOMEPULSE_TIMEZONE,
//	HOMEPULSE_SYNC_METRICS (comma-separated), HOMEPULSE_SYNC_CONCURRENCY,
//	HOMEPULSE_SYNC_STATE_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HOMEPULSE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HOMEPULSE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HOMEPULSE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("HOMEPULSE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("HOMEPULSE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("HOMEPULSE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("HOMEPULSE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("HOMEPULSE_DB_SCHEMA"); v != "" {
		cfg.Database.Schema = v
	}
	if v := os.Getenv("HOMEPULSE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("HOMEPULSE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("HOMEPULSE_GARMIN_API_URL"); v != "" {
		cfg.Garmin.APIURL = v
	}
	if v := os.Getenv("HOMEPULSE_GARMIN_DISPLAY_NAME"); v != "" {
		cfg.Garmin.DisplayName = v
	}
	if v := os.Getenv("HOMEPULSE_GARMIN_TOKEN_FILE"); v != "" {
		cfg.Garmin.TokenFile = v
	}
	if v := os.Getenv("HOMEPULSE_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("HOMEPULSE_SYNC_METRICS"); v != "" {
		cfg.Sync.Metrics = splitList(v)
	}
	if v := os.Getenv("HOMEPULSE_SYNC_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sync.Concurrency = n
		}
	}
	if v := os.Getenv("HOMEPULSE_SYNC_STATE_DIR"); v != "" {
		cfg.Sync.StateDir = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Garmin.DisplayName == "" {
		return fmt.Errorf("garmin.display_name is required")
	}
	if c.Garmin.TokenFile == "" {
		return fmt.Errorf("garmin.token_file is required")
	}
	return nil
}
