// Package config loads server configuration from an optional TOML file with
// environment-variable overrides. A missing file yields the defaults.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the full server configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Events  EventsConfig  `toml:"events"`
	Ledger  LedgerConfig  `toml:"ledger"`
}

type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects the backing store. Backend is "memory", "sqlite" or
// "postgres"; Path is the sqlite file, DSN the postgres connection string.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	TokenTTL  string `toml:"token_ttl"`
}

// EventsConfig configures the change-notification channel. With no brokers
// events are disabled.
type EventsConfig struct {
	Brokers []string `toml:"brokers"`
}

// LedgerConfig holds the grouping policy: "reference_first",
// "reference_only" or "party_only".
type LedgerConfig struct {
	GroupPolicy string `toml:"group_policy"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		API:     APIConfig{Host: "127.0.0.1", Port: 8080},
		Storage: StorageConfig{Backend: "sqlite", Path: "ledger.db"},
		Auth:    AuthConfig{TokenTTL: "24h"},
		Ledger:  LedgerConfig{GroupPolicy: "reference_first"},
	}
}

// Load reads the TOML file at path (skipped when empty or missing) and then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, err
			}
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LEDGER_HOST"); v != "" {
		c.API.Host = v
	}
	if v := os.Getenv("LEDGER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.API.Port = p
		}
	}
	if v := os.Getenv("LEDGER_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("LEDGER_SQLITE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("LEDGER_GROUP_POLICY"); v != "" {
		c.Ledger.GroupPolicy = v
	}
}
