// Package config loads suretime settings from a YAML file with
// environment overrides. Defaults live in code; a config file and the
// environment only narrow them.
//
// Recognized environment variables:
//
//	SURETIME_CONFIG         path of the config file for Resolve
//	SURETIME_CACHE          cache path override ("none" disables)
//	SURETIME_NTP_CONTINENT  NTP pool continent override
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/suretime/suretime/pkg/cache"
	"github.com/suretime/suretime/pkg/ntp"
)

// Cache backend selectors.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// NoCache as the cache path disables persistence entirely.
const NoCache = "none"

// Config holds every tunable of the library and CLI.
type Config struct {
	// CachePath is where the built mapping is persisted. Empty selects
	// a per-user default location; NoCache disables persistence.
	CachePath string `yaml:"cache_path"`

	// CacheBackend is BackendFile or BackendSQLite.
	CacheBackend string `yaml:"cache_backend"`

	// ExpirationMinutes bounds the age of a served mapping. Zero
	// selects cache.DefaultExpirationMinutes.
	ExpirationMinutes int `yaml:"expiration_minutes"`

	// CLDRSource overrides where windowsZones.xml comes from: an
	// http(s) URL or a local file path. Empty selects the canonical
	// CLDR location.
	CLDRSource string `yaml:"cldr_source"`

	// StrictZones aborts a mapping build when CLDR references an IANA
	// zone the host does not know, instead of skipping the element.
	StrictZones bool `yaml:"strict_zones"`

	// UseSystemZone enables the OS zone probe as a lookup fallback.
	UseSystemZone bool `yaml:"use_system_zone"`

	// UseOffsetZone enables the synthetic Etc/GMT offset fallback.
	UseOffsetZone bool `yaml:"use_offset_zone"`

	// NTPContinent is the default pool.ntp.org zone for NTP-tagged
	// readings.
	NTPContinent string `yaml:"ntp_continent"`

	// NTPTimeoutSeconds bounds an NTP exchange. Zero means no deadline.
	NTPTimeoutSeconds int `yaml:"ntp_timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CachePath:         "",
		CacheBackend:      BackendFile,
		ExpirationMinutes: cache.DefaultExpirationMinutes,
		CLDRSource:        "",
		StrictZones:       false,
		UseSystemZone:     true,
		UseOffsetZone:     true,
		NTPContinent:      "north-america",
		NTPTimeoutSeconds: 10,
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. Fields absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve builds the effective configuration: the file named by
// SURETIME_CONFIG when set, pure defaults otherwise, with environment
// overrides in either case.
func Resolve() (Config, error) {
	if path := os.Getenv("SURETIME_CONFIG"); path != "" {
		return Load(path)
	}
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SURETIME_CACHE"); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv("SURETIME_NTP_CONTINENT"); v != "" {
		c.NTPContinent = v
	}
}

// Validate rejects settings no component could honor.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown cache backend %q (allowed: %s, %s)",
			c.CacheBackend, BackendFile, BackendSQLite)
	}
	if c.ExpirationMinutes < 0 {
		return fmt.Errorf("negative expiration_minutes %d", c.ExpirationMinutes)
	}
	if c.NTPTimeoutSeconds < 0 {
		return fmt.Errorf("negative ntp_timeout_seconds %d", c.NTPTimeoutSeconds)
	}
	if c.NTPContinent != "" {
		if _, err := ntp.Continent(c.NTPContinent); err != nil {
			return err
		}
	}
	return nil
}

// ResolveCachePath maps the configured path to the one backends use:
// NoCache becomes the empty string, and an empty path becomes a file in
// the per-user cache directory.
func (c Config) ResolveCachePath() (string, error) {
	switch c.CachePath {
	case NoCache:
		return "", nil
	case "":
		dir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("locate user cache dir: %w", err)
		}
		dir = filepath.Join(dir, "suretime")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create cache dir: %w", err)
		}
		name := "tzmap.json"
		if c.CacheBackend == BackendSQLite {
			name = "tzmap.db"
		}
		return filepath.Join(dir, name), nil
	}
	return c.CachePath, nil
}
