// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept in the file; the keyring passphrase is
// accepted from the environment only.
//
// Precedence, lowest first: built-in defaults, config.json, a .env file in the
// working directory, then TRIPDESK_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tripdesk/cli/internal/xdg"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRIPDESK_"

// Storage backends.
const (
	StorageOS     = "os"
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds CLI settings.
type Config struct {
	APIBaseURL  string `json:"api_base_url" env:"API_URL"`
	AuthBaseURL string `json:"auth_base_url,omitempty" env:"AUTH_URL"`
	// AuthMode is "bearer" or "cookie".
	AuthMode       string   `json:"auth_mode" env:"AUTH_MODE"`
	LogoutStatuses []int    `json:"logout_statuses,omitempty" env:"LOGOUT_STATUSES" envSeparator:","`
	Insecure       bool     `json:"insecure,omitempty" env:"INSECURE"`
	LogLevel       string   `json:"log_level" env:"LOG_LEVEL"`
	Timeout        Duration `json:"timeout" env:"TIMEOUT"`
	Storage        Storage  `json:"storage"`
}

// Storage selects where the session is persisted.
type Storage struct {
	Backend  string `json:"backend" env:"STORAGE"`
	RedisURL string `json:"redis_url,omitempty" env:"REDIS_URL"`
	Prefix   string `json:"prefix,omitempty" env:"REDIS_PREFIX"`
	// FilePassword unlocks the encrypted file keyring. Never written to disk.
	FilePassword string `json:"-" env:"KEYRING_PASSWORD"`
}

// Duration is a time.Duration written as "15s" in JSON and env.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIBaseURL: "https://localhost:7040",
		AuthMode:   "bearer",
		LogLevel:   "info",
		Timeout:    Duration(15 * time.Second),
		Storage:    Storage{Backend: StorageOS, Prefix: "tripdesk:"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration from file (the default path when file is empty),
// then applies .env and environment overrides. A missing file yields defaults.
func Load(file string) (Config, error) {
	c, _, err := LoadFile(file)
	if err != nil {
		return c, err
	}

	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return c, fmt.Errorf("load .env file: %w", err)
		}
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, fmt.Errorf("parse environment: %w", err)
	}

	c.Sanitize()
	return c, c.Validate()
}

// LoadFile returns the defaults overlaid with file only, without environment
// overrides, together with the resolved path. This is what Save should be fed
// so that TRIPDESK_* values never leak into the file.
func LoadFile(file string) (Config, string, error) {
	c := Defaults()
	if file == "" {
		p, err := Path()
		if err != nil {
			return c, "", err
		}
		file = p
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, file, fmt.Errorf("parse %s: %w", file, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return c, file, err
	}
	return c, file, nil
}

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{
	"api_base_url", "auth_base_url", "auth_mode", "logout_statuses", "insecure",
	"log_level", "timeout", "storage.backend", "storage.redis_url", "storage.prefix",
}

// Set assigns one setting by its config-file name. The result is not validated.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_base_url":
		c.APIBaseURL = value
	case "auth_base_url":
		c.AuthBaseURL = value
	case "auth_mode":
		c.AuthMode = value
	case "logout_statuses":
		c.LogoutStatuses = nil
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return fmt.Errorf("logout_statuses: %q is not a number", part)
			}
			c.LogoutStatuses = append(c.LogoutStatuses, n)
		}
	case "insecure":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("insecure: %q is not a boolean", value)
		}
		c.Insecure = b
	case "log_level":
		c.LogLevel = value
	case "timeout":
		return c.Timeout.UnmarshalText([]byte(value))
	case "storage.backend":
		c.Storage.Backend = value
	case "storage.redis_url":
		c.Storage.RedisURL = value
	case "storage.prefix":
		c.Storage.Prefix = value
	default:
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Sanitize trims and lower-cases enumerations and strips trailing slashes.
func (c *Config) Sanitize() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	c.AuthBaseURL = strings.TrimRight(strings.TrimSpace(c.AuthBaseURL), "/")
	c.AuthMode = strings.ToLower(strings.TrimSpace(c.AuthMode))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Timeout <= 0 {
		c.Timeout = Defaults().Timeout
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := validateURL("api_base_url", c.APIBaseURL); err != nil {
		return err
	}
	if c.AuthBaseURL != "" {
		if err := validateURL("auth_base_url", c.AuthBaseURL); err != nil {
			return err
		}
	}
	switch c.AuthMode {
	case "", "bearer", "cookie":
	default:
		return fmt.Errorf("auth_mode must be bearer or cookie, got %q", c.AuthMode)
	}
	for _, s := range c.LogoutStatuses {
		if s < 400 || s > 599 {
			return fmt.Errorf("logout_statuses: %d is not an HTTP error status", s)
		}
	}
	switch c.Storage.Backend {
	case StorageOS, StorageFile, StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of os, file, memory, redis; got %q", c.Storage.Backend)
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

// AuthURL returns the auth base URL, defaulting to the API base URL.
func (c Config) AuthURL() string {
	if c.AuthBaseURL != "" {
		return c.AuthBaseURL
	}
	return c.APIBaseURL
}

// Save writes configuration to file (the default path when empty) with 0600 permissions.
func Save(file string, c Config) error {
	if file == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		file = p
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o600)
}
