// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG and the working directory at temp dirs so no real
// config or .env leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)
	for _, k := range []string{"API_URL", "AUTH_URL", "AUTH_MODE", "LOGOUT_STATUSES", "INSECURE", "LOG_LEVEL", "TIMEOUT", "STORAGE", "REDIS_URL", "REDIS_PREFIX", "KEYRING_PASSWORD"} {
		t.Setenv(EnvPrefix+k, "")
		os.Unsetenv(EnvPrefix + k)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
	assert.Equal(t, c.APIBaseURL, c.AuthURL())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(file, []byte(`{
		"api_base_url": "https://api.example.com/",
		"auth_mode": "cookie",
		"timeout": "30s",
		"storage": {"backend": "file"}
	}`), 0o600))

	t.Setenv("TRIPDESK_LOG_LEVEL", "DEBUG")
	t.Setenv("TRIPDESK_LOGOUT_STATUSES", "401")
	t.Setenv("TRIPDESK_KEYRING_PASSWORD", "hunter2")

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.APIBaseURL)
	assert.Equal(t, "cookie", c.AuthMode)
	assert.Equal(t, 30*time.Second, c.Timeout.Std())
	assert.Equal(t, StorageFile, c.Storage.Backend)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, []int{401}, c.LogoutStatuses)
	assert.Equal(t, "hunter2", c.Storage.FilePassword)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TRIPDESK_API_URL=http://dotenv.local\nTRIPDESK_TIMEOUT=5s\n"), 0o600))
	t.Setenv("TRIPDESK_TIMEOUT", "7s")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.local", c.APIBaseURL)
	assert.Equal(t, 7*time.Second, c.Timeout.Std())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "relative url", mutate: func(c *Config) { c.APIBaseURL = "/api" }},
		{name: "bad auth mode", mutate: func(c *Config) { c.AuthMode = "basic" }},
		{name: "redis without url", mutate: func(c *Config) { c.Storage.Backend = StorageRedis }},
		{name: "redis with url", mutate: func(c *Config) {
			c.Storage.Backend = StorageRedis
			c.Storage.RedisURL = "redis://localhost:6379/0"
		}, ok: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "s3" }},
		{name: "success status", mutate: func(c *Config) { c.LogoutStatuses = []int{200} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "config.json")

	c := Defaults()
	c.Storage.FilePassword = "secret"
	c.Timeout = Duration(42 * time.Second)
	require.NoError(t, Save(file, c))

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"timeout": "42s"`)

	got, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, got.Timeout.Std())
}

func TestSet(t *testing.T) {
	c := Defaults()

	require.NoError(t, c.Set("api_base_url", " https://api.tripdesk.test "))
	require.NoError(t, c.Set("logout_statuses", "401, 419"))
	require.NoError(t, c.Set("insecure", "true"))
	require.NoError(t, c.Set("timeout", "30s"))
	require.NoError(t, c.Set("storage.backend", "redis"))
	require.NoError(t, c.Set("storage.redis_url", "redis://localhost:6379/0"))

	assert.Equal(t, "https://api.tripdesk.test", c.APIBaseURL)
	assert.Equal(t, []int{401, 419}, c.LogoutStatuses)
	assert.True(t, c.Insecure)
	assert.Equal(t, 30*time.Second, c.Timeout.Std())
	assert.NoError(t, c.Validate())

	assert.ErrorContains(t, c.Set("colour", "red"), "unknown setting")
	assert.Error(t, c.Set("insecure", "maybe"))
	assert.Error(t, c.Set("logout_statuses", "401,x"))
	assert.Error(t, c.Set("timeout", "soon"))
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"log_level":"warn"}`), 0o600))
	t.Setenv(EnvPrefix+"LOG_LEVEL", "debug")

	c, path, err := LoadFile(file)
	require.NoError(t, err)
	assert.Equal(t, file, path)
	assert.Equal(t, "warn", c.LogLevel)

	c, path, err = LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tripdesk", "config.json"), path)
	assert.Equal(t, "info", c.LogLevel)
}
