package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envWith(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devmock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Default(t *testing.T) {
	t.Parallel()

	cfg, err := load("", noEnv)
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultRoot, cfg.Server.Root)
	assert.Equal(t, 2*time.Second, cfg.Console.Interval)
	assert.Equal(t, 20, cfg.Console.Capacity)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Screens)
}

func TestLoad_ValidFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `server:
  port: 9000
  root: ./ui
console:
  interval: 500ms
  capacity: 5
log:
  level: debug
screens:
  1:
    display_off: 22
    time_zone: UTC0
  4:
    wifi_ssid: lab
`)

	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "./ui", cfg.Server.Root)
	assert.Equal(t, 500*time.Millisecond, cfg.Console.Interval)
	assert.Equal(t, 5, cfg.Console.Capacity)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 22, cfg.Screens[1]["display_off"])
	assert.Equal(t, "UTC0", cfg.Screens[1]["time_zone"])
	assert.Equal(t, "lab", cfg.Screens[4]["wifi_ssid"])
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `console:
  capacity: 50
`)

	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Console.Capacity)
	assert.Equal(t, DefaultConsoleInterval, cfg.Console.Interval)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := load(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := load(writeConfig(t, `server: [`), noEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_PortFromEnv(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := load(path, envWith(map[string]string{"PORT": "3000"}))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)

	cfg, err = load("", envWith(map[string]string{"PORT": " "}))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)

	_, err = load("", envWith(map[string]string{"PORT": "eighty"}))
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "PORT", verr.Field)
}

func TestLoadConfig_UsesProcessEnv(t *testing.T) {
	t.Setenv("PORT", "8181")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"port zero allowed", func(c *Config) { c.Server.Port = 0 }, ""},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"zero interval", func(c *Config) { c.Console.Interval = 0 }, "console.interval"},
		{"zero capacity", func(c *Config) { c.Console.Capacity = 0 }, "console.capacity"},
		{"unknown screen", func(c *Config) { c.Screens = map[int]map[string]any{5: {"x": 1}} }, "screens.5"},
		{"screen zero", func(c *Config) { c.Screens = map[int]map[string]any{0: {"x": 1}} }, "screens.0"},
		{"known screen", func(c *Config) { c.Screens = map[int]map[string]any{4: {"wifi_ssid": "lab"}} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := ValidateConfig(&cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := ValidationError{Field: "server.port", Message: "must be between 0 and 65535"}
	assert.Equal(t, "validation error: server.port: must be between 0 and 65535", err.Error())
}
