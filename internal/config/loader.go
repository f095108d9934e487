package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thruflo/devmock/internal/state"
)

// Default values for Config.
const (
	DefaultPort            = 8080
	DefaultRoot            = "./web/dist"
	DefaultConsoleInterval = 2 * time.Second
	DefaultConsoleCapacity = 20
	DefaultLogLevel        = "info"
)

// EnvPort is the environment variable that sets the listening port.
const EnvPort = "PORT"

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: DefaultPort,
			Root: DefaultRoot,
		},
		Console: ConsoleConfig{
			Interval: DefaultConsoleInterval,
			Capacity: DefaultConsoleCapacity,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path returns the defaults. The PORT environment variable is applied last.
func LoadConfig(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := ApplyEnv(&cfg, lookupEnv); err != nil {
		return nil, err
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnv overrides cfg from the environment.
func ApplyEnv(cfg *Config, lookupEnv func(string) (string, bool)) error {
	value, ok := lookupEnv(EnvPort)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return ValidationError{Field: EnvPort, Message: fmt.Sprintf("not a number: %q", value)}
	}
	cfg.Server.Port = port
	return nil
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return ValidationError{Field: "server.port", Message: "must be between 0 and 65535"}
	}
	if cfg.Console.Interval <= 0 {
		return ValidationError{Field: "console.interval", Message: "must be positive"}
	}
	if cfg.Console.Capacity <= 0 {
		return ValidationError{Field: "console.capacity", Message: "must be positive"}
	}
	for id := range cfg.Screens {
		if !state.ScreenID(id).Valid() {
			return ValidationError{Field: fmt.Sprintf("screens.%d", id), Message: "unknown screen"}
		}
	}
	return nil
}
