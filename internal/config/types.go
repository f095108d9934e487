package config

import "time"

// ServerConfig controls the HTTP listener and the static asset root.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Root string `yaml:"root"`
}

// ConsoleConfig controls the simulated console log.
type ConsoleConfig struct {
	Interval time.Duration `yaml:"interval"`
	Capacity int           `yaml:"capacity"`
}

// LogConfig controls diagnostics output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config represents the optional devmock.yaml file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Console ConsoleConfig `yaml:"console"`
	Log     LogConfig     `yaml:"log"`

	// Screens overrides default setting values, keyed by screen id then
	// setting name.
	Screens map[int]map[string]any `yaml:"screens,omitempty"`
}
