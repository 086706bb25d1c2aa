package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the optional YAML document accepted by `pactmock start
// --config`. Any field left zero falls back to the corresponding flag's
// value.
type CLIConfig struct {
	// ControlPort is the port the control service binds to.
	ControlPort int `yaml:"controlPort,omitempty"`
	// BasePort is the first port tried when an instance is created without
	// an explicit port.
	BasePort int `yaml:"basePort,omitempty"`
	// ServerKey gates POST /shutdown; an empty key disables that endpoint.
	ServerKey string `yaml:"serverKey,omitempty"`
	// LogTerminal and LogFile toggle the two log sinks (--no-term-log,
	// --no-file-log negate them). Both default to enabled.
	LogTerminal *bool  `yaml:"logTerminal,omitempty"`
	LogFile     *bool  `yaml:"logFile,omitempty"`
	LogFilePath string `yaml:"logFilePath,omitempty"`
	// Instance carries the default TLS/CORS/timeout settings new instances
	// are created with.
	Instance InstanceConfig `yaml:"instance,omitempty"`
}

// LoadFile reads and parses a CLIConfig from path.
func LoadFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// BoolOr returns *p if p is non-nil, else fallback.
func BoolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
