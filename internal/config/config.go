package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mcncl/datasniff/internal/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv
const (
	EnvTargets    = "DATASNIFF_TARGETS"
	EnvPermissive = "DATASNIFF_PERMISSIVE"
	EnvMaxBytes   = "DATASNIFF_MAX_BYTES"
	EnvDebug      = "DATASNIFF_DEBUG"
	EnvDisable    = "DATASNIFF_DISABLE"
)

// Config represents the complete configuration for datasniff
type Config struct {
	// Targets lists the default target formats. Nil means every built-in target.
	Targets      []string     `yaml:"targets"`
	Permissive   bool         `yaml:"permissive"`
	MaxBytes     int          `yaml:"max_bytes"`
	Capabilities Capabilities `yaml:"capabilities"`
	Dev          DevConfig    `yaml:"dev"`
}

// Capabilities switches optional format support on or off. A disabled format
// is skipped during detection and renders as null when requested as a target.
type Capabilities struct {
	YAML bool `yaml:"yaml"`
	TOML bool `yaml:"toml"`
	CSV  bool `yaml:"csv"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// Overrides carries values given on the command line
type Overrides struct {
	Targets    []string
	Permissive bool
	MaxBytes   int
	Debug      bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Targets:      nil,
		Permissive:   false,
		MaxBytes:     0,
		Capabilities: AllCapabilities(),
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// AllCapabilities enables every optional format
func AllCapabilities() Capabilities {
	return Capabilities{YAML: true, TOML: true, CSV: true}
}

// Disable switches off the named capability
func (c *Capabilities) Disable(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml":
		c.YAML = false
	case "toml":
		c.TOML = false
	case "csv":
		c.CSV = false
	default:
		return fmt.Errorf("unknown capability '%s'", name)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".datasniff.yml", ".datasniff.yaml", "datasniff.yml", "datasniff.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.NewConfigError(fmt.Sprintf("failed to load env file '%s'", path), err)
	}
	return nil
}

// ApplyEnv overrides cfg with DATASNIFF_* environment variables
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvTargets); ok {
		cfg.Targets = SplitList(v)
	}
	if v, ok := os.LookupEnv(EnvPermissive); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NewConfigError(fmt.Sprintf("invalid %s value '%s'", EnvPermissive, v), err)
		}
		cfg.Permissive = b
	}
	if v, ok := os.LookupEnv(EnvMaxBytes); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.NewConfigError(fmt.Sprintf("invalid %s value '%s'", EnvMaxBytes, v), err)
		}
		cfg.MaxBytes = n
	}
	if v, ok := os.LookupEnv(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NewConfigError(fmt.Sprintf("invalid %s value '%s'", EnvDebug, v), err)
		}
		cfg.Dev.Debug = b
	}
	if v, ok := os.LookupEnv(EnvDisable); ok {
		for _, name := range SplitList(v) {
			if err := cfg.Capabilities.Disable(name); err != nil {
				return errors.NewConfigError(fmt.Sprintf("invalid %s value", EnvDisable), err)
			}
		}
	}
	return cfg.Validate()
}

// Validate checks values that cannot be expressed by the YAML types alone
func (c *Config) Validate() error {
	if c.MaxBytes < 0 {
		return errors.NewConfigError("max_bytes must not be negative", nil)
	}
	return nil
}

// SplitList splits a comma separated list, dropping blank entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MergeConfigs merges CLI overrides into a base config.
// Boolean flags can only switch a setting on; they cannot tell "false" from "unset".
func MergeConfigs(base *Config, override Overrides) *Config {
	merged := *base

	if override.Targets != nil {
		merged.Targets = override.Targets
	}
	if override.MaxBytes > 0 {
		merged.MaxBytes = override.MaxBytes
	}
	if override.Permissive {
		merged.Permissive = true
	}
	if override.Debug {
		merged.Dev.Debug = true
	}

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// command line, then environment, then config file, then defaults.
func LoadConfigWithCLI(configPath string, override Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg = MergeConfigs(cfg, override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
