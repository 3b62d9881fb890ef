package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/fortrec/pkg/dtype"
)

// Config represents the fortrec tool configuration
type Config struct {
	DataDir     string `yaml:"data_dir"`
	IndexDir    string `yaml:"index_dir"`
	Listen      string `yaml:"listen"`
	MarkerWidth int    `yaml:"marker_width"`
	ByteOrder   string `yaml:"byte_order"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:     "./data",
		IndexDir:    "./data/index",
		Listen:      "127.0.0.1:8080",
		MarkerWidth: 4,
		ByteOrder:   "native",
	}
}

// Order maps the configured byte order name to its dtype value
func (c *Config) Order() (dtype.Order, error) {
	switch c.ByteOrder {
	case "", "native":
		return dtype.Native, nil
	case "little":
		return dtype.Little, nil
	case "big":
		return dtype.Big, nil
	default:
		return dtype.Native, fmt.Errorf("invalid byte order %q, want native, little or big", c.ByteOrder)
	}
}

// Validate checks the configuration for values the codec cannot honor
func (c *Config) Validate() error {
	switch c.MarkerWidth {
	case 0, 4, 8:
	default:
		return fmt.Errorf("invalid marker width %d, want 4 or 8", c.MarkerWidth)
	}
	_, err := c.Order()
	return err
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./fortrec.yaml"
	}
	return filepath.Join(homeDir, ".config", "fortrec", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
