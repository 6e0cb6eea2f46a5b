// Package config provides configuration loading and management for hpmri.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"hpmri/pkg/logger"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Data locations
	Data struct {
		// EpsiDir holds one sub-folder per EPSI dataset, each with an MRD file
		EpsiDir string `yaml:"epsiDir"`

		// ProtonDir holds the per-slice proton DICOM files
		ProtonDir string `yaml:"protonDir"`

		// ProtonFilePrefix is the series number proton files are named after
		ProtonFilePrefix string `yaml:"protonFilePrefix"`

		// MRDExtension is the extension of raw acquisition files
		MRDExtension string `yaml:"mrdExtension"`
	} `yaml:"data"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use when reading dataset headers
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Proton image enhancement parameters
	Proton struct {
		// DefaultContrast is the CLAHE clip limit used when a request gives none
		DefaultContrast float64 `yaml:"defaultContrast"`
	} `yaml:"proton"`

	// HP-MRI extraction parameters
	Extraction struct {
		// DefaultThreshold is the magnitude below which samples are masked
		// when a request gives no threshold
		DefaultThreshold float64 `yaml:"defaultThreshold"`
	} `yaml:"extraction"`

	// HTTP server parameters
	Server struct {
		Address        string   `yaml:"address"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	// Output parameters
	Output struct {
		// LogLevel is one of debug, info or error
		LogLevel string `yaml:"logLevel"`

		// Verbose enables debug logging whatever LogLevel says
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Data.EpsiDir = "data/epsi"
	cfg.Data.ProtonDir = "data/proton"
	cfg.Data.ProtonFilePrefix = "5091"
	cfg.Data.MRDExtension = ".MRD"

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default

	cfg.Proton.DefaultContrast = 1.0

	cfg.Extraction.DefaultThreshold = 0.2

	cfg.Server.Address = ":8080"
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}

	cfg.Output.LogLevel = "info"
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks the values that would otherwise fail deep inside a request
func (c *Config) Validate() error {
	if c.Data.EpsiDir == "" {
		return fmt.Errorf("data.epsiDir must be set")
	}
	if c.Data.ProtonDir == "" {
		return fmt.Errorf("data.protonDir must be set")
	}
	if c.Processing.NumCores < 1 {
		return fmt.Errorf("processing.numCores must be at least 1, got %d", c.Processing.NumCores)
	}
	if !(c.Proton.DefaultContrast > 0) {
		return fmt.Errorf("proton.defaultContrast must be positive, got %v", c.Proton.DefaultContrast)
	}
	if !(c.Extraction.DefaultThreshold >= 0) {
		return fmt.Errorf("extraction.defaultThreshold must not be negative, got %v", c.Extraction.DefaultThreshold)
	}
	if _, err := logger.ParseLogLevel(c.Output.LogLevel); err != nil {
		return fmt.Errorf("output.logLevel: %w", err)
	}
	return nil
}

// LogLevel returns the configured log level, or debug when verbose
func (c *Config) LogLevel() logger.LogLevel {
	if c.Output.Verbose {
		return logger.LogDebug
	}
	level, err := logger.ParseLogLevel(c.Output.LogLevel)
	if err != nil {
		return logger.LogInfo
	}
	return level
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
