package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Outlier handling methods supported by the cleaner.
const (
	OutlierMethodIQR    = "iqr"
	OutlierMethodZScore = "zscore"
)

// Config represents the complete application configuration.
// Every field has a working default so the pipeline runs with no
// configuration at all; oilpulse.yml and OILPULSE_* environment
// variables are optional overrides.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Model    ModelConfig    `yaml:"model" envconfig:"MODEL"`
}

// ServerConfig contains dashboard HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// CleaningConfig controls the cleaning stage
type CleaningConfig struct {
	// OutlierMethod selects how outliers in numeric columns are handled:
	// "iqr" clips to the Tukey fence, "zscore" replaces |z|>=3 with the mean.
	OutlierMethod string `yaml:"outlier_method" envconfig:"OUTLIER_METHOD"`
}

// ModelConfig controls the modeling stage
type ModelConfig struct {
	Seed         int64   `yaml:"seed" envconfig:"SEED"`
	Trees        int     `yaml:"trees" envconfig:"TREES"`
	TestFraction float64 `yaml:"test_fraction" envconfig:"TEST_FRACTION"`
}

// Default returns the configuration used when nothing is overridden.
// The dashboard port matches the original deployment (8050).
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8050,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/oilpulse.log",
		},
		Cleaning: CleaningConfig{
			OutlierMethod: OutlierMethodIQR,
		},
		Model: ModelConfig{
			Seed:         42,
			Trees:        100,
			TestFraction: 0.2,
		},
	}
}

// Load loads configuration from defaults, then the optional config file,
// then OILPULSE_* environment variables (highest precedence).
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(cfg, *fileCfg)
		}
	}

	// Unset variables leave the current values untouched.
	if err := envconfig.Process("OILPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file config onto the defaults; zero values in the
// file keep the default.
func mergeConfigs(base, file Config) Config {
	out := base

	if file.Server.Port != 0 {
		out.Server.Port = file.Server.Port
	}
	if file.Server.ReadTimeout != 0 {
		out.Server.ReadTimeout = file.Server.ReadTimeout
	}
	if file.Server.WriteTimeout != 0 {
		out.Server.WriteTimeout = file.Server.WriteTimeout
	}
	if file.Server.IdleTimeout != 0 {
		out.Server.IdleTimeout = file.Server.IdleTimeout
	}
	if file.Server.ShutdownTimeout != 0 {
		out.Server.ShutdownTimeout = file.Server.ShutdownTimeout
	}
	if file.Logging.Level != "" {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.Output != "" {
		out.Logging.Output = file.Logging.Output
	}
	if file.Logging.FilePath != "" {
		out.Logging.FilePath = file.Logging.FilePath
	}
	if file.Cleaning.OutlierMethod != "" {
		out.Cleaning.OutlierMethod = file.Cleaning.OutlierMethod
	}
	if file.Model.Seed != 0 {
		out.Model.Seed = file.Model.Seed
	}
	if file.Model.Trees != 0 {
		out.Model.Trees = file.Model.Trees
	}
	if file.Model.TestFraction != 0 {
		out.Model.TestFraction = file.Model.TestFraction
	}

	return out
}

// validate checks configuration invariants
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Cleaning.OutlierMethod != OutlierMethodIQR && c.Cleaning.OutlierMethod != OutlierMethodZScore {
		return fmt.Errorf("invalid outlier method %q (want %q or %q)",
			c.Cleaning.OutlierMethod, OutlierMethodIQR, OutlierMethodZScore)
	}
	if c.Model.Trees < 1 {
		return fmt.Errorf("model tree count must be positive, got %d", c.Model.Trees)
	}
	if c.Model.TestFraction <= 0 || c.Model.TestFraction >= 1 {
		return fmt.Errorf("model test fraction must be in (0,1), got %v", c.Model.TestFraction)
	}
	return nil
}
