// Package config provides Viper-based configuration loading for the loot
// engine tooling.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatasetConfig locates the authored loot dataset.
type DatasetConfig struct {
	// Dir is the dataset root directory (rarities.yaml, tables/, parts/...).
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds defaults for batch roll simulations. Command-line
// flags override these per run.
type SimulationConfig struct {
	// Rolls is the total number of independent rolls per run.
	Rolls int `mapstructure:"rolls"`
	// Workers is the number of parallel rolling goroutines.
	Workers int `mapstructure:"workers"`
	// Seed is the base RNG seed; worker i derives its own source from
	// Seed + i, so runs with the same seed and worker count replay exactly.
	Seed int64 `mapstructure:"seed"`
	// PlayerLevel, Luck, and Difficulty form the default roll context.
	PlayerLevel int     `mapstructure:"player_level"`
	Luck        float64 `mapstructure:"luck"`
	Difficulty  int     `mapstructure:"difficulty"`
}

// Config is the top-level application configuration.
type Config struct {
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDataset(c.Dataset); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDataset(d DatasetConfig) error {
	if d.Dir == "" {
		return errors.New("dataset.dir must not be empty")
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Rolls < 1 {
		errs = append(errs, fmt.Sprintf("simulation.rolls must be >= 1, got %d", s.Rolls))
	}
	if s.Workers < 1 {
		errs = append(errs, fmt.Sprintf("simulation.workers must be >= 1, got %d", s.Workers))
	}
	if s.PlayerLevel < 1 || s.PlayerLevel > 50 {
		errs = append(errs, fmt.Sprintf("simulation.player_level must be 1-50, got %d", s.PlayerLevel))
	}
	if s.Difficulty < 0 || s.Difficulty > 10 {
		errs = append(errs, fmt.Sprintf("simulation.difficulty must be 0-10, got %d", s.Difficulty))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with LOOTFORGE_ prefix
	v.SetEnvPrefix("LOOTFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset.dir", "content")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("simulation.rolls", 10000)
	v.SetDefault("simulation.workers", 4)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.player_level", 30)
	v.SetDefault("simulation.luck", 0.0)
	v.SetDefault("simulation.difficulty", 0)
}
