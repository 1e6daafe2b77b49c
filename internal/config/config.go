// Package config provides unified configuration loading for engram.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mgraupera/engram/internal/hopfield"
)

// Config contains all engram configuration settings.
type Config struct {
	// DataDir is the directory holding the results database and trace
	// files. Empty means ~/.engram.
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`

	// Recall contains settings for the recall loop.
	Recall RecallConfig `json:"recall" yaml:"recall"`

	// Noise contains the corruption levels used by the demo flow.
	Noise NoiseConfig `json:"noise" yaml:"noise"`

	// Trials contains settings for statistical trial runs.
	Trials TrialsConfig `json:"trials" yaml:"trials"`

	// Logging contains settings for operational and trial logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// RecallConfig configures the recall iteration budget.
type RecallConfig struct {
	// MaxIterations bounds the synchronous update loop.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
}

// NoiseConfig holds the two corruption levels applied by the demo
// command, in [0, 1].
type NoiseConfig struct {
	// Primary is the corruption level for the first demo melody.
	Primary float64 `json:"primary" yaml:"primary"`

	// Secondary is the corruption level for the second demo melody.
	Secondary float64 `json:"secondary" yaml:"secondary"`
}

// TrialsConfig configures statistical trial runs.
type TrialsConfig struct {
	// PerPattern is how many noisy recalls to run per stored pattern.
	PerPattern int `json:"per_pattern" yaml:"per_pattern"`

	// Seed seeds the noise source. Zero means derive from the clock at
	// run start, which the command reports so runs stay reproducible.
	Seed int64 `json:"seed" yaml:"seed"`
}

// LoggingConfig configures engram's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or
	// "trace". "debug" additionally enables the JSONL trial trace in
	// the data directory.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults. The noise levels
// match what the demo command uses for its two recall targets.
func Default() *Config {
	return &Config{
		Recall: RecallConfig{
			MaxIterations: hopfield.DefaultMaxIterations,
		},
		Noise: NoiseConfig{
			Primary:   0.4,
			Secondary: 0.3,
		},
		Trials: TrialsConfig{
			PerPattern: 20,
			Seed:       0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DataPath resolves the data directory, falling back to ~/.engram when
// DataDir is unset.
func (c *Config) DataPath() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, ".engram"), nil
}

// ConfigPath returns the path of the user config file, ~/.engram/config.yaml.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, ".engram", "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.engram/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	configPath, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration to the user config file, creating the
// data directory when needed.
func (c *Config) Save() error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Recall.MaxIterations < 1 {
		return fmt.Errorf("recall.max_iterations must be positive, got %d", c.Recall.MaxIterations)
	}

	if c.Noise.Primary < 0 || c.Noise.Primary > 1 {
		return fmt.Errorf("noise.primary must be between 0 and 1, got %f", c.Noise.Primary)
	}
	if c.Noise.Secondary < 0 || c.Noise.Secondary > 1 {
		return fmt.Errorf("noise.secondary must be between 0 and 1, got %f", c.Noise.Secondary)
	}

	if c.Trials.PerPattern < 1 {
		return fmt.Errorf("trials.per_pattern must be positive, got %d", c.Trials.PerPattern)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: trace, debug, info, warn, error, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ENGRAM_DATA_DIR"); v != "" {
		config.DataDir = v
	}

	if v := os.Getenv("ENGRAM_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Recall.MaxIterations = n
		}
	}

	if v := os.Getenv("ENGRAM_NOISE_PRIMARY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Noise.Primary = f
		}
	}
	if v := os.Getenv("ENGRAM_NOISE_SECONDARY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Noise.Secondary = f
		}
	}

	if v := os.Getenv("ENGRAM_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Trials.PerPattern = n
		}
	}
	if v := os.Getenv("ENGRAM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Trials.Seed = n
		}
	}

	if v := os.Getenv("ENGRAM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
