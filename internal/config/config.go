package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database    DatabaseConfig    `yaml:"database"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Sensitivity SensitivityConfig `yaml:"sensitivity"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
}

// ScoringWeights mirrors the five-criterion weight set in config form.
type ScoringWeights struct {
	Scope            float64 `yaml:"scope"`
	Magnitude        float64 `yaml:"magnitude"`
	Durability       float64 `yaml:"durability"`
	Adaptability     float64 `yaml:"adaptability"`
	CrossReferencing float64 `yaml:"cross_referencing"`
}

type SensitivityConfig struct {
	Trials    int     `yaml:"trials"`
	Magnitude float64 `yaml:"magnitude"`
	Seed      int64   `yaml:"seed"`
	Pairwise  bool    `yaml:"pairwise"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load returns defaults overlaid with the optional yaml file at path, then
// POLICYRANK_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Scope:            1.0,
				Magnitude:        1.5,
				Durability:       2.0,
				Adaptability:     1.5,
				CrossReferencing: 1.0,
			},
		},
		Sensitivity: SensitivityConfig{
			Trials:    200,
			Magnitude: 0.20,
			Seed:      1,
			Pairwise:  false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("POLICYRANK_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("POLICYRANK_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sensitivity.Trials = n
		}
	}
	if v := os.Getenv("POLICYRANK_MAGNITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Sensitivity.Magnitude = f
		}
	}
	if v := os.Getenv("POLICYRANK_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Sensitivity.Seed = n
		}
	}
	if v := os.Getenv("POLICYRANK_PAIRWISE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sensitivity.Pairwise = b
		}
	}
	if v := os.Getenv("POLICYRANK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("POLICYRANK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
