package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	LogLevel  string          `json:"log_level" yaml:"log_level"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Ledger    LedgerConfig    `json:"ledger" yaml:"ledger"`
	Engine    EngineConfig    `json:"engine" yaml:"engine"`
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics"`
}

// StoreConfig selects the plan store backend.
type StoreConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "postgres" or "memory"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	ConnString string `json:"conn_string,omitempty" yaml:"conn_string,omitempty"`
}

// LedgerConfig selects the credit sink.
type LedgerConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv" or "sqlite"
	CreditsFile string `json:"credits_file,omitempty" yaml:"credits_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// EngineConfig contains generation parameters.
type EngineConfig struct {
	// Seed fixes the random source for deterministic replay; 0 seeds from
	// crypto/rand.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// SchedulerConfig contains the daily payout trigger.
type SchedulerConfig struct {
	PayoutCron string `json:"payout_cron" yaml:"payout_cron"` // with seconds field
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, format chosen by extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Store.Type {
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store.db_path required for sqlite store")
		}
	case "postgres":
		if c.Store.ConnString == "" {
			return fmt.Errorf("store.conn_string required for postgres store")
		}
	case "memory":
	default:
		return fmt.Errorf("store.type must be 'sqlite', 'postgres' or 'memory'")
	}

	switch c.Ledger.Type {
	case "csv":
		if c.Ledger.CreditsFile == "" {
			return fmt.Errorf("ledger.credits_file required for CSV ledger")
		}
	case "sqlite":
		if c.Ledger.DBPath == "" {
			return fmt.Errorf("ledger.db_path required for sqlite ledger")
		}
	default:
		return fmt.Errorf("ledger.type must be 'csv' or 'sqlite'")
	}

	if c.Scheduler.PayoutCron == "" {
		return fmt.Errorf("scheduler.payout_cron is required")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr required when metrics enabled")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Store: StoreConfig{
			Type:   "sqlite",
			DBPath: "./plans.db",
		},
		Ledger: LedgerConfig{
			Type:   "sqlite",
			DBPath: "./ledger.db",
		},
		Scheduler: SchedulerConfig{
			// Daily at 00:05 UTC.
			PayoutCron: "0 5 0 * * *",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9402",
		},
	}
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}
