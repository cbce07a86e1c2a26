package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the explorer.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Sessions SessionsConfig `yaml:"sessions"`
	Presets  PresetsConfig  `yaml:"presets"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// DatasetConfig locates the source table.
type DatasetConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
}

// Delim returns the configured field delimiter, defaulting to comma.
func (d DatasetConfig) Delim() rune {
	if d.Delimiter == "" {
		return ','
	}
	return []rune(d.Delimiter)[0]
}

// SessionsConfig controls per-session lifecycle limits.
type SessionsConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	MaxSessions   int           `yaml:"maxSessions"`
}

// PresetsConfig controls preset-pack loading.
type PresetsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EXPLORER_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Dataset: DatasetConfig{
			Path:      "data/adult.csv",
			Delimiter: ",",
		},
		Sessions: SessionsConfig{
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
			MaxSessions:   512,
		},
		Presets: PresetsConfig{Path: "configs/presets.yaml"},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EXPLORER_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("EXPLORER_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("EXPLORER_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("EXPLORER_DATASET_DELIMITER"); v != "" {
		cfg.Dataset.Delimiter = v
	}
	if v := os.Getenv("EXPLORER_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sessions.TTL = d
		}
	}
	if v := os.Getenv("EXPLORER_SESSION_SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sessions.SweepInterval = d
		}
	}
	if v := os.Getenv("EXPLORER_MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sessions.MaxSessions = n
		}
	}
	if v := os.Getenv("EXPLORER_PRESETS_PATH"); v != "" {
		cfg.Presets.Path = v
	}
	if v := os.Getenv("EXPLORER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EXPLORER_LOG_FORMAT"); strings.EqualFold(v, "json") {
		cfg.Logging.JSON = true
	}
}
