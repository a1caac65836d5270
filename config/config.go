// Package config loads server configuration from YAML with environment
// overrides. Command-line flags in cmd/server take precedence over both.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	HTTPPort         int
	DBPath           string
	RateScheduleFile string // optional JSON table loaded on startup
	StalenessCron    string
	DefaultClaimType string
	LogLevel         slog.Level
	AllowedOrigins   []string
}

type configFile struct {
	Server struct {
		HTTPPort       int      `yaml:"http_port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Rates struct {
		ScheduleFile  string `yaml:"schedule_file"`
		StalenessCron string `yaml:"staleness_cron"`
	} `yaml:"rates"`
	Interest struct {
		DefaultClaimType string `yaml:"default_claim_type"`
	} `yaml:"interest"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		HTTPPort:         8080,
		DBPath:           "rates.db",
		StalenessCron:    "0 0 6 1 1,7 *",
		DefaultClaimType: "consumer",
		LogLevel:         slog.LevelInfo,
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(raw) > 0 {
		var f configFile
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if f.Server.HTTPPort > 0 {
			cfg.HTTPPort = f.Server.HTTPPort
		}
		if len(f.Server.AllowedOrigins) > 0 {
			cfg.AllowedOrigins = trimNonEmpty(f.Server.AllowedOrigins)
		}
		if f.Database.Path != "" {
			cfg.DBPath = f.Database.Path
		}
		cfg.RateScheduleFile = f.Rates.ScheduleFile
		if f.Rates.StalenessCron != "" {
			cfg.StalenessCron = f.Rates.StalenessCron
		}
		if f.Interest.DefaultClaimType != "" {
			cfg.DefaultClaimType = f.Interest.DefaultClaimType
		}
		if f.Log.Level != "" {
			if err := cfg.LogLevel.UnmarshalText([]byte(f.Log.Level)); err != nil {
				return Config{}, fmt.Errorf("parse log level: %w", err)
			}
		}
	}

	// Environment variable overrides
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.DBPath = envOrDefault("DB_PATH", cfg.DBPath)
	cfg.RateScheduleFile = envOrDefault("RATE_SCHEDULE_FILE", cfg.RateScheduleFile)
	cfg.StalenessCron = envOrDefault("STALENESS_CRON", cfg.StalenessCron)
	cfg.DefaultClaimType = envOrDefault("DEFAULT_CLAIM_TYPE", cfg.DefaultClaimType)
	cfg.AllowedOrigins = envCSV("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks required fields.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port out of range: %d", c.HTTPPort)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
