// Package config loads server settings from an optional YAML file, a .env
// file and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/codyseavey/trading-dashboard/internal/models"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	Port          string   `yaml:"port"`
	DBPath        string   `yaml:"db_path"`
	Store         string   `yaml:"store"`
	KeyMode       string   `yaml:"key_mode"`
	APIKey        string   `yaml:"api_key"`
	CORSOrigins   []string `yaml:"cors_allowed_origins"`
	DashboardPath string   `yaml:"dashboard_path"`
	GinMode       string   `yaml:"gin_mode"`
	Log           struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Ingest struct {
		RatePerSec float64 `yaml:"rate_per_sec"`
		Burst      int     `yaml:"burst"`
	} `yaml:"ingest"`
}

func defaults() *Config {
	cfg := &Config{
		Port:          "5000",
		DBPath:        "./trading_dashboard.db",
		Store:         StoreSQLite,
		KeyMode:       string(models.KeyModeNumber),
		CORSOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		DashboardPath: "./dashboard.html",
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Ingest.RatePerSec = 5
	cfg.Ingest.Burst = 20
	return cfg
}

// Load reads .env (if present), then CONFIG_FILE (if set), then environment overrides
func Load() (*Config, error) {
	// Missing .env is normal in containers
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.DBPath, "DB_PATH")
	setString(&cfg.Store, "STORE")
	setString(&cfg.KeyMode, "KEY_MODE")
	setString(&cfg.APIKey, "API_KEY")
	setString(&cfg.DashboardPath, "DASHBOARD_PATH")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}
	if v := os.Getenv("INGEST_RATE_PER_SEC"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ingest.RatePerSec = rate
		}
	}
	if v := os.Getenv("INGEST_BURST"); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			cfg.Ingest.Burst = burst
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects unknown store and key modes
func (c *Config) Validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	c.KeyMode = strings.ToLower(strings.TrimSpace(c.KeyMode))

	switch c.Store {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q (want %s or %s)", c.Store, StoreSQLite, StoreMemory)
	}

	switch models.KeyMode(c.KeyMode) {
	case models.KeyModeNumber, models.KeyModeComposite:
	default:
		return fmt.Errorf("unknown KEY_MODE %q (want %s or %s)", c.KeyMode, models.KeyModeNumber, models.KeyModeComposite)
	}

	if c.Store == StoreSQLite && c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required for the sqlite store")
	}
	return nil
}

// AccountKeyMode returns the configured identity scheme
func (c *Config) AccountKeyMode() models.KeyMode {
	return models.KeyMode(c.KeyMode)
}
