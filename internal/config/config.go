// Package config loads gitrhythm configuration from YAML files, environment
// variables, and the OS keychain.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/avandyck/gitrhythm/internal/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github" mapstructure:"github"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
}

type GitHubConfig struct {
	User      string `yaml:"user" mapstructure:"user"`
	Token     string `yaml:"token" mapstructure:"token"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
	SinceDays int    `yaml:"since_days" mapstructure:"since_days"`
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "sqlite", "postgres"
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
}

type CacheConfig struct {
	Directory string        `yaml:"directory" mapstructure:"directory"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// AnalysisConfig carries the user analysis parameters plus chart knobs.
type AnalysisConfig struct {
	models.Params `yaml:",inline" mapstructure:",squash"`

	// ClusterThresholdMinutes is the fixed burst threshold used for chart
	// clustering. Zero means the package default.
	ClusterThresholdMinutes float64 `yaml:"cluster_threshold_minutes" mapstructure:"cluster_threshold_minutes"`
}

// Default returns default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		GitHub: GitHubConfig{
			RateLimit: 10,
			SinceDays: 365,
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLitePath: filepath.Join(homeDir, ".gitrhythm", "local.db"),
		},
		Cache: CacheConfig{
			Directory: filepath.Join(homeDir, ".gitrhythm", "cache"),
			TTL:       24 * time.Hour,
		},
		Analysis: AnalysisConfig{
			Params: models.Params{
				DayBoundaryHour: 4,
			},
		},
	}
}

// Load loads configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("analysis", cfg.Analysis)

	v.SetEnvPrefix("GITRHYTHM")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".gitrhythm")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".gitrhythm"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the analysis core cannot work with.
func (c *Config) Validate() error {
	if h := c.Analysis.DayBoundaryHour; h < 0 || h > 23 {
		return fmt.Errorf("day_boundary_hour must be 0-23, got %d", h)
	}
	for period, h := range c.Analysis.PeriodDayBoundaries {
		if h < 0 || h > 23 {
			return fmt.Errorf("period_day_boundaries[%s] must be 0-23, got %d", period, h)
		}
	}
	if o := c.Analysis.TimezoneOffsetHours; o < -14 || o > 14 {
		return fmt.Errorf("timezone_offset_hours must be within ±14, got %v", o)
	}
	switch c.Storage.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("storage type must be sqlite or postgres, got %q", c.Storage.Type)
	}
	return nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".gitrhythm", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if user := os.Getenv("GITHUB_USER"); user != "" {
		cfg.GitHub.User = user
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rl
		}
	}
	if cfg.GitHub.Token == "" {
		// Fall back to the OS keychain when no env var or config value.
		km := NewKeyringManager()
		if km.IsAvailable() {
			if token, err := km.GetToken(); err == nil && token != "" {
				cfg.GitHub.Token = token
			}
		}
	}

	if storageType := os.Getenv("STORAGE_TYPE"); storageType != "" {
		cfg.Storage.Type = storageType
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Storage.PostgresDSN = dsn
	}
	if path := os.Getenv("LOCAL_DB_PATH"); path != "" {
		cfg.Storage.SQLitePath = expandPath(path)
	}
	if dir := os.Getenv("CACHE_DIRECTORY"); dir != "" {
		cfg.Cache.Directory = expandPath(dir)
	}

	if offset := os.Getenv("TIMEZONE_OFFSET_HOURS"); offset != "" {
		if o, err := strconv.ParseFloat(offset, 64); err == nil {
			cfg.Analysis.TimezoneOffsetHours = o
		}
	}
	if boundary := os.Getenv("DAY_BOUNDARY_HOUR"); boundary != "" {
		if h, err := strconv.Atoi(boundary); err == nil {
			cfg.Analysis.DayBoundaryHour = h
		}
	}
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("github", c.GitHub)
	v.Set("storage", c.Storage)
	v.Set("cache", c.Cache)
	v.Set("analysis", c.Analysis)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
