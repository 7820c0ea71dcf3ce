package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Uploads   UploadsConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig selects the catalog persistence backend
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory" or "sqlite"
	DSN    string `mapstructure:"dsn"`
	Seed   bool   `mapstructure:"seed"`
}

// UploadsConfig holds re-hosted image storage configuration
type UploadsConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

// SearchConfig holds fuzzy-matching thresholds
type SearchConfig struct {
	FuzzyThreshold   float64 `mapstructure:"fuzzy_threshold"`
	SuggestThreshold float64 `mapstructure:"suggest_threshold"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shophub/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPHUB")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Store defaults
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "shophub.db")
	v.SetDefault("store.seed", true)

	// Uploads defaults
	v.SetDefault("uploads.dir", "./static/uploads")
	v.SetDefault("uploads.base_url", "/static/uploads")

	// Search defaults
	v.SetDefault("search.fuzzy_threshold", 0.45)
	v.SetDefault("search.suggest_threshold", 0.5)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Driver != "memory" && config.Store.Driver != "sqlite" {
		return fmt.Errorf("store driver must be 'memory' or 'sqlite', got: %s", config.Store.Driver)
	}

	if config.Store.Driver == "sqlite" && config.Store.DSN == "" {
		return fmt.Errorf("store DSN is required when the driver is 'sqlite'")
	}

	if config.Search.FuzzyThreshold <= 0 || config.Search.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must be in (0,1], got: %v", config.Search.FuzzyThreshold)
	}

	if config.Search.SuggestThreshold <= 0 || config.Search.SuggestThreshold > 1 {
		return fmt.Errorf("suggest threshold must be in (0,1], got: %v", config.Search.SuggestThreshold)
	}

	return nil
}
