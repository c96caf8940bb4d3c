// Package config loads client configuration from the environment, an
// optional .env file, and defaults, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "AWARDS"

// Config holds the settings shared by every command.
type Config struct {
	// Base URL of the backend API
	ServerURL string

	// Directory for credentials and the local hierarchy snapshot
	DataDir string

	// Timeout applied to each HTTP request
	HTTPTimeout time.Duration

	// Entries kept by the authorization verdict cache
	PolicyCacheSize int

	// Logging level (debug, info, warn, error)
	LogLevel string

	// Environment name, "prod" switches to JSON log output
	Env string

	// Enable debug logging regardless of LogLevel
	Debug bool
}

// Load builds the configuration. A .env file next to the working
// directory is loaded first if present, then AWARDS_* environment
// variables override the defaults.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("server_url", "http://localhost:8080")
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("policy_cache_size", 256)
	v.SetDefault("log_level", "info")
	v.SetDefault("env", "dev")
	v.SetDefault("debug", false)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	cfg := &Config{
		ServerURL:       v.GetString("server_url"),
		DataDir:         v.GetString("data_dir"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		PolicyCacheSize: v.GetInt("policy_cache_size"),
		LogLevel:        v.GetString("log_level"),
		Env:             v.GetString("env"),
		Debug:           v.GetBool("debug"),
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("%s_SERVER_URL is required", envPrefix)
	}
	if cfg.PolicyCacheSize < 1 {
		return nil, fmt.Errorf("%s_POLICY_CACHE_SIZE must be positive", envPrefix)
	}
	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".awards"
	}
	return filepath.Join(home, ".awards")
}
