package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	DeviceID    string
	Storage     StorageConfig
	Backend     BackendConfig
	Push        PushConfig
	API         APIConfig
	LogLevel    string
}

type StorageConfig struct {
	// Backend selects the persistence implementation: "redis" or "postgres"
	Backend  string
	Redis    RedisConfig
	Database DatabaseConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type BackendConfig struct {
	BaseURL string
	APIKey  string
}

type PushConfig struct {
	// Token is the platform-issued push token handed to the agent by the
	// hosting platform bridge. Empty means the platform has none to offer.
	Token string
}

type APIConfig struct {
	// KeyHash is the bcrypt hash of the local API key. Empty disables auth
	// on the local surface.
	KeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("STORAGE_BACKEND", "redis")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		DeviceID:    getEnvOrViper("DEVICE_ID", ""),
		Storage: StorageConfig{
			Backend: getEnvOrViper("STORAGE_BACKEND", "redis"),
			Redis: RedisConfig{
				Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
				Password: getEnvOrViper("REDIS_PASSWORD", ""),
				DB:       viper.GetInt("REDIS_DB"),
			},
			Database: DatabaseConfig{
				Host:     getEnvOrViper("DB_HOST", "localhost"),
				Port:     getEnvOrViper("DB_PORT", "5432"),
				User:     getEnvOrViper("DB_USER", "postgres"),
				Password: getEnvOrViper("DB_PASSWORD", "postgres"),
				DBName:   getEnvOrViper("DB_NAME", "storefront"),
				SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
			},
		},
		Backend: BackendConfig{
			BaseURL: getEnvOrViper("BACKEND_BASE_URL", ""),
			APIKey:  getEnvOrViper("BACKEND_API_KEY", ""),
		},
		Push: PushConfig{
			Token: getEnvOrViper("PUSH_TOKEN", ""),
		},
		API: APIConfig{
			KeyHash: getEnvOrViper("API_KEY_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if cfg.Storage.Backend != "redis" && cfg.Storage.Backend != "postgres" {
		return nil, fmt.Errorf("STORAGE_BACKEND must be redis or postgres, got %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
