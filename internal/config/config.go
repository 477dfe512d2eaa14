package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	CORS       CORSConfig
	MarketData MarketDataConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port       string
	Host       string
	Addr       string // Combined host:port for convenience
	AppBaseURL string // frontend origin used in password reset links
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds JWT and credential configuration.
type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int
	FernetKey     string // base64 key used to encrypt secrets at rest
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig holds the market data provider configuration.
// APIKey is the fallback when no key is stored in system settings.
type MarketDataConfig struct {
	BaseURL      string
	APIKey       string
	SyncSchedule string // cron expression; empty disables the scheduled sync
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:       getEnv("SERVER_PORT", "5001"),
			Host:       getEnv("SERVER_HOST", "localhost"),
			AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/stock_pilot.db"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_TOKEN_SECRET"),
			TokenTTL:      getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
			ResetTokenTTL: getEnvDuration("RESET_TOKEN_TTL", 15*time.Minute),
			BcryptCost:    getEnvInt("BCRYPT_COST", 10),
			FernetKey:     os.Getenv("FERNET_KEY"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			BaseURL:      getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),
			APIKey:       os.Getenv("POLYGON_API_KEY"),
			SyncSchedule: getEnv("STOCK_SYNC_SCHEDULE", "0 3 * * *"),
		},
	}

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT token secret is undefined, make sure JWT_TOKEN_SECRET is set")
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
