package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	UploadsDir     string
}

type DatabaseConfig struct {
	URI string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
}

// ErrMissingTokenSecret is returned when TOKEN_SECRET is not configured.
// Callers treat it as fatal: the service must never sign or accept tokens
// with an empty key.
var ErrMissingTokenSecret = errors.New("TOKEN_SECRET is required")

// Load reads configuration from .env and the process environment.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("PORT", "4000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DB_URI", "postgres://localhost:5432/bookstore?sslmode=disable")
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:3001"})
	viper.SetDefault("UPLOADS_DIR", "uploads")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("TOKEN_EXPIRY_HOURS", 7*24)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 120)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetString("PORT"),
			Env:            viper.GetString("ENV"),
			AllowedOrigins: viper.GetStringSlice("ALLOWED_ORIGINS"),
			UploadsDir:     viper.GetString("UPLOADS_DIR"),
		},
		Database: DatabaseConfig{
			URI: viper.GetString("DB_URI"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			TokenSecret: viper.GetString("TOKEN_SECRET"),
			TokenExpiry: time.Duration(viper.GetInt("TOKEN_EXPIRY_HOURS")) * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled:           viper.GetBool("RATE_LIMIT_ENABLED"),
			RequestsPerWindow: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:            time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
	}

	if cfg.Auth.TokenSecret == "" {
		return nil, ErrMissingTokenSecret
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with the production CORS
// allow-list and reduced error verbosity.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
