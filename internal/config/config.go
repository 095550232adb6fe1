// Package config loads application configuration from the environment.
//
// Configuration is read once at startup and treated as immutable. A .env
// file is loaded if present (local development); real environments set
// variables directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the server recognizes.
type Config struct {
	// Server
	Port int
	Env  string // "development" or "production"; echoed by /api/health

	// Storage
	DBPath string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// CORS: the SPA origin allowed to call the API
	AllowedOrigin string

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from the environment. JWT_SECRET is the only
// required variable; everything else has a development-friendly default.
func Load() (*Config, error) {
	// Missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvInt("PORT", 8080),
		Env:                getEnv("APP_ENV", "development"),
		DBPath:             getEnv("DB_PATH", "data/voxdesk.db"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		AllowedOrigin:      getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: required environment variable JWT_SECRET is not set")
	}

	if cfg.GoogleCallbackURL == "" {
		cfg.GoogleCallbackURL = fmt.Sprintf("http://localhost:%d/api/auth/google/callback", cfg.Port)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
