package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from configs/.env and the environment
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret   []byte
	CORSOrigins []string

	DefaultPreparationMinutes int
}

// Load reads configs/.env when present and falls back to defaults for unset variables.
// The returned bool is false when no .env file was loaded.
func Load() (Config, bool) {
	loaded := godotenv.Load("configs/.env") == nil

	cfg := Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("APP_ENV", "production"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "postgres"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		JWTSecret:  []byte(getEnv("JWT_SECRET", "")),
		CORSOrigins: strings.Split(
			getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ",",
		),
		DefaultPreparationMinutes: 30,
	}

	if v, err := strconv.Atoi(os.Getenv("DEFAULT_PREPARATION_MINUTES")); err == nil && v > 0 {
		cfg.DefaultPreparationMinutes = v
	}

	return cfg, loaded
}

// DSN builds the postgres connection URL
func (c Config) DSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// IsDevelopment reports whether the service runs with development defaults
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
