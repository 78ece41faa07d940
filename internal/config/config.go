package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration from environment. It is built once
// in main and passed by reference to the components that need it; nothing
// reads environment variables after startup.
type Config struct {
	HTTPPort       string
	DatabaseURL    string
	DBPoolSize     int
	JWTSecret      string
	AllowedOrigins []string
}

// Load reads configuration from the environment. JWT_SECRET is required;
// DATABASE_URL defaults to a local SQLite file.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "todo.db"),
		DBPoolSize:     getIntEnv("DB_POOL_SIZE", 25),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: getSliceEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
	}
	if front := os.Getenv("FRONTEND_URL"); front != "" && !contains(cfg.AllowedOrigins, front) {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, front)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key, defaultVal string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = defaultVal
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
