package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	PostgresURI string
	RedisURI    string

	JWTSecret      string
	AccessTokenTTL time.Duration // short-lived access tokens, from ACCESS_TOKEN_EXPIRE_MINUTES

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS (comma-separated) or FRONTEND_URL
	Environment    string   // ENV: production, development, etc.
}

func Load() *Config {
	accessMinutes, err := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "15"))
	if err != nil || accessMinutes <= 0 {
		accessMinutes = 15
	}

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		PostgresURI:         getEnv("POSTGRES_URI", "postgres://localhost:5432/contactbook?sslmode=disable"),
		RedisURI:            getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:           getEnv("JWT_SECRET", "change-me-in-production"),
		AccessTokenTTL:      time.Duration(accessMinutes) * time.Minute,
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		AllowedOrigins:      allowedOrigins,
		Environment:         strings.ToLower(strings.TrimSpace(getEnv("ENV", "development"))),
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
