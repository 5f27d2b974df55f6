package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port           string
	DatabaseURL    string
	OpenAIKey      string
	PreferredModel string
	SessionBackend string
	RedisAddr      string
	RedisPassword  string
	SessionTTL     time.Duration
	AITimeout      time.Duration
	DBTimeout      time.Duration
	LogLevel       string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "5000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
		PreferredModel: getEnv("OPENAI_MODEL", "gpt-5"),
		SessionBackend: strings.ToLower(getEnv("SESSION_BACKEND", "memory")),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		AITimeout:      getEnvDuration("AI_TIMEOUT", 30*time.Second),
		DBTimeout:      getEnvDuration("DB_TIMEOUT", 10*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
