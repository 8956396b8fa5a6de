package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// app config, read from the environment (and .env when present)
type Config struct {
	Port        string
	Env         string
	Backend     string
	MongoURI    string
	DBName      string
	QuestionCol string
	QuizCol     string
	RedisAddr   string
	CacheTTL    time.Duration
	CORSOrigins []string
}

// LoadConfig reads .env if it exists, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	ttl, err := time.ParseDuration(getEnvOrDefault("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	config := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("APP_ENV", "production"),
		Backend:     strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendMongo)),
		MongoURI:    os.Getenv("MONGO_URI"),
		DBName:      getEnvOrDefault("QUIZ_DB_NAME", "Quiz"),
		QuestionCol: getEnvOrDefault("QUESTIONS_COLLECTION", "questions"),
		QuizCol:     getEnvOrDefault("QUIZZES_COLLECTION", "quizzes"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		CacheTTL:    ttl,
		CORSOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func validateConfig(config *Config) error {
	switch config.Backend {
	case BackendMemory:
	case BackendMongo:
		if config.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_BACKEND=mongo")
		}
	default:
		return errors.New("unsupported STORE_BACKEND: " + config.Backend + ". Currently supported: mongo, memory")
	}
	if config.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
