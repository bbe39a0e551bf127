package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendBadger = "badger"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string `validate:"required,numeric"`
	Environment string `validate:"oneof=development staging production test"`
	LogLevel    string `validate:"oneof=debug info warn error"`

	// Storage
	PostgresURL  string
	CacheBackend string `validate:"oneof=memory badger"`
	BadgerPath   string

	StateCacheTTL      time.Duration `validate:"gt=0"`
	PreferenceCacheTTL time.Duration `validate:"gt=0"`

	// Questionnaire
	QuestionnaireVersion int   `validate:"gte=1"`
	RandomSeed           int64 // zero seeds from the clock

	// Recommendations
	RecommendationLimit         int `validate:"gte=1"`
	ExtendedRecommendationLimit int `validate:"gtefield=RecommendationLimit"`

	// Circuit breaker around the stores
	BreakerTimeout      time.Duration `validate:"gt=0"`
	BreakerMinRequests  uint32        `validate:"gte=1"`
	BreakerFailureRatio float64       `validate:"gt=0,lte=1"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		PostgresURL:  getEnv("POSTGRES_URL", ""),
		CacheBackend: getEnv("CACHE_BACKEND", CacheBackendMemory),
		BadgerPath:   getEnv("BADGER_PATH", ""),

		StateCacheTTL:      getEnvDuration("STATE_CACHE_TTL", 24*time.Hour),
		PreferenceCacheTTL: getEnvDuration("PREFERENCE_CACHE_TTL", time.Hour),

		QuestionnaireVersion: getEnvInt("QUESTIONNAIRE_VERSION", 1),
		RandomSeed:           int64(getEnvInt("RANDOM_SEED", 0)),

		RecommendationLimit:         getEnvInt("RECOMMENDATION_LIMIT", 5),
		ExtendedRecommendationLimit: getEnvInt("EXTENDED_RECOMMENDATION_LIMIT", 20),

		BreakerTimeout:      getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),
		BreakerMinRequests:  uint32(getEnvInt("BREAKER_MIN_REQUESTS", 5)),
		BreakerFailureRatio: getEnvFloat("BREAKER_FAILURE_RATIO", 0.6),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.IsProduction() && c.PostgresURL == "" {
		return errors.New("invalid config: POSTGRES_URL is required in production")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("90s") or plain seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
