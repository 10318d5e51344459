package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DatabaseURL         string
	JWTSecret           string
	TokenTTL            time.Duration
	Environment         string
	RunMigrations       bool
	RunSeed             bool
	MigrationsDir       string
	SeedManagerEmail    string
	SeedManagerPassword string
	SeedEmployeeEmail   string
	SeedEmployeePassword string
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	MetricsEnabled      bool
}

func Load() Config {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		TokenTTL:             getEnvDuration("TOKEN_TTL", 4*time.Hour),
		Environment:          getEnv("APP_ENV", "development"),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "migrations"),
		SeedManagerEmail:     getEnv("SEED_MANAGER_EMAIL", "manager@test.com"),
		SeedManagerPassword:  getEnv("SEED_MANAGER_PASSWORD", "password123"),
		SeedEmployeeEmail:    getEnv("SEED_EMPLOYEE_EMAIL", "employee@test.com"),
		SeedEmployeePassword: getEnv("SEED_EMPLOYEE_PASSWORD", "password123"),
		ReadTimeout:          getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:         getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" && c.RunSeed && (c.SeedManagerPassword == "password123" || c.SeedEmployeePassword == "password123") {
		return fmt.Errorf("seed passwords must be changed or RUN_SEED disabled in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
