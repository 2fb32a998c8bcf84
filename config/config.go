package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	App     AppConfig
}

type ServerConfig struct {
	Port string
}

// StorageConfig selects and configures the persistence backend.
// Backend is one of "memory", "postgres", "redis". When unset, postgres is
// used if a DSN is present, otherwise memory — the same switch the
// original deployment made on DATABASE_URL presence.
type StorageConfig struct {
	Backend   string
	DSN       string
	RedisAddr string
	RedisDB   int
}

type AppConfig struct {
	Environment   string
	LogLevel      string
	Version       string
	SweepSchedule string
	GenerateRPS   int
	GenerateBurst int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", ""),
			DSN:       getEnv("DB_DSN", os.Getenv("DATABASE_URL")),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
			RedisDB:   getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment:   getEnv("APP_ENV", "development"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			SweepSchedule: getEnv("SWEEP_SCHEDULE", "@every 10m"),
			GenerateRPS:   getEnvAsInt("GENERATE_RPS", 50),
			GenerateBurst: getEnvAsInt("GENERATE_BURST", 100),
		},
	}

	if cfg.Storage.Backend == "" {
		if cfg.Storage.DSN != "" {
			cfg.Storage.Backend = "postgres"
		} else {
			cfg.Storage.Backend = "memory"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Backend {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres backend")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
