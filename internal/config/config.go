package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	JWTTTL               time.Duration
	ActivationBaseURL    string
	LogLevel             string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	MigrateOnStart       bool
	PprofAddr            string
	SessionPurgeSchedule string
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on System Env Variables")
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	port := getEnv("PORT", "8080")

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "72h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	maxOpen, err := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	maxIdle, err := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}
	migrate, err := strconv.ParseBool(getEnv("MIGRATE_ON_START", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIGRATE_ON_START: %w", err)
	}

	cfg := &Config{
		Port:                 port,
		DatabaseURL:          getEnv("DB_CONNECTION_STRING", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTL:               jwtTTL,
		ActivationBaseURL:    getEnv("ACTIVATION_BASE_URL", "http://localhost:"+port+"/api/users/activate"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DBMaxOpenConns:       maxOpen,
		DBMaxIdleConns:       maxIdle,
		MigrateOnStart:       migrate,
		PprofAddr:            getEnv("PPROF_ADDR", ""),
		SessionPurgeSchedule: getEnv("SESSION_PURGE_SCHEDULE", "@every 1m"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DB_CONNECTION_STRING")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.DBMaxOpenConns <= 0 || c.DBMaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must be positive")
	}
	return nil
}

// Addr is the listen address of the API server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// getEnv returns the variable or the fallback when it is unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
