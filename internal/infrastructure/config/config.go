package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DBBackendSQL  = "sql"
	DBBackendGorm = "gorm"
)

type Config struct {
	DBDriver  string // postgres | oracle
	DBBackend string // sql | gorm
	DBDSN     string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	ServerHost string
	ServerPort string
	LogLevel   string
}

func Load() (*Config, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN environment variable is required")
	}

	driver := getEnvOrDefault("DB_DRIVER", "postgres")
	if driver != "postgres" && driver != "oracle" {
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}

	backend := getEnvOrDefault("DB_BACKEND", DBBackendSQL)
	if backend != DBBackendSQL && backend != DBBackendGorm {
		return nil, fmt.Errorf("unsupported DB_BACKEND: %s", backend)
	}
	if backend == DBBackendGorm && driver != "postgres" {
		return nil, fmt.Errorf("DB_BACKEND=gorm only supports DB_DRIVER=postgres")
	}

	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}
	maxIdle, err := getEnvInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	maxLifetime, err := time.ParseDuration(getEnvOrDefault("DB_CONN_MAX_LIFETIME", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	return &Config{
		DBDriver:        driver,
		DBBackend:       backend,
		DBDSN:           dsn,
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: maxLifetime,
		ServerHost:      getEnvOrDefault("SERVER_HOST", "localhost"),
		ServerPort:      getEnvOrDefault("SERVER_PORT", "8080"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
