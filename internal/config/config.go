package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Overtime OvertimeConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// OvertimeConfig holds overtime slip processing settings
type OvertimeConfig struct {
	// CurrencyPrecision is the number of decimals emitted amounts are rounded to
	CurrencyPrecision int
	// SubmitPolicy is "approval" or "unconditional"
	SubmitPolicy      string
	AutoBatchEnabled  bool
	AutoBatchInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris-overtime"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Overtime configuration
	precision, err := strconv.Atoi(getEnv("OVERTIME_CURRENCY_PRECISION", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_CURRENCY_PRECISION: %w", err)
	}
	autoBatch, err := strconv.ParseBool(getEnv("OVERTIME_AUTO_BATCH_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_AUTO_BATCH_ENABLED: %w", err)
	}
	autoBatchInterval, err := time.ParseDuration(getEnv("OVERTIME_AUTO_BATCH_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_AUTO_BATCH_INTERVAL: %w", err)
	}

	config.Overtime = OvertimeConfig{
		CurrencyPrecision: precision,
		SubmitPolicy:      getEnv("OVERTIME_SUBMIT_POLICY", "approval"),
		AutoBatchEnabled:  autoBatch,
		AutoBatchInterval: autoBatchInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Overtime.CurrencyPrecision < 0 {
		return fmt.Errorf("OVERTIME_CURRENCY_PRECISION must not be negative")
	}
	switch c.Overtime.SubmitPolicy {
	case "approval", "unconditional":
	default:
		return fmt.Errorf("OVERTIME_SUBMIT_POLICY must be 'approval' or 'unconditional', got %q", c.Overtime.SubmitPolicy)
	}
	if c.Overtime.AutoBatchEnabled && c.Overtime.AutoBatchInterval <= 0 {
		return fmt.Errorf("OVERTIME_AUTO_BATCH_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
