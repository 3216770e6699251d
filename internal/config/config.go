package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/payrule"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
	"github.com/joho/godotenv"
)

const (
	CacheDriverPostgres = "postgres"
	CacheDriverSQLite   = "sqlite"
	CacheDriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	KPI      KPIConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string

	AllowedOrigins []string
}

// KPIConfig holds computation and cache settings
type KPIConfig struct {
	CacheDriver      string
	SQLitePath       string
	RuleStacking     payrule.StackingPolicy
	AdjustmentMonth  int
	ComputeTimeout   time.Duration
	MaxParallelUsers int
	GraceMinutes     int
	CreditedReasons  []shift.AbsenceReason
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file found, using process environment")
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
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: maxConns,
		MinConns: minConns,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),

		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// KPI configuration
	stacking, err := payrule.ParseStackingPolicy(getEnv("KPI_RULE_STACKING", string(payrule.StackingAdditive)))
	if err != nil {
		return nil, fmt.Errorf("invalid KPI_RULE_STACKING: %w", err)
	}
	adjustmentMonth, err := strconv.Atoi(getEnv("KPI_ADJUSTMENT_MONTH", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid KPI_ADJUSTMENT_MONTH: %w", err)
	}
	computeTimeout, err := time.ParseDuration(getEnv("KPI_COMPUTE_TIMEOUT", "2m"))
	if err != nil {
		return nil, fmt.Errorf("invalid KPI_COMPUTE_TIMEOUT: %w", err)
	}
	maxParallel, err := strconv.Atoi(getEnv("KPI_MAX_PARALLEL_USERS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid KPI_MAX_PARALLEL_USERS: %w", err)
	}
	grace, err := strconv.Atoi(getEnv("KPI_GRACE_MINUTES", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid KPI_GRACE_MINUTES: %w", err)
	}

	var credited []shift.AbsenceReason
	for _, r := range getEnvSlice("KPI_CREDITED_ABSENCE_REASONS") {
		credited = append(credited, shift.AbsenceReason(strings.ToUpper(strings.TrimSpace(r))))
	}

	config.KPI = KPIConfig{
		CacheDriver:      getEnv("KPI_CACHE_DRIVER", CacheDriverPostgres),
		SQLitePath:       getEnv("KPI_SQLITE_PATH", "./data/kpi_cache.db"),
		RuleStacking:     stacking,
		AdjustmentMonth:  adjustmentMonth,
		ComputeTimeout:   computeTimeout,
		MaxParallelUsers: maxParallel,
		GraceMinutes:     grace,
		CreditedReasons:  credited,
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
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1 and DB_MIN_CONNS not negative")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	switch c.KPI.CacheDriver {
	case CacheDriverPostgres, CacheDriverMemory:
	case CacheDriverSQLite:
		if c.KPI.SQLitePath == "" {
			return fmt.Errorf("KPI_SQLITE_PATH is required for the sqlite cache driver")
		}
	default:
		return fmt.Errorf("KPI_CACHE_DRIVER must be one of postgres, sqlite, memory")
	}
	if c.KPI.AdjustmentMonth < 1 || c.KPI.AdjustmentMonth > 12 {
		return fmt.Errorf("KPI_ADJUSTMENT_MONTH must be between 1 and 12")
	}
	if c.KPI.MaxParallelUsers < 1 {
		return fmt.Errorf("KPI_MAX_PARALLEL_USERS must be at least 1")
	}
	if c.KPI.GraceMinutes < 0 {
		return fmt.Errorf("KPI_GRACE_MINUTES must not be negative")
	}
	return nil
}

// Location returns the configured time zone. Validate has checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
