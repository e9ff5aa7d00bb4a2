// Package config handles probe configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds all probe configuration.
// Fields are populated from environment variables.
type Config struct {
	Env string // development, staging, production

	// Remote catalog API
	APIBaseURL     string        // Entry script, e.g. http://host:port/api.php
	APIRoutePrefix string        // Prefix placed in the s= routing parameter
	ScheduleURL    string        // Direct, path-suffixed schedule endpoint
	RequestTimeout time.Duration // Per-request timeout
	UserAgent      string
	StartDelay     time.Duration // Pause before the seeding prober starts

	// Database
	DBDriver   string // mysql, postgres, sqlite3
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBCharset  string
	DBPath     string // SQLite file, only used by the sqlite3 driver

	// Stub server
	MockPort          int
	MockStrictWeekday bool

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DefaultAPIBaseURL is the catalog backend the probes were written against.
const DefaultAPIBaseURL = "http://156.238.253.228:6466/api.php"

// Load reads configuration from environment variables.
// It first loads a .env file if one is present.
func Load() (*Config, error) {
	// Missing .env is fine; variables may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Env = getEnv("ENV", EnvDevelopment)

	cfg.APIBaseURL = strings.TrimSuffix(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/")
	cfg.APIRoutePrefix = getEnv("API_ROUTE_PREFIX", "/api/v1")
	cfg.ScheduleURL = getEnv("SCHEDULE_URL", cfg.APIBaseURL+"/v1/schedule")
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)
	cfg.UserAgent = getEnv("USER_AGENT", "OVO-Test-Client/1.0")
	cfg.StartDelay = getEnvDuration("START_DELAY", 3*time.Second)

	cfg.DBDriver = getEnv("DB_DRIVER", DriverMySQL)
	cfg.DBHost = getEnv("DB_HOST", "127.0.0.1")
	cfg.DBPort = getEnvInt("DB_PORT", defaultPort(cfg.DBDriver))
	cfg.DBUser = getEnv("DB_USER", "maccms")
	cfg.DBPassword = getEnv("DB_PASSWORD", "maccms")
	cfg.DBName = getEnv("DB_NAME", "dmw_0606666_xyz_")
	cfg.DBCharset = getEnv("DB_CHARSET", "utf8mb4")
	cfg.DBPath = getEnv("DB_PATH", "./data/catalog.db")

	cfg.MockPort = getEnvInt("MOCK_PORT", 8080)
	cfg.MockStrictWeekday = getEnvBool("MOCK_STRICT_WEEKDAY", false)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if err := validateURL("API_BASE_URL", c.APIBaseURL); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL("SCHEDULE_URL", c.ScheduleURL); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.APIRoutePrefix, "/") {
		errs = append(errs, fmt.Errorf("API_ROUTE_PREFIX must start with '/', got %q", c.APIRoutePrefix))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.StartDelay < 0 {
		errs = append(errs, fmt.Errorf("START_DELAY must not be negative, got %s", c.StartDelay))
	}

	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
		if c.DBHost == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.DBName == "" {
			errs = append(errs, errors.New("DB_NAME is required"))
		}
		if c.DBPort < 1 || c.DBPort > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.DBPort))
		}
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be one of: mysql, postgres, sqlite3; got %q", c.DBDriver))
	}

	if c.MockPort < 1 || c.MockPort > 65535 {
		errs = append(errs, fmt.Errorf("MOCK_PORT must be between 1 and 65535, got %d", c.MockPort))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// DSN renders the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	case DriverSQLite:
		return c.DBPath
	default:
		mc := mysql.NewConfig()
		mc.User = c.DBUser
		mc.Passwd = c.DBPassword
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.DBHost, c.DBPort)
		mc.DBName = c.DBName
		mc.Params = map[string]string{"charset": c.DBCharset}
		mc.ParseTime = true
		return mc.FormatDSN()
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func defaultPort(driver string) int {
	if driver == DriverPostgres {
		return 5432
	}
	return 3306
}

func validateURL(key, raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("%s must be an absolute URL: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, u.Scheme)
	}
	return nil
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool accepts anything strconv.ParseBool does.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("10s") or bare seconds ("10").
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
