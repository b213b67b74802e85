package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Supported persistence backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendRedis}

type Config struct {
	// HTTP Server
	Port string

	// Persistence
	DataBackend       string
	SQLiteDBPath      string
	RedisAddr         string
	RedisPrefix       string
	BranchNamespacing bool
	MemoryQuotaBytes  int

	// PDF rendering
	GotenbergURL string
	PDFTimeout   time.Duration

	// AMQP export events, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Report
	ReportLocale  string
	ColumnsFile   string
	DefaultBranch string
	DefaultTitle  string

	// Logging
	LogFormat string
	LogLevel  string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		DataBackend:       getEnv("DATA_BACKEND", BackendSQLite),
		SQLiteDBPath:      getEnv("SQLITE_DB_PATH", "./data/shiftreport.db"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPrefix:       getEnv("REDIS_PREFIX", "shiftreport:"),
		BranchNamespacing: getEnvBool("BRANCH_NAMESPACING", true),
		MemoryQuotaBytes:  getEnvInt("MEMORY_QUOTA_BYTES", 5*1024*1024),

		GotenbergURL: getEnv("GOTENBERG_URL", "http://localhost:3000"),
		PDFTimeout:   getEnvDuration("PDF_TIMEOUT", 30*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "shiftreport"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "report_exports"),

		ReportLocale:  getEnv("REPORT_LOCALE", "ar-EG"),
		ColumnsFile:   getEnv("COLUMNS_FILE", ""),
		DefaultBranch: getEnv("DEFAULT_BRANCH", "الفرع الرئيسي"),
		DefaultTitle:  getEnv("DEFAULT_TITLE", "تقرير الشيفتات"),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				errors = append(errors, fmt.Sprintf("SQLite database directory '%s' is not a directory", dir))
			}
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errors = append(errors, "Redis address cannot be empty when using redis backend")
		}
	case BackendMemory:
		if c.MemoryQuotaBytes < 0 {
			errors = append(errors, fmt.Sprintf("invalid memory quota %d: must not be negative", c.MemoryQuotaBytes))
		}
	}

	if c.GotenbergURL != "" {
		if u, err := url.Parse(c.GotenbergURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid Gotenberg URL '%s': must be an http or https URL", c.GotenbergURL))
		}
	}
	if c.PDFTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid PDF timeout %v: must be at least 1 second", c.PDFTimeout))
	} else if c.PDFTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid PDF timeout %v: must be at most 5 minutes", c.PDFTimeout))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if strings.TrimSpace(c.DefaultBranch) == "" {
		errors = append(errors, "default branch cannot be empty")
	}
	if c.ReportLocale == "" {
		errors = append(errors, "report locale cannot be empty")
	}

	if c.ColumnsFile != "" {
		if _, err := os.Stat(c.ColumnsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("columns file does not exist: %s", c.ColumnsFile))
		}
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
