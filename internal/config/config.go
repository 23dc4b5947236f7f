package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"effcost/adapters/excel"
	"effcost/internal"
	"effcost/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Log    LogConfig
	Input  InputConfig
	Server ServerConfig
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// InputConfig holds row reading settings
type InputConfig struct {
	StrictColumns bool
	MaxRows       int `validate:"gte=0"`
	Sheet         string
}

// ServerConfig holds report service settings
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	GinMode         string        `validate:"oneof=debug release test"`
	MaxConcurrent   int64         `validate:"gte=1"`
	MaxBodyBytes    int64         `validate:"gte=1024"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load reads an optional .env file plus environment variables and validates the result
func Load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	defaults := excel.DefaultReaderConfig()

	// aliases such as WARNING collapse to the canonical name; unknown values fail validation
	logLevel := strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "WARN"))
	if parsed, err := internal.ParseLogLevel(logLevel); err == nil {
		logLevel = parsed.String()
	}

	config := &Config{
		Log: LogConfig{
			Level: logLevel,
		},
		Input: InputConfig{
			StrictColumns: getEnvBoolOrDefault("EFFCOST_STRICT_COLUMNS", defaults.StrictColumns),
			MaxRows:       getEnvIntOrDefault("EFFCOST_MAX_ROWS", defaults.MaxRows),
			Sheet:         getEnvOrDefault("EFFCOST_SHEET", ""),
		},
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8080"),
			GinMode:         getEnvOrDefault("GIN_MODE", "release"),
			MaxConcurrent:   int64(getEnvIntOrDefault("EFFCOST_MAX_CONCURRENT", 8)),
			MaxBodyBytes:    int64(getEnvIntOrDefault("EFFCOST_MAX_BODY_BYTES", 10<<20)),
			ShutdownTimeout: getEnvDurationOrDefault("EFFCOST_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "configuration validation failed")
	}
	return config, nil
}

// ReaderConfig converts the input settings for the row readers
func (c *Config) ReaderConfig() excel.ReaderConfig {
	return excel.ReaderConfig{
		StrictColumns: c.Input.StrictColumns,
		MaxRows:       c.Input.MaxRows,
		Sheet:         c.Input.Sheet,
	}
}

// Logger builds the leveled logger for the configured level
func (c *Config) Logger() *internal.Logger {
	level, err := internal.ParseLogLevel(c.Log.Level)
	if err != nil {
		level = internal.LogLevelWarn
	}
	return internal.NewLogger(level)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
