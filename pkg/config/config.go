package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/locale"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

// Config holds all application configuration
type Config struct {
	Parser        ParserConfig
	Log           LogConfig
	Observability ObservabilityConfig
	Storage       StorageConfig
}

type ParserConfig struct {
	MaxChars   int
	Locale     string
	LocaleFile string // optional YAML merged over the bundled table
	Currency   string // empty detects it from the statement text
	Workers    int    // batch parse concurrency, 0 means GOMAXPROCS
}

type LogConfig struct {
	Level  string
	Format string
}

type ObservabilityConfig struct {
	MetricsEnabled  bool
	MetricsTextfile string // node_exporter textfile written after each run
}

type StorageConfig struct {
	LocalPath string
}

var (
	ErrInvalidBudget = errors.New("PARSER_MAX_CHARS must be positive")
	ErrMetricsPath   = errors.New("METRICS_TEXTFILE is required when metrics are enabled")
)

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Parser: ParserConfig{
			MaxChars:   getEnvAsInt("PARSER_MAX_CHARS", statement.DefaultMaxChars),
			Locale:     getEnv("PARSER_LOCALE", locale.DefaultName),
			LocaleFile: getEnv("PARSER_LOCALE_FILE", ""),
			Currency:   getEnv("PARSER_CURRENCY", ""),
			Workers:    getEnvAsInt("PARSER_WORKERS", 0),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled:  getEnvAsBool("METRICS_ENABLED", false),
			MetricsTextfile: getEnv("METRICS_TEXTFILE", "statement_ingest.prom"),
		},
		Storage: StorageConfig{
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "./statements"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the parser cannot run with.
func (c *Config) Validate() error {
	if c.Parser.MaxChars <= 0 {
		return ErrInvalidBudget
	}
	if _, err := locale.LoadWithOverride(c.Parser.Locale, c.Parser.LocaleFile); err != nil {
		return fmt.Errorf("parser locale: %w", err)
	}
	if c.Parser.Currency != "" && !money.Known(c.Parser.Currency) {
		return fmt.Errorf("PARSER_CURRENCY: unknown currency %q", c.Parser.Currency)
	}
	if c.Observability.MetricsEnabled && c.Observability.MetricsTextfile == "" {
		return ErrMetricsPath
	}
	if c.Parser.Workers < 0 {
		return fmt.Errorf("PARSER_WORKERS must not be negative, got %d", c.Parser.Workers)
	}
	return nil
}

// Messages loads the configured locale table.
func (c *Config) Messages() (*locale.Table, error) {
	return locale.LoadWithOverride(c.Parser.Locale, c.Parser.LocaleFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
