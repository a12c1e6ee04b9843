// Package config loads the wcc configuration.
//
// Settings come from a TOML file, then from the environment (a .env file in
// the working directory is loaded first when present):
//
//	EODHD_API_KEY   eodhd.api_key
//	GEMINI_API_KEY  gemini.api_key
//	WCC_LOG_LEVEL   logging.level
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/agent"
	"github.com/etnz/wealth/eodhd"
	"github.com/etnz/wealth/sheet"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all the settings of wcc.
type Config struct {
	Benchmark BenchmarkConfig `toml:"benchmark"`
	Sheet     SheetConfig     `toml:"sheet"`
	Store     StoreConfig     `toml:"store"`
	EODHD     EODHDConfig     `toml:"eodhd"`
	Gemini    GeminiConfig    `toml:"gemini"`
	Logging   LoggingConfig   `toml:"logging"`
	Server    ServerConfig    `toml:"server"`
}

// BenchmarkConfig selects the benchmark replayed against the portfolio.
type BenchmarkConfig struct {
	Symbol   string `toml:"symbol"`
	Currency string `toml:"currency"`
	Key      string `toml:"key"` // history table name
}

// SheetConfig locates the portfolio workbook: a directory of CSV exports or
// a published Google spreadsheet.
type SheetConfig struct {
	Dir      string       `toml:"dir"`
	GoogleID string       `toml:"google_id"`
	Schema   sheet.Schema `toml:"schema"`
}

// StoreConfig selects the history store.
type StoreConfig struct {
	Kind string `toml:"kind"` // file, sqlite or memory
	Path string `toml:"path"`
}

// EODHDConfig holds EODHD API configuration.
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	CacheDir  string `toml:"cache_dir"`
}

// GetTimeout parses and returns the timeout duration.
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return eodhd.DefaultTimeout
	}
	return d
}

// GeminiConfig holds Gemini API configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
}

// ServerConfig holds the dashboard server configuration.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Benchmark: BenchmarkConfig{
			Symbol:   "SPY",
			Currency: wealth.DefaultCurrency,
			Key:      wealth.DefaultKey,
		},
		Sheet: SheetConfig{
			Dir:    "sheets",
			Schema: sheet.DefaultSchema(),
		},
		Store: StoreConfig{
			Kind: "file",
			Path: "data",
		},
		EODHD: EODHDConfig{
			BaseURL:   eodhd.DefaultBaseURL,
			RateLimit: eodhd.DefaultRateLimit,
			Timeout:   eodhd.DefaultTimeout.String(),
		},
		Gemini: GeminiConfig{
			Model: agent.DefaultModel,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
	}
}

// Load reads the configuration file at path over the defaults, then applies
// the environment overrides. A missing file is not an error when path is empty
// or the default name.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(path, os.Getenv)
}

// DefaultFile is the configuration file read when none is specified.
const DefaultFile = "wcc.toml"

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	explicit := path != "" && path != DefaultFile
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg, getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv("EODHD_API_KEY"); v != "" {
		cfg.EODHD.APIKey = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := getenv("WCC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if c.Benchmark.Symbol == "" {
		errs = append(errs, errors.New("benchmark.symbol is required"))
	}
	if c.Sheet.Dir == "" && c.Sheet.GoogleID == "" {
		errs = append(errs, errors.New("either sheet.dir or sheet.google_id is required"))
	}
	switch strings.ToLower(c.Store.Kind) {
	case "", "file", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("store.kind %q is not one of file, sqlite, memory", c.Store.Kind))
	}
	if c.EODHD.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("eodhd.rate_limit must be positive, got %d", c.EODHD.RateLimit))
	}
	return errors.Join(errs...)
}

// Workbook returns the configured workbook, the Google spreadsheet when an id is set.
func (c *Config) Workbook() sheet.Workbook {
	if c.Sheet.GoogleID != "" {
		return &sheet.Google{ID: c.Sheet.GoogleID}
	}
	return sheet.Dir(c.Sheet.Dir)
}
