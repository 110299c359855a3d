package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "CATALOG"

// Config holds all application-level configuration
type Config struct {
	// Input
	CSVPath string `envconfig:"CSV_PATH" default:"netflix_titles.csv" validate:"required"`

	// Logging
	Environment string `envconfig:"ENV" default:"development" validate:"oneof=development staging production"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`

	// Dashboard server
	Serve        bool          `envconfig:"SERVE" default:"false"`
	ListenAddr   string        `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8501" validate:"required,hostname_port"`
	CacheSize    int           `envconfig:"CACHE_SIZE" default:"8" validate:"min=1,max=1024"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`

	// Exports; empty means disabled
	ExportDir string `envconfig:"EXPORT_DIR"`
	XLSXPath  string `envconfig:"XLSX_PATH"`
	DBDriver  string `envconfig:"DB_DRIVER" default:"postgres" validate:"oneof=postgres sqlite"`
	DBURL     string `envconfig:"DATABASE_URL"`

	// Screenshot
	SnapshotPath   string        `envconfig:"SNAPSHOT_PATH"`
	ChromeTimeout  time.Duration `envconfig:"CHROME_TIMEOUT" default:"60s" validate:"min=1s"`
	SnapshotDelay  int           `envconfig:"SNAPSHOT_DELAY_MS" default:"2000" validate:"min=0"` // milliseconds between renders
	SnapshotWidth  int           `envconfig:"SNAPSHOT_WIDTH" default:"1280" validate:"min=320"`
	SnapshotHeight int           `envconfig:"SNAPSHOT_HEIGHT" default:"900" validate:"min=240"`

	MaxRetries int `envconfig:"MAX_RETRIES" default:"3" validate:"min=1,max=10"`
}

// Load reads configuration with precedence flags > environment > defaults.
// args excludes the program name.
func Load(args []string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	fs := flag.NewFlagSet("catalog-dashboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "Path to the titles CSV")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Environment (development, staging, production)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "Serve the HTTP dashboard")
	fs.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "Dashboard listen address")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "Write aggregate tables as CSV into this directory")
	fs.StringVar(&cfg.XLSXPath, "xlsx", cfg.XLSXPath, "Write aggregate tables to this XLSX workbook")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "SQL export driver (postgres, sqlite)")
	fs.StringVar(&cfg.DBURL, "db", cfg.DBURL, "SQL export connection string")
	fs.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "Save a PNG screenshot of the dashboard to this path")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	// A bare positional argument is the CSV path.
	if fs.NArg() > 0 {
		cfg.CSVPath = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
