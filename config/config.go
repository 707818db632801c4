/*
Package config loads deployment configuration for the payroll engine.

PURPOSE:
  Everything that was ever tempting to hardcode lives here instead: the
  accounting-start floor date that bounds carry-forward history, the
  timezone used for worker-local day grouping, the double-punch window,
  and the server/database settings.

FORMAT:
  TOML file, all sections optional. Defaults from DefaultConfig apply for
  anything omitted. Example:

    [server]
    port = 8080

    [storage]
    path = "./data/payroll.db"

    [payroll]
    timezone = "America/Chicago"
    accounting_start = "2024-01-01"
    bounce_window_seconds = 60
*/
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full deployment configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Payroll PayrollConfig `toml:"payroll"`
}

type ServerConfig struct {
	Port int `toml:"port"`
}

type StorageConfig struct {
	// Path is the SQLite database path. ":memory:" for in-memory.
	Path string `toml:"path"`
}

type PayrollConfig struct {
	// Timezone is the IANA zone used for worker-local day grouping.
	Timezone string `toml:"timezone"`

	// AccountingStart (YYYY-MM-DD) bounds how far back the carry-forward
	// accumulator walks. Weeks before this date never contribute.
	AccountingStart string `toml:"accounting_start"`

	// BounceWindowSeconds is the double-punch filter window.
	BounceWindowSeconds int `toml:"bounce_window_seconds"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Path: "payroll.db"},
		Payroll: PayrollConfig{
			Timezone:            "Local",
			AccountingStart:     "2024-01-01",
			BounceWindowSeconds: 60,
		},
	}
}

// Load reads a TOML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return cfg, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone. "Local" (or empty) means the
// deployment host's zone.
func (c Config) Location() (*time.Location, error) {
	if c.Payroll.Timezone == "" || c.Payroll.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Payroll.Timezone)
}

// AccountingStartDate parses the carry-forward floor date in loc.
func (c Config) AccountingStartDate(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", c.Payroll.AccountingStart, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("accounting_start: %w", err)
	}
	return t, nil
}

// BounceWindow returns the configured double-punch window.
func (c Config) BounceWindow() time.Duration {
	if c.Payroll.BounceWindowSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Payroll.BounceWindowSeconds) * time.Second
}
