// Package config provides configuration management. Files may be JSON or
// HCL; the loader dispatches on the file extension.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"budget-analytics/core/types"
	"budget-analytics/internal/errors"
	"budget-analytics/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" hcl:"version,optional"`

	// Database contains relational store settings
	Database DatabaseConfig `json:"database" hcl:"database,block"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server" hcl:"server,block"`

	// Analytics contains engine defaults
	Analytics AnalyticsConfig `json:"analytics" hcl:"analytics,block"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" hcl:"logging,block"`
}

// DatabaseConfig contains relational store settings
type DatabaseConfig struct {
	// DSN is the Postgres connection string
	DSN string `json:"dsn" hcl:"dsn,optional"`

	// MaxOpenConns caps the connection pool
	MaxOpenConns int `json:"max_open_conns" hcl:"max_open_conns,optional"`

	// MaxIdleConns caps idle pooled connections
	MaxIdleConns int `json:"max_idle_conns" hcl:"max_idle_conns,optional"`

	// StatementTimeoutMillis is applied per session; expired statements
	// surface as SQLSTATE 57014
	StatementTimeoutMillis int `json:"statement_timeout_millis" hcl:"statement_timeout_millis,optional"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" hcl:"addr,optional"`

	// ReadTimeoutSeconds bounds request reads
	ReadTimeoutSeconds int `json:"read_timeout_seconds" hcl:"read_timeout_seconds,optional"`

	// WriteTimeoutSeconds bounds response writes
	WriteTimeoutSeconds int `json:"write_timeout_seconds" hcl:"write_timeout_seconds,optional"`
}

// AnalyticsConfig contains engine defaults
type AnalyticsConfig struct {
	// DefaultCurrency is used when callers send no normalization intent
	DefaultCurrency types.Currency `json:"default_currency" hcl:"default_currency,optional"`

	// FactTable is the budget execution fact table name
	FactTable string `json:"fact_table" hcl:"fact_table,optional"`

	// EntityTable is the reporting entity table name
	EntityTable string `json:"entity_table" hcl:"entity_table,optional"`

	// UatTable is the administrative-territorial unit table name
	UatTable string `json:"uat_table" hcl:"uat_table,optional"`

	// CountyTable is the county table name
	CountyTable string `json:"county_table" hcl:"county_table,optional"`

	// FactorsPath points the file-backed factor provider at its dataset
	FactorsPath string `json:"factors_path" hcl:"factors_path,optional"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Database: DatabaseConfig{
			DSN:                    "postgres://localhost:5432/budget?sslmode=disable",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			StatementTimeoutMillis: 30000,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 60,
		},
		Analytics: AnalyticsConfig{
			DefaultCurrency: types.CurrencyRON,
			FactTable:       "budget_line_items",
			EntityTable:     "entities",
			UatTable:        "uats",
			CountyTable:     "counties",
			FactorsPath:     "factors.json",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON or HCL file. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		var overlay hclOverlay
		if err := hclsimple.DecodeFile(path, nil, &overlay); err != nil {
			return nil, errors.Config("decoding HCL config", err)
		}
		overlay.apply(config)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Config("reading config file", err)
		}
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Config("decoding JSON config", err)
		}
	}

	return config, nil
}

// hclOverlay mirrors Config with optional blocks so a partial HCL file can
// be layered over the defaults
type hclOverlay struct {
	Version   string           `hcl:"version,optional"`
	Database  *DatabaseConfig  `hcl:"database,block"`
	Server    *ServerConfig    `hcl:"server,block"`
	Analytics *AnalyticsConfig `hcl:"analytics,block"`
	Logging   *logging.Config  `hcl:"logging,block"`
}

func (o *hclOverlay) apply(c *Config) {
	if o.Version != "" {
		c.Version = o.Version
	}
	if o.Database != nil {
		c.Database = *o.Database
	}
	if o.Server != nil {
		c.Server = *o.Server
	}
	if o.Analytics != nil {
		c.Analytics = *o.Analytics
	}
	if o.Logging != nil {
		c.Logging = *o.Logging
	}
}

// Save saves configuration to a JSON file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
