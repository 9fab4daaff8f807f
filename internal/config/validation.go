package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	validDBTypes    = []string{"pebble", "leveldb", "bbolt", "memory", "sqlite", "postgres"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.LedgerDB.Validate(); err != nil {
		return fmt.Errorf("ledger_db validation failed: %w", err)
	}
	if err := config.Oracle.Validate(); err != nil {
		return fmt.Errorf("oracle validation failed: %w", err)
	}
	if err := config.Server.Validate(); err != nil {
		return fmt.Errorf("server validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	return nil
}

// Validate performs validation on the ledger database configuration
func (l *LedgerDBConfig) Validate() error {
	l.Type = strings.ToLower(l.Type)
	if !slices.Contains(validDBTypes, l.Type) {
		return fmt.Errorf("invalid ledger_db type: %s (valid options: %s)", l.Type, strings.Join(validDBTypes, ", "))
	}

	switch l.Type {
	case "postgres":
		if l.DSN == "" {
			return fmt.Errorf("dsn is required for postgres")
		}
	case "memory":
	default:
		if l.Path == "" {
			return fmt.Errorf("path is required for %s", l.Type)
		}
	}

	if l.MaxOpenConns < 0 || l.MaxIdleConns < 0 {
		return fmt.Errorf("connection pool sizes must be non-negative")
	}
	if l.ConnMaxLifetime < 0 {
		return fmt.Errorf("conn_max_lifetime must be non-negative, got %s", l.ConnMaxLifetime)
	}
	return nil
}

// Validate performs validation on the oracle configuration
func (o *OracleConfig) Validate() error {
	if o.FeePips >= 10000 {
		return fmt.Errorf("fee_pips must be below 10000, got %d", o.FeePips)
	}
	if o.ValuationCacheSize < 1 {
		return fmt.Errorf("valuation_cache_size must be positive, got %d", o.ValuationCacheSize)
	}
	return nil
}

// Validate performs validation on the server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port number must be between 1 and 65535, got %d", s.Port)
	}
	if s.ReadTimeout < 0 || s.WriteTimeout < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}
	return nil
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	l.Level = strings.ToLower(l.Level)
	if !slices.Contains(validLogLevels, l.Level) {
		return fmt.Errorf("invalid log level: %s (valid options: %s)", l.Level, strings.Join(validLogLevels, ", "))
	}
	l.Format = strings.ToLower(l.Format)
	if !slices.Contains(validLogFormats, l.Format) {
		return fmt.Errorf("invalid log format: %s (valid options: %s)", l.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}
