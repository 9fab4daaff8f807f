package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config represents the complete dmdvaults configuration
type Config struct {
	LedgerDB LedgerDBConfig `toml:"ledger_db" mapstructure:"ledger_db"`
	Oracle   OracleConfig   `toml:"oracle" mapstructure:"oracle"`
	Server   ServerConfig   `toml:"server" mapstructure:"server"`
	Log      LogConfig      `toml:"log" mapstructure:"log"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// LedgerDBConfig represents the [ledger_db] section
// Selects the key/value store holding ledger table rows
type LedgerDBConfig struct {
	Type string `toml:"type" mapstructure:"type"`
	Path string `toml:"path" mapstructure:"path"`
	DSN  string `toml:"dsn" mapstructure:"dsn"`

	// Connection pool settings (sqlite and postgres only)
	MaxOpenConns    int           `toml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// OracleConfig represents the [oracle] section
type OracleConfig struct {
	// FeePips is the withdrawal fee in basis points of a basis point (1/10000)
	FeePips            uint64 `toml:"fee_pips" mapstructure:"fee_pips"`
	ValuationCacheSize int    `toml:"valuation_cache_size" mapstructure:"valuation_cache_size"`
}

// ServerConfig represents the [server] section of the query surface
type ServerConfig struct {
	Bind          string        `toml:"bind" mapstructure:"bind"`
	Port          int           `toml:"port" mapstructure:"port"`
	ReadTimeout   time.Duration `toml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `toml:"write_timeout" mapstructure:"write_timeout"`
	EnableWS      bool          `toml:"enable_ws" mapstructure:"enable_ws"`
	EnableMetrics bool          `toml:"enable_metrics" mapstructure:"enable_metrics"`
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
	File   string `toml:"file" mapstructure:"file"`
	Env    string `toml:"env" mapstructure:"env"`
}

// GetConfigPath returns the path to the loaded configuration file, if any
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetBindAddress returns the listen address for the query server
func (s ServerConfig) GetBindAddress() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}

func (l LedgerDBConfig) String() string {
	if l.Type == "postgres" || l.Type == "memory" {
		return l.Type
	}
	return fmt.Sprintf("%s:%s", l.Type, l.Path)
}
