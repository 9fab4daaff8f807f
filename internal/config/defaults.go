package config

import "github.com/spf13/viper"

// Default values
const (
	DefaultFeePips            = 10
	DefaultValuationCacheSize = 64
	DefaultServerPort         = 8080
)

// setDefaults registers every key so environment overrides can bind to it
func setDefaults(v *viper.Viper) {
	// Ledger database defaults
	v.SetDefault("ledger_db.type", "pebble")
	v.SetDefault("ledger_db.path", "./data/ledger")
	v.SetDefault("ledger_db.dsn", "")
	v.SetDefault("ledger_db.max_open_conns", 0) // 0 means driver default
	v.SetDefault("ledger_db.max_idle_conns", 0)
	v.SetDefault("ledger_db.conn_max_lifetime", "0s")

	// Oracle defaults
	v.SetDefault("oracle.fee_pips", DefaultFeePips)
	v.SetDefault("oracle.valuation_cache_size", DefaultValuationCacheSize)

	// Server defaults
	v.SetDefault("server.bind", "")
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.enable_ws", true)
	v.SetDefault("server.enable_metrics", true)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.env", "")
}
