package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dmdvaults.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	mainConfigContent := `
[ledger_db]
type = "leveldb"
path = "/tmp/test/ledger"

[oracle]
fee_pips = 5

[server]
bind = "127.0.0.1"
port = 9090
read_timeout = "3s"

[log]
level = "debug"
format = "text"
`
	path := writeConfig(t, mainConfigContent)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, path, config.GetConfigPath())
	assert.Equal(t, "leveldb", config.LedgerDB.Type)
	assert.Equal(t, "/tmp/test/ledger", config.LedgerDB.Path)
	assert.Equal(t, uint64(5), config.Oracle.FeePips)
	assert.Equal(t, "127.0.0.1:9090", config.Server.GetBindAddress())
	assert.Equal(t, 3*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)

	// untouched keys keep their defaults
	assert.Equal(t, DefaultValuationCacheSize, config.Oracle.ValuationCacheSize)
	assert.Equal(t, 10*time.Second, config.Server.WriteTimeout)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "pebble", config.LedgerDB.Type)
	assert.Equal(t, uint64(DefaultFeePips), config.Oracle.FeePips)
	assert.Equal(t, DefaultServerPort, config.Server.Port)
	assert.Equal(t, "info", config.Log.Level)
	assert.True(t, config.Server.EnableWS)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DMDVAULTS_ORACLE_FEE_PIPS", "25")
	t.Setenv("DMDVAULTS_LEDGER_DB_TYPE", "memory")

	path := writeConfig(t, "[oracle]\nfee_pips = 5\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), config.Oracle.FeePips)
	assert.Equal(t, "memory", config.LedgerDB.Type)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file does not exist")
}

func TestConfigValidationErrors(t *testing.T) {
	valid := func() *Config {
		return &Config{
			LedgerDB: LedgerDBConfig{Type: "pebble", Path: "/tmp/test"},
			Oracle:   OracleConfig{FeePips: 10, ValuationCacheSize: 8},
			Server:   ServerConfig{Port: 8080},
			Log:      LogConfig{Level: "info", Format: "json"},
		}
	}
	require.NoError(t, ValidateConfig(valid()))

	tests := []struct {
		name    string
		mutate  func(c *Config)
		message string
	}{
		{"unknown db", func(c *Config) { c.LedgerDB.Type = "nudb" }, "invalid ledger_db type"},
		{"postgres without dsn", func(c *Config) { c.LedgerDB.Type = "postgres" }, "dsn is required"},
		{"pebble without path", func(c *Config) { c.LedgerDB.Path = "" }, "path is required"},
		{"fee too large", func(c *Config) { c.Oracle.FeePips = 10000 }, "fee_pips must be below 10000"},
		{"empty cache", func(c *Config) { c.Oracle.ValuationCacheSize = 0 }, "valuation_cache_size"},
		{"bad port", func(c *Config) { c.Server.Port = 99999 }, "port number must be between 1 and 65535"},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := ValidateConfig(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestMemoryNeedsNoPath(t *testing.T) {
	c := LedgerDBConfig{Type: "MEMORY"}
	require.NoError(t, c.Validate())
	assert.Equal(t, "memory", c.Type)
	assert.Equal(t, "memory", c.String())
}
