package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine's fully-resolved configuration (§B Configuration),
// assembled by layering a YAML file under environment variables under
// CLI flags, following main.go's original env/envInt + flag + YAML-file
// precedence.
type Config struct {
	Host string
	Port int

	SqliteDSN string

	TLSCertFile string
	TLSKeyFile  string

	PreparedStatementCacheSize int
	PreparedStatementIdleTTL   time.Duration
	AdHocStatementCacheSize    int
	AdHocStatementIdleTTL      time.Duration
}

// FileConfig is the YAML configuration file shape.
type FileConfig struct {
	Host      string       `yaml:"host"`
	Port      int          `yaml:"port"`
	SqliteDSN string       `yaml:"sqlite_dsn"`
	TLS       TLSFileConfig `yaml:"tls"`
	Cache     CacheFileConfig `yaml:"cache"`
}

type TLSFileConfig struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type CacheFileConfig struct {
	PreparedStatementCacheSize int    `yaml:"prepared_statement_cache_size"`
	PreparedStatementIdleTTL   string `yaml:"prepared_statement_idle_ttl"` // e.g. "5m"
	AdHocStatementCacheSize    int    `yaml:"ad_hoc_statement_cache_size"`
	AdHocStatementIdleTTL      string `yaml:"ad_hoc_statement_idle_ttl"`
}

func defaultConfig() Config {
	return Config{
		Host:                       "0.0.0.0",
		Port:                       32010,
		SqliteDSN:                  "file::memory:?cache=shared",
		PreparedStatementCacheSize: 100,
		PreparedStatementIdleTTL:   10 * time.Minute,
		AdHocStatementCacheSize:    100,
		AdHocStatementIdleTTL:      time.Minute,
	}
}

// loadConfigFile loads a YAML configuration file.
func loadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// applyFileConfig layers fileCfg's non-zero fields onto cfg.
func applyFileConfig(cfg *Config, fileCfg *FileConfig) {
	if fileCfg.Host != "" {
		cfg.Host = fileCfg.Host
	}
	if fileCfg.Port != 0 {
		cfg.Port = fileCfg.Port
	}
	if fileCfg.SqliteDSN != "" {
		cfg.SqliteDSN = fileCfg.SqliteDSN
	}
	if fileCfg.TLS.Cert != "" {
		cfg.TLSCertFile = fileCfg.TLS.Cert
	}
	if fileCfg.TLS.Key != "" {
		cfg.TLSKeyFile = fileCfg.TLS.Key
	}
	if fileCfg.Cache.PreparedStatementCacheSize > 0 {
		cfg.PreparedStatementCacheSize = fileCfg.Cache.PreparedStatementCacheSize
	}
	if fileCfg.Cache.AdHocStatementCacheSize > 0 {
		cfg.AdHocStatementCacheSize = fileCfg.Cache.AdHocStatementCacheSize
	}
	if fileCfg.Cache.PreparedStatementIdleTTL != "" {
		if d, err := time.ParseDuration(fileCfg.Cache.PreparedStatementIdleTTL); err == nil {
			cfg.PreparedStatementIdleTTL = d
		}
	}
	if fileCfg.Cache.AdHocStatementIdleTTL != "" {
		if d, err := time.ParseDuration(fileCfg.Cache.AdHocStatementIdleTTL); err == nil {
			cfg.AdHocStatementIdleTTL = d
		}
	}
}

// applyEnv layers FLIGHTSQL_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FLIGHTSQL_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("FLIGHTSQL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("FLIGHTSQL_SQLITE_DSN"); v != "" {
		cfg.SqliteDSN = v
	}
	if v := os.Getenv("FLIGHTSQL_CERT"); v != "" {
		cfg.TLSCertFile = v
	}
	if v := os.Getenv("FLIGHTSQL_KEY"); v != "" {
		cfg.TLSKeyFile = v
	}
}
