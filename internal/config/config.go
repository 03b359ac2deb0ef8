// Package config loads mcp-datasource's runtime configuration from an
// optional YAML file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration for one server process.
type Config struct {
	SQLitePath    string `yaml:"sqlite_path" json:"sqlite_path"`
	MockAPIURL    string `yaml:"mock_api_url" json:"mock_api_url"`
	MockAPIKey    string `yaml:"mock_api_key" json:"mock_api_key"`
	AuditLogPath  string `yaml:"audit_log_path" json:"audit_log_path"`
	OracleMock    bool   `yaml:"oracle_mock" json:"oracle_mock"`
	SocketAddr    string `yaml:"socket_addr" json:"socket_addr"`
	HealthAddr    string `yaml:"health_addr" json:"health_addr"`
	LogStyle      string `yaml:"log_style" json:"log_style"`
	LogLevel      string `yaml:"log_level" json:"log_level"`
	FileSources   []string `yaml:"file_sources" json:"file_sources"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() *Config {
	return &Config{
		SQLitePath:   "mcp_datasource.db",
		MockAPIURL:   "http://localhost:8000",
		MockAPIKey:   "demo-key",
		AuditLogPath: "audit.log",
		OracleMock:   true,
		SocketAddr:   "localhost:8765",
		HealthAddr:   "localhost:9090",
		LogStyle:     "logfmt",
		LogLevel:     "info",
		FileSources:  []string{},
	}
}

// applyDefaults fills zero-valued fields of cfg with DefaultConfig's values.
func applyDefaults(cfg *Config) {
	d := DefaultConfig()
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = d.SQLitePath
	}
	if cfg.MockAPIURL == "" {
		cfg.MockAPIURL = d.MockAPIURL
	}
	if cfg.MockAPIKey == "" {
		cfg.MockAPIKey = d.MockAPIKey
	}
	if cfg.AuditLogPath == "" {
		cfg.AuditLogPath = d.AuditLogPath
	}
	if cfg.SocketAddr == "" {
		cfg.SocketAddr = d.SocketAddr
	}
	if cfg.HealthAddr == "" {
		cfg.HealthAddr = d.HealthAddr
	}
	if cfg.LogStyle == "" {
		cfg.LogStyle = d.LogStyle
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
}

// LoadFromBytes parses YAML config bytes, filling unset fields with defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := &Config{OracleMock: true}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// Load builds the effective configuration: defaults, then an optional YAML
// file at configPath (skipped when the file does not exist), then
// environment variables bound through viper, in increasing priority. The
// variables are SQLITE_DB_PATH, MOCK_API_URL, MOCK_API_KEY, AUDIT_LOG_PATH,
// ORACLE_MOCK, MCP_SOCKET_ADDR, MCP_HEALTH_ADDR, MCP_LOG_STYLE and
// MCP_LOG_LEVEL; file_sources has no environment variable.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		if fileCfg, err := LoadFromFile(configPath); err == nil {
			cfg = fileCfg
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix("MCP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnv(v, "sqlite_path", "SQLITE_DB_PATH")
	bindEnv(v, "mock_api_url", "MOCK_API_URL")
	bindEnv(v, "mock_api_key", "MOCK_API_KEY")
	bindEnv(v, "audit_log_path", "AUDIT_LOG_PATH")
	bindEnv(v, "oracle_mock", "ORACLE_MOCK")
	bindEnv(v, "socket_addr", "MCP_SOCKET_ADDR")
	bindEnv(v, "health_addr", "MCP_HEALTH_ADDR")
	bindEnv(v, "log_style", "MCP_LOG_STYLE")
	bindEnv(v, "log_level", "MCP_LOG_LEVEL")

	if v.IsSet("sqlite_path") {
		cfg.SQLitePath = v.GetString("sqlite_path")
	}
	if v.IsSet("mock_api_url") {
		cfg.MockAPIURL = v.GetString("mock_api_url")
	}
	if v.IsSet("mock_api_key") {
		cfg.MockAPIKey = v.GetString("mock_api_key")
	}
	if v.IsSet("audit_log_path") {
		cfg.AuditLogPath = v.GetString("audit_log_path")
	}
	if v.IsSet("oracle_mock") {
		cfg.OracleMock = v.GetBool("oracle_mock")
	}
	if v.IsSet("socket_addr") {
		cfg.SocketAddr = v.GetString("socket_addr")
	}
	if v.IsSet("health_addr") {
		cfg.HealthAddr = v.GetString("health_addr")
	}
	if v.IsSet("log_style") {
		cfg.LogStyle = v.GetString("log_style")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}

	applyDefaults(cfg)
	return cfg, nil
}

func bindEnv(v *viper.Viper, key, envVar string) {
	_ = v.BindEnv(key, envVar)
}
