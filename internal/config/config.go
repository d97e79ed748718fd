package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// hardMaxPageSize mirrors request.MaxPageSize; a configured limit may not exceed it.
const hardMaxPageSize = 1000

// Config holds the devhabit API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Public   PublicConfig   `yaml:"public"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, sqlite (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"` // sqlite only
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// PublicConfig holds settings of the anonymous read API.
type PublicConfig struct {
	// OwnerUserID, when set, limits public visibility to one author's blogs.
	OwnerUserID     string `yaml:"owner_user_id"`
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates the configuration at path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "devhabit:"
	}
	if c.Public.DefaultPageSize <= 0 {
		c.Public.DefaultPageSize = 10
	}
	if c.Public.MaxPageSize <= 0 {
		c.Public.MaxPageSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf(
			"database.driver must be %q, %q or %q, got %q",
			DriverRedis, DriverValkey, DriverSQLite, c.Database.Driver,
		)
	}
	if c.Public.MaxPageSize > hardMaxPageSize {
		return fmt.Errorf("public.max_page_size must be <= %d, got %d", hardMaxPageSize, c.Public.MaxPageSize)
	}
	if c.Public.DefaultPageSize > c.Public.MaxPageSize {
		return fmt.Errorf(
			"public.default_page_size (%d) must not exceed public.max_page_size (%d)",
			c.Public.DefaultPageSize, c.Public.MaxPageSize,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
