// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLogLevel is the effective log level when LOG_LEVEL is unset or empty.
const DefaultLogLevel = "error"

// Config holds the full service configuration.
type Config struct {
	ProjectName string   `yaml:"project_name"`
	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`

	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Readiness ReadinessConfig `yaml:"readiness"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	Scheme   string `yaml:"scheme"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`

	// URI overrides assembly from the individual fields when set.
	URI string `yaml:"uri"`

	MaxOpenConns    int `yaml:"max_open_conns"`
	MaxIdleConns    int `yaml:"max_idle_conns"`
	ConnMaxLifetime int `yaml:"conn_max_lifetime_seconds"`
}

// DSN returns the connection string, assembling one from the individual
// fields unless URI is set.
func (c DatabaseConfig) DSN() string {
	if c.URI != "" {
		return c.URI
	}
	u := url.URL{
		Scheme: c.Scheme,
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

// ReadinessConfig bounds the database readiness probe performed before
// migrations run.
type ReadinessConfig struct {
	MaxWaitSeconds       int `yaml:"max_wait_seconds"`
	InitialBackoffMillis int `yaml:"initial_backoff_millis"`
	MaxBackoffMillis     int `yaml:"max_backoff_millis"`
	PingTimeoutSeconds   int `yaml:"ping_timeout_seconds"`
}

// RateLimitConfig configures per-client HTTP rate limiting. A zero
// RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// Load reads configuration from the file named by CONFIG_FILE (optional) and
// applies environment overrides.
func Load() (*Config, error) {
	return LoadFromPath(os.Getenv("CONFIG_FILE"))
}

// LoadFromPath loads configuration from a specific path. An empty path skips
// the file and uses defaults plus environment overrides only.
func LoadFromPath(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ProjectName: "webapi",
		LogLevel:    DefaultLogLevel,
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Database: DatabaseConfig{
			Scheme:          "postgres",
			Host:            "localhost",
			Port:            5432,
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Readiness: ReadinessConfig{
			MaxWaitSeconds:       60,
			InitialBackoffMillis: 500,
			MaxBackoffMillis:     5000,
			PingTimeoutSeconds:   3,
		},
	}
}

func (c *Config) applyEnv() {
	setString(&c.ProjectName, "PROJECT_NAME")
	setString(&c.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("BACKEND_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitOrigins(v)
	}

	setString(&c.Server.Host, "SERVER_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")

	setString(&c.Database.Scheme, "POSTGRES_SCHEME")
	setString(&c.Database.Host, "POSTGRES_SERVER")
	setInt(&c.Database.Port, "POSTGRES_PORT")
	setString(&c.Database.User, "POSTGRES_USER")
	setString(&c.Database.Password, "POSTGRES_PASSWORD")
	setString(&c.Database.Name, "POSTGRES_DB")
	setString(&c.Database.URI, "DATABASE_URI")
	setInt(&c.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	setInt(&c.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	setInt(&c.Database.ConnMaxLifetime, "DB_CONN_MAX_LIFETIME")

	setInt(&c.Readiness.MaxWaitSeconds, "READINESS_MAX_WAIT")
	setInt(&c.Readiness.InitialBackoffMillis, "READINESS_INITIAL_BACKOFF_MS")
	setInt(&c.Readiness.MaxBackoffMillis, "READINESS_MAX_BACKOFF_MS")
	setInt(&c.Readiness.PingTimeoutSeconds, "READINESS_PING_TIMEOUT")

	setInt(&c.RateLimit.RequestsPerSecond, "RATE_LIMIT_RPS")
	setInt(&c.RateLimit.Burst, "RATE_LIMIT_BURST")
}

func (c *Config) validate() error {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.URI == "" && c.Database.Name == "" {
		return fmt.Errorf("database name is required (POSTGRES_DB or DATABASE_URI)")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
