// Package config provides configuration management for yasem using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort         = 8080
	defaultServerTimeout      = 30 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultMaxOpenConns       = 25
	defaultMaxIdleConns       = 10
	defaultConnMaxIdleTime    = 30 * time.Minute
	defaultProxyTimeout       = 30 * time.Second
	defaultProxyMaxBodySize   = 32 * 1024 * 1024
	defaultCircuitThreshold   = 5
	defaultCircuitTimeout     = 30 * time.Second
	defaultSessionIdleTimeout = 30 * time.Minute
	defaultTelemetryInterval  = 500 * time.Millisecond
	defaultReapSchedule       = "@every 1m"
	defaultMessagesPerSecond  = 50
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database DatabaseConfig  `mapstructure:"database"`
	Logging  LoggingConfig   `mapstructure:"logging"`
	Proxy    ProxyConfig     `mapstructure:"proxy"`
	Session  SessionConfig   `mapstructure:"session"`
	Profiles []ProfileConfig `mapstructure:"profiles"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level          string `mapstructure:"level"`  // trace, debug, info, warn, error
	Format         string `mapstructure:"format"` // json, text
	AddSource      bool   `mapstructure:"add_source"`
	TimeFormat     string `mapstructure:"time_format"`
	RequestLogging bool   `mapstructure:"request_logging"`
}

// ProxyConfig holds portal proxy configuration.
type ProxyConfig struct {
	// Timeout bounds a single upstream fetch. Exceeding it is reported as
	// an unreachable portal.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxBodySize caps the decoded upstream body in bytes (0 = unlimited).
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CircuitThreshold int           `mapstructure:"circuit_threshold"`
	CircuitTimeout   time.Duration `mapstructure:"circuit_timeout"`
	// UserAgent is sent upstream when the request names no known profile.
	UserAgent string `mapstructure:"user_agent"`
}

// SessionConfig holds emulation session configuration.
type SessionConfig struct {
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ReapSchedule      string        `mapstructure:"reap_schedule"`
	TelemetryInterval time.Duration `mapstructure:"telemetry_interval"`
	// MessagesPerSecond limits inbound socket messages per session.
	MessagesPerSecond int `mapstructure:"messages_per_second"`
}

// ProfileConfig seeds a device profile into the profile store at startup.
type ProfileConfig struct {
	ID       string            `mapstructure:"id"`
	Name     string            `mapstructure:"name"`
	ClassID  string            `mapstructure:"class_id"`
	Submodel string            `mapstructure:"submodel"`
	Portal   string            `mapstructure:"portal"`
	Config   map[string]string `mapstructure:"config"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with YASEM_ and use underscores for nesting.
// Example: YASEM_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/yasem")
		v.AddConfigPath("$HOME/.yasem")
	}

	v.SetEnvPrefix("YASEM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
// This should be called before reading the config file to ensure defaults are in place.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	// Portal fetches may take the whole proxy timeout before the 502 page is written.
	v.SetDefault("server.write_timeout", defaultServerTimeout+defaultProxyTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "yasem.db")
	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", defaultConnMaxIdleTime)
	v.SetDefault("database.log_level", "warn")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)
	v.SetDefault("logging.request_logging", true)

	// Proxy defaults
	v.SetDefault("proxy.timeout", defaultProxyTimeout)
	v.SetDefault("proxy.max_body_size", defaultProxyMaxBodySize)
	v.SetDefault("proxy.circuit_threshold", defaultCircuitThreshold)
	v.SetDefault("proxy.circuit_timeout", defaultCircuitTimeout)
	v.SetDefault("proxy.user_agent", "Mozilla/5.0")

	// Session defaults
	v.SetDefault("session.idle_timeout", defaultSessionIdleTimeout)
	v.SetDefault("session.reap_schedule", defaultReapSchedule)
	v.SetDefault("session.telemetry_interval", defaultTelemetryInterval)
	v.SetDefault("session.messages_per_second", defaultMessagesPerSecond)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be one of: sqlite, postgres, mysql")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Proxy.Timeout <= 0 {
		return fmt.Errorf("proxy.timeout must be positive")
	}
	if c.Proxy.MaxBodySize < 0 {
		return fmt.Errorf("proxy.max_body_size must not be negative")
	}

	if c.Session.TelemetryInterval <= 0 {
		return fmt.Errorf("session.telemetry_interval must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive")
	}
	if _, err := cron.ParseStandard(c.Session.ReapSchedule); err != nil {
		return fmt.Errorf("session.reap_schedule is invalid: %w", err)
	}
	if c.Session.MessagesPerSecond < 1 {
		return fmt.Errorf("session.messages_per_second must be at least 1")
	}

	seen := make(map[string]bool, len(c.Profiles))
	for i, p := range c.Profiles {
		if p.ID == "" {
			return fmt.Errorf("profiles[%d].id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("profiles[%d].id %q is duplicated", i, p.ID)
		}
		seen[p.ID] = true
		if p.ClassID == "" {
			return fmt.Errorf("profiles[%d].class_id is required", i)
		}
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
