package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "test.db",
			LogLevel: "warn",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Proxy:   ProxyConfig{Timeout: 30 * time.Second},
		Session: SessionConfig{
			IdleTimeout:       time.Minute,
			ReapSchedule:      "@every 1m",
			TelemetryInterval: 500 * time.Millisecond,
			MessagesPerSecond: 10,
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "yasem.db", cfg.Database.DSN)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Logging.RequestLogging)

	assert.Equal(t, 30*time.Second, cfg.Proxy.Timeout)
	assert.Equal(t, int64(32*1024*1024), cfg.Proxy.MaxBodySize)
	assert.Equal(t, "Mozilla/5.0", cfg.Proxy.UserAgent)

	assert.Equal(t, 500*time.Millisecond, cfg.Session.TelemetryInterval)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "@every 1m", cfg.Session.ReapSchedule)
	assert.Empty(t, cfg.Profiles)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
proxy:
  timeout: 5s
profiles:
  - id: p1
    name: Living room
    class_id: mag
    submodel: MAG254
    portal: http://portal.example.test/c/
    config:
      mag/mac_address: AA:BB:CC:DD:EE:FF
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Proxy.Timeout)
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, "p1", cfg.Profiles[0].ID)
	assert.Equal(t, "mag", cfg.Profiles[0].ClassID)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", cfg.Profiles[0].Config["mag/mac_address"])
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("YASEM_SERVER_PORT", "7070")
	t.Setenv("YASEM_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero proxy timeout", func(c *Config) { c.Proxy.Timeout = 0 }, "proxy.timeout"},
		{"negative body size", func(c *Config) { c.Proxy.MaxBodySize = -1 }, "proxy.max_body_size"},
		{"zero telemetry", func(c *Config) { c.Session.TelemetryInterval = 0 }, "session.telemetry_interval"},
		{"zero idle", func(c *Config) { c.Session.IdleTimeout = 0 }, "session.idle_timeout"},
		{"bad schedule", func(c *Config) { c.Session.ReapSchedule = "whenever" }, "session.reap_schedule"},
		{"zero rate", func(c *Config) { c.Session.MessagesPerSecond = 0 }, "session.messages_per_second"},
		{"profile without id", func(c *Config) {
			c.Profiles = []ProfileConfig{{ClassID: "mag"}}
		}, "profiles[0].id"},
		{"profile without class", func(c *Config) {
			c.Profiles = []ProfileConfig{{ID: "p1"}}
		}, "profiles[0].class_id"},
		{"duplicate profile", func(c *Config) {
			c.Profiles = []ProfileConfig{{ID: "p1", ClassID: "mag"}, {ID: "p1", ClassID: "dunehd"}}
		}, "duplicated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 8080}
	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
}
