package cmd

import (
	"testing"
	"time"

	"github.com/jmylchreest/yasem/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMap(t *testing.T) {
	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8080, ReadTimeout: 30 * time.Second, CORSOrigins: []string{"*"}},
		Session: config.SessionConfig{ReapSchedule: "@every 1m", IdleTimeout: 30 * time.Minute},
		Profiles: []config.ProfileConfig{
			{ID: "p1", ClassID: "mag", Config: map[string]string{"mag/mac_address": "AA:BB:CC:DD:EE:FF"}},
		},
	}

	m := toMap(cfg)

	server, ok := m["server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 8080, server["port"])
	assert.Equal(t, "30s", server["read_timeout"])
	assert.Equal(t, []string{"*"}, server["cors_origins"])

	session, ok := m["session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "30m0s", session["idle_timeout"])

	profiles, ok := m["profiles"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, profiles, 1)
	assert.Equal(t, "mag", profiles[0]["class_id"])
}
