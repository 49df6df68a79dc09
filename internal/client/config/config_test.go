package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, TransportGRPC, c.Transport)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 30*time.Second, c.SyncInterval)
	assert.Equal(t, 5, c.MaxRetries)
	assert.Equal(t, time.Second, c.BaseRetryDelay)
	assert.Equal(t, 5*time.Minute, c.CacheTTL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.False(t, c.EvictPermanent)
	assert.False(t, c.InvalidateCache)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty endpoint", func(c *Config) { c.ServerEndpointAddr = "" }},
		{"bad transport", func(c *Config) { c.Transport = "smtp" }},
		{"bad driver", func(c *Config) { c.DatabaseDriver = "mysql" }},
		{"empty dsn", func(c *Config) { c.DatabaseDSN = "" }},
		{"zero sync interval", func(c *Config) { c.SyncInterval = 0 }},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
