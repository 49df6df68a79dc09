package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	defaults := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-w", "", "-s", "secret", "-t", "5", "-u", "alice", "-l", "debug", "-f", "text",
		}, expected: &Config{
			EndpointAddrGRPC:            "127.0.0.1:9090",
			EndpointAddrHTTP:            "",
			SecretKey:                   "secret",
			AccessTokenValidityDuration: 5 * time.Minute,
			DevUserID:                   "alice",
			LogLevel:                    "debug",
			LogFormat:                   "text",
		}},
		{name: "no flags keeps values", args: []string{"cmd"}, expected: defaults()},
		{name: "unknown flags are filtered", args: []string{"cmd", "-z", "1", "-s", "k"}, expected: func() *Config {
			c := defaults()
			c.SecretKey = "k"
			return c
		}()},
		{name: "bad int panics", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
