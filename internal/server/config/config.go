// Package config handles configuration for the dev server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the dev server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - EndpointAddrHTTP: bind address for the REST endpoint; empty disables it.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: lifetime of issued tokens.
//   - DevUserID: user the startup token is issued for.
//   - LogLevel / LogFormat: logger settings.
type Config struct {
	EndpointAddrGRPC            string
	EndpointAddrHTTP            string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	DevUserID                   string
	LogLevel                    string
	LogFormat                   string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.DevUserID = "dev"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
