package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/dbx"
)

// Remote transports understood by the CLI.
const (
	TransportGRPC = "grpc"
	TransportHTTP = "http"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the Cogni Flash CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC endpoint, or base URL of the
//     REST API when Transport is "http".
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SyncInterval: how often pending mutations are flushed while online.
//   - MaxRetries, BaseRetryDelay: failure ceiling and backoff base of a
//     queued mutation.
//   - CacheTTL: how long a cached read is served without a remote call.
//   - RequestTimeout: deadline of a single remote call.
//   - DatabaseDriver, DatabaseDSN: durable store ("sqlite" or "pgx").
//   - StorePassphrase: when set, stored values are sealed with a key
//     derived from it.
//   - InvalidateCache: expire affected cached reads once a mutation is
//     accepted, instead of waiting for CacheTTL.
type Config struct {
	ServerEndpointAddr  string
	Transport           string
	OnlineCheckInterval time.Duration
	SyncInterval        time.Duration
	MaxRetries          int
	BaseRetryDelay      time.Duration
	CacheTTL            time.Duration
	RequestTimeout      time.Duration
	DatabaseDriver      string
	DatabaseDSN         string
	StorePassphrase     string
	AccessToken         string
	EvictPermanent      bool
	InvalidateCache     bool
	LogLevel            string
	LogFormat           string
	MetricsEndpoint     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Transport = TransportGRPC
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInterval = 30 * time.Second
	c.MaxRetries = 5
	c.BaseRetryDelay = time.Second
	c.CacheTTL = 5 * time.Minute
	c.RequestTimeout = 10 * time.Second
	c.DatabaseDriver = string(dbx.DialectSQLite)
	c.DatabaseDSN = "cogniflash.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.ServerEndpointAddr == "":
		return fmt.Errorf("%w: server endpoint is empty", ErrInvalidConfig)
	case c.Transport != TransportGRPC && c.Transport != TransportHTTP:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Transport)
	case !dbx.Dialect(c.DatabaseDriver).Valid():
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.DatabaseDriver)
	case c.DatabaseDSN == "":
		return fmt.Errorf("%w: database dsn is empty", ErrInvalidConfig)
	case c.OnlineCheckInterval <= 0, c.SyncInterval <= 0, c.BaseRetryDelay <= 0,
		c.CacheTTL <= 0, c.RequestTimeout <= 0:
		return fmt.Errorf("%w: intervals and timeouts must be positive", ErrInvalidConfig)
	case c.MaxRetries <= 0:
		return fmt.Errorf("%w: max retries must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
