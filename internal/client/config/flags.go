package config

import (
	"flag"
	"os"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/flagx"
)

var (
	valueFlags = []string{"-a", "-t", "-i", "-s", "-r", "-b", "-ttl", "-timeout", "-d", "-dsn", "-p", "-token", "-l", "-f", "-m"}
	boolFlags  = []string{"-E", "-I"}
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     server endpoint (host:port, or base URL for http)
//	-t string     transport: grpc or http
//	-i int        online check interval in seconds
//	-s int        sync interval in seconds
//	-r int        max retries before a mutation is evicted
//	-b duration   base retry delay (e.g. 500ms)
//	-ttl duration cache time to live
//	-timeout duration  per-request timeout
//	-d string     database driver: sqlite or pgx
//	-dsn string   database DSN
//	-p string     store passphrase (enables sealing)
//	-token string bearer token
//	-E            evict mutations on permanent remote errors
//	-I            expire affected cached reads after a mutation is applied
//	-l string     log level
//	-f string     log format: text or json
//	-m string     OTLP/HTTP metrics endpoint
//
// Note: os.Args is filtered through flagx.FilterArgsWithBools so that flags
// owned by other loaders do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgsWithBools(os.Args[1:], valueFlags, boolFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "server endpoint")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport (grpc|http)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	fs.IntVar(&cfg.MaxRetries, "r", cfg.MaxRetries, "max retries per mutation")
	fs.DurationVar(&cfg.BaseRetryDelay, "b", cfg.BaseRetryDelay, "base retry delay")
	fs.DurationVar(&cfg.CacheTTL, "ttl", cfg.CacheTTL, "cache time to live")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.DatabaseDriver, "d", cfg.DatabaseDriver, "database driver (sqlite|pgx)")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.StorePassphrase, "p", cfg.StorePassphrase, "store passphrase")
	fs.StringVar(&cfg.AccessToken, "token", cfg.AccessToken, "bearer token")
	fs.BoolVar(&cfg.EvictPermanent, "E", cfg.EvictPermanent, "evict mutations on permanent errors")
	fs.BoolVar(&cfg.InvalidateCache, "I", cfg.InvalidateCache, "invalidate cached reads on applied mutations")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text|json)")
	fs.StringVar(&cfg.MetricsEndpoint, "m", cfg.MetricsEndpoint, "OTLP/HTTP metrics endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// second-granularity flags only override when given, so sub-second
	// values from JSON survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		case "s":
			cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
		}
	})
}
