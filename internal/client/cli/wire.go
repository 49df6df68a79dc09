package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/buildinfo"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/cache"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/client"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/config"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/netmon"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/queue"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/store"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/syncer"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/dbx"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/telemetry"
)

// NewApp opens the durable store, connects the remote client and builds the
// sync engine described by c. Nothing runs until App.Run.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	a := &App{config: c, logger: logger, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	fail := func(err error) (*App, error) {
		_ = a.releaseAll(ctx)
		return nil, err
	}

	dialect := dbx.Dialect(c.DatabaseDriver)
	db, err := store.OpenDatabase(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return fail(fmt.Errorf("error initializing database: %w", err))
	}
	a.closers = append(a.closers, func(context.Context) error { return db.Close() })

	var st store.Store = store.NewSQLStore(db, dialect)
	if c.StorePassphrase != "" {
		sealed, err := store.NewSealedStore(ctx, st, []byte(c.StorePassphrase))
		if err != nil {
			return fail(fmt.Errorf("error unlocking store: %w", err))
		}
		st = sealed
	}

	a.creds = auth.NewCredentials(c.AccessToken)

	remote, err := newRemote(c, a.creds)
	if err != nil {
		return fail(fmt.Errorf("error creating client: %w", err))
	}
	a.closers = append(a.closers, func(context.Context) error { return remote.Close() })

	mp, shutdownMetrics, err := telemetry.NewMeterProvider(ctx, telemetry.MeterConfig{
		ServiceName: "cogniflash-cli",
		Version:     buildinfo.Version,
		Endpoint:    c.MetricsEndpoint,
		Insecure:    true,
	})
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, shutdownMetrics)

	metrics, err := telemetry.NewSyncMetrics(mp)
	if err != nil {
		return fail(err)
	}

	monitor := netmon.NewPingMonitor(remote, c.OnlineCheckInterval, logger)
	a.watchers = append(a.watchers, monitor.Run)

	q := queue.New(st, logger)
	rc := cache.New(remote, logger, cache.WithTTL(c.CacheTTL), cache.WithStore(st))

	opts := []syncer.Option{
		syncer.WithSettings(syncer.Settings{
			SyncInterval:   c.SyncInterval,
			MaxRetries:     c.MaxRetries,
			BaseRetryDelay: c.BaseRetryDelay,
			RequestTimeout: c.RequestTimeout,
			EvictPermanent: c.EvictPermanent,
		}),
		syncer.WithMetrics(metrics),
	}
	if c.InvalidateCache {
		opts = append(opts, syncer.WithCacheInvalidation())
	}
	a.engine = syncer.New(q, remote, rc, monitor, logger, opts...)

	return a, nil
}

func newRemote(c *config.Config, creds *auth.Credentials) (client.Client, error) {
	switch c.Transport {
	case config.TransportHTTP:
		return client.NewHTTPClient(c.ServerEndpointAddr, creds, c.RequestTimeout)
	case config.TransportGRPC:
		return client.NewGRPCClient(c.ServerEndpointAddr, creds, c.RequestTimeout)
	}
	return nil, fmt.Errorf("unknown transport %q", c.Transport)
}

func (a *App) releaseAll(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
