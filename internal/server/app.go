// Package server runs the dev study authority: an in-memory deck and card
// store served over gRPC and, optionally, REST. It issues a development
// token at startup so a client can authenticate right away.
package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/config"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/rest"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/study"

	gs "github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	study   *study.Service
	servers []runner
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	svc := study.NewService()

	servers := []runner{gs.NewGRPCServer(c.EndpointAddrGRPC, logger, svc, c.SecretKey)}
	if c.EndpointAddrHTTP != "" {
		servers = append(servers, rest.NewServer(c.EndpointAddrHTTP, logger, svc, c.SecretKey))
	}

	return &App{config: c, logger: logger, study: svc, servers: servers}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// issueDevToken logs a token for the configured dev user.
func (app *App) issueDevToken(ctx context.Context) error {
	token, err := auth.GenerateToken(app.config.DevUserID, []byte(app.config.SecretKey), app.config.AccessTokenValidityDuration)
	if err != nil {
		return err
	}
	app.logger.Info(ctx, "Issued dev access token",
		"user", app.config.DevUserID,
		"valid_for", app.config.AccessTokenValidityDuration.String(),
		"token", token)
	return nil
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
// The first server error is returned.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	if err := app.issueDevToken(ctx); err != nil {
		return err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, s := range app.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, err.Error())
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	return errors.Join(errs...)
}
