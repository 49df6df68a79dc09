package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	err error
}

func (f fakeRunner) Run(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

func TestNewApp_Servers(t *testing.T) {
	c := testConfig()
	assert.Len(t, NewApp(c, logging.Nop()).servers, 2)

	c.EndpointAddrHTTP = ""
	assert.Len(t, NewApp(c, logging.Nop()).servers, 1)
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := NewApp(testConfig(), logging.Nop())
	app.servers = []runner{fakeRunner{}, fakeRunner{}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ServerFailureStopsOthers(t *testing.T) {
	boom := errors.New("bind failed")
	app := NewApp(testConfig(), logging.Nop())
	app.servers = []runner{fakeRunner{}, fakeRunner{err: boom}}

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after a server failed")
	}
}
