package netmon

import (
	"context"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
)

// PingTimeout bounds each reachability probe.
const PingTimeout = 3 * time.Second

// Pinger is anything that can check the remote is up.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingMonitor polls a Pinger on a fixed interval. It starts offline and
// probes once as soon as Run is called.
type PingMonitor struct {
	state

	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
}

func NewPingMonitor(p Pinger, interval time.Duration, logger logging.Logger) *PingMonitor {
	return &PingMonitor{
		pinger:   p,
		interval: interval,
		timeout:  PingTimeout,
		logger:   logger.With("module", "netmon"),
	}
}

// Run polls until ctx is cancelled.
func (m *PingMonitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Check probes the remote once and updates the state.
func (m *PingMonitor) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.pinger.Ping(pingCtx)
	cancel()

	online := err == nil
	if m.set(online) {
		if online {
			m.logger.Info(ctx, "switched to online mode")
		} else {
			m.logger.Warn(ctx, "switched to offline mode", "error", err)
		}
	}
	return online
}
