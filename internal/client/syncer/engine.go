package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/cache"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/client"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/netmon"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/progress"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/queue"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/telemetry"
)

// Pass triggers, as reported in logs and metrics.
const (
	TriggerInit     = "init"
	TriggerOnline   = "online"
	TriggerInterval = "interval"
	TriggerPriority = "priority"
	TriggerManual   = "manual"
)

type Engine struct {
	queue    *queue.Queue
	remote   client.Client
	cache    *cache.Cache
	monitor  netmon.Monitor
	progress *progress.Publisher
	metrics  *telemetry.SyncMetrics
	logger   logging.Logger

	resolver        ConflictResolver
	onApplied       AppliedFunc
	invalidateCache bool
	now             func() time.Time

	flushing atomic.Bool

	mu          sync.Mutex
	settings    Settings
	started     bool
	closed      bool
	ticker      *time.Ticker
	unsubscribe func()

	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Engine)

func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

func WithMetrics(m *telemetry.SyncMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithPublisher shares an existing progress publisher.
func WithPublisher(p *progress.Publisher) Option {
	return func(e *Engine) { e.progress = p }
}

func WithConflictResolver(r ConflictResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithAppliedHook is called after the remote accepts a mutation.
func WithAppliedHook(fn AppliedFunc) Option {
	return func(e *Engine) { e.onApplied = fn }
}

// WithCacheInvalidation expires the cached reads a mutation affects once
// the remote accepts it. Without it cached reads only expire by TTL.
func WithCacheInvalidation() Option {
	return func(e *Engine) { e.invalidateCache = true }
}

// WithClock replaces time.Now in backoff checks. Use the same clock for the
// queue.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New wires an engine. Nothing runs until Initialize.
func New(q *queue.Queue, remote client.Client, c *cache.Cache, monitor netmon.Monitor, logger logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		queue:    q,
		remote:   remote,
		cache:    c,
		monitor:  monitor,
		logger:   logger.With("module", "syncer"),
		resolver: ServerWins,
		now:      time.Now,
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.progress == nil {
		e.progress = progress.New()
	}
	e.settings = e.settings.withDefaults()
	e.runCtx, e.cancel = context.WithCancel(context.Background())
	return e
}

// Initialize loads the persisted queue, subscribes to connectivity changes,
// starts the interval ticker and, if online, requests a first pass.
// Calling it again is a no-op.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.started {
		e.mu.Unlock()
		return nil
	}

	e.queue.Load(ctx)

	e.unsubscribe = e.monitor.OnTransition(func(online bool) {
		if online {
			e.trigger(TriggerOnline)
		}
	})

	e.ticker = time.NewTicker(e.settings.SyncInterval)
	e.wg.Add(1)
	go e.tick(e.ticker)

	e.started = true
	interval := e.settings.SyncInterval
	e.mu.Unlock()

	e.logger.Info(ctx, "sync engine started",
		"pending", e.queue.Count(), "interval", interval.String(), "online", e.monitor.IsOnline())

	e.trigger(TriggerInit)
	return nil
}

func (e *Engine) tick(t *time.Ticker) {
	defer e.wg.Done()
	for {
		select {
		case <-t.C:
			e.trigger(TriggerInterval)
		case <-e.runCtx.Done():
			return
		}
	}
}

// Shutdown stops the ticker and the connectivity subscription, cancels a
// running pass after its in-flight call and waits for it, bounded by ctx.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.ticker != nil {
		e.ticker.Stop()
	}
	e.mu.Unlock()

	e.cancel()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.progress.Reset()
	e.logger.Info(ctx, "sync engine stopped", "pending", e.queue.Count())
	return nil
}

// acquire registers a unit of background work unless the engine is closed.
func (e *Engine) acquire() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.wg.Add(1)
	return true
}

// trigger requests a pass in the background. The request is dropped when
// offline, closed or already flushing.
func (e *Engine) trigger(reason string) {
	if !e.monitor.IsOnline() || e.flushing.Load() {
		return
	}
	if !e.acquire() {
		return
	}

	go func() {
		defer e.wg.Done()
		if _, err := e.runPass(e.runCtx, reason); err != nil && !errors.Is(err, ErrFlushInProgress) {
			e.logger.Debug(e.runCtx, "sync pass interrupted", "trigger", reason, "error", err)
		}
	}()
}

// SetSyncInterval changes the interval and restarts the ticker.
func (e *Engine) SetSyncInterval(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidInterval
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings.SyncInterval = d
	if e.ticker != nil && !e.closed {
		e.ticker.Reset(d)
	}
	return nil
}

// Settings returns the active flush policy.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

func (e *Engine) IsOnline() bool {
	return e.monitor.IsOnline()
}

// IsFlushing reports whether a pass is running.
func (e *Engine) IsFlushing() bool {
	return e.flushing.Load()
}
