// Package cache serves remote read queries through a TTL cache that falls
// back to the last known value when the remote cannot be reached.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/store"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
)

// DefaultTTL is how long a fetched value is served without asking the remote.
const DefaultTTL = 5 * time.Minute

var ErrNoData = errors.New("no cached data and remote query failed")

// Querier performs the remote read behind a cache key.
type Querier interface {
	Query(ctx context.Context, key models.QueryKey) ([]byte, error)
}

// Result describes where a value came from.
type Result struct {
	// Stale is set when the remote query failed and a previous value was
	// returned instead.
	Stale bool
	// FromCache is set when no remote query was made or it failed.
	FromCache bool
	FetchedAt time.Time
}

// Cache holds at most one entry per key. Concurrent reads of the same key
// may each query the remote; the last writer wins.
type Cache struct {
	mu      sync.Mutex
	entries map[string]models.CacheEntry
	// generation per kind, bumped by Invalidate; an entry is only fresh if
	// it was stored under the current generation of its kind
	gen      map[models.QueryKind]uint64
	entryGen map[string]uint64

	querier Querier
	store   store.Store
	ttl     time.Duration
	now     func() time.Time
	logger  logging.Logger
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithStore persists entries so they survive restarts.
func WithStore(st store.Store) Option {
	return func(c *Cache) { c.store = st }
}

func New(q Querier, logger logging.Logger, opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]models.CacheEntry),
		gen:      make(map[models.QueryKind]uint64),
		entryGen: make(map[string]uint64),
		querier:  q,
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   logger.With("module", "cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key. A fresh entry is returned without a
// remote call unless forceRefresh is set. Otherwise the remote is queried
// and the entry replaced; if that fails, the previous entry is returned
// with Result.Stale set, or the remote error if there is none.
func (c *Cache) Get(ctx context.Context, key models.QueryKey, forceRefresh bool) ([]byte, Result, error) {
	name := key.String()

	entry, cached := c.lookup(ctx, name)
	if cached && !forceRefresh && c.fresh(key.Kind, entry) {
		return entry.Value, Result{FromCache: true, FetchedAt: entry.FetchedAt}, nil
	}

	gen := c.generation(key.Kind)
	value, err := c.querier.Query(ctx, key)
	if err == nil {
		fresh := models.CacheEntry{Key: name, Value: value, FetchedAt: c.now()}
		c.put(ctx, gen, fresh)
		return value, Result{FetchedAt: fresh.FetchedAt}, nil
	}

	if cached {
		c.logger.Warn(ctx, "remote query failed, serving cached data",
			"key", name, "age", entry.Age(c.now()).String(), "error", err)
		return entry.Value, Result{Stale: true, FromCache: true, FetchedAt: entry.FetchedAt}, nil
	}

	return nil, Result{}, fmt.Errorf("%w: %s: %w", ErrNoData, name, err)
}

// Invalidate expires every entry of the given kinds, so the next Get asks
// the remote. Expired entries remain available as a stale fallback. A query
// already in flight when Invalidate runs stores its result as expired.
func (c *Cache) Invalidate(kinds ...models.QueryKind) {
	c.mu.Lock()
	for _, k := range kinds {
		c.gen[k]++
	}
	c.mu.Unlock()
}

func (c *Cache) generation(kind models.QueryKind) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[kind]
}

func (c *Cache) fresh(kind models.QueryKind, entry models.CacheEntry) bool {
	if entry.Age(c.now()) >= c.ttl {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryGen[entry.Key] == c.gen[kind]
}

// Peek returns the current entry without touching the remote.
func (c *Cache) Peek(ctx context.Context, key models.QueryKey) (models.CacheEntry, bool) {
	return c.lookup(ctx, key.String())
}

func (c *Cache) lookup(ctx context.Context, name string) (models.CacheEntry, bool) {
	c.mu.Lock()
	entry, ok := c.entries[name]
	c.mu.Unlock()
	if ok || c.store == nil {
		return entry, ok
	}

	raw, ok, err := c.store.Get(ctx, store.NamespaceCache, name)
	if err != nil {
		c.logger.Error(ctx, "failed to read cached entry", "key", name, "error", err)
		return models.CacheEntry{}, false
	}
	if !ok {
		return models.CacheEntry{}, false
	}

	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Error(ctx, "cached entry is corrupt", "key", name, "error", err)
		return models.CacheEntry{}, false
	}

	c.mu.Lock()
	// a concurrent fetch may have landed while the store was being read
	if current, exists := c.entries[name]; exists {
		entry = current
	} else {
		c.entries[name] = entry
	}
	c.mu.Unlock()

	return entry, true
}

// put stores entry under gen, the generation of its kind when the query
// started.
func (c *Cache) put(ctx context.Context, gen uint64, entry models.CacheEntry) {
	c.mu.Lock()
	c.entries[entry.Key] = entry
	c.entryGen[entry.Key] = gen
	c.mu.Unlock()

	if c.store == nil {
		return
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error(ctx, "failed to encode cache entry", "key", entry.Key, "error", err)
		return
	}
	if err := c.store.Set(context.WithoutCancel(ctx), store.NamespaceCache, entry.Key, raw); err != nil {
		c.logger.Error(ctx, "failed to persist cache entry", "key", entry.Key, "error", err)
	}
}
