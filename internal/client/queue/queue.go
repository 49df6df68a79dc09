// Package queue holds the ordered list of mutations waiting to be replayed
// against the remote. Every change is written through to the durable store
// so a restart resumes with the same pending work.
package queue

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/store"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/google/uuid"
)

// Queue is safe for concurrent use. Persistence failures are logged and
// never surface to callers; the in-memory state stays authoritative.
type Queue struct {
	mu    sync.Mutex
	items map[string]models.PendingMutation

	store  store.Store
	logger logging.Logger
	now    func() time.Time
	newID  func() (uuid.UUID, error)
}

type Option func(*Queue)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithIDGenerator replaces uuid.NewV7.
func WithIDGenerator(gen func() (uuid.UUID, error)) Option {
	return func(q *Queue) { q.newID = gen }
}

func New(st store.Store, logger logging.Logger, opts ...Option) *Queue {
	q := &Queue{
		items:  make(map[string]models.PendingMutation),
		store:  st,
		logger: logger.With("module", "queue"),
		now:    time.Now,
		newID:  uuid.NewV7,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Load replaces the in-memory queue with the persisted one. A missing key
// yields an empty queue; unreadable data is logged and discarded.
func (q *Queue) Load(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = make(map[string]models.PendingMutation)

	data, ok, err := q.store.Get(ctx, store.NamespaceSync, store.KeySyncQueue)
	if err != nil {
		q.logger.Error(ctx, "failed to read persisted queue", "error", err)
		return
	}
	if !ok || len(data) == 0 {
		return
	}

	var persisted []models.PendingMutation
	if err := json.Unmarshal(data, &persisted); err != nil {
		q.logger.Error(ctx, "persisted queue is corrupt, starting empty", "error", err)
		return
	}

	for _, m := range persisted {
		if m.ID == "" || !m.Action.Valid() {
			q.logger.Warn(ctx, "dropping malformed persisted mutation", "id", m.ID, "action", m.Action)
			continue
		}
		q.items[m.ID] = m
	}

	q.logger.Info(ctx, "queue loaded", "pending", len(q.items))
}

// Enqueue appends a mutation and returns its ID.
func (q *Queue) Enqueue(ctx context.Context, action models.MutationAction, payload json.RawMessage, priority models.Priority) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.nextIDLocked()

	q.items[id] = models.PendingMutation{
		ID:        id,
		Action:    action,
		Payload:   append(json.RawMessage(nil), payload...),
		CreatedAt: q.now(),
		Priority:  priority,
	}

	q.persistLocked(ctx)
	q.logger.Debug(ctx, "mutation enqueued", "id", id, "action", action, "priority", priority)

	return id
}

func (q *Queue) nextIDLocked() string {
	for {
		u, err := q.newID()
		if err != nil {
			u = uuid.New()
		}
		id := u.String()
		if _, taken := q.items[id]; !taken {
			return id
		}
	}
}

// Remove deletes the mutation with the given ID. Unknown IDs are a no-op.
func (q *Queue) Remove(ctx context.Context, id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.items[id]; !ok {
		return
	}
	delete(q.items, id)
	q.persistLocked(ctx)
}

// Snapshot returns copies of all pending mutations in replay order.
func (q *Queue) Snapshot() []models.PendingMutation {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.PendingMutation, 0, len(q.items))
	for _, m := range q.items {
		out = append(out, m.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// MarkRetryFailure records a failed attempt. It returns the updated
// mutation, or ok=false if the ID is no longer queued.
func (q *Queue) MarkRetryFailure(ctx context.Context, id string) (models.PendingMutation, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	m, ok := q.items[id]
	if !ok {
		return models.PendingMutation{}, false
	}

	now := q.now()
	m.Retries++
	m.LastRetryAt = &now
	q.items[id] = m

	q.persistLocked(ctx)
	return m.Clone(), true
}

func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops every pending mutation.
func (q *Queue) Clear(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = make(map[string]models.PendingMutation)
	if err := q.store.Delete(context.WithoutCancel(ctx), store.NamespaceSync, store.KeySyncQueue); err != nil {
		q.logger.Error(ctx, "failed to clear persisted queue", "error", err)
	}
}

// persistLocked writes the queue in replay order. Callers hold q.mu, so
// concurrent mutations persist in the order they were applied.
func (q *Queue) persistLocked(ctx context.Context) {
	ordered := make([]models.PendingMutation, 0, len(q.items))
	for _, m := range q.items {
		ordered = append(ordered, m)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	data, err := json.Marshal(ordered)
	if err != nil {
		q.logger.Error(ctx, "failed to encode queue", "error", err)
		return
	}

	if err := q.store.Set(context.WithoutCancel(ctx), store.NamespaceSync, store.KeySyncQueue, data); err != nil {
		q.logger.Error(ctx, "failed to persist queue", "error", err, "pending", len(ordered))
	}
}
