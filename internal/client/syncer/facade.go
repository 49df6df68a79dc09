package syncer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/cache"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/progress"
)

// Enqueue queues a mutation and returns its id. An empty priority means
// medium. A high-priority mutation requests an immediate pass when online.
func (e *Engine) Enqueue(ctx context.Context, action models.MutationAction, payload json.RawMessage, priority models.Priority) (string, error) {
	if !action.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownAction, action)
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if _, err := models.ParsePriority(string(priority)); err != nil {
		return "", err
	}

	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return "", ErrClosed
	}

	id := e.queue.Enqueue(ctx, action, payload, priority)
	e.logger.Debug(ctx, "mutation queued", "id", id, "action", action, "priority", priority)

	if priority == models.PriorityHigh {
		e.trigger(TriggerPriority)
	}
	return id, nil
}

type validator interface {
	Validate() error
}

// EnqueuePayload encodes v as JSON and queues it. Payloads with a Validate
// method are checked first.
func (e *Engine) EnqueuePayload(ctx context.Context, action models.MutationAction, v any, priority models.Priority) (string, error) {
	if val, ok := v.(validator); ok {
		if err := val.Validate(); err != nil {
			return "", err
		}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
	}
	return e.Enqueue(ctx, action, raw, priority)
}

func (e *Engine) PendingCount() int {
	return e.queue.Count()
}

// PendingMutations returns copies in replay order.
func (e *Engine) PendingMutations() []models.PendingMutation {
	return e.queue.Snapshot()
}

// ClearQueue drops every pending mutation, locally and in the store.
func (e *Engine) ClearQueue(ctx context.Context) {
	n := e.queue.Count()
	e.queue.Clear(ctx)
	e.logger.Warn(ctx, "pending mutations discarded", "count", n)
}

// OnProgress subscribes fn to pass progress. Call the returned function to
// unsubscribe.
func (e *Engine) OnProgress(fn progress.Listener) func() {
	return e.progress.Subscribe(fn)
}

// LastProgress is the most recent published snapshot.
func (e *Engine) LastProgress() models.SyncProgress {
	return e.progress.Last()
}

// ResolveConflict applies the configured conflict policy.
func (e *Engine) ResolveConflict(local models.PendingMutation, server json.RawMessage) json.RawMessage {
	return e.resolver(local, server)
}

// StudyQueue reads the study queue of a deck, or of all decks when deckID
// is zero, through the cache.
func (e *Engine) StudyQueue(ctx context.Context, deckID int64, force bool) (models.StudyQueue, cache.Result, error) {
	var out models.StudyQueue
	res, err := e.read(ctx, models.StudyQueueKey(deckID), force, &out)
	return out, res, err
}

// Decks reads the deck list through the cache.
func (e *Engine) Decks(ctx context.Context, force bool) ([]models.Deck, cache.Result, error) {
	var out []models.Deck
	res, err := e.read(ctx, models.DecksKey(), force, &out)
	return out, res, err
}

func (e *Engine) read(ctx context.Context, key models.QueryKey, force bool, into any) (cache.Result, error) {
	raw, res, err := e.cache.Get(ctx, key, force)
	if err != nil {
		return res, err
	}
	if len(raw) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return res, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return res, nil
}
