package syncer

import (
	"context"
	"encoding/json"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/client"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/telemetry"
)

// Flush runs a pass now and returns its final progress. It fails with
// ErrOffline when the monitor reports offline and with ErrFlushInProgress
// when another pass is running. The pass also stops early on Shutdown.
func (e *Engine) Flush(ctx context.Context) (models.SyncProgress, error) {
	if !e.monitor.IsOnline() {
		return models.SyncProgress{}, ErrOffline
	}
	if !e.acquire() {
		return models.SyncProgress{}, ErrClosed
	}
	defer e.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.runCtx, cancel)
	defer stop()

	return e.runPass(ctx, TriggerManual)
}

// runPass replays a snapshot of the queue in order. Cancellation is checked
// between mutations; the call in flight is allowed to finish.
func (e *Engine) runPass(ctx context.Context, trigger string) (models.SyncProgress, error) {
	if !e.flushing.CompareAndSwap(false, true) {
		return models.SyncProgress{}, ErrFlushInProgress
	}
	defer e.flushing.Store(false)

	settings := e.Settings()
	start := e.now()
	items := e.queue.Snapshot()

	p := models.SyncProgress{Total: len(items), IsSyncing: true}
	e.progress.Publish(p)

	e.logger.Debug(ctx, "sync pass started", "trigger", trigger, "pending", len(items))

	var err error
	for _, m := range items {
		if err = ctx.Err(); err != nil {
			break
		}

		switch {
		case e.inBackoff(m, settings):
			e.metrics.RecordMutation(ctx, string(m.Action), telemetry.OutcomeSkipped)
		case e.apply(ctx, m, settings):
			p.Completed++
		default:
			p.Failed++
		}
		e.progress.Publish(p)
	}

	p.IsSyncing = false
	e.progress.Publish(p)

	pending := e.queue.Count()
	e.metrics.RecordPass(context.WithoutCancel(ctx), trigger, e.now().Sub(start), pending)

	e.logger.Info(ctx, "sync pass finished",
		"trigger", trigger,
		"total", p.Total,
		"completed", p.Completed,
		"failed", p.Failed,
		"pending", pending,
		"interrupted", err != nil,
	)

	return p, err
}

func (e *Engine) inBackoff(m models.PendingMutation, s Settings) bool {
	if m.LastRetryAt == nil {
		return false
	}
	return e.now().Sub(*m.LastRetryAt) < Backoff(s.BaseRetryDelay, m.Retries)
}

// apply replays one mutation and updates the queue. It reports success.
func (e *Engine) apply(ctx context.Context, m models.PendingMutation, s Settings) bool {
	persistCtx := context.WithoutCancel(ctx)

	callCtx, cancel := context.WithTimeout(persistCtx, s.RequestTimeout)
	resp, err := e.remote.Call(callCtx, m.Action, m.Payload)
	cancel()

	if err == nil {
		e.queue.Remove(persistCtx, m.ID)
		e.metrics.RecordMutation(persistCtx, string(m.Action), telemetry.OutcomeApplied)
		e.applied(m, resp)
		return true
	}

	updated, ok := e.queue.MarkRetryFailure(persistCtx, m.ID)
	if !ok {
		// removed while the call was in flight, e.g. by ClearQueue
		return false
	}

	permanent := client.IsPermanent(err)
	if updated.Retries >= s.MaxRetries || (s.EvictPermanent && permanent) {
		e.queue.Remove(persistCtx, m.ID)
		e.metrics.RecordMutation(persistCtx, string(m.Action), telemetry.OutcomeEvicted)
		e.logger.Warn(ctx, "mutation evicted",
			"id", m.ID, "action", m.Action, "retries", updated.Retries, "permanent", permanent, "error", err)
		return false
	}

	e.metrics.RecordMutation(persistCtx, string(m.Action), telemetry.OutcomeFailed)
	e.logger.Info(ctx, "mutation failed, will retry",
		"id", m.ID,
		"action", m.Action,
		"retries", updated.Retries,
		"next_attempt_in", Backoff(s.BaseRetryDelay, updated.Retries).String(),
		"error", err,
	)
	return false
}

func (e *Engine) applied(m models.PendingMutation, resp []byte) {
	if e.cache != nil && e.invalidateCache {
		e.cache.Invalidate(affectedQueries(m.Action)...)
	}
	if e.onApplied != nil {
		e.onApplied(m, e.resolver(m, json.RawMessage(resp)))
	}
}

// affectedQueries lists the cached reads a mutation makes out of date.
func affectedQueries(a models.MutationAction) []models.QueryKind {
	switch a {
	case models.ActionReview:
		return []models.QueryKind{models.QueryStudyQueue}
	case models.ActionCreateCard, models.ActionUpdateCard, models.ActionDeleteCard:
		return []models.QueryKind{models.QueryStudyQueue, models.QueryDecks}
	case models.ActionCreateDeck, models.ActionUpdateDeck:
		return []models.QueryKind{models.QueryDecks}
	}
	return nil
}
