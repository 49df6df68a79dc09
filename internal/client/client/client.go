package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
)

// DefaultRequestTimeout applies to calls whose context has no deadline.
const DefaultRequestTimeout = 10 * time.Second

type Client interface {
	// Call replays a mutation and returns the remote's response body, if any.
	Call(ctx context.Context, action models.MutationAction, payload json.RawMessage) ([]byte, error)
	Query(ctx context.Context, key models.QueryKey) ([]byte, error)
	Ping(ctx context.Context) error
	Close() error
}

func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
