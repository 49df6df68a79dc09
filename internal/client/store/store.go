// Package store is the client's durable key/value layer. Values are opaque
// bytes grouped by namespace; the mutation queue and the query cache each
// own one namespace.
package store

import (
	"context"
	"errors"
)

// Namespaces and well-known keys.
const (
	NamespaceSync  = "sync"
	NamespaceCache = "cache"
	NamespaceMeta  = "meta"

	KeySyncQueue = "syncQueue"
)

var ErrEmptyKey = errors.New("store: empty namespace or key")

// Store persists opaque values. Get reports ok=false for a missing key
// without an error.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

func checkKey(namespace, key string) error {
	if namespace == "" || key == "" {
		return ErrEmptyKey
	}
	return nil
}
