package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, NamespaceSync, KeySyncQueue)
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte("v1")
	require.NoError(t, s.Set(ctx, NamespaceSync, KeySyncQueue, value))
	value[0] = 'X'

	got, ok, err := s.Get(ctx, NamespaceSync, KeySyncQueue)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	got[0] = 'Y'
	again, _, _ := s.Get(ctx, NamespaceSync, KeySyncQueue)
	assert.Equal(t, []byte("v1"), again)

	_, ok, _ = s.Get(ctx, NamespaceCache, KeySyncQueue)
	assert.False(t, ok, "namespaces are disjoint")

	require.NoError(t, s.Delete(ctx, NamespaceSync, KeySyncQueue))
	require.NoError(t, s.Delete(ctx, NamespaceSync, KeySyncQueue))
	_, ok, _ = s.Get(ctx, NamespaceSync, KeySyncQueue)
	assert.False(t, ok)
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.ErrorIs(t, s.Set(ctx, "", "k", nil), ErrEmptyKey)
	_, _, err := s.Get(ctx, "ns", "")
	require.ErrorIs(t, err, ErrEmptyKey)
	require.ErrorIs(t, s.Delete(ctx, "", ""), ErrEmptyKey)
}
