package grpc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/client"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	serverauth "github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop(), study.NewService(), "secret")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop(), study.NewService(), "secret")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error for invalid address, got nil")
	}
}

func startBufconn(t *testing.T, s *GRPCServer) func(ctx context.Context, _ string) (net.Conn, error) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
}

func TestEndToEnd_GRPCClient(t *testing.T) {
	s := newTestServer("secret")
	dialer := startBufconn(t, s)

	tok, err := serverauth.GenerateToken("alice", []byte("secret"), time.Hour)
	require.NoError(t, err)
	creds := auth.NewCredentials(tok)

	c, err := client.NewGRPCClient("passthrough:///bufnet", creds, client.DefaultRequestTimeout, grpc.WithContextDialer(dialer))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	_, err = c.Call(ctx, models.ActionCreateDeck, json.RawMessage(`{"title":"Go"}`))
	require.NoError(t, err)
	_, err = c.Call(ctx, models.ActionCreateCard, json.RawMessage(`{"deck_id":1,"front_content":"chan","back_content":"pipe"}`))
	require.NoError(t, err)
	_, err = c.Call(ctx, models.ActionReview, json.RawMessage(`{"card_id":1,"quality":1}`))
	require.NoError(t, err)

	raw, err := c.Query(ctx, models.StudyQueueKey(1))
	require.NoError(t, err)
	var q models.StudyQueue
	require.NoError(t, json.Unmarshal(raw, &q))
	assert.Equal(t, 1, q.DueCount)

	raw, err = c.Query(ctx, models.DecksKey())
	require.NoError(t, err)
	var decks []models.Deck
	require.NoError(t, json.Unmarshal(raw, &decks))
	require.Len(t, decks, 1)
	assert.Equal(t, 1, decks[0].CardCount)

	reviews := s.study.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0].UserID)

	_, err = c.Call(ctx, models.ActionUpdateCard, json.RawMessage(`{"id":99,"deck_id":1,"front_content":"a","back_content":"b"}`))
	require.Error(t, err)
	assert.True(t, client.IsPermanent(err))
}

func TestEndToEnd_Unauthenticated(t *testing.T) {
	s := newTestServer("secret")
	dialer := startBufconn(t, s)

	tok, err := serverauth.GenerateToken("alice", []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	creds := auth.NewCredentials(tok)

	c, err := client.NewGRPCClient("passthrough:///bufnet", creds, client.DefaultRequestTimeout, grpc.WithContextDialer(dialer))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx), "ping needs no token")

	_, err = c.Call(ctx, models.ActionCreateDeck, json.RawMessage(`{"title":"Go"}`))
	require.ErrorIs(t, err, client.ErrUnauthorized)

	_, ok := creds.Token()
	assert.False(t, ok, "rejected token is dropped")
}
