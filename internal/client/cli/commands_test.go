package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/cache"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/progress"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/syncer"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

type enqueued struct {
	action   models.MutationAction
	payload  json.RawMessage
	priority models.Priority
}

type fakeEngine struct {
	online   bool
	enqueued []enqueued
	pending  []models.PendingMutation
	cleared  bool
	interval time.Duration

	flushResult models.SyncProgress
	flushErr    error
	last        models.SyncProgress

	studyQueue models.StudyQueue
	decks      []models.Deck
	readResult cache.Result
	readErr    error
	lastDeckID int64
	lastForce  bool
}

func (f *fakeEngine) Initialize(context.Context) error { return nil }
func (f *fakeEngine) Shutdown(context.Context) error   { return nil }

func (f *fakeEngine) EnqueuePayload(ctx context.Context, action models.MutationAction, v any, priority models.Priority) (string, error) {
	if val, ok := v.(interface{ Validate() error }); ok {
		if err := val.Validate(); err != nil {
			return "", err
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	f.enqueued = append(f.enqueued, enqueued{action, raw, priority})
	return "id-1", nil
}

func (f *fakeEngine) Flush(context.Context) (models.SyncProgress, error) {
	return f.flushResult, f.flushErr
}
func (f *fakeEngine) PendingCount() int                          { return len(f.pending) }
func (f *fakeEngine) PendingMutations() []models.PendingMutation { return f.pending }
func (f *fakeEngine) ClearQueue(context.Context)                 { f.cleared = true; f.pending = nil }
func (f *fakeEngine) LastProgress() models.SyncProgress          { return f.last }
func (f *fakeEngine) OnProgress(progress.Listener) func()        { return func() {} }
func (f *fakeEngine) StudyQueue(ctx context.Context, deckID int64, force bool) (models.StudyQueue, cache.Result, error) {
	f.lastDeckID, f.lastForce = deckID, force
	return f.studyQueue, f.readResult, f.readErr
}
func (f *fakeEngine) Decks(ctx context.Context, force bool) ([]models.Deck, cache.Result, error) {
	f.lastForce = force
	return f.decks, f.readResult, f.readErr
}
func (f *fakeEngine) IsOnline() bool { return f.online }
func (f *fakeEngine) SetSyncInterval(d time.Duration) error {
	if d <= 0 {
		return syncer.ErrInvalidInterval
	}
	f.interval = d
	return nil
}
func (f *fakeEngine) Settings() syncer.Settings {
	return syncer.Settings{SyncInterval: f.interval, MaxRetries: 5}
}

func newTestApp(e *fakeEngine, in *bufio.Reader) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		engine: e,
		creds:  auth.NewCredentials(""),
		logger: logging.Nop(),
		reader: in,
		out:    &out,
	}, &out
}

// ------------ tests ------------

func TestReview(t *testing.T) {
	e := &fakeEngine{online: true}
	a, out := newTestApp(e, readerFromLines())

	require.NoError(t, a.Review(context.Background(), []string{"12", "4"}))
	require.Len(t, e.enqueued, 1)
	assert.Equal(t, models.ActionReview, e.enqueued[0].action)
	assert.Equal(t, models.PriorityHigh, e.enqueued[0].priority)
	assert.JSONEq(t, `{"card_id":12,"quality":4}`, string(e.enqueued[0].payload))
	assert.Contains(t, out.String(), "review queued (id-1)")

	require.ErrorIs(t, a.Review(context.Background(), []string{"12"}), errUsage)
	require.Error(t, a.Review(context.Background(), []string{"x", "4"}))
	require.Error(t, a.Review(context.Background(), []string{"12", "good"}))
	require.ErrorIs(t, a.Review(context.Background(), []string{"12", "7"}), models.ErrInvalidPayload)
	assert.Len(t, e.enqueued, 1)
}

func TestReview_OfflineMessage(t *testing.T) {
	e := &fakeEngine{online: false}
	a, out := newTestApp(e, readerFromLines())

	require.NoError(t, a.Review(context.Background(), []string{"1", "3"}))
	assert.Contains(t, out.String(), "will sync when online")
}

func TestAddCard(t *testing.T) {
	e := &fakeEngine{}
	a, _ := newTestApp(e, readerFromLines("What is a goroutine?", "A lightweight thread", "managed by the runtime", "", ""))

	require.NoError(t, a.AddCard(context.Background(), []string{"3"}))
	require.Len(t, e.enqueued, 1)
	assert.Equal(t, models.ActionCreateCard, e.enqueued[0].action)
	assert.Equal(t, models.PriorityMedium, e.enqueued[0].priority)

	var p models.CardPayload
	require.NoError(t, json.Unmarshal(e.enqueued[0].payload, &p))
	assert.Equal(t, models.CardPayload{
		DeckID:       3,
		FrontContent: "What is a goroutine?",
		BackContent:  "A lightweight thread\nmanaged by the runtime",
		CardType:     "basic",
	}, p)
}

func TestAddCard_EmptyBackRejected(t *testing.T) {
	e := &fakeEngine{}
	a, out := newTestApp(e, readerFromLines("front", "", ""))

	require.ErrorIs(t, a.AddCard(context.Background(), []string{"3"}), models.ErrInvalidPayload)
	assert.Empty(t, e.enqueued)
	assert.Contains(t, out.String(), "Error:")
}

func TestEditCard(t *testing.T) {
	e := &fakeEngine{}
	a, _ := newTestApp(e, readerFromLines("4", "front", "back", "", "cloze"))

	require.NoError(t, a.EditCard(context.Background(), []string{"9"}))
	require.Len(t, e.enqueued, 1)
	assert.Equal(t, models.ActionUpdateCard, e.enqueued[0].action)
	assert.JSONEq(t, `{"id":9,"deck_id":4,"front_content":"front","back_content":"back","card_type":"cloze"}`, string(e.enqueued[0].payload))
}

func TestDeleteCard(t *testing.T) {
	e := &fakeEngine{}
	a, _ := newTestApp(e, readerFromLines())

	require.NoError(t, a.DeleteCard(context.Background(), []string{"9"}))
	assert.JSONEq(t, `{"id":9}`, string(e.enqueued[0].payload))
	require.ErrorIs(t, a.DeleteCard(context.Background(), nil), errUsage)
	require.Error(t, a.DeleteCard(context.Background(), []string{"-1"}))
}

func TestAddAndEditDeck(t *testing.T) {
	e := &fakeEngine{}
	a, _ := newTestApp(e, readerFromLines(
		"Spanish verbs", "irregular ones", "y", "spanish", "verbs", "",
		"Go", "", "", "",
	))

	require.NoError(t, a.AddDeck(context.Background()))
	require.NoError(t, a.EditDeck(context.Background(), []string{"2"}))
	require.Len(t, e.enqueued, 2)

	assert.Equal(t, models.ActionCreateDeck, e.enqueued[0].action)
	assert.JSONEq(t, `{"title":"Spanish verbs","description":"irregular ones","is_public":true,"tags":["spanish","verbs"]}`, string(e.enqueued[0].payload))

	assert.Equal(t, models.ActionUpdateDeck, e.enqueued[1].action)
	assert.JSONEq(t, `{"id":2,"title":"Go","is_public":false}`, string(e.enqueued[1].payload))
}

func TestStudy(t *testing.T) {
	e := &fakeEngine{
		studyQueue: models.StudyQueue{
			Queue:      []models.Card{{ID: 5, DeckID: 3, FrontContent: "hola"}},
			TotalCards: 1, DueCount: 1,
		},
		readResult: cache.Result{Stale: true, FromCache: true, FetchedAt: time.Now()},
	}
	a, out := newTestApp(e, readerFromLines())

	require.NoError(t, a.Study(context.Background(), []string{"3", "--refresh"}))
	assert.Equal(t, int64(3), e.lastDeckID)
	assert.True(t, e.lastForce)
	assert.Contains(t, out.String(), "Study queue for deck 3 (offline, cached")
	assert.Contains(t, out.String(), "hola")

	require.NoError(t, a.Study(context.Background(), nil))
	assert.Equal(t, int64(0), e.lastDeckID)
	assert.False(t, e.lastForce)

	e.readErr = cache.ErrNoData
	require.ErrorIs(t, a.Study(context.Background(), nil), cache.ErrNoData)
}

func TestListDecks(t *testing.T) {
	e := &fakeEngine{
		decks:      []models.Deck{{ID: 1, Title: "Go", CardCount: 10, IsPublic: true}},
		readResult: cache.Result{FromCache: true},
	}
	a, out := newTestApp(e, readerFromLines())

	require.NoError(t, a.ListDecks(context.Background(), nil))
	assert.Contains(t, out.String(), "1 decks (cached)")
	assert.Contains(t, out.String(), "public")

	require.ErrorIs(t, a.ListDecks(context.Background(), []string{"extra"}), errUsage)
}

func TestPending(t *testing.T) {
	retried := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	e := &fakeEngine{}
	a, out := newTestApp(e, readerFromLines())

	require.NoError(t, a.Pending(context.Background()))
	assert.Contains(t, out.String(), "No pending changes")

	e.pending = []models.PendingMutation{{
		ID: "m-1", Action: models.ActionReview, Priority: models.PriorityHigh,
		Retries: 2, CreatedAt: retried, LastRetryAt: &retried,
	}}
	require.NoError(t, a.Pending(context.Background()))
	assert.Contains(t, out.String(), "m-1")
	assert.Contains(t, out.String(), "retries=2")
	assert.Contains(t, out.String(), "last_retry=")
}

func TestSync(t *testing.T) {
	e := &fakeEngine{flushResult: models.SyncProgress{Total: 3, Completed: 2, Failed: 1}}
	a, out := newTestApp(e, readerFromLines())

	require.NoError(t, a.Sync(context.Background()))
	assert.Contains(t, out.String(), "Sync finished: 2 of 3 applied, 1 failed")

	e.flushErr = syncer.ErrOffline
	require.ErrorIs(t, a.Sync(context.Background()), syncer.ErrOffline)
	assert.Contains(t, out.String(), "Offline")

	e.flushErr = syncer.ErrFlushInProgress
	require.ErrorIs(t, a.Sync(context.Background()), syncer.ErrFlushInProgress)

	e.flushErr = errors.New("boom")
	require.Error(t, a.Sync(context.Background()))
}

func TestLoginLogout(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("tok-1"), nil }

	a, out := newTestApp(&fakeEngine{}, readerFromLines())

	require.NoError(t, a.Login(context.Background()))
	tok, ok := a.creds.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)
	assert.Contains(t, out.String(), "Token stored")
	assert.Contains(t, a.getStatus(), "offline")
	assert.NotContains(t, a.getStatus(), "anonymous")

	require.NoError(t, a.Logout(context.Background()))
	_, ok = a.creds.Token()
	assert.False(t, ok)
	assert.Contains(t, a.getStatus(), "anonymous")
}

func TestClear(t *testing.T) {
	e := &fakeEngine{pending: []models.PendingMutation{{ID: "1"}, {ID: "2"}}}
	a, out := newTestApp(e, readerFromLines("n", "y"))

	require.NoError(t, a.Clear(context.Background()))
	assert.False(t, e.cleared)
	assert.Contains(t, out.String(), "Discard 2 queued changes?")

	require.NoError(t, a.Clear(context.Background()))
	assert.True(t, e.cleared)
	assert.Contains(t, out.String(), "Queue cleared")
}

func TestInterval(t *testing.T) {
	e := &fakeEngine{}
	a, _ := newTestApp(e, readerFromLines())

	require.NoError(t, a.Interval(context.Background(), []string{"15"}))
	assert.Equal(t, 15*time.Second, e.interval)

	require.ErrorIs(t, a.Interval(context.Background(), []string{"0"}), syncer.ErrInvalidInterval)
	require.Error(t, a.Interval(context.Background(), []string{"soon"}))
	require.ErrorIs(t, a.Interval(context.Background(), nil), errUsage)
}

func TestStatus(t *testing.T) {
	e := &fakeEngine{online: true, interval: 30 * time.Second, last: models.SyncProgress{Total: 1, Completed: 1}}
	a, out := newTestApp(e, readerFromLines())

	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "online")
	assert.Contains(t, out.String(), "30s")
	assert.Contains(t, out.String(), "1 of 1 applied")
	assert.Equal(t, "(online, anonymous)", a.getStatus())
}

func TestReportProgress(t *testing.T) {
	printed := silencePrint(t)
	a, _ := newTestApp(&fakeEngine{}, readerFromLines())

	a.reportProgress(models.SyncProgress{Total: 2, IsSyncing: true})
	a.reportProgress(models.SyncProgress{})
	a.reportProgress(models.SyncProgress{Total: 2, Completed: 2})

	assert.Equal(t, []string{"Sync finished: 2 of 2 applied, 0 failed"}, *printed)
}
