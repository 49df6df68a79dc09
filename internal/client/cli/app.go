package cli

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/cache"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/config"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/progress"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/syncer"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// shutdownTimeout bounds how long Run waits for a running pass on exit.
const shutdownTimeout = 5 * time.Second

// syncEngine is the part of *syncer.Engine the shell drives.
type syncEngine interface {
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	EnqueuePayload(ctx context.Context, action models.MutationAction, v any, priority models.Priority) (string, error)
	Flush(ctx context.Context) (models.SyncProgress, error)
	PendingCount() int
	PendingMutations() []models.PendingMutation
	ClearQueue(ctx context.Context)
	LastProgress() models.SyncProgress
	OnProgress(fn progress.Listener) func()
	StudyQueue(ctx context.Context, deckID int64, force bool) (models.StudyQueue, cache.Result, error)
	Decks(ctx context.Context, force bool) ([]models.Deck, cache.Result, error)
	IsOnline() bool
	SetSyncInterval(d time.Duration) error
	Settings() syncer.Settings
}

type App struct {
	config *config.Config
	engine syncEngine
	creds  *auth.Credentials
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	// background loops started by Run, stopped through ctx
	watchers []func(ctx context.Context)
	// released in reverse order after the engine shut down
	closers []func(ctx context.Context) error
}

func (a *App) getStatus() string {
	mode := ModeOffline
	if a.engine.IsOnline() {
		mode = ModeOnline
	}
	s := string(mode)
	if n := a.engine.PendingCount(); n > 0 {
		s += ", " + strconv.Itoa(n) + " pending"
	}
	if _, ok := a.creds.Token(); !ok {
		s += ", anonymous"
	}
	return "(" + s + ")"
}

// Run starts the watchers and the engine, serves the shell on stdin until
// exit or EOF, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, w := range a.watchers {
		go w(ctx)
	}

	if err := a.engine.Initialize(ctx); err != nil {
		return err
	}

	unsubscribe := a.engine.OnProgress(a.reportProgress)

	printlnFn("Welcome to Cogni Flash CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)

	unsubscribe()
	cancel()
	return a.close()
}

func (a *App) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.engine.Shutdown(ctx)
	if err != nil {
		a.logger.Error(ctx, "sync engine did not stop cleanly", "error", err)
	}

	if cerr := a.releaseAll(ctx); cerr != nil {
		a.logger.Error(ctx, "failed to release resources", "error", cerr)
	}
	return err
}

// reportProgress prints the outcome of background passes that did work.
func (a *App) reportProgress(p models.SyncProgress) {
	if p.IsSyncing || p.Completed+p.Failed == 0 {
		return
	}
	printlnFn(formatProgress(p))
}
