package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/cache"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/syncer"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/cryptox"
)

var errUsage = errors.New("usage")

const refreshFlag = "--refresh"

// usage prints the usage line of a command and returns errUsage.
func (a *App) usage(line string) error {
	fmt.Fprintln(a.out, "Usage:", line)
	return errUsage
}

func (a *App) report(err error) error {
	fmt.Fprintln(a.out, "Error:", err)
	return err
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// splitRefresh removes --refresh from args and reports whether it was there.
func splitRefresh(args []string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	refresh := false
	for _, arg := range args {
		if arg == refreshFlag {
			refresh = true
			continue
		}
		rest = append(rest, arg)
	}
	return rest, refresh
}

func formatProgress(p models.SyncProgress) string {
	if p.IsSyncing {
		return fmt.Sprintf("Syncing: %d/%d done, %d failed", p.Completed, p.Total, p.Failed)
	}
	return fmt.Sprintf("Sync finished: %d of %d applied, %d failed", p.Completed, p.Total, p.Failed)
}

func formatSource(res cache.Result) string {
	switch {
	case res.Stale:
		return fmt.Sprintf(" (offline, cached %s)", res.FetchedAt.Local().Format(time.Kitchen))
	case res.FromCache:
		return " (cached)"
	}
	return ""
}

func (a *App) enqueue(ctx context.Context, action models.MutationAction, payload any, priority models.Priority) error {
	id, err := a.engine.EnqueuePayload(ctx, action, payload, priority)
	if err != nil {
		return a.report(err)
	}

	state := "queued, will sync when online"
	if a.engine.IsOnline() {
		state = "queued"
	}
	fmt.Fprintf(a.out, "%s %s (%s)\n", strings.ReplaceAll(string(action), "_", " "), state, id)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	mode := ModeOffline
	if a.engine.IsOnline() {
		mode = ModeOnline
	}
	settings := a.engine.Settings()

	fmt.Fprintf(a.out, "Mode:          %s\n", mode)
	fmt.Fprintf(a.out, "Pending:       %d\n", a.engine.PendingCount())
	fmt.Fprintf(a.out, "Last sync:     %s\n", formatProgress(a.engine.LastProgress()))
	fmt.Fprintf(a.out, "Sync interval: %s\n", settings.SyncInterval)
	fmt.Fprintf(a.out, "Max retries:   %d\n", settings.MaxRetries)
	return nil
}

// Review queues a graded review. Reviews are high priority, so they are
// sent at once when online.
func (a *App) Review(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("review <card_id> <quality 0-5>")
	}
	cardID, err := parseID(args[0])
	if err != nil {
		return a.report(err)
	}
	quality, err := strconv.Atoi(args[1])
	if err != nil {
		return a.report(fmt.Errorf("invalid quality %q", args[1]))
	}

	return a.enqueue(ctx, models.ActionReview, models.ReviewPayload{CardID: cardID, Quality: quality}, models.PriorityHigh)
}

func (a *App) AddCard(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("addcard <deck_id>")
	}
	deckID, err := parseID(args[0])
	if err != nil {
		return a.report(err)
	}

	p, err := a.promptCard(models.CardPayload{DeckID: deckID, CardType: "basic"})
	if err != nil {
		return a.report(err)
	}
	return a.enqueue(ctx, models.ActionCreateCard, p, models.PriorityMedium)
}

func (a *App) EditCard(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("editcard <card_id>")
	}
	cardID, err := parseID(args[0])
	if err != nil {
		return a.report(err)
	}

	deck, err := GetSimpleText(a.reader, "Deck id", a.out)
	if err != nil {
		return a.report(err)
	}
	deckID, err := parseID(deck)
	if err != nil {
		return a.report(err)
	}

	p, err := a.promptCard(models.CardPayload{ID: cardID, DeckID: deckID, CardType: "basic"})
	if err != nil {
		return a.report(err)
	}
	return a.enqueue(ctx, models.ActionUpdateCard, p, models.PriorityMedium)
}

func (a *App) promptCard(p models.CardPayload) (models.CardPayload, error) {
	var err error
	if p.FrontContent, err = GetSimpleText(a.reader, "Front", a.out); err != nil {
		return p, err
	}
	if p.BackContent, err = GetMultiline(a.reader, "Back", a.out); err != nil {
		return p, err
	}
	if p.CardType, err = GetTextOr(a.reader, "Card type", p.CardType, a.out); err != nil {
		return p, err
	}
	return p, nil
}

func (a *App) DeleteCard(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("delcard <card_id>")
	}
	cardID, err := parseID(args[0])
	if err != nil {
		return a.report(err)
	}
	return a.enqueue(ctx, models.ActionDeleteCard, models.DeleteCardPayload{ID: cardID}, models.PriorityMedium)
}

func (a *App) AddDeck(ctx context.Context) error {
	p, err := a.promptDeck(models.DeckPayload{})
	if err != nil {
		return a.report(err)
	}
	return a.enqueue(ctx, models.ActionCreateDeck, p, models.PriorityMedium)
}

func (a *App) EditDeck(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("editdeck <deck_id>")
	}
	deckID, err := parseID(args[0])
	if err != nil {
		return a.report(err)
	}

	p, err := a.promptDeck(models.DeckPayload{ID: deckID})
	if err != nil {
		return a.report(err)
	}
	return a.enqueue(ctx, models.ActionUpdateDeck, p, models.PriorityMedium)
}

func (a *App) promptDeck(p models.DeckPayload) (models.DeckPayload, error) {
	var err error
	if p.Title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
		return p, err
	}
	if p.Description, err = GetSimpleText(a.reader, "Description", a.out); err != nil {
		return p, err
	}
	public, err := GetTextOr(a.reader, "Public? (y/n)", "n", a.out)
	if err != nil {
		return p, err
	}
	p.IsPublic = strings.EqualFold(public, "y") || strings.EqualFold(public, "yes")
	if p.Tags, err = GetTags(a.reader, a.out); err != nil {
		return p, err
	}
	return p, nil
}

func (a *App) Study(ctx context.Context, args []string) error {
	args, refresh := splitRefresh(args)
	if len(args) > 1 {
		return a.usage("study [deck_id] [--refresh]")
	}

	var deckID int64
	scope := "all decks"
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return a.report(err)
		}
		deckID = id
		scope = "deck " + args[0]
	}

	q, res, err := a.engine.StudyQueue(ctx, deckID, refresh)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Study queue for %s%s: %d due, %d new, %d total\n",
		scope, formatSource(res), q.DueCount, q.NewCount, q.TotalCards)
	for _, c := range q.Queue {
		fmt.Fprintf(a.out, "  #%-6d deck %-4d %s\n", c.ID, c.DeckID, c.FrontContent)
	}
	return nil
}

func (a *App) ListDecks(ctx context.Context, args []string) error {
	args, refresh := splitRefresh(args)
	if len(args) != 0 {
		return a.usage("decks [--refresh]")
	}

	decks, res, err := a.engine.Decks(ctx, refresh)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "%d decks%s\n", len(decks), formatSource(res))
	for _, d := range decks {
		visibility := "private"
		if d.IsPublic {
			visibility = "public"
		}
		fmt.Fprintf(a.out, "  #%-6d %-30s %4d cards  %s\n", d.ID, d.Title, d.CardCount, visibility)
	}
	return nil
}

func (a *App) Pending(ctx context.Context) error {
	pending := a.engine.PendingMutations()
	if len(pending) == 0 {
		fmt.Fprintln(a.out, "No pending changes")
		return nil
	}

	for _, m := range pending {
		line := fmt.Sprintf("  %s  %-12s %-6s retries=%d created=%s",
			m.ID, m.Action, m.Priority, m.Retries, m.CreatedAt.Local().Format(time.DateTime))
		if m.LastRetryAt != nil {
			line += " last_retry=" + m.LastRetryAt.Local().Format(time.TimeOnly)
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	p, err := a.engine.Flush(ctx)
	switch {
	case errors.Is(err, syncer.ErrOffline):
		fmt.Fprintf(a.out, "Offline: %d changes stay queued\n", a.engine.PendingCount())
		return err
	case errors.Is(err, syncer.ErrFlushInProgress):
		fmt.Fprintln(a.out, "A sync is already running")
		return err
	case err != nil:
		return a.report(err)
	}

	fmt.Fprintln(a.out, formatProgress(p))
	return nil
}

func (a *App) Login(ctx context.Context) error {
	token, err := GetSecret(a.out, "Access token")
	if err != nil {
		return a.report(err)
	}
	defer cryptox.Wipe(token)

	a.creds.Set(string(token))
	if _, ok := a.creds.Token(); !ok {
		fmt.Fprintln(a.out, "Token is empty or expired")
		return nil
	}
	fmt.Fprintln(a.out, "Token stored")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.creds.Clear()
	fmt.Fprintln(a.out, "Token dropped")
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	n := a.engine.PendingCount()
	if n == 0 {
		fmt.Fprintln(a.out, "No pending changes")
		return nil
	}

	answer, err := GetSimpleText(a.reader, fmt.Sprintf("Discard %d queued changes? (y/N)", n), a.out)
	if err != nil {
		return a.report(err)
	}
	if !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Kept")
		return nil
	}

	a.engine.ClearQueue(ctx)
	fmt.Fprintln(a.out, "Queue cleared")
	return nil
}

func (a *App) Interval(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("interval <seconds>")
	}
	secs, err := strconv.Atoi(args[0])
	if err != nil {
		return a.report(fmt.Errorf("invalid interval %q", args[0]))
	}
	if err := a.engine.SetSyncInterval(time.Duration(secs) * time.Second); err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Sync interval set to %ds\n", secs)
	return nil
}
