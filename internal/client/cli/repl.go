package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Status(ctx context.Context) error
	Review(ctx context.Context, args []string) error
	AddCard(ctx context.Context, args []string) error
	EditCard(ctx context.Context, args []string) error
	DeleteCard(ctx context.Context, args []string) error
	AddDeck(ctx context.Context) error
	EditDeck(ctx context.Context, args []string) error
	Study(ctx context.Context, args []string) error
	ListDecks(ctx context.Context, args []string) error
	Pending(ctx context.Context) error
	Sync(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Clear(ctx context.Context) error
	Interval(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  status                      show connectivity, queue and last sync
  review <card_id> <quality>  grade a card (quality 0-5)
  addcard <deck_id>           add a card to a deck
  editcard <card_id>          edit a card
  delcard <card_id>           delete a card
  adddeck                     create a deck
  editdeck <deck_id>          edit a deck
  study [deck_id] [--refresh] show the study queue
  decks [--refresh]           list decks
  pending                     list queued changes
  sync                        flush queued changes now
  login | logout              set or drop the access token
  clear                       discard all queued changes
  interval <seconds>          change the sync interval
  exit | quit                 leave the program`

// runREPL starts a simple read–eval–print loop for the Cogni Flash CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Commands that prompt must read from the same reader, otherwise buffered
// input meant for their prompts is lost. The loop exits on EOF, on ctx
// cancellation, or when the user types "exit" or "quit".
//
// Command handlers report their own errors; the REPL prints nothing extra
// so a failing command never ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("cf %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "status":
			_ = a.Status(ctx)

		case "review", "r":
			_ = a.Review(ctx, args)

		case "addcard":
			_ = a.AddCard(ctx, args)

		case "editcard":
			_ = a.EditCard(ctx, args)

		case "delcard":
			_ = a.DeleteCard(ctx, args)

		case "adddeck":
			_ = a.AddDeck(ctx)

		case "editdeck":
			_ = a.EditDeck(ctx, args)

		case "study":
			_ = a.Study(ctx, args)

		case "decks":
			_ = a.ListDecks(ctx, args)

		case "pending":
			_ = a.Pending(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "interval":
			_ = a.Interval(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
