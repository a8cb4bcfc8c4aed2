// Package engine turns routed chat messages into ledger operations. It
// owns the conversation-facing strings and the resolution of cat= and
// dest= directives, and delegates all persistence to a Gateway.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwiebalk/fireflybot/ledger"
	"github.com/jwiebalk/fireflybot/logger"
	"github.com/jwiebalk/fireflybot/parser"
	"github.com/jwiebalk/fireflybot/resolver"
	"github.com/jwiebalk/fireflybot/tracker"
)

// Gateway is the ledger backend the engine records against.
type Gateway interface {
	ListCategories(ctx context.Context) ([]ledger.Candidate, error)
	ListExpenseAccounts(ctx context.Context) ([]ledger.Candidate, error)
	CreateCategory(ctx context.Context, name string) (ledger.Candidate, error)
	CreateExpenseAccount(ctx context.Context, name string) (ledger.Candidate, error)
	CreateTransaction(ctx context.Context, draft ledger.Draft) (ledger.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

const (
	// fallbackDestination receives withdrawals whose destination is
	// missing or did not resolve.
	fallbackDestination = "Unknown"

	transactionNotes = "Added via Telegram"
)

const startText = `Send me a line like "23.12 Coffee, milk, sugar" and I will record it as a withdrawal. /help shows the full grammar.`

const helpText = `Record a withdrawal by sending one line:

  <amount> <description>[, <more description>][, cat=<keywords>][, dest=<keywords>]

Example: 23.12 Coffee, milk, sugar, cat=Food, dest=Edeka

Keywords after cat= and dest= are matched fuzzily against your
categories and expense accounts. Prefix a name with + to create it
instead, e.g. cat=+Treats.

Commands:
  /last         show the most recently recorded transaction
  /undo         delete the most recently recorded transaction
  /cat <words>  preview which category the words resolve to
  /dest <words> preview which expense account the words resolve to
  /help         show this message`

// Config carries the recording parameters of a Handler.
type Config struct {
	// SourceAccountID is the asset account every withdrawal draws from.
	SourceAccountID string
	// Threshold is the minimum acceptance score for fuzzy matches.
	// Zero or negative selects resolver.DefaultThreshold.
	Threshold int
}

// Handler processes one message at a time. The transport serializes
// calls to Handle, so no locking happens here.
type Handler struct {
	gateway   Gateway
	tracker   *tracker.Tracker
	sourceID  string
	threshold int
}

func New(gateway Gateway, tracker *tracker.Tracker, cfg Config) *Handler {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = resolver.DefaultThreshold
	}
	return &Handler{
		gateway:   gateway,
		tracker:   tracker,
		sourceID:  cfg.SourceAccountID,
		threshold: threshold,
	}
}

// Handle routes text and returns the reply to send back to the chat.
func (h *Handler) Handle(ctx context.Context, text string) string {
	cmd := Route(text)
	logger.FromContext(ctx).Debug().Stringer("command", cmd.Kind).Msg("routed message")

	switch cmd.Kind {
	case Start:
		return startText
	case Help:
		return helpText
	case Last:
		return h.last()
	case Undo:
		return h.undo(ctx)
	case FindCategory:
		if len(cmd.Keywords) == 0 {
			return "Usage: /cat <keywords>"
		}
		return h.find(ctx, cmd.Keywords, "category", h.gateway.ListCategories)
	case FindDestination:
		if len(cmd.Keywords) == 0 {
			return "Usage: /dest <keywords>"
		}
		return h.find(ctx, cmd.Keywords, "destination", h.gateway.ListExpenseAccounts)
	case CreateTransaction:
		return h.create(ctx, cmd.Line)
	default:
		// Blank messages get no reply at all.
		return ""
	}
}

func (h *Handler) last() string {
	rec, ok := h.tracker.Peek()
	if !ok {
		return "No transaction recorded yet."
	}
	return "Last: " + rec.Summary
}

func (h *Handler) undo(ctx context.Context) string {
	rec, ok := h.tracker.Peek()
	if !ok {
		return "Nothing to undo."
	}
	if err := h.gateway.DeleteTransaction(ctx, rec.ID); err != nil {
		// Keep the slot so the user can retry.
		return h.failure(ctx, err)
	}
	h.tracker.Clear()
	return "Deleted: " + rec.Summary
}

func (h *Handler) find(ctx context.Context, keywords []string, noun string, list func(context.Context) ([]ledger.Candidate, error)) string {
	candidates, err := list(ctx)
	if err != nil {
		return h.failure(ctx, err)
	}
	best, score, ok := resolver.Best(keywords, candidates, h.threshold)
	if !ok {
		return fmt.Sprintf("No %s matched above %d%%.", noun, h.threshold)
	}
	return fmt.Sprintf("Best match: %s (%d%%)", best.Name, score)
}

func (h *Handler) create(ctx context.Context, text string) string {
	line, err := parser.ParseLine(text)
	if err != nil {
		return parseFailure(err)
	}

	var hints []string

	category, hint, err := h.resolveCategory(ctx, line.Category)
	if err != nil {
		return h.failure(ctx, err)
	}
	if hint != "" {
		hints = append(hints, hint)
	}

	destination, hint, err := h.resolveDestination(ctx, line.Destination)
	if err != nil {
		return h.failure(ctx, err)
	}
	if hint != "" {
		hints = append(hints, hint)
	}

	tx, err := h.gateway.CreateTransaction(ctx, ledger.Draft{
		Date:        time.Now(),
		Amount:      line.Amount,
		Description: line.Description,
		SourceID:    h.sourceID,
		Destination: destination,
		Category:    category,
		Notes:       transactionNotes,
	})
	if err != nil {
		return h.failure(ctx, err)
	}

	h.tracker.Set(tx.ID, tx.Summary())
	logger.FromContext(ctx).Info().Str("transaction_id", tx.ID).Msg("transaction recorded")

	reply := "Recorded: " + tx.Summary()
	if len(hints) > 0 {
		reply += "\n" + strings.Join(hints, "\n")
	}
	return reply
}

// resolveCategory maps a cat= directive to a category, creating it when
// the +name form was used. A nil result with an empty hint means the
// transaction carries no category at all.
func (h *Handler) resolveCategory(ctx context.Context, q *parser.Query) (*ledger.Candidate, string, error) {
	if q == nil {
		return nil, "", nil
	}
	if q.Create {
		created, err := h.gateway.CreateCategory(ctx, q.Name)
		if err != nil {
			return nil, "", err
		}
		return &created, "", nil
	}
	candidates, err := h.gateway.ListCategories(ctx)
	if err != nil {
		return nil, "", err
	}
	best, _, ok := resolver.Best(q.Keywords, candidates, h.threshold)
	if !ok {
		return nil, fmt.Sprintf("No category matched above %d%%; recorded without one.", h.threshold), nil
	}
	return &best, "", nil
}

// resolveDestination maps a dest= directive to an expense account. A
// missing or unmatched directive falls back to the account named
// "Unknown", which the ledger creates on first use.
func (h *Handler) resolveDestination(ctx context.Context, q *parser.Query) (ledger.Candidate, string, error) {
	if q == nil {
		return ledger.Candidate{Name: fallbackDestination}, "", nil
	}
	if q.Create {
		created, err := h.gateway.CreateExpenseAccount(ctx, q.Name)
		if err != nil {
			return ledger.Candidate{}, "", err
		}
		return created, "", nil
	}
	candidates, err := h.gateway.ListExpenseAccounts(ctx)
	if err != nil {
		return ledger.Candidate{}, "", err
	}
	best, _, ok := resolver.Best(q.Keywords, candidates, h.threshold)
	if !ok {
		hint := fmt.Sprintf("No destination matched above %d%%; recorded to %q.", h.threshold, fallbackDestination)
		return ledger.Candidate{Name: fallbackDestination}, hint, nil
	}
	return best, "", nil
}

func parseFailure(err error) string {
	const example = "Example: 23.12 Coffee, milk, sugar, cat=Food, dest=Edeka"
	switch {
	case errors.Is(err, parser.ErrInvalidAmount):
		return "I could not find an amount at the start of the line.\n" + example
	case errors.Is(err, parser.ErrEmptyDescription):
		return "There is nothing before the first comma.\n" + example
	case errors.Is(err, parser.ErrEmptyEntityName):
		return "A + prefix needs a name after it, e.g. cat=+Treats."
	default:
		return "I could not read that line.\n" + example
	}
}

// failure reports a gateway error back to the user verbatim. Nothing is
// retried and nothing is tracked.
func (h *Handler) failure(ctx context.Context, err error) string {
	logger.FromContext(ctx).Error().Err(err).Msg("ledger request failed")
	return "Ledger request failed: " + err.Error()
}
