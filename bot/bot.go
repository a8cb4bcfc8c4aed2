// Package bot runs the Telegram long-polling loop. It authenticates the
// sender, rate-limits the single allowed user, and forwards message text
// to a handler, replying with whatever the handler returns.
package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwiebalk/fireflybot/logger"
)

// accessDenied is the single fixed reply an unknown sender receives.
const accessDenied = "Access denied."

// pollTimeout is the long-poll timeout in seconds.
const pollTimeout = 30

// Handler produces the reply for one message. An empty reply means
// nothing is sent back.
type Handler interface {
	Handle(ctx context.Context, text string) string
}

// Config carries the Telegram-side settings.
type Config struct {
	// Token authenticates the bot against the Telegram API.
	Token string
	// AllowUserID is the only Telegram user the bot talks to.
	AllowUserID int64
	// Debug enables the client library's request logging.
	Debug bool
}

// Bot is the long-polling transport around a Handler.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler Handler
	allow   int64
	limiter *rate.Limiter
	log     zerolog.Logger
}

func New(cfg Config, handler Handler, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	api.Debug = cfg.Debug

	return &Bot{
		api:     api,
		handler: handler,
		allow:   cfg.AllowUserID,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		log:     log,
	}, nil
}

// Username reports the account name Telegram registered for the token.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run polls for updates until ctx is cancelled. Messages are processed
// one at a time, in arrival order.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info().
		Str("username", b.api.Self.UserName).
		Int64("allowed_user", b.allow).
		Msg("listening for messages")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if reply, ok := b.handleUpdate(ctx, update); ok {
				b.send(update.Message.Chat.ID, reply)
			}
		}
	}
}

// handleUpdate screens one update and runs the handler. The boolean
// reports whether the returned text should be sent as a reply.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) (string, bool) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return "", false
	}

	log := b.log.With().
		Int("update_id", update.UpdateID).
		Str("correlation_id", uuid.NewString()).
		Logger()

	if msg.From == nil || msg.From.ID != b.allow {
		var from int64
		if msg.From != nil {
			from = msg.From.ID
		}
		log.Warn().Int64("from", from).Msg("rejected message from unknown sender")
		return accessDenied, true
	}

	if !b.limiter.Allow() {
		log.Warn().Msg("rate limit exceeded, dropping message")
		return "", false
	}

	start := time.Now()
	reply := b.handler.Handle(logger.WithContext(ctx, log), msg.Text)
	log.Info().
		Dur("duration", time.Since(start)).
		Bool("replied", reply != "").
		Msg("message processed")

	return reply, reply != ""
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Error().Err(err).Msg("failed to send reply")
	}
}
