package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/jwiebalk/fireflybot/bot"
	"github.com/jwiebalk/fireflybot/engine"
	"github.com/jwiebalk/fireflybot/firefly"
	"github.com/jwiebalk/fireflybot/logger"
	"github.com/jwiebalk/fireflybot/tracker"
)

var _ engine.Gateway = (*firefly.Client)(nil)

// RunCmd connects to Telegram and records transactions until interrupted.
type RunCmd struct {
	TelegramToken string `help:"Telegram bot API token." env:"TELEGRAM_BOT_TOKEN"`
	AllowUser     int64  `help:"Telegram user ID allowed to talk to the bot." env:"TELEGRAM_ALLOW_USERID"`
	Debug         bool   `help:"Log every Telegram API request."`
}

func (cmd *RunCmd) Run(kctx *kong.Context, globals *Globals) error {
	if err := requireLedgerConfig(globals); err != nil {
		return err
	}
	if cmd.TelegramToken == "" {
		return fmt.Errorf("missing configuration: TELEGRAM_BOT_TOKEN")
	}
	if cmd.AllowUser == 0 {
		return fmt.Errorf("missing configuration: TELEGRAM_ALLOW_USERID")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(globals.LogLevel)
	client := firefly.New(globals.FireflyURL, globals.FireflyToken)

	source, err := client.FindAssetAccount(ctx, globals.SourceAccount)
	if err != nil {
		return fmt.Errorf("source account: %w", err)
	}

	handler := engine.New(client, &tracker.Tracker{}, engine.Config{
		SourceAccountID: source.ID,
		Threshold:       globals.Threshold,
	})

	b, err := bot.New(bot.Config{
		Token:       cmd.TelegramToken,
		AllowUserID: cmd.AllowUser,
		Debug:       cmd.Debug,
	}, handler, log)
	if err != nil {
		return err
	}

	printInfof(kctx.Stdout, "Connected to Telegram as %s", nameStyle.Render("@"+b.Username()))
	printInfof(kctx.Stdout, "Recording withdrawals from %s", nameStyle.Render(source.Name))

	return b.Run(ctx)
}
