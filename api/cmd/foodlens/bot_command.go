package main

import (
	"errors"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"food-lens/api/internal/foodcheck"
	"food-lens/api/internal/telegram"
)

func newBotCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram front-end (long polling)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensure(); err != nil {
				return err
			}
			defer func() { _ = app.log.Sync() }()
			if app.cfg.TelegramBotToken == "" {
				return errors.New("TELEGRAM_BOT_TOKEN is not set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := app.services()
			if err != nil {
				return err
			}

			bot, err := tgbotapi.NewBotAPI(app.cfg.TelegramBotToken)
			if err != nil {
				return err
			}
			app.log.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

			r := telegram.NewRouter(bot, &foodcheck.Service{Validator: svc.validator, Identifier: svc.identifier}, app.log)
			r.RequestTimeout = app.cfg.RequestTimeout
			r.Run(ctx)
			return nil
		},
	}
}
