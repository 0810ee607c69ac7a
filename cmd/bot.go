package cmd

import (
	"os/signal"
	"syscall"

	"github.com/bnema/acs/internal/adapters/gateway/telegram"
	"github.com/spf13/cobra"
)

func newBotCmd(loadApp appLoader) *cobra.Command {
	botCmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the chat bot",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Long-poll Telegram and answer commands until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}

			api, err := telegram.NewAPI(app.settings.TelegramToken)
			if err != nil {
				return err
			}
			app.logger.Info("authorized on telegram", "bot", api.Self.UserName)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bot := telegram.New(api, app.dispatcher, telegram.Options{
				Concurrency:    app.settings.BotConcurrency,
				CommandTimeout: app.settings.BotCommandTimeout,
				Logger:         app.logger,
			})
			return bot.Run(ctx)
		},
	}

	botCmd.AddCommand(runCmd)
	return botCmd
}

