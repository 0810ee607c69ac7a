package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/acs/internal/adapters/gateway"
	"github.com/bnema/acs/internal/domain"
	"github.com/spf13/cobra"
)

func newChatCmd(loadApp appLoader) *cobra.Command {
	var (
		chatID string
		userID string
	)

	chatCmd := &cobra.Command{
		Use:   "chat [flags] -- <command> [args...]",
		Short: "Send one chat command through the bot and print the reply",
		Example: "  acs chat --chat -100123 --user 42 -- /login alice hunter2\n" +
			"  acs chat --chat -100123 --user 42 -- /turnon default",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd)
			if err != nil {
				return err
			}

			reply := app.dispatcher.Handle(cmd.Context(), gateway.Request{
				Chat: domain.ChatID(chatID),
				User: domain.UserID(userID),
				Text: strings.Join(args, " "),
			})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
			return err
		},
	}

	chatCmd.Flags().StringVar(&chatID, "chat", "", "chat ID the command is sent from")
	chatCmd.Flags().StringVar(&userID, "user", "", "user ID of the sender")
	_ = chatCmd.MarkFlagRequired("chat")
	_ = chatCmd.MarkFlagRequired("user")

	return chatCmd
}
