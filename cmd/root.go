package cmd

import (
	"sync"

	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "acs",
		Short:         "Aternos chat bot (acs): start, stop and watch hosted Minecraft servers from chat",
		Long:          "acs links hosting accounts to Telegram group chats, resolves server identifiers across every linked account, and answers status, start and stop commands.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/acs/config.toml)")

	// Wiring waits for flag parsing so --config is honored.
	var (
		once    sync.Once
		wired   *app
		wireErr error
	)
	loadApp := func(cmd *cobra.Command) (*app, error) {
		once.Do(func() {
			wired, wireErr = wireApp(configPath, cmd.ErrOrStderr())
		})
		return wired, wireErr
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		if wired == nil {
			return nil
		}
		return wired.Close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(func() string { return configPath }),
		newBotCmd(loadApp),
		newChatCmd(loadApp),
		newStatusCmd(loadApp),
	)

	return rootCmd
}

type appLoader func(cmd *cobra.Command) (*app, error)
