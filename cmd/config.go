package cmd

import (
	"fmt"

	"github.com/bnema/acs/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

const redacted = "<redacted>"

func newConfigCmd(configPath func() string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the acs config file",
	}

	resolvePath := func() (string, error) {
		if path := configPath(); path != "" {
			return path, nil
		}
		return config.DefaultPath()
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolvePath()
			if err != nil {
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := resolvePath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings after file and environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.Load(configPath())
			if err != nil {
				return err
			}
			if _, err := config.Decode(v); err != nil {
				return err
			}
			if v.GetString(config.KeyTelegramToken) != "" {
				v.Set(config.KeyTelegramToken, redacted)
			}

			data, err := toml.Marshal(v.AllSettings())
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(initCmd, pathCmd, showCmd)
	return configCmd
}
