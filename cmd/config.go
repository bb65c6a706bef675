// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"april/cli/internal/config"
	apperrors "april/cli/internal/errors"
	"april/cli/internal/logging"

	"github.com/spf13/cobra"
)

// configCmd shows and edits the settings file. Environment variables and
// flags are not reflected here; they override the file at run time.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the settings stored in the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config file location and its settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		cfg, err := config.LoadFrom(p)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", p)
		for _, k := range config.Keys {
			v, _ := cfg.Get(k)
			fmt.Fprintf(out, "%s = %s\n", k, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting in the config file",
	Example:   "  april config set api_url grpcs://april.example.com\n  april config set dev_model openai:gpt4o",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if key == "log_level" {
			if _, err := logging.ParseLevel(value); err != nil {
				return apperrors.Wrap(apperrors.InvalidInput, "invalid log level", err)
			}
		}

		p, err := config.Path()
		if err != nil {
			return err
		}
		cfg, err := config.LoadFrom(p)
		if err != nil {
			return err
		}
		cfg, err = cfg.Set(key, value)
		if err != nil {
			return err
		}
		if err := config.SaveTo(p, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Debug("config updated")
		v, _ := cfg.Get(key)
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s = %s\n", key, v)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
