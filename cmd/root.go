// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the april CLI application.
// It implements the lint and dev subcommands plus API key management using the
// Cobra CLI framework. Configuration is resolved once per invocation in the root
// command's persistent pre-run and shared with the subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"april/cli/internal/config"
	"april/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	apiURLFlag  string
	apiKeyFlag  string
	verbose     bool
	showVersion bool

	// settings is the file and environment configuration, loaded in PersistentPreRunE.
	settings = config.Default()
	// logger is the diagnostic logger, built in PersistentPreRunE.
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "april",
	Short: "AI code review and code generation from the command line",
	Long: `april sends code to the April backend for review (lint) or asks it to write
a patch for a repository (dev), then shows the result in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			pterm.Warning.Printfln("Ignoring config file: %v", err)
		}
		settings = cfg.ApplyEnv(os.Getenv)
		if apiURLFlag != "" {
			settings.APIURL = apiURLFlag
		}

		logger, err = logging.NewLogger(settings.LogLevel, verbose)
		if err != nil {
			return err
		}
		logger.Debug("settings",
			logging.Secret("api_url", settings.APIURL),
			zap.String("lint_model", settings.LintModel),
			zap.String("dev_model", settings.DevModel))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// An interrupt cancels the command context so streams and animations stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("april", err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "API URL to connect to (env API_URL, default "+config.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key (env API_KEY, or stored with 'april login')")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
}
