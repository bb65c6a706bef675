// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"april/cli/internal/terminal"

	"github.com/spf13/cobra"
)

// readSecret reads the API key without echo. Tests replace it.
var readSecret = terminal.ReadSecret

// loginCmd stores the API key in the OS keychain so later commands can use it
// without --api-key or API_KEY.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the API key in the OS keychain",
	Long: `The login command saves an April API key in the OS keychain (macOS Keychain,
Windows Credential Manager, or Secret Service / KWallet / pass on Linux).

The key is taken from --api-key when given, otherwise it is read from the terminal
without echo. A key given with --api-key or API_KEY always takes precedence over
the stored one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.TrimSpace(apiKeyFlag)
		if key == "" {
			fmt.Fprint(cmd.OutOrStdout(), "API key: ")
			v, err := readSecret()
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("read api key: %w", err)
			}
			key = strings.TrimSpace(v)
		}
		if key == "" {
			return fmt.Errorf("no api key given")
		}

		km, err := openKeychain()
		if err != nil {
			return fmt.Errorf("open keychain: %w", err)
		}
		if err := km.SaveAPIKey(key); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
		logger.Debug("api key stored in keychain")
		fmt.Fprintln(cmd.OutOrStdout(), "✅ API key saved to the OS keychain")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
