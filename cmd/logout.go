// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd removes the stored API key from the OS keychain.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key",
	Long: `The logout command removes the API key saved by 'april login' from the OS
keychain. Keys passed with --api-key or API_KEY are not affected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := openKeychain()
		if err != nil {
			return fmt.Errorf("open keychain: %w", err)
		}
		if err := km.ClearAPIKey(); err != nil {
			return fmt.Errorf("remove api key: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ API key removed from the OS keychain")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
