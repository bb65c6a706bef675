// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"april/cli/internal/config"
	apperrors "april/cli/internal/errors"
	"april/cli/internal/git"
	"april/cli/internal/httperrors"
	"april/cli/internal/source"

	"github.com/spf13/cobra"
)

var (
	lintDiffMode bool
	lintModel    string
)

// lintCmd reviews one file, or the uncommitted changes of a git repository.
var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Review a file or the working tree diff",
	Long: `The lint command sends code to the April backend for review and prints the risks
it found.

Without --diff-mode the whole content of the given file is sent. With --diff-mode
the uncommitted changes of the current git repository are sent instead, limited to
the given file when one is named.`,
	Example: `  april lint main.go
  april lint --diff-mode
  april lint --diff-mode internal/server.go`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		model := settings.LintModel
		if cmd.Flags().Changed("model") {
			model = lintModel
		}
		if err := config.ValidateModel(model, config.LintModels); err != nil {
			return err
		}

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		var file string
		if len(args) > 0 {
			file = args[0]
		}
		mode := source.ModeFile
		if lintDiffMode {
			mode = source.ModeDiff
		}

		payload, err := source.NewResolver(git.Repo{}).Resolve(ctx, mode, file)
		if err != nil {
			switch apperrors.KindOf(err) {
			case apperrors.NotVersionControlled:
				s.con.Println(source.MsgNotVersionControlled)
			case apperrors.MissingFileArgument:
				s.con.Println(source.MsgMissingFile)
			}
			return err
		}
		if mode == source.ModeDiff && strings.TrimSpace(payload.Code) == "" {
			s.con.Println("no changes to lint")
			return nil
		}

		s.con.Busy("Generating")
		records, err := s.client.Lint(ctx, payload, model)
		s.con.Done()
		if err != nil {
			switch apperrors.KindOf(err) {
			case apperrors.RequestFailed:
				s.con.Println("request service error")
				_ = httperrors.FormatNetworkError(s.con.Out(), err, "linting", httperrors.ExtractHostFromURL(s.apiURL))
			case apperrors.MalformedResponse:
				s.con.Println("parse error")
				s.con.Println(apperrors.RawOf(err))
			}
			return err
		}

		for _, rec := range records {
			s.con.Println(s.render.Record(rec))
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().BoolVar(&lintDiffMode, "diff-mode", false, "Review the uncommitted changes of the git repository")
	lintCmd.Flags().StringVarP(&lintModel, "model", "m", config.DefaultLintModel, "Model to use ("+strings.Join(config.LintModels, ", ")+"; env "+config.EnvLintModel+")")
	_ = lintCmd.RegisterFlagCompletionFunc("model", cobra.FixedCompletions(config.LintModels, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(lintCmd)
}
