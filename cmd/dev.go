// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"april/cli/internal/config"
	"april/cli/internal/console"
	apperrors "april/cli/internal/errors"
	"april/cli/internal/httperrors"
	"april/cli/internal/logging"
	"april/cli/internal/render"
	"april/cli/internal/task"

	"github.com/spf13/cobra"
)

const followLabel = "AI is preparing, it may take around 1 minute..."

var (
	devFollow string
	devPatch  string
	devModel  string
)

// devCmd submits a dev task, follows the log of one, or downloads its patch.
var devCmd = &cobra.Command{
	Use:   "dev [descriptionFile]",
	Short: "Ask the AI to write a patch for a repository",
	Long: `The dev command submits a task described in a YAML file, shows the log of the
AI's work while it runs and saves the resulting patch as <task id>.diff in the
current directory.

The description file looks like:

  repo: https://github.com/owner/project.git
  description: |
    what to change
  token: ghp_xxx   # optional, for private repositories

With --follow the log of an existing task is shown; with --patch the patch of an
existing task is downloaded. --patch wins over --follow, which wins over a file.`,
	Example: `  april dev task.yaml
  april dev --follow 7d9c0e4a
  april dev --patch 7d9c0e4a`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if devPatch == "" && devFollow == "" && len(args) == 0 {
			return cmd.Usage()
		}
		ctx := cmd.Context()

		model := settings.DevModel
		if cmd.Flags().Changed("model") {
			model = devModel
		}
		if err := config.ValidateModel(model, config.DevModels); err != nil {
			return err
		}

		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		p := &devPrinter{con: s.con, render: s.render}
		switch {
		case devPatch != "":
			p.taskID = devPatch
			_, err = s.client.Download(ctx, devPatch, ".", p)
		case devFollow != "":
			p.taskID = devFollow
			err = s.client.Watch(ctx, devFollow, p)
		default:
			var t task.Task
			t, err = task.LoadTask(args[0])
			if err != nil {
				return err
			}
			t.Model = model
			s.log.Debug("submitting task", logging.Secret("repo", t.Repo))
			_, err = s.client.Walkthrough(ctx, t, ".", p)
		}
		if err != nil {
			s.con.Done()
			explainDevError(s, p.taskID, err)
		}
		return err
	},
}

// explainDevError shows a user-friendly explanation for lifecycle failures.
func explainDevError(s *session, taskID string, err error) {
	host := httperrors.ExtractHostFromURL(s.apiURL)
	switch apperrors.KindOf(err) {
	case apperrors.SubmissionFailed:
		_ = httperrors.FormatNetworkError(s.con.Out(), err, "submitting the task", host)
	case apperrors.StatusFailed:
		_ = httperrors.FormatNetworkError(s.con.Out(), err, "fetching the task status", host)
	case apperrors.StreamFailed:
		logging.PresentStreamError(s.con.Out(), err.Error(), taskID)
	}
}

// devPrinter shows the dev flows on the console: the log through the markdown
// renderer under the busy indicator, everything else as plain lines.
type devPrinter struct {
	con    *console.Console
	render *render.Renderer
	taskID string
}

func (p *devPrinter) Accepted(taskID string) {
	p.taskID = taskID
	p.con.Printf("TASK %s is accepted...\nDisplaying the log of AI thoughts...\n", taskID)
}

func (p *devPrinter) FollowStarted(string) { p.con.Busy(followLabel) }
func (p *devPrinter) FollowEnded(string)   { p.con.Done() }

func (p *devPrinter) LogText(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	p.con.Println(p.render.Markdown(text))
}

func (p *devPrinter) Saved(taskID, file string) {
	p.con.Println(task.SavedMessage(taskID, file))
}

func (p *devPrinter) Pending(taskID string, st task.Status) {
	p.con.Println(task.PendingMessage(taskID, st))
}

func init() {
	devCmd.Flags().StringVarP(&devFollow, "follow", "f", "", "Show the log of an existing task")
	devCmd.Flags().StringVarP(&devPatch, "patch", "p", "", "Download the patch of an existing task")
	devCmd.Flags().StringVarP(&devModel, "model", "m", config.DefaultDevModel, "Model to use ("+strings.Join(config.DevModels, ", ")+"; env "+config.EnvDevModel+")")
	_ = devCmd.RegisterFlagCompletionFunc("model", cobra.FixedCompletions(config.DevModels, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(devCmd)
}
