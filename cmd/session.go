// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"

	"april/cli/internal/backend"
	"april/cli/internal/config"
	"april/cli/internal/console"
	"april/cli/internal/keychain"
	"april/cli/internal/render"
	"april/cli/internal/task"
	"april/cli/internal/terminal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// openKeychain returns the keychain manager. Tests replace it with an
// in-memory keyring.
var openKeychain = keychain.GetManager

// session is what a backend command needs: one client, one console and one
// renderer shared by every display path.
type session struct {
	apiURL string
	api    backend.API
	client *task.Client
	con    *console.Console
	render *render.Renderer
	log    *zap.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	apiKey := config.ResolveAPIKey(apiKeyFlag, os.Getenv, storedAPIKey)
	if apiKey == config.DefaultAPIKey {
		logger.Debug("no api key configured, using the default")
	}

	api, err := backend.New(settings.APIURL, apiKey, logger)
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	tty := terminal.IsTerminal(out)
	width := terminal.DefaultWidth
	if tty {
		width = terminal.Width()
	}
	r, err := render.New(tty, width)
	if err != nil {
		_ = api.Close()
		return nil, err
	}

	return &session{
		apiURL: settings.APIURL,
		api:    api,
		client: task.NewClient(api, logger),
		con:    console.New(out),
		render: r,
		log:    logger,
	}, nil
}

// close stops any animation still running and releases the transport.
func (s *session) close() {
	s.con.Done()
	_ = s.api.Close()
}

func storedAPIKey() (string, error) {
	km, err := openKeychain()
	if err != nil {
		return "", err
	}
	return km.LoadAPIKey()
}
