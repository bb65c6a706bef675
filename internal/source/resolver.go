// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package source decides which code a lint request carries: a diff of the
// working tree or the full content of one file.
package source

import (
	"context"
	"os"

	apperrors "april/cli/internal/errors"
)

// Mode selects how code is gathered.
type Mode int

const (
	// ModeFile sends the full content of one named file.
	ModeFile Mode = iota
	// ModeDiff sends the uncommitted changes of a repository.
	ModeDiff
)

func (m Mode) String() string {
	if m == ModeDiff {
		return "diff"
	}
	return "file"
}

// Messages shown to the user for resolver failures.
const (
	MsgNotVersionControlled = "diff mode is only supported for git project"
	MsgMissingFile          = "you should provide a file name to lint"
)

// VCS is the subset of version control the resolver needs.
type VCS interface {
	ProjectName(ctx context.Context) (string, error)
	Diff(ctx context.Context, file string) (string, error)
}

// Payload is the project/code pair sent to the lint endpoint.
type Payload struct {
	Project string
	Code    string
}

// Resolver turns a mode and optional file argument into a Payload.
type Resolver struct {
	vcs      VCS
	readFile func(string) ([]byte, error)
}

// NewResolver returns a Resolver reading files from disk.
func NewResolver(vcs VCS) *Resolver {
	return &Resolver{vcs: vcs, readFile: os.ReadFile}
}

// Resolve gathers the code for mode. In diff mode a repository is required
// and an empty file means the whole working tree. In file mode the repository
// is optional (the project is "" outside one) and the file is required.
// Content is passed through without any encoding inference.
func (r *Resolver) Resolve(ctx context.Context, mode Mode, file string) (Payload, error) {
	switch mode {
	case ModeDiff:
		project, err := r.vcs.ProjectName(ctx)
		if err != nil {
			return Payload{}, apperrors.Wrap(apperrors.NotVersionControlled, MsgNotVersionControlled, err)
		}
		diff, err := r.vcs.Diff(ctx, file)
		if err != nil {
			return Payload{}, apperrors.Wrap(apperrors.SourceRead, "failed to read diff", err)
		}
		return Payload{Project: project, Code: diff}, nil

	default:
		if file == "" {
			return Payload{}, apperrors.New(apperrors.MissingFileArgument, MsgMissingFile)
		}
		project, err := r.vcs.ProjectName(ctx)
		if err != nil {
			project = ""
		}
		data, err := r.readFile(file)
		if err != nil {
			return Payload{}, apperrors.Wrap(apperrors.SourceRead, "failed to read "+file, err)
		}
		return Payload{Project: project, Code: string(data)}, nil
	}
}
