// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package git runs the few git plumbing commands the lint flow needs.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repo is a working directory that may or may not be inside a git repository.
// An empty Dir means the process working directory.
type Repo struct {
	Dir string
}

// Root returns the top-level directory of the repository containing Dir.
func (r Repo) Root(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ProjectName returns the base name of the repository root.
func (r Repo) ProjectName(ctx context.Context) (string, error) {
	root, err := r.Root(ctx)
	if err != nil {
		return "", err
	}
	return filepath.Base(root), nil
}

// Diff returns the uncommitted changes against HEAD, limited to file when it
// is not empty.
func (r Repo) Diff(ctx context.Context, file string) (string, error) {
	if strings.HasPrefix(file, "-") {
		return "", fmt.Errorf("invalid file %q: must not start with -", file)
	}
	args := []string{"diff", "HEAD"}
	if file != "" {
		args = append(args, "--", file)
	}
	out, err := r.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get diff: %w", err)
	}
	return out, nil
}

func (r Repo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			if msg := strings.TrimSpace(string(ee.Stderr)); msg != "" {
				return "", fmt.Errorf("%s", msg)
			}
		}
		return "", err
	}
	return string(out), nil
}
