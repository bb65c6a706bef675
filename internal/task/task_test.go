// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package task

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "april/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTaskFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "task.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTask(t *testing.T) {
	path := writeTaskFile(t, `repo: https://github.com/bd-iaas-us/AILint.git
description: |
  add a --json flag to the lint command
token: " ghp_123 "
`)
	got, err := LoadTask(path)
	require.NoError(t, err)
	assert.Equal(t, Task{
		Repo:        "https://github.com/bd-iaas-us/AILint.git",
		Description: "add a --json flag to the lint command\n",
		Token:       "ghp_123",
	}, got)
}

func TestLoadTaskErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "not yaml", content: "repo: [unclosed", wantMsg: "invalid task file"},
		{name: "no repo", content: "description: do it\n", wantMsg: "has no repo"},
		{name: "no description", content: "repo: r\ndescription: \"  \"\n", wantMsg: "has no description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTask(writeTaskFile(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, apperrors.InvalidInput, apperrors.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadTaskMissingFile(t *testing.T) {
	_, err := LoadTask(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, apperrors.InvalidInput, apperrors.KindOf(err))
}

func TestMessages(t *testing.T) {
	patch := "x"
	assert.Equal(t, "task abc123 done. saved patch into abc123.diff", SavedMessage("abc123", "abc123.diff"))
	assert.Equal(t, "task abc123's status is RUNNING (patch: none)", PendingMessage("abc123", Status{State: "RUNNING"}))
	assert.Equal(t, "task abc123's status is FAILED (patch: present)", PendingMessage("abc123", Status{State: "FAILED", Patch: &patch}))
	assert.Equal(t, "task abc123's status is unknown (patch: none)", PendingMessage("abc123", Status{}))
}
