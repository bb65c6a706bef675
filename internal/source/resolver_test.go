// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "april/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVCS struct {
	project    string
	projectErr error
	diffs      map[string]string
	diffErr    error
	diffCalls  []string
}

func (f *fakeVCS) ProjectName(context.Context) (string, error) {
	return f.project, f.projectErr
}

func (f *fakeVCS) Diff(_ context.Context, file string) (string, error) {
	f.diffCalls = append(f.diffCalls, file)
	if f.diffErr != nil {
		return "", f.diffErr
	}
	return f.diffs[file], nil
}

var errNoRepo = errors.New("not inside a git repository")

func TestResolveDiffMode(t *testing.T) {
	vcs := &fakeVCS{project: "april", diffs: map[string]string{
		"":        "whole tree diff",
		"main.go": "main.go diff",
	}}
	r := NewResolver(vcs)

	tests := []struct {
		name string
		file string
		want Payload
	}{
		{name: "whole tree", file: "", want: Payload{Project: "april", Code: "whole tree diff"}},
		{name: "single file", file: "main.go", want: Payload{Project: "april", Code: "main.go diff"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), ModeDiff, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, []string{"", "main.go"}, vcs.diffCalls)
}

func TestResolveDiffModeOutsideRepository(t *testing.T) {
	vcs := &fakeVCS{projectErr: errNoRepo}
	_, err := NewResolver(vcs).Resolve(context.Background(), ModeDiff, "")

	require.Error(t, err)
	assert.Equal(t, apperrors.NotVersionControlled, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), MsgNotVersionControlled)
	assert.Empty(t, vcs.diffCalls, "no diff is taken outside a repository")
}

func TestResolveDiffFailure(t *testing.T) {
	vcs := &fakeVCS{project: "april", diffErr: errors.New("bad revision")}
	_, err := NewResolver(vcs).Resolve(context.Background(), ModeDiff, "x.go")
	assert.Equal(t, apperrors.SourceRead, apperrors.KindOf(err))
}

func TestResolveFileMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint_me.py")
	// not valid UTF-8; content must pass through untouched
	content := "def f():\n    return 1\n\xff"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	tests := []struct {
		name string
		vcs  *fakeVCS
		want Payload
	}{
		{name: "inside repository", vcs: &fakeVCS{project: "april"}, want: Payload{Project: "april", Code: content}},
		{name: "outside repository", vcs: &fakeVCS{projectErr: errNoRepo}, want: Payload{Project: "", Code: content}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewResolver(tt.vcs).Resolve(context.Background(), ModeFile, path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, tt.vcs.diffCalls)
		})
	}
}

func TestResolveFileModeErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		kind apperrors.Kind
	}{
		{name: "no file", file: "", kind: apperrors.MissingFileArgument},
		{name: "missing file", file: filepath.Join(t.TempDir(), "nope.go"), kind: apperrors.SourceRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(&fakeVCS{project: "april"}).Resolve(context.Background(), ModeFile, tt.file)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.New(tt.kind, "")), "got %v", err)
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "diff", ModeDiff.String())
	assert.Equal(t, "file", ModeFile.String())
}
