// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package task drives the lifecycle of backend work: lint requests, and dev
// tasks that are submitted, followed through their log, polled for status and
// finally downloaded as a patch.
package task

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"april/cli/internal/backend"
	apperrors "april/cli/internal/errors"

	"gopkg.in/yaml.v3"
)

// StateDone is the only state in which a task's patch is final.
const StateDone = "DONE"

// Task is a dev request as described by the user. It is immutable once submitted.
type Task struct {
	Repo        string `yaml:"repo"`
	Description string `yaml:"description"`
	Token       string `yaml:"token,omitempty"`
	Model       string `yaml:"-"`
}

// LoadTask reads a YAML task description of the form
//
//	repo: https://github.com/owner/project.git
//	description: |
//	  what to change
//	token: ghp_xxx   # optional, for private repositories
func LoadTask(path string) (Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Task{}, apperrors.Wrap(apperrors.InvalidInput, "cannot read task file "+path, err)
	}
	var t Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Task{}, apperrors.Wrap(apperrors.InvalidInput, "invalid task file "+path, err)
	}
	t.Repo = strings.TrimSpace(t.Repo)
	t.Token = strings.TrimSpace(t.Token)
	if t.Repo == "" {
		return Task{}, apperrors.New(apperrors.InvalidInput, "task file "+path+" has no repo")
	}
	if strings.TrimSpace(t.Description) == "" {
		return Task{}, apperrors.New(apperrors.InvalidInput, "task file "+path+" has no description")
	}
	return t, nil
}

// Status is a read-only snapshot of a task on the backend. It is never cached.
type Status = backend.TaskStatus

// Artifact is the outcome of a status fetch: a patch when the task is done.
type Artifact struct {
	TaskID string
	Status Status
}

// Ready reports whether the task is DONE and carries a patch.
func (a Artifact) Ready() bool {
	return a.Status.State == StateDone && a.Status.Patch != nil
}

// FileName is the file the patch is saved to.
func (a Artifact) FileName() string { return a.TaskID + ".diff" }

// Save writes the patch into dir and returns the file path.
func (a Artifact) Save(dir string) (string, error) {
	if !a.Ready() {
		return "", apperrors.New(apperrors.ArtifactNotReady, PendingMessage(a.TaskID, a.Status))
	}
	path := filepath.Join(dir, a.FileName())
	if err := os.WriteFile(path, []byte(*a.Status.Patch), 0644); err != nil {
		return "", fmt.Errorf("save patch: %w", err)
	}
	return path, nil
}

// SavedMessage is shown once a patch was written.
func SavedMessage(taskID, file string) string {
	return fmt.Sprintf("task %s done. saved patch into %s", taskID, file)
}

// PendingMessage is shown when a task has no patch yet.
func PendingMessage(taskID string, st Status) string {
	state := st.State
	if state == "" {
		state = "unknown"
	}
	patch := "none"
	if st.Patch != nil {
		patch = "present"
	}
	return fmt.Sprintf("task %s's status is %s (patch: %s)", taskID, state, patch)
}
