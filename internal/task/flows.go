// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package task

import "context"

// Printer receives the user-visible events of the dev flows.
type Printer interface {
	// Accepted is called once the backend accepted a new task.
	Accepted(taskID string)
	// FollowStarted and FollowEnded bracket the log of a task.
	FollowStarted(taskID string)
	FollowEnded(taskID string)
	// LogText is called for every decoded log increment, in order.
	LogText(text string)
	// Saved is called after the patch was written to file.
	Saved(taskID, file string)
	// Pending is called when the task has no patch yet.
	Pending(taskID string, st Status)
}

// Walkthrough submits t, follows its log to the end and then downloads the
// patch into dir.
func (c *Client) Walkthrough(ctx context.Context, t Task, dir string, p Printer) (Artifact, error) {
	id, err := c.Submit(ctx, t)
	if err != nil {
		return Artifact{}, err
	}
	p.Accepted(id)
	if err := c.Watch(ctx, id, p); err != nil {
		return Artifact{}, err
	}
	return c.Download(ctx, id, dir, p)
}

// Watch prints the log of an existing task until the backend closes it.
func (c *Client) Watch(ctx context.Context, id string, p Printer) error {
	log, err := c.FollowLog(ctx, id)
	if err != nil {
		return err
	}
	defer log.Close()

	p.FollowStarted(id)
	defer p.FollowEnded(id)
	for text := range log.Text() {
		p.LogText(text)
	}
	return log.Err()
}

// Download fetches the task status once and saves the patch into dir when
// the task is done. A pending task is reported, not returned as an error.
func (c *Client) Download(ctx context.Context, id, dir string, p Printer) (Artifact, error) {
	art, err := c.FetchArtifact(ctx, id)
	if err != nil {
		return Artifact{}, err
	}
	if !art.Ready() {
		p.Pending(id, art.Status)
		return art, nil
	}
	if _, err := art.Save(dir); err != nil {
		return art, err
	}
	p.Saved(id, art.FileName())
	return art, nil
}
