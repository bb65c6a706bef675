// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package task

import (
	"context"
	"errors"
	"io"
	"sync"

	"april/cli/internal/backend"
	apperrors "april/cli/internal/errors"
	"april/cli/internal/review"
	"april/cli/internal/source"
	"april/cli/internal/stream"

	"go.uber.org/zap"
)

const readChunk = 4096

// Client performs the lifecycle operations against the backend.
// None of them retry; the caller decides what to do with a failure.
type Client struct {
	api backend.API
	log *zap.Logger
}

// NewClient returns a Client using api. A nil logger disables logging.
func NewClient(api backend.API, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{api: api, log: log}
}

// Lint sends the payload for review and reconciles the reply into records.
func (c *Client) Lint(ctx context.Context, p source.Payload, model string) ([]review.Record, error) {
	c.log.Debug("lint", zap.String("project", p.Project), zap.Int("code_bytes", len(p.Code)), zap.String("model", model))
	body, err := c.api.Lint(ctx, backend.LintRequest{Project: p.Project, Code: p.Code, Model: model})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.RequestFailed, "request service error", err)
	}
	return review.Reconcile(body)
}

// Submit creates the task on the backend and returns its id.
func (c *Client) Submit(ctx context.Context, t Task) (string, error) {
	id, err := c.api.SubmitDev(ctx, backend.DevRequest{
		Repo:   t.Repo,
		Token:  t.Token,
		Prompt: t.Description,
		Model:  t.Model,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.SubmissionFailed, "task submission failed", err)
	}
	c.log.Debug("task accepted", zap.String("task_id", id))
	return id, nil
}

// PollStatus performs exactly one status fetch.
func (c *Client) PollStatus(ctx context.Context, id string) (Status, error) {
	st, err := c.api.DevStatus(ctx, id)
	if err != nil {
		return Status{}, apperrors.Wrap(apperrors.StatusFailed, "cannot get status of task "+id, err)
	}
	c.log.Debug("task status", zap.String("task_id", id), zap.String("state", st.State), zap.Bool("patch", st.Patch != nil))
	return st, nil
}

// FetchArtifact polls the status once. A task that is not ready is not an
// error; check Artifact.Ready.
func (c *Client) FetchArtifact(ctx context.Context, id string) (Artifact, error) {
	st, err := c.PollStatus(ctx, id)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{TaskID: id, Status: st}, nil
}

// FollowLog opens the task log. Text increments are delivered on Log.Text in
// backend order; the channel closes when the backend ends the stream or the
// read fails, after which Log.Err tells which. A Log is not restartable.
func (c *Client) FollowLog(ctx context.Context, id string) (*Log, error) {
	ctx, cancel := context.WithCancel(ctx)
	body, err := c.api.FollowDev(ctx, id)
	if err != nil {
		cancel()
		return nil, apperrors.Wrap(apperrors.StreamFailed, "cannot follow task "+id, err)
	}
	l := &Log{
		taskID: id,
		text:   make(chan string),
		done:   make(chan struct{}),
		body:   body,
		cancel: cancel,
		log:    c.log,
	}
	go l.produce(ctx)
	return l, nil
}

// Log is an open task log stream.
type Log struct {
	taskID string
	text   chan string
	done   chan struct{}
	body   io.ReadCloser
	cancel context.CancelFunc
	log    *zap.Logger

	err       error
	closeOnce sync.Once
}

// Text yields decoded text increments. It is unbuffered, so the producer never
// runs ahead of the consumer.
func (l *Log) Text() <-chan string { return l.text }

// Err returns the read failure, if any. It is valid once Text is closed.
func (l *Log) Err() error {
	<-l.done
	return l.err
}

// Close stops the stream and waits for the producer to exit.
func (l *Log) Close() error {
	l.closeOnce.Do(func() {
		l.cancel()
		_ = l.body.Close()
	})
	<-l.done
	return nil
}

func (l *Log) produce(ctx context.Context) {
	defer close(l.done)
	defer close(l.text)
	defer l.body.Close()

	var dec stream.Decoder
	buf := make([]byte, readChunk)
	for {
		n, err := l.body.Read(buf)
		if n > 0 {
			if s := dec.Feed(buf[:n]); s != "" {
				select {
				case l.text <- s:
				case <-ctx.Done():
					l.err = ctx.Err()
					return
				}
			}
		}
		if errors.Is(err, io.EOF) {
			if dropped := dec.Flush(); dropped > 0 {
				l.log.Debug("incomplete character at end of log", zap.String("task_id", l.taskID), zap.Int("bytes", dropped))
			}
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				l.err = ctx.Err()
				return
			}
			l.err = apperrors.Wrap(apperrors.StreamFailed, "log stream of task "+l.taskID+" broke", err)
			return
		}
	}
}
