// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package console owns the terminal line shared by the busy indicator and the
// application output. Either the animation owns the line (after Start or Resume)
// or the foreground does (after Pause), never both.
package console

import (
	"io"
	"sync"
	"time"

	"april/cli/internal/terminal"
)

const defaultInterval = 120 * time.Millisecond

// Braille frames, same as the docker CLI.
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Option configures an Animation.
type Option func(*Animation)

// WithFrames replaces the indicator glyphs.
func WithFrames(frames []string) Option {
	return func(a *Animation) {
		if len(frames) > 0 {
			a.frames = frames
		}
	}
}

// WithInterval sets the redraw cadence.
func WithInterval(d time.Duration) Option {
	return func(a *Animation) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithStyle decorates each glyph, e.g. with a color.
func WithStyle(style func(string) string) Option {
	return func(a *Animation) { a.style = style }
}

// Animation is a busy indicator redrawn on the current line by a background
// goroutine. Every frame is written with a single Write while holding mu, and
// Pause takes the same mutex, so a caller printing after Pause never lands in
// the middle of a frame.
type Animation struct {
	w        io.Writer
	frames   []string
	interval time.Duration
	style    func(string) string

	mu      sync.Mutex
	label   string
	idx     int
	paused  bool
	stopped bool
	drawn   bool

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start draws the first frame and begins redrawing in the background until Stop.
// The goroutine never keeps the process alive; calling Stop is not required on
// error paths that exit.
func Start(w io.Writer, label string, opts ...Option) *Animation {
	a := &Animation{
		w:        w,
		frames:   defaultFrames,
		interval: defaultInterval,
		label:    label,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mu.Lock()
	a.draw()
	a.mu.Unlock()

	go a.run()
	return a
}

func (a *Animation) run() {
	defer close(a.done)
	t := time.NewTicker(a.interval)
	defer t.Stop()
	for {
		select {
		case <-a.stop:
			return
		case <-t.C:
			a.mu.Lock()
			if !a.paused && !a.stopped {
				a.idx++
				a.draw()
			}
			a.mu.Unlock()
		}
	}
}

// draw writes one complete frame. Caller holds mu. Write errors are ignored.
func (a *Animation) draw() {
	glyph := a.frames[a.idx%len(a.frames)]
	if a.style != nil {
		glyph = a.style(glyph)
	}
	_, _ = io.WriteString(a.w, terminal.ClearLine+glyph+" "+a.label)
	a.drawn = true
}

// clear erases the indicator if one is on the line. Caller holds mu.
func (a *Animation) clear() {
	if !a.drawn {
		return
	}
	_, _ = io.WriteString(a.w, terminal.ClearLine)
	a.drawn = false
}

// Pause waits for an in-flight frame to finish, then clears the indicator and
// hands the line to the caller until Resume.
func (a *Animation) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.paused || a.stopped {
		return
	}
	a.paused = true
	a.clear()
}

// Resume takes the line back and redraws immediately. A non-empty label
// replaces the current one.
func (a *Animation) Resume(label string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if label != "" {
		a.label = label
	}
	a.paused = false
	a.draw()
}

// currentLabel returns the text shown next to the indicator.
func (a *Animation) currentLabel() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.label
}

// Stop ends the animation permanently and clears the line. It is idempotent.
func (a *Animation) Stop() {
	a.stopOnce.Do(func() {
		close(a.stop)
		<-a.done
		a.mu.Lock()
		a.stopped = true
		a.clear()
		a.mu.Unlock()
	})
}
