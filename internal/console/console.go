// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"fmt"
	"io"
	"sync"

	"april/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

// Console routes application output and the busy indicator to one writer.
// At most one Animation is active; starting a new one stops the previous.
type Console struct {
	out  io.Writer
	anim io.Writer
	tty  bool

	mu     sync.Mutex
	active *Animation
	opts   []Option
}

// New creates a Console writing to out. When out is not a terminal the
// indicator is discarded and only application text is written.
func New(out io.Writer, opts ...Option) *Console {
	c := &Console{out: out, anim: io.Discard, tty: terminal.IsTerminal(out)}
	if c.tty {
		c.anim = out
		opts = append([]Option{WithStyle(func(s string) string { return pterm.FgCyan.Sprint(s) })}, opts...)
	}
	c.opts = opts
	return c
}

// Busy stops the current animation, if any, and starts a new one with label.
func (c *Console) Busy(label string) *Animation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Stop()
	}
	if c.tty {
		cursor.Hide()
	}
	c.active = Start(c.anim, label, c.opts...)
	return c.active
}

// Done stops the current animation and restores the cursor.
func (c *Console) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return
	}
	c.active.Stop()
	c.active = nil
	if c.tty {
		cursor.Show()
	}
}

// Println prints text on its own line, pausing the indicator around it.
func (c *Console) Println(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		c.active.Pause()
		defer c.active.Resume("")
	}
	fmt.Fprintln(c.out, text)
}

// Printf is Println with formatting.
func (c *Console) Printf(format string, args ...any) {
	c.Println(fmt.Sprintf(format, args...))
}

// Out returns the writer application text goes to.
func (c *Console) Out() io.Writer { return c.out }
