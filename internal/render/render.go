// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render turns backend markdown into terminal text.
package render

import (
	"strings"
	"sync"

	"april/cli/internal/review"

	"github.com/charmbracelet/glamour"
)

// Renderer is shared by every display path of a command. It is safe for
// concurrent use.
type Renderer struct {
	mu sync.Mutex
	tr *glamour.TermRenderer
}

// New builds a renderer wrapping at width. Colors are used only for a terminal.
func New(tty bool, width int) (*Renderer, error) {
	style := glamour.WithStandardStyle("notty")
	if tty {
		style = glamour.WithStandardStyle("dark")
	}
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr}, nil
}

// Markdown renders md. When rendering fails the input is returned unchanged.
func (r *Renderer) Markdown(md string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, err := r.tr.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// Risk renders one structured finding as three labelled sections.
func (r *Renderer) Risk(risk review.Risk) string {
	var b strings.Builder
	b.WriteString(r.Markdown("**Code**"))
	b.WriteString("\n")
	b.WriteString(r.Markdown("```\n" + risk.Code + "\n```"))
	b.WriteString("\n")
	b.WriteString(r.Markdown("**Reason**"))
	b.WriteString("\n")
	b.WriteString(r.Markdown(risk.Reason))
	b.WriteString("\n")
	b.WriteString(r.Markdown("**Fix**"))
	b.WriteString("\n")
	b.WriteString(r.Markdown(risk.Fix))
	b.WriteString("\n")
	return b.String()
}

// Record renders a reconciled lint record.
func (r *Renderer) Record(rec review.Record) string {
	if rec.Kind == review.KindRisk {
		return r.Risk(rec.Risk)
	}
	return r.Markdown(rec.Text)
}
