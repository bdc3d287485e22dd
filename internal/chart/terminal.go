// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package chart renders horizontal bar charts of a movie's TF-IDF weights,
// either as styled text bars for the terminal or as PNG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomtom215/genrematch/internal/recommend"
)

// Chart modes.
const (
	ModeOff      = "off"
	ModeTerminal = "terminal"
	ModePNG      = "png"
)

// ErrNoWeights is returned when there is nothing to draw.
var ErrNoWeights = errors.New("no feature weights to chart")

// DefaultBarWidth is the width in cells of the longest terminal bar.
const DefaultBarWidth = 40

// Terminal draws bars with block characters. Colors follow the output's
// capabilities, so plain writers get plain text.
type Terminal struct {
	Width int
}

// NewTerminal creates a terminal renderer.
func NewTerminal() *Terminal {
	return &Terminal{Width: DefaultBarWidth}
}

// Render implements repl.ChartRenderer.
func (t *Terminal) Render(w io.Writer, title string, weights []recommend.TermWeight) error {
	if len(weights) == 0 {
		return ErrNoWeights
	}

	width := t.Width
	if width <= 0 {
		width = DefaultBarWidth
	}

	r := lipgloss.NewRenderer(w)
	titleStyle := r.NewStyle().Bold(true)
	labelStyle := r.NewStyle().Foreground(lipgloss.Color("12"))
	barStyle := r.NewStyle().Foreground(lipgloss.Color("10"))
	valueStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	labelWidth := 0
	peak := 0.0
	for _, tw := range weights {
		labelWidth = max(labelWidth, len([]rune(tw.Term)))
		peak = max(peak, tw.Weight)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("TF-IDF for "+title) + "\n")
	for _, tw := range weights {
		cells := 0
		if peak > 0 {
			cells = int(tw.Weight/peak*float64(width) + 0.5)
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(tw.Term)))
		fmt.Fprintf(&b, "%s%s │ %s %s\n",
			labelStyle.Render(tw.Term), pad,
			barStyle.Render(strings.Repeat("█", cells)),
			valueStyle.Render(fmt.Sprintf("%.3f", tw.Weight)))
	}
	b.WriteString(valueStyle.Render("TF-IDF Value") + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}
