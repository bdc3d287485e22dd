// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package chart

import (
	"fmt"
	"io"

	"github.com/tomtom215/genrematch/internal/recommend"
)

// Renderer draws one chart of term weights.
type Renderer interface {
	Render(w io.Writer, title string, weights []recommend.TermWeight) error
}

// New returns the renderer for mode. ModeOff returns nil, nil.
func New(mode, dir string) (Renderer, error) {
	switch mode {
	case ModeOff:
		return nil, nil
	case ModeTerminal, "":
		return NewTerminal(), nil
	case ModePNG:
		if dir == "" {
			return nil, fmt.Errorf("chart mode %q needs an output directory", ModePNG)
		}
		return NewPNG(dir), nil
	default:
		return nil, fmt.Errorf("unknown chart mode %q", mode)
	}
}
