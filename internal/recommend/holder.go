// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package recommend

import "sync/atomic"

// Holder publishes the current engine to concurrent readers. A reload builds
// a new engine off to the side and swaps it in with Store; requests already
// holding the old engine finish against it.
type Holder struct {
	current atomic.Pointer[Engine]
}

// NewHolder returns a holder serving e.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	h.current.Store(e)
	return h
}

// Load returns the engine currently being served.
func (h *Holder) Load() *Engine {
	return h.current.Load()
}

// Store replaces the served engine. A nil engine is ignored.
func (h *Holder) Store(e *Engine) {
	if e != nil {
		h.current.Store(e)
	}
}
