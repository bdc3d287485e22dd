// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package index maps movie titles and ids to corpus rows.
//
// Title matching is exact after Unicode lowercasing: no trimming, no fuzzy or
// partial matching. When a title (or id) occurs more than once, the first row
// wins and later rows are only reachable by row number.
package index

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases a title the way lookups compare it.
func Normalize(title string) string {
	return cases.Lower(language.Und).String(title)
}

// Titles is an immutable title and id index over a corpus.
type Titles struct {
	titles     []string
	normalized []string
	byTitle    map[string]int
	exact      map[string]int
	byID       map[int]int
	duplicates int
}

// New indexes titles and ids given in row order. ids may be nil.
func New(titles []string, ids []int) *Titles {
	t := &Titles{
		titles:     append([]string(nil), titles...),
		normalized: make([]string, len(titles)),
		byTitle:    make(map[string]int, len(titles)),
		exact:      make(map[string]int, len(titles)),
		byID:       make(map[int]int, len(ids)),
	}

	for row, title := range titles {
		norm := Normalize(title)
		t.normalized[row] = norm
		if _, seen := t.byTitle[norm]; seen {
			t.duplicates++
		} else {
			t.byTitle[norm] = row
		}
		if _, seen := t.exact[title]; !seen {
			t.exact[title] = row
		}
	}
	for row, id := range ids {
		if _, seen := t.byID[id]; !seen {
			t.byID[id] = row
		}
	}
	return t
}

// Len returns the number of indexed rows.
func (t *Titles) Len() int { return len(t.titles) }

// Duplicates returns how many rows were shadowed by an earlier equal title.
func (t *Titles) Duplicates() int { return t.duplicates }

// Lookup resolves a title case-insensitively.
func (t *Titles) Lookup(title string) (int, bool) {
	row, ok := t.byTitle[Normalize(title)]
	return row, ok
}

// LookupExact resolves a title with case-sensitive comparison.
func (t *Titles) LookupExact(title string) (int, bool) {
	row, ok := t.exact[title]
	return row, ok
}

// ByMovieID resolves a movie id.
func (t *Titles) ByMovieID(id int) (int, bool) {
	row, ok := t.byID[id]
	return row, ok
}

// Search returns up to limit rows whose normalized title contains query.
// Prefix matches come first; each group keeps row order. An empty query
// matches nothing. limit <= 0 means no limit.
func (t *Titles) Search(query string, limit int) []int {
	q := Normalize(query)
	if q == "" {
		return nil
	}

	var prefix, contains []int
	for row, norm := range t.normalized {
		switch {
		case strings.HasPrefix(norm, q):
			prefix = append(prefix, row)
		case strings.Contains(norm, q):
			contains = append(contains, row)
		}
	}

	out := append(prefix, contains...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
