// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package recommend

import (
	"errors"
	"math"
	"time"
)

// ErrNotFound is returned when a title or movie id is not in the corpus.
var ErrNotFound = errors.New("movie not found")

// Movie is a corpus row as exposed by the engine.
type Movie struct {
	// Row is the position in the corpus and in every matrix.
	Row int `json:"row"`

	// MovieID is the movieId column.
	MovieID int `json:"movie_id"`

	Title  string `json:"title"`
	Genres string `json:"genres"`
}

// Recommendation is one ranked movie.
type Recommendation struct {
	Row     int     `json:"row"`
	MovieID int     `json:"movie_id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

// Result is the answer to one query.
type Result struct {
	// Query is the movie the title resolved to.
	Query Movie `json:"query"`

	// Items are ordered by descending score.
	Items []Recommendation `json:"items"`
}

// Scores returns the item scores in rank order.
func (r *Result) Scores() []float64 {
	out := make([]float64, len(r.Items))
	for i, it := range r.Items {
		out[i] = it.Score
	}
	return out
}

// TermWeight is one non-zero (or, on request, zero) feature of a movie.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Stats describes a built engine.
type Stats struct {
	Movies          int           `json:"movies"`
	Terms           int           `json:"terms"`
	DuplicateTitles int           `json:"duplicate_titles"`
	Backend         string        `json:"backend"`
	BuildDuration   time.Duration `json:"build_duration_ns"`
	BuiltAt         time.Time     `json:"built_at"`
}

// Accuracy is the summary percentage printed after a ranking:
// round(sum(scores)/divisor*100), rounding half to even. divisor <= 0 divides
// by the number of scores instead; no scores give 0.
func Accuracy(scores []float64, divisor int) int {
	if divisor <= 0 {
		divisor = len(scores)
	}
	if divisor == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return int(math.RoundToEven(sum / float64(divisor) * 100))
}
