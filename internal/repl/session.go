// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package repl runs the interactive recommendation prompt.
//
// Each iteration reads one line. The literal "exit" (case-sensitive) ends the
// loop, as does end of input. Anything else is looked up; an unknown title
// prints a message and the loop continues.
package repl

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tomtom215/genrematch/internal/logging"
	"github.com/tomtom215/genrematch/internal/recommend"
)

// Text printed by the session.
const (
	Prompt          = "Enter a movie title (or type 'exit' to quit): "
	ExitCommand     = "exit"
	ExitMessage     = "Exiting the recommendation system."
	NotFoundMessage = "Movie not found. Please try another title."
	EmptyMessage    = "No recommendations found."
	ResultsHeader   = "Recommended movies: (The number is the similarity score to the movie you entered)"
)

// MaxLineBytes bounds one input line. A longer line is discarded and answered
// like an unknown title.
const MaxLineBytes = 1 << 20

var errLineTooLong = errors.New("input line too long")

// Recommender is the part of recommend.Engine the session needs.
type Recommender interface {
	Recommend(ctx context.Context, title string, topN int) (*recommend.Result, error)
	LookupExact(title string) (recommend.Movie, error)
	Features(row int, all bool) []recommend.TermWeight
}

// ChartRenderer draws the feature weights of the query movie.
type ChartRenderer interface {
	Render(w io.Writer, title string, weights []recommend.TermWeight) error
}

// Config tunes a session.
type Config struct {
	// TopN is the number of recommendations per query. 0 uses the engine default.
	TopN int

	// AccuracyDivisor divides the score sum in the accuracy line.
	// 0 divides by the number of results.
	AccuracyDivisor int

	// ChartAllTerms passes zero weights to the chart as well.
	ChartAllTerms bool
}

// DefaultConfig matches the reference output: ten results, divisor ten.
func DefaultConfig() Config {
	return Config{TopN: 10, AccuracyDivisor: 10}
}

// Session is one interactive loop over an input and an output stream.
type Session struct {
	rec   Recommender
	chart ChartRenderer
	cfg   Config
	in    *bufio.Reader
	out   io.Writer
}

// NewSession creates a session. chart may be nil to skip charts.
func NewSession(rec Recommender, chart ChartRenderer, cfg Config, in io.Reader, out io.Writer) *Session {
	return &Session{rec: rec, chart: chart, cfg: cfg, in: bufio.NewReader(in), out: out}
}

// Run prompts until "exit", end of input or ctx is canceled.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, Prompt)
		line, err := s.readLine()
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, ExitMessage)
			return nil
		case errors.Is(err, errLineTooLong):
			logging.Ctx(ctx).Debug().Int("limit", MaxLineBytes).Msg("Input line too long")
			fmt.Fprintln(s.out, NotFoundMessage)
			fmt.Fprint(s.out, "\n\n")
			continue
		case err != nil:
			return fmt.Errorf("read input: %w", err)
		}

		if line == ExitCommand {
			fmt.Fprintln(s.out, ExitMessage)
			return nil
		}

		if err := s.Query(ctx, line); err != nil {
			return err
		}
		fmt.Fprint(s.out, "\n\n")
	}
}

// readLine returns the next line without its terminator. A line longer than
// MaxLineBytes is consumed up to its newline and reported as errLineTooLong.
// io.EOF is returned only when nothing is left to read.
func (s *Session) readLine() (string, error) {
	var (
		line    []byte
		read    int
		tooLong bool
	)
	for {
		chunk, err := s.in.ReadSlice('\n')
		read += len(chunk)
		if !tooLong {
			line = append(line, chunk...)
			if len(bytes.TrimRight(line, "\r\n")) > MaxLineBytes {
				tooLong = true
				line = nil
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if read == 0 {
				return "", io.EOF
			}
		case err != nil:
			return "", err
		}

		if tooLong {
			return "", errLineTooLong
		}
		return strings.TrimSuffix(strings.TrimSuffix(string(line), "\n"), "\r"), nil
	}
}

// Query runs one lookup and prints its block. Unknown titles are reported on
// the output and return nil.
func (s *Session) Query(ctx context.Context, title string) error {
	res, err := s.rec.Recommend(ctx, title, s.cfg.TopN)
	if errors.Is(err, recommend.ErrNotFound) {
		logging.Ctx(ctx).Debug().Str("title", title).Msg("Title not found")
		fmt.Fprintln(s.out, NotFoundMessage)
		return nil
	}
	if err != nil {
		return fmt.Errorf("recommend %q: %w", title, err)
	}

	if len(res.Items) == 0 {
		fmt.Fprintln(s.out, EmptyMessage)
		return nil
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, ResultsHeader)
	for _, it := range res.Items {
		fmt.Fprintf(s.out, "%s: %.3f\n", it.Title, it.Score)
	}
	fmt.Fprintf(s.out, "Similarity Score Accuracy: %d%%\n", recommend.Accuracy(res.Scores(), s.cfg.AccuracyDivisor))

	s.describe(ctx, title, res.Query)
	return nil
}

// describe prints the case-sensitive movieId line and the feature chart.
func (s *Session) describe(ctx context.Context, title string, query recommend.Movie) {
	if m, err := s.rec.LookupExact(title); err == nil {
		fmt.Fprintf(s.out, "The movieId for '%s' is: %d\n", title, m.MovieID)
	} else {
		fmt.Fprintf(s.out, "No movie found with title '%s'\n", title)
	}

	if s.chart == nil {
		return
	}
	weights := s.rec.Features(query.Row, s.cfg.ChartAllTerms)
	if err := s.chart.Render(s.out, query.Title, weights); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("title", query.Title).Msg("Failed to render feature chart")
	}
}
