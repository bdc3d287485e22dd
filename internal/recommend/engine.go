// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/genrematch/internal/corpus"
	"github.com/tomtom215/genrematch/internal/metrics"
	"github.com/tomtom215/genrematch/internal/recommend/index"
	"github.com/tomtom215/genrematch/internal/recommend/similarity"
	"github.com/tomtom215/genrematch/internal/recommend/vectorize"
)

// Engine holds a fully built pipeline for one corpus: the feature matrix,
// the similarity matrix and the title index. Row i of every structure is
// corpus row i. The engine is never mutated after Build and is safe for
// concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	corpus   *corpus.Corpus
	vocab    *vectorize.Vocabulary
	features *vectorize.Matrix
	sim      *similarity.Matrix
	titles   *index.Titles

	stats Stats
}

// Build vectorizes the corpus, computes the similarity matrix and indexes
// the titles. It fails if the configuration is invalid or no genre text
// yields a usable term.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Build(ctx context.Context, c *corpus.Corpus, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if c == nil {
		return nil, errors.New("corpus is nil")
	}

	logger = logger.With().Str("component", "recommend").Logger()
	start := time.Now()

	backend, err := similarity.New(cfg.Backend, cfg.Workers)
	if err != nil {
		return nil, err
	}

	vec, err := vectorize.New(vectorize.Config{MaxFeatures: cfg.MaxFeatures})
	if err != nil {
		return nil, err
	}

	stageStart := time.Now()
	vocab, features, err := vec.FitTransform(c.Genres())
	metrics.RecordBuildStage(metrics.StageVectorize, backend.Name(), time.Since(stageStart), err)
	if err != nil {
		return nil, fmt.Errorf("vectorize genres: %w", err)
	}
	logger.Debug().
		Int("terms", vocab.Len()).
		Dur("duration", time.Since(stageStart)).
		Msg("vocabulary fitted")

	stageStart = time.Now()
	sim, err := backend.Pairwise(ctx, features)
	metrics.RecordBuildStage(metrics.StageSimilarity, backend.Name(), time.Since(stageStart), err)
	if err != nil {
		return nil, fmt.Errorf("compute similarity: %w", err)
	}
	logger.Debug().
		Str("backend", backend.Name()).
		Dur("duration", time.Since(stageStart)).
		Msg("similarity matrix computed")

	stageStart = time.Now()
	movies := c.Movies()
	ids := make([]int, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	titles := index.New(c.Titles(), ids)
	metrics.RecordBuildStage(metrics.StageIndex, backend.Name(), time.Since(stageStart), nil)

	e := &Engine{
		config:   cfg,
		logger:   logger,
		corpus:   c,
		vocab:    vocab,
		features: features,
		sim:      sim,
		titles:   titles,
		stats: Stats{
			Movies:          c.Len(),
			Terms:           vocab.Len(),
			DuplicateTitles: titles.Duplicates(),
			Backend:         backend.Name(),
			BuildDuration:   time.Since(start),
			BuiltAt:         time.Now(),
		},
	}
	metrics.SetCorpusStats(e.stats.Movies, e.stats.Terms)

	logger.Info().
		Int("movies", e.stats.Movies).
		Int("terms", e.stats.Terms).
		Int("duplicate_titles", e.stats.DuplicateTitles).
		Str("backend", e.stats.Backend).
		Dur("duration", e.stats.BuildDuration).
		Msg("recommendation engine built")

	return e, nil
}

// Stats returns a summary of the built engine.
func (e *Engine) Stats() Stats { return e.stats }

// Movie returns corpus row i.
func (e *Engine) Movie(row int) Movie {
	m := e.corpus.Movie(row)
	return Movie{Row: row, MovieID: m.ID, Title: m.Title, Genres: m.Genres}
}

// Lookup resolves a title case-insensitively.
func (e *Engine) Lookup(title string) (Movie, error) {
	row, ok := e.titles.Lookup(title)
	if !ok {
		return Movie{}, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return e.Movie(row), nil
}

// LookupExact resolves a title with case-sensitive comparison.
func (e *Engine) LookupExact(title string) (Movie, error) {
	row, ok := e.titles.LookupExact(title)
	if !ok {
		return Movie{}, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return e.Movie(row), nil
}

// ByMovieID resolves a movie id.
func (e *Engine) ByMovieID(id int) (Movie, error) {
	row, ok := e.titles.ByMovieID(id)
	if !ok {
		return Movie{}, fmt.Errorf("%w: movie id %d", ErrNotFound, id)
	}
	return e.Movie(row), nil
}

// Search returns up to limit movies whose title contains query.
func (e *Engine) Search(query string, limit int) []Movie {
	rows := e.titles.Search(query, limit)
	out := make([]Movie, len(rows))
	for i, row := range rows {
		out[i] = e.Movie(row)
	}
	return out
}

// Features returns the TF-IDF weights of row in vocabulary order. Only
// non-zero weights are returned unless all is set.
func (e *Engine) Features(row int, all bool) []TermWeight {
	if all {
		dense := e.features.Dense(row)
		out := make([]TermWeight, len(dense))
		for col, w := range dense {
			out[col] = TermWeight{Term: e.vocab.Term(col), Weight: w}
		}
		return out
	}

	r := e.features.Row(row)
	out := make([]TermWeight, len(r.Indices))
	for k, col := range r.Indices {
		out[k] = TermWeight{Term: e.vocab.Term(col), Weight: r.Values[k]}
	}
	return out
}

// Recommend ranks every other movie against title and returns the first
// topN. topN <= 0 uses the configured default; asking for more than the
// corpus holds returns fewer results. An unknown title returns ErrNotFound.
func (e *Engine) Recommend(ctx context.Context, title string, topN int) (*Result, error) {
	start := time.Now()
	res, err := e.recommend(ctx, title, topN)

	n := 0
	if res != nil {
		n = len(res.Items)
	}
	metrics.RecordRecommendation(metrics.Outcome(n, err, isNotFound), n, time.Since(start))
	return res, err
}

func (e *Engine) recommend(ctx context.Context, title string, topN int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = e.config.DefaultTopN
	}

	query, err := e.Lookup(title)
	if err != nil {
		e.logger.Debug().Str("title", title).Msg("title not found")
		return nil, err
	}
	row := query.Row

	ranked := e.rank(row)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	items := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		m := e.corpus.Movie(r)
		items[i] = Recommendation{Row: r, MovieID: m.ID, Title: m.Title, Score: e.sim.At(row, r)}
	}

	return &Result{Query: query, Items: items}, nil
}

// rank orders all rows by descending similarity to row, ties in row order,
// and removes the query according to the self-exclusion mode.
func (e *Engine) rank(row int) []int {
	n := e.sim.Size()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return e.sim.At(row, order[a]) > e.sim.At(row, order[b])
	})

	if e.config.SelfExclusion == ExcludeByPosition {
		return order[1:]
	}

	out := order[:0]
	for _, r := range order {
		if r != row {
			out = append(out, r)
		}
	}
	return out
}

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
