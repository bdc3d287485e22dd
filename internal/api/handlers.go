// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/genrematch/internal/cache"
	"github.com/tomtom215/genrematch/internal/chart"
	"github.com/tomtom215/genrematch/internal/logging"
	"github.com/tomtom215/genrematch/internal/metrics"
	"github.com/tomtom215/genrematch/internal/models"
	"github.com/tomtom215/genrematch/internal/recommend"
	"github.com/tomtom215/genrematch/internal/recommend/index"
)

// Engine is the part of *recommend.Engine the handlers use.
type Engine interface {
	Recommend(ctx context.Context, title string, topN int) (*recommend.Result, error)
	Search(query string, limit int) []recommend.Movie
	ByMovieID(id int) (recommend.Movie, error)
	Features(row int, all bool) []recommend.TermWeight
	Stats() recommend.Stats
}

// HandlerConfig tunes response shaping.
type HandlerConfig struct {
	// AccuracyDivisor is passed to recommend.Accuracy.
	AccuracyDivisor int

	// AllTerms includes zero-weight terms in feature responses and charts.
	AllTerms bool

	// CacheSize bounds the recommendation response cache. 0 disables it.
	CacheSize int

	// CacheTTL is how long a cached response is served.
	CacheTTL time.Duration
}

// EngineSource returns the engine to serve a request with. It is called once
// per request so a reload takes effect without restarting the server.
type EngineSource func() Engine

// Handler serves the recommendation endpoints.
type Handler struct {
	source    EngineSource
	config    HandlerConfig
	cache     *cache.LRU[string, models.RecommendationsData]
	startTime time.Time

	// cacheBuild is the BuiltAt (unix nanos) of the engine the cache holds.
	cacheBuild atomic.Int64
}

// NewHandler creates a handler over a fixed engine.
func NewHandler(engine Engine, cfg HandlerConfig) *Handler {
	return NewHandlerWithSource(func() Engine { return engine }, cfg)
}

// NewHandlerWithSource creates a handler that asks source for the engine on
// every request.
//
//	holder := recommend.NewHolder(engine)
//	h := api.NewHandlerWithSource(func() api.Engine { return holder.Load() }, cfg)
func NewHandlerWithSource(source EngineSource, cfg HandlerConfig) *Handler {
	h := &Handler{
		source:    source,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.CacheSize > 0 {
		h.cache = cache.NewLRU[string, models.RecommendationsData](cfg.CacheSize, cfg.CacheTTL)
	}
	return h
}

// RecommendQuery are the query parameters of GET /api/v1/recommendations.
type RecommendQuery struct {
	Title string `query:"title" validate:"required,max=500"`
	N     int    `query:"n" validate:"min=0,max=100"`
}

// SearchQuery are the query parameters of GET /api/v1/movies/search.
type SearchQuery struct {
	Q     string `query:"q" validate:"required,max=500"`
	Limit int    `query:"limit" validate:"min=0,max=100"`
}

const defaultSearchLimit = 20

// Health reports engine statistics and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	data := models.HealthData{
		Status: "healthy",
		Engine: h.source().Stats(),
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.cache != nil {
		hits, misses, size := h.cache.Stats()
		data.Cache = &models.CacheStats{Hits: hits, Misses: misses, Entries: size}
	}
	respondSuccess(w, r, data, start)
}

// Recommendations ranks the movies most similar to ?title=.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	n, err := intParam(r, "n", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	q := RecommendQuery{Title: r.URL.Query().Get("title"), N: n}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	engine := h.source()
	key := cacheKey(engine, q)
	if h.cache != nil {
		h.dropStaleCache(engine)
		if data, ok := h.cache.Get(key); ok {
			metrics.RecordCacheLookup(true)
			respondSuccess(w, r, data, start)
			return
		}
		metrics.RecordCacheLookup(false)
	}

	res, err := engine.Recommend(r.Context(), q.Title, q.N)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("title", sanitizeLogValue(q.Title)).
		Int("results", len(res.Items)).
		Msg("Recommendations served")

	data := models.RecommendationsData{
		Query:    res.Query,
		Items:    res.Items,
		Count:    len(res.Items),
		Accuracy: recommend.Accuracy(res.Scores(), h.config.AccuracyDivisor),
	}
	if h.cache != nil {
		h.cache.Add(key, data)
	}
	respondSuccess(w, r, data, start)
}

// cacheKey scopes a cached response to the engine build it came from, so a
// reloaded corpus never serves stale rankings.
func cacheKey(engine Engine, q RecommendQuery) string {
	return strconv.FormatInt(engine.Stats().BuiltAt.UnixNano(), 10) + "|" +
		strconv.Itoa(q.N) + "|" + index.Normalize(q.Title)
}

// dropStaleCache empties the cache the first time a request sees a new
// engine build, so entries of a replaced corpus do not hold capacity.
func (h *Handler) dropStaleCache(engine Engine) {
	built := engine.Stats().BuiltAt.UnixNano()
	if prev := h.cacheBuild.Swap(built); prev != 0 && prev != built {
		h.cache.Clear()
	}
}

// SearchMovies lists titles matching ?q=, prefix matches first.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := intParam(r, "limit", defaultSearchLimit)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	q := SearchQuery{Q: r.URL.Query().Get("q"), Limit: limit}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	movies := h.source().Search(q.Q, q.Limit)
	if movies == nil {
		movies = []recommend.Movie{}
	}
	respondSuccess(w, r, models.SearchData{
		Query:  q.Q,
		Movies: movies,
		Count:  len(movies),
	}, start)
}

// MovieFeatures returns the TF-IDF weights of one movie.
func (h *Handler) MovieFeatures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	engine := h.source()
	movie, ok := h.movieFromPath(w, r, engine)
	if !ok {
		return
	}
	features := engine.Features(movie.Row, h.config.AllTerms)
	if features == nil {
		features = []recommend.TermWeight{}
	}
	respondSuccess(w, r, models.FeaturesData{Movie: movie, Features: features}, start)
}

// MovieChart renders the feature weights of one movie as a PNG bar chart.
func (h *Handler) MovieChart(w http.ResponseWriter, r *http.Request) {
	engine := h.source()
	movie, ok := h.movieFromPath(w, r, engine)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := chart.WritePNG(&buf, movie.Title, engine.Features(movie.Row, h.config.AllTerms))
	if errors.Is(err, chart.ErrNoWeights) {
		respondError(w, r, http.StatusNotFound, "NO_FEATURES", "Movie has no features to chart", err)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "CHART_ERROR", "Failed to render chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write chart")
	}
}

// movieFromPath resolves {movieID}, writing the error response itself on failure.
// Row numbers are only meaningful within one engine, so the caller keeps using engine.
func (h *Handler) movieFromPath(w http.ResponseWriter, r *http.Request, engine Engine) (recommend.Movie, bool) {
	raw := chi.URLParam(r, "movieID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "movieID must be an integer", nil)
		return recommend.Movie{}, false
	}
	movie, err := engine.ByMovieID(id)
	if err != nil {
		h.respondEngineError(w, r, err)
		return recommend.Movie{}, false
	}
	return movie, true
}

func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Movie not found", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, "CANCELED", "Request canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute recommendations", err)
	}
}

func respondValidation(w http.ResponseWriter, r *http.Request, apiErr *models.APIError) {
	respondJSON(w, r, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}
