// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package api

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/genrematch/internal/corpus"
	"github.com/tomtom215/genrematch/internal/models"
	"github.com/tomtom215/genrematch/internal/recommend"
)

func newTestRouter(t *testing.T, mwConfig *ChiMiddlewareConfig) http.Handler {
	t.Helper()
	c := corpus.New([]corpus.Movie{
		{ID: 1, Title: "Toy Story (1995)", Genres: "Adventure Animation Children Comedy Fantasy"},
		{ID: 2, Title: "Jumanji (1995)", Genres: "Adventure Children Fantasy"},
		{ID: 6, Title: "Heat (1995)", Genres: "Action Crime Thriller"},
		{ID: 10, Title: "GoldenEye (1995)", Genres: "Action Adventure Thriller"},
	})
	engine, err := recommend.Build(context.Background(), c, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if mwConfig == nil {
		mwConfig = DefaultChiMiddlewareConfig()
		mwConfig.RateLimitRequests = 0
	}
	handler := NewHandler(engine, HandlerConfig{AccuracyDivisor: 0})
	return NewRouter(handler, NewChiMiddleware(mwConfig)).SetupChi()
}

// envelope decodes Data lazily.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func doGet(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v\nbody: %s", target, err, rec.Body.String())
		}
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	t.Parallel()
	rec, env := doGet(t, newTestRouter(t, nil), "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data models.HealthData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Status != "healthy" || data.Engine.Movies != 4 {
		t.Errorf("health = %+v, want healthy with 4 movies", data)
	}
	if env.Metadata.RequestID == "" {
		t.Error("metadata.request_id is empty")
	}
	if rec.Header().Get("X-Request-ID") != env.Metadata.RequestID {
		t.Error("X-Request-ID header does not match metadata.request_id")
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()
	rec, env := doGet(t, newTestRouter(t, nil), "/api/v1/recommendations?title=toy+story+(1995)&n=2")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var data models.RecommendationsData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Query.MovieID != 1 {
		t.Errorf("query movie id = %d, want 1", data.Query.MovieID)
	}
	if data.Count != 2 || len(data.Items) != 2 {
		t.Fatalf("count = %d, items = %d, want 2", data.Count, len(data.Items))
	}
	if data.Items[0].Title != "Jumanji (1995)" || data.Items[1].Title != "GoldenEye (1995)" {
		t.Errorf("items = %+v, want Jumanji then GoldenEye", data.Items)
	}
	want := recommend.Accuracy([]float64{data.Items[0].Score, data.Items[1].Score}, 0)
	if data.Accuracy != want {
		t.Errorf("accuracy = %d, want %d", data.Accuracy, want)
	}
}

func TestRecommendations_Errors(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"missing title", "/api/v1/recommendations", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"non-numeric n", "/api/v1/recommendations?title=Heat+(1995)&n=abc", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"n too large", "/api/v1/recommendations?title=Heat+(1995)&n=500", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown title", "/api/v1/recommendations?title=Nope", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doGet(t, router, tt.target)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if env.Status != "error" || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("envelope = %+v, want error %s", env, tt.wantCode)
			}
		})
	}
}

func TestSearchMovies(t *testing.T) {
	t.Parallel()
	rec, env := doGet(t, newTestRouter(t, nil), "/api/v1/movies/search?q=e")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data models.SearchData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	// No title starts with "e"; every contains match comes back in row order.
	var titles []string
	for _, m := range data.Movies {
		titles = append(titles, m.Title)
	}
	want := []string{"Heat (1995)", "GoldenEye (1995)"}
	if strings.Join(titles, "|") != strings.Join(want, "|") {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestSearchMovies_RequiresQuery(t *testing.T) {
	t.Parallel()
	rec, env := doGet(t, newTestRouter(t, nil), "/api/v1/movies/search")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Details == nil {
		t.Errorf("error = %+v, want field details", env.Error)
	}
}

func TestMovieFeatures(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, nil)

	rec, env := doGet(t, router, "/api/v1/movies/2/features")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var data models.FeaturesData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	var terms []string
	for _, f := range data.Features {
		terms = append(terms, f.Term)
	}
	if got := strings.Join(terms, ","); got != "adventure,children,fantasy" {
		t.Errorf("terms = %s, want adventure,children,fantasy", got)
	}

	if rec, _ := doGet(t, router, "/api/v1/movies/abc/features"); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id status = %d, want 400", rec.Code)
	}
	if rec, _ := doGet(t, router, "/api/v1/movies/999/features"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestMovieChart(t *testing.T) {
	t.Parallel()
	rec, _ := doGet(t, newTestRouter(t, nil), "/api/v1/movies/6/chart.png")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	if _, err := png.Decode(bytes.NewReader(rec.Body.Bytes())); err != nil {
		t.Errorf("body is not a PNG: %v", err)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Minute
	router := newTestRouter(t, cfg)

	if rec, _ := doGet(t, router, "/api/v1/movies/search?q=heat"); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	rec, env := doGet(t, router, "/api/v1/movies/search?q=heat")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "RATE_LIMITED" {
		t.Errorf("error = %+v, want RATE_LIMITED", env.Error)
	}

	// Health sits outside the limited group.
	if rec, _ := doGet(t, router, "/health"); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	rec, env := doGet(t, newTestRouter(t, nil), "/api/v2/nothing")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("status = %d, error = %+v, want 404 NOT_FOUND", rec.Code, env.Error)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t, nil)
	doGet(t, router, "/api/v1/recommendations?title=Heat+(1995)")

	rec, _ := doGet(t, router, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "genrematch_") {
		t.Error("metrics output has no genrematch_ series")
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()
	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue = %q", got)
	}
}

// countingEngine counts Recommend calls on top of a real engine.
type countingEngine struct {
	Engine
	calls int
}

func (c *countingEngine) Recommend(ctx context.Context, title string, topN int) (*recommend.Result, error) {
	c.calls++
	return c.Engine.Recommend(ctx, title, topN)
}

func TestRecommendations_Cache(t *testing.T) {
	t.Parallel()
	c := corpus.New([]corpus.Movie{
		{ID: 1, Title: "A", Genres: "action comedy"},
		{ID: 2, Title: "B", Genres: "action"},
	})
	built, err := recommend.Build(context.Background(), c, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	engine := &countingEngine{Engine: built}
	handler := NewHandler(engine, HandlerConfig{CacheSize: 8, CacheTTL: time.Minute})
	router := NewRouter(handler, NewChiMiddleware(&ChiMiddlewareConfig{})).SetupChi()

	// Title matching is case-insensitive, so both requests share one entry.
	for _, target := range []string{"/api/v1/recommendations?title=A", "/api/v1/recommendations?title=a"} {
		if rec, _ := doGet(t, router, target); rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", target, rec.Code)
		}
	}
	if engine.calls != 1 {
		t.Errorf("engine calls = %d, want 1", engine.calls)
	}

	doGet(t, router, "/api/v1/recommendations?title=A&n=1")
	if engine.calls != 2 {
		t.Errorf("different n should miss the cache, calls = %d", engine.calls)
	}
}

func TestRecommendations_CacheDroppedOnNewEngine(t *testing.T) {
	t.Parallel()
	build := func(builtAt time.Time) Engine {
		t.Helper()
		c := corpus.New([]corpus.Movie{
			{ID: 1, Title: "A", Genres: "action comedy"},
			{ID: 2, Title: "B", Genres: "action"},
		})
		e, err := recommend.Build(context.Background(), c, nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		return fixedBuild{Engine: e, builtAt: builtAt}
	}

	current := build(time.Unix(100, 0))
	handler := NewHandlerWithSource(func() Engine { return current }, HandlerConfig{CacheSize: 8, CacheTTL: time.Minute})
	router := NewRouter(handler, NewChiMiddleware(&ChiMiddlewareConfig{})).SetupChi()

	doGet(t, router, "/api/v1/recommendations?title=A")
	doGet(t, router, "/api/v1/recommendations?title=B")
	if got := healthCache(t, router); got.Entries != 2 {
		t.Fatalf("entries = %d, want 2", got.Entries)
	}

	current = build(time.Unix(200, 0))
	doGet(t, router, "/api/v1/recommendations?title=A")

	got := healthCache(t, router)
	if got.Entries != 1 {
		t.Errorf("entries after engine swap = %d, want 1", got.Entries)
	}
	if got.Hits != 0 || got.Misses != 3 {
		t.Errorf("hits, misses = %d, %d; want 0, 3", got.Hits, got.Misses)
	}
}

func TestHealth_NoCacheWhenDisabled(t *testing.T) {
	t.Parallel()
	rec, env := doGet(t, newTestRouter(t, nil), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var data models.HealthData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Cache != nil {
		t.Errorf("cache = %+v, want omitted", data.Cache)
	}
}

// fixedBuild reports a chosen build time.
type fixedBuild struct {
	Engine
	builtAt time.Time
}

func (f fixedBuild) Stats() recommend.Stats {
	s := f.Engine.Stats()
	s.BuiltAt = f.builtAt
	return s
}

func healthCache(t *testing.T, h http.Handler) models.CacheStats {
	t.Helper()
	rec, env := doGet(t, h, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var data models.HealthData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if data.Cache == nil {
		t.Fatal("health has no cache section")
	}
	return *data.Cache
}
