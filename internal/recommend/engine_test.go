// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/genrematch/internal/corpus"
	"github.com/tomtom215/genrematch/internal/recommend/vectorize"
)

var sampleMovies = []corpus.Movie{
	{ID: 1, Title: "Toy Story (1995)", Genres: "Adventure Animation Children Comedy Fantasy"},
	{ID: 2, Title: "Jumanji (1995)", Genres: "Adventure Children Fantasy"},
	{ID: 3, Title: "Grumpier Old Men (1995)", Genres: "Comedy Romance"},
	{ID: 4, Title: "Waiting to Exhale (1995)", Genres: "Comedy Drama Romance"},
	{ID: 5, Title: "Father of the Bride Part II (1995)", Genres: "Comedy"},
	{ID: 6, Title: "Heat (1995)", Genres: "Action Crime Thriller"},
	{ID: 7, Title: "Sabrina (1995)", Genres: "Comedy Romance"},
	{ID: 8, Title: "Tom and Huck (1995)", Genres: "Adventure Children"},
	{ID: 9, Title: "Sudden Death (1995)", Genres: "Action"},
	{ID: 10, Title: "GoldenEye (1995)", Genres: "Action Adventure Thriller"},
}

func buildEngine(t *testing.T, movies []corpus.Movie, modify func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if modify != nil {
		modify(cfg)
	}
	e, err := Build(context.Background(), corpus.New(movies), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return e
}

func TestBuild_MatricesAligned(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)

	stats := e.Stats()
	if stats.Movies != len(sampleMovies) {
		t.Errorf("Stats().Movies = %d, want %d", stats.Movies, len(sampleMovies))
	}
	if e.sim.Size() != len(sampleMovies) {
		t.Errorf("similarity size = %d, want %d", e.sim.Size(), len(sampleMovies))
	}
	if stats.Terms != e.vocab.Len() {
		t.Errorf("Stats().Terms = %d, vocabulary has %d", stats.Terms, e.vocab.Len())
	}

	// Row 5 is Heat; its features must be its own genres.
	var terms []string
	for _, tw := range e.Features(5, false) {
		terms = append(terms, tw.Term)
	}
	if want := []string{"action", "crime", "thriller"}; !reflect.DeepEqual(terms, want) {
		t.Errorf("Features(5) terms = %v, want %v", terms, want)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		movies  []corpus.Movie
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "only stop words",
			movies:  []corpus.Movie{{ID: 1, Title: "A", Genres: "the and"}},
			wantErr: vectorize.ErrEmptyVocabulary,
		},
		{
			name:   "invalid config",
			movies: sampleMovies,
			modify: func(c *Config) { c.Backend = "gpu" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.modify != nil {
				tt.modify(cfg)
			}
			_, err := Build(context.Background(), corpus.New(tt.movies), cfg, zerolog.Nop())
			if err == nil {
				t.Fatal("Build() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuild_NilCorpus(t *testing.T) {
	if _, err := Build(context.Background(), nil, nil, zerolog.Nop()); err == nil {
		t.Error("Build(nil corpus) expected error")
	}
}

func TestSimilarity_DiagonalAndSymmetry(t *testing.T) {
	for _, backend := range []string{"dense", "sparse"} {
		t.Run(backend, func(t *testing.T) {
			e := buildEngine(t, sampleMovies, func(c *Config) { c.Backend = backend })
			sim := e.sim
			for i := 0; i < sim.Size(); i++ {
				if math.Abs(sim.At(i, i)-1) > 1e-9 {
					t.Errorf("sim[%d][%d] = %v, want 1", i, i, sim.At(i, i))
				}
				for j := 0; j < sim.Size(); j++ {
					if sim.At(i, j) != sim.At(j, i) {
						t.Errorf("sim not symmetric at (%d,%d)", i, j)
					}
				}
			}
		})
	}
}

func TestRecommend_ABCExample(t *testing.T) {
	e := buildEngine(t, []corpus.Movie{
		{ID: 1, Title: "A", Genres: "action comedy"},
		{ID: 2, Title: "B", Genres: "action comedy"},
		{ID: 3, Title: "C", Genres: "drama romance"},
	}, nil)

	res, err := e.Recommend(context.Background(), "A", 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}
	if res.Items[0].Title != "B" || res.Items[1].Title != "C" {
		t.Errorf("order = [%s %s], want [B C]", res.Items[0].Title, res.Items[1].Title)
	}
	if math.Abs(res.Items[0].Score-1) > 1e-9 {
		t.Errorf("score(B) = %v, want 1", res.Items[0].Score)
	}
	if res.Items[1].Score != 0 {
		t.Errorf("score(C) = %v, want 0", res.Items[1].Score)
	}
	for _, it := range res.Items {
		if it.Title == "A" {
			t.Error("query movie must not be recommended")
		}
	}
	if res.Query.Title != "A" || res.Query.MovieID != 1 {
		t.Errorf("Query = %+v", res.Query)
	}
}

func TestRecommend_AtMostNWithoutSelf(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)

	for _, n := range []int{1, 3, 9, 20} {
		res, err := e.Recommend(context.Background(), "Toy Story (1995)", n)
		if err != nil {
			t.Fatalf("Recommend(n=%d) error = %v", n, err)
		}
		want := n
		if want > len(sampleMovies)-1 {
			want = len(sampleMovies) - 1
		}
		if len(res.Items) != want {
			t.Errorf("n=%d: got %d items, want %d", n, len(res.Items), want)
		}
		for _, it := range res.Items {
			if it.Row == 0 {
				t.Errorf("n=%d: query row returned", n)
			}
		}
		for i := 1; i < len(res.Items); i++ {
			if res.Items[i].Score > res.Items[i-1].Score {
				t.Errorf("n=%d: scores not descending at %d", n, i)
			}
		}
	}
}

func TestRecommend_DefaultTopN(t *testing.T) {
	e := buildEngine(t, sampleMovies, func(c *Config) { c.DefaultTopN = 4 })

	res, err := e.Recommend(context.Background(), "Heat (1995)", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 4 {
		t.Errorf("got %d items, want 4", len(res.Items))
	}
}

func TestRecommend_CaseInsensitive(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)
	ctx := context.Background()

	a, err := e.Recommend(ctx, "Toy Story (1995)", 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Recommend(ctx, "toy story (1995)", 5)
	if err != nil {
		t.Fatal(err)
	}
	c, err := e.Recommend(ctx, "TOY STORY (1995)", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(a, c) {
		t.Error("results differ by title case")
	}
}

func TestRecommend_Idempotent(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)
	ctx := context.Background()

	first, err := e.Recommend(ctx, "Sabrina (1995)", 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Recommend(ctx, "Sabrina (1995)", 10)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestRecommend_TiesKeepRowOrder(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)

	// Grumpier Old Men and Sabrina share "Comedy Romance"; from Waiting to
	// Exhale both score equally and must appear in row order.
	res, err := e.Recommend(context.Background(), "Waiting to Exhale (1995)", 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Items[0].Title != "Grumpier Old Men (1995)" || res.Items[1].Title != "Sabrina (1995)" {
		t.Errorf("got [%s, %s]", res.Items[0].Title, res.Items[1].Title)
	}
	if res.Items[0].Score != res.Items[1].Score {
		t.Errorf("expected tied scores, got %v and %v", res.Items[0].Score, res.Items[1].Score)
	}
}

func TestRecommend_NotFound(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)

	for _, title := range []string{"Nonexistent Movie", "", "Toy Story", " Toy Story (1995)"} {
		res, err := e.Recommend(context.Background(), title, 5)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Recommend(%q) error = %v, want ErrNotFound", title, err)
		}
		if res != nil {
			t.Errorf("Recommend(%q) returned a result", title)
		}
	}
}

func TestRecommend_Canceled(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Recommend(ctx, "Heat (1995)", 5); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRecommend_SelfExclusionModes(t *testing.T) {
	// X and Y have identical genres, so from Y both score 1.0 and X ranks
	// first by row order.
	movies := []corpus.Movie{
		{ID: 1, Title: "X", Genres: "horror"},
		{ID: 2, Title: "Y", Genres: "horror"},
		{ID: 3, Title: "Z", Genres: "horror comedy"},
	}

	t.Run("index keeps the duplicate", func(t *testing.T) {
		e := buildEngine(t, movies, nil)
		res, err := e.Recommend(context.Background(), "Y", 2)
		if err != nil {
			t.Fatal(err)
		}
		if got := titles(res); !reflect.DeepEqual(got, []string{"X", "Z"}) {
			t.Errorf("got %v, want [X Z]", got)
		}
	})

	t.Run("position drops the first ranked", func(t *testing.T) {
		e := buildEngine(t, movies, func(c *Config) { c.SelfExclusion = ExcludeByPosition })
		res, err := e.Recommend(context.Background(), "Y", 2)
		if err != nil {
			t.Fatal(err)
		}
		// X is dropped instead of Y; Y recommends itself.
		if got := titles(res); !reflect.DeepEqual(got, []string{"Y", "Z"}) {
			t.Errorf("got %v, want [Y Z]", got)
		}
	})
}

func TestRecommend_DuplicateTitleFirstWins(t *testing.T) {
	e := buildEngine(t, []corpus.Movie{
		{ID: 1, Title: "Hamlet (1996)", Genres: "Crime Drama Romance"},
		{ID: 2, Title: "Other", Genres: "Drama"},
		{ID: 3, Title: "hamlet (1996)", Genres: "Comedy"},
	}, nil)

	res, err := e.Recommend(context.Background(), "HAMLET (1996)", 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Query.Row != 0 {
		t.Errorf("query resolved to row %d, want 0", res.Query.Row)
	}
	if e.Stats().DuplicateTitles != 1 {
		t.Errorf("DuplicateTitles = %d, want 1", e.Stats().DuplicateTitles)
	}
}

func TestRecommend_SingleMovieCorpus(t *testing.T) {
	e := buildEngine(t, []corpus.Movie{{ID: 1, Title: "Only", Genres: "Documentary"}}, nil)

	res, err := e.Recommend(context.Background(), "only", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 0 {
		t.Errorf("got %d items, want 0", len(res.Items))
	}
}

func TestEngine_Lookups(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)

	if m, err := e.Lookup("heat (1995)"); err != nil || m.MovieID != 6 {
		t.Errorf("Lookup() = %+v, %v", m, err)
	}
	if _, err := e.LookupExact("heat (1995)"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LookupExact(lower) error = %v, want ErrNotFound", err)
	}
	if m, err := e.ByMovieID(10); err != nil || m.Title != "GoldenEye (1995)" {
		t.Errorf("ByMovieID(10) = %+v, %v", m, err)
	}
	if _, err := e.ByMovieID(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("ByMovieID(99) error = %v", err)
	}

	found := e.Search("to", 0)
	if len(found) == 0 || !strings.HasPrefix(strings.ToLower(found[0].Title), "to") {
		t.Errorf("Search(to) = %+v", found)
	}
}

func TestEngine_FeaturesAllTerms(t *testing.T) {
	e := buildEngine(t, sampleMovies, nil)

	all := e.Features(4, true)
	if len(all) != e.vocab.Len() {
		t.Fatalf("Features(all) len = %d, want %d", len(all), e.vocab.Len())
	}
	var nonZero int
	for _, tw := range all {
		if tw.Weight != 0 {
			nonZero++
			if tw.Term != "comedy" || math.Abs(tw.Weight-1) > 1e-9 {
				t.Errorf("unexpected weight %+v", tw)
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("non-zero weights = %d, want 1", nonZero)
	}
}

func titles(res *Result) []string {
	out := make([]string, len(res.Items))
	for i, it := range res.Items {
		out[i] = it.Title
	}
	return out
}
