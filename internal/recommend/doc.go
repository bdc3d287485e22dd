// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package recommend implements the content-based movie recommender.
//
// # Pipeline
//
// Build runs the whole pipeline once per corpus:
//
//  1. vectorize: genre text to L2-normalized TF-IDF rows (subpackage vectorize)
//  2. similarity: all-pairs linear kernel over those rows (subpackage similarity)
//  3. index: lowercase title and movieId to row (subpackage index)
//
// The resulting Engine answers queries from the precomputed matrix only;
// nothing is recomputed per query and nothing is mutated after Build.
//
// # Ranking
//
// Recommend resolves the title case-insensitively, sorts every row by its
// score against the query (stable, so ties keep corpus order), removes the
// query and returns the first N. Unknown titles return ErrNotFound, which
// callers test with errors.Is.
//
// Two self-exclusion modes exist. ExcludeByIndex (the default) removes the
// query row itself. ExcludeByPosition removes the first ranked entry, which
// is what the legacy pipeline did; on corpora where another movie shares the
// query's genre text that movie can rank first and get dropped instead.
//
// # Usage
//
//	c, err := corpus.Load("combined_df.csv")
//	engine, err := recommend.Build(ctx, c, recommend.DefaultConfig(), logger)
//	res, err := engine.Recommend(ctx, "Toy Story (1995)", 10)
//	if errors.Is(err, recommend.ErrNotFound) {
//	    // report and continue
//	}
//
// # Thread Safety
//
// An Engine is read-only and safe for concurrent use by any number of
// goroutines.
package recommend
