// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package vectorize turns genre documents into TF-IDF feature vectors.
//
// Fitting follows the usual bag-of-words recipe:
//
//   - lowercase, split on anything that is not a word character, keep tokens
//     of two or more characters
//   - drop English stop words
//   - keep the MaxFeatures terms with the highest corpus-wide count (ties go
//     to the alphabetically smaller term), columns in alphabetical order
//   - weight each cell by raw count times smoothed IDF, ln((1+n)/(1+df)) + 1
//   - scale every row to unit L2 length
//
// The vocabulary is fixed once fitted. Adding documents means fitting again
// on the whole corpus.
package vectorize

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxFeatures caps the vocabulary when Config.MaxFeatures is zero.
const DefaultMaxFeatures = 1000

// ErrEmptyVocabulary is returned when no document contains a usable term.
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or no tokens")

// Config controls vocabulary construction.
type Config struct {
	// MaxFeatures caps the vocabulary size. 0 means DefaultMaxFeatures.
	MaxFeatures int

	// StopWords replaces the built-in English list when non-nil.
	// An empty non-nil set disables stop-word removal.
	StopWords map[string]struct{}
}

// TFIDF fits a vocabulary and produces weighted rows.
type TFIDF struct {
	maxFeatures int
	stopWords   map[string]struct{}
}

// New creates a vectorizer from cfg.
func New(cfg Config) (*TFIDF, error) {
	if cfg.MaxFeatures < 0 {
		return nil, fmt.Errorf("max features must not be negative, got %d", cfg.MaxFeatures)
	}
	if cfg.MaxFeatures == 0 {
		cfg.MaxFeatures = DefaultMaxFeatures
	}
	if cfg.StopWords == nil {
		cfg.StopWords = EnglishStopWords()
	}
	return &TFIDF{maxFeatures: cfg.MaxFeatures, stopWords: cfg.StopWords}, nil
}

// Vocabulary is the ordered term list of a fitted vectorizer.
type Vocabulary struct {
	terms []string
	index map[string]int
	idf   []float64
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Term returns the term of column i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Column returns the column of term, if it is in the vocabulary.
func (v *Vocabulary) Column(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// IDF returns the inverse document frequency of column i.
func (v *Vocabulary) IDF(i int) float64 { return v.idf[i] }

// Row is one sparse feature vector. Indices are strictly increasing.
type Row struct {
	Indices []int
	Values  []float64
}

// Matrix holds one row per input document, in input order.
type Matrix struct {
	rows []Row
	cols int
}

// Rows returns the number of documents.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the vocabulary size.
func (m *Matrix) Cols() int { return m.cols }

// Row returns the sparse row i. The returned slices must not be modified.
func (m *Matrix) Row(i int) Row { return m.rows[i] }

// Dense expands row i to a full-width vector.
func (m *Matrix) Dense(i int) []float64 {
	out := make([]float64, m.cols)
	r := m.rows[i]
	for k, col := range r.Indices {
		out[col] = r.Values[k]
	}
	return out
}

// Tokenize lowercases doc and splits it into tokens of at least two word
// characters. Stop words are not removed.
func Tokenize(doc string) []string {
	fields := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !isWordRune(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// FitTransform learns the vocabulary from docs and returns their weighted rows.
func (t *TFIDF) FitTransform(docs []string) (*Vocabulary, *Matrix, error) {
	counts := make([]map[string]int, len(docs))
	total := make(map[string]int)
	df := make(map[string]int)

	for i, doc := range docs {
		c := make(map[string]int)
		for _, tok := range Tokenize(doc) {
			if _, stop := t.stopWords[tok]; stop {
				continue
			}
			c[tok]++
		}
		for term, n := range c {
			total[term] += n
			df[term]++
		}
		counts[i] = c
	}

	if len(total) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	vocab := t.selectVocabulary(total, df, len(docs))

	rows := make([]Row, len(docs))
	for i, c := range counts {
		rows[i] = weighRow(c, vocab)
	}

	return vocab, &Matrix{rows: rows, cols: vocab.Len()}, nil
}

// selectVocabulary keeps the most frequent terms and orders them alphabetically.
func (t *TFIDF) selectVocabulary(total, df map[string]int, nDocs int) *Vocabulary {
	terms := make([]string, 0, len(total))
	for term := range total {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	if len(terms) > t.maxFeatures {
		sort.SliceStable(terms, func(i, j int) bool {
			return total[terms[i]] > total[terms[j]]
		})
		terms = terms[:t.maxFeatures]
		sort.Strings(terms)
	}

	v := &Vocabulary{
		terms: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(nDocs)
	for i, term := range terms {
		v.index[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v
}

func weighRow(counts map[string]int, vocab *Vocabulary) Row {
	var r Row
	for term, n := range counts {
		if col, ok := vocab.Column(term); ok {
			r.Indices = append(r.Indices, col)
			r.Values = append(r.Values, float64(n)*vocab.IDF(col))
		}
	}
	if len(r.Indices) == 0 {
		return r
	}

	sort.Sort(byColumn(r))

	var norm float64
	for _, v := range r.Values {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for k := range r.Values {
		r.Values[k] /= norm
	}
	return r
}

type byColumn Row

func (b byColumn) Len() int           { return len(b.Indices) }
func (b byColumn) Less(i, j int) bool { return b.Indices[i] < b.Indices[j] }
func (b byColumn) Swap(i, j int) {
	b.Indices[i], b.Indices[j] = b.Indices[j], b.Indices[i]
	b.Values[i], b.Values[j] = b.Values[j], b.Values[i]
}
