// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package corpus loads the movie table the recommender is built from.
//
// The input is a CSV file with a header row naming at least the columns
// movieId, title and combined_genres. Extra columns are ignored. Rows keep
// their file order; row i of the corpus is row i of every matrix built on it.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Required column names.
const (
	ColumnMovieID = "movieId"
	ColumnTitle   = "title"
	ColumnGenres  = "combined_genres"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrMalformedRow is returned for rows that cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")
)

// LoadError describes a failure to read the corpus file.
type LoadError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load corpus %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load corpus %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Movie is one corpus row.
type Movie struct {
	ID     int
	Title  string
	Genres string
}

// Corpus is the ordered, immutable movie table.
type Corpus struct {
	movies []Movie
}

// New builds a corpus from movies already in memory. The slice is copied.
func New(movies []Movie) *Corpus {
	return &Corpus{movies: append([]Movie(nil), movies...)}
}

// Len returns the number of movies.
func (c *Corpus) Len() int { return len(c.movies) }

// Movie returns the movie at row i.
func (c *Corpus) Movie(i int) Movie { return c.movies[i] }

// Movies returns a copy of all movies in row order.
func (c *Corpus) Movies() []Movie { return append([]Movie(nil), c.movies...) }

// Titles returns the titles in row order.
func (c *Corpus) Titles() []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Title
	}
	return out
}

// Genres returns the genre documents in row order.
func (c *Corpus) Genres() []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Genres
	}
	return out
}

// Load reads the corpus CSV at path.
func Load(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses a corpus from r. name is used in error messages.
func Read(r io.Reader, name string) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Path: name, Err: fmt.Errorf("%w: empty file, header row expected", ErrMissingColumn)}
		}
		return nil, &LoadError{Path: name, Err: err}
	}

	cols, err := headerIndex(header)
	if err != nil {
		return nil, &LoadError{Path: name, Line: 1, Err: err}
	}
	need := max(cols.id, cols.title, cols.genres) + 1

	var movies []Movie
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Path: name, Err: err}
		}
		line, _ := reader.FieldPos(0)
		if len(record) < need {
			return nil, &LoadError{Path: name, Line: line,
				Err: fmt.Errorf("%w: %d fields, want at least %d", ErrMalformedRow, len(record), need)}
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[cols.id]))
		if err != nil {
			return nil, &LoadError{Path: name, Line: line,
				Err: fmt.Errorf("%w: movieId %q is not an integer", ErrMalformedRow, record[cols.id])}
		}

		movies = append(movies, Movie{
			ID:     id,
			Title:  record[cols.title],
			Genres: record[cols.genres],
		})
	}

	return &Corpus{movies: movies}, nil
}

type columns struct {
	id, title, genres int
}

func headerIndex(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var cols columns
	var missing []string
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{ColumnMovieID, &cols.id},
		{ColumnTitle, &cols.title},
		{ColumnGenres, &cols.genres},
	} {
		i, ok := idx[c.name]
		if !ok {
			missing = append(missing, c.name)
			continue
		}
		*c.dst = i
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}
