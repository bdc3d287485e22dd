// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

// Package similarity computes the all-pairs similarity matrix of a TF-IDF
// corpus.
//
// Every backend computes the linear kernel: entry (i, j) is the plain dot
// product of rows i and j. Rows coming out of the vectorizer are unit length,
// so this equals cosine similarity. Backends fill the upper triangle and
// mirror it, so the result is exactly symmetric.
package similarity

import (
	"context"
	"fmt"
	"runtime"

	"github.com/tomtom215/genrematch/internal/recommend/vectorize"
)

// Backend names accepted by New.
const (
	BackendDense  = "dense"
	BackendSparse = "sparse"
)

// Backend computes a similarity matrix from feature rows.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Pairwise returns the n×n similarity matrix of the rows of m.
	Pairwise(ctx context.Context, m *vectorize.Matrix) (*Matrix, error)
}

// New returns the backend registered under name. workers bounds the
// goroutines the sparse backend uses; values below 1 mean GOMAXPROCS.
func New(name string, workers int) (Backend, error) {
	switch name {
	case BackendDense:
		return Dense{}, nil
	case BackendSparse, "":
		return NewSparse(workers), nil
	default:
		return nil, fmt.Errorf("unknown similarity backend %q", name)
	}
}

// Matrix is a dense, square, symmetric similarity matrix stored row-major.
// It is read-only once built and safe for concurrent readers.
type Matrix struct {
	n    int
	data []float64
}

func newMatrix(n int) *Matrix {
	return &Matrix{n: n, data: make([]float64, n*n)}
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int { return m.n }

// At returns the similarity of rows i and j.
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	return append([]float64(nil), m.data[i*m.n:(i+1)*m.n]...)
}

func (m *Matrix) set(i, j int, v float64) {
	m.data[i*m.n+j] = v
	m.data[j*m.n+i] = v
}

func defaultWorkers(workers int) int {
	if workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}
