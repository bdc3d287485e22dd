// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package similarity

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/genrematch/internal/recommend/vectorize"
)

// Sparse computes dot products directly on the sparse rows. Row i of the
// upper triangle is one task; tasks run on a bounded errgroup. Each task
// writes only cells (i, j) and (j, i) for j >= i, so tasks never share a cell.
type Sparse struct {
	workers int
}

// NewSparse creates a sparse backend with the given worker bound.
func NewSparse(workers int) *Sparse {
	return &Sparse{workers: defaultWorkers(workers)}
}

// Name implements Backend.
func (s *Sparse) Name() string { return BackendSparse }

// Pairwise implements Backend.
func (s *Sparse) Pairwise(ctx context.Context, m *vectorize.Matrix) (*Matrix, error) {
	n := m.Rows()
	out := newMatrix(n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a := m.Row(i)
			for j := i; j < n; j++ {
				out.set(i, j, dot(a, m.Row(j)))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// dot merges two rows with increasing indices.
func dot(a, b vectorize.Row) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
