// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package similarity

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/genrematch/internal/recommend/vectorize"
)

// Dense expands the features into a gonum matrix X and computes X·Xᵀ with
// BLAS. Memory is O(n·d + n²); prefer Sparse for very wide vocabularies.
type Dense struct{}

// Name implements Backend.
func (Dense) Name() string { return BackendDense }

// Pairwise implements Backend.
func (Dense) Pairwise(ctx context.Context, m *vectorize.Matrix) (*Matrix, error) {
	n, d := m.Rows(), m.Cols()
	out := newMatrix(n)
	if n == 0 || d == 0 {
		return out, nil
	}

	x := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		r := m.Row(i)
		for k, col := range r.Indices {
			x.Set(i, col, r.Values[k])
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prod mat.Dense
	prod.Mul(x, x.T())

	// BLAS blocking may round (i, j) and (j, i) differently; keep the upper triangle.
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.set(i, j, prod.At(i, j))
		}
	}
	return out, nil
}
