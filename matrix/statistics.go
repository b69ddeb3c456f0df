// SPDX-License-Identifier: MIT
// Package matrix - column statistics and residual norms.
//
// Purpose:
//   - Column sums and L1 column normalization (profiles → probability columns).
//   - Frobenius norms of a matrix and of the residual M − P·E.
//
// Determinism:
//   - Fixed traversal orders; accumulation always runs i=0..r-1.

package matrix

import (
	"fmt"
	"math"
)

const (
	opColSums           = "ColSums"
	opNormalizeCols     = "NormalizeColumnsL1"
	opNormalizeL1       = "NormalizeL1"
	opFrobenius         = "FrobeniusNorm"
	opFrobeniusResidual = "FrobeniusResidual"
)

// ColSums returns the sum of every column.
// Complexity: Time O(r*c), Space O(c).
func ColSums(m *Dense) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opColSums, err)
	}
	sums := make([]float64, m.c)
	var i, j, base int
	for i = 0; i < m.r; i++ {
		base = i * m.c
		for j = 0; j < m.c; j++ {
			sums[j] += m.data[base+j]
		}
	}

	return sums, nil
}

// NormalizeColumnsL1 returns a copy of m whose columns each sum to 1, and the
// original column sums.
// MAIN DESCRIPTION:
//   - Turns count or unnormalized profile columns into categorical distributions.
//
// Implementation:
//   - Stage 1: ColSums; reject a column whose sum is not strictly positive.
//   - Stage 2: divide every entry by its column sum in a flat pass.
//
// Errors:
//   - ErrNilMatrix, ErrZeroColumn.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NormalizeColumnsL1(m *Dense) (*Dense, []float64, error) {
	sums, err := ColSums(m)
	if err != nil {
		return nil, nil, matrixErrorf(opNormalizeCols, err)
	}
	for j, s := range sums {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, nil, matrixErrorf(opNormalizeCols, fmt.Errorf("column %d: %w", j, ErrZeroColumn))
		}
	}

	out := m.Copy()
	for idx := range out.data {
		out.data[idx] /= sums[idx%m.c]
	}

	return out, sums, nil
}

// NormalizeL1 returns x / Σx as a new slice.
//
// Errors: ErrNilMatrix (nil x), ErrZeroColumn when Σx is not strictly positive.
func NormalizeL1(x []float64) ([]float64, error) {
	if x == nil {
		return nil, matrixErrorf(opNormalizeL1, ErrNilMatrix)
	}
	var s float64
	for _, v := range x {
		s += v
	}
	if !(s > 0) || math.IsInf(s, 0) {
		return nil, matrixErrorf(opNormalizeL1, ErrZeroColumn)
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v / s
	}

	return out, nil
}

// FrobeniusNorm returns sqrt(Σ m[i,j]²).
func FrobeniusNorm(m *Dense) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFrobenius, err)
	}

	return frobenius(m.data), nil
}

// FrobeniusResidual returns ‖M − P·E‖_F.
// MAIN DESCRIPTION:
//   - The reconstruction error of exposures E (N×G) for profiles M (K×G)
//     against a signature matrix P (K×N).
//
// Implementation:
//   - Stage 1: validate P·E is defined and has M's shape.
//   - Stage 2: reconstruct R = P·E (Mul skips zero exposures).
//   - Stage 3: D = M − R, then FrobeniusNorm(D).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(K*N*G), Space O(K*G).
func FrobeniusResidual(m, p, e *Dense) (float64, error) {
	if err := ValidateMulCompatible(p, e); err != nil {
		return 0, matrixErrorf(opFrobeniusResidual, err)
	}
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opFrobeniusResidual, err)
	}
	if m.r != p.r || m.c != e.c {
		return 0, matrixErrorf(opFrobeniusResidual, ErrDimensionMismatch)
	}
	recon, err := Mul(p, e)
	if err != nil {
		return 0, matrixErrorf(opFrobeniusResidual, err)
	}
	diff, err := Sub(m, recon)
	if err != nil {
		return 0, matrixErrorf(opFrobeniusResidual, err)
	}

	return FrobeniusNorm(diff)
}

// frobenius is a plain sqrt of the sum of squares.
func frobenius(xs []float64) float64 {
	var acc float64
	for _, v := range xs {
		acc += v * v
	}

	return math.Sqrt(acc)
}
