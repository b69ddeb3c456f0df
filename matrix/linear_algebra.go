// SPDX-License-Identifier: MIT
// Package matrix - products and differences over *Dense: element-wise
// subtraction, matrix multiplication, matrix-vector products and the Gram
// product AᵀA. All functions perform strict fail-fast validation and return
// wrapped sentinels on mismatches.
//
// Notes:
//   - Kernels walk the flat row-major buffers in a fixed i→j(→k) order.
//   - Results are always freshly allocated; inputs are never mutated.

package matrix

import "fmt"

// ZeroSum is the initial accumulator for dot products and substitutions.
const ZeroSum = 0.0

const (
	opSub     = "Sub"
	opMul     = "Mul"
	opMatVec  = "MatVec"
	opMatTVec = "MatTVec"
	opGram    = "Gram"
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is/As.
// Call only with a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Sub computes the element-wise difference C = A − B.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b *Dense) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	res, err := NewDense(a.r, a.c)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	for idx := range res.data {
		res.data[idx] = a.data[idx] - b.data[idx]
	}

	return res, nil
}

// Mul performs standard matrix multiplication C = A × B.
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j with row-major strides, skipping zero A[i,k].
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c). Exposure matrices are sparse after
//     clipping, so skipping zero A[i,k] pays off in residual computations.
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.r, a.c, b.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var i, j, k, rowA, rowB, rowR int
	var av float64
	for i = 0; i < aRows; i++ {
		rowA = i * aCols
		rowR = i * bCols
		for k = 0; k < aCols; k++ {
			av = a.data[rowA+k]
			if av == 0 {
				continue
			}
			rowB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowR+j] += av * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// MatVec computes y = m · x for a column vector x.
//
// Contract: m non-nil; len(x) == m.Cols().
// Determinism: fixed i→j loop order.
// Complexity: Time O(r*c), Space O(r) for y.
//
// Notes:
//   - Reconstructing a profile P·e is one MatVec; zero exposures are skipped.
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)

	var i, j, base int
	var acc float64
	for i = 0; i < m.r; i++ {
		acc = ZeroSum
		base = i * m.c
		for j = 0; j < m.c; j++ {
			if x[j] != 0 {
				acc += m.data[base+j] * x[j]
			}
		}
		y[i] = acc
	}

	return y, nil
}

// MatTVec computes y = mᵀ · x without materializing mᵀ.
//
// Contract: m is a non-nil *Dense; len(x) == m.Rows().
// Complexity: Time O(r*c), Space O(c).
func MatTVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	if err := ValidateVecLen(x, m.r); err != nil {
		return nil, matrixErrorf(opMatTVec, err)
	}
	y := make([]float64, m.c)

	var i, j, base int
	for i = 0; i < m.r; i++ {
		if x[i] == 0 {
			continue
		}
		base = i * m.c
		for j = 0; j < m.c; j++ {
			y[j] += m.data[base+j] * x[i]
		}
	}

	return y, nil
}

// Gram returns G = mᵀ·m (c×c, symmetric positive semidefinite).
// MAIN DESCRIPTION:
//   - The Hessian of ½‖x − m·e‖² with respect to e.
//
// Implementation:
//   - Stage 1: accumulate the upper triangle row by row (i→a→b over m's rows).
//   - Stage 2: mirror the upper triangle so the result is exactly symmetric.
//
// Complexity:
//   - Time O(r*c²), Space O(c²).
func Gram(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opGram, err)
	}
	n := m.c
	g, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opGram, err)
	}

	var i, a, b, base int
	var va float64
	for i = 0; i < m.r; i++ {
		base = i * n
		for a = 0; a < n; a++ {
			va = m.data[base+a]
			if va == 0 {
				continue
			}
			for b = a; b < n; b++ {
				g.data[a*n+b] += va * m.data[base+b]
			}
		}
	}
	for a = 0; a < n; a++ {
		for b = a + 1; b < n; b++ {
			g.data[b*n+a] = g.data[a*n+b]
		}
	}

	return g, nil
}
