// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

const (
	opCholesky      = "Cholesky"
	opCholeskySolve = "CholeskySolve"
	opCholeskyInv   = "CholeskyInverse"
)

// DefaultPivotTolerance is the relative pivot floor used by Cholesky: a pivot
// below tol·max(diag(A)) is treated as zero. Duplicate or collinear signature
// columns produce Gram matrices that fail this test.
const DefaultPivotTolerance = 1e-12

// Cholesky computes the lower-triangular factor L with A = L·Lᵀ.
// Implementation:
//   - Stage 1: Validate A (not nil, square, symmetric within tol·scale).
//   - Stage 2: Column-by-column Cholesky–Banachiewicz; reject pivots below
//     tol·max(diag(A)) with ErrNotPositiveDefinite.
//
// Inputs:
//   - a: symmetric positive definite matrix (n×n).
//   - tol: relative pivot floor; tol<=0 selects DefaultPivotTolerance.
//
// Returns:
//   - *Dense: L (zeros above the diagonal).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrAsymmetry, ErrNotPositiveDefinite.
//
// Determinism:
//   - No pivoting; fixed i→j→k order.
//
// Complexity:
//   - Time O(n³/3), Space O(n²).
//
// Notes:
//   - Factor once and reuse with CholeskySolve for many right-hand sides.
func Cholesky(a *Dense, tol float64) (*Dense, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	if tol <= 0 {
		tol = DefaultPivotTolerance
	}
	n := a.r

	var i, j, k int
	scale := 0.0
	for i = 0; i < n; i++ {
		scale = math.Max(scale, math.Abs(a.data[i*n+i]))
	}
	if scale == 0 {
		return nil, matrixErrorf(opCholesky, ErrNotPositiveDefinite)
	}
	if err := ValidateSymmetric(a, 1e-9*scale); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}

	l, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	floor := tol * scale

	var sum float64
	for i = 0; i < n; i++ {
		for j = 0; j <= i; j++ {
			sum = a.data[i*n+j]
			for k = 0; k < j; k++ {
				sum -= l.data[i*n+k] * l.data[j*n+k]
			}
			if i == j {
				if sum <= floor {
					return nil, matrixErrorf(opCholesky, fmt.Errorf("pivot %d = %g: %w", i, sum, ErrNotPositiveDefinite))
				}
				l.data[i*n+i] = math.Sqrt(sum)
				continue
			}
			l.data[i*n+j] = sum / l.data[j*n+j]
		}
	}

	return l, nil
}

// CholeskySolve solves (L·Lᵀ)·x = b given the factor L from Cholesky.
// Forward substitution L·y = b, then backward substitution Lᵀ·x = y.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch.
// Complexity: Time O(n²), Space O(n).
func CholeskySolve(l *Dense, b []float64) ([]float64, error) {
	if err := ValidateSquare(l); err != nil {
		return nil, matrixErrorf(opCholeskySolve, err)
	}
	n := l.r
	if err := ValidateVecLen(b, n); err != nil {
		return nil, matrixErrorf(opCholeskySolve, err)
	}

	x := make([]float64, n)
	var i, k int
	var sum float64
	for i = 0; i < n; i++ {
		sum = b[i]
		for k = 0; k < i; k++ {
			sum -= l.data[i*n+k] * x[k]
		}
		x[i] = sum / l.data[i*n+i]
	}
	for i = n - 1; i >= 0; i-- {
		sum = x[i]
		for k = i + 1; k < n; k++ {
			sum -= l.data[k*n+i] * x[k]
		}
		x[i] = sum / l.data[i*n+i]
	}

	return x, nil
}

// CholeskyInverse forms A⁻¹ column by column from the factor L.
// Prefer CholeskySolve when only a few products A⁻¹·b are needed.
//
// Complexity: Time O(n³), Space O(n²).
func CholeskyInverse(l *Dense) (*Dense, error) {
	if err := ValidateSquare(l); err != nil {
		return nil, matrixErrorf(opCholeskyInv, err)
	}
	n := l.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opCholeskyInv, err)
	}

	e := make([]float64, n)
	var col, i int
	var x []float64
	for col = 0; col < n; col++ {
		for i = range e {
			e[i] = 0
		}
		e[col] = 1
		if x, err = CholeskySolve(l, e); err != nil {
			return nil, matrixErrorf(opCholeskyInv, err)
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}
	// Symmetrize to remove round-off asymmetry.
	var j int
	var avg float64
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			avg = 0.5 * (inv.data[i*n+j] + inv.data[j*n+i])
			inv.data[i*n+j] = avg
			inv.data[j*n+i] = avg
		}
	}

	return inv, nil
}
