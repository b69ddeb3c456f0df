package matrix_test

import (
	"testing"

	"github.com/katalvlaran/sigfit/matrix"
	"github.com/stretchr/testify/require"
)

func TestCholeskyReconstructs(t *testing.T) {
	a := MustRows(t, [][]float64{
		{4, 12, -16},
		{12, 37, -43},
		{-16, -43, 98},
	})

	l, err := matrix.Cholesky(a, 0)
	require.NoError(t, err)
	requireDenseClose(t, MustRows(t, [][]float64{
		{2, 0, 0},
		{6, 1, 0},
		{-8, 5, 3},
	}), l, 1e-12)

	back, err := matrix.Mul(l, transpose(t, l))
	require.NoError(t, err)
	requireDenseClose(t, a, back, 1e-12)
}

func TestCholeskySolveAndInverse(t *testing.T) {
	a := MustRows(t, [][]float64{{4, 1}, {1, 3}})
	l, err := matrix.Cholesky(a, 0)
	require.NoError(t, err)

	x, err := matrix.CholeskySolve(l, []float64{1, 2})
	require.NoError(t, err)
	require.InDelta(t, 1.0/11, x[0], 1e-12)
	require.InDelta(t, 7.0/11, x[1], 1e-12)

	inv, err := matrix.CholeskyInverse(l)
	require.NoError(t, err)
	id, err := matrix.Mul(a, inv)
	require.NoError(t, err)
	requireDenseClose(t, MustRows(t, [][]float64{{1, 0}, {0, 1}}), id, 1e-12)

	_, err = matrix.CholeskySolve(l, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestCholeskyRejects(t *testing.T) {
	cases := []struct {
		name string
		a    [][]float64
		want error
	}{
		{"singular", [][]float64{{1, 1}, {1, 1}}, matrix.ErrNotPositiveDefinite},
		{"indefinite", [][]float64{{1, 2}, {2, 1}}, matrix.ErrNotPositiveDefinite},
		{"zero", [][]float64{{0, 0}, {0, 0}}, matrix.ErrNotPositiveDefinite},
		{"asymmetric", [][]float64{{2, 1}, {0, 2}}, matrix.ErrAsymmetry},
		{"non-square", [][]float64{{1, 2, 3}, {4, 5, 6}}, matrix.ErrNonSquare},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := matrix.Cholesky(MustRows(t, tc.a), 0)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCholeskyDuplicateColumnGram(t *testing.T) {
	p, err := matrix.NewDenseFromColumns([][]float64{
		{0.2, 0.3, 0.5},
		{0.2, 0.3, 0.5},
		{0.1, 0.4, 0.5},
	})
	require.NoError(t, err)
	g, err := matrix.Gram(p)
	require.NoError(t, err)

	_, err = matrix.Cholesky(g, 0)
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}
