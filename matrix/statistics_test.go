package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/sigfit/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrobeniusResidual(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {4, 5}})
	p := MustRows(t, [][]float64{{1, 1}, {2, 8}})
	e := MustRows(t, [][]float64{{2, 0}, {1, 1}})

	got, err := matrix.FrobeniusResidual(m, p, e)
	require.NoError(t, err)
	assert.InDelta(t, 8.83176, got, 1e-5)
	assert.InDelta(t, math.Sqrt(78), got, 1e-12)

	_, err = matrix.FrobeniusResidual(MustDense(t, 3, 2), p, e)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.FrobeniusResidual(m, p, MustDense(t, 3, 2))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestFrobeniusNorm(t *testing.T) {
	got, err := matrix.FrobeniusNorm(MustRows(t, [][]float64{{3, 0}, {0, 4}}))
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
}

func TestNormalizeColumnsL1(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 0}, {3, 2}})

	norm, sums, err := matrix.NormalizeColumnsL1(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 2}, sums)
	requireDenseClose(t, MustRows(t, [][]float64{{0.25, 0}, {0.75, 1}}), norm, 1e-15)

	// input untouched
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	_, _, err = matrix.NormalizeColumnsL1(MustRows(t, [][]float64{{1, 0}, {1, 0}}))
	require.ErrorIs(t, err, matrix.ErrZeroColumn)
}

func TestNormalizeL1(t *testing.T) {
	got, err := matrix.NormalizeL1([]float64{2, 6})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, got)

	_, err = matrix.NormalizeL1([]float64{0, 0})
	require.ErrorIs(t, err, matrix.ErrZeroColumn)
	_, err = matrix.NormalizeL1(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestValidateNonNegative(t *testing.T) {
	require.NoError(t, matrix.ValidateNonNegative(MustRows(t, [][]float64{{0, 1}})))
	require.ErrorIs(t, matrix.ValidateNonNegative(MustRows(t, [][]float64{{0, -1e-9}})), matrix.ErrNegativeEntry)
	require.ErrorIs(t, matrix.ValidateNonNegativeVec([]float64{1, -1}), matrix.ErrNegativeEntry)
	require.ErrorIs(t, matrix.ValidateNonNegativeVec([]float64{math.Inf(1)}), matrix.ErrNaNInf)
}
