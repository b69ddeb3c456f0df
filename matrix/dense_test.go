// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/sigfit/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestAtSetOutOfRange(t *testing.T) {
	m := MustDense(t, 2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
}

func TestSetRejectsNaNInf(t *testing.T) {
	m := MustDense(t, 1, 2)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 1, math.Inf(-1)), matrix.ErrNaNInf)
}

func TestNewDenseFromRowsAndColumns(t *testing.T) {
	byRows := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	byCols, err := matrix.NewDenseFromColumns([][]float64{{1, 4}, {2, 5}, {3, 6}})
	require.NoError(t, err)
	requireDenseClose(t, byRows, byCols, 0)

	_, err = matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrRaggedRows)

	_, err = matrix.NewDenseFromColumns(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDenseFromRows([][]float64{{math.NaN()}})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestCopyIsIndependent(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	cp := m.Copy()
	require.NoError(t, cp.Set(0, 0, 99))

	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

func TestColumnAndSetColumn(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}, {5, 6}})

	col, err := m.Column(1)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6}, col)

	row, err := m.Row(2)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 6}, row)

	require.NoError(t, m.SetColumn(0, []float64{7, 8, 9}))
	col, err = m.Column(0)
	require.NoError(t, err)
	require.Equal(t, []float64{7, 8, 9}, col)

	require.ErrorIs(t, m.SetColumn(0, []float64{1}), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, m.SetColumn(0, []float64{1, math.NaN(), 3}), matrix.ErrNaNInf)
	_, err = m.Column(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	// failed SetColumn leaves the matrix untouched
	col, err = m.Column(0)
	require.NoError(t, err)
	require.Equal(t, []float64{7, 8, 9}, col)
}

func TestInduced(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})

	sub, err := m.Induced([]int{0, 2}, []int{2, 0})
	require.NoError(t, err)
	requireDenseClose(t, MustRows(t, [][]float64{{3, 1}, {9, 7}}), sub, 0)

	_, err = m.Induced([]int{0}, []int{3})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.Induced(nil, []int{0})
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestString(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4.5}})
	require.Equal(t, "[1, 2]\n[3, 4.5]\n", m.String())
}
