package significance_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/significance"
	"github.com/katalvlaran/sigfit/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(t *testing.T, r [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(r)
	require.NoError(t, err)

	return m
}

func TestPseudoPValues(t *testing.T) {
	e := rows(t, [][]float64{
		{0.5, 0.6, 0.0, 0.7},
		{0.01, 0.02, 0.005, 0.0}, // 0.01 is not > τ
		{0, 0, 0, 0},
	})

	freq, err := significance.DetectionFrequency(e, significance.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75, 0.25, 0}, freq)

	p, err := significance.PseudoPValues(e, significance.DefaultThreshold)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75, 1}, p)

	// τ = 0 counts every strictly positive exposure
	p, err = significance.PseudoPValues(e, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25, 1}, p)
}

func TestPseudoPValuesInRange(t *testing.T) {
	e := rows(t, [][]float64{{0.3}, {0.7}})
	for _, tau := range []float64{0, 0.2, 0.5, 0.99} {
		p, err := significance.PseudoPValues(e, tau)
		require.NoError(t, err)
		for _, v := range p {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestInvalidThreshold(t *testing.T) {
	e := rows(t, [][]float64{{1}})
	for _, tau := range []float64{-0.1, 1, 2, math.NaN(), math.Inf(1)} {
		_, err := significance.PseudoPValues(e, tau)
		require.ErrorIs(t, err, significance.ErrInvalidThreshold, "τ=%g", tau)
		assert.True(t, signature.IsValidation(err))
	}
	_, err := significance.DetectionFrequency(nil, 0.1)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestSummarize(t *testing.T) {
	a := make([]float64, 40)
	b := make([]float64, 40)
	for i := range a {
		a[39-i] = float64(i + 1) // unsorted on purpose
		b[i] = 0.25
	}
	e := rows(t, [][]float64{a, b})

	s, err := significance.Summarize(e)
	require.NoError(t, err)
	require.Len(t, s, 2)

	assert.InDelta(t, 20.5, s[0].Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(40.0*41/12), s[0].StdDev, 1e-9)
	assert.Equal(t, 20.0, s[0].Median)
	assert.Equal(t, 1.0, s[0].Lower)
	assert.Equal(t, 39.0, s[0].Upper)

	assert.Equal(t, significance.Summary{Mean: 0.25, Median: 0.25, Lower: 0.25, Upper: 0.25}, s[1])

	// input rows are not reordered
	v, err := e.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 40.0, v)
}

func TestSummarizeSingleReplicate(t *testing.T) {
	s, err := significance.Summarize(rows(t, [][]float64{{0.4}, {0.6}}))
	require.NoError(t, err)
	assert.Equal(t, significance.Summary{Mean: 0.4, Median: 0.4, Lower: 0.4, Upper: 0.4}, s[0])
}
