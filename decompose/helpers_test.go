package decompose_test

import (
	"math/rand/v2"
	"testing"

	"github.com/katalvlaran/sigfit/signature"
	"github.com/stretchr/testify/require"
)

// threeSigCatalog is the 3×3 catalog whose best fit for [0.5,0.3,0.2] lies on
// a vertex of the simplex.
func threeSigCatalog(t testing.TB) *signature.Catalog {
	t.Helper()
	c, err := signature.FromColumns([][]float64{
		{0.2, 0.3, 0.5},
		{0.1, 0.4, 0.5},
		{0.3, 0.1, 0.6},
	})
	require.NoError(t, err)

	return c
}

// interiorCatalog has an interior optimum for interiorProfile.
func interiorCatalog(t testing.TB) *signature.Catalog {
	t.Helper()
	c, err := signature.FromColumns([][]float64{
		{0.3, 0.2, 0.1, 0.1, 0.2, 0.1},
		{0.05, 0.05, 0.4, 0.3, 0.1, 0.1},
		{0.1, 0.3, 0.1, 0.1, 0.1, 0.3},
	})
	require.NoError(t, err)

	return c
}

var interiorProfile = []float64{0.195, 0.165, 0.195, 0.155, 0.15, 0.14}

// randomCatalog draws n normalized signatures over k categories.
func randomCatalog(t testing.TB, k, n int, seed uint64) *signature.Catalog {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, 7))
	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = randomSimplex(r, k)
	}
	c, err := signature.FromColumns(cols)
	require.NoError(t, err)

	return c
}

func randomSimplex(r *rand.Rand, k int) []float64 {
	v := make([]float64, k)
	var s float64
	for i := range v {
		v[i] = r.ExpFloat64()
		s += v[i]
	}
	for i := range v {
		v[i] /= s
	}

	return v
}
