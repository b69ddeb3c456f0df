package rng_test

import (
	"sort"
	"testing"

	"github.com/katalvlaran/sigfit/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := rng.New(7), rng.New(7)
	for i := 0; i < 16; i++ {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestZeroSeedUsesDefault(t *testing.T) {
	assert.Equal(t, rng.New(0).Uint64(), rng.New(rng.DefaultSeed).Uint64())
	assert.Equal(t, rng.DeriveSeed(0, 3), rng.DeriveSeed(rng.DefaultSeed, 3))
}

func TestDeriveSeparatesStreams(t *testing.T) {
	seen := make(map[uint64]struct{})
	for stream := uint64(0); stream < 1000; stream++ {
		s := rng.DeriveSeed(42, stream)
		_, dup := seen[s]
		require.False(t, dup, "stream %d collided", stream)
		seen[s] = struct{}{}
	}
	assert.NotEqual(t, rng.Derive(42, 0).Uint64(), rng.Derive(42, 1).Uint64())
	assert.Equal(t, rng.Derive(42, 9).Uint64(), rng.Derive(42, 9).Uint64())
}

func TestPermutation(t *testing.T) {
	p, err := rng.Permutation(96, rng.New(5))
	require.NoError(t, err)
	require.Len(t, p, 96)

	sorted := append([]int(nil), p...)
	sort.Ints(sorted)
	for i, v := range sorted {
		require.Equal(t, i, v)
	}

	q, err := rng.Permutation(96, rng.New(5))
	require.NoError(t, err)
	assert.Equal(t, p, q)

	_, err = rng.Permutation(-1, nil)
	require.ErrorIs(t, err, rng.ErrNegativeLength)

	empty, err := rng.Permutation(0, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPick(t *testing.T) {
	assert.Equal(t, 4, rng.Pick([]int{4}, nil))

	r := rng.New(11)
	counts := map[int]int{}
	for i := 0; i < 3000; i++ {
		counts[rng.Pick([]int{1, 2, 3}, r)]++
	}
	for _, c := range []int{1, 2, 3} {
		assert.InDelta(t, 1000, counts[c], 150, "candidate %d", c)
	}
}
