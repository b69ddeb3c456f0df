package resample

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/rng"
	"github.com/katalvlaran/sigfit/signature"
	"gonum.org/v1/gonum/stat/distuv"
)

// wholeNumberTol is how close to an integer a count must be to be treated as
// one when the event count is inferred.
const wholeNumberTol = 1e-9

// BootstrapOptions configures Bootstrap.
//
// Fields:
//   - Replicates: number of bootstrap replicates R (≥1).
//   - EventCount: mutations per replicate T; 0 infers T from whole-number counts.
//   - Seed      : base seed; 0 selects rng.DefaultSeed.
//   - Workers   : bound on concurrent decompositions; ≤0 selects GOMAXPROCS.
//   - Decomposer: fitting strategy; required.
type BootstrapOptions struct {
	Replicates int
	EventCount int
	Seed       uint64
	Workers    int
	Decomposer decompose.Decomposer
}

// EventCount resolves the number of mutations to draw per replicate.
//
// Policy:
//   - explicit > 0 is used verbatim.
//   - explicit < 0 is ErrInvalidEventCount.
//   - explicit == 0 requires every entry of m to be a whole number; T is
//     then round(Σm), and must be ≥ 1.
func EventCount(m []float64, explicit int) (int, error) {
	switch {
	case explicit > 0:
		return explicit, nil
	case explicit < 0:
		return 0, fmt.Errorf("%w: got %d", ErrInvalidEventCount, explicit)
	}
	var sum float64
	for i, x := range m {
		if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x-math.Round(x)) >= wholeNumberTol {
			return 0, fmt.Errorf("%w: entry %d is %g", ErrEventCountRequired, i, x)
		}
		sum += math.Round(x)
	}
	if sum < 1 {
		return 0, fmt.Errorf("%w: counts sum to %g", ErrInvalidEventCount, sum)
	}

	return int(sum), nil
}

// BootstrapProfiles draws r multinomial replicates of size t from the
// normalized profile m and returns them as a K×r matrix of frequencies
// (each column sums to 1).
//
// Implementation:
//   - Multinomial(t, m) as a chain of conditional binomials: category i gets
//     Binomial(remaining, m_i / remaining mass).
//   - Replicate j uses rng.Derive(seed, j).
//
// Complexity: O(K·r) binomial draws.
func BootstrapProfiles(m []float64, r, t int, seed uint64) (*matrix.Dense, error) {
	if r < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidReplicates, r)
	}
	if t < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidEventCount, t)
	}
	if err := matrix.ValidateNonNegativeVec(m); err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}
	p, err := matrix.NormalizeL1(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}

	out, err := matrix.NewDense(len(p), r)
	if err != nil {
		return nil, err
	}
	for j := 0; j < r; j++ {
		counts := multinomial(p, t, rng.Derive(seed, uint64(j)))
		for i, c := range counts {
			if err = out.Set(i, j, float64(c)/float64(t)); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// multinomial draws t events over the categories of p (Σp = 1). Leftover
// events go to the last category with positive probability, so rounding
// drift in the remaining mass never lands on an impossible category.
func multinomial(p []float64, t int, src *rand.Rand) []int {
	counts := make([]int, len(p))
	last := len(p) - 1
	for last > 0 && p[last] <= 0 {
		last--
	}
	left := t
	mass := 1.0
	for i := 0; i < last && left > 0; i++ {
		q := 0.0
		if mass > 0 {
			q = p[i] / mass
		}
		var x int
		switch {
		case q <= 0:
			x = 0
		case q >= 1:
			x = left
		default:
			b := distuv.Binomial{N: float64(left), P: q, Src: src}
			x = int(math.Round(b.Rand()))
		}
		counts[i] = x
		left -= x
		mass -= p[i]
	}
	if last >= 0 {
		counts[last] += left
	}

	return counts
}

// Bootstrap returns the bootstrap exposure distribution of profile m.
//
// Implementation:
//   - Stage 1: validate (N ≥ 2, len(m) == K, decomposer set, R ≥ 1).
//   - Stage 2: resolve the event count T (see EventCount).
//   - Stage 3: draw the K×R replicate profiles.
//   - Stage 4: decompose replicates in parallel; residuals are measured
//     against the normalized m.
//
// Errors: validation errors of the above stages; the first decomposition
// failure.
func Bootstrap(ctx context.Context, m []float64, sigs *signature.Catalog, opts BootstrapOptions) (Distribution, error) {
	if err := signature.RequireDecomposable(sigs); err != nil {
		return Distribution{}, err
	}
	if err := sigs.ValidateProfile(m); err != nil {
		return Distribution{}, err
	}
	if err := decompose.Validate(opts.Decomposer); err != nil {
		return Distribution{}, err
	}
	t, err := EventCount(m, opts.EventCount)
	if err != nil {
		return Distribution{}, err
	}
	profiles, err := BootstrapProfiles(m, opts.Replicates, t, opts.Seed)
	if err != nil {
		return Distribution{}, err
	}
	target, err := matrix.NormalizeL1(m)
	if err != nil {
		return Distribution{}, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}

	return Evaluator{Decomposer: opts.Decomposer, Workers: opts.Workers}.Evaluate(ctx, profiles, target, sigs)
}
