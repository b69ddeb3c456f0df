package resample

import (
	"context"
	"fmt"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/rng"
	"github.com/katalvlaran/sigfit/signature"
	"gonum.org/v1/gonum/floats"
)

// CrossValidationOptions configures CrossValidate.
//
// Fields:
//   - FoldWidth : categories per fold; the remainder forms a shorter last fold.
//   - FoldCount : alternative to FoldWidth: width becomes ⌈K/FoldCount⌉.
//     Exactly one of FoldWidth and FoldCount must be set.
//   - Shuffle   : permute categories (seeded) before folding.
//   - Seed      : base seed; 0 selects rng.DefaultSeed.
//   - Workers   : bound on concurrent decompositions; ≤0 selects GOMAXPROCS.
//   - Decomposer: fitting strategy; required.
type CrossValidationOptions struct {
	FoldWidth  int
	FoldCount  int
	Shuffle    bool
	Seed       uint64
	Workers    int
	Decomposer decompose.Decomposer
}

// width resolves the fold width for k categories.
func (o CrossValidationOptions) width(k int) (int, error) {
	switch {
	case o.FoldWidth > 0 && o.FoldCount > 0:
		return 0, fmt.Errorf("%w: both fold width %d and fold count %d set", ErrInvalidFoldWidth, o.FoldWidth, o.FoldCount)
	case o.FoldWidth > 0:
		return o.FoldWidth, nil
	case o.FoldCount > 0:
		return (k + o.FoldCount - 1) / o.FoldCount, nil
	}

	return 0, fmt.Errorf("%w: fold width %d, fold count %d", ErrInvalidFoldWidth, o.FoldWidth, o.FoldCount)
}

// Folds splits positions 0..k-1 into contiguous groups of width; a remainder
// forms a final shorter fold. Fold sizes always sum to k.
//
// Errors: ErrInvalidFoldWidth for width < 1 or k < 1.
//
// Complexity: O(k).
func Folds(k, width int) ([][]int, error) {
	if width < 1 || k < 1 {
		return nil, fmt.Errorf("%w: k=%d width=%d", ErrInvalidFoldWidth, k, width)
	}
	folds := make([][]int, 0, (k+width-1)/width)
	for start := 0; start < k; start += width {
		end := min(start+width, k)
		fold := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			fold = append(fold, i)
		}
		folds = append(folds, fold)
	}

	return folds, nil
}

// ShuffledFolds is Folds over a seeded permutation of the categories: fold
// positions are mapped back to category indices, so masking the returned
// folds on the original profile equals masking the plain folds on the
// jointly permuted profile and catalog.
func ShuffledFolds(k, width int, seed uint64) ([][]int, error) {
	folds, err := Folds(k, width)
	if err != nil {
		return nil, err
	}
	perm, err := rng.Permutation(k, rng.Derive(seed, rng.StreamShuffle))
	if err != nil {
		return nil, err
	}
	for _, fold := range folds {
		for i, pos := range fold {
			fold[i] = perm[pos]
		}
	}

	return folds, nil
}

// FoldProfiles returns the K×F matrix whose column f is m with fold f zeroed
// and the remainder renormalized to unit sum.
//
// Errors: ErrDegenerateFold when a fold holds all of m's mass;
// signature.ErrBadProfile for negative or non-finite entries.
func FoldProfiles(m []float64, folds [][]int) (*matrix.Dense, error) {
	if err := matrix.ValidateNonNegativeVec(m); err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}
	if len(folds) == 0 {
		return nil, fmt.Errorf("%w: no folds", ErrInvalidFoldWidth)
	}
	out, err := matrix.NewDense(len(m), len(folds))
	if err != nil {
		return nil, err
	}
	masked := make([]float64, len(m))
	for f, fold := range folds {
		copy(masked, m)
		for _, i := range fold {
			if i < 0 || i >= len(m) {
				return nil, fmt.Errorf("%w: fold %d has category %d of %d", ErrInvalidFoldWidth, f, i, len(m))
			}
			masked[i] = 0
		}
		s := floats.Sum(masked)
		if !(s > 0) {
			return nil, fmt.Errorf("%w: fold %d", ErrDegenerateFold, f)
		}
		floats.Scale(1/s, masked)
		if err = out.SetColumn(f, masked); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// CrossValidate returns the cross-validation exposure distribution of
// profile m: one column per fold, in fold order.
//
// Implementation:
//   - Stage 1: validate (N ≥ 2, len(m) == K, decomposer set, fold width).
//   - Stage 2: build folds, shuffled when requested.
//   - Stage 3: mask and renormalize per fold.
//   - Stage 4: decompose folds in parallel; residuals against the full
//     normalized m.
func CrossValidate(ctx context.Context, m []float64, sigs *signature.Catalog, opts CrossValidationOptions) (Distribution, error) {
	if err := signature.RequireDecomposable(sigs); err != nil {
		return Distribution{}, err
	}
	if err := sigs.ValidateProfile(m); err != nil {
		return Distribution{}, err
	}
	if err := decompose.Validate(opts.Decomposer); err != nil {
		return Distribution{}, err
	}
	profiles, err := CrossValidationProfiles(m, opts)
	if err != nil {
		return Distribution{}, err
	}
	target, err := matrix.NormalizeL1(m)
	if err != nil {
		return Distribution{}, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}

	return Evaluator{Decomposer: opts.Decomposer, Workers: opts.Workers}.Evaluate(ctx, profiles, target, sigs)
}

// CrossValidationProfiles builds the folds described by opts for m and
// returns their masked profiles (see FoldProfiles).
func CrossValidationProfiles(m []float64, opts CrossValidationOptions) (*matrix.Dense, error) {
	width, err := opts.width(len(m))
	if err != nil {
		return nil, err
	}
	var folds [][]int
	if opts.Shuffle {
		folds, err = ShuffledFolds(len(m), width, opts.Seed)
	} else {
		folds, err = Folds(len(m), width)
	}
	if err != nil {
		return nil, err
	}

	return FoldProfiles(m, folds)
}
