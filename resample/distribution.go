package resample

import (
	"context"
	"fmt"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/parallel"
	"github.com/katalvlaran/sigfit/signature"
	"gonum.org/v1/gonum/floats"
)

// Distribution is an empirical exposure distribution.
type Distribution struct {
	Exposures *matrix.Dense // N×R, one exposure vector per replicate
	Errors    []float64     // len R, residual against the normalized profile
}

// Replicates returns the number of columns in d.
func (d Distribution) Replicates() int {
	if d.Exposures == nil {
		return 0
	}

	return d.Exposures.Cols()
}

// Evaluator decomposes resampled profiles.
type Evaluator struct {
	Decomposer decompose.Decomposer
	Workers    int
}

// Evaluate fits every column of profiles against sigs and measures each fit
// against target (the normalized original profile).
//
// A single-signature catalog is evaluated without the decomposer: its only
// feasible exposure is 1 and its residual is ‖target − P₁‖.
//
// Errors:
//   - decompose.ErrNilDecomposer, signature.ErrShapeMismatch (validation).
//   - The decomposer's error for the first failing column, wrapped with its
//     index.
func (ev Evaluator) Evaluate(ctx context.Context, profiles *matrix.Dense, target []float64, sigs *signature.Catalog) (Distribution, error) {
	if sigs == nil {
		return Distribution{}, signature.ErrNilCatalog
	}
	if profiles == nil {
		return Distribution{}, fmt.Errorf("%w: %w", signature.ErrValidation, matrix.ErrNilMatrix)
	}
	k, n := sigs.Categories(), sigs.Len()
	if profiles.Rows() != k || len(target) != k {
		return Distribution{}, fmt.Errorf("%w: profiles %d rows, target %d, catalog %d categories",
			signature.ErrShapeMismatch, profiles.Rows(), len(target), k)
	}
	r := profiles.Cols()
	out := Distribution{Errors: make([]float64, r)}
	var err error
	if out.Exposures, err = matrix.NewDense(n, r); err != nil {
		return Distribution{}, err
	}

	if n == 1 {
		if err = ctx.Err(); err != nil {
			return Distribution{}, err
		}
		col, err := sigs.Column(0)
		if err != nil {
			return Distribution{}, err
		}
		res := floats.Distance(target, col, 2)
		for j := 0; j < r; j++ {
			if err = out.Exposures.Set(0, j, 1); err != nil {
				return Distribution{}, fmt.Errorf("resample: replicate %d: %w", j, err)
			}
			out.Errors[j] = res
		}
		return out, nil
	}
	if err = decompose.Validate(ev.Decomposer); err != nil {
		return Distribution{}, err
	}

	fits, err := parallel.Collect(ctx, r, ev.Workers, func(_ context.Context, j int) ([]float64, error) {
		p, err := profiles.Column(j)
		if err != nil {
			return nil, err
		}
		e, err := ev.Decomposer.Decompose(p, sigs)
		if err != nil {
			return nil, fmt.Errorf("resample: replicate %d: %w", j, err)
		}
		return e, nil
	})
	if err != nil {
		return Distribution{}, err
	}
	for j, e := range fits {
		if err = out.Exposures.SetColumn(j, e); err != nil {
			return Distribution{}, err
		}
		if out.Errors[j], err = decompose.Residual(target, sigs, e); err != nil {
			return Distribution{}, err
		}
	}

	return out, nil
}
