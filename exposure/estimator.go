package exposure

import (
	"context"
	"fmt"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/parallel"
	"github.com/katalvlaran/sigfit/signature"
	"go.uber.org/zap"
)

// Options configures an Estimator.
//
// Fields:
//   - Decomposer: strategy applied to every column; required.
//   - Workers   : bound on concurrent decompositions; ≤0 selects GOMAXPROCS.
//   - Logger    : receives per-column failures at Warn; nil disables logging.
type Options struct {
	Decomposer decompose.Decomposer
	Workers    int
	Logger     *zap.Logger
}

// Result holds the fitted exposures and per-sample residuals.
type Result struct {
	Exposures *matrix.Dense // N×G, column g on the simplex
	Errors    []float64     // len G, ‖m̂_g − P·e_g‖₂
}

// Estimator fits exposures for whole count matrices.
type Estimator struct {
	opts Options
	log  *zap.Logger
}

// New validates opts and returns an Estimator.
//
// Errors: decompose.ErrNilDecomposer.
func New(opts Options) (*Estimator, error) {
	if err := decompose.Validate(opts.Decomposer); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Estimator{opts: opts, log: log}, nil
}

// Estimate decomposes every column of counts against sigs.
//
// Implementation:
//   - Stage 1: validate shapes (rows == K, N ≥ 2) and every column (finite,
//     nonnegative, nonzero sum).
//   - Stage 2: normalize columns to unit sum (NormalizeColumnsL1).
//   - Stage 3: decompose columns in parallel; column g writes only slot g.
//   - Stage 4: assemble E (N×G) and the residual vector.
//
// Determinism: the result does not depend on Workers or scheduling.
//
// Complexity: G independent solves plus O(K·N·G) for residuals.
func (est *Estimator) Estimate(ctx context.Context, counts *matrix.Dense, sigs *signature.Catalog) (Result, error) {
	if err := signature.RequireDecomposable(sigs); err != nil {
		return Result{}, err
	}
	if counts == nil {
		return Result{}, fmt.Errorf("%w: %w", signature.ErrValidation, matrix.ErrNilMatrix)
	}
	if counts.Rows() != sigs.Categories() {
		return Result{}, fmt.Errorf("%w: matrix has %d rows, catalog has %d categories",
			signature.ErrShapeMismatch, counts.Rows(), sigs.Categories())
	}

	g := counts.Cols()
	for j := 0; j < g; j++ {
		col, err := counts.Column(j)
		if err != nil {
			return Result{}, &ColumnError{Column: j, Err: err}
		}
		if err = sigs.ValidateProfile(col); err != nil {
			return Result{}, &ColumnError{Column: j, Err: err}
		}
	}
	norm, _, err := matrix.NormalizeColumnsL1(counts)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}
	profiles := make([][]float64, g)
	for j := range profiles {
		if profiles[j], err = norm.Column(j); err != nil {
			return Result{}, &ColumnError{Column: j, Err: err}
		}
	}

	type fit struct {
		e   []float64
		res float64
	}
	fits, err := parallel.Collect(ctx, g, est.opts.Workers, func(_ context.Context, j int) (fit, error) {
		e, err := est.opts.Decomposer.Decompose(profiles[j], sigs)
		if err != nil {
			est.log.Warn("column decomposition failed", zap.Int("column", j), zap.Error(err))
			return fit{}, &ColumnError{Column: j, Err: err}
		}
		res, err := decompose.Residual(profiles[j], sigs, e)
		if err != nil {
			return fit{}, &ColumnError{Column: j, Err: err}
		}
		return fit{e: e, res: res}, nil
	})
	if err != nil {
		return Result{}, err
	}

	out := Result{Errors: make([]float64, g)}
	if out.Exposures, err = matrix.NewDense(sigs.Len(), g); err != nil {
		return Result{}, err
	}
	for j, f := range fits {
		if err = out.Exposures.SetColumn(j, f.e); err != nil {
			return Result{}, &ColumnError{Column: j, Err: err}
		}
		out.Errors[j] = f.res
	}

	return out, nil
}

// Point fits a single profile; a convenience for callers with one sample.
func (est *Estimator) Point(profile []float64, sigs *signature.Catalog) ([]float64, float64, error) {
	if err := signature.RequireDecomposable(sigs); err != nil {
		return nil, 0, err
	}
	if err := sigs.ValidateProfile(profile); err != nil {
		return nil, 0, err
	}
	m, err := matrix.NormalizeL1(profile)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}
	e, err := est.opts.Decomposer.Decompose(m, sigs)
	if err != nil {
		return nil, 0, err
	}
	res, err := decompose.Residual(m, sigs, e)
	if err != nil {
		return nil, 0, err
	}

	return e, res, nil
}
