package decompose

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/sigfit/signature"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// SolverReference is the solver name reported to logs and observers.
const SolverReference = "reference"

// ReferenceOptions configures the general-purpose decomposer.
type ReferenceOptions struct {
	MajorIterations   int     // 0 selects 5000
	GradientThreshold float64 // 0 selects 1e-12
	WarnTolerance     float64 // 0 selects DefaultWarnTolerance
	Logger            *zap.Logger
	Observer          Observer
}

// Reference minimizes the same objective as QP with gonum's L-BFGS over a
// softmax parametrization e = softmax(θ), which keeps every iterate on the
// simplex. Exposures that belong on the boundary only approach zero, so
// agreement with QP is within optimizer tolerance rather than exact. Intended
// for cross-checking, not for production runs.
type Reference struct {
	opts ReferenceOptions
	log  *zap.Logger
}

var _ Decomposer = (*Reference)(nil)

// NewReference builds a Reference decomposer.
func NewReference(opts ReferenceOptions) *Reference {
	if opts.MajorIterations <= 0 {
		opts.MajorIterations = 5000
	}
	if opts.GradientThreshold <= 0 {
		opts.GradientThreshold = 1e-12
	}
	if opts.WarnTolerance <= 0 {
		opts.WarnTolerance = DefaultWarnTolerance
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Reference{opts: opts, log: log.With(zap.String("solver", SolverReference))}
}

// Decompose fits profile against sigs starting from uniform exposures.
//
// Errors: the validation errors of QP.Decompose, and ErrNotConverged when
// the optimizer stops on a limit or fails.
func (r *Reference) Decompose(profile []float64, sigs *signature.Catalog) ([]float64, error) {
	start := time.Now()
	e, status, err := r.decompose(profile, sigs)
	if r.opts.Observer != nil {
		r.opts.Observer.ObserveSolve(SolverReference, status, time.Since(start))
	}

	return e, err
}

func (r *Reference) decompose(profile []float64, sigs *signature.Catalog) ([]float64, string, error) {
	if err := signature.RequireDecomposable(sigs); err != nil {
		return nil, StatusInvalid, err
	}
	if err := sigs.ValidateProfile(profile); err != nil {
		return nil, StatusInvalid, err
	}
	n := sigs.Len()

	// f(θ) = ½‖m − P·softmax(θ)‖²; same minimizer as the unsquared norm.
	objective := func(theta []float64) float64 {
		e := softmax(theta)
		recon, err := sigs.Reconstruct(e)
		if err != nil {
			return math.NaN()
		}
		d := floats.Distance(profile, recon, 2)
		return 0.5 * d * d
	}
	gradient := func(grad, theta []float64) {
		e := softmax(theta)
		recon, _ := sigs.Reconstruct(e)
		floats.Sub(recon, profile)
		// ∂f/∂e = Pᵀ(P·e − m)
		ge, _ := sigs.Project(recon)
		// chain rule through softmax: ∂f/∂θ_k = e_k (g_k − eᵀg)
		mean := floats.Dot(e, ge)
		for k := range grad {
			grad[k] = e[k] * (ge[k] - mean)
		}
	}

	problem := optimize.Problem{Func: objective, Grad: gradient}
	settings := &optimize.Settings{
		GradientThreshold: r.opts.GradientThreshold,
		MajorIterations:   r.opts.MajorIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-16,
			Iterations: 200,
		},
	}
	res, err := optimize.Minimize(problem, make([]float64, n), settings, &optimize.LBFGS{})
	switch {
	case res != nil && errors.Is(err, optimize.ErrNoProgress):
		// Line search hit the floating-point floor; the best point is the answer.
	case err != nil:
		return nil, StatusFailed, fmt.Errorf("%w: %w", ErrNotConverged, err)
	case res == nil:
		return nil, StatusFailed, ErrNotConverged
	case res.Status.Err() != nil:
		return nil, StatusFailed, fmt.Errorf("%w: %w", ErrNotConverged, res.Status.Err())
	}

	return finish(SolverReference, softmax(res.Location.X), r.opts.WarnTolerance, false, r.log, r.opts.Observer)
}

// softmax maps θ to the open simplex, shifting by max(θ) for stability.
func softmax(theta []float64) []float64 {
	out := make([]float64, len(theta))
	shift := floats.Max(theta)
	for i, t := range theta {
		out[i] = math.Exp(t - shift)
	}
	floats.Scale(1/floats.Sum(out), out)

	return out
}
