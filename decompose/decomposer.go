package decompose

import (
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/sigfit/signature"
	"gonum.org/v1/gonum/floats"
)

// Decomposer fits one profile against a catalog, returning exposures on the
// probability simplex (nonnegative, summing to 1) in catalog column order.
//
// Implementations must be safe for concurrent use: estimators and resamplers
// call Decompose from many goroutines with the same catalog.
type Decomposer interface {
	Decompose(profile []float64, sigs *signature.Catalog) ([]float64, error)
}

// DecomposerFunc adapts an ordinary function to the Decomposer interface.
type DecomposerFunc func(profile []float64, sigs *signature.Catalog) ([]float64, error)

// Decompose calls f(profile, sigs).
func (f DecomposerFunc) Decompose(profile []float64, sigs *signature.Catalog) ([]float64, error) {
	return f(profile, sigs)
}

// Observer receives solver telemetry. metrics.Collector implements it.
type Observer interface {
	ObserveSolve(solver, status string, elapsed time.Duration)
	ObserveClip(solver string, maxClip float64, warned bool)
}

// Solve statuses reported to Observer.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusFailed  = "failed"
	StatusInvalid = "invalid"
)

// Validate returns ErrNilDecomposer when d is nil (including a nil func).
func Validate(d Decomposer) error {
	if d == nil {
		return ErrNilDecomposer
	}
	if f, ok := d.(DecomposerFunc); ok && f == nil {
		return ErrNilDecomposer
	}

	return nil
}

// Residual returns ‖m − P·e‖₂.
//
// Errors: signature.ErrShapeMismatch when len(m) != K or len(e) != N.
func Residual(m []float64, sigs *signature.Catalog, e []float64) (float64, error) {
	if sigs == nil {
		return 0, signature.ErrNilCatalog
	}
	if len(m) != sigs.Categories() || len(e) != sigs.Len() {
		return 0, fmt.Errorf("%w: profile %d/%d, exposures %d/%d",
			signature.ErrShapeMismatch, len(m), sigs.Categories(), len(e), sigs.Len())
	}
	res, err := sigs.Residual(m, e)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", signature.ErrValidation, err)
	}

	return res, nil
}

// ClipAndNormalize sets negative entries to zero and rescales to unit sum.
// It returns the result and the largest clipped magnitude. The input is not
// modified.
//
// Errors: ErrInfeasible when nothing positive remains.
func ClipAndNormalize(e []float64) ([]float64, float64, error) {
	out := make([]float64, len(e))
	var maxClip float64
	for i, v := range e {
		if v <= 0 {
			maxClip = math.Max(maxClip, -v)
			continue
		}
		out[i] = v
	}
	s := floats.Sum(out)
	if !(s > 0) {
		return nil, maxClip, fmt.Errorf("%w: no positive exposure after clipping", ErrInfeasible)
	}
	floats.Scale(1/s, out)

	return out, maxClip, nil
}
