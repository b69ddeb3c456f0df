package decompose

import (
	"fmt"

	"github.com/katalvlaran/sigfit/signature"
)

var (
	// ErrNilDecomposer is returned when a nil strategy is supplied.
	ErrNilDecomposer = signature.NewClassed(signature.ErrValidation, "decompose: nil decomposition strategy")

	// ErrSingularGram means PᵀP is not positive definite: duplicate or
	// collinear signatures, or fewer categories than signatures.
	ErrSingularGram = signature.NewClassed(signature.ErrOptimizerFailure, "decompose: signature Gram matrix is singular")

	// ErrInfeasible means no step could satisfy the next violated constraint.
	ErrInfeasible = signature.NewClassed(signature.ErrOptimizerFailure, "decompose: constraints are infeasible")

	// ErrNotConverged means the iteration cap was reached.
	ErrNotConverged = signature.NewClassed(signature.ErrOptimizerFailure, "decompose: solver did not converge")

	// ErrDegenerateActiveSet means the active constraint normals became
	// linearly dependent.
	ErrDegenerateActiveSet = signature.NewClassed(signature.ErrOptimizerFailure, "decompose: degenerate active set")
)

// NumericalWarning reports that a solution needed more clipping than the
// warning tolerance allows. It is logged by default and returned as an error
// only in strict mode, where it counts as an optimizer failure.
type NumericalWarning struct {
	Solver    string
	MaxClip   float64 // largest |negative entry| removed by clipping
	Tolerance float64
}

func (w *NumericalWarning) Error() string {
	return fmt.Sprintf("decompose: %s clipped %.3g below zero (tolerance %.3g)", w.Solver, w.MaxClip, w.Tolerance)
}

func (w *NumericalWarning) Unwrap() error { return signature.ErrOptimizerFailure }
