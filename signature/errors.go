package signature

import "errors"

// Error classes. Every failure reported by the refitting packages wraps
// exactly one of these, so callers can branch with errors.Is on the class and
// still match the specific sentinel.
var (
	// ErrValidation marks malformed input: shape mismatches, too few
	// signatures, a missing decomposition strategy, bad options.
	ErrValidation = errors.New("sigfit: validation error")

	// ErrOptimizerFailure marks a decomposition that could not produce a
	// solution: singular Gram matrix, infeasible constraints, iteration cap.
	ErrOptimizerFailure = errors.New("sigfit: optimizer failure")
)

// Catalog-level sentinels, each wrapping ErrValidation.
var (
	ErrNilCatalog       = NewClassed(ErrValidation, "signature: nil catalog")
	ErrTooFewSignatures = NewClassed(ErrValidation, "signature: at least 2 signatures are required")
	ErrNegativeWeight   = NewClassed(ErrValidation, "signature: negative signature weight")
	ErrColumnSum        = NewClassed(ErrValidation, "signature: signature column does not sum to 1")
	ErrIDCount          = NewClassed(ErrValidation, "signature: id count does not match signature count")
	ErrDuplicateID      = NewClassed(ErrValidation, "signature: duplicate signature id")
	ErrUnknownID        = NewClassed(ErrValidation, "signature: unknown signature id")
	ErrBadSubset        = NewClassed(ErrValidation, "signature: invalid signature subset")
	ErrShapeMismatch    = NewClassed(ErrValidation, "signature: profile length does not match catalog categories")
	ErrBadProfile       = NewClassed(ErrValidation, "signature: profile must be finite, nonnegative and non-zero")
)

// classedError is a sentinel that belongs to an error class.
type classedError struct {
	class error
	msg   string
}

func (e *classedError) Error() string { return e.msg }

func (e *classedError) Unwrap() error { return e.class }

// NewClassed returns a new sentinel whose errors.Is chain reaches class.
func NewClassed(class error, msg string) error {
	return &classedError{class: class, msg: msg}
}
