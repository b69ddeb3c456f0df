package resample

import "github.com/katalvlaran/sigfit/signature"

var (
	// ErrEventCountRequired is returned when no event count is given and the
	// profile does not consist of whole-number counts.
	ErrEventCountRequired = signature.NewClassed(signature.ErrValidation,
		"resample: event count required when the profile is not whole-number counts")

	// ErrInvalidEventCount is returned for an explicit event count below 1.
	ErrInvalidEventCount = signature.NewClassed(signature.ErrValidation, "resample: event count must be at least 1")

	// ErrInvalidReplicates is returned for a replicate count below 1.
	ErrInvalidReplicates = signature.NewClassed(signature.ErrValidation, "resample: replicate count must be at least 1")

	// ErrInvalidFoldWidth is returned for a fold width or fold count below 1,
	// or when both are set.
	ErrInvalidFoldWidth = signature.NewClassed(signature.ErrValidation, "resample: invalid fold width")

	// ErrDegenerateFold is returned when masking a fold leaves no mass.
	ErrDegenerateFold = signature.NewClassed(signature.ErrValidation, "resample: fold removes all mutation mass")
)
