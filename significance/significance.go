// Package significance turns an empirical exposure distribution into
// per-signature evidence: detection frequencies, pseudo p-values and summary
// statistics.
//
// Exposures are compared as produced by the decomposer (already clipped and
// renormalized onto the simplex); no further normalization happens here.
package significance

import (
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/signature"
	"gonum.org/v1/gonum/stat"
)

// DefaultThreshold is the exposure level above which a signature counts as
// detected in a replicate.
const DefaultThreshold = 0.01

// ErrInvalidThreshold is returned for a threshold outside [0, 1) or non-finite.
var ErrInvalidThreshold = signature.NewClassed(signature.ErrValidation, "significance: threshold must be finite and in [0,1)")

func validate(e *matrix.Dense, tau float64) error {
	if e == nil {
		return fmt.Errorf("%w: %w", signature.ErrValidation, matrix.ErrNilMatrix)
	}
	if math.IsNaN(tau) || tau < 0 || tau >= 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidThreshold, tau)
	}

	return nil
}

// DetectionFrequency returns, for every row (signature) of e, the fraction
// of columns (replicates) whose exposure is strictly greater than tau.
//
// Complexity: O(N·R).
func DetectionFrequency(e *matrix.Dense, tau float64) ([]float64, error) {
	if err := validate(e, tau); err != nil {
		return nil, err
	}
	n, r := e.Shape()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		row, err := e.Row(i)
		if err != nil {
			return nil, err
		}
		var hits int
		for _, x := range row {
			if x > tau {
				hits++
			}
		}
		out[i] = float64(hits) / float64(r)
	}

	return out, nil
}

// PseudoPValues returns 1 − DetectionFrequency(e, tau) per signature. A value
// near 0 means the signature is present in almost every replicate.
func PseudoPValues(e *matrix.Dense, tau float64) ([]float64, error) {
	freq, err := DetectionFrequency(e, tau)
	if err != nil {
		return nil, err
	}
	for i, f := range freq {
		freq[i] = 1 - f
	}

	return freq, nil
}

// Summary describes one signature's exposure distribution.
type Summary struct {
	Mean   float64
	StdDev float64 // sample standard deviation; 0 for a single replicate
	Median float64
	Lower  float64 // 2.5% empirical quantile
	Upper  float64 // 97.5% empirical quantile
}

// Summarize computes a Summary per row of e.
//
// Complexity: O(N·R log R).
func Summarize(e *matrix.Dense) ([]Summary, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrValidation, matrix.ErrNilMatrix)
	}
	n, r := e.Shape()
	out := make([]Summary, n)
	for i := 0; i < n; i++ {
		row, err := e.Row(i)
		if err != nil {
			return nil, err
		}
		slices.Sort(row)
		s := Summary{
			Median: stat.Quantile(0.5, stat.Empirical, row, nil),
			Lower:  stat.Quantile(0.025, stat.Empirical, row, nil),
			Upper:  stat.Quantile(0.975, stat.Empirical, row, nil),
		}
		if r > 1 {
			s.Mean, s.StdDev = stat.MeanStdDev(row, nil)
		} else {
			s.Mean = row[0]
		}
		out[i] = s
	}

	return out, nil
}
