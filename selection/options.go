package selection

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/signature"
	"github.com/katalvlaran/sigfit/significance"
	"go.uber.org/zap"
)

// ErrInvalidOptions is returned for options that cannot drive a selection run.
var ErrInvalidOptions = signature.NewClassed(signature.ErrValidation, "selection: invalid options")

// Method selects the resampling scheme behind the pseudo p-values.
type Method int

const (
	// Bootstrap resamples the sample's mutations with replacement.
	Bootstrap Method = iota

	// CrossValidation masks folds of mutation categories.
	CrossValidation
)

func (m Method) String() string {
	switch m {
	case Bootstrap:
		return "bootstrap"
	case CrossValidation:
		return "cross_validation"
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps "bootstrap" and "cross_validation" (also "cv",
// "crossvalidation") to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bootstrap":
		return Bootstrap, nil
	case "cross_validation", "crossvalidation", "cv":
		return CrossValidation, nil
	}

	return 0, fmt.Errorf("%w: unknown method %q", ErrInvalidOptions, s)
}

// Direction selects backward elimination or forward addition.
type Direction int

const (
	// DirectionBackward starts from all signatures and removes.
	DirectionBackward Direction = iota

	// DirectionForward starts from one signature and adds.
	DirectionForward
)

func (d Direction) String() string {
	switch d {
	case DirectionBackward:
		return "backward"
	case DirectionForward:
		return "forward"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection maps "backward" and "forward" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "backward":
		return DirectionBackward, nil
	case "forward":
		return DirectionForward, nil
	}

	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidOptions, s)
}

// RoundObserver counts completed selection rounds. metrics.Collector
// implements it.
type RoundObserver interface {
	ObserveRound(direction string)
}

// Defaults used by DefaultOptions.
const (
	DefaultReplicates        = 100
	DefaultSignificanceLevel = 0.05
	DefaultMinSignatures     = 2
)

// Options configures a selection run. Start from DefaultOptions; fields are
// taken literally except where noted.
type Options struct {
	Method Method

	// Bootstrap settings.
	Replicates int
	EventCount int // 0 infers the count from whole-number profiles

	// Cross-validation settings; exactly one of FoldWidth and FoldCount.
	FoldWidth int
	FoldCount int
	Shuffle   bool

	Threshold         float64 // τ, exposure level counted as detected
	SignificanceLevel float64 // α
	MinSignatures     int     // values below 2 are raised to 2
	MaxRounds         int     // 0 selects N
	Initial           []int   // forward only: starting subset; rejected for backward

	Seed       uint64
	Workers    int
	Decomposer decompose.Decomposer
	Logger     *zap.Logger
	Metrics    RoundObserver
}

// DefaultOptions returns bootstrap selection with 100 replicates, τ = 0.01,
// α = 0.05 and the QP decomposer.
func DefaultOptions() Options {
	return Options{
		Method:            Bootstrap,
		Replicates:        DefaultReplicates,
		Threshold:         significance.DefaultThreshold,
		SignificanceLevel: DefaultSignificanceLevel,
		MinSignatures:     DefaultMinSignatures,
		Decomposer:        decompose.NewQP(decompose.DefaultQPOptions()),
	}
}

// normalize validates o against a catalog of n signatures and fills derived
// defaults.
func (o Options) normalize(n int) (Options, error) {
	if err := decompose.Validate(o.Decomposer); err != nil {
		return o, err
	}
	if math.IsNaN(o.Threshold) || o.Threshold < 0 || o.Threshold >= 1 {
		return o, fmt.Errorf("%w: %w: %g", ErrInvalidOptions, significance.ErrInvalidThreshold, o.Threshold)
	}
	if math.IsNaN(o.SignificanceLevel) || o.SignificanceLevel < 0 || o.SignificanceLevel > 1 {
		return o, fmt.Errorf("%w: significance level %g outside [0,1]", ErrInvalidOptions, o.SignificanceLevel)
	}
	switch o.Method {
	case Bootstrap:
		if o.Replicates < 1 {
			return o, fmt.Errorf("%w: %d replicates", ErrInvalidOptions, o.Replicates)
		}
	case CrossValidation:
	default:
		return o, fmt.Errorf("%w: method %v", ErrInvalidOptions, o.Method)
	}
	if o.MaxRounds < 0 {
		return o, fmt.Errorf("%w: max rounds %d", ErrInvalidOptions, o.MaxRounds)
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = n
	}
	if o.MinSignatures < DefaultMinSignatures {
		o.MinSignatures = DefaultMinSignatures
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return o, nil
}
