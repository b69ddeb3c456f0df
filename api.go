package sigfit

import (
	"context"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/exposure"
	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/metrics"
	"github.com/katalvlaran/sigfit/resample"
	"github.com/katalvlaran/sigfit/selection"
	"github.com/katalvlaran/sigfit/signature"
	"go.uber.org/zap"
)

// Option configures a facade call.
type Option func(*settings)

type settings struct {
	seed       uint64
	workers    int
	decomposer decompose.Decomposer
	logger     *zap.Logger
	metrics    *metrics.Collector
	eventCount int
	method     selection.Method
	foldWidth  int
	shuffle    bool
}

// WithSeed sets the base seed of every random stream.
func WithSeed(seed uint64) Option { return func(s *settings) { s.seed = seed } }

// WithWorkers bounds concurrent decompositions; ≤0 selects GOMAXPROCS.
func WithWorkers(n int) Option { return func(s *settings) { s.workers = n } }

// WithDecomposer replaces the default QP decomposer.
func WithDecomposer(d decompose.Decomposer) Option { return func(s *settings) { s.decomposer = d } }

// WithLogger sets the logger for warnings and selection traces.
func WithLogger(l *zap.Logger) Option { return func(s *settings) { s.logger = l } }

// WithMetrics reports solver and selection activity to c.
func WithMetrics(c *metrics.Collector) Option { return func(s *settings) { s.metrics = c } }

// WithEventCount sets the bootstrap event count used by SelectSignatures.
func WithEventCount(t int) Option { return func(s *settings) { s.eventCount = t } }

// WithMethod selects the resampling scheme of SelectSignatures.
func WithMethod(m selection.Method) Option { return func(s *settings) { s.method = m } }

// WithFolds sets cross-validation folding for SelectSignatures when the
// method is selection.CrossValidation.
func WithFolds(width int, shuffle bool) Option {
	return func(s *settings) { s.foldWidth, s.shuffle = width, shuffle }
}

func apply(opts []Option) settings {
	s := settings{method: selection.Bootstrap}
	for _, o := range opts {
		o(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.decomposer == nil {
		qp := decompose.DefaultQPOptions()
		qp.Logger = s.logger
		if s.metrics != nil {
			qp.Observer = s.metrics
		}
		s.decomposer = decompose.NewQP(qp)
	}

	return s
}

// DecomposeSingle fits profile against sigs with the default QP decomposer.
// The profile is used as given; the result is nonnegative and sums to 1.
func DecomposeSingle(profile []float64, sigs *signature.Catalog, opts ...Option) ([]float64, error) {
	return apply(opts).decomposer.Decompose(profile, sigs)
}

// EstimateExposures fits every column of counts (K×G) against sigs.
func EstimateExposures(ctx context.Context, counts *matrix.Dense, sigs *signature.Catalog, opts ...Option) (exposure.Result, error) {
	s := apply(opts)
	est, err := exposure.New(exposure.Options{Decomposer: s.decomposer, Workers: s.workers, Logger: s.logger})
	if err != nil {
		return exposure.Result{}, err
	}

	return est.Estimate(ctx, counts, sigs)
}

// Bootstrap returns r bootstrap replicates of profile's exposures. An
// eventCount of 0 infers the count from whole-number profiles.
func Bootstrap(ctx context.Context, profile []float64, sigs *signature.Catalog, r, eventCount int, opts ...Option) (resample.Distribution, error) {
	s := apply(opts)

	return resample.Bootstrap(ctx, profile, sigs, resample.BootstrapOptions{
		Replicates: r,
		EventCount: eventCount,
		Seed:       s.seed,
		Workers:    s.workers,
		Decomposer: s.decomposer,
	})
}

// CrossValidate returns one exposure vector per fold of foldWidth categories.
func CrossValidate(ctx context.Context, profile []float64, sigs *signature.Catalog, foldWidth int, shuffle bool, opts ...Option) (resample.Distribution, error) {
	s := apply(opts)

	return resample.CrossValidate(ctx, profile, sigs, resample.CrossValidationOptions{
		FoldWidth:  foldWidth,
		Shuffle:    shuffle,
		Seed:       s.seed,
		Workers:    s.workers,
		Decomposer: s.decomposer,
	})
}

// SelectSignatures runs stepwise selection with r replicates, detection
// threshold tau and significance level alpha.
func SelectSignatures(ctx context.Context, profile []float64, sigs *signature.Catalog, r int, tau, alpha float64, dir selection.Direction, opts ...Option) (selection.Result, error) {
	s := apply(opts)
	so := selection.DefaultOptions()
	so.Method = s.method
	so.Replicates = r
	so.EventCount = s.eventCount
	so.FoldWidth = s.foldWidth
	so.Shuffle = s.shuffle
	so.Threshold = tau
	so.SignificanceLevel = alpha
	so.Seed = s.seed
	so.Workers = s.workers
	so.Decomposer = s.decomposer
	so.Logger = s.logger
	if s.metrics != nil {
		so.Metrics = s.metrics
	}

	return selection.Select(ctx, profile, sigs, dir, so)
}
