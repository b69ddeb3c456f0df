package selection

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/katalvlaran/sigfit/exposure"
	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/parallel"
	"github.com/katalvlaran/sigfit/resample"
	"github.com/katalvlaran/sigfit/rng"
	"github.com/katalvlaran/sigfit/signature"
	"github.com/katalvlaran/sigfit/significance"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Round is one step of the selection trace.
//
// Backward rounds evaluate Active and report one p-value per active
// signature. Forward rounds report one p-value per entry of Candidates, each
// the candidate's own p-value in the subset Active ∪ {candidate}.
// Removed and Added are catalog indices, −1 when nothing changed.
type Round struct {
	Index      int
	Active     []int
	Candidates []int
	PValues    []float64
	Removed    int
	Added      int
}

// Result is the outcome of a selection run.
type Result struct {
	RunID        string
	Direction    Direction
	Kept         []int    // catalog indices, ascending
	IDs          []string // parallel to Kept
	Distribution resample.Distribution
	PValues      []float64       // final subset, parallel to Kept
	Point        exposure.Result // fit of the profile itself on Kept
	Rounds       []Round
}

// run carries per-call state shared by both directions.
type run struct {
	id       string
	opts     Options
	sigs     *signature.Catalog
	target   []float64
	profiles *matrix.Dense
	ties     *rand.Rand
	log      *zap.Logger
	dir      Direction
}

// Select runs the stepwise procedure given by dir.
//
// Errors:
//   - validation: signature.ErrTooFewSignatures, signature.ErrShapeMismatch,
//     signature.ErrBadProfile, ErrInvalidOptions, decompose.ErrNilDecomposer,
//     resample.ErrEventCountRequired, resample.ErrInvalidFoldWidth,
//     signature.ErrBadSubset (Initial).
//   - optimizer failures from the decomposer, unretried.
//   - ctx.Err() on cancellation.
func Select(ctx context.Context, m []float64, sigs *signature.Catalog, dir Direction, opts Options) (Result, error) {
	switch dir {
	case DirectionBackward:
		if len(opts.Initial) > 0 {
			return Result{}, fmt.Errorf("%w: initial subset is forward-only", ErrInvalidOptions)
		}
	case DirectionForward:
	default:
		return Result{}, fmt.Errorf("%w: direction %v", ErrInvalidOptions, dir)
	}
	r, err := newRun(m, sigs, dir, opts)
	if err != nil {
		return Result{}, err
	}
	var kept []int
	var rounds []Round
	if dir == DirectionBackward {
		kept, rounds, err = r.backward(ctx)
	} else {
		kept, rounds, err = r.forward(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	return r.finish(ctx, kept, rounds)
}

// Backward is Select with DirectionBackward.
func Backward(ctx context.Context, m []float64, sigs *signature.Catalog, opts Options) (Result, error) {
	return Select(ctx, m, sigs, DirectionBackward, opts)
}

// Forward is Select with DirectionForward.
//
// A candidate is accepted when its p-value is below SignificanceLevel and is
// the lowest of the round; that round minimum is the best p-value on offer.
// Earlier additions do not raise the bar, so a later candidate with a larger
// p-value than a previous addition is still added while it stays below α.
func Forward(ctx context.Context, m []float64, sigs *signature.Catalog, opts Options) (Result, error) {
	return Select(ctx, m, sigs, DirectionForward, opts)
}

func newRun(m []float64, sigs *signature.Catalog, dir Direction, opts Options) (*run, error) {
	if err := signature.RequireDecomposable(sigs); err != nil {
		return nil, err
	}
	if err := sigs.ValidateProfile(m); err != nil {
		return nil, err
	}
	opts, err := opts.normalize(sigs.Len())
	if err != nil {
		return nil, err
	}
	target, err := matrix.NormalizeL1(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", signature.ErrBadProfile, err)
	}

	var profiles *matrix.Dense
	switch opts.Method {
	case Bootstrap:
		t, err := resample.EventCount(m, opts.EventCount)
		if err != nil {
			return nil, err
		}
		if profiles, err = resample.BootstrapProfiles(m, opts.Replicates, t, opts.Seed); err != nil {
			return nil, err
		}
	case CrossValidation:
		profiles, err = resample.CrossValidationProfiles(m, resample.CrossValidationOptions{
			FoldWidth: opts.FoldWidth,
			FoldCount: opts.FoldCount,
			Shuffle:   opts.Shuffle,
			Seed:      opts.Seed,
		})
		if err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	return &run{
		id:       id,
		opts:     opts,
		sigs:     sigs,
		target:   target,
		profiles: profiles,
		ties:     rng.Derive(opts.Seed, rng.StreamTieBreak),
		log: opts.Logger.With(
			zap.String("run_id", id),
			zap.Stringer("direction", dir),
			zap.Stringer("method", opts.Method),
		),
		dir: dir,
	}, nil
}

// evaluate fits the resampled profiles on the catalog subset active (catalog
// indices, ascending) and returns the distribution and per-signature
// pseudo p-values in the same order.
func (r *run) evaluate(ctx context.Context, active []int, workers int) (resample.Distribution, []float64, error) {
	sub, err := r.sigs.Subset(active)
	if err != nil {
		return resample.Distribution{}, nil, err
	}
	ev := resample.Evaluator{Decomposer: r.opts.Decomposer, Workers: workers}
	dist, err := ev.Evaluate(ctx, r.profiles, r.target, sub)
	if err != nil {
		return resample.Distribution{}, nil, err
	}
	p, err := significance.PseudoPValues(dist.Exposures, r.opts.Threshold)
	if err != nil {
		return resample.Distribution{}, nil, err
	}

	return dist, p, nil
}

func (r *run) observeRound(rd Round) {
	r.log.Debug("selection round",
		zap.Int("round", rd.Index),
		zap.Ints("active", rd.Active),
		zap.Float64s("p_values", rd.PValues),
		zap.Int("removed", rd.Removed),
		zap.Int("added", rd.Added),
	)
	if r.opts.Metrics != nil {
		r.opts.Metrics.ObserveRound(r.dir.String())
	}
}

// extremes returns the positions in p equal to the extreme chosen by better.
func extremes(p []float64, better func(a, b float64) bool) []int {
	best := p[0]
	for _, v := range p[1:] {
		if better(v, best) {
			best = v
		}
	}
	var idx []int
	for i, v := range p {
		if v == best {
			idx = append(idx, i)
		}
	}

	return idx
}

func (r *run) backward(ctx context.Context) ([]int, []Round, error) {
	active := make([]int, r.sigs.Len())
	for i := range active {
		active[i] = i
	}
	var rounds []Round
	for round := 0; round < r.opts.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		_, p, err := r.evaluate(ctx, active, r.opts.Workers)
		if err != nil {
			return nil, nil, err
		}
		rd := Round{Index: round, Active: slices.Clone(active), PValues: p, Removed: -1, Added: -1}

		worst := extremes(p, func(a, b float64) bool { return a > b })
		if p[worst[0]] > r.opts.SignificanceLevel && len(active) > r.opts.MinSignatures {
			pos := rng.Pick(worst, r.ties)
			rd.Removed = active[pos]
			active = slices.Delete(active, pos, pos+1)
		}
		rounds = append(rounds, rd)
		r.observeRound(rd)
		if rd.Removed < 0 {
			break
		}
	}

	return active, rounds, nil
}

// seed returns the forward starting subset: Initial when given, otherwise the
// signature whose column is closest to the normalized profile.
func (r *run) seed() ([]int, error) {
	if len(r.opts.Initial) > 0 {
		active := slices.Clone(r.opts.Initial)
		slices.Sort(active)
		if _, err := r.sigs.Subset(active); err != nil {
			return nil, err
		}
		return active, nil
	}
	dist := make([]float64, r.sigs.Len())
	for j := range dist {
		col, err := r.sigs.Column(j)
		if err != nil {
			return nil, err
		}
		dist[j] = floats.Distance(r.target, col, 2)
	}
	closest := extremes(dist, func(a, b float64) bool { return a < b })

	return []int{rng.Pick(closest, r.ties)}, nil
}

func (r *run) forward(ctx context.Context) ([]int, []Round, error) {
	active, err := r.seed()
	if err != nil {
		return nil, nil, err
	}
	n := r.sigs.Len()
	var rounds []Round
	for round := 0; round < r.opts.MaxRounds && len(active) < n; round++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		candidates := make([]int, 0, n-len(active))
		for j := 0; j < n; j++ {
			if !slices.Contains(active, j) {
				candidates = append(candidates, j)
			}
		}

		p, err := parallel.Collect(ctx, len(candidates), r.opts.Workers, func(ctx context.Context, i int) (float64, error) {
			c := candidates[i]
			trial := append(slices.Clone(active), c)
			slices.Sort(trial)
			_, pv, err := r.evaluate(ctx, trial, 1)
			if err != nil {
				return 0, err
			}
			return pv[slices.Index(trial, c)], nil
		})
		if err != nil {
			return nil, nil, err
		}
		rd := Round{Index: round, Active: slices.Clone(active), Candidates: candidates, PValues: p, Removed: -1, Added: -1}

		best := extremes(p, func(a, b float64) bool { return a < b })
		if p[best[0]] < r.opts.SignificanceLevel {
			rd.Added = candidates[rng.Pick(best, r.ties)]
			active = append(active, rd.Added)
			slices.Sort(active)
		}
		rounds = append(rounds, rd)
		r.observeRound(rd)
		if rd.Added < 0 {
			break
		}
	}

	return active, rounds, nil
}

// finish evaluates the kept subset once more and fits the profile itself.
func (r *run) finish(ctx context.Context, kept []int, rounds []Round) (Result, error) {
	dist, p, err := r.evaluate(ctx, kept, r.opts.Workers)
	if err != nil {
		return Result{}, err
	}
	sub, err := r.sigs.Subset(kept)
	if err != nil {
		return Result{}, err
	}
	point, err := r.point(sub)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		RunID:        r.id,
		Direction:    r.dir,
		Kept:         kept,
		IDs:          sub.IDs(),
		Distribution: dist,
		PValues:      p,
		Point:        point,
		Rounds:       rounds,
	}
	r.log.Info("selection finished",
		zap.Strings("kept", res.IDs),
		zap.Int("rounds", len(rounds)),
		zap.Float64("point_error", point.Errors[0]),
	)

	return res, nil
}

// point fits the normalized profile on sub; a single signature is its own
// fit.
func (r *run) point(sub *signature.Catalog) (exposure.Result, error) {
	var e []float64
	var res float64
	if sub.Len() == 1 {
		col, err := sub.Column(0)
		if err != nil {
			return exposure.Result{}, err
		}
		e, res = []float64{1}, floats.Distance(r.target, col, 2)
	} else {
		est, err := exposure.New(exposure.Options{Decomposer: r.opts.Decomposer, Logger: r.log})
		if err != nil {
			return exposure.Result{}, err
		}
		if e, res, err = est.Point(r.target, sub); err != nil {
			return exposure.Result{}, err
		}
	}
	ex, err := matrix.NewDenseFromColumns([][]float64{e})
	if err != nil {
		return exposure.Result{}, err
	}

	return exposure.Result{Exposures: ex, Errors: []float64{res}}, nil
}
