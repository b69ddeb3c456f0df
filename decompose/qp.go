package decompose

import (
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/sigfit/matrix"
	"github.com/katalvlaran/sigfit/signature"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// SolverQP is the solver name reported to logs and observers.
const SolverQP = "qp"

const (
	// DefaultWarnTolerance is the largest clipped magnitude accepted silently.
	DefaultWarnTolerance = 1e-6

	// feasibilityTol is how far below zero an exposure may sit before the
	// corresponding bound counts as violated.
	feasibilityTol = 1e-12

	// dependenceTol is the relative floor on zᵀn below which a new
	// constraint is treated as linearly dependent on the active set.
	dependenceTol = 1e-12

	// eqConstraint marks the Σe = 1 constraint in the active set.
	eqConstraint = -1
)

// QPOptions configures the active-set decomposer.
type QPOptions struct {
	// MaxIterations caps active-set steps; 0 selects 10·(N+1) with a floor of 50.
	MaxIterations int

	// WarnTolerance is the clipping magnitude above which a
	// NumericalWarning is raised; 0 selects DefaultWarnTolerance.
	WarnTolerance float64

	// Strict returns NumericalWarning as an error instead of logging it.
	Strict bool

	// Logger receives warnings; nil disables logging.
	Logger *zap.Logger

	// Observer receives solve counts, durations and clipping; may be nil.
	Observer Observer
}

// DefaultQPOptions returns the options used by NewQP(DefaultQPOptions()).
func DefaultQPOptions() QPOptions {
	return QPOptions{WarnTolerance: DefaultWarnTolerance}
}

// QP is the dual active-set (Goldfarb–Idnani) decomposer. It is stateless
// apart from its options and safe for concurrent use.
type QP struct {
	opts QPOptions
	log  *zap.Logger
}

var _ Decomposer = (*QP)(nil)

// NewQP builds a QP decomposer.
func NewQP(opts QPOptions) *QP {
	if opts.WarnTolerance <= 0 {
		opts.WarnTolerance = DefaultWarnTolerance
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &QP{opts: opts, log: log.With(zap.String("solver", SolverQP))}
}

// Decompose solves min ‖m − P·e‖ on the probability simplex.
// MAIN DESCRIPTION:
//   - Exact solution of the simplex-constrained least-squares fit.
//
// Implementation:
//   - Stage 1: validate catalog (N ≥ 2) and profile (length K, finite, ≥ 0).
//   - Stage 2: fetch the catalog's cached Gram factorization (G = PᵀP).
//   - Stage 3: d = Pᵀm; run the dual active-set iteration.
//   - Stage 4: clip residual negatives, renormalize, report clipping.
//
// Errors:
//   - signature.ErrTooFewSignatures, signature.ErrShapeMismatch,
//     signature.ErrBadProfile (validation class).
//   - ErrSingularGram, ErrInfeasible, ErrNotConverged,
//     ErrDegenerateActiveSet (optimizer-failure class).
//   - *NumericalWarning in strict mode.
//
// Determinism:
//   - No randomness; fixed constraint selection order (most violated,
//     lowest index on ties).
//
// Complexity:
//   - O(K·N) for d, then O(N³) per active-set step; at most a few N steps
//     in practice.
func (q *QP) Decompose(profile []float64, sigs *signature.Catalog) ([]float64, error) {
	start := time.Now()
	e, status, err := q.decompose(profile, sigs)
	if q.opts.Observer != nil {
		q.opts.Observer.ObserveSolve(SolverQP, status, time.Since(start))
	}

	return e, err
}

func (q *QP) decompose(profile []float64, sigs *signature.Catalog) ([]float64, string, error) {
	if err := signature.RequireDecomposable(sigs); err != nil {
		return nil, StatusInvalid, err
	}
	if err := sigs.ValidateProfile(profile); err != nil {
		return nil, StatusInvalid, err
	}
	factor, err := sigs.Factor()
	if err != nil {
		return nil, StatusFailed, fmt.Errorf("%w: %w", ErrSingularGram, err)
	}
	d, err := sigs.Project(profile)
	if err != nil {
		return nil, StatusInvalid, fmt.Errorf("%w: %w", signature.ErrValidation, err)
	}

	x, err := q.solve(d, factor)
	if err != nil {
		return nil, StatusFailed, err
	}

	return finish(SolverQP, x, q.opts.WarnTolerance, q.opts.Strict, q.log, q.opts.Observer)
}

// finish clips and renormalizes a raw solution and reports clipping.
func finish(solver string, x []float64, tol float64, strict bool, log *zap.Logger, obs Observer) ([]float64, string, error) {
	e, maxClip, err := ClipAndNormalize(x)
	if err != nil {
		return nil, StatusFailed, err
	}
	warned := maxClip > tol
	if obs != nil && maxClip > 0 {
		obs.ObserveClip(solver, maxClip, warned)
	}
	if !warned {
		return e, StatusOK, nil
	}
	w := &NumericalWarning{Solver: solver, MaxClip: maxClip, Tolerance: tol}
	if strict {
		return nil, StatusFailed, w
	}
	log.Warn("exposures clipped beyond tolerance",
		zap.Float64("max_clip", maxClip),
		zap.Float64("tolerance", tol),
	)

	return e, StatusWarning, nil
}

// activeConstraint is one row of the active set: the equality or a bound.
type activeConstraint struct {
	idx  int     // eqConstraint or the bounded coordinate
	sign float64 // orientation of the normal (equality may be flipped)
}

// qpState is the working state of one active-set solve.
type qpState struct {
	n      int
	ginv   [][]float64 // columns of G⁻¹
	x      []float64
	active []activeConstraint
	u      []float64 // multipliers, parallel to active
}

// solve runs the Goldfarb–Idnani iteration for
//
//	min ½xᵀGx − dᵀx  s.t.  1ᵀx = 1,  x ≥ 0.
//
// Implementation:
//   - Stage 1: x = G⁻¹d (unconstrained minimizer), active set empty.
//   - Stage 2: pick the equality first, then the most violated bound.
//   - Stage 3: compute primal direction z = H·n⁺ and dual direction
//     r = N*·n⁺ for the current active set; take the full step t2 that
//     satisfies the new constraint or the partial step t1 that zeroes an
//     active bound multiplier, whichever is shorter; drop or add and repeat.
//
// The equality is oriented so its slack is ≤ 0, is never dropped, and its
// multiplier is free.
func (q *QP) solve(d []float64, f *signature.Factor) ([]float64, error) {
	n := len(d)
	st := &qpState{n: n, ginv: make([][]float64, n)}
	var err error
	for j := 0; j < n; j++ {
		if st.ginv[j], err = f.Inverse.Column(j); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSingularGram, err)
		}
	}
	if st.x, err = matrix.CholeskySolve(f.Cholesky, d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularGram, err)
	}

	maxIter := q.opts.MaxIterations
	if maxIter <= 0 {
		maxIter = max(50, 10*(n+1))
	}

	iter := 0
	eqActive := false
	for {
		// Stage 2: choose the constraint to add.
		var p activeConstraint
		if !eqActive {
			p = activeConstraint{idx: eqConstraint, sign: 1}
			if floats.Sum(st.x)-1 > 0 {
				p.sign = -1
			}
		} else {
			worst := -1
			for i := 0; i < n; i++ {
				if st.x[i] < -feasibilityTol && !st.isActive(i) && (worst < 0 || st.x[i] < st.x[worst]) {
					worst = i
				}
			}
			if worst < 0 {
				return st.x, nil
			}
			p = activeConstraint{idx: worst, sign: 1}
		}
		np := st.normal(p)
		uPlus := 0.0

		// Stage 3: step until p is satisfied and added.
		for added := false; !added; {
			iter++
			if iter > maxIter {
				return nil, fmt.Errorf("%w: %d active-set steps", ErrNotConverged, maxIter)
			}
			v := st.ginvTimes(np)
			z, r, err := st.directions(v, np)
			if err != nil {
				return nil, err
			}

			t1, drop := math.Inf(1), -1
			for j, c := range st.active {
				if c.idx == eqConstraint || r[j] <= 0 {
					continue
				}
				if t := st.u[j] / r[j]; t < t1 {
					t1, drop = t, j
				}
			}

			t2 := math.Inf(1)
			zn := floats.Dot(z, np)
			if zn > dependenceTol*floats.Dot(v, np) {
				t2 = -st.slack(p) / zn
				if t2 < 0 {
					t2 = 0
				}
			}

			switch {
			case math.IsInf(t1, 1) && math.IsInf(t2, 1):
				return nil, fmt.Errorf("%w: constraint %d cannot be satisfied", ErrInfeasible, p.idx)
			case math.IsInf(t2, 1):
				// Dependent constraint: move in dual space only, then drop.
				st.stepDual(r, t1)
				uPlus += t1
				st.drop(drop)
			case t2 <= t1:
				floats.AddScaled(st.x, t2, z)
				st.stepDual(r, t2)
				uPlus += t2
				st.active = append(st.active, p)
				st.u = append(st.u, uPlus)
				added = true
				if p.idx == eqConstraint {
					eqActive = true
				}
			default:
				floats.AddScaled(st.x, t1, z)
				st.stepDual(r, t1)
				uPlus += t1
				st.drop(drop)
			}
		}
	}
}

func (st *qpState) isActive(i int) bool {
	for _, c := range st.active {
		if c.idx == i {
			return true
		}
	}

	return false
}

// normal returns the oriented constraint normal of c.
func (st *qpState) normal(c activeConstraint) []float64 {
	v := make([]float64, st.n)
	if c.idx == eqConstraint {
		for i := range v {
			v[i] = c.sign
		}
		return v
	}
	v[c.idx] = c.sign

	return v
}

// slack returns nᵀx − b for the oriented constraint c (≤ 0 when violated or tight).
func (st *qpState) slack(c activeConstraint) float64 {
	if c.idx == eqConstraint {
		return c.sign * (floats.Sum(st.x) - 1)
	}

	return c.sign * st.x[c.idx]
}

// ginvTimes returns G⁻¹·v.
func (st *qpState) ginvTimes(v []float64) []float64 {
	out := make([]float64, st.n)
	for j, vj := range v {
		if vj != 0 {
			floats.AddScaled(out, vj, st.ginv[j])
		}
	}

	return out
}

// directions returns z = H·n⁺ and r = N*·n⁺ where, for the active normals N,
// N* = (NᵀG⁻¹N)⁻¹NᵀG⁻¹ and H = G⁻¹ − G⁻¹N·N*. v must be G⁻¹·n⁺.
func (st *qpState) directions(v, np []float64) ([]float64, []float64, error) {
	qn := len(st.active)
	if qn == 0 {
		return append([]float64(nil), v...), nil, nil
	}

	// W = G⁻¹N, column per active constraint.
	w := make([][]float64, qn)
	for a, c := range st.active {
		w[a] = st.ginvTimes(st.normal(c))
	}
	rows := make([][]float64, qn)
	rhs := make([]float64, qn)
	for a, c := range st.active {
		na := st.normal(c)
		rows[a] = make([]float64, qn)
		for b := 0; b < qn; b++ {
			rows[a][b] = floats.Dot(na, w[b])
		}
		rhs[a] = floats.Dot(na, v)
	}
	m, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDegenerateActiveSet, err)
	}
	l, err := matrix.Cholesky(m, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDegenerateActiveSet, err)
	}
	r, err := matrix.CholeskySolve(l, rhs)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDegenerateActiveSet, err)
	}

	z := append([]float64(nil), v...)
	for b := 0; b < qn; b++ {
		floats.AddScaled(z, -r[b], w[b])
	}

	return z, r, nil
}

// stepDual applies u ← u − t·r to the active multipliers.
func (st *qpState) stepDual(r []float64, t float64) {
	for j := range st.u {
		st.u[j] -= t * r[j]
	}
}

// drop removes active constraint j.
func (st *qpState) drop(j int) {
	st.active = append(st.active[:j], st.active[j+1:]...)
	st.u = append(st.u[:j], st.u[j+1:]...)
}
