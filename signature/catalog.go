package signature

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/katalvlaran/sigfit/matrix"
)

// DefaultSumTolerance bounds |Σ column − 1| accepted by New.
const DefaultSumTolerance = 1e-6

// Catalog is an immutable K×N signature matrix with per-signature IDs.
type Catalog struct {
	weights *matrix.Dense
	ids     []string
	index   map[string]int

	factorOnce sync.Once
	factor     *Factor
	factorErr  error
}

// Factor holds quantities derived from the catalog that the quadratic
// decomposer reuses on every call. The matrices are shared between callers
// and must not be modified.
type Factor struct {
	Gram     *matrix.Dense // PᵀP (N×N)
	Cholesky *matrix.Dense // lower factor L with PᵀP = L·Lᵀ
	Inverse  *matrix.Dense // (PᵀP)⁻¹
}

type options struct {
	ids      []string
	sumCheck bool
	sumTol   float64
}

// Option configures New.
type Option func(*options)

// WithIDs names the signatures in column order.
func WithIDs(ids ...string) Option {
	return func(o *options) { o.ids = append([]string(nil), ids...) }
}

// WithoutSumCheck accepts columns that do not sum to 1. Exposures are still
// constrained to the simplex, so the fit is well defined; residuals are then
// measured against unnormalized signatures.
func WithoutSumCheck() Option {
	return func(o *options) { o.sumCheck = false }
}

// WithSumTolerance overrides DefaultSumTolerance.
func WithSumTolerance(tol float64) Option {
	return func(o *options) { o.sumTol = tol }
}

// New validates weights (K×N, nonnegative, unit column sums) and wraps a copy
// of it in a Catalog. Missing IDs default to "S1".."SN".
func New(weights *matrix.Dense, opts ...Option) (*Catalog, error) {
	if weights == nil {
		return nil, ErrNilCatalog
	}
	o := options{sumCheck: true, sumTol: DefaultSumTolerance}
	for _, opt := range opts {
		opt(&o)
	}
	if err := matrix.ValidateNonNegative(weights); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNegativeWeight, err)
	}

	n := weights.Cols()
	if o.sumCheck {
		sums, err := matrix.ColSums(weights)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		for j, s := range sums {
			if math.Abs(s-1) > o.sumTol {
				return nil, fmt.Errorf("%w: column %d sums to %g", ErrColumnSum, j, s)
			}
		}
	}

	ids := o.ids
	if ids == nil {
		ids = make([]string, n)
		for j := range ids {
			ids[j] = fmt.Sprintf("S%d", j+1)
		}
	}
	if len(ids) != n {
		return nil, fmt.Errorf("%w: %d ids for %d signatures", ErrIDCount, len(ids), n)
	}
	index := make(map[string]int, n)
	for j, id := range ids {
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		index[id] = j
	}

	return &Catalog{weights: weights.Copy(), ids: ids, index: index}, nil
}

// FromColumns builds a catalog whose j-th signature is cols[j].
func FromColumns(cols [][]float64, opts ...Option) (*Catalog, error) {
	w, err := matrix.NewDenseFromColumns(cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return New(w, opts...)
}

// Categories returns K, the number of mutation categories.
func (c *Catalog) Categories() int { return c.weights.Rows() }

// Len returns N, the number of signatures.
func (c *Catalog) Len() int { return c.weights.Cols() }

// IDs returns a copy of the signature IDs in column order.
func (c *Catalog) IDs() []string { return append([]string(nil), c.ids...) }

// ID returns the ID of signature j.
func (c *Catalog) ID(j int) string { return c.ids[j] }

// Index returns the column of the signature named id.
func (c *Catalog) Index(id string) (int, error) {
	j, ok := c.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownID, id)
	}

	return j, nil
}

// Matrix returns a copy of the K×N weights.
func (c *Catalog) Matrix() *matrix.Dense { return c.weights.Copy() }

// Column returns a copy of signature j.
func (c *Catalog) Column(j int) ([]float64, error) { return c.weights.Column(j) }

// Reconstruct returns P·e.
func (c *Catalog) Reconstruct(e []float64) ([]float64, error) {
	return matrix.MatVec(c.weights, e)
}

// Residual returns ‖m − P·e‖₂, the Frobenius residual of a single column.
func (c *Catalog) Residual(m, e []float64) (float64, error) {
	mc, err := matrix.NewDenseFromColumns([][]float64{m})
	if err != nil {
		return 0, err
	}
	ec, err := matrix.NewDenseFromColumns([][]float64{e})
	if err != nil {
		return 0, err
	}

	return matrix.FrobeniusResidual(mc, c.weights, ec)
}

// Project returns Pᵀ·m.
func (c *Catalog) Project(m []float64) ([]float64, error) {
	return matrix.MatTVec(c.weights, m)
}

// Factor returns the cached Gram matrix, its Cholesky factor and inverse.
// The first call computes them; later calls (from any goroutine) share the
// result, including a factorization error.
//
// Errors: matrix.ErrNotPositiveDefinite when signatures are linearly
// dependent (duplicate columns, or K < N).
func (c *Catalog) Factor() (*Factor, error) {
	c.factorOnce.Do(func() {
		g, err := matrix.Gram(c.weights)
		if err != nil {
			c.factorErr = err
			return
		}
		l, err := matrix.Cholesky(g, 0)
		if err != nil {
			c.factorErr = err
			return
		}
		inv, err := matrix.CholeskyInverse(l)
		if err != nil {
			c.factorErr = err
			return
		}
		c.factor = &Factor{Gram: g, Cholesky: l, Inverse: inv}
	})

	return c.factor, c.factorErr
}

// Subset returns a catalog restricted to the given columns, in the given
// order. Indices must be distinct and in range; the subset keeps IDs.
func (c *Catalog) Subset(cols []int) (*Catalog, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadSubset)
	}
	seen := make(map[int]struct{}, len(cols))
	ids := make([]string, len(cols))
	for i, j := range cols {
		if j < 0 || j >= c.Len() {
			return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrBadSubset, j, c.Len())
		}
		if _, dup := seen[j]; dup {
			return nil, fmt.Errorf("%w: index %d repeated", ErrBadSubset, j)
		}
		seen[j] = struct{}{}
		ids[i] = c.ids[j]
	}
	rows := make([]int, c.Categories())
	for i := range rows {
		rows[i] = i
	}
	w, err := c.weights.Induced(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSubset, err)
	}
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	return &Catalog{weights: w, ids: ids, index: index}, nil
}

// SubsetByID is Subset addressed by signature IDs.
func (c *Catalog) SubsetByID(ids ...string) (*Catalog, error) {
	cols := make([]int, len(ids))
	for i, id := range ids {
		j, err := c.Index(id)
		if err != nil {
			return nil, err
		}
		cols[i] = j
	}

	return c.Subset(cols)
}

// ValidateProfile checks that m can be fitted against c: length K, finite,
// nonnegative, positive total.
func (c *Catalog) ValidateProfile(m []float64) error {
	if c == nil {
		return ErrNilCatalog
	}
	if len(m) != c.Categories() {
		return fmt.Errorf("%w: profile has %d categories, catalog has %d", ErrShapeMismatch, len(m), c.Categories())
	}
	if err := matrix.ValidateNonNegativeVec(m); err != nil {
		return fmt.Errorf("%w: %w", ErrBadProfile, err)
	}
	var s float64
	for _, v := range m {
		s += v
	}
	if s <= 0 {
		return fmt.Errorf("%w: profile sums to zero", ErrBadProfile)
	}

	return nil
}

// RequireDecomposable checks that c has at least two signatures.
func RequireDecomposable(c *Catalog) error {
	if c == nil {
		return ErrNilCatalog
	}
	if c.Len() < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewSignatures, c.Len())
	}

	return nil
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsOptimizerFailure reports whether err belongs to the optimizer-failure class.
func IsOptimizerFailure(err error) bool { return errors.Is(err, ErrOptimizerFailure) }
