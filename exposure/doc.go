// Package exposure estimates signature exposures for a batch of mutation
// profiles.
//
// 🚀 What it does
//
//	Given a K×G count matrix M (one column per sample) and a K×N signature
//	catalog P, Estimate returns the N×G exposure matrix E whose column g is
//	the simplex-constrained best fit of column g of M, plus the residual
//	‖m̂_g − P·e_g‖ of every sample.
//
// ⚙️ How
//
//   - Every column of M is normalized to unit sum; the caller's matrix is
//     never modified.
//   - Columns are independent and are decomposed on a bounded worker pool
//     (see package parallel); results are written back in column order.
//   - The decomposition strategy is pluggable (decompose.Decomposer); QP is
//     the usual choice.
//
// ❗ Errors
//
//   - signature.ErrShapeMismatch when M has a different number of rows than
//     the catalog has categories.
//   - *ColumnError when a single sample is invalid or fails to decompose;
//     use errors.As to recover the column index, errors.Is for the cause.
package exposure
