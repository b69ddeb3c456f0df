// Package matrix provides the dense linear-algebra kernels used by the
// signature-refitting pipeline.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set and an
//     optional finite-only numeric policy.
//   - Kernels: Mul, MatVec, MatTVec, Sub, Gram (AᵀA).
//   - Cholesky factorization and triangular solves for symmetric positive
//     definite systems (the Gram matrix of a signature catalog).
//   - Column statistics: ColSums, NormalizeColumnsL1, FrobeniusNorm and
//     FrobeniusResidual (‖M − P·E‖_F).
//
// Every kernel validates its operands through validators.go and returns a
// package sentinel (errors.go) wrapped with the operation name, so callers
// match failures with errors.Is. Kernels never mutate their inputs and use
// fixed loop orders, so identical inputs always produce identical outputs.
//
// Signature catalogs are small (96×N with N ≲ 100), so the kernels favour
// simple, cache-friendly loops over blocking or BLAS calls.
package matrix
