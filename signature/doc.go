// Package signature holds the reference signature catalog and the error
// classes shared by every refitting package.
//
// A Catalog is a K×N matrix whose columns are mutational signatures: each
// column is a nonnegative probability distribution over K mutation categories
// (96 for single-base substitutions in trinucleotide context). Catalogs are
// immutable after construction and safe for concurrent use; the Gram matrix
// PᵀP and its Cholesky factor are computed lazily, once, and shared.
//
// Errors fall into two classes, ErrValidation and ErrOptimizerFailure. Every
// specific sentinel in sigfit wraps one of them.
package signature
