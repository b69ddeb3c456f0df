// Package sigfit refits mutation profiles onto a catalog of reference
// mutational signatures and measures how robust each signature's
// contribution is.
//
// 🚀 What is sigfit?
//
//	A numerical core for signature refitting:
//		• Decomposition: simplex-constrained least squares by an exact dual
//		  active-set QP (and a slow reference solver for cross-checks)
//		• Batch estimation: every sample of a count matrix, in parallel
//		• Resampling: multinomial bootstrap and category cross-validation
//		• Significance: pseudo p-values from detection frequencies
//		• Model selection: backward elimination and forward addition
//
// Under the hood the work is split across subpackages:
//
//	matrix/      : dense matrices, Gram, Cholesky, Frobenius residuals
//	signature/   : the signature catalog and error classes
//	decompose/   : QP and reference decomposers
//	exposure/    : batch exposure estimation
//	resample/    : bootstrap and cross-validation distributions
//	significance/: detection frequencies, pseudo p-values, summaries
//	selection/   : stepwise signature selection
//	parallel/    : bounded, order-preserving worker pool
//	rng/         : seeded random streams
//	config/, logging/, metrics/: YAML settings, zap loggers, Prometheus
//
// This package is a thin facade over them with functional options.
//
// Quick example:
//
//	sigs, _ := signature.FromColumns(cosmicColumns, signature.WithIDs(ids...))
//	res, err := sigfit.SelectSignatures(ctx, counts, sigs, 1000, 0.01, 0.05,
//		selection.DirectionBackward, sigfit.WithSeed(7))
//	if err != nil {
//		// validation errors wrap signature.ErrValidation,
//		// solver errors wrap signature.ErrOptimizerFailure
//	}
//	fmt.Println(res.IDs, res.PValues)
//
// Determinism: every random draw comes from a stream derived from the seed
// (WithSeed, default 1), and results do not depend on WithWorkers.
package sigfit
