// Package resample builds empirical distributions of signature exposures for
// one mutation profile.
//
// Two resampling schemes are provided:
//
//   - Bootstrap: the normalized profile is treated as a categorical
//     distribution over K mutation categories; each replicate redraws the
//     sample's T mutations with replacement and refits the exposures.
//   - Cross-validation: categories are split into folds; each fold is masked
//     out in turn, the rest renormalized and refit.
//
// Both return a Distribution whose column r is the exposure vector of
// replicate (or fold) r and whose Errors[r] is its residual against the full
// normalized profile.
//
// Determinism:
//
//	Replicate r always draws from the stream rng.Derive(Seed, r), and the
//	category shuffle from rng.Derive(Seed, rng.StreamShuffle). Output is
//	identical for a given seed regardless of Workers.
//
// Profiles and evaluation are separable: BootstrapProfiles and FoldProfiles
// return the K×R matrix of resampled profiles, and Evaluate fits them against
// any catalog. Stepwise selection draws once and evaluates many subsets.
package resample
