// Package selection chooses the subset of catalog signatures a single
// mutation profile actually needs, by stepwise elimination or addition driven
// by resampling pseudo p-values.
//
// 🚀 Procedures
//
//   - Backward: start from every signature; each round fits the active set
//     to the resampled profiles and removes the signature with the largest
//     pseudo p-value while that value exceeds the significance level α and
//     more than MinSignatures remain.
//   - Forward: start from Initial, or from the single signature closest to
//     the profile; each round tries every inactive signature and adds the one
//     with the smallest pseudo p-value below α.
//
// ⚙️ Resampling
//
//	Resampled profiles (bootstrap replicates or cross-validation folds) are
//	drawn once per run and reused in every round, so p-values of different
//	subsets are computed on the same data. Ties between equal p-values are
//	broken with the seeded stream rng.Derive(Seed, rng.StreamTieBreak).
//
// 🧵 Concurrency
//
//	Rounds are sequential. Work inside a round (replicates for backward,
//	candidates for forward) runs on a bounded worker pool. The context is
//	checked between rounds and inside every parallel map.
//
// 📦 Result
//
//	Kept signatures (catalog indices, ascending), their IDs, the resampled
//	exposure distribution of the final subset with its p-values, the point
//	estimate on the profile itself, a per-round trace and a run identifier
//	for correlating logs.
package selection
