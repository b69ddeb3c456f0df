// Package decompose fits a single mutation profile as a convex combination of
// catalog signatures.
//
// 🚀 What it solves
//
//	minimize   ‖m − P·e‖₂
//	subject to e ≥ 0, Σe = 1
//
// Squaring the objective gives the convex quadratic ½eᵀGe − dᵀe with
// G = PᵀP and d = Pᵀm, so the problem is a small strictly convex QP whenever
// the signatures are linearly independent.
//
// ✨ Solvers
//
//   - QP: a dual active-set method (Goldfarb–Idnani). It starts at the
//     unconstrained minimizer and adds violated constraints one at a time,
//     so it is exact, deterministic and cheap for catalogs of a few dozen
//     signatures. This is the default strategy everywhere in sigfit.
//   - Reference: a general-purpose quasi-Newton minimizer from
//     gonum/optimize over a softmax parametrization of the simplex. It is
//     slow and only used to cross-check QP.
//
// Both solvers clip tiny negative entries to zero and renormalize. A clipped
// magnitude above the warning tolerance is logged and counted; with
// QPOptions.Strict it is returned as a *NumericalWarning error.
//
// Strategies are pluggable through the Decomposer interface, which the
// exposure, resample and selection packages accept.
package decompose
