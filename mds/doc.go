// Package mds embeds a dissimilarity matrix in a low-dimensional Euclidean
// space.
//
// Two solvers are provided:
//
//   - Classical (Torgerson) scaling: double-centre −½D², take the top
//     eigenpairs of the result. Exact when D is Euclidean.
//   - SMACOF: iterative metric MDS minimising raw stress by Guttman
//     transforms, started from the classical solution.
//
// Eigenpairs come from a cyclic Jacobi solver for real symmetric matrices;
// N here is the number of stimuli (tens), so O(N³) sweeps are cheap.
//
// ⚙️ Options (SMACOF):
//
//	WithMaxIter(300)   // Guttman iterations cap
//	WithEpsilon(1e-3)  // relative stress improvement threshold
//	WithLogger(l)      // per-run debug record
package mds
