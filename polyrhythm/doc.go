// Package polyrhythm combines the cycle lengths and cursor positions of
// several looping voices into a single cycle length and a single phase.
//
// Cycle length is the least common multiple of the voice lengths. Phase is
// the smallest non-negative solution of the congruence system
// x ≡ cursor[i] (mod length[i]), found with the generalized Chinese
// Remainder Theorem so that lengths do not need to be coprime.
package polyrhythm
