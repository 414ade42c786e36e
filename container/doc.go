// Package container provides the small preallocated data structures used by
// the solver's hot paths: a fixed-size value stack, a sparse integer set, open
// addressing flat set/map variants bounded to a few dozen entries, a bit
// matrix built on top of the flat set, an intrusive LRU list keyed by vertex
// id, a flat row-major boolean grid, a Welford running mean, and a generic
// binary min-heap with index write-back supporting removal and value changes
// at arbitrary positions.
//
// Design:
//   - Everything is preallocated to a known capacity and cleared, never
//     reallocated, between uses.
//   - No synchronization: the solver is single-threaded by contract.
//   - Out-of-range indices and misuse are programming errors, not runtime
//     conditions; methods do not return errors.
package container
