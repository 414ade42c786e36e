// Package localsearch implements the move-generator-driven local search: a
// shared rough best-improvement engine, twenty-two concrete neighborhood
// operators plus an ejection chain, a randomized variable neighborhood
// descent (RVND) over them, and a composer chaining RVND tiers.
//
// Engine outline, shared by every operator:
//
//  1. Reset the shared result heap and run the operator's pre-processing.
//  2. Initialize the deltas of move generators touching vertices in the
//     solution's SVC. Symmetric operators (delta(i,j) == delta(j,i)) evaluate
//     one entry per edge; asymmetric operators evaluate both directions with
//     a single paired computation. Per-vertex timestamps avoid processing an
//     edge twice when both endpoints are cached, and the depot is handled
//     last to maximize cache reuse. Entries improving beyond the tolerance
//     enter the heap.
//  3. Scan heap slots in index order; on the first feasible entry, execute
//     the move, restart the scan from slot zero, and refresh the deltas of
//     entries involving affected vertices. Asymmetric refreshes consult the
//     shared update-bits grid to touch only the directions that changed.
//  4. Run the operator's post-processing and report whether anything
//     improved.
//
// Move costs are decomposed into per-endpoint parts (the cache protocol) so
// initialization and update amortize the expensive cost lookups.
//
// In partial-solution mode (used by the route-minimization heuristic) every
// vertex access is gated on membership in the solution; the ejection chain
// does not support that mode.
package localsearch
