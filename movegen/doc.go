// Package movegen maintains the sparsified catalog of candidate edge moves
// (static move descriptors) that drives the local search.
//
// For each undirected candidate edge {i, j} the store keeps the two directed
// entries (i, j) and (j, i) at adjacent indices 2k and 2k+1, sharing one
// cached edge cost. Twin(idx) = idx ^ 1 and Base(idx) = idx &^ 1 convert
// between them. Candidates come from each vertex's k nearest neighbors, with
// an order-dependent tie-break that keeps the catalog O(N·k) without
// symmetric duplicates.
//
// A per-vertex percentage vector drives how many of a vertex's cost-sorted
// candidates are active; SetActivePercentage flips activity bits and rebuilds
// the affected per-vertex active lists, deduplicated by second endpoint. The
// active list of a vertex exposes three views: entries where the vertex is
// the first endpoint (the stored list), the second endpoint (twin indices),
// and either endpoint (base indices).
//
// The store also owns the scratch shared by all local-search operators: the
// delta-ordered result heap, the N x 2 update-bits grid, and the per-vertex
// timestamps used to avoid double processing.
package movegen
