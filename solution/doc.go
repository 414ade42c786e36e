// Package solution implements the CVRP solution representation: a set of
// routes stored as doubly-linked index lists over preallocated arrays, with
// O(1) edge edits, cached arc costs, lazily maintained cumulative loads, an
// LRU cache of recently modified vertices (the SVC), and a journaled action
// log that makes accept/commit/rollback cheap without full solution copies.
//
// Routes are not first-class values: every operation on a route goes through
// the Solution. There is a single depot, vertex 0, which belongs to every
// route, so methods that may receive the depot take a fallback vertex to
// identify the route (RouteIndexOf) or an explicit route (NextVertexIn,
// PrevVertexIn, CostPrevIn).
//
// Mutations performed through the public API are journaled, except
// AppendRoute, which only the savings construction uses: each elementary edit
// appends one entry to do-list 1 and its inverse to undo-list 1, so SwapTails
// and Split journal one pair per vertex they move. Applying undo-list 1 in
// reverse restores the pre-mutation solution; do-list 2 accumulates entries
// already committed to the incumbent. Replays via the Apply methods do not
// journal.
//
// Invariant violations are programming errors: the package validates user
// input never (the engine is trusted), and the expensive Check method exists
// for tests and debugging only.
package solution
