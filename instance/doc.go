// Package instance loads and serves immutable CVRP data: vertex coordinates,
// integer demands, the vehicle capacity, and a precomputed list of nearest
// neighbors per vertex.
//
// Vertex 0 is always the depot; customers are 1..N-1. Arc costs are Euclidean
// distances rounded to the nearest integer, computed on demand (there is no
// cost matrix: instances may be too large for O(N²) storage). Costs are
// symmetric and deterministic.
//
// Neighbor lists are built once at load time with a 2-d k-d tree;
// Neighbors(i)[0] is always i itself.
package instance
