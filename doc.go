// Package cvrp is an iterated local-search solver for the Capacitated
// Vehicle Routing Problem: serve every customer from a single depot with
// identical capacitated vehicles at minimum rounded-Euclidean cost.
//
// 🚀 What is cvrp?
//
//	A deterministic, single-threaded metaheuristic engine built from:
//		• container/   — preallocated hot-path structures (indexed heap,
//		  sparse set, flat set/map, LRU vertex cache, bit matrix)
//		• instance/    — TSPLIB "X" parsing, on-demand costs, k-d tree k-NN
//		• solution/    — doubly-linked route lists with O(1) edge edits,
//		  journaled do/undo logs, Clarke & Wright savings
//		• movegen/     — sparsified move-generator catalog with per-vertex
//		  activity and a shared delta-ordered result heap
//		• localsearch/ — 22 string-exchange operators + an ejection chain,
//		  composed by randomized variable neighborhood descent
//		• opt/         — ruin-and-recreate shaking, simulated annealing,
//		  route minimization, and the adaptive CoreOpt outer loop
//
// ✨ Why this layout?
//
//   - Reproducible – one seeded random stream drives every decision
//   - Allocation-conscious – per-iteration scratch is cleared, not remade
//   - Journaled – accept/reject never copies a full solution
//
// The cmd/cvrp binary ties it together:
//
//	cvrp instances/X-n101-k25.vrp --seed 7 --coreopt-iterations 100000
//
// Runs write "<basename>_seed-<seed>.out", a ".vrp.sol" route listing, and
// a JSON run report into the output directory.
package cvrp
