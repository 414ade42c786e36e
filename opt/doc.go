// Package opt drives the optimization: the ruin-and-recreate shaking step,
// the simulated-annealing acceptance rule, the bin-packing lower bound on
// the route count, the route-minimization heuristic, and the CoreOpt outer
// loop with its adaptive sparsification (gamma) and ruin-depth (omega)
// vectors.
//
// Everything is deterministic given the Parameters (seed included), the
// instance, and the single *rand.Rand stream threaded through shaking,
// operator shuffles, and acceptance draws. The core is single-threaded by
// contract; run several seeds as separate processes for parallelism.
package opt
