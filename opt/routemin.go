package opt

import (
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/localsearch"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// Routemin tries to reduce the route count of source towards kmin before the
// main optimization. It repeatedly empties a random route plus one neighbor
// route, reinserts the customers greedily (leaving some unserved with a
// probability that decays geometrically from 1 to 0.01 over the budget),
// reoptimizes the partial solution, and keeps the best complete one. Stops
// early once kmin routes are reached.
//
// The procedure runs with every move generator active; callers are expected
// to re-sparsify afterwards.
func Routemin(inst *instance.Instance, source *solution.Solution, rng *rand.Rand, moves *movegen.Store, kmin, maxIterations int, tolerance float64) (*solution.Solution, error) {
	rvnd0, err := localsearch.NewPartialRVND(inst, moves, localsearch.DefaultTier0, rng, tolerance)
	if err != nil {
		return nil, err
	}
	search := localsearch.NewComposer(tolerance)
	search.Append(rvnd0)

	gamma := make([]float64, inst.NumVertices())
	gammaVertices := make([]int, 0, inst.NumVertices())
	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		gamma[i] = 1.0
		gammaVertices = append(gammaVertices, i)
	}
	moves.SetActivePercentage(gamma, gammaVertices)

	best := source.Clone()

	// t is the probability for an uninsertable customer to stay unserved.
	const tBase, tEnd = 1.0, 0.01
	t := tBase
	cooling := math.Pow(tEnd/tBase, 1.0/float64(maxIterations))

	removed := make([]int, 0, inst.NumCustomers())
	stillRemoved := make([]int, 0, inst.NumCustomers())
	neighborRoutes := container.NewSparseIntSet(inst.NumVertices())

	sol := best.Clone()
	depot := inst.Depot()

	for iter := 0; iter < maxIterations; iter++ {
		sol.ClearSVC()

		// A random seed customer picks the route to empty; one route serving
		// a close neighbor joins it.
		seed := solution.DummyVertex
		for {
			seed = inst.CustomersBegin() + rng.Intn(inst.NumCustomers())
			if sol.IsCustomerInSolution(seed) {
				break
			}
		}
		selectedRoutes := []int{sol.RouteIndex(seed)}
		for _, vertex := range inst.Neighbors(seed)[1:] {
			if vertex == depot || !sol.IsCustomerInSolution(vertex) {
				continue
			}
			route := sol.RouteIndex(vertex)
			if route != selectedRoutes[0] {
				selectedRoutes = append(selectedRoutes, route)
				break
			}
		}

		removed = removed[:0]
		removed = append(removed, stillRemoved...)
		stillRemoved = stillRemoved[:0]

		for _, selected := range selectedRoutes {
			curr := sol.FirstCustomer(selected)
			for curr != depot {
				next := sol.NextVertex(curr)
				sol.RemoveVertex(selected, curr)
				removed = append(removed, curr)
				curr = next
			}
			sol.RemoveRoute(selected)
		}

		if rng.Intn(2) == 0 {
			sort.SliceStable(removed, func(a, b int) bool {
				return inst.Demand(removed[a]) > inst.Demand(removed[b])
			})
		} else {
			rng.Shuffle(len(removed), func(a, b int) {
				removed[a], removed[b] = removed[b], removed[a]
			})
		}

		for _, i := range removed {
			bestRoute := -1
			bestWhere := -1
			bestDelta := math.MaxFloat64

			neighbors := inst.Neighbors(i)
			neighborRoutes.Clear()
			for n := 1; n < len(neighbors); n++ {
				where := neighbors[n]
				if where == depot || !sol.IsCustomerInSolution(where) {
					continue
				}
				neighborRoutes.Insert(sol.RouteIndex(where))
			}

			cIDepot := inst.Cost(i, depot)

			for _, route := range neighborRoutes.Elements() {
				if sol.RouteLoad(route)+inst.Demand(i) > inst.Capacity() {
					continue
				}

				for j := sol.FirstCustomer(route); j != depot; j = sol.NextVertex(j) {
					prev := sol.PrevVertexIn(route, j)
					delta := -sol.CostPrevCustomer(j) + inst.Cost(prev, i) + inst.Cost(i, j)
					if delta < bestDelta {
						bestRoute = route
						bestWhere = j
						bestDelta = delta
					}
				}

				delta := -sol.CostPrevDepot(route) + inst.Cost(sol.LastCustomer(route), i) + cIDepot
				if delta < bestDelta {
					bestRoute = route
					bestWhere = depot
					bestDelta = delta
				}
			}

			if bestRoute == -1 {
				// No feasible host: probabilistically leave the customer
				// unserved unless we are already below the target.
				if rng.Float64() > t || sol.NumRoutes() < kmin {
					sol.BuildOneCustomerRoute(i)
				} else {
					stillRemoved = append(stillRemoved, i)
				}
			} else {
				sol.InsertVertexBefore(bestRoute, bestWhere, i)
			}
		}

		search.SequentialApply(sol)

		if len(stillRemoved) == 0 {
			// A complete solution competes on cost, ties broken by fewer
			// routes.
			if sol.Cost() < best.Cost() ||
				(sol.Cost() == best.Cost() && sol.NumRoutes() < best.NumRoutes()) {
				sol.ApplyDoList1(best)
				sol.ClearDoList1()
				sol.ClearUndoList1()

				if best.NumRoutes() <= kmin {
					break
				}
			}
		}

		if sol.Cost() > best.Cost() {
			// Worsening states are not worth exploring; roll back.
			sol.ApplyUndoList1(sol)
			sol.ClearDoList1()
			sol.ClearUndoList1()

			stillRemoved = stillRemoved[:0]
		}

		t *= cooling
	}

	return best, nil
}
