package opt

import (
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
)

// RuinAndRecreate is the shaking step: a biased random walk removes a chain
// of customers whose length is driven by the per-vertex ruin depth omega,
// then a greedy neighbor-restricted pass reinserts them.
type RuinAndRecreate struct {
	inst *instance.Instance
	rng  *rand.Rand

	removed []int
	routes  *container.SparseIntSet
}

// NewRuinAndRecreate builds the shaker with its preallocated scratch.
func NewRuinAndRecreate(inst *instance.Instance, rng *rand.Rand) *RuinAndRecreate {
	return &RuinAndRecreate{
		inst:   inst,
		rng:    rng,
		routes: container.NewSparseIntSet(inst.NumVertices()),
	}
}

// Apply ruins and recreates sol in place and returns the seed customer that
// started the walk (its omega entry drives the adaptive update).
func (rr *RuinAndRecreate) Apply(sol *solution.Solution, omega []int) int {
	rr.removed = rr.removed[:0]
	rr.routes.Clear()

	seed := rr.inst.CustomersBegin() + rr.rng.Intn(rr.inst.NumCustomers())
	chainLength := omega[seed]

	depot := rr.inst.Depot()
	curr := seed

	for n := 0; n < chainLength; n++ {
		next := solution.DummyVertex

		route := sol.RouteIndex(curr)

		rr.removed = append(rr.removed, curr)
		rr.routes.Insert(route)

		if sol.RouteSize(route) > 1 && rr.rng.Intn(2) == 1 {
			// Step within the current route, wrapping past the depot.
			if rr.rng.Intn(2) == 1 {
				next = sol.NextVertex(curr)
				if next == depot {
					next = sol.NextVertexIn(route, next)
				}
			} else {
				next = sol.PrevVertex(curr)
				if next == depot {
					next = sol.PrevVertexIn(route, next)
				}
			}
		} else if rr.rng.Intn(2) == 1 {
			// Jump to the nearest served neighbor in a route not yet
			// touched by the walk.
			neighbors := rr.inst.Neighbors(curr)
			for m := 1; m < len(neighbors); m++ {
				neighbor := neighbors[m]
				if neighbor == depot || !sol.IsCustomerInSolution(neighbor) ||
					rr.routes.Contains(sol.RouteIndex(neighbor)) {
					continue
				}
				next = neighbor
				break
			}
		} else {
			// Jump to the nearest served neighbor in any route.
			neighbors := rr.inst.Neighbors(curr)
			for m := 1; m < len(neighbors); m++ {
				neighbor := neighbors[m]
				if neighbor == depot || !sol.IsCustomerInSolution(neighbor) {
					continue
				}
				next = neighbor
				break
			}
		}

		sol.RemoveVertex(route, curr)
		if sol.IsRouteEmpty(route) {
			sol.RemoveRoute(route)
		}

		// A dead-ended walk terminates silently.
		if next == solution.DummyVertex {
			break
		}

		curr = next
	}

	// Pick one of four reinsertion orders.
	switch rr.rng.Intn(4) {
	case 0:
		rr.rng.Shuffle(len(rr.removed), func(a, b int) {
			rr.removed[a], rr.removed[b] = rr.removed[b], rr.removed[a]
		})
	case 1:
		sort.SliceStable(rr.removed, func(a, b int) bool {
			return rr.inst.Demand(rr.removed[a]) > rr.inst.Demand(rr.removed[b])
		})
	case 2:
		sort.SliceStable(rr.removed, func(a, b int) bool {
			return rr.inst.Cost(rr.removed[a], depot) > rr.inst.Cost(rr.removed[b], depot)
		})
	case 3:
		sort.SliceStable(rr.removed, func(a, b int) bool {
			return rr.inst.Cost(rr.removed[a], depot) < rr.inst.Cost(rr.removed[b], depot)
		})
	}

	for _, customer := range rr.removed {
		bestRoute := solution.DummyRoute
		bestWhere := solution.DummyVertex
		bestCost := math.MaxFloat64

		// Insertion is only attempted into routes serving a neighbor of the
		// customer; for very long routes this is not necessarily the best
		// restriction but it works well.
		neighbors := rr.inst.Neighbors(customer)
		rr.routes.Clear()
		for n := 1; n < len(neighbors); n++ {
			where := neighbors[n]
			if where == depot || !sol.IsCustomerInSolution(where) {
				continue
			}
			rr.routes.Insert(sol.RouteIndex(where))
		}

		cCustomerDepot := rr.inst.Cost(customer, depot)

		for _, route := range rr.routes.Elements() {
			if sol.RouteLoad(route)+rr.inst.Demand(customer) > rr.inst.Capacity() {
				continue
			}

			for where := sol.FirstCustomer(route); where != depot; where = sol.NextVertex(where) {
				prev := sol.PrevVertex(where)
				cost := -sol.CostPrevCustomer(where) + rr.inst.Cost(prev, customer) +
					rr.inst.Cost(customer, where)
				if cost < bestCost {
					bestCost = cost
					bestRoute = route
					bestWhere = where
				}
			}

			cost := -sol.CostPrevDepot(route) + rr.inst.Cost(sol.LastCustomer(route), customer) +
				cCustomerDepot
			if cost < bestCost {
				bestCost = cost
				bestRoute = route
				bestWhere = depot
			}
		}

		if bestRoute == solution.DummyRoute || 2*cCustomerDepot < bestCost {
			sol.BuildOneCustomerRoute(customer)
		} else {
			sol.InsertVertexBefore(bestRoute, bestWhere, customer)
		}
	}

	return seed
}
