package solution

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInfeasible is returned by Check when the stored state disagrees with a
// from-scratch recomputation.
var ErrInfeasible = errors.New("solution: infeasible")

// Check verifies the whole solution against a from-scratch recomputation:
// route walks, pointer symmetry, cached arc costs, loads, sizes, cumulative
// loads of clean routes, depot and customer predecessor/successor
// multiplicities, route count, and total cost. When errorOnLoadInfeasible is
// false, capacity violations are tolerated (used while checking partial or
// transitional states).
//
// This is linear in the instance size and meant for tests and debugging
// only; the engine maintains these invariants incrementally.
func (s *Solution) Check(errorOnLoadInfeasible bool) error {
	var problems []string
	complain := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	depot := s.inst.Depot()

	visitedInSolution := make(map[int]bool)
	predecessorCount := make([]int, s.inst.NumVertices())
	successorCount := make([]int, s.inst.NumVertices())

	numRoutes := 0
	closedRoutes := 0
	totalCost := 0.0

	for route := s.FirstRoute(); route != DummyRoute; route = s.NextRoute(route) {
		numRoutes++

		if s.IsRouteEmpty(route) {
			complain("route %d is in solution but empty", route)
			continue
		}

		// A route missing its depot can only be entered through one of its
		// customers.
		start := depot
		missingDepot := s.routes[route].firstCustomer == DummyVertex
		if missingDepot {
			for c := s.inst.CustomersBegin(); c < s.inst.CustomersEnd(); c++ {
				if s.customers[c].route == route {
					start = c
					break
				}
			}
		} else {
			closedRoutes++
		}

		visitedInRoute := make(map[int]bool)
		routeLoad := 0
		routeCost := 0.0
		routeSize := 0

		curr := start
		for {
			if visitedInRoute[curr] {
				complain("vertex %d visited more than once in route %d", curr, route)
				break
			}
			if curr != depot && visitedInSolution[curr] {
				complain("vertex %d visited more than once in the solution", curr)
			}

			next := s.NextVertexIn(route, curr)
			prev := s.PrevVertexIn(route, curr)

			if !missingDepot {
				if math.Abs(s.CostPrevIn(route, curr)-s.inst.Cost(prev, curr)) > equalityTolerance {
					complain("vertex %d in route %d has wrong predecessor cost", curr, route)
				}
				if prev == depot && s.routes[route].firstCustomer != curr {
					complain("vertex %d has depot predecessor but is not first customer of route %d", curr, route)
				}
				if next == depot && s.routes[route].lastCustomer != curr {
					complain("vertex %d has depot successor but is not last customer of route %d", curr, route)
				}
			}

			if curr != s.PrevVertexIn(route, next) {
				complain("vertex %d in route %d: successor %d does not link back", curr, route, next)
			}
			if curr != s.NextVertexIn(route, prev) {
				complain("vertex %d in route %d: predecessor %d does not link forward", curr, route, prev)
			}
			if curr != depot && s.customers[curr].route != route {
				complain("vertex %d in route %d has route pointer %d", curr, route, s.customers[curr].route)
			}

			predecessorCount[prev]++
			successorCount[next]++

			visitedInRoute[curr] = true
			visitedInSolution[curr] = true

			routeLoad += s.inst.Demand(curr)
			routeCost += s.inst.Cost(curr, next)
			if curr != depot {
				routeSize++
			}

			curr = next
			if curr == start {
				break
			}
		}

		if routeLoad != s.routes[route].load {
			complain("route %d stores load %d, recomputed %d", route, s.routes[route].load, routeLoad)
		}
		if routeLoad > s.inst.Capacity() && errorOnLoadInfeasible {
			complain("route %d load %d exceeds capacity %d", route, routeLoad, s.inst.Capacity())
		}
		if routeSize != s.routes[route].size {
			complain("route %d stores size %d, recomputed %d", route, s.routes[route].size, routeSize)
		}

		if !missingDepot && !s.routes[route].dirtyLoads {
			loadBefore := 0
			for c := s.routes[route].firstCustomer; c != depot; c = s.customers[c].next {
				loadBefore += s.inst.Demand(c)
				if s.customers[c].loadBefore != loadBefore {
					complain("customer %d of route %d stores load-before %d, recomputed %d",
						c, route, s.customers[c].loadBefore, loadBefore)
				}
				if s.customers[c].loadAfter != routeLoad-loadBefore+s.inst.Demand(c) {
					complain("customer %d of route %d stores load-after %d, recomputed %d",
						c, route, s.customers[c].loadAfter, routeLoad-loadBefore+s.inst.Demand(c))
				}
			}
		}

		totalCost += routeCost
	}

	if numRoutes != s.numRoutes {
		complain("solution stores %d routes, walked %d", s.numRoutes, numRoutes)
	}
	if math.Abs(totalCost-s.cost) > equalityTolerance {
		complain("solution stores cost %f, recomputed %f", s.cost, totalCost)
	}

	// Multiplicities: every served customer is a predecessor and a successor
	// exactly once; the depot once per route that holds it (an open route,
	// missing its depot, contributes none).
	for c := s.inst.CustomersBegin(); c < s.inst.CustomersEnd(); c++ {
		if !s.IsCustomerInSolution(c) {
			continue
		}
		if predecessorCount[c] != 1 {
			complain("customer %d is a predecessor %d times", c, predecessorCount[c])
		}
		if successorCount[c] != 1 {
			complain("customer %d is a successor %d times", c, successorCount[c])
		}
	}
	if predecessorCount[depot] != closedRoutes || successorCount[depot] != closedRoutes {
		complain("depot is a predecessor %d and a successor %d times over %d routes holding it",
			predecessorCount[depot], successorCount[depot], closedRoutes)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n%s", ErrInfeasible, strings.Join(problems, "\n"))
	}

	return nil
}
