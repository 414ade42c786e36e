package solution

import (
	"sort"

	"github.com/katalvlaran/cvrp/instance"
)

// ClarkeWright builds an initial feasible solution with the limited savings
// algorithm: every customer starts in its own route, then route pairs are
// fused in decreasing order of saving
//
//	s(i, j) = c(i, depot) + c(depot, j) - lambda * c(i, j)
//
// restricted, for each customer i, to the first numNeighbors vertices j > i
// in i's nearest-neighbor order. A fusion
// applies only when i and j are the facing endpoints of their routes and the
// merged load fits the vehicle.
//
// The construction is not journaled: it happens before any incremental
// search begins.
//
// Complexity: O(N·k) savings, O(N·k log(N·k)) for the sort.
func ClarkeWright(inst *instance.Instance, sol *Solution, lambda float64, numNeighbors int) {
	sol.Reset()

	for i := inst.CustomersBegin(); i < inst.CustomersEnd(); i++ {
		sol.buildOneCustomerRoute(i, false)
	}

	if numNeighbors > inst.NumCustomers()-1 {
		numNeighbors = inst.NumCustomers() - 1
	}

	type saving struct {
		i, j  int
		value float64
	}

	depot := inst.Depot()
	savings := make([]saving, 0, inst.NumCustomers()*numNeighbors)

	for i := inst.CustomersBegin(); i < inst.CustomersEnd(); i++ {
		neighbors := inst.Neighbors(i)
		added := 0
		for n := 1; added < numNeighbors && n < len(neighbors); n++ {
			j := neighbors[n]
			if i < j {
				value := inst.Cost(i, depot) + inst.Cost(depot, j) - lambda*inst.Cost(i, j)
				savings = append(savings, saving{i: i, j: j, value: value})
				added++
			}
		}
	}

	sort.SliceStable(savings, func(a, b int) bool { return savings[a].value > savings[b].value })

	for n := range savings {
		i := savings[n].i
		j := savings[n].j

		iRoute := sol.RouteIndex(i)
		jRoute := sol.RouteIndex(j)

		if iRoute == jRoute {
			continue
		}

		switch {
		case sol.LastCustomer(iRoute) == i && sol.FirstCustomer(jRoute) == j &&
			sol.RouteLoad(iRoute)+sol.RouteLoad(jRoute) <= inst.Capacity():
			sol.AppendRoute(iRoute, jRoute)

		case sol.LastCustomer(jRoute) == j && sol.FirstCustomer(iRoute) == i &&
			sol.RouteLoad(iRoute)+sol.RouteLoad(jRoute) <= inst.Capacity():
			sol.AppendRoute(jRoute, iRoute)
		}
	}
}
