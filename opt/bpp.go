package opt

import (
	"sort"

	"github.com/katalvlaran/cvrp/instance"
)

// GreedyFirstFitDecreasing solves the bin packing problem induced by the
// demands with the first-fit-decreasing heuristic and returns the number of
// bins used, a cheap estimate of the minimum route count.
//
// Complexity: O(N log N) for the sort plus O(N^2) worst-case placement.
func GreedyFirstFitDecreasing(inst *instance.Instance) int {
	customers := make([]int, inst.NumCustomers())
	for i := inst.CustomersBegin(); i < inst.CustomersEnd(); i++ {
		customers[i-1] = i
	}

	sort.SliceStable(customers, func(a, b int) bool {
		return inst.Demand(customers[a]) > inst.Demand(customers[b])
	})

	bins := make([]int, inst.NumCustomers())

	usedBins := 0
	for _, customer := range customers {
		demand := inst.Demand(customer)
		for p := range bins {
			if bins[p]+demand <= inst.Capacity() {
				bins[p] += demand
				if p+1 > usedBins {
					usedBins = p + 1
				}
				break
			}
		}
	}

	return usedBins
}
