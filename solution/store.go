package solution

import (
	"fmt"
	"os"
	"strings"
)

// String renders the given route as "[id] 0 c1 ... cm 0".
func (s *Solution) String(route int) string {
	depot := s.inst.Depot()

	var b strings.Builder
	fmt.Fprintf(&b, "[%d] %d", route, depot)
	for curr := s.routes[route].firstCustomer; curr != depot; curr = s.customers[curr].next {
		fmt.Fprintf(&b, " %d", curr)
	}
	fmt.Fprintf(&b, " %d", depot)

	return b.String()
}

// WriteSolFile stores the solution at path in the common CVRP ".sol" layout:
// one "Route #k: c1 c2 ... cm" line per route followed by a "Cost <cost>"
// line.
func (s *Solution) WriteSolFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("solution: cannot create %s: %w", path, err)
	}
	defer file.Close()

	depot := s.inst.Depot()

	idx := 1
	for route := s.FirstRoute(); route != DummyRoute; route = s.NextRoute(route) {
		fmt.Fprintf(file, "Route #%d:", idx)
		for customer := s.FirstCustomer(route); customer != depot; customer = s.NextVertex(customer) {
			fmt.Fprintf(file, " %d", customer)
		}
		fmt.Fprintln(file)
		idx++
	}
	fmt.Fprintf(file, "Cost %.6f", s.cost)

	return nil
}
