package solution_test

import (
	"testing"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/solution"
)

func benchInstance(n int) *instance.Instance {
	xs := make([]float64, n)
	ys := make([]float64, n)
	demands := make([]int, n)
	for i := 1; i < n; i++ {
		xs[i] = float64(i * 37 % 101)
		ys[i] = float64(i * 73 % 97)
		demands[i] = 1 + i%5
	}

	return instance.New(30, xs, ys, demands, n)
}

// BenchmarkInsertRemove_RoundTrip measures the O(1) edge-edit pair at the
// heart of every local-search move.
func BenchmarkInsertRemove_RoundTrip(b *testing.B) {
	inst := benchInstance(128)
	sol := solution.New(inst)
	solution.ClarkeWright(inst, sol, 1.0, 100)

	victim := sol.FirstCustomer(sol.FirstRoute())
	route := sol.RouteIndex(victim)
	where := sol.NextVertex(victim)

	sol.ClearDoList1()
	sol.ClearUndoList1()

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		sol.RemoveVertex(route, victim)
		sol.InsertVertexBefore(route, where, victim)

		// Keep the journal bounded; clearing is part of the measured cost
		// just as in the outer loop.
		sol.ClearDoList1()
		sol.ClearUndoList1()
	}
}

// BenchmarkClarkeWright measures the initial construction.
func BenchmarkClarkeWright(b *testing.B) {
	inst := benchInstance(256)
	sol := solution.New(inst)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		solution.ClarkeWright(inst, sol, 1.0, 100)
	}
}
