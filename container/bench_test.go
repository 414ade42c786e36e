package container_test

import (
	"testing"

	"github.com/katalvlaran/cvrp/container"
)

// BenchmarkSparseIntSet_InsertClear measures the clear-not-reallocate cycle
// the engine performs once per applied move.
func BenchmarkSparseIntSet_InsertClear(b *testing.B) {
	s := container.NewSparseIntSet(1024)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for v := 0; v < 16; v++ {
			s.Insert(v * 61 % 1024)
		}
		s.Clear()
	}
}

// BenchmarkVertexLRU_Insert measures SVC insertion with eviction pressure.
func BenchmarkVertexLRU_Insert(b *testing.B) {
	c := container.NewVertexLRU(50, 1024)

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		c.Insert(n * 37 % 1024)
	}
}

// BenchmarkHeap_InsertPop measures the result-heap churn of a descent.
func BenchmarkHeap_InsertPop(b *testing.B) {
	type node struct {
		key   float64
		index int
	}
	h := container.NewHeap(
		func(n *node) float64 { return n.key },
		func(n *node) int { return n.index },
		func(n *node, i int) { n.index = i },
	)

	nodes := make([]*node, 64)
	for i := range nodes {
		nodes[i] = &node{key: float64(i*31 % 64), index: container.Unheaped}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		for _, nd := range nodes {
			h.Insert(nd)
		}
		for !h.Empty() {
			h.Pop()
		}
	}
}
