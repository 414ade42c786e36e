package container_test

import (
	"fmt"

	"github.com/katalvlaran/cvrp/container"
)

// ExampleVertexLRU shows the bounded most-recently-used semantics backing
// the solver's recently-modified-vertices cache.
func ExampleVertexLRU() {
	cache := container.NewVertexLRU(3, 10)

	cache.Insert(1)
	cache.Insert(2)
	cache.Insert(3)
	cache.Insert(1) // moves 1 back to the front
	cache.Insert(4) // evicts 2, the least recently used

	for v := cache.Begin(); v != cache.End(); v = cache.Next(v) {
		fmt.Println(v)
	}
	// Output:
	// 4
	// 1
	// 3
}

// ExampleSparseIntSet shows insertion-order iteration and cheap clearing.
func ExampleSparseIntSet() {
	set := container.NewSparseIntSet(100)

	set.Insert(42)
	set.Insert(7)
	set.Insert(42) // duplicate, ignored

	fmt.Println(set.Elements())
	set.Clear()
	fmt.Println(set.Size())
	// Output:
	// [42 7]
	// 0
}
