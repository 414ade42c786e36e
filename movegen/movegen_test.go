package movegen_test

import (
	"testing"

	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridInstance returns 5 vertices with distinct pairwise distances.
func gridInstance(t *testing.T) *instance.Instance {
	t.Helper()

	return instance.New(10,
		[]float64{0, 10, 21, 33, 46},
		[]float64{0, 0, 0, 0, 0},
		[]int{0, 1, 1, 1, 1},
		5)
}

// TestTwinBase_IndexLaws covers the move-generator indexing laws.
func TestTwinBase_IndexLaws(t *testing.T) {
	for _, index := range []int{0, 1, 2, 3, 10, 11} {
		assert.Equal(t, index, movegen.Twin(movegen.Twin(index)), "twin is an involution")
		assert.Equal(t, movegen.Base(index), movegen.Base(movegen.Twin(index)), "twins share the base")
		assert.Zero(t, movegen.Base(index)%2, "base indices are even")
	}
}

// TestNewStore_PairLayout checks that entries come in (i,j)/(j,i) pairs with
// one shared edge cost.
func TestNewStore_PairLayout(t *testing.T) {
	inst := gridInstance(t)
	store := movegen.NewStore(inst, 2)

	require.Greater(t, store.Size(), 0)
	require.Zero(t, store.Size()%2)

	for base := 0; base < store.Size(); base += 2 {
		entry := store.Get(base)
		twin := store.Get(base + 1)

		assert.Equal(t, entry.First(), twin.Second())
		assert.Equal(t, entry.Second(), twin.First())
		assert.Equal(t, base, entry.Index())
		assert.Equal(t, base+1, twin.Index())
		assert.Equal(t, inst.Cost(entry.First(), entry.Second()), store.EdgeCost(entry))
		assert.Equal(t, store.EdgeCost(entry), store.EdgeCost(twin))
	}
}

// TestNewStore_S4 covers scenario S4: with k=2 the catalog holds exactly the
// undirected pairs {i, n} with n among i's top-2 nearest neighbors, each pair
// once.
func TestNewStore_S4(t *testing.T) {
	inst := gridInstance(t)
	store := movegen.NewStore(inst, 2)

	// Collect the undirected pairs present in the catalog.
	type pair struct{ a, b int }
	seen := make(map[pair]int)
	for base := 0; base < store.Size(); base += 2 {
		entry := store.Get(base)
		a, b := entry.First(), entry.Second()
		if a > b {
			a, b = b, a
		}
		seen[pair{a, b}]++
	}

	// Expected: union over i of {i, n} for n in i's top-2 neighbors
	// (distinct distances here, so no tie-break subtleties).
	expected := make(map[pair]bool)
	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		for _, n := range inst.Neighbors(i)[1:3] {
			a, b := i, n
			if a > b {
				a, b = b, a
			}
			expected[pair{a, b}] = true
		}
	}

	assert.Len(t, seen, len(expected))
	for p, count := range seen {
		assert.True(t, expected[p], "unexpected pair %v", p)
		assert.Equal(t, 1, count, "pair %v stored more than once", p)
	}
}

// TestSetActivePercentage_ActivatesSortedPrefix checks that full activation
// activates candidates of every vertex, that per-vertex lists are
// cost-sorted, and that the two endpoint views agree.
func TestSetActivePercentage_ActivatesSortedPrefix(t *testing.T) {
	inst := gridInstance(t)
	store := movegen.NewStore(inst, 3)

	gamma := make([]float64, inst.NumVertices())
	vertices := make([]int, 0, inst.NumVertices())
	for i := range gamma {
		gamma[i] = 1.0
		vertices = append(vertices, i)
	}
	store.SetActivePercentage(gamma, vertices)

	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		indices := store.ActiveIndices1st(i)
		require.NotEmpty(t, indices, "full gamma must activate candidates of %d", i)

		for _, index := range indices {
			assert.Equal(t, i, store.Get(index).First(), "first-endpoint view")
		}
		for n := 1; n < len(indices); n++ {
			assert.LessOrEqual(t, store.EdgeCost(store.Get(indices[n-1])), store.EdgeCost(store.Get(indices[n])),
				"vertex %d list is cost-sorted", i)
		}

		// The second-endpoint view is the twin of the first view.
		count := 0
		store.ForEachActive2nd(i, func(index int) {
			assert.Equal(t, i, store.Get(index).Second())
			count++
		})
		assert.Equal(t, len(indices), count)
	}
}

// TestSetActivePercentage_Idempotent re-applies the same gamma and expects
// identical active lists.
func TestSetActivePercentage_Idempotent(t *testing.T) {
	inst := gridInstance(t)
	store := movegen.NewStore(inst, 3)

	gamma := make([]float64, inst.NumVertices())
	vertices := make([]int, 0, inst.NumVertices())
	for i := range gamma {
		gamma[i] = 0.5
		vertices = append(vertices, i)
	}

	store.SetActivePercentage(gamma, vertices)
	first := make(map[int][]int)
	for i := range gamma {
		first[i] = append([]int(nil), store.ActiveIndices1st(i)...)
	}

	store.SetActivePercentage(gamma, vertices)
	for i := range gamma {
		assert.Equal(t, first[i], store.ActiveIndices1st(i), "vertex %d", i)
	}
}

// TestSetActivePercentage_ShrinkDeactivates drops gamma to zero everywhere
// and expects empty active lists.
func TestSetActivePercentage_ShrinkDeactivates(t *testing.T) {
	inst := gridInstance(t)
	store := movegen.NewStore(inst, 3)

	gamma := make([]float64, inst.NumVertices())
	vertices := make([]int, 0, inst.NumVertices())
	for i := range gamma {
		gamma[i] = 1.0
		vertices = append(vertices, i)
	}
	store.SetActivePercentage(gamma, vertices)

	for i := range gamma {
		gamma[i] = 0.0
	}
	store.SetActivePercentage(gamma, vertices)

	for i := range gamma {
		assert.Empty(t, store.ActiveIndices1st(i), "vertex %d", i)
	}
}

// TestHeap_EntryLifecycle drives an entry through the shared result heap.
func TestHeap_EntryLifecycle(t *testing.T) {
	inst := gridInstance(t)
	store := movegen.NewStore(inst, 2)
	heap := store.Heap()

	a := store.Get(0)
	b := store.Get(2)

	a.SetDelta(-5)
	b.SetDelta(-7)

	heap.Insert(a)
	heap.Insert(b)
	require.Equal(t, 2, heap.Size())

	// b has the smaller delta and must surface first.
	assert.Same(t, b, heap.Spy(0))

	// Change a below b and let the heap reorder.
	old := a.Delta()
	a.SetDelta(-9)
	heap.Update(a.HeapIndex(), old)
	assert.Same(t, a, heap.Spy(0))

	heap.Reset()
	assert.True(t, heap.Empty())
	assert.Equal(t, container.Unheaped, a.HeapIndex())
	assert.Equal(t, container.Unheaped, b.HeapIndex())
}
