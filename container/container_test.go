package container_test

import (
	"testing"

	"github.com/katalvlaran/cvrp/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntStack_PoolRoundTrip verifies that a popped value can be pushed back
// and popped again, mirroring the route-id pool usage.
func TestIntStack_PoolRoundTrip(t *testing.T) {
	s := container.NewIntStack(3, func(i int) int { return i + 1 })

	assert.Equal(t, 3, s.Size())
	assert.Equal(t, 1, s.Pop())
	assert.Equal(t, 2, s.Pop())
	assert.Equal(t, 1, s.Size())

	s.Push(2)
	assert.Equal(t, 2, s.Pop(), "pushed id must come back first")

	assert.Equal(t, 3, s.Pop())
	assert.True(t, s.Empty())

	s.Reset()
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, 1, s.Pop())
}

// TestSparseIntSet_InsertClear checks dedup on Insert and that Clear leaves
// the set reusable.
func TestSparseIntSet_InsertClear(t *testing.T) {
	s := container.NewSparseIntSet(10)

	s.Insert(3)
	s.Insert(7)
	s.Insert(3)
	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))
	assert.Equal(t, []int{3, 7}, s.Elements(), "insertion order is preserved")

	s.Clear()
	assert.Equal(t, 0, s.Size())
	assert.False(t, s.Contains(3))

	s.Insert(4)
	assert.Equal(t, []int{4}, s.Elements())
}

// TestFlatSet_Basic exercises insert/contains/clear and row cloning.
func TestFlatSet_Basic(t *testing.T) {
	s := container.NewFlatSet(25)

	assert.True(t, s.Insert(5))
	assert.False(t, s.Insert(5), "duplicate insert must report false")
	assert.True(t, s.Insert(37))
	assert.True(t, s.Contains(5))
	assert.True(t, s.Contains(37))
	assert.False(t, s.Contains(6))

	clone := container.NewFlatSet(25)
	clone.CopyFrom(s)
	assert.True(t, clone.Contains(5))
	assert.True(t, clone.Contains(37))

	s.Clear()
	assert.False(t, s.Contains(5))
	assert.True(t, clone.Contains(5), "clone is independent")
}

// TestFlatMap_PutGet checks insert-or-overwrite semantics.
func TestFlatMap_PutGet(t *testing.T) {
	m := container.NewFlatMap(25)

	_, ok := m.Get(2)
	assert.False(t, ok)

	m.Put(2, 40)
	v, ok := m.Get(2)
	require.True(t, ok)
	assert.Equal(t, 40, v)

	m.Put(2, 55)
	v, _ = m.Get(2)
	assert.Equal(t, 55, v, "Put overwrites")

	m.Clear()
	_, ok = m.Get(2)
	assert.False(t, ok)
}

// TestBitMatrix_RowsAreIndependent verifies per-row reset and overwrite.
func TestBitMatrix_RowsAreIndependent(t *testing.T) {
	m := container.NewBitMatrix(4, 25)

	m.Set(0, 11)
	m.Set(0, 12)
	m.Set(1, 13)

	assert.True(t, m.IsSet(0, 11))
	assert.False(t, m.IsSet(1, 11))

	m.Overwrite(0, 2)
	assert.True(t, m.IsSet(2, 11))
	assert.True(t, m.IsSet(2, 12))

	m.Reset(0)
	assert.False(t, m.IsSet(0, 11))
	assert.True(t, m.IsSet(2, 11), "overwritten row survives source reset")
}

// TestVertexLRU_EvictionOrder checks the bounded most-recently-used behavior
// backing the SVC.
func TestVertexLRU_EvictionOrder(t *testing.T) {
	c := container.NewVertexLRU(3, 10)

	c.Insert(1)
	c.Insert(2)
	c.Insert(3)
	assert.Equal(t, 3, c.Size())

	// Re-inserting moves to front without growing.
	c.Insert(1)
	assert.Equal(t, 3, c.Size())
	assert.Equal(t, 1, c.Begin())

	// A fourth distinct vertex evicts the least recent (2).
	c.Insert(4)
	got := make([]int, 0, 3)
	for v := c.Begin(); v != c.End(); v = c.Next(v) {
		got = append(got, v)
	}
	assert.Equal(t, []int{4, 1, 3}, got)

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, c.End(), c.Begin())
}

// TestWelford_Mean checks the running mean against a direct average.
func TestWelford_Mean(t *testing.T) {
	var w container.Welford

	assert.Equal(t, 0.0, w.Mean())
	for _, x := range []float64{2, 4, 6, 8} {
		w.Update(x)
	}
	assert.InDelta(t, 5.0, w.Mean(), 1e-12)

	w.Reset()
	assert.Equal(t, 0.0, w.Mean())
}

type heapNode struct {
	key   float64
	index int
}

func newNodeHeap() *container.Heap[*heapNode] {
	return container.NewHeap(
		func(n *heapNode) float64 { return n.key },
		func(n *heapNode) int { return n.index },
		func(n *heapNode, i int) { n.index = i },
	)
}

// TestHeap_OrderAndIndexWriteback pops elements in key order and checks the
// heap index is maintained on every element.
func TestHeap_OrderAndIndexWriteback(t *testing.T) {
	h := newNodeHeap()

	nodes := []*heapNode{{key: 5}, {key: 1}, {key: 4}, {key: 2}, {key: 3}}
	for _, n := range nodes {
		n.index = container.Unheaped
		h.Insert(n)
	}

	for i := 0; i < h.Size(); i++ {
		assert.Equal(t, i, h.Spy(i).index, "stored index must match position")
	}

	prev := -1.0
	for !h.Empty() {
		n := h.Pop()
		assert.Equal(t, container.Unheaped, n.index)
		assert.GreaterOrEqual(t, n.key, prev)
		prev = n.key
	}
}

// TestHeap_RemoveAndUpdate removes an interior element and re-keys another.
func TestHeap_RemoveAndUpdate(t *testing.T) {
	h := newNodeHeap()

	a := &heapNode{key: 1, index: container.Unheaped}
	b := &heapNode{key: 2, index: container.Unheaped}
	c := &heapNode{key: 3, index: container.Unheaped}
	h.Insert(a)
	h.Insert(b)
	h.Insert(c)

	h.Remove(b.index)
	assert.Equal(t, container.Unheaped, b.index)
	assert.Equal(t, 2, h.Size())

	// Re-key c below a and restore order.
	old := c.key
	c.key = 0.5
	h.Update(c.index, old)
	assert.Same(t, c, h.Pop())
	assert.Same(t, a, h.Pop())
}

// TestHeap_ResetUnheapsEverything verifies Reset write-back.
func TestHeap_ResetUnheapsEverything(t *testing.T) {
	h := newNodeHeap()
	a := &heapNode{key: 1, index: container.Unheaped}
	h.Insert(a)
	h.Reset()

	assert.True(t, h.Empty())
	assert.Equal(t, container.Unheaped, a.index)
}
