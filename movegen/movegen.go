package movegen

import (
	"math"
	"sort"

	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
)

// UpdateFirst and UpdateSecond are the update-bits columns: after a move is
// executed, column UpdateFirst set for vertex v means entries (v, j) need a
// refresh, column UpdateSecond means entries (j, v) do.
const (
	UpdateFirst  = 0
	UpdateSecond = 1
)

// costEqualityTolerance bounds the construction tie-break on edge costs.
const costEqualityTolerance = 1e-5

// Entry is one directed move generator (i, j) with its cached improvement
// delta, its position in the result heap (container.Unheaped when out), and
// the flag marking deltas computed on demand by the ejection chain.
type Entry struct {
	i, j            int
	index           int
	delta           float64
	heapIndex       int
	computedForEjch bool
}

// Index returns the entry's directed index in the store.
func (e *Entry) Index() int { return e.index }

// First returns the first endpoint of the entry.
func (e *Entry) First() int { return e.i }

// Second returns the second endpoint of the entry.
func (e *Entry) Second() int { return e.j }

// Delta returns the cached improvement delta.
func (e *Entry) Delta() float64 { return e.delta }

// SetDelta overwrites the cached improvement delta. The heap is not adjusted:
// use Store.Heap operations for heaped entries.
func (e *Entry) SetDelta(delta float64) { e.delta = delta }

// HeapIndex returns the entry's heap position, container.Unheaped when the
// entry is not heaped.
func (e *Entry) HeapIndex() int { return e.heapIndex }

// ComputedForEjch reports whether the ejection chain cached this delta.
func (e *Entry) ComputedForEjch() bool { return e.computedForEjch }

// SetComputedForEjch flags or clears the ejection-chain delta cache mark.
func (e *Entry) SetComputedForEjch(value bool) { e.computedForEjch = value }

// Twin returns the index of the opposite direction of the same edge.
func Twin(index int) int { return index ^ 1 }

// Base returns the canonical (even) index of the edge pair.
func Base(index int) int { return index &^ 1 }

// Store is the move-generator catalog plus the shared local-search scratch.
type Store struct {
	inst *instance.Instance

	maxNeighbors int

	// entries holds directed pairs: (i, j) at even indices, (j, i) at odd.
	entries []Entry

	// edgeCosts holds one cost per pair, indexed by base/2.
	edgeCosts []float64

	// baseIndicesOf lists, per vertex, the base indices of all pairs
	// involving it, sorted by ascending edge cost after construction.
	baseIndicesOf [][]int

	// activeIndicesOf lists, per vertex v, the directed indices (v, j) of
	// currently active pairs, deduplicated by j.
	activeIndicesOf [][]int

	// currNeighbors tracks how many of a vertex's sorted candidates are
	// active.
	currNeighbors []int

	// activeIn1st/activeIn2nd are per-pair activity bits, one per endpoint
	// role, indexed by base/2.
	activeIn1st []bool
	activeIn2nd []bool

	heap *container.Heap[*Entry]

	updateBits      *container.BoolGrid
	vertexTimestamp []uint64
	timestamp       uint64

	// Scratch reused across SetActivePercentage calls.
	verticesInUpdatedMoves *container.SparseIntSet
	uniqueEndpoints        *container.SparseIntSet
}

// NewStore builds the catalog from each vertex's k nearest neighbors.
//
// Construction iterates i = 0..N-1 in order. For a neighbor j of i: when
// i < j the pair is always added; when i > j it is added only if c(i, j)
// exceeds the cost from j to its k-th neighbor (the pair cannot have been
// added from j's side), or, on near equality, if (j, i) is not already in
// j's list. This slightly asymmetric pruning keeps the catalog finite and
// must keep its iteration order to stay deterministic.
//
// Complexity: O(N·k) entries, O(N·k log k) for the per-vertex sorts.
func NewStore(inst *instance.Instance, k int) *Store {
	numVertices := inst.NumVertices()

	maxNeighbors := k
	if maxNeighbors > numVertices-1 {
		// Neighbors(i)[0] == i and (i, i) pairs are skipped.
		maxNeighbors = numVertices - 1
	}

	s := &Store{
		inst:                   inst,
		maxNeighbors:           maxNeighbors,
		baseIndicesOf:          make([][]int, numVertices),
		activeIndicesOf:        make([][]int, numVertices),
		currNeighbors:          make([]int, numVertices),
		updateBits:             container.NewBoolGrid(numVertices, 2),
		vertexTimestamp:        make([]uint64, numVertices),
		verticesInUpdatedMoves: container.NewSparseIntSet(numVertices),
		uniqueEndpoints:        container.NewSparseIntSet(numVertices),
	}

	s.heap = container.NewHeap(
		func(e *Entry) float64 { return e.delta },
		func(e *Entry) int { return e.heapIndex },
		func(e *Entry, index int) { e.heapIndex = index },
	)

	neighborsBegin := 1
	neighborsEnd := neighborsBegin + maxNeighbors

	insert := func(a, b int, cost float64) {
		base := len(s.entries)
		s.entries = append(s.entries,
			Entry{i: a, j: b, index: base, heapIndex: container.Unheaped},
			Entry{i: b, j: a, index: base + 1, heapIndex: container.Unheaped})
		s.edgeCosts = append(s.edgeCosts, cost)
		s.baseIndicesOf[a] = append(s.baseIndicesOf[a], base)
		s.baseIndicesOf[b] = append(s.baseIndicesOf[b], base)
	}

	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		neighbors := inst.Neighbors(i)

		for p := neighborsBegin; p < neighborsEnd; p++ {
			j := neighbors[p]
			cost := inst.Cost(i, j)

			if i < j {
				insert(i, j, cost)
				continue
			}

			jNeighbors := inst.Neighbors(j)
			cij := inst.Cost(i, j)
			cjn := inst.Cost(j, jNeighbors[neighborsEnd-1])

			if cij > cjn {
				insert(j, i, cost)
				continue
			}

			if math.Abs(cij-cjn) < costEqualityTolerance {
				add := true
				for _, base := range s.baseIndicesOf[j] {
					if s.entries[base].j == i {
						add = false
						break
					}
				}
				if add {
					insert(j, i, cost)
				}
			}
		}
	}

	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		indices := s.baseIndicesOf[i]
		sort.SliceStable(indices, func(a, b int) bool {
			return s.edgeCosts[indices[a]/2] < s.edgeCosts[indices[b]/2]
		})
	}

	s.activeIn1st = make([]bool, len(s.entries)/2)
	s.activeIn2nd = make([]bool, len(s.entries)/2)

	return s
}

// Get returns the entry at the given directed index.
func (s *Store) Get(index int) *Entry { return &s.entries[index] }

// Size returns the number of directed entries (twice the pair count).
func (s *Store) Size() int { return len(s.entries) }

// EdgeCost returns the cached cost of the entry's edge. The cost is stored
// once per pair: integer division folds twin indices onto it.
func (s *Store) EdgeCost(e *Entry) float64 {
	return s.edgeCosts[e.index/2]
}

// ActiveIndices1st returns, for the given vertex v, the directed indices of
// active entries (v, j). The slice is owned by the store.
func (s *Store) ActiveIndices1st(vertex int) []int { return s.activeIndicesOf[vertex] }

// ForEachActive2nd visits, for the given vertex v, the directed indices of
// active entries (j, v).
func (s *Store) ForEachActive2nd(vertex int, fn func(index int)) {
	for _, index := range s.activeIndicesOf[vertex] {
		fn(Twin(index))
	}
}

// ForEachActiveBase visits, for the given vertex, the base indices of active
// entries involving it in either role.
func (s *Store) ForEachActiveBase(vertex int, fn func(index int)) {
	for _, index := range s.activeIndicesOf[vertex] {
		fn(Base(index))
	}
}

// SetActivePercentage resizes the active neighbor counts of the given
// vertices according to percentage (a per-vertex fraction in [0, 1] of the
// sorted candidate list), then rebuilds the active index list of every
// vertex touched by a flipped pair. Idempotent for unchanged percentages.
func (s *Store) SetActivePercentage(percentage []float64, vertices []int) {
	s.verticesInUpdatedMoves.Clear()

	for _, vertex := range vertices {
		target := int(math.Round(percentage[vertex] * float64(s.maxNeighbors)))
		if target > len(s.baseIndicesOf[vertex]) {
			target = len(s.baseIndicesOf[vertex])
		}

		if target == s.currNeighbors[vertex] {
			continue
		}

		if target < s.currNeighbors[vertex] {
			for n := target; n < s.currNeighbors[vertex]; n++ {
				base := s.baseIndicesOf[vertex][n]
				s.setActiveIn(base, vertex, false)
				s.verticesInUpdatedMoves.Insert(s.entries[base].i)
				s.verticesInUpdatedMoves.Insert(s.entries[base].j)
			}
		} else {
			for n := s.currNeighbors[vertex]; n < target; n++ {
				base := s.baseIndicesOf[vertex][n]
				s.setActiveIn(base, vertex, true)
				s.verticesInUpdatedMoves.Insert(s.entries[base].i)
				s.verticesInUpdatedMoves.Insert(s.entries[base].j)
			}
		}

		s.currNeighbors[vertex] = target
	}

	for _, vertex := range s.verticesInUpdatedMoves.Elements() {
		s.rebuildActiveIndices(vertex)
	}
}

// rebuildActiveIndices rescans the vertex's base list: a pair active in
// either role joins the list once per distinct second endpoint.
func (s *Store) rebuildActiveIndices(vertex int) {
	s.uniqueEndpoints.Clear()

	unique := s.activeIndicesOf[vertex][:0]

	for _, base := range s.baseIndicesOf[vertex] {
		if !s.activeIn1st[base/2] && !s.activeIn2nd[base/2] {
			continue
		}

		index := base
		if s.entries[base].i != vertex {
			index = Twin(base)
		}

		j := s.entries[index].j
		if !s.uniqueEndpoints.Contains(j) {
			s.uniqueEndpoints.InsertUnchecked(j)
			unique = append(unique, index)
		}
	}

	s.activeIndicesOf[vertex] = unique
}

func (s *Store) setActiveIn(base, vertex int, value bool) {
	if s.entries[base].i == vertex {
		s.activeIn1st[base/2] = value
	} else {
		s.activeIn2nd[base/2] = value
	}
}

// Heap returns the shared delta-ordered result heap.
func (s *Store) Heap() *container.Heap[*Entry] { return s.heap }

// UpdateBits returns the shared N x 2 update-bits grid.
func (s *Store) UpdateBits() *container.BoolGrid { return s.updateBits }

// VertexTimestamp returns the shared per-vertex timestamp slice.
func (s *Store) VertexTimestamp() []uint64 { return s.vertexTimestamp }

// CurrentTimestamp returns the current timestamp generator value.
func (s *Store) CurrentTimestamp() uint64 { return s.timestamp }

// BumpTimestamp advances the timestamp generator.
func (s *Store) BumpTimestamp() { s.timestamp++ }
