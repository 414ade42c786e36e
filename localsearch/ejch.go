package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// maxRelocationNodes caps the relocation tree explored by one ejection
// chain feasibility search.
const maxRelocationNodes = 25

// relocation is one node of the ejection-chain search tree: a relocate move,
// the cumulative delta along the chain, a link to the parent node, and the
// route loads as modified by the chain so far.
type relocation struct {
	index       int
	heapIndex   int
	predecessor int
	deltaSum    float64
	move        *movegen.Entry
	loads       *container.FlatMap
}

// ejectionChain searches, starting from an infeasible relocate (i, j), for a
// chain of relocations that restores feasibility: each node moves a customer
// out of the currently overloaded route into another, until every touched
// route fits or the node budget runs out. Feasibility performs the bounded
// best-first search; execute applies the chain found.
type ejectionChain struct {
	operatorBase

	// forbiddenI and forbiddenJ track, per tree node, the vertices that may
	// no longer be relocated respectively targeted; rows are cloned from the
	// parent on expansion.
	forbiddenI *container.BitMatrix
	forbiddenJ *container.BitMatrix

	nodes       []relocation
	feasibleRni int

	relocationHeap *container.Heap[*relocation]

	// computedForEjch collects entry indices whose deltas were computed on
	// demand; post-processing clears their flags.
	computedForEjch []int
}

func newEjectionChain(inst *instance.Instance, moves *movegen.Store, tolerance float64) *ejectionChain {
	op := &ejectionChain{
		operatorBase: newOperatorBase(inst, moves, tolerance),
		forbiddenI:   container.NewBitMatrix(maxRelocationNodes, 2*maxRelocationNodes+3),
		forbiddenJ:   container.NewBitMatrix(maxRelocationNodes, 3*maxRelocationNodes),
		nodes:        make([]relocation, maxRelocationNodes),
	}

	for n := range op.nodes {
		op.nodes[n].index = n
		op.nodes[n].heapIndex = container.Unheaped
		op.nodes[n].loads = container.NewFlatMap(maxRelocationNodes)
	}

	op.relocationHeap = container.NewHeap(
		func(r *relocation) float64 { return r.deltaSum },
		func(r *relocation) int { return r.heapIndex },
		func(r *relocation, index int) { r.heapIndex = index },
	)

	return op
}

func (*ejectionChain) symmetric() bool { return false }

func (op *ejectionChain) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iNext := sol.NextVertexIn(iRoute, i)
	jPrev := sol.PrevVertexIn(jRoute, j)

	if j == iNext {
		return 0
	}

	return -sol.CostPrevIn(iRoute, i) - sol.CostPrevIn(iRoute, iNext) + op.inst.Cost(iPrev, iNext) -
		sol.CostPrevIn(jRoute, j) + op.inst.Cost(jPrev, i) + op.moves.EdgeCost(move)
}

// feasible grows the relocation tree rooted at the generating move. It
// returns true when some chain ends with every touched route feasible; the
// chain is remembered for execute.
func (op *ejectionChain) feasible(sol *solution.Solution, generating *movegen.Entry) bool {
	rni := 0
	op.feasibleRni = -1

	{
		i, j := generating.First(), generating.Second()

		iRoute := sol.RouteIndexOf(i, j)
		jRoute := sol.RouteIndexOf(j, i)

		iPrev := sol.PrevVertexIn(iRoute, i)
		iNext := sol.NextVertexIn(iRoute, i)
		jPrev := sol.PrevVertexIn(jRoute, j)

		op.nodes[rni].move = generating

		// A generating move that is feasible by itself is applied directly.
		if iRoute == jRoute || sol.RouteLoad(jRoute)+op.inst.Demand(i) <= op.inst.Capacity() {
			op.feasibleRni = 0
			op.nodes[0].predecessor = -1
			op.forbiddenI.Reset(0)
			op.forbiddenJ.Reset(0)
			op.forbiddenI.Set(0, iPrev)
			op.forbiddenI.Set(0, i)
			op.forbiddenI.Set(0, iNext)
			op.forbiddenI.Set(0, jPrev)
			op.forbiddenI.Set(0, j)

			return true
		}

		op.nodes[rni].deltaSum = generating.Delta()

		op.forbiddenI.Reset(rni)
		op.forbiddenI.Set(rni, iPrev)
		op.forbiddenI.Set(rni, jPrev)

		op.forbiddenJ.Reset(rni)
		op.forbiddenJ.Set(rni, i)
		op.forbiddenJ.Set(rni, iNext)
		op.forbiddenJ.Set(rni, j)

		op.nodes[rni].loads.Clear()
		op.nodes[rni].loads.Put(iRoute, sol.RouteLoad(iRoute)-op.inst.Demand(i))
		op.nodes[rni].loads.Put(jRoute, sol.RouteLoad(jRoute)+op.inst.Demand(i))
		op.nodes[rni].predecessor = -1

		op.relocationHeap.Reset()
		op.relocationHeap.Insert(&op.nodes[rni])
		rni++
	}

search:
	for !op.relocationHeap.Empty() {
		curr := op.relocationHeap.Pop()
		currIndex := curr.index

		// The route we must relieve is the one the parent relocated into.
		iRoute := sol.RouteIndex(curr.move.Second())

		iRouteLoad, _ := curr.loads.Get(iRoute)

		for i := sol.FirstCustomer(iRoute); i != op.inst.Depot(); i = sol.NextVertex(i) {
			iDemand := op.inst.Demand(i)
			if iRouteLoad-iDemand > op.inst.Capacity() {
				continue
			}

			if op.forbiddenI.IsSet(currIndex, i) || op.forbiddenJ.IsSet(currIndex, i) {
				continue
			}

			iPrev := sol.PrevVertexIn(iRoute, i)
			iNext := sol.NextVertexIn(iRoute, i)

			// Cost lookups are the hot spot here; postpone until needed.
			iCostComputed := false
			iCost := 0.0

			for _, moveIndex := range op.moves.ActiveIndices1st(i) {
				move := op.moves.Get(moveIndex)
				j := move.Second()

				if j == op.inst.Depot() || op.forbiddenJ.IsSet(currIndex, j) {
					continue
				}

				jRoute := sol.RouteIndex(j)
				if jRoute == iRoute {
					continue
				}

				jRouteLoad, known := curr.loads.Get(jRoute)
				if !known {
					jRouteLoad = sol.RouteLoad(jRoute)
				}

				jPrev := sol.PrevVertexIn(jRoute, j)

				// Active entries may be uninitialized for this cycle: heaped
				// entries and ejection-cached ones are trustworthy, anything
				// else gets its delta computed here.
				if move.HeapIndex() == container.Unheaped && !move.ComputedForEjch() {
					if !iCostComputed {
						iCost = -sol.CostPrevCustomer(i) - sol.CostPrevIn(iRoute, iNext) +
							op.inst.Cost(iPrev, iNext)
						iCostComputed = true
					}

					move.SetDelta(iCost - sol.CostPrevCustomer(j) +
						op.inst.Cost(jPrev, i) + op.moves.EdgeCost(move))
					move.SetComputedForEjch(true)
					op.computedForEjch = append(op.computedForEjch, moveIndex)
				}

				// Only extend chains that keep improving.
				if move.Delta()+curr.deltaSum > -op.tolerance {
					continue
				}

				op.nodes[rni].move = move
				op.nodes[rni].deltaSum = curr.deltaSum + move.Delta()

				op.forbiddenI.Overwrite(currIndex, rni)
				op.forbiddenI.Set(rni, iPrev)
				op.forbiddenI.Set(rni, jPrev)

				op.forbiddenJ.Overwrite(currIndex, rni)
				op.forbiddenJ.Set(rni, i)
				op.forbiddenJ.Set(rni, iNext)
				op.forbiddenJ.Set(rni, j)

				op.nodes[rni].loads.CopyFrom(curr.loads)
				op.nodes[rni].loads.Put(iRoute, iRouteLoad-iDemand)
				op.nodes[rni].loads.Put(jRoute, jRouteLoad+iDemand)

				op.nodes[rni].predecessor = currIndex
				op.relocationHeap.Insert(&op.nodes[rni])

				// A receiving route that stays feasible closes the chain.
				if jRouteLoad+iDemand <= op.inst.Capacity() {
					op.feasibleRni = rni
					break search
				}

				rni++
				if rni == maxRelocationNodes {
					break search
				}
			}
		}
	}

	return op.feasibleRni != -1
}

func (op *ejectionChain) execute(sol *solution.Solution, _ *movegen.Entry, affected *container.SparseIntSet) {
	op.forbiddenI.ScanRow(op.feasibleRni, func(i int) { affected.Insert(i) })
	op.forbiddenJ.ScanRow(op.feasibleRni, func(j int) { affected.Insert(j) })

	// Cached deltas touching affected vertices go stale with the chain.
	for _, i := range affected.Elements() {
		op.moves.ForEachActiveBase(i, func(base int) {
			op.moves.Get(base).SetComputedForEjch(false)
			op.moves.Get(base + 1).SetComputedForEjch(false)
		})
	}

	for ptr := op.feasibleRni; ptr != -1; ptr = op.nodes[ptr].predecessor {
		move := op.nodes[ptr].move

		i, j := move.First(), move.Second()

		iRoute := sol.RouteIndexOf(i, j)
		jRoute := sol.RouteIndexOf(j, i)

		op.markFirst(sol.PrevVertexIn(iRoute, i))
		op.markBoth(i)
		iNext := sol.NextVertexIn(iRoute, i)
		op.markBoth(iNext)
		op.markBoth(j)
		op.markFirst(sol.PrevVertexIn(jRoute, j))

		sol.RemoveVertex(iRoute, i)
		sol.InsertVertexBefore(jRoute, j, i)

		if sol.IsRouteEmpty(iRoute) {
			sol.RemoveRoute(iRoute)
		}
	}
}

func (op *ejectionChain) postProcess(*solution.Solution) {
	for _, moveIndex := range op.computedForEjch {
		base := movegen.Base(moveIndex)
		op.moves.Get(base).SetComputedForEjch(false)
		op.moves.Get(base + 1).SetComputedForEjch(false)
	}
	op.computedForEjch = op.computedForEjch[:0]
}

// The cache protocol mirrors the plain relocate, except that deltas collapse
// to zero when the endpoints are already adjacent.

func (op *ejectionChain) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevCustomer(vertex) - sol.CostPrevIn(route, c.next) + op.inst.Cost(c.prev, c.next)
		c.rem2 = -sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevDepot(route) - sol.CostPrevCustomer(c.next) + op.inst.Cost(c.prev, c.next)
	c.rem2 = -sol.CostPrevDepot(route)

	return c
}

func (op *ejectionChain) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevCustomer(vertex) - sol.CostPrevIn(route, c.next) + op.inst.Cost(c.prev, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevDepot(route) - sol.CostPrevCustomer(c.next) + op.inst.Cost(c.prev, c.next)

	return c
}

func (op *ejectionChain) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		c.prev = sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.rem2 = -sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.rem2 = -sol.CostPrevDepot(route)

	return c
}

func (op *ejectionChain) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := 0.0
	if cj.v != ci.next {
		delta1 = ci.rem1 + cj.rem2 + op.inst.Cost(cj.prev, ci.v) + edge
	}
	delta2 := 0.0
	if ci.v != cj.next {
		delta2 = cj.rem1 + ci.rem2 + op.inst.Cost(ci.prev, cj.v) + edge
	}

	return delta1, delta2
}

func (op *ejectionChain) cost(move *movegen.Entry, ci, cj cache) float64 {
	if cj.v == ci.next {
		return 0
	}

	return ci.rem1 + cj.rem2 + op.inst.Cost(cj.prev, ci.v) + op.moves.EdgeCost(move)
}
