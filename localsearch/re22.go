package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// revTwoTwoExchange swaps the string (iPrev, i), reinserted reversed after
// j, with the string (jNext, jNextNext), placed where the i-string was.
// When reverseBoth is set the j-string is reinserted reversed as well.
type revTwoTwoExchange struct {
	operatorBase
	reverseBoth bool
}

func newRevTwoTwoExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64, reverseBoth bool) *revTwoTwoExchange {
	return &revTwoTwoExchange{
		operatorBase: newOperatorBase(inst, moves, tolerance),
		reverseBoth:  reverseBoth,
	}
}

func (*revTwoTwoExchange) symmetric() bool { return false }

func (op *revTwoTwoExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, jNext) - sol.CostPrevIn(jRoute, jNextNextNext)

	iSequenceAdd := op.inst.Cost(jNextNextNext, iPrev) + op.inst.Cost(i, j)

	var jSequenceAdd float64
	if op.reverseBoth {
		jSequenceAdd = op.inst.Cost(iPrevPrev, jNextNext) + op.inst.Cost(jNext, iNext)
	} else {
		jSequenceAdd = op.inst.Cost(iPrevPrev, jNext) + op.inst.Cost(jNextNext, iNext)
	}

	return iSequenceAdd + jSequenceAdd + iSequenceRem + jSequenceRem
}

func (op *revTwoTwoExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)

	return (iRoute != jRoute && iPrev != op.inst.Depot() &&
		jNext != op.inst.Depot() && jNextNext != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jNext)-op.inst.Demand(jNextNext)+
			op.inst.Demand(i)+op.inst.Demand(iPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jNext)+op.inst.Demand(jNextNext)-
			op.inst.Demand(i)-op.inst.Demand(iPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != iPrev && jNext != iPrev && jNextNext != iPrev &&
			jNextNext != iPrevPrev)
}

func (op *revTwoTwoExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)
	iPrevPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrevPrev)

	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)
	jNextNextNextNext := sol.NextVertexIn(jRoute, jNextNextNext)

	affected.Insert(iPrevPrevPrevPrev)
	affected.Insert(iPrevPrevPrev)
	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)
	affected.Insert(jNextNext)
	affected.Insert(jNextNextNext)
	affected.Insert(jNextNextNextNext)

	op.markSecond(iPrevPrevPrevPrev)
	op.markSecond(iPrevPrevPrev)
	op.markBoth(iPrevPrev)
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markFirst(iNext)
	op.markFirst(iNextNext)
	op.markFirst(jNextNextNextNext)
	op.markFirst(jNextNextNext)
	op.markBoth(jNextNext)
	op.markBoth(jNext)
	op.markBoth(j)
	op.markSecond(jPrev)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)

	sol.InsertVertexBefore(jRoute, jNextNextNext, i)
	sol.InsertVertexBefore(jRoute, jNextNextNext, iPrev)

	sol.RemoveVertex(jRoute, jNext)
	sol.RemoveVertex(jRoute, jNextNext)

	if op.reverseBoth {
		sol.InsertVertexBefore(iRoute, iNext, jNextNext)
		sol.InsertVertexBefore(iRoute, iNext, jNext)
	} else {
		sol.InsertVertexBefore(iRoute, iNext, jNext)
		sol.InsertVertexBefore(iRoute, iNext, jNextNext)
	}
}

// rem1: extracting the string (prev, v); rem2: extracting the 2-string after
// v together with the arc out of v.
func (op *revTwoTwoExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		c.prev = prev
		c.prevprev = sol.PrevVertexIn(route, prev)
		c.next = sol.NextVertex(vertex)
		c.nextnext = sol.NextVertexIn(route, c.next)
		c.nextnextnext = sol.NextVertexIn(route, c.nextnext)

		cVNext := sol.CostPrevIn(route, c.next)
		c.rem1 = -sol.CostPrevIn(route, c.prev) - cVNext
		c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnextnext)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.next = sol.FirstCustomer(route)
	c.nextnext = sol.NextVertex(c.next)
	c.nextnextnext = sol.NextVertexIn(route, c.nextnext)

	cVNext := sol.CostPrevCustomer(c.next)
	c.rem1 = -sol.CostPrevCustomer(c.prev) - cVNext
	c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnextnext)

	return c
}

func (op *revTwoTwoExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.next = sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevIn(route, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.next = sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevCustomer(c.next)

	return c
}

func (op *revTwoTwoExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.next = sol.NextVertex(vertex)
		c.nextnext = sol.NextVertexIn(route, c.next)
		c.nextnextnext = sol.NextVertexIn(route, c.nextnext)
		c.rem2 = -sol.CostPrevIn(route, c.next) - sol.CostPrevIn(route, c.nextnextnext)

		return c
	}

	route := sol.RouteIndex(backup)
	c.next = sol.FirstCustomer(route)
	c.nextnext = sol.NextVertex(c.next)
	c.nextnextnext = sol.NextVertexIn(route, c.nextnext)
	c.rem2 = -sol.CostPrevCustomer(c.next) - sol.CostPrevIn(route, c.nextnextnext)

	return c
}

func (op *revTwoTwoExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	var seq1add, seq2add float64
	if op.reverseBoth {
		cNexts := op.inst.Cost(ci.next, cj.next)
		seq2add = op.inst.Cost(ci.prevprev, cj.nextnext) + cNexts
		seq1add = op.inst.Cost(cj.prevprev, ci.nextnext) + cNexts
	} else {
		seq2add = op.inst.Cost(ci.prevprev, cj.next) + op.inst.Cost(cj.nextnext, ci.next)
		seq1add = op.inst.Cost(cj.prevprev, ci.next) + op.inst.Cost(ci.nextnext, cj.next)
	}

	delta1 := op.inst.Cost(cj.nextnextnext, ci.prev) + edge + seq2add + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.nextnextnext, cj.prev) + edge + seq1add + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *revTwoTwoExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	edge := op.moves.EdgeCost(move)

	var seq2add float64
	if op.reverseBoth {
		seq2add = op.inst.Cost(ci.prevprev, cj.nextnext) + op.inst.Cost(ci.next, cj.next)
	} else {
		seq2add = op.inst.Cost(ci.prevprev, cj.next) + op.inst.Cost(cj.nextnext, ci.next)
	}

	return op.inst.Cost(cj.nextnextnext, ci.prev) + edge + seq2add + ci.rem1 + cj.rem2
}
