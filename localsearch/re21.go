package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// revTwoOneExchange swaps the string (iPrev, i), reinserted reversed after
// j, with the single customer jNext, placed where the string was.
type revTwoOneExchange struct {
	operatorBase
}

func newRevTwoOneExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *revTwoOneExchange {
	return &revTwoOneExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*revTwoOneExchange) symmetric() bool { return false }

func (op *revTwoOneExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrev) - sol.CostPrevIn(iRoute, iNext)
	jNextRem := -sol.CostPrevIn(jRoute, jNext) - sol.CostPrevIn(jRoute, jNextNext)

	iSequenceAdd := op.inst.Cost(jNextNext, iPrev) + op.inst.Cost(i, j)
	jNextAdd := op.inst.Cost(iPrevPrev, jNext) + op.inst.Cost(jNext, iNext)

	return iSequenceAdd + jNextAdd + iSequenceRem + jNextRem
}

func (op *revTwoOneExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	jNext := sol.NextVertexIn(jRoute, j)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && jNext != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jNext)+op.inst.Demand(iPrev)+op.inst.Demand(i) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jNext)-op.inst.Demand(iPrev)-op.inst.Demand(i) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != iPrev && j != iPrevPrev && jNext != iPrevPrev)
}

func (op *revTwoOneExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)
	iNextNext := sol.NextVertexIn(iRoute, iNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)

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

	op.markSecond(iPrevPrevPrev)
	op.markBoth(iPrevPrev)
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markFirst(iNext)
	op.markFirst(iNextNext)
	op.markFirst(jNextNextNext)
	op.markFirst(jNextNext)
	op.markBoth(jNext)
	op.markBoth(j)
	op.markSecond(jPrev)

	sol.RemoveVertex(jRoute, jNext)
	sol.InsertVertexBefore(iRoute, iNext, jNext)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)

	sol.InsertVertexBefore(jRoute, jNextNext, i)
	sol.InsertVertexBefore(jRoute, jNextNext, iPrev)
}

// rem1: extracting the string (prev, v); rem2: extracting v's successor
// together with the arc out of v.
func (op *revTwoOneExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.next = sol.NextVertex(vertex)
		c.nextnext = sol.NextVertexIn(route, c.next)

		cVNext := sol.CostPrevIn(route, c.next)
		c.rem1 = -sol.CostPrevIn(route, c.prev) - cVNext
		c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnext)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.next = sol.FirstCustomer(route)
	c.nextnext = sol.NextVertex(c.next)

	cVNext := sol.CostPrevCustomer(c.next)
	c.rem1 = -sol.CostPrevCustomer(c.prev) - cVNext
	c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnext)

	return c
}

func (op *revTwoOneExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
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

func (op *revTwoOneExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.next = sol.NextVertex(vertex)
		c.nextnext = sol.NextVertexIn(route, c.next)

		cVNext := sol.CostPrevIn(route, c.next)
		c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnext)

		return c
	}

	route := sol.RouteIndex(backup)
	c.next = sol.FirstCustomer(route)
	c.nextnext = sol.NextVertex(c.next)

	cVNext := sol.CostPrevCustomer(c.next)
	c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnext)

	return c
}

func (op *revTwoOneExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)
	cNexts := op.inst.Cost(ci.next, cj.next)

	delta1 := op.inst.Cost(cj.nextnext, ci.prev) + edge +
		op.inst.Cost(ci.prevprev, cj.next) + cNexts + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.nextnext, cj.prev) + edge +
		op.inst.Cost(cj.prevprev, ci.next) + cNexts + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *revTwoOneExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	iSequenceAdd := op.inst.Cost(cj.nextnext, ci.prev) + op.moves.EdgeCost(move)
	jNextAdd := op.inst.Cost(ci.prevprev, cj.next) + op.inst.Cost(cj.next, ci.next)

	return iSequenceAdd + jNextAdd + ci.rem1 + cj.rem2
}
