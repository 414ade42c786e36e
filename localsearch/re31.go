package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// revThreeOneExchange swaps the string (iPrevPrev, iPrev, i), reinserted
// reversed after j, with the single customer jNext, placed where the string
// was.
type revThreeOneExchange struct {
	operatorBase
}

func newRevThreeOneExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *revThreeOneExchange {
	return &revThreeOneExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*revThreeOneExchange) symmetric() bool { return false }

func (op *revThreeOneExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrevPrev) - sol.CostPrevIn(iRoute, iNext)
	jNextRem := -sol.CostPrevIn(jRoute, jNext) - sol.CostPrevIn(jRoute, jNextNext)

	iSequenceAdd := op.inst.Cost(jNextNext, iPrevPrev) + op.inst.Cost(i, j)
	jNextAdd := op.inst.Cost(iPrevPrevPrev, jNext) + op.inst.Cost(jNext, iNext)

	return iSequenceAdd + jNextAdd + iSequenceRem + jNextRem
}

func (op *revThreeOneExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)
	jNext := sol.NextVertexIn(jRoute, j)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && iPrevPrev != op.inst.Depot() &&
		jNext != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jNext)+
			op.inst.Demand(i)+op.inst.Demand(iPrev)+op.inst.Demand(iPrevPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jNext)-
			op.inst.Demand(i)-op.inst.Demand(iPrev)-op.inst.Demand(iPrevPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != iPrev && j != iPrevPrev && j != iPrevPrevPrev &&
			jNext != iPrevPrevPrev)
}

func (op *revThreeOneExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)
	iPrevPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrevPrev)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)

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

	op.markSecond(iPrevPrevPrevPrev)
	op.markBoth(iPrevPrevPrev)
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
	sol.RemoveVertex(iRoute, iPrevPrev)

	sol.InsertVertexBefore(jRoute, jNextNext, i)
	sol.InsertVertexBefore(jRoute, jNextNext, iPrev)
	sol.InsertVertexBefore(jRoute, jNextNext, iPrevPrev)
}

// rem1: extracting the 3-string ending at v; rem2: extracting v's successor
// together with the arc out of v.
func (op *revThreeOneExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.next = sol.NextVertex(vertex)
		c.nextnext = sol.NextVertexIn(route, c.next)

		cVNext := sol.CostPrevIn(route, c.next)
		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - cVNext
		c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnext)

		return c
	}

	route := sol.RouteIndex(backup)
	prev := sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.next = sol.FirstCustomer(route)
	c.nextnext = sol.NextVertex(c.next)

	cVNext := sol.CostPrevCustomer(c.next)
	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - cVNext
	c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnext)

	return c
}

func (op *revThreeOneExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.next = sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	prev := sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.next = sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(c.next)

	return c
}

func (op *revThreeOneExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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

func (op *revThreeOneExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)
	cNexts := op.inst.Cost(ci.next, cj.next)

	delta1 := op.inst.Cost(cj.nextnext, ci.prevprev) + edge +
		op.inst.Cost(ci.prevprevprev, cj.next) + cNexts + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.nextnext, cj.prevprev) + edge +
		op.inst.Cost(cj.prevprevprev, ci.next) + cNexts + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *revThreeOneExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	iSequenceAdd := op.inst.Cost(cj.nextnext, ci.prevprev) + op.moves.EdgeCost(move)
	jNextAdd := op.inst.Cost(ci.prevprevprev, cj.next) + op.inst.Cost(cj.next, ci.next)

	return iSequenceAdd + jNextAdd + ci.rem1 + cj.rem2
}
