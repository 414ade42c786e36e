package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// threeOneExchange swaps the string (iPrevPrev, iPrev, i) with the single
// customer jPrev, placing i right before j.
type threeOneExchange struct {
	operatorBase
}

func newThreeOneExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *threeOneExchange {
	return &threeOneExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*threeOneExchange) symmetric() bool { return false }

func (op *threeOneExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrevPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, jPrev) - sol.CostPrevIn(jRoute, j)

	iSequenceAdd := op.inst.Cost(jPrevPrev, iPrevPrev) + op.inst.Cost(i, j)
	jSequenceAdd := op.inst.Cost(iPrevPrevPrev, jPrev) + op.inst.Cost(jPrev, iNext)

	return iSequenceAdd + jSequenceAdd + iSequenceRem + jSequenceRem
}

func (op *threeOneExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	jPrev := sol.PrevVertexIn(jRoute, j)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && iPrevPrev != op.inst.Depot() &&
		jPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jPrev)+
			op.inst.Demand(i)+op.inst.Demand(iPrev)+op.inst.Demand(iPrevPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jPrev)-
			op.inst.Demand(i)-op.inst.Demand(iPrev)-op.inst.Demand(iPrevPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && i != jPrev && i != sol.PrevVertexIn(jRoute, jPrev) &&
			j != iPrev && j != iPrevPrev)
}

func (op *threeOneExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)

	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)
	iNextNextNext := sol.NextVertexIn(iRoute, iNextNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)

	affected.Insert(iPrevPrevPrev)
	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(iNextNextNext)
	affected.Insert(jPrevPrev)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)
	affected.Insert(jNextNext)

	op.markFirst(iPrevPrevPrev)
	op.markBoth(iPrevPrev)
	op.markBoth(iPrev)
	op.markFirst(i)
	op.markBoth(iNext)
	op.markBoth(iNextNext)
	op.markFirst(iNextNextNext)
	op.markFirst(jPrevPrev)
	op.markBoth(jPrev)
	op.markBoth(j)
	op.markBoth(jNext)
	op.markFirst(jNextNext)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)
	sol.RemoveVertex(iRoute, iPrevPrev)

	sol.InsertVertexBefore(jRoute, j, iPrevPrev)
	sol.InsertVertexBefore(jRoute, j, iPrev)
	sol.InsertVertexBefore(jRoute, j, i)

	sol.RemoveVertex(jRoute, jPrev)
	sol.InsertVertexBefore(iRoute, iNext, jPrev)
}

// rem1: extracting the 3-string ending at v; rem2: extracting v's
// predecessor together with the arc into v.
func (op *threeOneExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.next = sol.NextVertex(vertex)

		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, c.next)
		c.rem2 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.next = sol.FirstCustomer(route)

	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(c.next)
	c.rem2 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevDepot(route)

	return c
}

func (op *threeOneExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
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

func (op *threeOneExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.rem2 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertexIn(route, c.prev)
	c.rem2 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevDepot(route)

	return c
}

func (op *threeOneExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)
	cPrevPrevs := op.inst.Cost(ci.prevprev, cj.prevprev)

	delta1 := cPrevPrevs + edge +
		op.inst.Cost(ci.prevprevprev, cj.prev) + op.inst.Cost(cj.prev, ci.next) +
		ci.rem1 + cj.rem2
	delta2 := cPrevPrevs + edge +
		op.inst.Cost(cj.prevprevprev, ci.prev) + op.inst.Cost(ci.prev, cj.next) +
		cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *threeOneExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	iSequenceAdd := op.inst.Cost(cj.prevprev, ci.prevprev) + op.moves.EdgeCost(move)
	jSequenceAdd := op.inst.Cost(ci.prevprevprev, cj.prev) + op.inst.Cost(cj.prev, ci.next)

	return iSequenceAdd + jSequenceAdd + ci.rem1 + cj.rem2
}
