package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// threeThreeExchange swaps the string (iPrevPrev, iPrev, i) with the string
// (jPrevPrevPrev, jPrevPrev, jPrev), placing i right before j.
type threeThreeExchange struct {
	operatorBase
}

func newThreeThreeExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *threeThreeExchange {
	return &threeThreeExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*threeThreeExchange) symmetric() bool { return false }

func (op *threeThreeExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrev)
	jPrevPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrevPrev)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrevPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, jPrevPrevPrev) - sol.CostPrevIn(jRoute, j)

	iSequenceAdd := op.inst.Cost(jPrevPrevPrevPrev, iPrevPrev) + op.inst.Cost(i, j)
	jSequenceAdd := op.inst.Cost(iPrevPrevPrev, jPrevPrevPrev) + op.inst.Cost(jPrev, iNext)

	return iSequenceAdd + jSequenceAdd + iSequenceRem + jSequenceRem
}

func (op *threeThreeExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrev)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && iPrevPrev != op.inst.Depot() &&
		jPrev != op.inst.Depot() && jPrevPrev != op.inst.Depot() && jPrevPrevPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jPrev)-op.inst.Demand(jPrevPrev)-op.inst.Demand(jPrevPrevPrev)+
			op.inst.Demand(i)+op.inst.Demand(iPrev)+op.inst.Demand(iPrevPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jPrev)+op.inst.Demand(jPrevPrev)+op.inst.Demand(jPrevPrevPrev)-
			op.inst.Demand(i)-op.inst.Demand(iPrev)-op.inst.Demand(iPrevPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && i != jPrev && i != jPrevPrev && i != jPrevPrevPrev &&
			sol.NextVertexIn(iRoute, i) != jPrevPrevPrev && j != iPrev && j != iPrevPrev)
}

func (op *threeThreeExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)

	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)
	iNextNextNext := sol.NextVertexIn(iRoute, iNextNext)
	iNextNextNextNext := sol.NextVertexIn(iRoute, iNextNextNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrev)
	jPrevPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrevPrev)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)

	affected.Insert(iPrevPrevPrev)
	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(iNextNextNext)
	affected.Insert(iNextNextNextNext)
	affected.Insert(jPrevPrevPrevPrev)
	affected.Insert(jPrevPrevPrev)
	affected.Insert(jPrevPrev)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)
	affected.Insert(jNextNext)
	affected.Insert(jNextNextNext)

	op.markFirst(iPrevPrevPrev)
	op.markBoth(iPrevPrev)
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markBoth(iNext)
	op.markBoth(iNextNext)
	op.markBoth(iNextNextNext)
	op.markSecond(iNextNextNextNext)
	op.markFirst(jPrevPrevPrevPrev)
	op.markBoth(jPrevPrevPrev)
	op.markBoth(jPrevPrev)
	op.markBoth(jPrev)
	op.markBoth(j)
	op.markBoth(jNext)
	op.markBoth(jNextNext)
	op.markSecond(jNextNextNext)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)
	sol.RemoveVertex(iRoute, iPrevPrev)

	sol.InsertVertexBefore(jRoute, j, iPrevPrev)
	sol.InsertVertexBefore(jRoute, j, iPrev)
	sol.InsertVertexBefore(jRoute, j, i)

	sol.RemoveVertex(jRoute, jPrev)
	sol.RemoveVertex(jRoute, jPrevPrev)
	sol.RemoveVertex(jRoute, jPrevPrevPrev)

	sol.InsertVertexBefore(iRoute, iNext, jPrevPrevPrev)
	sol.InsertVertexBefore(iRoute, iNext, jPrevPrev)
	sol.InsertVertexBefore(iRoute, iNext, jPrev)
}

// rem1: extracting the 3-string ending at v; rem2: extracting the 3-string
// ending at v's predecessor.
func (op *threeThreeExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.prevprevprevprev = sol.PrevVertexIn(route, c.prevprevprev)
		c.next = sol.NextVertex(vertex)

		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, c.next)
		c.rem2 = -sol.CostPrevIn(route, c.prevprevprev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.prevprevprevprev = sol.PrevVertexIn(route, c.prevprevprev)
	c.next = sol.FirstCustomer(route)

	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(c.next)
	c.rem2 = -sol.CostPrevIn(route, c.prevprevprev) - sol.CostPrevDepot(route)

	return c
}

func (op *threeThreeExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
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

func (op *threeThreeExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		prevprev := sol.PrevVertexIn(route, c.prev)
		c.prevprevprev = sol.PrevVertexIn(route, prevprev)
		c.prevprevprevprev = sol.PrevVertexIn(route, c.prevprevprev)
		c.rem2 = -sol.CostPrevIn(route, c.prevprevprev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	prevprev := sol.PrevVertex(c.prev)
	c.prevprevprev = sol.PrevVertexIn(route, prevprev)
	c.prevprevprevprev = sol.PrevVertexIn(route, c.prevprevprev)
	c.rem2 = -sol.CostPrevIn(route, c.prevprevprev) - sol.CostPrevDepot(route)

	return c
}

func (op *threeThreeExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)
	cPrev3s := op.inst.Cost(ci.prevprevprev, cj.prevprevprev)

	delta1 := op.inst.Cost(cj.prevprevprevprev, ci.prevprev) + edge + cPrev3s +
		op.inst.Cost(cj.prev, ci.next) + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.prevprevprevprev, cj.prevprev) + edge + cPrev3s +
		op.inst.Cost(ci.prev, cj.next) + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *threeThreeExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	edge := op.moves.EdgeCost(move)
	cPrev3s := op.inst.Cost(ci.prevprevprev, cj.prevprevprev)

	return op.inst.Cost(cj.prevprevprevprev, ci.prevprev) + edge + cPrev3s +
		op.inst.Cost(cj.prev, ci.next) + ci.rem1 + cj.rem2
}
