package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// twoTwoExchange swaps the string (iPrev, i) with the string
// (jPrevPrev, jPrev), placing i right before j.
type twoTwoExchange struct {
	operatorBase
}

func newTwoTwoExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *twoTwoExchange {
	return &twoTwoExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*twoTwoExchange) symmetric() bool { return false }

func (op *twoTwoExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrev)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, jPrevPrev) - sol.CostPrevIn(jRoute, j)

	iSequenceAdd := op.inst.Cost(jPrevPrevPrev, iPrev) + op.inst.Cost(i, j)
	jSequenceAdd := op.inst.Cost(iPrevPrev, jPrevPrev) + op.inst.Cost(jPrev, iNext)

	return iSequenceAdd + jSequenceAdd + iSequenceRem + jSequenceRem
}

func (op *twoTwoExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)

	return (iRoute != jRoute && iPrev != op.inst.Depot() &&
		jPrev != op.inst.Depot() && jPrevPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jPrev)-op.inst.Demand(jPrevPrev)+
			op.inst.Demand(i)+op.inst.Demand(iPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jPrev)+op.inst.Demand(jPrevPrev)-
			op.inst.Demand(i)-op.inst.Demand(iPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && i != jPrev && i != jPrevPrev &&
			sol.NextVertexIn(iRoute, i) != jPrevPrev && j != iPrev)
}

func (op *twoTwoExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrev)
	jNext := sol.NextVertexIn(jRoute, j)

	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(jPrevPrevPrev)
	affected.Insert(jPrevPrev)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)

	op.markFirst(iPrevPrev)
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markBoth(iNext)
	op.markBoth(iNextNext)
	op.markFirst(jPrevPrevPrev)
	op.markBoth(jPrevPrev)
	op.markBoth(jPrev)
	op.markBoth(j)
	op.markBoth(jNext)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)

	sol.InsertVertexBefore(jRoute, j, iPrev)
	sol.InsertVertexBefore(jRoute, j, i)

	sol.RemoveVertex(jRoute, jPrev)
	sol.RemoveVertex(jRoute, jPrevPrev)

	sol.InsertVertexBefore(iRoute, iNext, jPrevPrev)
	sol.InsertVertexBefore(iRoute, iNext, jPrev)
}

// rem1: extracting the 2-string ending at v; rem2: extracting the 2-string
// ending at v's predecessor.
func (op *twoTwoExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.next = sol.NextVertex(vertex)

		c.rem1 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevIn(route, c.next)
		c.rem2 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.next = sol.FirstCustomer(route)

	c.rem1 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevCustomer(c.next)
	c.rem2 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevDepot(route)

	return c
}

func (op *twoTwoExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
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

func (op *twoTwoExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.rem2 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.rem2 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevDepot(route)

	return c
}

func (op *twoTwoExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := op.inst.Cost(cj.prevprevprev, ci.prev) + edge +
		op.inst.Cost(ci.prevprev, cj.prevprev) + op.inst.Cost(cj.prev, ci.next) +
		ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.prevprevprev, cj.prev) + edge +
		op.inst.Cost(cj.prevprev, ci.prevprev) + op.inst.Cost(ci.prev, cj.next) +
		cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *twoTwoExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.inst.Cost(cj.prevprevprev, ci.prev) + op.moves.EdgeCost(move) +
		op.inst.Cost(ci.prevprev, cj.prevprev) + op.inst.Cost(cj.prev, ci.next) +
		ci.rem1 + cj.rem2
}
