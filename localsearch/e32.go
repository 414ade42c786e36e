package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// threeTwoExchange swaps the string (iPrevPrev, iPrev, i) with the string
// (jPrevPrev, jPrev), placing i right before j.
type threeTwoExchange struct {
	operatorBase
}

func newThreeTwoExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *threeTwoExchange {
	return &threeTwoExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*threeTwoExchange) symmetric() bool { return false }

func (op *threeTwoExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
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

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrevPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, jPrevPrev) - sol.CostPrevIn(jRoute, j)

	iSequenceAdd := op.inst.Cost(jPrevPrevPrev, iPrevPrev) + op.inst.Cost(i, j)
	jSequenceAdd := op.inst.Cost(iPrevPrevPrev, jPrevPrev) + op.inst.Cost(jPrev, iNext)

	return iSequenceAdd + jSequenceAdd + iSequenceRem + jSequenceRem
}

func (op *threeTwoExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && iPrevPrev != op.inst.Depot() &&
		jPrev != op.inst.Depot() && jPrevPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jPrev)-op.inst.Demand(jPrevPrev)+
			op.inst.Demand(i)+op.inst.Demand(iPrev)+op.inst.Demand(iPrevPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jPrev)+op.inst.Demand(jPrevPrev)-
			op.inst.Demand(i)-op.inst.Demand(iPrev)-op.inst.Demand(iPrevPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && i != jPrev && i != jPrevPrev &&
			sol.NextVertexIn(iRoute, i) != jPrevPrev && j != iPrev && j != iPrevPrev)
}

func (op *threeTwoExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
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
	jPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrev)
	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)

	affected.Insert(iPrevPrevPrev)
	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(iNextNextNext)
	affected.Insert(jPrevPrevPrev)
	affected.Insert(jPrevPrev)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)
	affected.Insert(jNextNext)

	op.markFirst(iPrevPrevPrev)
	op.markBoth(iPrevPrev)
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markBoth(iNext)
	op.markBoth(iNextNext)
	op.markFirst(iNextNextNext)
	op.markFirst(jPrevPrevPrev)
	op.markBoth(jPrevPrev)
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
	sol.RemoveVertex(jRoute, jPrevPrev)

	sol.InsertVertexBefore(iRoute, iNext, jPrevPrev)
	sol.InsertVertexBefore(iRoute, iNext, jPrev)
}

// rem1: extracting the 3-string ending at v; rem2: extracting the 2-string
// ending at v's predecessor.
func (op *threeTwoExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.next = sol.NextVertex(vertex)

		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, c.next)
		c.rem2 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.next = sol.FirstCustomer(route)

	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(c.next)
	c.rem2 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevDepot(route)

	return c
}

func (op *threeTwoExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
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

func (op *threeTwoExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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

func (op *threeTwoExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := op.inst.Cost(cj.prevprevprev, ci.prevprev) + edge +
		op.inst.Cost(ci.prevprevprev, cj.prevprev) + op.inst.Cost(cj.prev, ci.next) +
		ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.prevprevprev, cj.prevprev) + edge +
		op.inst.Cost(cj.prevprevprev, ci.prevprev) + op.inst.Cost(ci.prev, cj.next) +
		cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *threeTwoExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.inst.Cost(cj.prevprevprev, ci.prevprev) + op.moves.EdgeCost(move) +
		op.inst.Cost(ci.prevprevprev, cj.prevprev) + op.inst.Cost(cj.prev, ci.next) +
		ci.rem1 + cj.rem2
}
