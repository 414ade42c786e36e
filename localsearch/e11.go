package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// oneOneExchange swaps customer i with jPrev, placing i right before j.
type oneOneExchange struct {
	operatorBase
}

func newOneOneExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *oneOneExchange {
	return &oneOneExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*oneOneExchange) symmetric() bool { return false }

func (op *oneOneExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iNext := sol.NextVertexIn(iRoute, i)
	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)

	iRem := -sol.CostPrevIn(iRoute, i) - sol.CostPrevIn(iRoute, iNext)
	jPrevRem := -sol.CostPrevIn(jRoute, jPrev) - sol.CostPrevIn(jRoute, j)
	iAdd := op.inst.Cost(jPrevPrev, i) + op.inst.Cost(i, j)
	jPrevAdd := op.inst.Cost(iPrev, jPrev) + op.inst.Cost(jPrev, iNext)

	return iAdd + jPrevAdd + iRem + jPrevRem
}

func (op *oneOneExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)
	jPrev := sol.PrevVertexIn(jRoute, j)

	return (iRoute != jRoute && jPrev != op.inst.Depot() &&
		sol.RouteLoad(iRoute)-op.inst.Demand(i)+op.inst.Demand(jPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jPrev)+op.inst.Demand(i) <= op.inst.Capacity()) ||
		(iRoute == jRoute && i != jPrev && jPrev != sol.NextVertexIn(iRoute, i))
}

func (op *oneOneExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jNext := sol.NextVertexIn(jRoute, j)

	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(jPrevPrev)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)

	op.markFirst(iPrev)
	op.markBoth(i)
	op.markBoth(iNext)
	op.markSecond(iNextNext)
	op.markFirst(jPrevPrev)
	op.markBoth(jPrev)
	op.markBoth(j)
	op.markSecond(jNext)

	sol.RemoveVertex(iRoute, i)
	sol.InsertVertexBefore(jRoute, j, i)

	sol.RemoveVertex(jRoute, jPrev)
	sol.InsertVertexBefore(iRoute, iNext, jPrev)
}

// rem1: extracting v alone; rem2: extracting (prev, v)'s predecessor pair
// boundary when v plays the second role.
func (op *oneOneExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.rem1 = -sol.CostPrevCustomer(vertex) - sol.CostPrevIn(route, c.next)
		c.rem2 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.rem1 = -sol.CostPrevDepot(route) - sol.CostPrevCustomer(c.next)
	c.rem2 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevDepot(route)

	return c
}

func (op *oneOneExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevCustomer(vertex) - sol.CostPrevIn(route, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevDepot(route) - sol.CostPrevCustomer(c.next)

	return c
}

func (op *oneOneExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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
	c.prevprev = sol.PrevVertex(c.prev)
	c.rem2 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevDepot(route)

	return c
}

func (op *oneOneExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)
	cPrevPrev := op.inst.Cost(ci.prev, cj.prev)

	delta1 := op.inst.Cost(cj.prevprev, ci.v) + edge + cPrevPrev +
		op.inst.Cost(cj.prev, ci.next) + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.prevprev, cj.v) + edge + cPrevPrev +
		op.inst.Cost(ci.prev, cj.next) + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *oneOneExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.inst.Cost(cj.prevprev, ci.v) + op.moves.EdgeCost(move) +
		op.inst.Cost(ci.prev, cj.prev) + op.inst.Cost(cj.prev, ci.next) + ci.rem1 + cj.rem2
}
