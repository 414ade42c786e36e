package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// twoZeroExchange relocates the string (iPrev, i) immediately before j.
type twoZeroExchange struct {
	operatorBase
}

func newTwoZeroExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *twoZeroExchange {
	return &twoZeroExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*twoZeroExchange) symmetric() bool { return false }

func (op *twoZeroExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	jPrev := sol.PrevVertexIn(jRoute, j)

	return -sol.CostPrevIn(iRoute, iPrev) - sol.CostPrevIn(iRoute, iNext) + op.inst.Cost(iPrevPrev, iNext) -
		sol.CostPrevIn(jRoute, j) + op.inst.Cost(jPrev, iPrev) + op.inst.Cost(i, j)
}

func (op *twoZeroExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)
	iPrev := sol.PrevVertexIn(iRoute, i)

	return (iRoute != jRoute && iPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)+op.inst.Demand(i)+op.inst.Demand(iPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != sol.NextVertexIn(iRoute, i) && iPrev != j)
}

func (op *twoZeroExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jNext := sol.NextVertexIn(jRoute, j)

	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)

	op.markFirst(iPrevPrev)
	op.markBoth(iPrev)
	op.markFirst(i)
	op.markBoth(iNext)
	op.markFirst(iNextNext)
	op.markFirst(jPrev)
	op.markBoth(j)
	op.markFirst(jNext)

	sol.RemoveVertex(iRoute, iPrev)
	sol.RemoveVertex(iRoute, i)
	sol.InsertVertexBefore(jRoute, j, iPrev)
	sol.InsertVertexBefore(jRoute, j, i)

	if sol.IsRouteEmpty(iRoute) {
		sol.RemoveRoute(iRoute)
	}
}

// rem1: extracting the string (prev, v) with the gap filled; rem2: the arc
// (prev, v) removed by an insertion before v.
func (op *twoZeroExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		prevprev := sol.PrevVertexIn(route, c.prev)
		next := sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevIn(route, next) + op.inst.Cost(prevprev, next)
		c.rem2 = -sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	prevprev := sol.PrevVertex(c.prev)
	next := sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevCustomer(next) + op.inst.Cost(prevprev, next)
	c.rem2 = -sol.CostPrevDepot(route)

	return c
}

func (op *twoZeroExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		prevprev := sol.PrevVertexIn(route, c.prev)
		next := sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevIn(route, next) + op.inst.Cost(prevprev, next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	prevprev := sol.PrevVertex(c.prev)
	next := sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevCustomer(next) + op.inst.Cost(prevprev, next)

	return c
}

func (op *twoZeroExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		c.prev = sol.PrevVertex(vertex)
		c.rem2 = -sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.rem2 = -sol.CostPrevDepot(route)

	return c
}

func (op *twoZeroExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := op.inst.Cost(cj.prev, ci.prev) + edge + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.prev, cj.prev) + edge + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *twoZeroExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.inst.Cost(cj.prev, ci.prev) + op.moves.EdgeCost(move) + ci.rem1 + cj.rem2
}
