package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// oneZeroExchange relocates customer i immediately before j.
type oneZeroExchange struct {
	operatorBase
}

func newOneZeroExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *oneZeroExchange {
	return &oneZeroExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*oneZeroExchange) symmetric() bool { return false }

func (op *oneZeroExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iNext := sol.NextVertexIn(iRoute, i)
	jPrev := sol.PrevVertexIn(jRoute, j)

	return -sol.CostPrevIn(iRoute, i) - sol.CostPrevIn(iRoute, iNext) + op.inst.Cost(iPrev, iNext) -
		sol.CostPrevIn(jRoute, j) + op.inst.Cost(jPrev, i) + op.inst.Cost(i, j)
}

func (op *oneZeroExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	return (iRoute != jRoute && sol.RouteLoad(jRoute)+op.inst.Demand(i) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != sol.NextVertexIn(iRoute, i))
}

func (op *oneZeroExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iNext := sol.NextVertexIn(iRoute, i)
	jPrev := sol.PrevVertexIn(jRoute, j)

	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(jPrev)
	affected.Insert(j)

	op.markFirst(iPrev)
	op.markBoth(i)
	op.markBoth(iNext)
	op.markBoth(j)
	op.markFirst(jPrev)

	sol.RemoveVertex(iRoute, i)
	sol.InsertVertexBefore(jRoute, j, i)

	if sol.IsRouteEmpty(iRoute) {
		sol.RemoveRoute(iRoute)
	}
}

// rem1: cost change of extracting v from its route.
// rem2: arc (prev, v) removed when something is inserted before v.
func (op *oneZeroExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
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

func (op *oneZeroExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
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

func (op *oneZeroExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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

func (op *oneZeroExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := ci.rem1 + cj.rem2 + op.inst.Cost(cj.prev, ci.v) + edge
	delta2 := cj.rem1 + ci.rem2 + op.inst.Cost(ci.prev, cj.v) + edge

	return delta1, delta2
}

func (op *oneZeroExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return ci.rem1 + cj.rem2 + op.inst.Cost(cj.prev, ci.v) + op.moves.EdgeCost(move)
}
