package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// tailsExchange exchanges route suffixes: (i, iNext) and (jPrev, j) become
// (i, j) and (jPrev, iNext).
type tailsExchange struct {
	operatorBase
}

func newTailsExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *tailsExchange {
	return &tailsExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*tailsExchange) symmetric() bool { return false }

func (op *tailsExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	jPrev := sol.PrevVertexIn(jRoute, j)

	return -sol.CostPrevIn(iRoute, iNext) + op.inst.Cost(i, j) -
		sol.CostPrevIn(jRoute, j) + op.inst.Cost(jPrev, iNext)
}

func (op *tailsExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	return iRoute != jRoute &&
		sol.LoadBefore(i)+sol.LoadAfter(j) <= op.inst.Capacity() &&
		sol.LoadBefore(j)-op.inst.Demand(j)+sol.LoadAfter(i)-op.inst.Demand(i) <= op.inst.Capacity()
}

func (op *tailsExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iNext := sol.NextVertex(i)
	jPrev := sol.PrevVertex(j)

	iRoute := sol.RouteIndex(i)
	jRoute := sol.RouteIndex(j)

	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(jPrev)
	affected.Insert(j)

	op.markFirst(i)
	op.markSecond(iNext)
	op.markSecond(j)
	op.markFirst(jPrev)

	sol.SwapTails(i, iRoute, j, jRoute)

	if sol.IsRouteEmpty(iRoute) {
		sol.RemoveRoute(iRoute)
	}
	if sol.IsRouteEmpty(jRoute) {
		sol.RemoveRoute(jRoute)
	}
}

// rem1: the arc (v, next) removed when v keeps its prefix; rem2: the arc
// (prev, v) removed when v keeps its suffix.
func (op *tailsExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.next = sol.NextVertex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.rem1 = -sol.CostPrevIn(route, c.next)
		c.rem2 = -sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.next = sol.FirstCustomer(route)
	c.prev = sol.LastCustomer(route)
	c.rem1 = -sol.CostPrevCustomer(c.next)
	c.rem2 = -sol.CostPrevDepot(route)

	return c
}

func (op *tailsExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.next = sol.NextVertex(vertex)
		c.rem1 = -sol.CostPrevIn(route, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.next = sol.FirstCustomer(route)
	c.rem1 = -sol.CostPrevCustomer(c.next)

	return c
}

func (op *tailsExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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

func (op *tailsExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := ci.rem1 + edge + cj.rem2 + op.inst.Cost(cj.prev, ci.next)
	delta2 := cj.rem1 + edge + ci.rem2 + op.inst.Cost(ci.prev, cj.next)

	return delta1, delta2
}

func (op *tailsExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return ci.rem1 + op.moves.EdgeCost(move) + cj.rem2 + op.inst.Cost(cj.prev, ci.next)
}
