package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// threeZeroExchange relocates the string (iPrevPrev, iPrev, i) immediately
// before j.
type threeZeroExchange struct {
	operatorBase
}

func newThreeZeroExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *threeZeroExchange {
	return &threeZeroExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*threeZeroExchange) symmetric() bool { return false }

func (op *threeZeroExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)
	jPrev := sol.PrevVertexIn(jRoute, j)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrevPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, j)
	iSequenceAdd := op.inst.Cost(jPrev, iPrevPrev) + op.inst.Cost(i, j)
	iFilling := op.inst.Cost(iPrevPrevPrev, iNext)

	return iSequenceAdd + iFilling + iSequenceRem + jSequenceRem
}

func (op *threeZeroExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && iPrevPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)+op.inst.Demand(i)+op.inst.Demand(iPrev)+op.inst.Demand(iPrevPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != iPrev && j != iPrevPrev && j != sol.NextVertexIn(iRoute, i))
}

func (op *threeZeroExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
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
	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)

	affected.Insert(iPrevPrevPrev)
	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(iNextNextNext)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)
	affected.Insert(jNextNext)

	op.markFirst(iPrevPrevPrev)
	op.markBoth(iPrevPrev)
	op.markFirst(iPrev)
	op.markFirst(i)
	op.markBoth(iNext)
	op.markFirst(iNextNext)
	op.markFirst(iNextNextNext)
	op.markFirst(jPrev)
	op.markBoth(j)
	op.markFirst(jNext)
	op.markFirst(jNextNext)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)
	sol.RemoveVertex(iRoute, iPrevPrev)

	sol.InsertVertexBefore(jRoute, j, iPrevPrev)
	sol.InsertVertexBefore(jRoute, j, iPrev)
	sol.InsertVertexBefore(jRoute, j, i)

	if sol.IsRouteEmpty(iRoute) {
		sol.RemoveRoute(iRoute)
	}
}

// rem1: extracting the 3-string ending at v with the gap filled; rem2: the
// arc (prev, v) removed by an insertion before v.
func (op *threeZeroExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		prevprevprev := sol.PrevVertexIn(route, c.prevprev)
		next := sol.NextVertex(vertex)

		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, next) +
			op.inst.Cost(prevprevprev, next)
		c.rem2 = -sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	prevprevprev := sol.PrevVertexIn(route, c.prevprev)
	next := sol.FirstCustomer(route)

	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(next) +
		op.inst.Cost(prevprevprev, next)
	c.rem2 = -sol.CostPrevDepot(route)

	return c
}

func (op *threeZeroExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, prev)
		prevprevprev := sol.PrevVertexIn(route, c.prevprev)
		next := sol.NextVertex(vertex)

		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, next) +
			op.inst.Cost(prevprevprev, next)

		return c
	}

	route := sol.RouteIndex(backup)
	prev := sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(prev)
	prevprevprev := sol.PrevVertexIn(route, c.prevprev)
	next := sol.FirstCustomer(route)

	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(next) +
		op.inst.Cost(prevprevprev, next)

	return c
}

func (op *threeZeroExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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

func (op *threeZeroExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := op.inst.Cost(cj.prev, ci.prevprev) + edge + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.prev, cj.prevprev) + edge + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *threeZeroExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.inst.Cost(cj.prev, ci.prevprev) + op.moves.EdgeCost(move) + ci.rem1 + cj.rem2
}
