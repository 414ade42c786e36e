package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// revThreeZeroExchange relocates the string (iPrevPrev, iPrev, i) reversed
// right after j: the result reads j, i, iPrev, iPrevPrev, jNext.
type revThreeZeroExchange struct {
	operatorBase
}

func newRevThreeZeroExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *revThreeZeroExchange {
	return &revThreeZeroExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*revThreeZeroExchange) symmetric() bool { return false }

func (op *revThreeZeroExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)
	jNext := sol.NextVertexIn(jRoute, j)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrevPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, jNext)
	iSequenceAdd := op.inst.Cost(jNext, iPrevPrev) + op.inst.Cost(i, j)
	iFilling := op.inst.Cost(iPrevPrevPrev, iNext)

	return iSequenceAdd + iFilling + iSequenceRem + jSequenceRem
}

func (op *revThreeZeroExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && iPrevPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)+op.inst.Demand(i)+op.inst.Demand(iPrev)+op.inst.Demand(iPrevPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != iPrev && j != iPrevPrev && j != sol.PrevVertexIn(iRoute, iPrevPrev))
}

func (op *revThreeZeroExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)

	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)
	iNextNextNext := sol.NextVertexIn(iRoute, iNextNext)

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
	affected.Insert(j)
	affected.Insert(jNext)
	affected.Insert(jNextNext)
	affected.Insert(jNextNextNext)

	op.markBoth(iPrevPrevPrev)
	op.markBoth(iPrevPrev) // the reversal changes its predecessor
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markFirst(iNext)
	op.markFirst(iNextNext)
	op.markFirst(iNextNextNext)
	op.markFirst(jNextNextNext)
	op.markFirst(jNextNext)
	op.markFirst(jNext)
	op.markBoth(j)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)
	sol.RemoveVertex(iRoute, iPrevPrev)

	sol.InsertVertexBefore(jRoute, jNext, i)
	sol.InsertVertexBefore(jRoute, jNext, iPrev)
	sol.InsertVertexBefore(jRoute, jNext, iPrevPrev)

	if sol.IsRouteEmpty(iRoute) {
		sol.RemoveRoute(iRoute)
	}
}

// rem1: extracting the 3-string ending at v with the gap filled; rem2: the
// arc (v, next) removed by an insertion after v.
func (op *revThreeZeroExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)

		cVNext := sol.CostPrevIn(route, c.next)
		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - cVNext + op.inst.Cost(c.prevprevprev, c.next)
		c.rem2 = -cVNext

		return c
	}

	route := sol.RouteIndex(backup)
	prev := sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.prevprev = sol.PrevVertex(prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)

	cVNext := sol.CostPrevCustomer(c.next)
	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - cVNext + op.inst.Cost(c.prevprevprev, c.next)
	c.rem2 = -cVNext

	return c
}

func (op *revThreeZeroExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		next := sol.NextVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, prev)
		prevprevprev := sol.PrevVertexIn(route, c.prevprev)

		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, next) +
			op.inst.Cost(prevprevprev, next)

		return c
	}

	route := sol.RouteIndex(backup)
	prev := sol.LastCustomer(route)
	next := sol.FirstCustomer(route)
	c.prevprev = sol.PrevVertex(prev)
	prevprevprev := sol.PrevVertexIn(route, c.prevprev)

	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(next) +
		op.inst.Cost(prevprevprev, next)

	return c
}

func (op *revThreeZeroExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.next = sol.NextVertex(vertex)
		c.rem2 = -sol.CostPrevIn(route, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.next = sol.FirstCustomer(route)
	c.rem2 = -sol.CostPrevCustomer(c.next)

	return c
}

func (op *revThreeZeroExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := op.inst.Cost(cj.next, ci.prevprev) + edge + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.next, cj.prevprev) + edge + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *revThreeZeroExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.inst.Cost(cj.next, ci.prevprev) + op.moves.EdgeCost(move) + ci.rem1 + cj.rem2
}
