package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// revTwoZeroExchange relocates the string (iPrev, i) reversed right after j:
// the result reads j, i, iPrev, jNext.
type revTwoZeroExchange struct {
	operatorBase
}

func newRevTwoZeroExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *revTwoZeroExchange {
	return &revTwoZeroExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*revTwoZeroExchange) symmetric() bool { return false }

func (op *revTwoZeroExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	jNext := sol.NextVertexIn(jRoute, j)

	return -sol.CostPrevIn(iRoute, iPrev) - sol.CostPrevIn(iRoute, iNext) + op.inst.Cost(iPrevPrev, iNext) -
		sol.CostPrevIn(jRoute, jNext) + op.inst.Cost(i, j) + op.inst.Cost(iPrev, jNext)
}

func (op *revTwoZeroExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)
	iPrev := sol.PrevVertexIn(iRoute, i)

	return (iRoute != jRoute && iPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)+op.inst.Demand(i)+op.inst.Demand(iPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && iPrev != j && j != sol.PrevVertexIn(iRoute, iPrev))
}

func (op *revTwoZeroExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)

	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(j)
	affected.Insert(jNext)
	affected.Insert(jNextNext)

	op.markBoth(iPrevPrev)
	op.markBoth(iPrev) // the reversal changes iPrev's predecessor
	op.markBoth(i)
	op.markFirst(iNext)
	op.markFirst(iNextNext)
	op.markBoth(j)
	op.markFirst(jNext)
	op.markFirst(jNextNext)

	sol.RemoveVertex(iRoute, iPrev)
	sol.RemoveVertex(iRoute, i)
	sol.InsertVertexBefore(jRoute, jNext, i)
	sol.InsertVertexBefore(jRoute, jNext, iPrev)

	if sol.IsRouteEmpty(iRoute) {
		sol.RemoveRoute(iRoute)
	}
}

// rem1: extracting the string (prev, v) with the gap filled; rem2: the arc
// (v, next) removed by an insertion after v.
func (op *revTwoZeroExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		prevprev := sol.PrevVertexIn(route, c.prev)
		c.next = sol.NextVertex(vertex)

		c.rem2 = -sol.CostPrevIn(route, c.next)
		c.rem1 = -sol.CostPrevIn(route, c.prev) + c.rem2 + op.inst.Cost(prevprev, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	prevprev := sol.PrevVertex(c.prev)
	c.next = sol.FirstCustomer(route)

	c.rem2 = -sol.CostPrevCustomer(c.next)
	c.rem1 = -sol.CostPrevCustomer(c.prev) + c.rem2 + op.inst.Cost(prevprev, c.next)

	return c
}

func (op *revTwoZeroExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		prevprev := sol.PrevVertexIn(route, c.prev)
		next := sol.NextVertex(vertex)

		c.rem1 = -sol.CostPrevIn(route, c.prev) - sol.CostPrevIn(route, next) +
			op.inst.Cost(prevprev, next)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	prevprev := sol.PrevVertex(c.prev)
	next := sol.FirstCustomer(route)

	c.rem1 = -sol.CostPrevCustomer(c.prev) - sol.CostPrevCustomer(next) +
		op.inst.Cost(prevprev, next)

	return c
}

func (op *revTwoZeroExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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

func (op *revTwoZeroExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	delta1 := edge + op.inst.Cost(ci.prev, cj.next) + ci.rem1 + cj.rem2
	delta2 := edge + op.inst.Cost(cj.prev, ci.next) + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *revTwoZeroExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	return op.moves.EdgeCost(move) + op.inst.Cost(ci.prev, cj.next) + ci.rem1 + cj.rem2
}
