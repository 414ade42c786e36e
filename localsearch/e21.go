package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// twoOneExchange swaps the string (iPrev, i) with the single customer jPrev,
// placing i right before j.
type twoOneExchange struct {
	operatorBase
}

func newTwoOneExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64) *twoOneExchange {
	return &twoOneExchange{operatorBase: newOperatorBase(inst, moves, tolerance)}
}

func (*twoOneExchange) symmetric() bool { return false }

func (op *twoOneExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrev) - sol.CostPrevIn(iRoute, iNext)
	jPrevRem := -sol.CostPrevIn(jRoute, jPrev) - sol.CostPrevIn(jRoute, j)

	iSequenceAdd := op.inst.Cost(jPrevPrev, iPrev) + op.inst.Cost(i, j)
	jPrevAdd := op.inst.Cost(iPrevPrev, jPrev) + op.inst.Cost(jPrev, iNext)

	return iSequenceAdd + jPrevAdd + iSequenceRem + jPrevRem
}

func (op *twoOneExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	jPrev := sol.PrevVertexIn(jRoute, j)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && jPrev != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jPrev)+op.inst.Demand(iPrev)+op.inst.Demand(i) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jPrev)-op.inst.Demand(iPrev)-op.inst.Demand(i) <= op.inst.Capacity()) ||
		(iRoute == jRoute && i != jPrev && sol.NextVertexIn(iRoute, i) != jPrev && iPrev != j)
}

func (op *twoOneExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iNextNext := sol.NextVertexIn(iRoute, iNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jNext := sol.NextVertexIn(jRoute, j)

	affected.Insert(iPrevPrev)
	affected.Insert(iPrev)
	affected.Insert(i)
	affected.Insert(iNext)
	affected.Insert(iNextNext)
	affected.Insert(jPrevPrev)
	affected.Insert(jPrev)
	affected.Insert(j)
	affected.Insert(jNext)

	op.markFirst(iPrevPrev)
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markBoth(iNext)
	op.markBoth(iNextNext)
	op.markFirst(jPrevPrev)
	op.markBoth(jPrev)
	op.markBoth(j)
	op.markBoth(jNext)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)

	sol.InsertVertexBefore(jRoute, j, iPrev)
	sol.InsertVertexBefore(jRoute, j, i)

	sol.RemoveVertex(jRoute, jPrev)
	sol.InsertVertexBefore(iRoute, iNext, jPrev)
}

// rem1: extracting the 2-string ending at v; rem2: extracting v's
// predecessor together with the arc into v.
func (op *twoOneExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.prev = sol.PrevVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, c.prev)
		c.next = sol.NextVertex(vertex)

		cPrevPrevPrev := sol.CostPrevIn(route, c.prev)
		c.rem1 = -cPrevPrevPrev - sol.CostPrevIn(route, c.next)
		c.rem2 = -cPrevPrevPrev - sol.CostPrevCustomer(vertex)

		return c
	}

	route := sol.RouteIndex(backup)
	c.prev = sol.LastCustomer(route)
	c.prevprev = sol.PrevVertex(c.prev)
	c.next = sol.FirstCustomer(route)

	cPrevPrevPrev := sol.CostPrevCustomer(c.prev)
	c.rem1 = -cPrevPrevPrev - sol.CostPrevCustomer(c.next)
	c.rem2 = -cPrevPrevPrev - sol.CostPrevDepot(route)

	return c
}

func (op *twoOneExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
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

func (op *twoOneExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
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

func (op *twoOneExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	iSequenceAdd := op.inst.Cost(cj.prevprev, ci.prev) + edge
	jSequenceAdd := op.inst.Cost(ci.prevprev, cj.prev) + edge

	jPrevAdd := op.inst.Cost(ci.prevprev, cj.prev) + op.inst.Cost(cj.prev, ci.next)
	iPrevAdd := op.inst.Cost(cj.prevprev, ci.prev) + op.inst.Cost(ci.prev, cj.next)

	delta1 := iSequenceAdd + jPrevAdd + ci.rem1 + cj.rem2
	delta2 := jSequenceAdd + iPrevAdd + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *twoOneExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	iSequenceAdd := op.inst.Cost(cj.prevprev, ci.prev) + op.moves.EdgeCost(move)
	jPrevAdd := op.inst.Cost(ci.prevprev, cj.prev) + op.inst.Cost(cj.prev, ci.next)

	return iSequenceAdd + jPrevAdd + ci.rem1 + cj.rem2
}
