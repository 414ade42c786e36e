package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// revThreeThreeExchange swaps the string (iPrevPrev, iPrev, i), reinserted
// reversed after j, with the string (jNext, jNextNext, jNextNextNext),
// placed where the i-string was. When reverseBoth is set the j-string is
// reinserted reversed as well.
type revThreeThreeExchange struct {
	operatorBase
	reverseBoth bool
}

func newRevThreeThreeExchange(inst *instance.Instance, moves *movegen.Store, tolerance float64, reverseBoth bool) *revThreeThreeExchange {
	return &revThreeThreeExchange{
		operatorBase: newOperatorBase(inst, moves, tolerance),
		reverseBoth:  reverseBoth,
	}
}

func (*revThreeThreeExchange) symmetric() bool { return false }

func (op *revThreeThreeExchange) exactCost(sol *solution.Solution, move *movegen.Entry) float64 {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iNext := sol.NextVertexIn(iRoute, i)
	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)
	jNextNextNextNext := sol.NextVertexIn(jRoute, jNextNextNext)

	iSequenceRem := -sol.CostPrevIn(iRoute, iPrevPrev) - sol.CostPrevIn(iRoute, iNext)
	jSequenceRem := -sol.CostPrevIn(jRoute, jNext) - sol.CostPrevIn(jRoute, jNextNextNextNext)

	iSequenceAdd := op.inst.Cost(jNextNextNextNext, iPrevPrev) + op.inst.Cost(i, j)

	var jSequenceAdd float64
	if op.reverseBoth {
		jSequenceAdd = op.inst.Cost(iPrevPrevPrev, jNextNextNext) + op.inst.Cost(jNext, iNext)
	} else {
		jSequenceAdd = op.inst.Cost(iPrevPrevPrev, jNext) + op.inst.Cost(jNextNextNext, iNext)
	}

	return iSequenceAdd + jSequenceAdd + iSequenceRem + jSequenceRem
}

func (op *revThreeThreeExchange) feasible(sol *solution.Solution, move *movegen.Entry) bool {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)

	return (iRoute != jRoute && iPrev != op.inst.Depot() && iPrevPrev != op.inst.Depot() &&
		jNext != op.inst.Depot() && jNextNext != op.inst.Depot() && jNextNextNext != op.inst.Depot() &&
		sol.RouteLoad(jRoute)-op.inst.Demand(jNext)-op.inst.Demand(jNextNext)-op.inst.Demand(jNextNextNext)+
			op.inst.Demand(i)+op.inst.Demand(iPrev)+op.inst.Demand(iPrevPrev) <= op.inst.Capacity() &&
		sol.RouteLoad(iRoute)+op.inst.Demand(jNext)+op.inst.Demand(jNextNext)+op.inst.Demand(jNextNextNext)-
			op.inst.Demand(i)-op.inst.Demand(iPrev)-op.inst.Demand(iPrevPrev) <= op.inst.Capacity()) ||
		(iRoute == jRoute && j != iPrev && j != iPrevPrev && jNext != iPrevPrev &&
			jNextNext != iPrevPrev && jNextNextNext != iPrevPrev &&
			jNextNextNext != sol.PrevVertexIn(iRoute, iPrevPrev))
}

func (op *revThreeThreeExchange) execute(sol *solution.Solution, move *movegen.Entry, affected *container.SparseIntSet) {
	i, j := move.First(), move.Second()

	iRoute := sol.RouteIndexOf(i, j)
	jRoute := sol.RouteIndexOf(j, i)

	iPrev := sol.PrevVertexIn(iRoute, i)
	iPrevPrev := sol.PrevVertexIn(iRoute, iPrev)
	iPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrev)
	iPrevPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrevPrev)
	iPrevPrevPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrevPrevPrev)
	iPrevPrevPrevPrevPrevPrev := sol.PrevVertexIn(iRoute, iPrevPrevPrevPrevPrev)

	iNext := sol.NextVertexIn(iRoute, i)
	iNextNext := sol.NextVertexIn(iRoute, iNext)
	iNextNextNext := sol.NextVertexIn(iRoute, iNextNext)

	jPrev := sol.PrevVertexIn(jRoute, j)
	jPrevPrev := sol.PrevVertexIn(jRoute, jPrev)
	jPrevPrevPrev := sol.PrevVertexIn(jRoute, jPrevPrev)

	jNext := sol.NextVertexIn(jRoute, j)
	jNextNext := sol.NextVertexIn(jRoute, jNext)
	jNextNextNext := sol.NextVertexIn(jRoute, jNextNext)
	jNextNextNextNext := sol.NextVertexIn(jRoute, jNextNextNext)
	jNextNextNextNextNext := sol.NextVertexIn(jRoute, jNextNextNextNext)
	jNextNextNextNextNextNext := sol.NextVertexIn(jRoute, jNextNextNextNextNext)

	affected.Insert(iPrevPrevPrevPrevPrevPrev)
	affected.Insert(iPrevPrevPrevPrevPrev)
	affected.Insert(iPrevPrevPrevPrev)
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
	affected.Insert(jNextNextNext)
	affected.Insert(jNextNextNextNext)
	affected.Insert(jNextNextNextNextNext)
	affected.Insert(jNextNextNextNextNextNext)

	op.markSecond(iPrevPrevPrevPrevPrevPrev)
	op.markSecond(iPrevPrevPrevPrevPrev)
	op.markSecond(iPrevPrevPrevPrev)
	op.markBoth(iPrevPrevPrev)
	op.markBoth(iPrevPrev)
	op.markBoth(iPrev)
	op.markBoth(i)
	op.markFirst(iNext)
	op.markFirst(iNextNext)
	op.markFirst(iNextNextNext)
	op.markFirst(jNextNextNextNextNextNext)
	op.markFirst(jNextNextNextNextNext)
	op.markFirst(jNextNextNextNext)
	op.markBoth(jNextNextNext)
	op.markBoth(jNextNext)
	op.markBoth(jNext)
	op.markBoth(j)
	op.markSecond(jPrev)
	op.markSecond(jPrevPrev)
	op.markSecond(jPrevPrevPrev)

	sol.RemoveVertex(iRoute, i)
	sol.RemoveVertex(iRoute, iPrev)
	sol.RemoveVertex(iRoute, iPrevPrev)

	sol.InsertVertexBefore(jRoute, jNextNextNextNext, i)
	sol.InsertVertexBefore(jRoute, jNextNextNextNext, iPrev)
	sol.InsertVertexBefore(jRoute, jNextNextNextNext, iPrevPrev)

	sol.RemoveVertex(jRoute, jNext)
	sol.RemoveVertex(jRoute, jNextNext)
	sol.RemoveVertex(jRoute, jNextNextNext)

	if op.reverseBoth {
		sol.InsertVertexBefore(iRoute, iNext, jNextNextNext)
		sol.InsertVertexBefore(iRoute, iNext, jNextNext)
		sol.InsertVertexBefore(iRoute, iNext, jNext)
	} else {
		sol.InsertVertexBefore(iRoute, iNext, jNext)
		sol.InsertVertexBefore(iRoute, iNext, jNextNext)
		sol.InsertVertexBefore(iRoute, iNext, jNextNextNext)
	}
}

// rem1: extracting the 3-string ending at v; rem2: extracting the 3-string
// after v together with the arc out of v.
func (op *revThreeThreeExchange) cacheBoth(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		nextnext := sol.NextVertexIn(route, c.next)
		c.nextnextnext = sol.NextVertexIn(route, nextnext)
		c.nextnextnextnext = sol.NextVertexIn(route, c.nextnextnext)

		cVNext := sol.CostPrevIn(route, c.next)
		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - cVNext
		c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnextnextnext)

		return c
	}

	route := sol.RouteIndex(backup)
	prev := sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.prevprev = sol.PrevVertex(prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	nextnext := sol.NextVertex(c.next)
	c.nextnextnext = sol.NextVertexIn(route, nextnext)
	c.nextnextnextnext = sol.NextVertexIn(route, c.nextnextnext)

	cVNext := sol.CostPrevCustomer(c.next)
	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - cVNext
	c.rem2 = -cVNext - sol.CostPrevIn(route, c.nextnextnextnext)

	return c
}

func (op *revThreeThreeExchange) cacheFirst(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		prev := sol.PrevVertex(vertex)
		c.next = sol.NextVertex(vertex)
		c.prevprev = sol.PrevVertexIn(route, prev)
		c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
		c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevIn(route, c.next)

		return c
	}

	route := sol.RouteIndex(backup)
	prev := sol.LastCustomer(route)
	c.next = sol.FirstCustomer(route)
	c.prevprev = sol.PrevVertex(prev)
	c.prevprevprev = sol.PrevVertexIn(route, c.prevprev)
	c.rem1 = -sol.CostPrevIn(route, c.prevprev) - sol.CostPrevCustomer(c.next)

	return c
}

func (op *revThreeThreeExchange) cacheSecond(sol *solution.Solution, vertex, backup int) cache {
	c := cache{v: vertex}

	if backup == solution.DummyVertex {
		route := sol.RouteIndex(vertex)
		c.next = sol.NextVertex(vertex)
		nextnext := sol.NextVertexIn(route, c.next)
		c.nextnextnext = sol.NextVertexIn(route, nextnext)
		c.nextnextnextnext = sol.NextVertexIn(route, c.nextnextnext)
		c.rem2 = -sol.CostPrevIn(route, c.next) - sol.CostPrevIn(route, c.nextnextnextnext)

		return c
	}

	route := sol.RouteIndex(backup)
	c.next = sol.FirstCustomer(route)
	nextnext := sol.NextVertex(c.next)
	c.nextnextnext = sol.NextVertexIn(route, nextnext)
	c.nextnextnextnext = sol.NextVertexIn(route, c.nextnextnext)
	c.rem2 = -sol.CostPrevCustomer(c.next) - sol.CostPrevIn(route, c.nextnextnextnext)

	return c
}

func (op *revThreeThreeExchange) pairCost(move *movegen.Entry, ci, cj cache) (float64, float64) {
	edge := op.moves.EdgeCost(move)

	var seq1add, seq2add float64
	if op.reverseBoth {
		cNexts := op.inst.Cost(ci.next, cj.next)
		seq2add = op.inst.Cost(ci.prevprevprev, cj.nextnextnext) + cNexts
		seq1add = op.inst.Cost(cj.prevprevprev, ci.nextnextnext) + cNexts
	} else {
		seq2add = op.inst.Cost(ci.prevprevprev, cj.next) + op.inst.Cost(cj.nextnextnext, ci.next)
		seq1add = op.inst.Cost(cj.prevprevprev, ci.next) + op.inst.Cost(ci.nextnextnext, cj.next)
	}

	delta1 := op.inst.Cost(cj.nextnextnextnext, ci.prevprev) + edge + seq2add + ci.rem1 + cj.rem2
	delta2 := op.inst.Cost(ci.nextnextnextnext, cj.prevprev) + edge + seq1add + cj.rem1 + ci.rem2

	return delta1, delta2
}

func (op *revThreeThreeExchange) cost(move *movegen.Entry, ci, cj cache) float64 {
	edge := op.moves.EdgeCost(move)

	var seq2add float64
	if op.reverseBoth {
		seq2add = op.inst.Cost(ci.prevprevprev, cj.nextnextnext) + op.inst.Cost(ci.next, cj.next)
	} else {
		seq2add = op.inst.Cost(ci.prevprevprev, cj.next) + op.inst.Cost(cj.nextnextnext, ci.next)
	}

	return op.inst.Cost(cj.nextnextnextnext, ci.prevprev) + edge + seq2add + ci.rem1 + cj.rem2
}
