package solution

import (
	"math"

	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
)

const (
	// DummyVertex identifies an invalid customer.
	DummyVertex = -1

	// DummyRoute identifies an invalid route. It also terminates route-list
	// iteration.
	DummyRoute = 0
)

// equalityTolerance bounds the cost difference of solutions considered equal.
const equalityTolerance = 0.01

type customerNode struct {
	next       int
	prev       int
	route      int
	loadAfter  int
	loadBefore int
	// cPrev caches the cost of the arc (prev, this customer).
	cPrev float64
}

type routeNode struct {
	firstCustomer int
	lastCustomer  int
	load          int
	next          int
	prev          int
	size          int
	dirtyLoads    bool
	inSolution    bool
	// cPrev caches the cost of the arc (last customer, depot).
	cPrev float64
}

// Solution is a mutable CVRP solution over a fixed instance.
type Solution struct {
	inst *instance.Instance
	cost float64

	maxRoutes int
	routePool *container.IntStack

	firstRoute int
	numRoutes  int

	routes    []routeNode
	customers []customerNode

	svc *container.VertexLRU

	doList1   []action
	doList2   []action
	undoList1 []action
}

// New builds an empty solution whose SVC capacity equals the instance size.
func New(inst *instance.Instance) *Solution {
	return NewWithHistory(inst, inst.NumVertices())
}

// NewWithHistory builds an empty solution with the given SVC capacity.
// The solution must be Reset before use.
func NewWithHistory(inst *instance.Instance, historyLen int) *Solution {
	maxRoutes := inst.NumVertices() + 1

	s := &Solution{
		inst:       inst,
		cost:       math.Inf(1),
		maxRoutes:  maxRoutes,
		routePool:  container.NewIntStack(maxRoutes-1, func(index int) int { return index + 1 }),
		firstRoute: DummyRoute,
		routes:     make([]routeNode, maxRoutes),
		customers:  make([]customerNode, inst.NumVertices()),
		svc:        container.NewVertexLRU(historyLen, inst.NumVertices()),
	}

	return s
}

// Reset empties the solution: no routes, no served customers, zero cost,
// cleared SVC and action logs.
func (s *Solution) Reset() {
	s.cost = 0

	s.routePool.Reset()

	s.firstRoute = DummyRoute
	s.numRoutes = 0

	for r := 0; r < s.maxRoutes; r++ {
		s.resetRoute(r)
	}
	for i := 0; i < s.inst.NumVertices(); i++ {
		s.resetVertex(i)
	}

	s.svc.Clear()

	s.doList1 = s.doList1[:0]
	s.doList2 = s.doList2[:0]
	s.undoList1 = s.undoList1[:0]
}

// Clone returns an independent deep copy of s, SVC capacity included.
// Expensive for large instances; steady-state code should rely on the
// do/undo lists instead.
func (s *Solution) Clone() *Solution {
	clone := NewWithHistory(s.inst, s.svc.Capacity())
	clone.CopyFrom(s)

	return clone
}

// CopyFrom overwrites s with the state of source. Both must share the same
// instance. Action logs are not copied.
func (s *Solution) CopyFrom(source *Solution) {
	s.cost = source.cost
	s.routePool.CopyFrom(source.routePool)
	s.firstRoute = source.firstRoute
	s.numRoutes = source.numRoutes
	copy(s.routes, source.routes)
	copy(s.customers, source.customers)
	s.svc.CopyFrom(source.svc)
}

// Equal reports whether two solutions are the same up to route identities:
// costs within 0.01 and identical prev/next per customer.
func (s *Solution) Equal(other *Solution) bool {
	if math.Abs(s.cost-other.cost) >= equalityTolerance {
		return false
	}
	for i := s.inst.CustomersBegin(); i < s.inst.CustomersEnd(); i++ {
		if s.customers[i].prev != other.customers[i].prev || s.customers[i].next != other.customers[i].next {
			return false
		}
	}

	return true
}

// Cost returns the solution cost.
func (s *Solution) Cost() float64 { return s.cost }

// NumRoutes returns the number of routes in the solution.
func (s *Solution) NumRoutes() int { return s.numRoutes }

// BuildOneCustomerRoute creates a route {depot, customer, depot} and returns
// its id. The customer must not be served.
func (s *Solution) BuildOneCustomerRoute(customer int) int {
	return s.buildOneCustomerRoute(customer, true)
}

func (s *Solution) buildOneCustomerRoute(customer int, record bool) int {
	route := s.requestRoute()

	if record {
		s.doList1 = append(s.doList1, createOneCustomerRouteAction(route, customer))
		s.undoList1 = append(s.undoList1, removeOneCustomerRouteAction(route, customer))
	}

	depot := s.inst.Depot()

	s.customers[customer].prev = depot
	s.customers[customer].next = depot
	s.customers[customer].route = route
	s.customers[customer].cPrev = s.inst.Cost(depot, customer)

	// Head insert into the route list.
	next := s.firstRoute
	s.routes[route].next = next
	s.firstRoute = route
	s.routes[route].prev = DummyRoute
	s.routes[next].prev = route

	s.routes[route].firstCustomer = customer
	s.routes[route].lastCustomer = customer
	s.routes[route].load = s.inst.Demand(customer)
	s.routes[route].size = 1
	s.routes[route].cPrev = s.customers[customer].cPrev

	s.cost += 2 * s.customers[customer].cPrev

	s.svc.Insert(customer)

	s.routes[route].dirtyLoads = true

	return route
}

// RouteIndex returns the id of the route serving customer, DummyRoute when
// unserved. The customer must not be the depot.
func (s *Solution) RouteIndex(customer int) int { return s.customers[customer].route }

// RouteIndexOf returns the id of the route serving vertex. When vertex is the
// depot the fallback customer identifies the route.
func (s *Solution) RouteIndexOf(vertex, fallback int) int {
	if vertex == s.inst.Depot() {
		return s.customers[fallback].route
	}

	return s.customers[vertex].route
}

// RouteLoad returns the load of the route.
func (s *Solution) RouteLoad(route int) int { return s.routes[route].load }

// FirstRoute returns the first route id, DummyRoute when the solution is
// empty.
func (s *Solution) FirstRoute() int { return s.firstRoute }

// NextRoute returns the route after the given one in the route list.
func (s *Solution) NextRoute(route int) int { return s.routes[route].next }

// EndRoute returns the route-list iteration terminator.
func (s *Solution) EndRoute() int { return DummyRoute }

// IsRouteEmpty reports whether the route serves no customer. Empty routes
// must always be removed from the solution.
func (s *Solution) IsRouteEmpty(route int) bool { return s.routes[route].load == 0 }

// RemoveVertex extracts vertex from route, splicing its neighbors, and
// returns the cost delta. Removing the depot opens the route (missing-depot
// state).
func (s *Solution) RemoveVertex(route, vertex int) float64 {
	return s.removeVertex(route, vertex, true)
}

func (s *Solution) removeVertex(route, vertex int, record bool) float64 {
	if record {
		s.doList1 = append(s.doList1, removeVertexAction(route, vertex))
		s.undoList1 = append(s.undoList1, insertVertexAction(route, s.NextVertexIn(route, vertex), vertex))
	}

	depot := s.inst.Depot()

	if vertex == depot {
		next := s.routes[route].firstCustomer
		prev := s.routes[route].lastCustomer

		s.svc.Insert(vertex)
		s.svc.Insert(prev)
		s.svc.Insert(next)

		s.setPrevPtr(route, next, prev)
		s.setNextPtr(route, prev, next)

		s.routes[route].firstCustomer = DummyVertex
		s.routes[route].lastCustomer = DummyVertex

		s.customers[next].cPrev = s.inst.Cost(prev, next)

		delta := s.customers[next].cPrev - s.inst.Cost(prev, vertex) - s.inst.Cost(vertex, next)
		s.cost += delta

		s.routes[route].dirtyLoads = true

		return delta
	}

	next := s.customers[vertex].next
	prev := s.customers[vertex].prev

	s.svc.Insert(vertex)
	s.svc.Insert(prev)
	s.svc.Insert(next)

	switch {
	case vertex == s.routes[route].firstCustomer:
		s.routes[route].firstCustomer = next
		s.setPrevPtr(route, next, depot) // next might be the depot
	case vertex == s.routes[route].lastCustomer:
		s.routes[route].lastCustomer = prev
		s.setNextPtr(route, prev, depot) // prev might be the depot
	default:
		s.customers[prev].next = next
		s.customers[next].prev = prev
	}

	s.routes[route].load -= s.inst.Demand(vertex)
	s.routes[route].size--

	cPrevNext := s.inst.Cost(prev, next)
	if next == depot {
		s.routes[route].cPrev = cPrevNext
	} else {
		s.customers[next].cPrev = cPrevNext
	}

	delta := cPrevNext - s.inst.Cost(prev, vertex) - s.inst.Cost(vertex, next)
	s.cost += delta

	s.resetVertex(vertex)

	s.routes[route].dirtyLoads = true

	return delta
}

// RemoveRoute releases an empty route id back to the pool.
func (s *Solution) RemoveRoute(route int) {
	s.removeRoute(route, true)
}

func (s *Solution) removeRoute(route int, record bool) {
	if record {
		s.doList1 = append(s.doList1, removeRouteAction(route))
		s.undoList1 = append(s.undoList1, createRouteAction(route))
	}

	s.releaseRoute(route)
}

// FirstCustomer returns the customer adjacent to the depot at the head of the
// route.
func (s *Solution) FirstCustomer(route int) int { return s.routes[route].firstCustomer }

// LastCustomer returns the customer adjacent to the depot at the tail of the
// route.
func (s *Solution) LastCustomer(route int) int { return s.routes[route].lastCustomer }

// NextVertex returns the vertex after customer in its route. The customer
// must not be the depot.
func (s *Solution) NextVertex(customer int) int { return s.customers[customer].next }

// NextVertexIn returns the vertex after vertex in route; correct also when
// vertex is the depot.
func (s *Solution) NextVertexIn(route, vertex int) int {
	if vertex == s.inst.Depot() {
		return s.routes[route].firstCustomer
	}

	return s.customers[vertex].next
}

// PrevVertex returns the vertex before customer in its route. The customer
// must not be the depot.
func (s *Solution) PrevVertex(customer int) int { return s.customers[customer].prev }

// PrevVertexIn returns the vertex before vertex in route; correct also when
// vertex is the depot.
func (s *Solution) PrevVertexIn(route, vertex int) int {
	if vertex == s.inst.Depot() {
		return s.routes[route].lastCustomer
	}

	return s.customers[vertex].prev
}

// InsertVertexBefore inserts vertex immediately before where in route. The
// vertex must be unserved; where must belong to route. Inserting the depot
// closes a route left in missing-depot state by RemoveVertex.
func (s *Solution) InsertVertexBefore(route, where, vertex int) {
	s.insertVertexBefore(route, where, vertex, true)
}

func (s *Solution) insertVertexBefore(route, where, vertex int, record bool) {
	if record {
		s.doList1 = append(s.doList1, insertVertexAction(route, where, vertex))
		s.undoList1 = append(s.undoList1, removeVertexAction(route, vertex))
	}

	depot := s.inst.Depot()

	if vertex == depot {
		// Close a route that is missing its depot: where becomes the first
		// customer and where's predecessor the last.
		prev := s.customers[where].prev

		s.svc.Insert(prev)
		s.svc.Insert(where)

		s.routes[route].firstCustomer = where
		s.routes[route].lastCustomer = prev

		s.customers[prev].next = depot
		s.customers[where].prev = depot

		s.routes[route].cPrev = s.inst.Cost(prev, depot)

		oldCostPrevWhere := s.customers[where].cPrev
		s.customers[where].cPrev = s.inst.Cost(depot, where)

		s.cost += s.routes[route].cPrev + s.customers[where].cPrev - oldCostPrevWhere

		s.routes[route].dirtyLoads = true

		return
	}

	prev := s.PrevVertexIn(route, where)

	s.svc.Insert(prev)
	s.svc.Insert(where)

	s.customers[vertex].next = where
	s.customers[vertex].prev = prev
	s.customers[vertex].route = route

	s.setNextPtr(route, prev, vertex)
	s.setPrevPtr(route, where, vertex)

	var oldCostPrevWhere float64
	cVertexWhere := s.inst.Cost(vertex, where)
	if where == depot {
		oldCostPrevWhere = s.routes[route].cPrev
		s.routes[route].cPrev = cVertexWhere
	} else {
		oldCostPrevWhere = s.customers[where].cPrev
		s.customers[where].cPrev = cVertexWhere
	}
	s.customers[vertex].cPrev = s.inst.Cost(prev, vertex)

	s.cost += s.customers[vertex].cPrev + cVertexWhere - oldCostPrevWhere
	s.routes[route].load += s.inst.Demand(vertex)
	s.routes[route].size++

	s.routes[route].dirtyLoads = true
}

// ReverseRoutePath reverses the sub-walk from begin to end inclusive,
// wrapping through the depot when either endpoint is the depot. The
// endpoints must differ.
func (s *Solution) ReverseRoutePath(route, begin, end int) {
	s.reverseRoutePath(route, begin, end, true)
}

func (s *Solution) reverseRoutePath(route, begin, end int, record bool) {
	if record {
		s.doList1 = append(s.doList1, reversePathAction(route, begin, end))
		s.undoList1 = append(s.undoList1, reversePathAction(route, end, begin))
	}

	depot := s.inst.Depot()

	pre := s.PrevVertexIn(route, begin)
	stop := s.NextVertexIn(route, end)

	cPreBegin := s.CostPrevIn(route, begin)
	cPreEnd := s.inst.Cost(pre, end)
	cBeginStop := s.inst.Cost(stop, begin)

	s.svc.Insert(pre)
	s.svc.Insert(stop)

	// Flip prev/next of every vertex in the path, fixing cached arc costs as
	// we go. The depot flips through the route endpoints instead.
	curr := begin
	for {
		s.svc.Insert(curr)

		prev := s.PrevVertexIn(route, curr)
		next := s.NextVertexIn(route, curr)

		if curr == depot {
			s.routes[route].lastCustomer = next
			s.routes[route].firstCustomer = prev
			s.routes[route].cPrev = s.customers[next].cPrev
		} else {
			s.customers[curr].prev = next
			s.customers[curr].next = prev
			s.customers[curr].cPrev = s.CostPrevIn(route, next)
		}

		curr = next
		if curr == stop {
			break
		}
	}

	if end == pre && begin == stop {
		// The endpoints are contiguous: the walk above already rewired
		// everything but the arc between them.
		if end == depot {
			s.routes[route].cPrev = cPreBegin
		} else {
			s.customers[end].cPrev = cPreBegin
		}
	} else {
		s.setNextPtr(route, begin, stop)
		s.setNextPtr(route, pre, end)

		if end == depot {
			s.routes[route].lastCustomer = pre
			s.routes[route].cPrev = cPreEnd
		} else {
			s.customers[end].prev = pre
			s.customers[end].cPrev = cPreEnd
		}

		if stop == depot {
			s.routes[route].lastCustomer = begin
			s.routes[route].cPrev = cBeginStop
		} else {
			s.customers[stop].prev = begin
			s.customers[stop].cPrev = cBeginStop
		}
	}

	s.cost += cPreEnd + cBeginStop - s.inst.Cost(pre, begin) - s.inst.Cost(end, stop)

	s.routes[route].dirtyLoads = true
}

// AppendRoute concatenates routeToAppend after route and releases it. Both
// join endpoints must be customers.
func (s *Solution) AppendRoute(route, routeToAppend int) int {
	end := s.routes[route].lastCustomer
	start := s.routes[routeToAppend].firstCustomer

	s.customers[end].next = start
	s.customers[start].prev = end
	s.customers[start].cPrev = s.inst.Cost(end, start)

	s.routes[route].lastCustomer = s.routes[routeToAppend].lastCustomer
	s.routes[route].load += s.routes[routeToAppend].load
	s.routes[route].size += s.routes[routeToAppend].size
	s.routes[route].cPrev = s.routes[routeToAppend].cPrev

	depot := s.inst.Depot()
	s.cost += s.customers[start].cPrev - s.inst.Cost(end, depot) - s.inst.Cost(depot, start)

	s.svc.Insert(end)

	for curr := start; curr != depot; curr = s.customers[curr].next {
		s.customers[curr].route = route
		s.svc.Insert(curr)
	}

	s.releaseRoute(routeToAppend)

	s.routes[route].dirtyLoads = true

	return route
}

// SwapTails exchanges the suffixes after i and before j between two distinct
// routes: (i, next(i)) and (prev(j), j) become (i, j) and (prev(j), next(i)).
func (s *Solution) SwapTails(i, iRoute, j, jRoute int) {
	depot := s.inst.Depot()
	iNext := s.customers[i].next

	curr := j
	for curr != depot {
		next := s.customers[curr].next
		s.RemoveVertex(jRoute, curr)
		s.InsertVertexBefore(iRoute, iNext, curr)
		curr = next
	}

	curr = iNext
	for curr != depot {
		next := s.customers[curr].next
		s.RemoveVertex(iRoute, curr)
		s.InsertVertexBefore(jRoute, depot, curr)
		curr = next
	}

	s.routes[iRoute].dirtyLoads = true
	s.routes[jRoute].dirtyLoads = true
}

// Split performs the inter-route 2-opt variant that reverses one side:
// (i, next(i)) becomes (i, j) with (depot, j) reversed, and (j, next(j))
// becomes (next(i), next(j)) with (next(i), depot) reversed.
func (s *Solution) Split(i, iRoute, j, jRoute int) {
	depot := s.inst.Depot()

	iNext := s.customers[i].next
	jNext := s.customers[j].next

	curr := j
	for curr != depot {
		prev := s.customers[curr].prev
		s.RemoveVertex(jRoute, curr)
		s.InsertVertexBefore(iRoute, iNext, curr)
		curr = prev
	}

	before := jNext
	curr = iNext
	for curr != depot {
		next := s.customers[curr].next
		s.RemoveVertex(iRoute, curr)
		s.InsertVertexBefore(jRoute, before, curr)
		before = curr
		curr = next
	}

	s.routes[iRoute].dirtyLoads = true
	s.routes[jRoute].dirtyLoads = true
}

// CostPrevIn returns the cached cost of the arc (prev, vertex) within route;
// correct also when vertex is the depot.
func (s *Solution) CostPrevIn(route, vertex int) float64 {
	if vertex == s.inst.Depot() {
		return s.routes[route].cPrev
	}

	return s.customers[vertex].cPrev
}

// CostPrevCustomer returns the cached cost of the arc (prev, customer). The
// customer must not be the depot.
func (s *Solution) CostPrevCustomer(customer int) float64 { return s.customers[customer].cPrev }

// CostPrevDepot returns the cached cost of the arc (last customer, depot).
func (s *Solution) CostPrevDepot(route int) float64 { return s.routes[route].cPrev }

// RouteCost recomputes the cost of the route from scratch. Linear in the
// route size; debugging and reporting only.
func (s *Solution) RouteCost(route int) float64 {
	depot := s.inst.Depot()
	curr := s.routes[route].firstCustomer
	sum := s.inst.Cost(depot, curr)
	for curr != depot {
		next := s.customers[curr].next
		sum += s.inst.Cost(curr, next)
		curr = next
	}

	return sum
}

// LoadBefore returns the cumulative route load from the first customer
// through customer included, refreshing the lazily maintained prefix sums if
// the route is dirty.
func (s *Solution) LoadBefore(customer int) int {
	route := s.customers[customer].route
	if s.routes[route].dirtyLoads {
		s.updateCumulativeLoads(route)
		s.routes[route].dirtyLoads = false
	}

	return s.customers[customer].loadBefore
}

// LoadAfter returns the cumulative route load from customer included through
// the last customer.
func (s *Solution) LoadAfter(customer int) int {
	route := s.customers[customer].route
	if s.routes[route].dirtyLoads {
		s.updateCumulativeLoads(route)
		s.routes[route].dirtyLoads = false
	}

	return s.customers[customer].loadAfter
}

// IsRouteInSolution reports whether the route id is currently in use.
func (s *Solution) IsRouteInSolution(route int) bool { return s.routes[route].inSolution }

// IsCustomerInSolution reports whether customer is currently served. The
// customer must not be the depot.
func (s *Solution) IsCustomerInSolution(customer int) bool {
	return s.customers[customer].route != DummyRoute
}

// IsVertexInSolution reports whether vertex is currently served; the depot
// always is.
func (s *Solution) IsVertexInSolution(vertex int) bool {
	return vertex == s.inst.Depot() || s.IsCustomerInSolution(vertex)
}

// ContainsVertex reports whether route serves vertex. Always true for the
// depot.
func (s *Solution) ContainsVertex(route, vertex int) bool {
	return vertex == s.inst.Depot() || s.customers[vertex].route == route
}

// RouteSize returns the number of customers served by the route.
func (s *Solution) RouteSize(route int) int { return s.routes[route].size }

// IsLoadFeasible reports whether the route respects the vehicle capacity.
func (s *Solution) IsLoadFeasible(route int) bool {
	return s.routes[route].load <= s.inst.Capacity()
}

// IsSolutionLoadFeasible reports whether every route respects the capacity.
func (s *Solution) IsSolutionLoadFeasible() bool {
	for r := s.FirstRoute(); r != DummyRoute; r = s.NextRoute(r) {
		if !s.IsLoadFeasible(r) {
			return false
		}
	}

	return true
}

// ClearSVC empties the set of recently modified vertices.
func (s *Solution) ClearSVC() { s.svc.Clear() }

// SVCBegin returns the most recently modified vertex, SVCEnd when none.
func (s *Solution) SVCBegin() int { return s.svc.Begin() }

// SVCNext returns the vertex after the given one in the SVC. Performing any
// operation on the solution invalidates iteration.
func (s *Solution) SVCNext(vertex int) int { return s.svc.Next(vertex) }

// SVCEnd returns the SVC iteration terminator.
func (s *Solution) SVCEnd() int { return s.svc.End() }

// SVCSize returns the number of recently modified vertices.
func (s *Solution) SVCSize() int { return s.svc.Size() }

// Instance returns the instance this solution is built over.
func (s *Solution) Instance() *instance.Instance { return s.inst }

func (s *Solution) resetRoute(route int) {
	s.routes[route] = routeNode{
		firstCustomer: DummyVertex,
		lastCustomer:  DummyVertex,
		prev:          DummyRoute,
		next:          DummyRoute,
		dirtyLoads:    true,
	}
}

func (s *Solution) resetVertex(customer int) {
	s.customers[customer].next = DummyVertex
	s.customers[customer].prev = DummyVertex
	s.customers[customer].route = DummyRoute
}

func (s *Solution) setNextPtr(route, vertex, next int) {
	if vertex == s.inst.Depot() {
		s.routes[route].firstCustomer = next
	} else {
		s.customers[vertex].next = next
	}
}

func (s *Solution) setPrevPtr(route, vertex, prev int) {
	if vertex == s.inst.Depot() {
		s.routes[route].lastCustomer = prev
	} else {
		s.customers[vertex].prev = prev
	}
}

func (s *Solution) requestRoute() int {
	route := s.routePool.Pop()
	s.routes[route].inSolution = true
	s.numRoutes++

	return route
}

func (s *Solution) releaseRoute(route int) {
	prevRoute := s.routes[route].prev
	nextRoute := s.routes[route].next

	s.routes[prevRoute].next = nextRoute
	s.routes[nextRoute].prev = prevRoute
	s.numRoutes--

	if s.firstRoute == route {
		s.firstRoute = nextRoute
	}

	s.resetRoute(route)

	s.routePool.Push(route)
}

func (s *Solution) updateCumulativeLoads(route int) {
	prev := s.routes[route].firstCustomer

	s.customers[prev].loadBefore = s.inst.Demand(prev)
	s.customers[prev].loadAfter = s.routes[route].load

	depot := s.inst.Depot()
	curr := s.customers[prev].next
	for curr != depot {
		s.customers[curr].loadBefore = s.customers[prev].loadBefore + s.inst.Demand(curr)
		s.customers[curr].loadAfter = s.customers[prev].loadAfter - s.inst.Demand(prev)

		prev = curr
		curr = s.customers[curr].next
	}
}
