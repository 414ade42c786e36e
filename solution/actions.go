package solution

// actionType tags the journaled mutation variants.
type actionType int8

const (
	actionInsertVertex actionType = iota
	actionRemoveVertex
	actionCreateRoute
	actionRemoveRoute
	actionReversePath
	actionCreateOneCustomerRoute
	actionRemoveOneCustomerRoute
)

// action is one journaled mutation. The meaning of i and j depends on the
// type: (vertex, where) for inserts, (vertex, -) for removals, (begin, end)
// for path reversals, (customer, -) for one-customer routes.
type action struct {
	kind  actionType
	route int
	i, j  int
}

func insertVertexAction(route, where, vertex int) action {
	return action{kind: actionInsertVertex, route: route, i: vertex, j: where}
}

func removeVertexAction(route, vertex int) action {
	return action{kind: actionRemoveVertex, route: route, i: vertex, j: DummyVertex}
}

func createRouteAction(route int) action {
	return action{kind: actionCreateRoute, route: route, i: DummyVertex, j: DummyVertex}
}

func removeRouteAction(route int) action {
	return action{kind: actionRemoveRoute, route: route, i: DummyVertex, j: DummyVertex}
}

func reversePathAction(route, begin, end int) action {
	return action{kind: actionReversePath, route: route, i: begin, j: end}
}

func createOneCustomerRouteAction(route, customer int) action {
	return action{kind: actionCreateOneCustomerRoute, route: route, i: customer, j: DummyVertex}
}

func removeOneCustomerRouteAction(route, customer int) action {
	return action{kind: actionRemoveOneCustomerRoute, route: route, i: customer, j: DummyVertex}
}

// applyAction replays a journaled mutation on target without journaling.
func applyAction(target *Solution, act action) {
	switch act.kind {
	case actionInsertVertex:
		if target.IsRouteInSolution(act.route) {
			target.insertVertexBefore(act.route, act.j, act.i, false)
		} else {
			// The route was released in the meantime; the insert that the
			// journal recorded against it can only be the rebirth of a
			// one-customer route.
			target.buildOneCustomerRoute(act.i, false)
		}
	case actionRemoveVertex:
		target.removeVertex(act.route, act.i, false)
	case actionCreateRoute:
		// Recreated lazily by the insert that follows; nothing to do since
		// route ids round-trip through the pool in LIFO order.
	case actionRemoveRoute:
		target.removeRoute(act.route, false)
	case actionReversePath:
		target.reverseRoutePath(act.route, act.i, act.j, false)
	case actionCreateOneCustomerRoute:
		target.buildOneCustomerRoute(act.i, false)
	case actionRemoveOneCustomerRoute:
		target.removeVertex(act.route, act.i, false)
		target.removeRoute(act.route, false)
	}
}

// ApplyDoList1 replays this solution's do-list 1 on target, in order.
func (s *Solution) ApplyDoList1(target *Solution) {
	for i := range s.doList1 {
		applyAction(target, s.doList1[i])
	}
}

// ApplyDoList2 replays this solution's do-list 2 on target, in order.
func (s *Solution) ApplyDoList2(target *Solution) {
	for i := range s.doList2 {
		applyAction(target, s.doList2[i])
	}
}

// ApplyUndoList1 replays this solution's undo-list 1 on target in reverse
// order, undoing every mutation journaled since the last clear.
func (s *Solution) ApplyUndoList1(target *Solution) {
	for i := len(s.undoList1) - 1; i >= 0; i-- {
		applyAction(target, s.undoList1[i])
	}
}

// AppendDoList1ToDoList2 commits the pending do-list 1 entries onto do-list 2.
func (s *Solution) AppendDoList1ToDoList2() {
	s.doList2 = append(s.doList2, s.doList1...)
}

// ClearDoList1 drops the pending do-list 1 entries.
func (s *Solution) ClearDoList1() { s.doList1 = s.doList1[:0] }

// ClearDoList2 drops the committed do-list 2 entries.
func (s *Solution) ClearDoList2() { s.doList2 = s.doList2[:0] }

// ClearUndoList1 drops the pending undo-list 1 entries.
func (s *Solution) ClearUndoList1() { s.undoList1 = s.undoList1[:0] }
