package localsearch

import (
	"github.com/katalvlaran/cvrp/container"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// descender wires one operator to the shared engine: SVC-restricted delta
// initialization, the heap-driven descent, and the selective delta update
// after each applied move. When partial is set, every endpoint access is
// gated on solution membership.
type descender struct {
	op      operator
	inst    *instance.Instance
	moves   *movegen.Store
	heap    *container.Heap[*movegen.Entry]
	bits    *container.BoolGrid
	partial bool

	tolerance float64

	affected *container.SparseIntSet
}

func newDescender(op operator, inst *instance.Instance, moves *movegen.Store, tolerance float64, partial bool) *descender {
	return &descender{
		op:        op,
		inst:      inst,
		moves:     moves,
		heap:      moves.Heap(),
		bits:      moves.UpdateBits(),
		partial:   partial,
		tolerance: tolerance,
		affected:  container.NewSparseIntSet(inst.NumVertices()),
	}
}

// apply runs one rough best-improvement cycle of the operator on sol and
// reports whether the cost improved. The shared heap and update bits are
// left empty on exit.
func (d *descender) apply(sol *solution.Solution) bool {
	d.heap.Reset()

	d.op.preProcess(sol)

	if d.op.symmetric() {
		d.symmetricInit(sol)
	} else {
		d.asymmetricInit(sol)
	}

	improved := false

	// Scan heap slots in index order; every applied move resets the scan.
	index := 0
	for index < d.heap.Size() {
		move := d.heap.Spy(index)
		index++

		if d.partial &&
			(!sol.IsVertexInSolution(move.First()) || !sol.IsVertexInSolution(move.Second())) {
			continue
		}

		if !d.op.feasible(sol, move) {
			continue
		}

		d.op.execute(sol, move, d.affected)

		improved = true
		index = 0

		if d.op.symmetric() {
			d.symmetricUpdate(sol)
		} else {
			d.asymmetricUpdate(sol)
		}

		d.affected.Clear()
	}

	d.op.postProcess(sol)

	return improved
}

// skip reports whether the vertex must be ignored in partial mode.
func (d *descender) skip(sol *solution.Solution, vertex int) bool {
	return d.partial && !sol.IsVertexInSolution(vertex)
}

// symmetricInit evaluates base entries touching the SVC: one delta per edge.
func (d *descender) symmetricInit(sol *solution.Solution) {
	currentTime := d.moves.CurrentTimestamp() + 1
	timestamp := d.moves.VertexTimestamp()
	depot := d.inst.Depot()

	depotCached := false

	for i := sol.SVCBegin(); i != sol.SVCEnd(); i = sol.SVCNext(i) {
		if d.skip(sol, i) {
			continue
		}

		// The depot is handled last: its cache depends on the second
		// endpoint, so doing it after the customers maximizes reuse.
		if i == depot {
			depotCached = true
			continue
		}

		icache := d.op.cacheBoth(sol, i, solution.DummyVertex)

		for _, moveIndex := range d.moves.ActiveIndices1st(i) {
			j := d.moves.Get(moveIndex).Second()

			if d.skip(sol, j) {
				continue
			}

			// Both endpoints may sit in the SVC; the timestamp marks edges
			// already evaluated from the other side.
			if timestamp[j] == currentTime {
				continue
			}

			move := d.moves.Get(movegen.Base(moveIndex))

			var jcache cache
			if j == depot {
				jcache = d.op.cacheBoth(sol, j, i)
			} else {
				jcache = d.op.cacheBoth(sol, j, solution.DummyVertex)
			}

			move.SetDelta(d.op.cost(move, icache, jcache))
			if move.Delta() < -d.tolerance {
				d.heap.Insert(move)
			}
		}

		timestamp[i] = currentTime
	}

	if depotCached {
		i := depot

		for _, moveIndex := range d.moves.ActiveIndices1st(i) {
			j := d.moves.Get(moveIndex).Second()

			if d.skip(sol, j) {
				continue
			}
			if timestamp[j] == currentTime {
				continue
			}

			move := d.moves.Get(movegen.Base(moveIndex))

			icache := d.op.cacheBoth(sol, i, j)
			// j cannot be the depot here.
			jcache := d.op.cacheBoth(sol, j, solution.DummyVertex)

			move.SetDelta(d.op.cost(move, icache, jcache))
			if move.Delta() < -d.tolerance {
				d.heap.Insert(move)
			}
		}

		timestamp[i] = currentTime
	}

	d.moves.BumpTimestamp()
}

// asymmetricInit evaluates both directions of entries touching the SVC with
// one paired computation per edge.
func (d *descender) asymmetricInit(sol *solution.Solution) {
	currentTime := d.moves.CurrentTimestamp() + 1
	timestamp := d.moves.VertexTimestamp()
	depot := d.inst.Depot()

	depotCached := false

	insertPair := func(move, twin *movegen.Entry, delta1, delta2 float64) {
		move.SetDelta(delta1)
		if move.Delta() < -d.tolerance {
			d.heap.Insert(move)
		}
		twin.SetDelta(delta2)
		if twin.Delta() < -d.tolerance {
			d.heap.Insert(twin)
		}
	}

	for i := sol.SVCBegin(); i != sol.SVCEnd(); i = sol.SVCNext(i) {
		if d.skip(sol, i) {
			continue
		}
		if i == depot {
			depotCached = true
			continue
		}

		icache := d.op.cacheBoth(sol, i, solution.DummyVertex)

		for _, moveIndex := range d.moves.ActiveIndices1st(i) {
			move := d.moves.Get(moveIndex)
			j := move.Second()

			if d.skip(sol, j) {
				continue
			}
			if timestamp[j] == currentTime {
				continue
			}

			var jcache cache
			if j == depot {
				jcache = d.op.cacheBoth(sol, j, i)
			} else {
				jcache = d.op.cacheBoth(sol, j, solution.DummyVertex)
			}

			delta1, delta2 := d.op.pairCost(move, icache, jcache)
			insertPair(move, d.moves.Get(movegen.Twin(moveIndex)), delta1, delta2)
		}

		timestamp[i] = currentTime
	}

	if depotCached {
		i := depot

		for _, moveIndex := range d.moves.ActiveIndices1st(i) {
			move := d.moves.Get(moveIndex)
			j := move.Second()

			if d.skip(sol, j) {
				continue
			}
			if timestamp[j] == currentTime {
				continue
			}

			icache := d.op.cacheBoth(sol, i, j)
			// j cannot be the depot since i is.
			jcache := d.op.cacheBoth(sol, j, solution.DummyVertex)

			delta1, delta2 := d.op.pairCost(move, icache, jcache)
			insertPair(move, d.moves.Get(movegen.Twin(moveIndex)), delta1, delta2)
		}

		timestamp[i] = currentTime
	}

	d.moves.BumpTimestamp()
}

// heapRefresh folds a recomputed delta back into the heap: drop entries that
// stopped improving, insert fresh ones, re-key the rest.
func (d *descender) heapRefresh(move *movegen.Entry, delta float64) {
	if delta > -d.tolerance {
		if move.HeapIndex() != container.Unheaped {
			d.heap.Remove(move.HeapIndex())
		}
		move.SetDelta(delta)

		return
	}

	if move.HeapIndex() == container.Unheaped {
		move.SetDelta(delta)
		d.heap.Insert(move)
	} else {
		old := move.Delta()
		move.SetDelta(delta)
		d.heap.Update(move.HeapIndex(), old)
	}
}

// symmetricUpdate refreshes base entries touching affected vertices.
func (d *descender) symmetricUpdate(sol *solution.Solution) {
	currentTime := d.moves.CurrentTimestamp() + 1
	timestamp := d.moves.VertexTimestamp()
	depot := d.inst.Depot()

	depotAffected := false

	for _, i := range d.affected.Elements() {
		if d.skip(sol, i) {
			continue
		}
		if i == depot {
			depotAffected = true
			continue
		}

		icache := d.op.cacheBoth(sol, i, solution.DummyVertex)

		for _, moveIndex := range d.moves.ActiveIndices1st(i) {
			j := d.moves.Get(moveIndex).Second()

			if d.skip(sol, j) {
				continue
			}
			if timestamp[j] == currentTime {
				continue
			}

			move := d.moves.Get(movegen.Base(moveIndex))

			var jcache cache
			if j == depot {
				jcache = d.op.cacheBoth(sol, j, i)
			} else {
				jcache = d.op.cacheBoth(sol, j, solution.DummyVertex)
			}

			d.heapRefresh(move, d.op.cost(move, icache, jcache))
		}

		timestamp[i] = currentTime
	}

	if depotAffected {
		i := depot

		for _, moveIndex := range d.moves.ActiveIndices1st(i) {
			j := d.moves.Get(moveIndex).Second()

			if d.skip(sol, j) {
				continue
			}
			if timestamp[j] == currentTime {
				continue
			}

			move := d.moves.Get(movegen.Base(moveIndex))

			icache := d.op.cacheBoth(sol, i, j)
			jcache := d.op.cacheBoth(sol, j, solution.DummyVertex)

			d.heapRefresh(move, d.op.cost(move, icache, jcache))
		}

		timestamp[i] = currentTime
	}

	// Lower the update bits of affected vertices; symmetric operators raise
	// none but share the grid with asymmetric ones.
	for _, i := range d.affected.Elements() {
		d.bits.Set(i, movegen.UpdateFirst, false)
		d.bits.Set(i, movegen.UpdateSecond, false)
	}

	d.moves.BumpTimestamp()
}

// asymmetricUpdate refreshes directed entries touching affected vertices,
// using the update bits to do only the required directions: both, only
// (i, j), or only (j, i).
func (d *descender) asymmetricUpdate(sol *solution.Solution) {
	currentTime := d.moves.CurrentTimestamp() + 1
	timestamp := d.moves.VertexTimestamp()
	depot := d.inst.Depot()

	depotAffected := false

	for _, i := range d.affected.Elements() {
		if d.skip(sol, i) {
			continue
		}
		if i == depot {
			depotAffected = true
			continue
		}

		upFirst := d.bits.At(i, movegen.UpdateFirst)
		upSecond := d.bits.At(i, movegen.UpdateSecond)

		switch {
		case upFirst && upSecond:
			icache := d.op.cacheBoth(sol, i, solution.DummyVertex)

			for _, moveIndex := range d.moves.ActiveIndices1st(i) {
				move := d.moves.Get(moveIndex)
				j := move.Second()

				if d.skip(sol, j) {
					continue
				}

				if timestamp[j] == currentTime {
					// Vertex j was processed this round; update bits are not
					// symmetric, so check which directions it covered.
					jupFirst := d.bits.At(j, movegen.UpdateFirst)
					jupSecond := d.bits.At(j, movegen.UpdateSecond)

					switch {
					case jupFirst && jupSecond:
						// Both directions already refreshed from j's side.
					case jupFirst:
						// (j, i) done; refresh (i, j) only.
						var jcache cache
						if j == depot {
							jcache = d.op.cacheSecond(sol, j, i)
						} else {
							jcache = d.op.cacheSecond(sol, j, solution.DummyVertex)
						}
						d.heapRefresh(move, d.op.cost(move, icache, jcache))
					case jupSecond:
						// (i, j) done; refresh (j, i) only.
						var jcache cache
						if j == depot {
							jcache = d.op.cacheFirst(sol, j, i)
						} else {
							jcache = d.op.cacheFirst(sol, j, solution.DummyVertex)
						}
						twin := d.moves.Get(movegen.Twin(moveIndex))
						d.heapRefresh(twin, d.op.cost(twin, jcache, icache))
					}
				} else {
					var jcache cache
					if j == depot {
						jcache = d.op.cacheBoth(sol, j, i)
					} else {
						jcache = d.op.cacheBoth(sol, j, solution.DummyVertex)
					}

					twin := d.moves.Get(movegen.Twin(moveIndex))
					delta1, delta2 := d.op.pairCost(twin, icache, jcache)
					d.heapRefresh(move, delta1)
					d.heapRefresh(twin, delta2)
				}
			}

		case upFirst:
			icache := d.op.cacheFirst(sol, i, solution.DummyVertex)

			for _, moveIndex := range d.moves.ActiveIndices1st(i) {
				move := d.moves.Get(moveIndex)
				j := move.Second()

				if d.skip(sol, j) {
					continue
				}

				if timestamp[j] != currentTime || !d.bits.At(j, movegen.UpdateSecond) {
					var jcache cache
					if j == depot {
						jcache = d.op.cacheSecond(sol, j, i)
					} else {
						jcache = d.op.cacheSecond(sol, j, solution.DummyVertex)
					}
					d.heapRefresh(move, d.op.cost(move, icache, jcache))
				}
			}

		case upSecond:
			icache := d.op.cacheSecond(sol, i, solution.DummyVertex)

			d.moves.ForEachActive2nd(i, func(moveIndex int) {
				move := d.moves.Get(moveIndex)
				j := move.First()

				if d.skip(sol, j) {
					return
				}

				if timestamp[j] != currentTime || !d.bits.At(j, movegen.UpdateFirst) {
					var jcache cache
					if j == depot {
						jcache = d.op.cacheFirst(sol, j, i)
					} else {
						jcache = d.op.cacheFirst(sol, j, solution.DummyVertex)
					}
					d.heapRefresh(move, d.op.cost(move, jcache, icache))
				}
			})
		}

		timestamp[i] = currentTime
	}

	if depotAffected {
		i := depot

		upFirst := d.bits.At(i, movegen.UpdateFirst)
		upSecond := d.bits.At(i, movegen.UpdateSecond)

		switch {
		case upFirst && upSecond:
			for _, moveIndex := range d.moves.ActiveIndices1st(i) {
				move := d.moves.Get(moveIndex)
				j := move.Second()

				if d.skip(sol, j) {
					continue
				}

				if timestamp[j] == currentTime {
					jupFirst := d.bits.At(j, movegen.UpdateFirst)
					jupSecond := d.bits.At(j, movegen.UpdateSecond)

					switch {
					case jupFirst && jupSecond:
					case jupFirst:
						icache := d.op.cacheFirst(sol, i, j)
						jcache := d.op.cacheSecond(sol, j, solution.DummyVertex)
						d.heapRefresh(move, d.op.cost(move, icache, jcache))
					case jupSecond:
						twin := d.moves.Get(movegen.Twin(moveIndex))
						icache := d.op.cacheSecond(sol, i, j)
						jcache := d.op.cacheFirst(sol, j, solution.DummyVertex)
						d.heapRefresh(twin, d.op.cost(twin, jcache, icache))
					}
				} else {
					icache := d.op.cacheBoth(sol, i, j)
					jcache := d.op.cacheBoth(sol, j, solution.DummyVertex)

					delta1, delta2 := d.op.pairCost(move, icache, jcache)
					d.heapRefresh(move, delta1)
					d.heapRefresh(d.moves.Get(movegen.Twin(moveIndex)), delta2)
				}
			}

		case upFirst:
			for _, moveIndex := range d.moves.ActiveIndices1st(i) {
				move := d.moves.Get(moveIndex)
				j := move.Second()

				if d.skip(sol, j) {
					continue
				}

				if timestamp[j] != currentTime || !d.bits.At(j, movegen.UpdateSecond) {
					icache := d.op.cacheFirst(sol, i, j)
					jcache := d.op.cacheSecond(sol, j, solution.DummyVertex)
					d.heapRefresh(move, d.op.cost(move, icache, jcache))
				}
			}

		case upSecond:
			d.moves.ForEachActive2nd(i, func(moveIndex int) {
				move := d.moves.Get(moveIndex)
				j := move.First()

				if d.skip(sol, j) {
					return
				}

				if timestamp[j] != currentTime || !d.bits.At(j, movegen.UpdateFirst) {
					icache := d.op.cacheSecond(sol, i, j)
					jcache := d.op.cacheFirst(sol, j, solution.DummyVertex)
					d.heapRefresh(move, d.op.cost(move, jcache, icache))
				}
			})
		}

		timestamp[i] = currentTime
	}

	for _, i := range d.affected.Elements() {
		d.bits.Set(i, movegen.UpdateFirst, false)
		d.bits.Set(i, movegen.UpdateSecond, false)
	}

	d.moves.BumpTimestamp()
}
