package instance

import (
	"math"
	"sort"
)

// kdTree is a 2-dimensional k-d tree over the instance coordinates, used only
// at load time to build the k-nearest-neighbor lists. Splits alternate
// between the x and y axes at the median; queries prune subtrees with the
// bounds-overlap-ball test and collect candidates in a bounded max-heap of
// squared distances.
type kdTree struct {
	points []kdPoint
	root   *kdNode
}

type kdPoint struct {
	index  int
	coords [2]float64
}

type kdNode struct {
	left, right *kdNode
	lobound     [2]float64
	hibound     [2]float64
	pointIndex  int
	cutDim      int
}

// kdCandidate is an entry of the bounded result heap.
type kdCandidate struct {
	pointIndex int
	distance   float64
}

func newKDTree(xcoords, ycoords []float64) *kdTree {
	tree := &kdTree{points: make([]kdPoint, len(xcoords))}

	lobound := [2]float64{math.MaxFloat64, math.MaxFloat64}
	hibound := [2]float64{-math.MaxFloat64, -math.MaxFloat64}

	for i := range xcoords {
		lobound[0] = math.Min(lobound[0], xcoords[i])
		lobound[1] = math.Min(lobound[1], ycoords[i])
		hibound[0] = math.Max(hibound[0], xcoords[i])
		hibound[1] = math.Max(hibound[1], ycoords[i])
		tree.points[i] = kdPoint{index: i, coords: [2]float64{xcoords[i], ycoords[i]}}
	}

	tree.root = tree.build(0, 0, len(tree.points), lobound, hibound)

	return tree
}

func (t *kdTree) build(depth, begin, end int, lobound, hibound [2]float64) *kdNode {
	dim := depth % 2

	node := &kdNode{cutDim: dim, lobound: lobound, hibound: hibound}

	if end-begin <= 1 {
		node.pointIndex = begin

		return node
	}

	median := (begin + end) / 2
	sortByDimension(t.points[begin:end], dim)
	node.pointIndex = median

	cut := t.points[median].coords[dim]

	if median-begin > 0 {
		nextHi := hibound
		nextHi[dim] = cut
		node.left = t.build(depth+1, begin, median, lobound, nextHi)
	}
	if end-median > 1 {
		nextLo := lobound
		nextLo[dim] = cut
		node.right = t.build(depth+1, median+1, end, nextLo, hibound)
	}

	return node
}

// sortByDimension orders the subrange by the given coordinate, breaking ties
// by vertex index. A median-only partition would do, but the full sort keeps
// construction deterministic and happens once at load time.
func sortByDimension(points []kdPoint, dim int) {
	sort.Slice(points, func(a, b int) bool {
		if points[a].coords[dim] != points[b].coords[dim] {
			return points[a].coords[dim] < points[b].coords[dim]
		}

		return points[a].index < points[b].index
	})
}

// nearestNeighbors returns the indices of the k vertices closest to (x, y),
// ordered by non-decreasing squared distance.
func (t *kdTree) nearestNeighbors(x, y float64, k int) []int {
	heap := make([]kdCandidate, 0, k)

	t.search(t.root, &heap, [2]float64{x, y}, k)

	neighbors := make([]int, len(heap))
	for n := len(heap) - 1; n >= 0; n-- {
		neighbors[n] = t.points[heap[0].pointIndex].index
		heapPop(&heap)
	}

	return neighbors
}

func squaredDistance(a, b [2]float64) float64 {
	return (a[0]-b[0])*(a[0]-b[0]) + (a[1]-b[1])*(a[1]-b[1])
}

func coordinateDistance(a, b float64) float64 { return (a - b) * (a - b) }

// boundsOverlapBall reports whether the node's bounding box intersects the
// ball of squared radius dist centered at point.
func boundsOverlapBall(point [2]float64, dist float64, node *kdNode) bool {
	sum := 0.0
	for i := 0; i < 2; i++ {
		if point[i] < node.lobound[i] {
			sum += coordinateDistance(point[i], node.lobound[i])
			if sum > dist {
				return false
			}
		} else if point[i] > node.hibound[i] {
			sum += coordinateDistance(point[i], node.hibound[i])
			if sum > dist {
				return false
			}
		}
	}

	return true
}

// ballWithinBounds reports whether the ball of squared radius dist centered
// at point lies entirely within the node's bounding box, which allows the
// search to stop early.
func ballWithinBounds(point [2]float64, dist float64, node *kdNode) bool {
	for i := 0; i < 2; i++ {
		if coordinateDistance(point[i], node.lobound[i]) <= dist ||
			coordinateDistance(point[i], node.hibound[i]) <= dist {
			return false
		}
	}

	return true
}

func (t *kdTree) search(node *kdNode, heap *[]kdCandidate, point [2]float64, k int) bool {
	curr := squaredDistance(point, t.points[node.pointIndex].coords)

	if len(*heap) < k {
		heapPush(heap, kdCandidate{pointIndex: node.pointIndex, distance: curr})
	} else if curr < (*heap)[0].distance {
		heapPop(heap)
		heapPush(heap, kdCandidate{pointIndex: node.pointIndex, distance: curr})
	}

	// Descend into the half containing the query point first.
	if point[node.cutDim] < t.points[node.pointIndex].coords[node.cutDim] {
		if node.left != nil && t.search(node.left, heap, point, k) {
			return true
		}
	} else {
		if node.right != nil && t.search(node.right, heap, point, k) {
			return true
		}
	}

	dist := math.MaxFloat64
	if len(*heap) == k {
		dist = (*heap)[0].distance
	}

	// Visit the other half only when its box may hold a closer point.
	if point[node.cutDim] < t.points[node.pointIndex].coords[node.cutDim] {
		if node.right != nil && boundsOverlapBall(point, dist, node.right) && t.search(node.right, heap, point, k) {
			return true
		}
	} else {
		if node.left != nil && boundsOverlapBall(point, dist, node.left) && t.search(node.left, heap, point, k) {
			return true
		}
	}

	if len(*heap) == k {
		dist = (*heap)[0].distance
	}

	return ballWithinBounds(point, dist, node)
}

// heapPush and heapPop maintain a max-heap by distance over the candidates,
// so the root is the current k-th nearest.

func heapPush(heap *[]kdCandidate, c kdCandidate) {
	*heap = append(*heap, c)
	i := len(*heap) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*heap)[parent].distance >= (*heap)[i].distance {
			break
		}
		(*heap)[parent], (*heap)[i] = (*heap)[i], (*heap)[parent]
		i = parent
	}
}

func heapPop(heap *[]kdCandidate) {
	last := len(*heap) - 1
	(*heap)[0] = (*heap)[last]
	*heap = (*heap)[:last]

	i := 0
	for {
		left := 2*i + 1
		right := 2*i + 2
		largest := i
		if left <= last-1 && (*heap)[left].distance > (*heap)[largest].distance {
			largest = left
		}
		if right <= last-1 && (*heap)[right].distance > (*heap)[largest].distance {
			largest = right
		}
		if largest == i {
			return
		}
		(*heap)[largest], (*heap)[i] = (*heap)[i], (*heap)[largest]
		i = largest
	}
}
