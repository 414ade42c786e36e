package instance

import "math"

// Instance is an immutable CVRP instance.
type Instance struct {
	capacity  int
	xcoords   []float64
	ycoords   []float64
	demands   []int
	neighbors [][]int
}

// Load parses the instance file at path and precomputes, for each vertex, its
// numNeighbors nearest neighbors (capped to the instance size).
//
// Complexity: parsing O(N), neighbor construction O(N log N · log N) expected
// via the k-d tree.
func Load(path string, numNeighbors int) (*Instance, error) {
	data, err := parseFile(path)
	if err != nil {
		return nil, err
	}

	return fromData(data, numNeighbors), nil
}

// New builds an instance directly from coordinate and demand slices, without
// going through a file. Slices must have equal length with the depot at index
// 0; they are retained by the instance.
func New(capacity int, xcoords, ycoords []float64, demands []int, numNeighbors int) *Instance {
	return fromData(&parsedData{
		capacity: capacity,
		xcoords:  xcoords,
		ycoords:  ycoords,
		demands:  demands,
	}, numNeighbors)
}

func fromData(data *parsedData, numNeighbors int) *Instance {
	inst := &Instance{
		capacity: data.capacity,
		xcoords:  data.xcoords,
		ycoords:  data.ycoords,
		demands:  data.demands,
	}

	if numNeighbors > inst.NumVertices() {
		numNeighbors = inst.NumVertices()
	}

	tree := newKDTree(inst.xcoords, inst.ycoords)
	inst.neighbors = make([][]int, inst.NumVertices())

	for i := range inst.neighbors {
		inst.neighbors[i] = tree.nearestNeighbors(inst.xcoords[i], inst.ycoords[i], numNeighbors)

		// Coincident points may displace i from the front of its own list;
		// swap it back since the solver relies on Neighbors(i)[0] == i.
		if inst.neighbors[i][0] != i {
			for n := 1; n < len(inst.neighbors[i]); n++ {
				if inst.neighbors[i][n] == i {
					inst.neighbors[i][0], inst.neighbors[i][n] = inst.neighbors[i][n], inst.neighbors[i][0]
					break
				}
			}
		}
	}

	return inst
}

// NumVertices returns the instance size including the depot.
func (inst *Instance) NumVertices() int { return len(inst.demands) }

// Depot returns the depot index.
func (inst *Instance) Depot() int { return 0 }

// Capacity returns the vehicle capacity.
func (inst *Instance) Capacity() int { return inst.capacity }

// NumCustomers returns the number of customers.
func (inst *Instance) NumCustomers() int { return inst.NumVertices() - 1 }

// CustomersBegin returns the index of the first customer.
func (inst *Instance) CustomersBegin() int { return 1 }

// CustomersEnd returns the index after the last customer.
func (inst *Instance) CustomersEnd() int { return inst.NumVertices() }

// VerticesBegin returns the index of the first vertex.
func (inst *Instance) VerticesBegin() int { return inst.Depot() }

// VerticesEnd returns the index after the last vertex.
func (inst *Instance) VerticesEnd() int { return inst.NumVertices() }

// Cost returns the cost of arc (i, j): the Euclidean distance rounded to the
// nearest integer. Symmetric and deterministic.
func (inst *Instance) Cost(i, j int) float64 {
	dx := inst.xcoords[i] - inst.xcoords[j]
	dy := inst.ycoords[i] - inst.ycoords[j]

	return float64(int(math.Sqrt(dx*dx+dy*dy) + 0.5))
}

// Demand returns the demand of vertex i; 0 for the depot.
func (inst *Instance) Demand(i int) int { return inst.demands[i] }

// X returns the x coordinate of vertex i.
func (inst *Instance) X(i int) float64 { return inst.xcoords[i] }

// Y returns the y coordinate of vertex i.
func (inst *Instance) Y(i int) float64 { return inst.ycoords[i] }

// Neighbors returns the vertices sorted by non-decreasing distance from i.
// The slice starts with i itself and is owned by the instance: callers must
// not modify it.
func (inst *Instance) Neighbors(i int) []int { return inst.neighbors[i] }
