package instance_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/cvrp/instance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyInstance = `NAME : tiny
COMMENT : five vertices on a line
TYPE : CVRP
DIMENSION : 5
EDGE_WEIGHT_TYPE : EUC_2D
CAPACITY : 2
NODE_COORD_SECTION
1 0 0
2 0 1
3 0 2
4 0 3
5 0 4
DEMAND_SECTION
1 0
2 1
3 1
4 1
5 1
`

func writeInstance(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiny.vrp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// TestLoad_ParsesHeaderAndSections checks the happy path end to end.
func TestLoad_ParsesHeaderAndSections(t *testing.T) {
	inst, err := instance.Load(writeInstance(t, tinyInstance), 5)
	require.NoError(t, err)

	assert.Equal(t, 5, inst.NumVertices())
	assert.Equal(t, 4, inst.NumCustomers())
	assert.Equal(t, 0, inst.Depot())
	assert.Equal(t, 2, inst.Capacity())
	assert.Equal(t, 0, inst.Demand(0))
	assert.Equal(t, 1, inst.Demand(3))
	assert.Equal(t, 0.0, inst.X(4))
	assert.Equal(t, 4.0, inst.Y(4))
}

// TestLoad_MissingFile surfaces ErrOpen.
func TestLoad_MissingFile(t *testing.T) {
	_, err := instance.Load(filepath.Join(t.TempDir(), "nope.vrp"), 5)
	assert.ErrorIs(t, err, instance.ErrOpen)
}

// TestLoad_MalformedHeader surfaces ErrParse.
func TestLoad_MalformedHeader(t *testing.T) {
	_, err := instance.Load(writeInstance(t, "NAME : x\nDIMENSION : 3\n"), 5)
	assert.ErrorIs(t, err, instance.ErrParse)
}

// TestCost_RoundedEuclideanSymmetric checks rounding and symmetry.
func TestCost_RoundedEuclideanSymmetric(t *testing.T) {
	inst := instance.New(10,
		[]float64{0, 3, 0.6}, []float64{0, 4, 0}, []int{0, 1, 1}, 3)

	assert.Equal(t, 5.0, inst.Cost(0, 1), "3-4-5 triangle")
	assert.Equal(t, 1.0, inst.Cost(0, 2), "0.6 rounds to 1")
	assert.Equal(t, inst.Cost(1, 2), inst.Cost(2, 1), "costs are symmetric")
	assert.Equal(t, 0.0, inst.Cost(1, 1))
}

// TestNeighbors_SortedSelfFirst checks that each neighbor list starts with
// the vertex itself and is sorted by non-decreasing distance.
func TestNeighbors_SortedSelfFirst(t *testing.T) {
	inst, err := instance.Load(writeInstance(t, tinyInstance), 5)
	require.NoError(t, err)

	for i := inst.VerticesBegin(); i < inst.VerticesEnd(); i++ {
		neighbors := inst.Neighbors(i)
		require.Len(t, neighbors, 5)
		assert.Equal(t, i, neighbors[0], "self first")

		for n := 2; n < len(neighbors); n++ {
			assert.LessOrEqual(t,
				inst.Cost(i, neighbors[n-1]), inst.Cost(i, neighbors[n]),
				"neighbors of %d must be sorted by distance", i)
		}
	}
}

// TestNeighbors_CapRespectsK checks that the requested neighbor count caps
// the list length.
func TestNeighbors_CapRespectsK(t *testing.T) {
	inst, err := instance.Load(writeInstance(t, tinyInstance), 3)
	require.NoError(t, err)

	assert.Len(t, inst.Neighbors(2), 3)
	assert.Equal(t, 2, inst.Neighbors(2)[0])
}
