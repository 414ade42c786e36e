package container

// BoolGrid is a flat row-major boolean matrix. The local-search framework
// shares one N x 2 grid as the per-vertex update bits.
type BoolGrid struct {
	data []bool
	cols int
}

// NewBoolGrid builds a rows x cols grid, all false.
func NewBoolGrid(rows, cols int) *BoolGrid {
	return &BoolGrid{data: make([]bool, rows*cols), cols: cols}
}

// At returns the cell (i, j).
func (g *BoolGrid) At(i, j int) bool { return g.data[i*g.cols+j] }

// Set writes the cell (i, j).
func (g *BoolGrid) Set(i, j int, value bool) { g.data[i*g.cols+j] = value }
