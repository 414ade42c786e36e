package container

// BitMatrix stores one bounded vertex set per row. Rows are FlatSets, so Set
// and IsSet are O(1) expected and a whole row can be cloned into another row
// in one copy. The ejection chain keeps two of these, one per endpoint role,
// with a row per relocation-tree node.
type BitMatrix struct {
	rows []*FlatSet
}

// NewBitMatrix builds a matrix of rows sets, each sized for maxRowSize
// entries.
func NewBitMatrix(rows, maxRowSize int) *BitMatrix {
	m := &BitMatrix{rows: make([]*FlatSet, rows)}
	for i := range m.rows {
		m.rows[i] = NewFlatSet(maxRowSize)
	}

	return m
}

// Reset clears the given row.
func (m *BitMatrix) Reset(row int) { m.rows[row].Clear() }

// Set inserts entry into the given row.
func (m *BitMatrix) Set(row, entry int) { m.rows[row].Insert(entry) }

// IsSet reports whether entry belongs to the given row.
func (m *BitMatrix) IsSet(row, entry int) bool { return m.rows[row].Contains(entry) }

// Overwrite replaces the destination row with a copy of the source row.
func (m *BitMatrix) Overwrite(sourceRow, destinationRow int) {
	m.rows[destinationRow].CopyFrom(m.rows[sourceRow])
}

// ScanRow calls fn for every entry of the given row.
func (m *BitMatrix) ScanRow(row int, fn func(entry int)) { m.rows[row].Scan(fn) }
