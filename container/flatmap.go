package container

// FlatMap is the map counterpart of FlatSet: a tiny open-addressing map from
// non-negative int keys to int values with linear probing. Used by the
// ejection chain to carry modified route loads along a relocation tree, where
// the number of touched routes is bounded by the chain length.
type FlatMap struct {
	keys   []int
	values []int
	mask   int
}

// NewFlatMap builds a map able to hold up to maxSize entries.
func NewFlatMap(maxSize int) *FlatMap {
	size := nextPow2(maxSize * 5 / 4)
	m := &FlatMap{
		keys:   make([]int, size),
		values: make([]int, size),
		mask:   size - 1,
	}
	m.Clear()

	return m
}

func (m *FlatMap) findSlot(key int) int {
	index := key & m.mask
	for m.keys[index] != key && m.keys[index] != flatEmpty {
		index = (index + 1) & m.mask
	}

	return index
}

// Get returns the value stored under key and whether key is present.
func (m *FlatMap) Get(key int) (int, bool) {
	slot := m.findSlot(key)
	if m.keys[slot] == flatEmpty {
		return 0, false
	}

	return m.values[slot], true
}

// Put stores value under key, inserting or overwriting.
func (m *FlatMap) Put(key, value int) {
	slot := m.findSlot(key)
	m.keys[slot] = key
	m.values[slot] = value
}

// Clear empties the map. Complexity: O(buffer size).
func (m *FlatMap) Clear() {
	for i := range m.keys {
		m.keys[i] = flatEmpty
	}
}

// CopyFrom overwrites m with the contents of other. Maps must have been built
// with the same maxSize.
func (m *FlatMap) CopyFrom(other *FlatMap) {
	copy(m.keys, other.keys)
	copy(m.values, other.values)
}
