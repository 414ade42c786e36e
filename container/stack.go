package container

// IntStack is a fixed-capacity stack of ints backed by a preallocated array.
// The stack is created full: Reset fills it with initializer(i) for each slot,
// and Pop consumes values from the front. It backs the route-id pool, where
// the initializer yields the stable id range 1..capacity.
type IntStack struct {
	items []int
	begin int
	init  func(index int) int
}

// NewIntStack builds a stack with the given capacity, filled by initializer.
// Complexity: O(capacity).
func NewIntStack(capacity int, initializer func(index int) int) *IntStack {
	s := &IntStack{
		items: make([]int, capacity),
		init:  initializer,
	}
	s.Reset()

	return s
}

// Reset refills the stack with initializer values. Complexity: O(capacity).
func (s *IntStack) Reset() {
	for i := range s.items {
		s.items[i] = s.init(i)
	}
	s.begin = 0
}

// Pop removes and returns the top value. The stack must not be empty.
func (s *IntStack) Pop() int {
	item := s.items[s.begin]
	s.begin++

	return item
}

// Push returns a value to the stack. The stack must not be full.
func (s *IntStack) Push(item int) {
	s.begin--
	s.items[s.begin] = item
}

// Size returns the number of stacked values.
func (s *IntStack) Size() int { return len(s.items) - s.begin }

// Empty reports whether no value is left to Pop.
func (s *IntStack) Empty() bool { return s.begin == len(s.items) }

// CopyFrom copies the state of other into s. Capacities must match.
func (s *IntStack) CopyFrom(other *IntStack) {
	copy(s.items, other.items)
	s.begin = other.begin
}
