// Package sparse provides a sparse set for epsilon-closure computation.
//
// A sparse set supports O(1) insertion, membership testing and clearing
// while keeping a dense list of its elements in insertion order. The DFA
// constructor uses one set per closure and then extracts the canonical
// (ascending) member list.
package sparse

import "slices"

// Set is a set of uint32 values below a fixed capacity.
type Set struct {
	sparse []uint32 // Maps value -> index in dense
	dense  []uint32 // Contains the actual values
}

// New creates a set able to hold values in [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set and reports whether it was absent.
// Panics if value >= capacity.
func (s *Set) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value uint32) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Len returns the number of elements.
func (s *Set) Len() int {
	return len(s.dense)
}

// Clear removes all elements in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Values returns the elements in insertion order.
// The slice is valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}

// Sorted returns a fresh ascending copy of the elements.
func (s *Set) Sorted() []uint32 {
	out := slices.Clone(s.dense)
	slices.Sort(out)
	return out
}
