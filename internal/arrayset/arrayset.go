// Package arrayset implements an insertion-ordered set of strings, used to
// intern source file names and identifier names of a source map.
//
// Adding a member, testing for membership and finding the index of a member
// are all O(1). Removing members is not supported.
package arrayset

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMember is returned by IndexOf for strings that were never added.
	ErrNotMember = errors.New("not a member of the set")
	// ErrOutOfRange is returned by At for an index outside of the set.
	ErrOutOfRange = errors.New("index out of range")
)

// Set is an ordered sequence of strings with a string to index lookup. The
// index of a string is the position it was first added at.
//
// The zero value is an empty set ready to use.
type Set struct {
	array   []string
	indices map[string]int
}

// FromSlice creates a set from an existing slice. With allowDuplicates,
// repeated strings are kept in the sequence, so that its positions match the
// ones of the source slice.
func FromSlice(items []string, allowDuplicates bool) *Set {
	s := &Set{}
	for _, item := range items {
		s.Add(item, allowDuplicates)
	}
	return s
}

// Add the string to the set. A string that is already a member keeps its
// original index; with allowDuplicates it is appended to the sequence anyway.
func (s *Set) Add(str string, allowDuplicates bool) {
	isDuplicate := s.Has(str)
	idx := len(s.array)
	if !isDuplicate || allowDuplicates {
		s.array = append(s.array, str)
	}
	if !isDuplicate {
		if s.indices == nil {
			s.indices = map[string]int{}
		}
		s.indices[str] = idx
	}
}

// Has reports whether the string is a member of the set.
func (s *Set) Has(str string) bool {
	_, ok := s.indices[str]
	return ok
}

// IndexOf returns the index of the string in the set.
func (s *Set) IndexOf(str string) (int, error) {
	if idx, ok := s.indices[str]; ok {
		return idx, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrNotMember, str)
}

// At returns the member at the given index.
func (s *Set) At(idx int) (string, error) {
	if idx >= 0 && idx < len(s.array) {
		return s.array[idx], nil
	}
	return "", fmt.Errorf("%w: no element indexed by %d", ErrOutOfRange, idx)
}

// Size returns the number of unique members. Duplicates added with
// allowDuplicates don't count.
func (s *Set) Size() int {
	return len(s.indices)
}

// ToSlice returns a copy of the insertion-ordered sequence. The result is
// never nil.
func (s *Set) ToSlice() []string {
	return append(make([]string, 0, len(s.array)), s.array...)
}
