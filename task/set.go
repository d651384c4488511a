package task

import (
	"iter"
	"slices"
	"strings"
)

// Set is a case-insensitive set of strings.
//
// Iteration follows first insertion order, so output derived from a Set is
// deterministic. The spelling of the first insertion is the one retained.
// The zero value is an empty set ready to use.
//
// A non-empty Set refers to shared storage, so copies of it see each other's
// additions. Use [Set.Clone] for an independent copy.
type Set struct{ *set }

type set struct {
	index map[string]int
	items []string
}

// NewSet returns a set holding items.
func NewSet(items ...string) Set {
	s := Set{&set{index: make(map[string]int, len(items))}}
	for _, item := range items {
		s.Add(item)
	}

	return s
}

func foldKey(s string) string { return strings.ToLower(s) }

// Add inserts item and reports whether it was not already present.
func (s *Set) Add(item string) bool {
	if s.set == nil {
		s.set = &set{index: make(map[string]int)}
	}

	key := foldKey(item)

	if _, ok := s.index[key]; ok {
		return false
	}

	s.index[key] = len(s.items)
	s.items = append(s.items, item)

	return true
}

// Contains reports whether item is in the set.
func (s Set) Contains(item string) bool {
	if s.set == nil {
		return false
	}

	_, ok := s.index[foldKey(item)]

	return ok
}

func (s Set) values() []string {
	if s.set == nil {
		return nil
	}

	return s.items
}

// Len returns the number of items in the set.
func (s Set) Len() int { return len(s.values()) }

// All returns an iterator over the items in insertion order.
func (s Set) All() iter.Seq[string] { return slices.Values(s.values()) }

// Slice returns a copy of the items in insertion order.
func (s Set) Slice() []string { return slices.Clone(s.values()) }

// Equal reports whether s and other hold the same items, ignoring order and
// case.
func (s Set) Equal(other Set) bool {
	if s.Len() != other.Len() {
		return false
	}

	for _, item := range s.values() {
		if !other.Contains(item) {
			return false
		}
	}

	return true
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return NewSet(s.values()...)
}
