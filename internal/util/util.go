package util

import "sort"

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LongestCommonPrefix returns the longest run of leading elements shared by
// sl1 and sl2. The returned slice is newly allocated.
func LongestCommonPrefix[E comparable](sl1, sl2 []E) []E {
	n := len(sl1)
	if len(sl2) < n {
		n = len(sl2)
	}

	prefix := []E{}
	for i := 0; i < n; i++ {
		if sl1[i] != sl2[i] {
			break
		}
		prefix = append(prefix, sl1[i])
	}
	return prefix
}

// HasPrefix returns whether sl starts with every element of prefix, in order.
func HasPrefix[E comparable](sl, prefix []E) bool {
	if len(prefix) > len(sl) {
		return false
	}
	for i := range prefix {
		if sl[i] != prefix[i] {
			return false
		}
	}
	return true
}

// InSlice returns whether s is in the given slice.
func InSlice[E comparable](s E, sl []E) bool {
	for i := range sl {
		if sl[i] == s {
			return true
		}
	}
	return false
}

// EqualSlices checks that the two slices contain the same items in the same
// order.
func EqualSlices[E comparable](sl1, sl2 []E) bool {
	if len(sl1) != len(sl2) {
		return false
	}
	for i := range sl1 {
		if sl1[i] != sl2[i] {
			return false
		}
	}
	return true
}

// Stack is a LIFO stack of items. The zero value is an empty stack.
type Stack[E any] struct {
	Of []E
}

func (s *Stack[E]) Push(v E) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the top of the stack. Panics if the stack is empty.
func (s *Stack[E]) Pop() E {
	v := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return v
}

func (s Stack[E]) Len() int {
	return len(s.Of)
}

// SortBy returns a sorted copy of items. less reports whether l goes before r.
// The sort is stable.
func SortBy[E any](items []E, less func(l, r E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
