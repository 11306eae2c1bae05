package util

import (
	"sort"
	"strings"
)

// ISet is a set of unique elements of type E.
type ISet[E any] interface {
	// Elements returns the members of the set. No particular order is
	// guaranteed.
	Elements() []E

	// Add adds the given element to the Set. If the element is already in the
	// set, no effect occurs.
	Add(element E)

	// AddAll adds all elements in s2 to the Set.
	AddAll(s2 ISet[E])

	// Remove removes the given element from the Set. If the element is already
	// not in the set, no effect occurs.
	Remove(element E)

	// Has returns whether the given set has the specified element.
	Has(element E) bool

	// Len returns the number of elements in the set.
	Len() int

	// Empty returns whether the set is empty.
	Empty() bool
}

// StringSet is a map[string]bool with methods added to fulfill ISet[string].
// The zero value is not usable for adding; use NewStringSet.
type StringSet map[string]bool

// NewStringSet creates a StringSet holding every key of every given map.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf creates a StringSet from the items in sl. A nil slice gives an
// empty set.
func StringSetOf(sl []string) StringSet {
	s := StringSet{}
	for i := range sl {
		s.Add(sl[i])
	}
	return s
}

func (s StringSet) Copy() StringSet {
	return NewStringSet(s)
}

// Union returns a new set that is the union of s and o.
func (s StringSet) Union(o ISet[string]) StringSet {
	newSet := s.Copy()
	newSet.AddAll(o)
	return newSet
}

// Intersection returns a new set that contains the elements that are in both
// s and o.
func (s StringSet) Intersection(o ISet[string]) StringSet {
	newSet := NewStringSet()
	for k := range s {
		if o.Has(k) {
			newSet.Add(k)
		}
	}
	return newSet
}

// Difference returns a new set that contains the elements that are in s but
// not in o.
func (s StringSet) Difference(o ISet[string]) StringSet {
	newSet := s.Copy()
	for _, k := range o.Elements() {
		newSet.Remove(k)
	}
	return newSet
}

func (s StringSet) Empty() bool {
	return len(s) == 0
}

func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

func (s StringSet) Add(value string) {
	s[value] = true
}

func (s StringSet) Remove(value string) {
	delete(s, value)
}

func (s StringSet) Len() int {
	return len(s)
}

func (s StringSet) AddAll(s2 ISet[string]) {
	for _, element := range s2.Elements() {
		s.Add(element)
	}
}

// Elements returns the elements of s as a slice in no particular order.
func (s StringSet) Elements() []string {
	sl := make([]string, 0, len(s))
	for item := range s {
		sl = append(sl, item)
	}
	return sl
}

// Sorted returns the elements of s in alphabetical order.
func (s StringSet) Sorted() []string {
	sl := s.Elements()
	sort.Strings(sl)
	return sl
}

// StringOrdered shows the contents of the set with the items alphabetized, as
// in "{a, b, c}". Two sets with the same members always produce the same
// string.
func (s StringSet) StringOrdered() string {
	return "{" + strings.Join(s.Sorted(), ", ") + "}"
}

// String is the same as StringOrdered.
func (s StringSet) String() string {
	return s.StringOrdered()
}

// Equal returns whether two sets have the same items. Anything other than a
// StringSet, *StringSet, or other ISet[string] is never equal.
func (s StringSet) Equal(o any) bool {
	var other ISet[string]
	switch v := o.(type) {
	case StringSet:
		other = v
	case *StringSet:
		if v == nil {
			return false
		}
		other = *v
	case ISet[string]:
		other = v
	default:
		return false
	}

	if s.Len() != other.Len() {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}
