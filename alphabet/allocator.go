package alphabet

import "fmt"

// Allocator hands out symbol names that are guaranteed not to collide with
// any symbol it was created with or any it has already handed out.
//
// Names are formed from a base name and a counter, as in "A_1", "A_2". The
// counter is kept per base, so allocation is deterministic for a given set of
// taken symbols and sequence of requests.
type Allocator struct {
	taken    map[Symbol]bool
	counters map[Symbol]int
}

// NewAllocator creates an Allocator that will never return any symbol in any
// of the given alphabets.
func NewAllocator(taken ...Alphabet) *Allocator {
	alloc := &Allocator{
		taken:    map[Symbol]bool{},
		counters: map[Symbol]int{},
	}
	for _, a := range taken {
		for _, s := range a.order {
			alloc.taken[s] = true
		}
	}
	return alloc
}

// Reserve marks the given symbols as in use.
func (alloc *Allocator) Reserve(syms ...Symbol) {
	for _, s := range syms {
		alloc.taken[s] = true
	}
}

// Fresh returns a new symbol derived from base that has never been taken. The
// returned symbol is reserved before it is returned.
func (alloc *Allocator) Fresh(base Symbol) Symbol {
	if base == Epsilon {
		base = "S"
	}

	for {
		alloc.counters[base]++
		candidate := Symbol(fmt.Sprintf("%s_%d", base, alloc.counters[base]))
		if !alloc.taken[candidate] {
			alloc.taken[candidate] = true
			return candidate
		}
	}
}
