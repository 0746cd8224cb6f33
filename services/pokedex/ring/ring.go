// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ring implements a circular doubly-linked sequence.
//
// A Ring has no terminating nil and no sentinel element. It is entered
// through a single entry element; an empty ring has no entry. Every linked
// element has non-nil prev and next links, and a singleton ring links its
// only element to itself in both directions.
//
// # Ownership Model
//
// An Element belongs to exactly one Ring for as long as it is linked.
// Unlink detaches it and clears its links, so a detached element can never
// be used to walk back into the ring it left.
//
// # Thread Safety
//
// Ring is NOT safe for concurrent use. Callers run one operation to
// completion before starting the next.
package ring

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrForeignElement is returned when an element is not linked into the ring.
	ErrForeignElement = errors.New("element does not belong to this ring")

	// ErrCorrupt is returned by Validate when a structural invariant is broken.
	ErrCorrupt = errors.New("ring invariant violated")
)

// Element is one linked member of a Ring.
type Element[T any] struct {
	// Value is the payload. The ring never inspects it.
	Value T

	prev, next *Element[T]
	ring       *Ring[T]
}

// Next returns the following element, or nil if e is detached.
func (e *Element[T]) Next() *Element[T] {
	if e.ring == nil {
		return nil
	}
	return e.next
}

// Prev returns the preceding element, or nil if e is detached.
func (e *Element[T]) Prev() *Element[T] {
	if e.ring == nil {
		return nil
	}
	return e.prev
}

// Linked reports whether e is currently a member of a ring.
func (e *Element[T]) Linked() bool {
	return e.ring != nil
}

// Ring is a circular doubly-linked sequence with an explicit count.
//
// The zero value is an empty ring ready to use.
type Ring[T any] struct {
	entry *Element[T]
	n     int
}

// New returns an empty ring.
func New[T any]() *Ring[T] {
	return &Ring[T]{}
}

// Len returns the number of linked elements. O(1).
func (r *Ring[T]) Len() int {
	return r.n
}

// Empty reports whether the ring has no elements.
func (r *Ring[T]) Empty() bool {
	return r.entry == nil
}

// Entry returns the entry element, or nil for an empty ring.
func (r *Ring[T]) Entry() *Element[T] {
	return r.entry
}

// Append links v immediately before the entry, i.e. at the end of
// insertion order, and returns the new element.
//
// Description:
//
//	O(1). When the ring is empty the new element becomes the entry and is
//	linked to itself. The entry does not move on append.
func (r *Ring[T]) Append(v T) *Element[T] {
	e := &Element[T]{Value: v, ring: r}
	if r.entry == nil {
		e.prev, e.next = e, e
		r.entry = e
		r.n = 1
		return e
	}
	last := r.entry.prev
	e.prev = last
	e.next = r.entry
	last.next = e
	r.entry.prev = e
	r.n++
	return e
}

// Unlink splices e out of the ring and returns the entry after removal.
//
// Description:
//
//	O(1). If e is the entry, the entry moves to e's successor, or is
//	cleared when e was the only element. The entry is updated before e's
//	links are cleared, so the returned entry is always a live member (or
//	nil for an empty ring).
//
// Inputs:
//   - e: A linked element of this ring.
//
// Outputs:
//   - *Element[T]: The entry after removal. Nil when the ring is now empty.
//   - error: ErrForeignElement if e is nil, detached, or owned by another ring.
func (r *Ring[T]) Unlink(e *Element[T]) (*Element[T], error) {
	if e == nil || e.ring != r {
		return r.entry, ErrForeignElement
	}

	if e.next == e {
		r.entry = nil
	} else {
		if r.entry == e {
			r.entry = e.next
		}
		e.prev.next = e.next
		e.next.prev = e.prev
	}
	r.n--

	e.prev, e.next, e.ring = nil, nil, nil
	return r.entry, nil
}

// SetEntry makes e the entry element without changing ring order.
func (r *Ring[T]) SetEntry(e *Element[T]) error {
	if e == nil || e.ring != r {
		return ErrForeignElement
	}
	r.entry = e
	return nil
}

// Clear detaches every element and leaves the ring empty.
//
// Each element is detached only after the entry has been cleared, so no
// caller can observe a ring whose entry points at a detached element.
func (r *Ring[T]) Clear() {
	e := r.entry
	n := r.n
	r.entry = nil
	r.n = 0
	for i := 0; i < n && e != nil; i++ {
		next := e.next
		e.prev, e.next, e.ring = nil, nil, nil
		e = next
	}
}

// All yields every element once, starting at the entry.
func (r *Ring[T]) All() iter.Seq[*Element[T]] {
	return r.From(r.entry)
}

// From yields every element once in next order, starting at start and
// stopping when the walk returns to start.
//
// The sequence is lazy and restartable: each range over it begins a new
// walk. A nil or foreign start yields nothing.
func (r *Ring[T]) From(start *Element[T]) iter.Seq[*Element[T]] {
	return func(yield func(*Element[T]) bool) {
		if start == nil || start.ring != r {
			return
		}
		e := start
		// Capture next before yielding so the caller may unlink the element
		// it was just handed. The step bound keeps the walk finite even if
		// start itself is unlinked.
		for i, n := 0, r.n; i < n; i++ {
			next := e.next
			if !yield(e) {
				return
			}
			if next == start || next == nil || next.ring != r {
				return
			}
			e = next
		}
	}
}

// Values yields every payload once, starting at the entry.
func (r *Ring[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := range r.All() {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// Walk yields count elements starting at the entry, stepping forward
// (next) or backward (prev). Elements repeat when count exceeds Len.
func (r *Ring[T]) Walk(forward bool, count int) iter.Seq[*Element[T]] {
	return func(yield func(*Element[T]) bool) {
		e := r.entry
		for i := 0; i < count && e != nil; i++ {
			if !yield(e) {
				return
			}
			if forward {
				e = e.next
			} else {
				e = e.prev
			}
		}
	}
}

// Find returns the first element, from the entry, whose value matches.
func (r *Ring[T]) Find(match func(T) bool) (*Element[T], bool) {
	for e := range r.All() {
		if match(e.Value) {
			return e, true
		}
	}
	return nil, false
}

// SwapValues exchanges the payloads of two elements in place.
// Links and ring membership are untouched.
func SwapValues[T any](a, b *Element[T]) {
	a.Value, b.Value = b.Value, a.Value
}

// Validate checks the ring's structural invariants.
//
// Description:
//
//	Verifies that the count matches the entry state, that following next
//	from the entry returns to it after exactly Len steps, that every
//	element's neighbours point back at it, and that every element is owned
//	by this ring. Intended for tests and debug assertions.
func (r *Ring[T]) Validate() error {
	if r.entry == nil {
		if r.n != 0 {
			return fmt.Errorf("%w: empty ring reports %d elements", ErrCorrupt, r.n)
		}
		return nil
	}
	if r.n <= 0 {
		return fmt.Errorf("%w: non-empty ring reports %d elements", ErrCorrupt, r.n)
	}

	e := r.entry
	for i := 0; i < r.n; i++ {
		if e.ring != r {
			return fmt.Errorf("%w: element %d owned by another ring", ErrCorrupt, i)
		}
		if e.next == nil || e.prev == nil {
			return fmt.Errorf("%w: element %d has a nil link", ErrCorrupt, i)
		}
		if e.next.prev != e || e.prev.next != e {
			return fmt.Errorf("%w: element %d neighbours do not point back", ErrCorrupt, i)
		}
		e = e.next
		if e == r.entry && i != r.n-1 {
			return fmt.Errorf("%w: cycle closed after %d of %d steps", ErrCorrupt, i+1, r.n)
		}
	}
	if e != r.entry {
		return fmt.Errorf("%w: walk of %d steps did not return to entry", ErrCorrupt, r.n)
	}
	return nil
}
