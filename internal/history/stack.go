// Package history implements a bounded undo/redo log.
//
// A Stack holds an ordered sequence of entries and a pointer to the current
// one. Pushing while the pointer is not at the tail discards the redo
// branch. When a push takes the stack over its capacity, the oldest entry is
// evicted and the pointer is shifted in the same step, so the pointer always
// denotes the entry that was just pushed.
//
// A Stack is not safe for concurrent use.
package history

import "errors"

// DefaultCap is the capacity used when New is given a non-positive value.
const DefaultCap = 10

// prealloc bounds the up-front allocation; larger stacks grow on demand.
const prealloc = 64

var (
	// ErrNothingToUndo is returned by Undo when the pointer is at the oldest entry.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo when the pointer is at the newest entry.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Stack is a bounded, branch-discarding undo/redo log.
type Stack[T any] struct {
	entries []T
	pointer int
	cap     int
}

// New creates an empty stack holding at most capacity entries.
func New[T any](capacity int) *Stack[T] {
	if capacity < 1 {
		capacity = DefaultCap
	}
	return &Stack[T]{
		entries: make([]T, 0, min(capacity+1, prealloc)),
		pointer: -1,
		cap:     capacity,
	}
}

// Push records v as the new current entry.
func (s *Stack[T]) Push(v T) {
	s.truncateFuture()
	s.entries = append(s.entries, v)
	s.pointer = len(s.entries) - 1
	s.enforceCap()
}

// truncateFuture drops every entry after the pointer.
func (s *Stack[T]) truncateFuture() {
	keep := s.pointer + 1
	if keep >= len(s.entries) {
		return
	}
	clear(s.entries[keep:])
	s.entries = s.entries[:keep]
}

// enforceCap evicts the oldest entries until the stack fits, moving the
// pointer with the content it refers to.
func (s *Stack[T]) enforceCap() {
	for len(s.entries) > s.cap {
		last := len(s.entries) - 1
		copy(s.entries, s.entries[1:])
		var zero T
		s.entries[last] = zero
		s.entries = s.entries[:last]
		s.pointer--
	}
}

// Undo moves the pointer one entry back and returns that entry.
func (s *Stack[T]) Undo() (T, error) {
	if !s.CanUndo() {
		var zero T
		return zero, ErrNothingToUndo
	}
	s.pointer--
	return s.entries[s.pointer], nil
}

// Redo moves the pointer one entry forward and returns that entry.
func (s *Stack[T]) Redo() (T, error) {
	if !s.CanRedo() {
		var zero T
		return zero, ErrNothingToRedo
	}
	s.pointer++
	return s.entries[s.pointer], nil
}

// PeekUndo returns the entry Undo would move to, without moving.
func (s *Stack[T]) PeekUndo() (T, bool) {
	if !s.CanUndo() {
		var zero T
		return zero, false
	}
	return s.entries[s.pointer-1], true
}

// PeekRedo returns the entry Redo would move to, without moving.
func (s *Stack[T]) PeekRedo() (T, bool) {
	if !s.CanRedo() {
		var zero T
		return zero, false
	}
	return s.entries[s.pointer+1], true
}

// Reset discards everything and records v as the only entry.
func (s *Stack[T]) Reset(v T) {
	clear(s.entries)
	s.entries = append(s.entries[:0], v)
	s.pointer = 0
}

// Current returns the entry under the pointer.
func (s *Stack[T]) Current() (T, bool) {
	if s.pointer < 0 {
		var zero T
		return zero, false
	}
	return s.entries[s.pointer], true
}

// CanUndo reports whether Undo would succeed.
func (s *Stack[T]) CanUndo() bool { return s.pointer > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Stack[T]) CanRedo() bool { return s.pointer < len(s.entries)-1 }

// Len returns the number of entries.
func (s *Stack[T]) Len() int { return len(s.entries) }

// Pointer returns the index of the current entry, or -1 when empty.
func (s *Stack[T]) Pointer() int { return s.pointer }

// Cap returns the maximum number of entries.
func (s *Stack[T]) Cap() int { return s.cap }

// Entries returns a copy of all entries, oldest first.
func (s *Stack[T]) Entries() []T {
	out := make([]T, len(s.entries))
	copy(out, s.entries)
	return out
}
