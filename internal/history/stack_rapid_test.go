package history

import (
	"testing"

	"pgregory.net/rapid"
)

// stackModel is a naive reference implementation: it keeps every entry
// and applies the capacity as a sliding window when reporting.
type stackModel struct {
	all     []int
	pointer int
}

func (m *stackModel) push(v int) {
	m.all = append(m.all[:m.pointer+1], v)
	m.pointer = len(m.all) - 1
}

func TestStack_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "cap")
		s := New[int](capacity)
		m := &stackModel{pointer: -1}
		next := 0
		// floor is the lowest model index still retained by the bounded stack.
		floor := 0

		t.Repeat(map[string]func(*rapid.T){
			"push": func(t *rapid.T) {
				next++
				s.Push(next)
				m.push(next)
				if len(m.all)-floor > capacity {
					floor = len(m.all) - capacity
				}
			},
			"undo": func(t *rapid.T) {
				v, err := s.Undo()
				if m.pointer-1 < floor {
					if err == nil {
						t.Fatalf("Undo succeeded past the retained window")
					}
					return
				}
				m.pointer--
				if err != nil || v != m.all[m.pointer] {
					t.Fatalf("Undo: got %d, %v; want %d", v, err, m.all[m.pointer])
				}
			},
			"redo": func(t *rapid.T) {
				v, err := s.Redo()
				if m.pointer >= len(m.all)-1 {
					if err == nil {
						t.Fatalf("Redo succeeded at the tail")
					}
					return
				}
				m.pointer++
				if err != nil || v != m.all[m.pointer] {
					t.Fatalf("Redo: got %d, %v; want %d", v, err, m.all[m.pointer])
				}
			},
			"": func(t *rapid.T) {
				if s.Len() > capacity {
					t.Fatalf("len %d exceeds cap %d", s.Len(), capacity)
				}
				if s.Len() == 0 {
					if s.Pointer() != -1 {
						t.Fatalf("empty stack pointer %d", s.Pointer())
					}
					return
				}
				if s.Pointer() < 0 || s.Pointer() >= s.Len() {
					t.Fatalf("pointer %d outside [0,%d]", s.Pointer(), s.Len()-1)
				}
				cur, _ := s.Current()
				if cur != m.all[m.pointer] {
					t.Fatalf("Current: got %d, want %d", cur, m.all[m.pointer])
				}
				if s.Len() != len(m.all)-floor {
					t.Fatalf("Len: got %d, want %d", s.Len(), len(m.all)-floor)
				}
			},
		})
	})
}
