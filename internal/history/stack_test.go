package history

import (
	"errors"
	"reflect"
	"testing"
)

func pushAll(s *Stack[int], values ...int) {
	for _, v := range values {
		s.Push(v)
	}
}

func TestNew(t *testing.T) {
	s := New[int](5)
	if s.Len() != 0 || s.Pointer() != -1 || s.Cap() != 5 {
		t.Errorf("new stack: len=%d pointer=%d cap=%d", s.Len(), s.Pointer(), s.Cap())
	}
	if _, ok := s.Current(); ok {
		t.Error("Current should report false on an empty stack")
	}

	if got := New[int](0).Cap(); got != DefaultCap {
		t.Errorf("default cap: got %d, want %d", got, DefaultCap)
	}
}

func TestNew_LargeCapacity(t *testing.T) {
	const huge = 1 << 60
	s := New[int](huge)
	if s.Cap() != huge {
		t.Errorf("Cap: got %d, want %d", s.Cap(), huge)
	}
	pushAll(s, 1, 2, 3)
	if cur, _ := s.Current(); cur != 3 || s.Len() != 3 {
		t.Errorf("after 3 pushes: current=%d len=%d", cur, s.Len())
	}
}

func TestStack_PushAdvancesPointer(t *testing.T) {
	s := New[int](10)
	pushAll(s, 1, 2, 3)

	if s.Len() != 3 || s.Pointer() != 2 {
		t.Fatalf("after 3 pushes: len=%d pointer=%d", s.Len(), s.Pointer())
	}
	if cur, _ := s.Current(); cur != 3 {
		t.Errorf("Current: got %d, want 3", cur)
	}
}

func TestStack_UndoRedo(t *testing.T) {
	s := New[int](10)
	pushAll(s, 1, 2, 3)

	v, err := s.Undo()
	if err != nil || v != 2 {
		t.Fatalf("Undo: got %d, %v; want 2", v, err)
	}
	v, err = s.Undo()
	if err != nil || v != 1 {
		t.Fatalf("Undo: got %d, %v; want 1", v, err)
	}
	if _, err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo at oldest: got %v, want ErrNothingToUndo", err)
	}
	if s.Pointer() != 0 {
		t.Errorf("failed Undo must not move the pointer: got %d", s.Pointer())
	}

	v, err = s.Redo()
	if err != nil || v != 2 {
		t.Fatalf("Redo: got %d, %v; want 2", v, err)
	}
	v, err = s.Redo()
	if err != nil || v != 3 {
		t.Fatalf("Redo: got %d, %v; want 3", v, err)
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo at newest: got %v, want ErrNothingToRedo", err)
	}
}

func TestStack_EmptyUndoRedo(t *testing.T) {
	s := New[int](3)
	if _, err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on empty: got %v", err)
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo on empty: got %v", err)
	}

	s.Push(1)
	if s.CanUndo() || s.CanRedo() {
		t.Error("a single entry can be neither undone nor redone")
	}
}

func TestStack_BranchDiscard(t *testing.T) {
	s := New[int](10)
	pushAll(s, 1, 2, 3, 4)

	s.Undo()
	s.Undo()
	s.Push(5)

	if got, want := s.Entries(), []int{1, 2, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("entries: got %v, want %v", got, want)
	}
	if _, err := s.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("discarded snapshots must be unreachable by redo, got %v", err)
	}
	for s.CanUndo() {
		v, _ := s.Undo()
		if v == 3 || v == 4 {
			t.Errorf("discarded snapshot %d reachable by undo", v)
		}
	}
}

func TestStack_Bound(t *testing.T) {
	s := New[int](10)
	for i := 1; i <= 25; i++ {
		s.Push(i)
		if s.Len() > 10 {
			t.Fatalf("len %d exceeds cap after push %d", s.Len(), i)
		}
		if cur, _ := s.Current(); cur != i {
			t.Fatalf("pointer must denote the latest push: got %d, want %d", cur, i)
		}
	}

	if got, want := s.Entries(), []int{16, 17, 18, 19, 20, 21, 22, 23, 24, 25}; !reflect.DeepEqual(got, want) {
		t.Errorf("entries: got %v, want %v", got, want)
	}
	if s.Pointer() != 9 {
		t.Errorf("pointer: got %d, want 9", s.Pointer())
	}
}

func TestStack_BoundAfterUndo(t *testing.T) {
	s := New[int](3)
	pushAll(s, 1, 2, 3)
	s.Undo()
	s.Push(4)

	if got, want := s.Entries(), []int{1, 2, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("entries: got %v, want %v", got, want)
	}
	if cur, _ := s.Current(); cur != 4 {
		t.Errorf("Current: got %d, want 4", cur)
	}

	s.Push(5)
	if got, want := s.Entries(), []int{2, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("entries after eviction: got %v, want %v", got, want)
	}
	v, err := s.Undo()
	if err != nil || v != 4 {
		t.Errorf("Undo after eviction: got %d, %v; want 4", v, err)
	}
}

func TestStack_Peek(t *testing.T) {
	s := New[int](10)
	pushAll(s, 1, 2, 3)
	s.Undo()

	if v, ok := s.PeekUndo(); !ok || v != 1 {
		t.Errorf("PeekUndo: got %d, %v", v, ok)
	}
	if v, ok := s.PeekRedo(); !ok || v != 3 {
		t.Errorf("PeekRedo: got %d, %v", v, ok)
	}
	if s.Pointer() != 1 {
		t.Errorf("Peek must not move the pointer: got %d", s.Pointer())
	}
}

func TestStack_Reset(t *testing.T) {
	s := New[int](10)
	pushAll(s, 1, 2, 3)
	s.Undo()

	s.Reset(42)
	if s.Len() != 1 || s.Pointer() != 0 {
		t.Fatalf("after Reset: len=%d pointer=%d", s.Len(), s.Pointer())
	}
	if cur, _ := s.Current(); cur != 42 {
		t.Errorf("Current: got %d, want 42", cur)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("reset stack should have nothing to undo or redo")
	}
}
