package surface

import (
	"errors"
	"testing"
)

func TestStackLIFO(t *testing.T) {
	m := NewManager()

	a := New(m)
	b := New(m)
	c := New(m)

	if m.Top() != c {
		t.Error("top should be the most recently pushed handle")
	}
	c.Close()
	if m.Top() != b {
		t.Error("top should be b after popping c")
	}
	b.Close()
	a.Close()
	if m.Top() != nil || m.Depth() != 0 {
		t.Error("stack should be empty")
	}
}

func TestPopNonTopViolates(t *testing.T) {
	var got error
	m := NewManager(WithViolationHandler(func(err error) { got = err }))

	a := New(m)
	b := New(m)

	a.Close()

	var sde *StackDisciplineError
	if !errors.As(got, &sde) {
		t.Fatalf("violation = %v, want *StackDisciplineError", got)
	}
	if sde.ID != a.ID() || sde.TopID != b.ID() {
		t.Errorf("error ids = %q/%q, want %q/%q", sde.ID, sde.TopID, a.ID(), b.ID())
	}
	// The stack must be untouched by the failed pop.
	if m.Depth() != 2 || m.Top() != b {
		t.Error("failed pop must not reorder the stack")
	}
}

func TestPopNonTopPanicsByDefault(t *testing.T) {
	m := NewManager()
	a := New(m)
	New(m)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on out-of-order close")
		}
		if _, ok := r.(*StackDisciplineError); !ok {
			t.Errorf("panic value = %v, want *StackDisciplineError", r)
		}
	}()
	a.Close()
}

func TestDoubleCloseIsNoop(t *testing.T) {
	m := NewManager()
	a := New(m)
	b := New(m)

	b.Close()
	b.Close()

	if m.Top() != a || m.Depth() != 1 {
		t.Error("double close must not pop another handle")
	}
}
