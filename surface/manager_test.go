package surface

import (
	"errors"
	"testing"

	"github.com/dshills/termstack/geom"
)

// counter records redraw or resize invocations for one handle.
type counter struct {
	n       int
	regions []geom.Rect
}

func (c *counter) redraw() RedrawFunc {
	return func(h *Handle) {
		c.n++
		c.regions = append(c.regions, h.Region())
	}
}

func TestSetRegionAccumulatesUnionOfOldAndNew(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()

	a := geom.Rect{X: 0, Y: 0, W: 10, H: 5}
	b := geom.Rect{X: 30, Y: 10, W: 8, H: 4}
	h.SetRegion(a)
	h.SetRegion(b)

	if !m.inval.covers(a) {
		t.Errorf("invalidated region must cover vacated region %v", a)
	}
	if !m.inval.covers(b) {
		t.Errorf("invalidated region must cover new region %v", b)
	}
}

func TestRedrawForcesTopSurface(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()
	var c counter
	h.SetRegion(geom.Rect{X: 0, Y: 0, W: 10, H: 5})
	h.OnRedraw(c.redraw())
	m.Redraw()
	c.n = 0

	// No invalidation since, yet Redraw always repaints the top surface.
	m.Redraw()

	if c.n != 1 {
		t.Errorf("top redraw count = %d, want 1", c.n)
	}
}

func TestRedrawInvalidatedIsIdempotent(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()
	var c counter
	h.SetRegion(geom.Rect{X: 0, Y: 0, W: 10, H: 5})
	h.OnRedraw(c.redraw())

	m.RedrawInvalidated()
	first := c.n
	m.RedrawInvalidated()

	if first != 1 {
		t.Errorf("first pass redraw count = %d, want 1", first)
	}
	if c.n != first {
		t.Errorf("second pass invoked %d callbacks, want 0", c.n-first)
	}
}

func TestOcclusionByFullContainment(t *testing.T) {
	m := NewManager()
	x := New(m)
	defer x.Close()
	y := New(m)
	defer y.Close()

	var cx, cy counter
	x.SetRegion(geom.Rect{X: 10, Y: 5, W: 20, H: 8})
	x.OnRedraw(cx.redraw())
	y.SetRegion(geom.Rect{X: 5, Y: 2, W: 40, H: 15}) // fully contains x
	y.OnRedraw(cy.redraw())
	m.RedrawInvalidated()
	cx.n, cy.n = 0, 0

	// Dirty area confined to y's region: x is fully occluded.
	x.Invalidate()
	m.RedrawInvalidated()

	if cx.n != 0 {
		t.Errorf("occluded surface redraw count = %d, want 0", cx.n)
	}
	if cy.n != 1 {
		t.Errorf("upper surface redraw count = %d, want 1", cy.n)
	}
}

func TestPartialOcclusionRedrawsFullRegion(t *testing.T) {
	m := NewManager()
	x := New(m)
	defer x.Close()
	y := New(m)
	defer y.Close()

	var cx counter
	x.SetRegion(geom.Rect{X: 0, Y: 0, W: 20, H: 10})
	x.OnRedraw(cx.redraw())
	y.SetRegion(geom.Rect{X: 10, Y: 0, W: 20, H: 10}) // covers x's right half
	m.RedrawInvalidated()
	cx.n = 0

	// Dirty rect spans both halves of x; the uncovered part forces a full
	// redraw of x, no clipping.
	m.Invalidate(geom.Rect{X: 5, Y: 0, W: 10, H: 2}, false)
	m.RedrawInvalidated()

	if cx.n != 1 {
		t.Errorf("partially occluded surface redraw count = %d, want 1", cx.n)
	}

	// But a dirty rect entirely under y leaves x untouched.
	m.Invalidate(geom.Rect{X: 12, Y: 0, W: 5, H: 2}, false)
	m.RedrawInvalidated()

	if cx.n != 1 {
		t.Errorf("fully covered dirty rect redrew the lower surface")
	}
}

func TestBlocksBelowSkipsRedrawAndResize(t *testing.T) {
	m := NewManager()
	bg := New(m)
	defer bg.Close()

	var bgRedraw, bgResize counter
	bg.SetRegion(geom.Rect{X: 0, Y: 0, W: 80, H: 24})
	bg.OnRedraw(bgRedraw.redraw())
	bg.OnResize(func(h *Handle) {
		bgResize.n++
		h.SetRegion(geom.Rect{X: 0, Y: 0, W: 80, H: 24})
	})
	m.Redraw()
	bgRedraw.n = 0

	modal := NewBlocking(m)
	var modalRedraw counter
	modal.SetRegion(geom.Rect{X: 10, Y: 5, W: 20, H: 8})
	modal.OnRedraw(modalRedraw.redraw())

	m.Redraw()
	if modalRedraw.n != 1 {
		t.Errorf("modal redraw count = %d, want 1", modalRedraw.n)
	}
	if bgRedraw.n != 0 {
		t.Errorf("blocked surface redraw count = %d, want 0", bgRedraw.n)
	}

	m.ScreenResized()
	if bgResize.n != 0 {
		t.Errorf("blocked surface resize count = %d, want 0", bgResize.n)
	}

	// Closing the modal re-enables the surfaces below; the next redraw
	// resolves the blocked surface's pending resize before drawing it.
	modal.Close()
	m.Redraw()

	if bgResize.n != 1 {
		t.Errorf("resize after re-enable = %d, want 1", bgResize.n)
	}
	if bgRedraw.n != 1 {
		t.Errorf("redraw after re-enable = %d, want 1", bgRedraw.n)
	}
}

func TestScreenResizedInvokesEveryCallbackBottomToTop(t *testing.T) {
	m := NewManager()

	var order []string
	var redrawn []string
	make2 := func(name string, r geom.Rect) *Handle {
		h := New(m)
		h.SetRegion(r)
		h.OnResize(func(h *Handle) {
			order = append(order, name)
			h.SetRegion(r)
		})
		h.OnRedraw(func(h *Handle) {
			redrawn = append(redrawn, name)
		})
		return h
	}
	a := make2("a", geom.Rect{X: 0, Y: 0, W: 80, H: 24})
	b := make2("b", geom.Rect{X: 5, Y: 5, W: 10, H: 10})
	c := make2("c", geom.Rect{X: 40, Y: 2, W: 10, H: 10})
	defer func() { c.Close(); b.Close(); a.Close() }()
	m.Redraw()
	redrawn = nil

	m.ScreenResized()

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("resize order = %v, want [a b c]", order)
	}
	// A resize must be followed by a full redraw touching every surface
	// with a non-degenerate region.
	if len(redrawn) != 3 {
		t.Errorf("redrawn after resize = %v, want all three", redrawn)
	}
}

func TestDialogOverBackgroundScenario(t *testing.T) {
	m := NewManager()

	bg := New(m)
	defer bg.Close()
	var bgRedraw counter
	bg.SetRegion(geom.Rect{X: 0, Y: 0, W: 80, H: 24})
	bg.OnRedraw(bgRedraw.redraw())
	m.Redraw()
	bgRedraw.n = 0

	dialog := NewBlocking(m)
	var dialogRedraw counter
	dialog.SetRegion(geom.Rect{X: 10, Y: 5, W: 20, H: 8})
	dialog.OnRedraw(dialogRedraw.redraw())

	m.Redraw()
	if dialogRedraw.n != 1 {
		t.Errorf("dialog redraw count = %d, want 1", dialogRedraw.n)
	}
	if bgRedraw.n != 0 {
		t.Errorf("background redrew under a blocking dialog")
	}

	dialog.Close()
	m.Redraw()

	if bgRedraw.n != 1 {
		t.Errorf("background redraw after dialog close = %d, want 1", bgRedraw.n)
	}
	// The vacated dialog rectangle is what was invalidated.
	if !m.inval.empty() {
		t.Error("invalidation must be cleared after redraw")
	}
}

func TestMarkResizeInitializesBeforeFirstDraw(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()

	var sequence []string
	h.OnResize(func(h *Handle) {
		sequence = append(sequence, "resize")
		h.SetRegion(geom.Rect{X: 0, Y: 0, W: 40, H: 12})
	})
	h.OnRedraw(func(h *Handle) {
		sequence = append(sequence, "redraw")
		if h.Region().Empty() {
			t.Error("redraw callback ran with a degenerate region")
		}
	})
	h.MarkResize()

	m.Redraw()

	if len(sequence) != 2 || sequence[0] != "resize" || sequence[1] != "redraw" {
		t.Errorf("sequence = %v, want [resize redraw]", sequence)
	}
}

func TestZeroSizeRegionDisablesDrawing(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()
	var c counter
	h.OnRedraw(c.redraw())

	m.Redraw()
	m.Invalidate(geom.Rect{X: 0, Y: 0, W: 80, H: 24}, false)
	m.RedrawInvalidated()

	if c.n != 0 {
		t.Errorf("zero-size surface redraw count = %d, want 0", c.n)
	}
}

func TestEmptyStackDispatchIsIdle(t *testing.T) {
	m := NewManager()

	m.Redraw()
	m.RedrawInvalidated()
	m.ScreenResized()

	if m.Depth() != 0 {
		t.Error("stack should remain empty")
	}
}

func TestResetClearsCallbacksAndInvalidates(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()
	var c counter
	old := geom.Rect{X: 3, Y: 3, W: 10, H: 4}
	h.SetRegion(old)
	h.OnRedraw(c.redraw())
	m.Redraw()
	c.n = 0

	h.Reset()

	if !h.Region().Empty() {
		t.Error("region should be zero-size after reset")
	}
	if !m.inval.covers(old) {
		t.Error("reset must invalidate the previously occupied region")
	}
	m.RedrawInvalidated()
	if c.n != 0 {
		t.Error("reset surface must not be drawn")
	}
}

func TestInvalidateWithoutGeometryChange(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()
	var c counter
	h.SetRegion(geom.Rect{X: 0, Y: 0, W: 10, H: 5})
	h.OnRedraw(c.redraw())
	m.Redraw()
	c.n = 0

	h.Invalidate()
	m.RedrawInvalidated()

	if c.n != 1 {
		t.Errorf("redraw count after content invalidation = %d, want 1", c.n)
	}
	if got := h.Region(); got != (geom.Rect{X: 0, Y: 0, W: 10, H: 5}) {
		t.Errorf("Invalidate changed geometry: %v", got)
	}
}

func TestDispatchReentryViolates(t *testing.T) {
	var got error
	m := NewManager(WithViolationHandler(func(err error) { got = err }))
	h := New(m)
	defer h.Close()
	h.SetRegion(geom.Rect{W: 10, H: 5})
	h.OnRedraw(func(h *Handle) {
		m := h.m
		m.Redraw()
	})

	m.Redraw()

	var dre *DispatchReentryError
	if !errors.As(got, &dre) {
		t.Fatalf("violation = %v, want *DispatchReentryError", got)
	}
}

func TestCallbackStackMutationViolates(t *testing.T) {
	var got error
	m := NewManager(WithViolationHandler(func(err error) { got = err }))
	h := New(m)
	defer h.Close()
	h.SetRegion(geom.Rect{W: 10, H: 5})
	h.OnRedraw(func(h *Handle) {
		New(h.m)
	})

	m.Redraw()

	var cme *CallbackMutationError
	if !errors.As(got, &cme) {
		t.Fatalf("violation = %v, want *CallbackMutationError", got)
	}
	if cme.Op != "push" {
		t.Errorf("op = %q, want push", cme.Op)
	}
	if m.Depth() != 1 {
		t.Errorf("depth = %d, the rejected push must not land", m.Depth())
	}
}

func TestCallbackCloseViolates(t *testing.T) {
	var got error
	m := NewManager(WithViolationHandler(func(err error) { got = err }))
	h := New(m)
	defer h.Close()
	h.SetRegion(geom.Rect{W: 10, H: 5})
	h.OnRedraw(func(h *Handle) {
		h.Close()
	})

	m.Redraw()

	var cme *CallbackMutationError
	if !errors.As(got, &cme) {
		t.Fatalf("violation = %v, want *CallbackMutationError", got)
	}
	if cme.Op != "pop" {
		t.Errorf("op = %q, want pop", cme.Op)
	}
	if m.Depth() != 1 {
		t.Errorf("depth = %d, the rejected pop must not land", m.Depth())
	}
}

func TestNestedBlockersReenableInOrder(t *testing.T) {
	m := NewManager()
	bg := New(m)
	defer bg.Close()
	var bgRedraw counter
	bg.SetRegion(geom.Rect{X: 0, Y: 0, W: 80, H: 24})
	bg.OnRedraw(bgRedraw.redraw())

	outer := NewBlocking(m)
	var outerRedraw counter
	outer.SetRegion(geom.Rect{X: 5, Y: 5, W: 40, H: 12})
	outer.OnRedraw(outerRedraw.redraw())

	inner := NewBlocking(m)
	inner.SetRegion(geom.Rect{X: 10, Y: 8, W: 20, H: 6})

	m.Redraw()
	bgRedraw.n, outerRedraw.n = 0, 0

	// Popping the inner blocker re-enables the outer one but not the
	// background, which is still behind the outer blocker.
	inner.Close()
	m.Redraw()

	if outerRedraw.n != 1 {
		t.Errorf("outer redraw after inner close = %d, want 1", outerRedraw.n)
	}
	if bgRedraw.n != 0 {
		t.Errorf("background redrew while still blocked")
	}

	outer.Close()
	m.Redraw()
	if bgRedraw.n != 1 {
		t.Errorf("background redraw after outer close = %d, want 1", bgRedraw.n)
	}
}

func TestPositionFromWindow(t *testing.T) {
	m := NewManager()
	h := New(m)
	defer h.Close()

	h.PositionFromWindow(stubWindow{r: geom.Rect{X: 2, Y: 3, W: 10, H: 4}})
	if got := h.Region(); got != (geom.Rect{X: 2, Y: 3, W: 10, H: 4}) {
		t.Errorf("region = %v", got)
	}

	h.PositionFromWindow(nil)
	if !h.Region().Empty() {
		t.Error("nil window must yield a zero-size region")
	}
}

type stubWindow struct{ r geom.Rect }

func (s stubWindow) Bounds() geom.Rect { return s.r }
