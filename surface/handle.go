// Package surface implements the stack-based manager for terminal UI
// surfaces: surface registration, dirty-region accumulation, occlusion-aware
// redraw dispatch, and screen-resize propagation.
//
// Usage:
//
//	m := surface.NewManager()
//	h := surface.New(m)
//	defer h.Close()
//	h.OnResize(func(h *surface.Handle) {
//		win = backend.NewWindow(b, computeRegion())
//		h.PositionFromWindow(win)
//	})
//	h.MarkResize()
//	h.OnRedraw(func(h *surface.Handle) {
//		win.Clear()
//		win.SetString(0, 0, "hello", style)
//	})
//	for {
//		m.Redraw()
//		b.Show()
//		switch ev := b.PollEvent(); ev.Type {
//		case backend.EventResize:
//			m.ScreenResized()
//		// ...
//		}
//	}
//
// Redraw and resize callbacks must not create or close surfaces, nor call
// Redraw, RedrawInvalidated or ScreenResized; the manager detects these and
// routes them to its violation handler.
package surface

import "github.com/dshills/termstack/geom"

// RedrawFunc is called during a redraw pass. It should draw only within
// the handle's region and finish by flushing to the off-screen buffer.
type RedrawFunc func(*Handle)

// ResizeFunc is called during a resize pass. It should recompute the
// handle's region, by calling SetRegion or PositionFromWindow, before
// returning.
type ResizeFunc func(*Handle)

// Positioner supplies the screen region of an opaque backing object, such as
// a backend window. The manager only consumes the resulting rectangle.
type Positioner interface {
	Bounds() geom.Rect
}

// Handle is the registration record of one live UI surface. It is created on
// the top of its manager's stack and must be closed in reverse creation
// order (strict LIFO).
type Handle struct {
	id string
	m  *Manager

	region      geom.Rect
	redrawFn    RedrawFunc
	resizeFn    ResizeFunc
	blocksBelow bool

	// Dispatch bookkeeping, owned by the manager's passes. Distinct from the
	// externally visible geometry and callback configuration above.
	invalidated    bool
	deferredResize bool
	disabled       bool
	closed         bool
}

// New creates a surface handle and pushes it onto the manager's stack. The
// caller owns the handle and must Close it when its scope ends:
//
//	h := surface.New(m)
//	defer h.Close()
func New(m *Manager) *Handle {
	return m.newHandle(false)
}

// NewBlocking creates a handle that blocks every surface below it from being
// redrawn or resized until it is closed. Used for transient overlays such as
// diagnostic messages.
func NewBlocking(m *Manager) *Handle {
	return m.newHandle(true)
}

// ID returns the handle's unique identifier, used in logs and diagnostics.
func (h *Handle) ID() string {
	return h.id
}

// Region returns the screen rectangle the surface is entitled to draw within.
func (h *Handle) Region() geom.Rect {
	return h.region
}

// BlocksBelow returns true if this handle blocks the surfaces below it.
func (h *Handle) BlocksBelow() bool {
	return h.blocksBelow
}

// SetRegion replaces the handle's region. Both the vacated old region and the
// new region are invalidated, so the old area is cleared and the new area is
// scheduled for draw. A zero-size region is legal and disables drawing for
// this surface until it is repositioned.
func (h *Handle) SetRegion(r geom.Rect) {
	r = geom.NewRect(r.X, r.Y, r.W, r.H)
	old := h.region
	h.region = r
	h.m.inval.add(old)
	h.m.inval.add(r)
	h.m.log.Debug("surface %s region %v -> %v", h.id, old, r)
}

// PositionFromWindow sets the region to the bounds of the given window. The
// window must contain all the space the redraw callback draws to. A nil
// window sets a zero-size region.
func (h *Handle) PositionFromWindow(win Positioner) {
	if win == nil {
		h.SetRegion(geom.Rect{})
		return
	}
	h.SetRegion(win.Bounds())
}

// OnRedraw installs or replaces the redraw callback. Callbacks are invoked
// only during a dispatch pass.
func (h *Handle) OnRedraw(fn RedrawFunc) {
	h.redrawFn = fn
}

// OnResize installs or replaces the resize callback. In most cases
// MarkResize should be called alongside, so the surface is initialized by
// the resize callback before it is first drawn.
func (h *Handle) OnResize(fn ResizeFunc) {
	h.resizeFn = fn
}

// MarkResize marks the handle for resizing before it is next drawn. Call it
// after OnResize to initialize the surface, or to request reinitialization
// when a value the resize callback depends on has changed. Nothing is
// invoked synchronously; the next resize or redraw pass consumes the mark.
func (h *Handle) MarkResize() {
	h.deferredResize = true
}

// Invalidate schedules the surface's current region for redraw without
// changing geometry. Use it when the surface's content changed but its
// position did not. Surfaces above may also redraw where they overlap.
func (h *Handle) Invalidate() {
	h.m.inval.add(h.region)
}

// Reset clears the region to zero-size, removes both callbacks, and
// invalidates the area the handle previously occupied.
func (h *Handle) Reset() {
	old := h.region
	h.region = geom.Rect{}
	h.redrawFn = nil
	h.resizeFn = nil
	h.m.inval.add(old)
}

// Close removes the handle from the stack and invalidates the region it
// occupied. The handle must be the top of the stack; closing a non-top
// handle is a contract violation routed to the manager's violation handler.
// Closing an already-closed handle is a no-op.
func (h *Handle) Close() {
	if h.closed {
		return
	}
	h.m.removeHandle(h)
}
