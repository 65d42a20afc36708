package surface

import (
	"github.com/google/uuid"

	"github.com/dshills/termstack/geom"
	"github.com/dshills/termstack/logging"
)

// Manager owns one surface stack and its accumulated invalidated region. The
// rest of the application reaches the dispatch machinery only through the
// Manager: Invalidate, Redraw, RedrawInvalidated and ScreenResized.
//
// The model is single-threaded and cooperative: every operation runs to
// completion before returning, and there is no locking because there is no
// concurrent access. An empty stack is the idle state.
type Manager struct {
	stack stack
	inval *tracker
	log   *logging.Logger

	// violation receives contract-violation errors. The default handler
	// panics; applications may install one that surfaces the error (for
	// example as a blocking message pane) before shutting down.
	violation func(error)

	// dispatching guards against nested dispatch passes and against stack
	// mutation from inside callbacks.
	dispatching bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger. The default discards all output.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithViolationHandler replaces the default panic on contract violations.
// The handler must not return to normal dispatch flow expecting consistent
// visuals; violations indicate a logic bug in the caller.
func WithViolationHandler(fn func(error)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.violation = fn
		}
	}
}

// WithMaxInvalidRects bounds the invalidation set size before the merge pass
// collapses it. Values below one are clamped.
func WithMaxInvalidRects(n int) Option {
	return func(m *Manager) {
		m.inval = newTracker(n)
	}
}

// NewManager creates an empty surface manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		inval: newTracker(defaultMaxRects),
		log:   logging.Null,
	}
	m.violation = func(err error) {
		panic(err)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Top returns the most recently created live handle, or nil when the stack
// is empty.
func (m *Manager) Top() *Handle {
	return m.stack.top()
}

// Depth returns the number of live handles on the stack.
func (m *Manager) Depth() int {
	return m.stack.depth()
}

// Invalidate unions rect into the accumulated invalidated region. When
// reenableBelow is true the blocked state caused by a closing blocks-below
// surface is recomputed, re-enabling drawing for the surfaces beneath it.
// Not normally called directly: SetRegion, Invalidate (on a handle) and
// Close feed it automatically.
func (m *Manager) Invalidate(rect geom.Rect, reenableBelow bool) {
	m.inval.add(rect)
	if reenableBelow {
		m.recomputeDisabled()
	}
}

// Redraw invalidates the top surface's full region, forcing the active
// surface to repaint, then redraws every invalidated surface. The input loop
// is expected to call Redraw before blocking for input; repeated calls with
// no state changes between them are idempotent.
func (m *Manager) Redraw() {
	if m.dispatching {
		m.violation(&DispatchReentryError{Op: "Redraw"})
		return
	}
	if top := m.stack.top(); top != nil {
		m.inval.add(top.region)
	}
	m.RedrawInvalidated()
}

// RedrawInvalidated redraws every surface intersecting the accumulated
// invalidated region without forcing the top surface, then clears the
// accumulated region. Pending resizes are resolved first so occlusion math
// sees current regions.
func (m *Manager) RedrawInvalidated() {
	if m.dispatching {
		m.violation(&DispatchReentryError{Op: "RedrawInvalidated"})
		return
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	m.resolveDeferredResizes()
	m.markInvalidated()

	for _, h := range m.stack.handles {
		if h.invalidated {
			h.invalidated = false
			if h.redrawFn != nil && !h.region.Empty() {
				m.log.Debug("redraw surface %s %v", h.id, h.region)
				h.redrawFn(h)
			}
		}
	}

	m.inval.clear()
}

// ScreenResized propagates a terminal resize: every live surface is marked
// resize-pending, resize callbacks run bottom-to-top for every non-blocked
// surface, and the pass falls through to a full redraw. Surfaces hidden
// behind a blocks-below handle keep their pending mark; it is consumed by
// the first redraw pass after they are re-enabled.
func (m *Manager) ScreenResized() {
	if m.dispatching {
		m.violation(&DispatchReentryError{Op: "ScreenResized"})
		return
	}
	m.log.Debug("screen resized, %d surfaces", m.stack.depth())

	for _, h := range m.stack.handles {
		h.deferredResize = true
	}

	m.dispatching = true
	for _, h := range m.stack.handles {
		if h.disabled {
			continue
		}
		if h.resizeFn != nil {
			h.resizeFn(h)
		}
		h.deferredResize = false
	}

	// A resize invalidates the entire visual state: every enabled surface
	// repaints on the redraw below, ignoring occlusion.
	for _, h := range m.stack.handles {
		if !h.disabled {
			h.invalidated = true
			m.inval.add(h.region)
		}
	}
	m.dispatching = false

	m.Redraw()
}

// newHandle constructs a handle and pushes it onto the stack.
func (m *Manager) newHandle(blocksBelow bool) *Handle {
	h := &Handle{
		id:          uuid.NewString(),
		m:           m,
		blocksBelow: blocksBelow,
	}
	if m.dispatching {
		m.violation(&CallbackMutationError{Op: "push", ID: h.id})
		h.closed = true
		return h
	}
	m.stack.push(h)
	if blocksBelow {
		m.recomputeDisabled()
	}
	m.log.Debug("surface %s pushed, depth %d, blocks_below %v", h.id, m.stack.depth(), blocksBelow)
	return h
}

// removeHandle pops a handle, invalidates its vacated region and, for a
// blocking handle, re-enables the surfaces below.
func (m *Manager) removeHandle(h *Handle) {
	if m.dispatching {
		m.violation(&CallbackMutationError{Op: "pop", ID: h.id})
		return
	}
	if err := m.stack.pop(h); err != nil {
		m.log.Error("stack discipline violation: %v", err)
		m.violation(err)
		return
	}
	h.closed = true
	m.Invalidate(h.region, h.blocksBelow)
	m.log.Debug("surface %s popped, depth %d", h.id, m.stack.depth())
}

// recomputeDisabled rederives the blocked state of every handle from the
// current stack contents: a handle is disabled when any blocks-below handle
// sits strictly above it.
func (m *Manager) recomputeDisabled() {
	blocked := false
	for i := len(m.stack.handles) - 1; i >= 0; i-- {
		h := m.stack.handles[i]
		h.disabled = blocked
		if h.blocksBelow {
			blocked = true
		}
	}
}

// resolveDeferredResizes runs the resize callback of every enabled handle
// whose resize is pending, bottom to top. Every surface must have a valid,
// current region before any redraw callback runs.
func (m *Manager) resolveDeferredResizes() {
	for _, h := range m.stack.handles {
		if h.disabled || !h.deferredResize {
			continue
		}
		if h.resizeFn != nil {
			m.log.Debug("deferred resize of surface %s", h.id)
			h.resizeFn(h)
		}
		h.deferredResize = false
	}
}

// markInvalidated decides, per enabled surface, whether it must be redrawn.
// A surface needs redrawing when some part of the accumulated invalidated
// region intersects its region and that part is not fully contained by the
// region of a surface above it in the stack. Occlusion is containment only:
// a surface whose dirty area is partially covered from above redraws its
// whole region rather than clipping.
func (m *Manager) markInvalidated() {
	for i, h := range m.stack.handles {
		if h.invalidated {
			continue
		}
		if h.disabled || h.region.Empty() {
			continue
		}
		for _, d := range m.inval.rects() {
			sub := d.Intersect(h.region)
			if sub.Empty() {
				continue
			}
			if !m.occluded(i, sub) {
				h.invalidated = true
				break
			}
		}
	}
}

// occluded returns true if the given sub-rectangle is fully contained by the
// region of a surface above index i. All surfaces are opaque; transparency
// is not supported.
func (m *Manager) occluded(i int, sub geom.Rect) bool {
	for j := i + 1; j < len(m.stack.handles); j++ {
		upper := m.stack.handles[j]
		if upper.disabled {
			continue
		}
		if upper.region.Contains(sub) {
			return true
		}
	}
	return false
}
