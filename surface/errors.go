package surface

import "fmt"

// StackDisciplineError reports a surface being closed out of LIFO order.
// Surfaces must be destroyed in the reverse order of their creation; closing
// a surface that is not the top of the stack is a programming error.
type StackDisciplineError struct {
	// ID is the surface that was closed.
	ID string
	// TopID is the surface actually on top, empty if the stack is empty.
	TopID string
}

// Error implements the error interface.
func (e *StackDisciplineError) Error() string {
	if e.TopID == "" {
		return fmt.Sprintf("surface %s closed while not on the stack", e.ID)
	}
	return fmt.Sprintf("surface %s closed out of order: top of stack is %s", e.ID, e.TopID)
}

// DispatchReentryError reports Redraw, RedrawInvalidated or ScreenResized
// being called while a dispatch pass is already running, typically from
// inside a redraw or resize callback.
type DispatchReentryError struct {
	// Op is the entry point that was re-entered.
	Op string
}

// Error implements the error interface.
func (e *DispatchReentryError) Error() string {
	return fmt.Sprintf("%s called during an active dispatch pass", e.Op)
}

// CallbackMutationError reports the stack being mutated from inside a redraw
// or resize callback. Callbacks must not create or close surfaces.
type CallbackMutationError struct {
	// Op is the mutation that was attempted ("push" or "pop").
	Op string
	// ID is the surface involved.
	ID string
}

// Error implements the error interface.
func (e *CallbackMutationError) Error() string {
	return fmt.Sprintf("surface %s: %s attempted during an active dispatch pass", e.ID, e.Op)
}
