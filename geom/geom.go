// Package geom provides integer screen-cell geometry for surface positioning
// and invalidation math. All coordinates are console cells with the origin at
// the top-left of the screen.
package geom

import "fmt"

// Point is a position in screen cells.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle: top-left corner plus size.
// A zero-size rectangle is valid and means "not yet positioned".
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle, clamping negative dimensions to zero.
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty returns true if the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int {
	return r.X + r.W
}

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int {
	return r.Y + r.H
}

// Area returns the number of cells covered.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// ContainsPoint returns true if the point lies inside the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Contains returns true if other lies entirely within r.
// An empty rectangle contains nothing and is contained by nothing.
func (r Rect) Contains(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX() && other.MaxY() <= r.MaxY()
}

// Overlaps returns true if the two rectangles share at least one cell.
func (r Rect) Overlaps(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.MaxX() && other.X < r.MaxX() &&
		r.Y < other.MaxY() && other.Y < r.MaxY()
}

// Intersect returns the overlapping portion of the two rectangles,
// or the zero rectangle if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Overlaps(other) {
		return Rect{}
	}
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	return Rect{
		X: x,
		Y: y,
		W: min(r.MaxX(), other.MaxX()) - x,
		H: min(r.MaxY(), other.MaxY()) - y,
	}
}

// Union returns the bounding rectangle of the two rectangles.
// The union with an empty rectangle is the other rectangle unchanged.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x := min(r.X, other.X)
	y := min(r.Y, other.Y)
	return Rect{
		X: x,
		Y: y,
		W: max(r.MaxX(), other.MaxX()) - x,
		H: max(r.MaxY(), other.MaxY()) - y,
	}
}

// Adjacent returns true if the rectangles share a full edge, so that their
// union covers exactly the cells of both. Used by the invalidation merge pass.
func (r Rect) Adjacent(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	// Vertically stacked with matching horizontal extent.
	if r.X == other.X && r.W == other.W {
		if r.MaxY() == other.Y || other.MaxY() == r.Y {
			return true
		}
	}
	// Side by side with matching vertical extent.
	if r.Y == other.Y && r.H == other.H {
		if r.MaxX() == other.X || other.MaxX() == r.X {
			return true
		}
	}
	return false
}

// Equals returns true if the two rectangles are identical.
func (r Rect) Equals(other Rect) bool {
	return r == other
}

// String returns a compact representation for logs and test failures.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
