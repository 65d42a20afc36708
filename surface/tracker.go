package surface

import "github.com/dshills/termstack/geom"

// defaultMaxRects bounds the invalidation set before the consistency pass
// collapses it. Merging is an optimization only; dispatch correctness never
// depends on it.
const defaultMaxRects = 16

// tracker accumulates the invalidated screen region between dispatch passes.
// It holds a small set of rectangles and merges overlapping or adjacent
// members so the set stays bounded. Merged rectangles are bounding unions,
// which may cover cells outside the original pair; over-invalidation only
// costs extra redraw work, never correctness.
type tracker struct {
	regions  []geom.Rect
	maxRects int
}

// newTracker creates a tracker with the given set-size bound.
func newTracker(maxRects int) *tracker {
	if maxRects < 1 {
		maxRects = 1
	}
	return &tracker{
		regions:  make([]geom.Rect, 0, maxRects),
		maxRects: maxRects,
	}
}

// add unions a rectangle into the accumulated region. Empty rectangles are
// ignored.
func (t *tracker) add(r geom.Rect) {
	if r.Empty() {
		return
	}

	for i := range t.regions {
		if t.regions[i].Contains(r) {
			return
		}
		if t.regions[i].Overlaps(r) || t.regions[i].Adjacent(r) {
			t.regions[i] = t.regions[i].Union(r)
			t.coalesce()
			return
		}
	}

	t.regions = append(t.regions, r)
	if len(t.regions) > t.maxRects {
		t.coalesce()
	}
}

// coalesce is the consistency and optimization pass: it merges overlapping or
// adjacent rectangles pairwise and, if the set is still over the bound,
// collapses everything into one bounding rectangle.
func (t *tracker) coalesce() {
	changed := true
	for changed {
		changed = false
		for i := 0; i < len(t.regions) && !changed; i++ {
			for j := i + 1; j < len(t.regions); j++ {
				if t.regions[i].Overlaps(t.regions[j]) || t.regions[i].Adjacent(t.regions[j]) {
					t.regions[i] = t.regions[i].Union(t.regions[j])
					t.regions = append(t.regions[:j], t.regions[j+1:]...)
					changed = true
					break
				}
			}
		}
	}

	if len(t.regions) > t.maxRects {
		bound := geom.Rect{}
		for _, r := range t.regions {
			bound = bound.Union(r)
		}
		t.regions = append(t.regions[:0], bound)
	}
}

// intersects returns true if any accumulated rectangle overlaps r.
func (t *tracker) intersects(r geom.Rect) bool {
	for _, d := range t.regions {
		if d.Overlaps(r) {
			return true
		}
	}
	return false
}

// covers returns true if r lies entirely within one accumulated rectangle.
func (t *tracker) covers(r geom.Rect) bool {
	for _, d := range t.regions {
		if d.Contains(r) {
			return true
		}
	}
	return false
}

// rects returns the accumulated rectangles. The returned slice is owned by
// the tracker and valid until the next mutation.
func (t *tracker) rects() []geom.Rect {
	return t.regions
}

// clear empties the accumulated region.
func (t *tracker) clear() {
	t.regions = t.regions[:0]
}

// empty returns true if nothing is invalidated.
func (t *tracker) empty() bool {
	return len(t.regions) == 0
}
