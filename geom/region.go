package geom

import "math"

// Region is a union of axis-aligned rectangles, the integer-region
// algebra the spec calls "Pixman-style". The internal representation
// keeps possibly-overlapping rectangles rather than pixman's
// minimal non-overlapping banded form: every operation below is
// still exactly correct with respect to set membership (Contains,
// Intersect, Bounds), which is all the scene graph and damage
// pipeline ever query; only the rectangle *count* is not minimal.
// Surfaces and views carry at most a handful of damage/opaque/input
// rectangles at a time, so the simpler representation costs nothing
// observable while avoiding a hand-rolled banding/coalescing
// algorithm that nothing in the retrieval pack demonstrates.
type Region struct {
	rects []Rect
}

// NewRegion returns the empty region.
func NewRegion() Region { return Region{} }

// RegionFromRect returns a region containing exactly rect (or empty,
// if rect is empty).
func RegionFromRect(rect Rect) Region {
	var r Region
	r.Union(rect)
	return r
}

// Infinite returns a region that Contains reports true for every
// point; used as the surface input region default ("everything").
func Infinite() Region {
	const big = 1 << 29
	return RegionFromRect(RectXYWH(-big, -big, 2*big, 2*big))
}

// IsEmpty reports whether the region contains no points.
func (r Region) IsEmpty() bool { return len(r.rects) == 0 }

// Rects returns the region's constituent rectangles. The slice must
// not be mutated by the caller.
func (r Region) Rects() []Rect { return r.rects }

// Bounds returns the smallest rectangle containing the whole region.
func (r Region) Bounds() Rect {
	var b Rect
	for _, rect := range r.rects {
		b = b.Union(rect)
	}
	return b
}

// Contains reports whether (x,y) lies in the region.
func (r Region) Contains(x, y int32) bool {
	for _, rect := range r.rects {
		if rect.Contains(x, y) {
			return true
		}
	}
	return false
}

// Union adds rect to the region in place and returns the receiver for
// chaining, matching Surface.damage's "unions into pending region"
// wording.
func (r *Region) Union(rect Rect) *Region {
	if rect.Empty() {
		return r
	}
	r.rects = append(r.rects, rect)
	r.coalesce()
	return r
}

// UnionRegion folds every rectangle of other into r.
func (r *Region) UnionRegion(other Region) *Region {
	for _, rect := range other.rects {
		r.Union(rect)
	}
	return r
}

// Subtract removes rect from the region in place, splitting any
// overlapping rectangle into the (up to four) fragments outside it.
func (r *Region) Subtract(rect Rect) *Region {
	if rect.Empty() || len(r.rects) == 0 {
		return r
	}
	var out []Rect
	for _, existing := range r.rects {
		out = append(out, subtractRect(existing, rect)...)
	}
	r.rects = out
	return r
}

// SubtractRegion removes every rectangle of other from r.
func (r *Region) SubtractRegion(other Region) *Region {
	for _, rect := range other.rects {
		r.Subtract(rect)
	}
	return r
}

// Intersect returns a new region containing the part of r inside
// rect.
func (r Region) Intersect(rect Rect) Region {
	var out Region
	for _, existing := range r.rects {
		c := existing.Intersect(rect)
		if !c.Empty() {
			out.rects = append(out.rects, c)
		}
	}
	return out
}

// IntersectRegion returns the intersection of r and other.
func (r Region) IntersectRegion(other Region) Region {
	var out Region
	for _, a := range r.rects {
		for _, b := range other.rects {
			c := a.Intersect(b)
			if !c.Empty() {
				out.rects = append(out.rects, c)
			}
		}
	}
	return out
}

// Translate returns r shifted by (dx, dy).
func (r Region) Translate(dx, dy int32) Region {
	var out Region
	out.rects = make([]Rect, len(r.rects))
	for i, rect := range r.rects {
		out.rects[i] = rect.Translate(dx, dy)
	}
	return out
}

// Transform rasterises each rectangle's four corners through m and
// unions their axis-aligned bounding boxes, exactly as specified in
// §4.2: region transformation is a bounding-box operation, not an
// exact polygon transform. Corner coordinates within 1/1000 of an
// integer are snapped to it, so translations and quarter-turn
// rotations keep a rectangle's exact size.
func (r Region) Transform(m Affine2D) Region {
	var out Region
	for _, rect := range r.rects {
		corners := [4]FPoint{
			{float32(rect.MinX()), float32(rect.MinY())},
			{float32(rect.MaxX()), float32(rect.MinY())},
			{float32(rect.MaxX()), float32(rect.MaxY())},
			{float32(rect.MinX()), float32(rect.MaxY())},
		}
		t := m.Transform(corners[0])
		minX, maxX := float64(t.X), float64(t.X)
		minY, maxY := float64(t.Y), float64(t.Y)
		for _, c := range corners[1:] {
			t = m.Transform(c)
			minX, maxX = math.Min(minX, float64(t.X)), math.Max(maxX, float64(t.X))
			minY, maxY = math.Min(minY, float64(t.Y)), math.Max(maxY, float64(t.Y))
		}
		x0, y0 := int32(math.Floor(minX+1e-3)), int32(math.Floor(minY+1e-3))
		x1, y1 := int32(math.Ceil(maxX-1e-3)), int32(math.Ceil(maxY-1e-3))
		out.rects = append(out.rects, Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
	}
	return out
}

// Clone returns an independent copy of r; regions are value types
// assigned by copy (see Surface's "regions are copied on assignment;
// no aliasing" invariant), but the backing rectangle slice must be
// cloned explicitly to honour that.
func (r Region) Clone() Region {
	out := Region{rects: make([]Rect, len(r.rects))}
	copy(out.rects, r.rects)
	return out
}

// coalesce drops empty/duplicate rectangles and absorbs any rectangle
// fully contained in another. It is a cheap pass, not a full
// pixman-style banding merge (see the type doc) — good enough to keep
// the common case (a single repeated full-surface damage rect) from
// growing the slice unboundedly.
func (r *Region) coalesce() {
	out := r.rects[:0]
	for _, rect := range r.rects {
		if rect.Empty() {
			continue
		}
		absorbed := false
		for i, kept := range out {
			if kept.Union(rect) == kept {
				absorbed = true
				break
			}
			if kept.Union(rect) == rect {
				out[i] = rect
				absorbed = true
				break
			}
		}
		if !absorbed {
			out = append(out, rect)
		}
	}
	r.rects = out
}

// subtractRect returns the pieces of a lying outside b.
func subtractRect(a, b Rect) []Rect {
	c := a.Intersect(b)
	if c.Empty() {
		return []Rect{a}
	}
	var out []Rect
	// Top strip.
	if c.MinY() > a.MinY() {
		out = append(out, RectXYWH(a.MinX(), a.MinY(), a.W, c.MinY()-a.MinY()))
	}
	// Bottom strip.
	if c.MaxY() < a.MaxY() {
		out = append(out, RectXYWH(a.MinX(), c.MaxY(), a.W, a.MaxY()-c.MaxY()))
	}
	// Left strip (within the vertical span of c).
	if c.MinX() > a.MinX() {
		out = append(out, RectXYWH(a.MinX(), c.MinY(), c.MinX()-a.MinX(), c.H))
	}
	// Right strip (within the vertical span of c).
	if c.MaxX() < a.MaxX() {
		out = append(out, RectXYWH(c.MaxX(), c.MinY(), a.MaxX()-c.MaxX(), c.H))
	}
	return out
}
