// Package geom implements the integer region algebra and the
// flag-tagged affine transform used throughout the scene graph: a
// pixman-style union-of-rectangles region type, and a 2D affine
// matrix whose dirty-flag tag lets callers short-circuit transforms
// (identity skips entirely; translate-only picks nearest-neighbour
// sampling and a translate-only scissor).
//
// The matrix API (Offset/Scale/Rotate/Shear/Mul/Invert/Transform,
// chained left-to-right) is grounded on gioui.org/f32's Affine2D, the
// one piece of real geometry math in the retrieval pack; Rect/Region
// have no equivalent in the pack and are written fresh against
// image.Rectangle's Min/Max convention (stdlib — no region-algebra
// library appears in any example's go.mod).
package geom

// Point is an integer 2D point in surface- or output-local space.
type Point struct {
	X, Y int32
}

// FPoint is a floating point 2D point, used wherever sub-pixel
// precision matters (pointer position, transform targets).
type FPoint struct {
	X, Y float32
}

func (p FPoint) Add(q FPoint) FPoint { return FPoint{p.X + q.X, p.Y + q.Y} }
func (p FPoint) Sub(q FPoint) FPoint { return FPoint{p.X - q.X, p.Y - q.Y} }
