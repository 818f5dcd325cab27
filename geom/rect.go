package geom

// Rect is an axis-aligned integer rectangle containing the points
// (x,y) with Min.X <= x < Max.X and Min.Y <= y < Max.Y, mirroring the
// standard library's image.Rectangle convention.
type Rect struct {
	X, Y, W, H int32
}

// RectXYWH builds a Rect from its origin and size.
func RectXYWH(x, y, w, h int32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) MinX() int32 { return r.X }
func (r Rect) MinY() int32 { return r.Y }
func (r Rect) MaxX() int32 { return r.X + r.W }
func (r Rect) MaxY() int32 { return r.Y + r.H }

// Empty reports whether r contains no points.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether (x,y) lies within r.
func (r Rect) Contains(x, y int32) bool {
	return x >= r.MinX() && x < r.MaxX() && y >= r.MinY() && y < r.MaxY()
}

// Intersect returns the largest rectangle contained in both r and s.
// The result is empty (W or H <= 0) if they don't overlap.
func (r Rect) Intersect(s Rect) Rect {
	minX, minY := max32(r.MinX(), s.MinX()), max32(r.MinY(), s.MinY())
	maxX, maxY := min32(r.MaxX(), s.MaxX()), min32(r.MaxY(), s.MaxY())
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Union returns the smallest rectangle containing both r and s. If
// either is empty, the other is returned unchanged (matching the
// "skip the empty one" behaviour a region implementation needs when
// folding in bounding boxes).
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	minX, minY := min32(r.MinX(), s.MinX()), min32(r.MinY(), s.MinY())
	maxX, maxY := max32(r.MaxX(), s.MaxX()), max32(r.MaxY(), s.MaxY())
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Intersects reports whether r and s share any point.
func (r Rect) Intersects(s Rect) bool {
	return !r.Intersect(s).Empty()
}

// Translate returns r shifted by (dx,dy).
func (r Rect) Translate(dx, dy int32) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
