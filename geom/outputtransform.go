package geom

// OutputTransform is one of the eight wl_output transforms a surface
// or output may declare, with the exact pixel mapping of the Wayland
// protocol (§6).
type OutputTransform int

const (
	TransformNormal OutputTransform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Valid reports whether t is one of the eight defined transforms.
func (t OutputTransform) Valid() bool {
	return t >= TransformNormal && t <= TransformFlipped270
}

// Swapped reports whether the transform swaps width and height (the
// 90/270 rotations, flipped or not).
func (t OutputTransform) Swapped() bool {
	switch t {
	case Transform90, Transform270, TransformFlipped90, TransformFlipped270:
		return true
	default:
		return false
	}
}

// ApplySize maps a buffer's raw (w,h) to the surface-local size that
// results from applying t, used by Surface.commit step 3 ("recompute
// surface size from buffer size, transform, and scale").
func (t OutputTransform) ApplySize(w, h int32) (int32, int32) {
	if t.Swapped() {
		return h, w
	}
	return w, h
}

// Matrix returns the Affine2D that maps buffer-local coordinates
// (origin top-left, size bw x bh) through t into surface-local
// coordinates.
func (t OutputTransform) Matrix(bw, bh float32) Affine2D {
	m := Affine2D{}
	switch t {
	case TransformNormal:
		return m
	case Transform90:
		return m.Rotate(FPoint{}, 1.5707963267948966).Offset(Pt(bh, 0))
	case Transform180:
		return m.Rotate(FPoint{}, 3.141592653589793).Offset(Pt(bw, bh))
	case Transform270:
		return m.Rotate(FPoint{}, 4.71238898038469).Offset(Pt(0, bw))
	case TransformFlipped:
		return m.Scale(FPoint{}, Pt(-1, 1)).Offset(Pt(bw, 0))
	case TransformFlipped90:
		return m.Scale(FPoint{}, Pt(-1, 1)).Rotate(FPoint{}, 1.5707963267948966).Offset(Pt(bh, bw))
	case TransformFlipped180:
		return m.Scale(FPoint{}, Pt(-1, 1)).Rotate(FPoint{}, 3.141592653589793).Offset(Pt(0, bh))
	case TransformFlipped270:
		return m.Scale(FPoint{}, Pt(-1, 1)).Rotate(FPoint{}, 4.71238898038469)
	default:
		return m
	}
}
