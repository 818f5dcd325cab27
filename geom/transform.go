package geom

import "math"

// Flag classifies an Affine2D for the repaint pipeline's fast path:
// Identity transforms are skipped entirely, Translate-only ones pick
// nearest-neighbour sampling and a translate-only scissor rectangle
// instead of a full clip, per §4.2/§9.
type Flag uint8

const (
	FlagIdentity Flag = iota
	FlagTranslate
	FlagScale
	FlagRotate
	FlagComplex
)

func (f Flag) String() string {
	switch f {
	case FlagIdentity:
		return "identity"
	case FlagTranslate:
		return "translate"
	case FlagScale:
		return "scale"
	case FlagRotate:
		return "rotate"
	default:
		return "complex"
	}
}

// Affine2D is a 2D affine transform:
//
//	x' = A*x + B*y + E
//	y' = C*x + D*y + F
//
// The zero value is the identity transform. Methods compose
// left-to-right: q := Affine2D{}.Offset(o).Scale(c, s) means "apply
// the offset, then the scale" — Transform(p) == Scale(Offset(p)).
type Affine2D struct {
	a, b, c, d, e, f float32
	set              bool // false only for the zero value (identity)
}

// Pt is a convenience constructor matching f32.Pt in the teacher
// package this type is modelled on.
func Pt(x, y float32) FPoint { return FPoint{X: x, Y: y} }

func identityCoeffs() Affine2D {
	return Affine2D{a: 1, d: 1, set: true}
}

// Offset returns the receiver composed with a translation by o.
func (p Affine2D) Offset(o FPoint) Affine2D {
	return Affine2D{a: 1, b: 0, c: 0, d: 1, e: o.X, f: o.Y, set: true}.mul(p)
}

// Scale returns the receiver composed with a scale by factor around
// origin.
func (p Affine2D) Scale(origin FPoint, factor FPoint) Affine2D {
	m := Affine2D{
		a: factor.X, b: 0, c: 0, d: factor.Y,
		e: origin.X - factor.X*origin.X,
		f: origin.Y - factor.Y*origin.Y,
		set: true,
	}
	return m.mul(p)
}

// Rotate returns the receiver composed with a rotation by angle
// radians around origin.
func (p Affine2D) Rotate(origin FPoint, angle float32) Affine2D {
	s, c := float32(math.Sin(float64(angle))), float32(math.Cos(float64(angle)))
	m := Affine2D{
		a: c, b: -s, c: s, d: c,
		e: origin.X - c*origin.X + s*origin.Y,
		f: origin.Y - s*origin.X - c*origin.Y,
		set: true,
	}
	return m.mul(p)
}

// Shear returns the receiver composed with a shear by (ax, ay)
// radians around origin.
func (p Affine2D) Shear(origin FPoint, ax, ay float32) Affine2D {
	tx, ty := float32(math.Tan(float64(ax))), float32(math.Tan(float64(ay)))
	m := Affine2D{
		a: 1, b: tx, c: ty, d: 1,
		set: true,
	}
	m.e = origin.X - (m.a*origin.X + m.b*origin.Y)
	m.f = origin.Y - (m.c*origin.X + m.d*origin.Y)
	return m.mul(p)
}

// Mul returns the transform equivalent to applying q first, then the
// receiver: Mul(q).Transform(x) == p.Transform(q.Transform(x)).
func (p Affine2D) Mul(q Affine2D) Affine2D {
	return p.mul(q)
}

func (p Affine2D) mul(q Affine2D) Affine2D {
	if !p.set {
		return q
	}
	if !q.set {
		return p
	}
	return Affine2D{
		a: p.a*q.a + p.b*q.c,
		b: p.a*q.b + p.b*q.d,
		c: p.c*q.a + p.d*q.c,
		d: p.c*q.b + p.d*q.d,
		e: p.a*q.e + p.b*q.f + p.e,
		f: p.c*q.e + p.d*q.f + p.f,
		set: true,
	}
}

// Invert returns the inverse transform. The result is undefined if p
// is singular (the spec never constructs a non-invertible surface
// transform; callers that derive one from untrusted client input must
// guard separately).
func (p Affine2D) Invert() Affine2D {
	if !p.set {
		return p
	}
	det := p.a*p.d - p.b*p.c
	if det == 0 {
		return p
	}
	ia, ib, ic, id := p.d/det, -p.b/det, -p.c/det, p.a/det
	ie := -(ia*p.e + ib*p.f)
	iff := -(ic*p.e + id*p.f)
	return Affine2D{a: ia, b: ib, c: ic, d: id, e: ie, f: iff, set: true}
}

// Transform applies p to pt.
func (p Affine2D) Transform(pt FPoint) FPoint {
	if !p.set {
		return pt
	}
	return FPoint{
		X: p.a*pt.X + p.b*pt.Y + p.e,
		Y: p.c*pt.X + p.d*pt.Y + p.f,
	}
}

// Flag classifies the transform for the repaint fast path.
func (p Affine2D) Flag() Flag {
	if !p.set {
		return FlagIdentity
	}
	const eps = 1e-6
	near := func(x, y float32) bool {
		d := x - y
		return d < eps && d > -eps
	}
	if near(p.a, 1) && near(p.d, 1) && near(p.b, 0) && near(p.c, 0) {
		if near(p.e, 0) && near(p.f, 0) {
			return FlagIdentity
		}
		return FlagTranslate
	}
	if near(p.b, 0) && near(p.c, 0) {
		return FlagScale
	}
	if near(p.a, p.d) && near(p.b, -p.c) {
		return FlagRotate
	}
	return FlagComplex
}

// Elements returns the six matrix coefficients (a,b,c,d,e,f).
func (p Affine2D) Elements() (a, b, c, d, e, f float32) {
	if !p.set {
		return 1, 0, 0, 1, 0, 0
	}
	return p.a, p.b, p.c, p.d, p.e, p.f
}

// Identity is the identity Affine2D, provided for readability at call
// sites (equivalent to the Affine2D{} zero value).
var Identity = identityCoeffs()
