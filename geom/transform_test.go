package geom

import (
	"math"
	"testing"
)

func eq(p1, p2 FPoint) bool {
	const tol = 1e-4
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	return math.Abs(math.Sqrt(float64(dx*dx+dy*dy))) < tol
}

func TestOffset(t *testing.T) {
	p := Pt(1, 2)
	o := Pt(2, -3)
	r := Affine2D{}.Offset(o).Transform(p)
	if !eq(r, Pt(3, -1)) {
		t.Fatalf("offset mismatch: have %v want {3 -1}", r)
	}
	i := Affine2D{}.Offset(o).Invert().Transform(r)
	if !eq(i, p) {
		t.Fatalf("offset inverse mismatch: have %v want %v", i, p)
	}
}

func TestScale(t *testing.T) {
	p := Pt(1, 2)
	s := Pt(-1, 2)
	r := Affine2D{}.Scale(FPoint{}, s).Transform(p)
	if !eq(r, Pt(-1, 4)) {
		t.Fatalf("scale mismatch: have %v want {-1 4}", r)
	}
}

func TestRotate(t *testing.T) {
	p := Pt(1, 0)
	a := float32(math.Pi / 2)
	r := Affine2D{}.Rotate(FPoint{}, a).Transform(p)
	if !eq(r, Pt(0, 1)) {
		t.Fatalf("rotate mismatch: have %v want {0 1}", r)
	}
}

func TestMulOrderMatchesChaining(t *testing.T) {
	A := Affine2D{}.Offset(Pt(100, 100))
	B := Affine2D{}.Scale(FPoint{}, Pt(2, 2))

	T1 := Affine2D{}.Offset(Pt(100, 100)).Scale(FPoint{}, Pt(2, 2))
	T2 := B.Mul(A)

	p := Pt(3, 4)
	if !eq(T1.Transform(p), T2.Transform(p)) {
		t.Fatalf("chained and explicit Mul disagree: %v vs %v", T1.Transform(p), T2.Transform(p))
	}
}

func TestFlagClassification(t *testing.T) {
	cases := []struct {
		name string
		m    Affine2D
		want Flag
	}{
		{"identity", Affine2D{}, FlagIdentity},
		{"translate", Affine2D{}.Offset(Pt(4, 5)), FlagTranslate},
		{"scale", Affine2D{}.Scale(FPoint{}, Pt(2, 3)), FlagScale},
		{"rotate", Affine2D{}.Rotate(FPoint{}, math.Pi/4), FlagRotate},
		{"shear-is-complex", Affine2D{}.Shear(FPoint{}, math.Pi/4, 0), FlagComplex},
	}
	for _, c := range cases {
		if got := c.m.Flag(); got != c.want {
			t.Errorf("%s: Flag() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestInvertRoundTrips(t *testing.T) {
	m := Affine2D{}.Offset(Pt(2, -3)).Scale(Pt(1, 1), Pt(2, 3)).Rotate(FPoint{}, 0.4)
	p := Pt(5, -2)
	r := m.Transform(p)
	back := m.Invert().Transform(r)
	if !eq(back, p) {
		t.Fatalf("round trip failed: have %v want %v", back, p)
	}
}
