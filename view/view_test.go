package view

import (
	"testing"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/wire/wiretest"
)

type fakeOutput struct {
	id   uint32
	rect geom.Rect
}

func (o *fakeOutput) ID() uint32      { return o.id }
func (o *fakeOutput) Rect() geom.Rect { return o.rect }

type fakeOutputAttacher struct{ w, h int32 }

func (f *fakeOutputAttacher) AttachSurfaceBuffer(b *buffer.Buffer) (int32, int32) { return f.w, f.h }

func newMappedView(t *testing.T, g *Graph, space *object.Space, w, h int32) (*View, *surface.Surface) {
	t.Helper()
	s := surface.New(space, wiretest.NewResource(100))
	btab := buffer.NewTable(space)
	buf := btab.FromResource(wiretest.NewResource(101))
	s.Attach(buf, 0, 0)
	s.Commit([]surface.OutputAttacher{&fakeOutputAttacher{w: w, h: h}})

	v := New(space, g)
	v.SetSurface(s)
	v.Map()
	return v, s
}

func TestActiveRequiresMappedAndActiveParent(t *testing.T) {
	space := object.NewSpace()
	g := NewGraph(nil)
	parent, _ := newMappedView(t, g, space, 10, 10)
	child, _ := newMappedView(t, g, space, 10, 10)
	child.SetParent(parent)

	parent.Update(nil)
	child.Update(nil)
	if !child.Active() {
		t.Fatal("child should be active: mapped, parent active")
	}

	parent.Unmap()
	parent.Update(nil)
	child.Update(nil)
	if child.Active() {
		t.Fatal("child must become inactive when parent unmaps")
	}
}

// §8 property 1: active depends only on mapped and the parent chain,
// never on whether a surface is attached.
func TestActiveDoesNotRequireSurface(t *testing.T) {
	space := object.NewSpace()
	g := NewGraph(nil)
	parent, _ := newMappedView(t, g, space, 10, 10)

	child := New(space, g)
	child.SetParent(parent)
	child.Map()

	parent.Update(nil)
	child.Update(nil)
	if !child.Active() {
		t.Fatal("a mapped, surface-less view with an active parent must be active")
	}
}

func TestGeometryRecomputeAppliesPositionAndInheritedTransform(t *testing.T) {
	space := object.NewSpace()
	g := NewGraph(nil)
	parent, _ := newMappedView(t, g, space, 100, 100)
	child, _ := newMappedView(t, g, space, 10, 10)
	child.SetParent(parent)

	parent.SetPosition(50, 50)
	child.SetPosition(5, 5)

	parent.Update(nil)
	child.Update(nil)

	p := child.LocalToGlobal(geom.Pt(0, 0))
	if p.X != 55 || p.Y != 55 {
		t.Fatalf("expected child origin at (55,55), got (%v,%v)", p.X, p.Y)
	}
}

func TestGeometryRecomputeWithoutInheritIgnoresParentTransform(t *testing.T) {
	space := object.NewSpace()
	g := NewGraph(nil)
	parent, _ := newMappedView(t, g, space, 100, 100)
	child, _ := newMappedView(t, g, space, 10, 10)
	child.SetParent(parent)
	child.SetTransformInherit(false)

	parent.SetPosition(50, 50)
	child.SetPosition(5, 5)

	parent.Update(nil)
	child.Update(nil)

	p := child.LocalToGlobal(geom.Pt(0, 0))
	if p.X != 5 || p.Y != 5 {
		t.Fatalf("expected child origin at (5,5) ignoring parent offset, got (%v,%v)", p.X, p.Y)
	}
}

func TestOutputOverlapRecomputedOnGeometryUpdate(t *testing.T) {
	space := object.NewSpace()
	g := NewGraph(nil)
	v, _ := newMappedView(t, g, space, 50, 50)
	v.SetPosition(0, 0)

	left := &fakeOutput{id: 1, rect: geom.RectXYWH(0, 0, 100, 100)}
	right := &fakeOutput{id: 2, rect: geom.RectXYWH(1000, 0, 100, 100)}

	v.Update([]OutputRef{left, right})

	if !v.OutputOverlap(1) {
		t.Fatal("expected overlap with left output")
	}
	if v.OutputOverlap(2) {
		t.Fatal("expected no overlap with right output")
	}
}

func TestUpdateIsNoOpWithoutDirtyBits(t *testing.T) {
	space := object.NewSpace()
	g := NewGraph(nil)
	v, _ := newMappedView(t, g, space, 10, 10)
	v.Update(nil)
	before := v.BoundingRegion()

	v.dirty = 0 // already clean after first Update
	v.Update(nil)
	after := v.BoundingRegion()
	if before.Bounds() != after.Bounds() {
		t.Fatal("no-op update should not change bounding region")
	}
}
