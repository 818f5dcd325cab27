package seat

import (
	"testing"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire/wiretest"
)

type fakePointerResource struct {
	*wiretest.Resource
	entered, left          int
	lastEnterX, lastEnterY float32
	motions                int
	buttons                int
	frames                 int
}

func (f *fakePointerResource) Enter(serial uint32, x, y float32) {
	f.entered++
	f.lastEnterX, f.lastEnterY = x, y
}
func (f *fakePointerResource) Leave(serial uint32)                        { f.left++ }
func (f *fakePointerResource) Motion(time uint32, x, y float32)           { f.motions++ }
func (f *fakePointerResource) Button(serial, time, button, state uint32) { f.buttons++ }
func (f *fakePointerResource) Axis(time uint32, axis uint32, value float32) {}
func (f *fakePointerResource) Frame()                                     { f.frames++ }

type fakeOutputAttacher struct{ w, h int32 }

func (f *fakeOutputAttacher) AttachSurfaceBuffer(buf *buffer.Buffer) (int32, int32) {
	return f.w, f.h
}

var resIDCounter uint32 = 5000

func nextResID() uint32 {
	resIDCounter++
	return resIDCounter
}

func mappedViewWithClient(t *testing.T, space *object.Space, g *view.Graph, client *wiretest.Client, x, y, w, h int32) *view.View {
	t.Helper()
	res := &wiretest.Resource{IDValue: nextResID(), ClientValue: client}
	s := surface.New(space, res)
	btab := buffer.NewTable(space)
	buf := btab.FromResource(&wiretest.Resource{IDValue: nextResID(), ClientValue: client})
	s.Attach(buf, 0, 0)
	s.Commit([]surface.OutputAttacher{&fakeOutputAttacher{w: w, h: h}})

	v := view.New(space, g)
	v.SetSurface(s)
	v.SetPosition(x, y)
	v.Map()
	v.Update(nil)
	return v
}

func TestDefaultGrabMotionSwitchesFocusAndForwards(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "mouse", CapPointer, nil))
	p := s.Pointer()
	p.AttachGraph(g)

	client := &wiretest.Client{}
	v := mappedViewWithClient(t, space, g, client, 0, 0, 100, 100)
	res := &fakePointerResource{Resource: &wiretest.Resource{ClientValue: client}}
	p.AddResource(res)

	p.MotionAbsolute(1, 50, 50)
	if res.entered != 1 {
		t.Fatalf("expected focus Enter once, got %d", res.entered)
	}
	if p.Focus() != v {
		t.Fatal("expected pointer focus to become the picked view")
	}

	p.MotionAbsolute(2, 60, 60)
	if res.motions != 2 {
		t.Fatalf("expected a Motion forwarded for each of the two moves over the focused view (the first right after Enter), got %d", res.motions)
	}

	p.MotionAbsolute(3, 5000, 5000)
	if res.left != 1 {
		t.Fatalf("expected focus Leave once pointer moves off every view, got %d", res.left)
	}
	if p.Focus() != nil {
		t.Fatal("expected nil focus once pointer moves off every view")
	}
}

func TestPointerButtonForwardsToFocusedClientOnly(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "mouse", CapPointer, nil))
	p := s.Pointer()
	p.AttachGraph(g)

	p.Button(1, 272, true)
	// No focus yet: must not panic and must not record a button.

	client := &wiretest.Client{}
	mappedViewWithClient(t, space, g, client, 0, 0, 100, 100)
	res := &fakePointerResource{Resource: &wiretest.Resource{ClientValue: client}}
	p.AddResource(res)
	p.MotionAbsolute(1, 10, 10)

	p.Button(2, 272, true)
	if res.buttons != 1 {
		t.Fatalf("expected the button event forwarded to the focused client, got %d", res.buttons)
	}
}

func TestPointerFocusClearedWhenFocusedViewDestroyed(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "mouse", CapPointer, nil))
	p := s.Pointer()
	p.AttachGraph(g)

	client := &wiretest.Client{}
	v := mappedViewWithClient(t, space, g, client, 0, 0, 100, 100)
	res := &fakePointerResource{Resource: &wiretest.Resource{ClientValue: client}}
	p.AddResource(res)
	p.MotionAbsolute(1, 10, 10)
	if p.Focus() != v {
		t.Fatal("expected focus on the mapped view")
	}

	v.Destroy()
	if p.Focus() != nil {
		t.Fatal("expected focus to clear once the focused view is destroyed")
	}
}

func TestSetCursorRepositionsCursorViewRelativeToHotspot(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "mouse", CapPointer, nil))
	p := s.Pointer()

	cursor := view.New(space, g)
	p.SetCursor(cursor, 2, 3)
	p.MotionAbsolute(1, 100, 100)

	x, y := cursor.Position()
	if x != 98 || y != 97 {
		t.Fatalf("cursor position = (%d,%d), want (98,97)", x, y)
	}
}

func TestClampRegionRestrictsMotion(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "mouse", CapPointer, nil))
	p := s.Pointer()
	p.SetClampRegion(geom.RectXYWH(0, 0, 50, 50), true)

	p.MotionAbsolute(1, 200, 200)
	x, y := p.Position()
	if x != 50 || y != 50 {
		t.Fatalf("clamped position = (%v,%v), want (50,50)", x, y)
	}
}
