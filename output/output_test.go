package output

import (
	"testing"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire/wiretest"
)

// fakeBackend records AssignPlanes/Repaint/StartRepaintLoop calls so
// tests can assert on the repaint pipeline without a real renderer.
type fakeBackend struct {
	assign func(o *Output, list []*view.View) map[*view.View]*Plane

	repaintCalls   int
	lastPlanes     []*Plane
	startLoopCalls int
	flushedDamage  []*surface.Surface
}

func (b *fakeBackend) SubpixelOrder() SubpixelOrder { return SubpixelUnknown }
func (b *fakeBackend) MakerName() string            { return "test" }
func (b *fakeBackend) ModelName() string             { return "test" }
func (b *fakeBackend) Modes() []Mode                 { return nil }
func (b *fakeBackend) SetMode(Mode) bool             { return true }

func (b *fakeBackend) AssignPlanes(o *Output, list []*view.View) map[*view.View]*Plane {
	if b.assign != nil {
		return b.assign(o, list)
	}
	return nil
}

func (b *fakeBackend) StartRepaintLoop(o *Output) {
	b.startLoopCalls++
}

func (b *fakeBackend) Repaint(o *Output, planes []*Plane) {
	b.repaintCalls++
	b.lastPlanes = planes
}

func (b *fakeBackend) AttachSurface(s *surface.Surface, buf *buffer.Buffer) (int32, int32) {
	return 100, 100
}

func (b *fakeBackend) FlushSurfaceDamage(s *surface.Surface) bool {
	b.flushedDamage = append(b.flushedDamage, s)
	return false
}

type fakeAttacher struct{ backend *fakeBackend }

func (f *fakeAttacher) AttachSurfaceBuffer(buf *buffer.Buffer) (int32, int32) {
	return f.backend.AttachSurface(nil, buf)
}

func newTestOutput(t *testing.T, g *view.Graph, space *object.Space, backend *fakeBackend, w, h int32) *Output {
	t.Helper()
	modes := []Mode{{Width: w, Height: h, RefreshMilliHz: 60000, Flags: ModeCurrent}}
	return New(space, g, 1, backend, modes, false, geom.TransformNormal, 1)
}

func mappedViewAt(t *testing.T, g *view.Graph, space *object.Space, backend *fakeBackend, x, y, w, h int32) (*view.View, *surface.Surface) {
	t.Helper()
	s := surface.New(space, wiretest.NewResource(nextResID()))
	btab := buffer.NewTable(space)
	buf := btab.FromResource(wiretest.NewResource(nextResID()))
	s.Attach(buf, 0, 0)
	s.Commit([]surface.OutputAttacher{&fakeAttacher{backend: backend}})

	v := view.New(space, g)
	v.SetSurface(s)
	v.Resize(w, h)
	v.SetPosition(x, y)
	v.Map()
	return v, s
}

var resIDCounter uint32 = 1000

func nextResID() uint32 {
	resIDCounter++
	return resIDCounter
}

func TestScheduleRepaintStartsLoopOnceUntilFrameFinishes(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	backend := &fakeBackend{}
	o := newTestOutput(t, g, space, backend, 800, 600)

	o.ScheduleRepaint()
	o.ScheduleRepaint()
	if backend.startLoopCalls != 1 {
		t.Fatalf("StartRepaintLoop called %d times, want 1", backend.startLoopCalls)
	}

	o.FinishFrame(16)
	if backend.repaintCalls != 1 {
		t.Fatalf("Repaint called %d times, want 1", backend.repaintCalls)
	}

	// No repaint scheduled: FinishFrame must not repaint again.
	o.FinishFrame(32)
	if backend.repaintCalls != 1 {
		t.Fatalf("Repaint called %d times after idle finish, want still 1", backend.repaintCalls)
	}
}

func TestSingleToplevelRepaintProducesOneEntryCoveringOutput(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	backend := &fakeBackend{}
	o := newTestOutput(t, g, space, backend, 800, 600)

	v, s := mappedViewAt(t, g, space, backend, 0, 0, 800, 600)
	_ = s

	o.ScheduleRepaint()
	o.FinishFrame(16)

	if backend.repaintCalls != 1 {
		t.Fatalf("Repaint called %d times, want 1", backend.repaintCalls)
	}
	if len(o.currentViewList) != 1 || o.currentViewList[0] != v {
		t.Fatalf("currentViewList = %v, want exactly the one mapped view", o.currentViewList)
	}
	entry := o.viewEntries[v]
	if entry == nil {
		t.Fatal("expected a plane entry for the mapped view")
	}
	got := entry.VisibleRegion().Bounds()
	want := geom.RectXYWH(0, 0, 800, 600)
	if got != want {
		t.Fatalf("visible region bounds = %v, want %v", got, want)
	}
}

// A rotated output must land visible regions in physical framebuffer
// coordinates, not the logical coordinates o.Rect() is expressed in
// (§4.7 step 4). A view pinned to the logical top-left corner of a
// Transform90 800x600 output (logical size 600x800) rotates into the
// physical bottom-left corner of the 800x600 buffer the backend paints.
func TestRotatedOutputTransformsVisibleRegionIntoPhysicalSpace(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	backend := &fakeBackend{}
	modes := []Mode{{Width: 800, Height: 600, RefreshMilliHz: 60000, Flags: ModeCurrent}}
	o := New(space, g, 1, backend, modes, false, geom.Transform90, 1)

	if r := o.Rect(); r.W != 600 || r.H != 800 {
		t.Fatalf("output rect = %+v, want 600x800 logical (swapped) for a 90-degree transform", r)
	}

	v, _ := mappedViewAt(t, g, space, backend, 0, 0, 10, 10)

	o.ScheduleRepaint()
	o.FinishFrame(16)

	entry := o.viewEntries[v]
	if entry == nil {
		t.Fatal("expected a plane entry for the mapped view")
	}
	got := entry.VisibleRegion().Bounds()
	want := geom.RectXYWH(0, 590, 10, 10)
	if got != want {
		t.Fatalf("visible region bounds = %v, want %v (rotated into physical space)", got, want)
	}
}

func TestInactiveOrUnoverlappingViewIsSkippedFromViewList(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	backend := &fakeBackend{}
	o := newTestOutput(t, g, space, backend, 800, 600)

	v, _ := mappedViewAt(t, g, space, backend, 2000, 2000, 50, 50)

	o.ScheduleRepaint()
	o.FinishFrame(16)

	for _, lv := range o.currentViewList {
		if lv == v {
			t.Fatal("view far outside the output's rect must not be in the view list")
		}
	}
	if _, ok := o.viewEntries[v]; ok {
		t.Fatal("out-of-overlap view must have been detached from its plane")
	}
}

func TestFinishFrameUpdatesFPSAverage(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	backend := &fakeBackend{}
	o := New(space, g, 1, backend, []Mode{{Width: 800, Height: 600, Flags: ModeCurrent}}, true, geom.TransformNormal, 1)

	o.FinishFrame(0)
	o.FinishFrame(16)
	o.FinishFrame(32)

	if o.FPSAverage() <= 0 {
		t.Fatalf("FPSAverage() = %v, want > 0 after multiple frames", o.FPSAverage())
	}
}

func TestSetModeUpdatesGeometryAndModeList(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	backend := &fakeBackend{}
	o := newTestOutput(t, g, space, backend, 800, 600)

	ok := o.SetMode(Mode{Width: 1920, Height: 1080, RefreshMilliHz: 60000})
	if !ok {
		t.Fatal("SetMode should succeed against the fake backend")
	}
	if r := o.Rect(); r.W != 1920 || r.H != 1080 {
		t.Fatalf("Rect() = %v, want 1920x1080", r)
	}
	found := false
	for _, m := range o.Modes() {
		if m.Width == 1920 && m.Height == 1080 && m.Current() {
			found = true
		}
	}
	if !found {
		t.Fatal("new mode not recorded as current in Modes()")
	}
}
