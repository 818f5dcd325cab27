package shell

import (
	"testing"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/view"
)

// nopBackend is a minimal output.Backend stand-in shared by this
// package's tests: no view ever lands on an overlay plane, no buffer
// is ever really attached, and repaint is never actually driven.
type nopBackend struct{ modes []output.Mode }

func (b nopBackend) SubpixelOrder() output.SubpixelOrder { return output.SubpixelUnknown }
func (b nopBackend) MakerName() string                   { return "test" }
func (b nopBackend) ModelName() string                   { return "test" }
func (b nopBackend) Modes() []output.Mode                { return b.modes }
func (b nopBackend) SetMode(output.Mode) bool            { return true }
func (b nopBackend) AssignPlanes(*output.Output, []*view.View) map[*view.View]*output.Plane {
	return nil
}
func (b nopBackend) StartRepaintLoop(*output.Output)          {}
func (b nopBackend) Repaint(*output.Output, []*output.Plane)  {}
func (b nopBackend) AttachSurface(*surface.Surface, *buffer.Buffer) (int32, int32) { return 0, 0 }
func (b nopBackend) FlushSurfaceDamage(*surface.Surface) bool                      { return false }

func newTestOutput(t *testing.T, space *object.Space, graph *view.Graph, modes []output.Mode) *output.Output {
	t.Helper()
	return output.New(space, graph, 1, nopBackend{modes: modes}, modes, false, geom.TransformNormal, 1)
}

func TestWorkareaDefaultsToFullOutputRect(t *testing.T) {
	space := object.NewSpace()
	graph := view.NewGraph(nil)
	modes := []output.Mode{{Width: 800, Height: 600, Flags: output.ModeCurrent}}
	o := newTestOutput(t, space, graph, modes)

	sh := New(space, graph)
	sh.AddOutput(o)

	area := sh.Workarea(o)
	if area.X != 0 || area.Y != 0 || area.W != 800 || area.H != 600 {
		t.Fatalf("workarea = %+v, want full output rect", area)
	}
}

func TestWorkareaShrinksByPublishedInsets(t *testing.T) {
	space := object.NewSpace()
	graph := view.NewGraph(nil)
	modes := []output.Mode{{Width: 800, Height: 600, Flags: output.ModeCurrent}}
	o := newTestOutput(t, space, graph, modes)

	sh := New(space, graph)
	sh.AddOutput(o)
	sh.SetWorkareaInsets(o, 20, 0, 0, 0)

	area := sh.Workarea(o)
	if area.Y != 20 || area.H != 580 {
		t.Fatalf("workarea = %+v, want top inset applied", area)
	}
}

func TestPickModeToFitPicksSmallestFittingMode(t *testing.T) {
	space := object.NewSpace()
	graph := view.NewGraph(nil)
	modes := []output.Mode{
		{Width: 1920, Height: 1080, Flags: output.ModeCurrent},
		{Width: 1024, Height: 768},
		{Width: 800, Height: 600},
	}
	o := newTestOutput(t, space, graph, modes)

	m, ok := pickModeToFit(o, 900, 700)
	if !ok || m.Width != 1024 || m.Height != 768 {
		t.Fatalf("pickModeToFit = %+v, %v, want 1024x768", m, ok)
	}
}

func TestPickModeToFitFailsWhenNothingFits(t *testing.T) {
	space := object.NewSpace()
	graph := view.NewGraph(nil)
	modes := []output.Mode{{Width: 800, Height: 600, Flags: output.ModeCurrent}}
	o := newTestOutput(t, space, graph, modes)

	_, ok := pickModeToFit(o, 1920, 1080)
	if ok {
		t.Fatal("expected no mode to fit")
	}
}
