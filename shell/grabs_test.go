package shell

import (
	"testing"

	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/seat"
)

func TestResizeGrabAppliesEdgeSensitiveConfigure(t *testing.T) {
	e := newTestEnv()
	shsurf, surf := e.newShellSurface(t)
	shsurf.SetToplevel()
	surf.Object().Emit(object.EventSurfaceCommit, nil)
	shsurf.geometry = rectGeometry{w: 200, h: 100}

	s := seat.New(e.space, "seat0")
	dev := seat.NewInputDevice(e.space, "dev0", seat.CapPointer, nil)
	s.AddInputDevice(dev)

	before := len(e.configures)
	shsurf.Resize(s, ResizeRight)
	if len(e.configures) != before+1 {
		t.Fatalf("expected an immediate configure on Resize start")
	}

	if _, ok := s.Pointer().Grab().(*resizeGrab); !ok {
		t.Fatal("expected resizeGrab installed")
	}

	s.Pointer().MotionAbsolute(0, 220, 0)
	last := e.configures[len(e.configures)-1]
	if last.w <= 200 {
		t.Fatalf("configure width = %d, want growth past 200 after dragging right edge out", last.w)
	}

	s.Pointer().Button(0, BtnLeft, false)
	if _, ok := s.Pointer().Grab().(*resizeGrab); ok {
		t.Fatal("expected resizeGrab released on button-up")
	}
}
