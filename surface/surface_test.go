package surface

import (
	"testing"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/wire/wiretest"
)

type fakeOutput struct {
	w, h int32
}

func (f *fakeOutput) AttachSurfaceBuffer(buf *buffer.Buffer) (int32, int32) {
	return f.w, f.h
}

type fakeViewer struct {
	w, h int32
	resizes int
}

func (v *fakeViewer) ResizeForSurfaceCommit(w, h int32) {
	v.w, v.h = w, h
	v.resizes++
}

func newTestSurface() (*object.Space, *Surface, *buffer.Table) {
	space := object.NewSpace()
	btab := buffer.NewTable(space)
	s := New(space, wiretest.NewResource(1))
	return space, s, btab
}

func TestCommitWithoutAttachLeavesSizeZero(t *testing.T) {
	_, s, _ := newTestSurface()
	s.Commit(nil)
	w, h := s.Size()
	if w != 0 || h != 0 {
		t.Fatalf("expected 0x0, got %dx%d", w, h)
	}
}

func TestAttachCommitResizesViewsAndUpdatesSize(t *testing.T) {
	_, s, btab := newTestSurface()
	buf := btab.FromResource(wiretest.NewResource(2))
	v := &fakeViewer{}
	s.AddView(v)

	s.Attach(buf, 0, 0)
	outputs := []OutputAttacher{&fakeOutput{w: 200, h: 100}}
	s.Commit(outputs)

	w, h := s.Size()
	if w != 200 || h != 100 {
		t.Fatalf("got %dx%d, want 200x100", w, h)
	}
	if v.resizes != 1 || v.w != 200 || v.h != 100 {
		t.Fatalf("view was not resized on commit: %+v", v)
	}
	if buf.Refcount() != 1 {
		t.Fatalf("expected committed buffer to be referenced once, got %d", buf.Refcount())
	}
}

func TestReattachUnreferencesPreviousCurrentBuffer(t *testing.T) {
	_, s, btab := newTestSurface()
	buf1 := btab.FromResource(wiretest.NewResource(2))
	buf2 := btab.FromResource(wiretest.NewResource(3))
	outputs := []OutputAttacher{&fakeOutput{w: 10, h: 10}}

	s.Attach(buf1, 0, 0)
	s.Commit(outputs)
	if buf1.Refcount() != 1 {
		t.Fatalf("buf1 refcount = %d, want 1", buf1.Refcount())
	}

	s.Attach(buf2, 0, 0)
	s.Commit(outputs)
	if buf1.Refcount() != 0 {
		t.Fatalf("buf1 should be unreferenced after replacement, refcount = %d", buf1.Refcount())
	}
	if buf2.Refcount() != 1 {
		t.Fatalf("buf2 refcount = %d, want 1", buf2.Refcount())
	}
}

func TestCommitIsIdempotentWithoutNewAttach(t *testing.T) {
	_, s, btab := newTestSurface()
	buf := btab.FromResource(wiretest.NewResource(2))
	outputs := []OutputAttacher{&fakeOutput{w: 50, h: 60}}

	s.Attach(buf, 0, 0)
	s.Commit(outputs)
	w1, h1 := s.Size()

	s.Commit(outputs)
	w2, h2 := s.Size()

	if w1 != w2 || h1 != h2 {
		t.Fatalf("size changed across idempotent commit: %dx%d vs %dx%d", w1, h1, w2, h2)
	}
	if buf.Refcount() != 1 {
		t.Fatalf("second commit without re-attach must not re-reference the buffer, refcount = %d", buf.Refcount())
	}
}

func TestDamageAccumulatesThenClearsOnCommit(t *testing.T) {
	_, s, _ := newTestSurface()
	s.Damage(0, 0, 10, 10)
	s.Damage(10, 0, 10, 10)
	s.Commit(nil)

	d := s.DamageRegion()
	if d.Bounds() != geom.RectXYWH(0, 0, 20, 10) {
		t.Fatalf("unexpected damage bounds: %+v", d.Bounds())
	}

	s.Commit(nil)
	if !s.DamageRegion().IsEmpty() {
		t.Fatal("damage must be cleared after a commit with no new damage request")
	}
}

func TestFrameCallbackFiresExactlyOnceOnDone(t *testing.T) {
	_, s, _ := newTestSurface()
	cb := wiretest.NewCallback(5)
	s.Frame(cb)
	s.Commit(nil)

	if !s.HasPendingFrameCallbacks() {
		t.Fatal("expected a pending frame callback after commit")
	}
	s.SendFrameCallbacksDone(1234)
	if cb.Fired != true || cb.Data != 1234 {
		t.Fatalf("callback not delivered correctly: %+v", cb)
	}
	if s.HasPendingFrameCallbacks() {
		t.Fatal("frame callback list must be cleared after delivery")
	}
}

func TestSetRoleOnceThenRejectsDifferentRole(t *testing.T) {
	_, s, _ := newTestSurface()
	if err := s.SetRole("xdg_toplevel"); err != nil {
		t.Fatalf("first SetRole failed: %v", err)
	}
	if err := s.SetRole("xdg_toplevel"); err != nil {
		t.Fatalf("idempotent re-set of same role failed: %v", err)
	}
	if err := s.SetRole("wl_shell_surface"); err != ErrRoleAlreadySet {
		t.Fatalf("expected ErrRoleAlreadySet, got %v", err)
	}
}

func TestSetBufferScaleRejectsNonPositive(t *testing.T) {
	_, s, _ := newTestSurface()
	if err := s.SetBufferScale(0); err != ErrInvalidScale {
		t.Fatalf("expected ErrInvalidScale, got %v", err)
	}
	if err := s.SetBufferScale(2); err != nil {
		t.Fatalf("valid scale rejected: %v", err)
	}
}

func TestInputRegionDefaultsToInfiniteAndResetsOnNil(t *testing.T) {
	_, s, _ := newTestSurface()
	s.Commit(nil)
	if !s.InputRegion().Contains(1<<20, -(1 << 20)) {
		t.Fatal("default input region should contain arbitrary far points")
	}
	small := geom.RegionFromRect(geom.RectXYWH(0, 0, 5, 5))
	s.SetInputRegion(&small)
	s.Commit(nil)
	if s.InputRegion().Contains(100, 100) {
		t.Fatal("input region should have been narrowed")
	}
	s.SetInputRegion(nil)
	s.Commit(nil)
	if !s.InputRegion().Contains(100, 100) {
		t.Fatal("nil input region should reset to infinite")
	}
}
