package object

import "testing"

func TestEmitOrdersByDescendingPriority(t *testing.T) {
	s := NewSpace()
	o := s.Alloc(TypeSurface)

	var order []int
	o.AddEventListener(EventSurfaceCommit, 0, func(*Object, EventID, any) { order = append(order, 0) }, nil)
	o.AddEventListener(EventSurfaceCommit, 10, func(*Object, EventID, any) { order = append(order, 10) }, nil)
	o.AddEventListener(EventSurfaceCommit, 5, func(*Object, EventID, any) { order = append(order, 5) }, nil)

	if err := o.Emit(EventSurfaceCommit, nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	want := []int{10, 5, 0}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestEmitAllIsForbidden(t *testing.T) {
	s := NewSpace()
	o := s.Alloc(TypeSurface)
	if err := o.Emit(EventAll, nil); err != ErrEmitAll {
		t.Fatalf("Emit(EventAll) = %v, want ErrEmitAll", err)
	}
}

func TestListenerRegisteredOnEventAllObservesEverything(t *testing.T) {
	s := NewSpace()
	o := s.Alloc(TypeSurface)

	var seen []EventID
	o.AddEventListener(EventAll, 0, func(_ *Object, id EventID, _ any) { seen = append(seen, id) }, nil)

	o.Emit(EventSurfaceCommit, nil)
	o.Emit(EventBufferRelease, nil)

	if len(seen) != 2 || seen[0] != EventSurfaceCommit || seen[1] != EventBufferRelease {
		t.Fatalf("got %v", seen)
	}
}

func TestCallbackMayRemoveItselfMidWalk(t *testing.T) {
	s := NewSpace()
	o := s.Alloc(TypeSurface)

	var calls int
	var self *Listener
	self = o.AddEventListener(EventSurfaceCommit, 0, func(obj *Object, _ EventID, _ any) {
		calls++
		obj.RemoveListener(self)
	}, nil)
	o.AddEventListener(EventSurfaceCommit, 0, func(*Object, EventID, any) { calls++ }, nil)

	o.Emit(EventSurfaceCommit, nil)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (self-removal must not skip the remaining snapshot)", calls)
	}
	o.Emit(EventSurfaceCommit, nil)
	if calls != 3 {
		t.Fatalf("calls = %d, want 3 (removed listener must not fire again)", calls)
	}
}

func TestFiniEmitsDestroyThenFreesUserDataThenListenersThenID(t *testing.T) {
	s := NewSpace()
	o := s.Alloc(TypeBuffer)
	id := o.ID()

	var destroyed, freed bool
	o.AddEventListener(EventDestroy, 0, func(*Object, EventID, any) { destroyed = true }, nil)
	o.SetUserData("k", 1, func(any) { freed = true })

	o.Fini()

	if !destroyed {
		t.Fatal("EventDestroy listener did not fire")
	}
	if !freed {
		t.Fatal("user-data free function did not run")
	}
	if _, ok := s.Lookup(id); ok {
		t.Fatal("id was not released from the space")
	}
}

func TestReleasedIDsAreRecycled(t *testing.T) {
	s := NewSpace()
	o1 := s.Alloc(TypeBuffer)
	id1 := o1.ID()
	o1.Fini()
	o2 := s.Alloc(TypeBuffer)
	if o2.ID() != id1 {
		t.Fatalf("expected id reuse, got fresh id %d after freeing %d", o2.ID(), id1)
	}
}

func TestSetUserDataReplacesAndFreesOld(t *testing.T) {
	s := NewSpace()
	o := s.Alloc(TypeSurface)
	var freedOld bool
	o.SetUserData("k", "old", func(any) { freedOld = true })
	o.SetUserData("k", "new", nil)
	if !freedOld {
		t.Fatal("replacing user data did not free the old value")
	}
	v, ok := o.GetUserData("k")
	if !ok || v != "new" {
		t.Fatalf("GetUserData = %v, %v, want new, true", v, ok)
	}
}
