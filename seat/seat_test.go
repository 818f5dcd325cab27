package seat

import (
	"testing"

	"github.com/peppercomp/pepper/object"
)

func TestAddInputDeviceCreatesSubstructuresOnce(t *testing.T) {
	space := object.NewSpace()
	s := New(space, "seat0")

	mouse := NewInputDevice(space, "mouse", CapPointer, nil)
	kbd := NewInputDevice(space, "kbd", CapKeyboard, nil)

	s.AddInputDevice(mouse)
	if s.Pointer() == nil {
		t.Fatal("expected Pointer() to be non-nil after adding a pointer device")
	}
	if s.Keyboard() != nil {
		t.Fatal("Keyboard() should still be nil, no keyboard device added yet")
	}

	s.AddInputDevice(kbd)
	if s.Keyboard() == nil {
		t.Fatal("expected Keyboard() to be non-nil after adding a keyboard device")
	}

	secondMouse := NewInputDevice(space, "mouse2", CapPointer, nil)
	firstPointer := s.Pointer()
	s.AddInputDevice(secondMouse)
	if s.Pointer() != firstPointer {
		t.Fatal("adding a second device with an already-present capability must not recreate the substructure")
	}
}

func TestRemoveInputDeviceDestroysSubstructureWhenCapabilityFullyGone(t *testing.T) {
	space := object.NewSpace()
	s := New(space, "seat0")
	mouse := NewInputDevice(space, "mouse", CapPointer, nil)
	s.AddInputDevice(mouse)
	if s.Pointer() == nil {
		t.Fatal("expected a pointer after adding the only pointer device")
	}
	s.RemoveInputDevice(mouse)
	if s.Pointer() != nil {
		t.Fatal("Pointer() must become nil once its only backing device is removed")
	}
}

func TestRemoveInputDeviceKeepsSubstructureIfAnotherDeviceStillProvidesCapability(t *testing.T) {
	space := object.NewSpace()
	s := New(space, "seat0")
	m1 := NewInputDevice(space, "mouse1", CapPointer, nil)
	m2 := NewInputDevice(space, "mouse2", CapPointer, nil)
	s.AddInputDevice(m1)
	s.AddInputDevice(m2)
	p := s.Pointer()
	s.RemoveInputDevice(m1)
	if s.Pointer() != p {
		t.Fatal("Pointer() must survive while a second pointer-capable device remains")
	}
}

type recordingSeatResource struct {
	names []string
	caps  []Capability
}

func (r *recordingSeatResource) Name(n string)          { r.names = append(r.names, n) }
func (r *recordingSeatResource) Capabilities(c Capability) { r.caps = append(r.caps, c) }

func TestBindResourceReportsCurrentStateThenBroadcastsChanges(t *testing.T) {
	space := object.NewSpace()
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "kbd", CapKeyboard, nil))

	res := &recordingSeatResource{}
	s.BindResource(res)
	if len(res.names) != 1 || res.names[0] != "seat0" {
		t.Fatalf("expected BindResource to report the seat name once, got %v", res.names)
	}
	if len(res.caps) != 1 || res.caps[0] != CapKeyboard {
		t.Fatalf("expected BindResource to report current caps once, got %v", res.caps)
	}

	s.AddInputDevice(NewInputDevice(space, "mouse", CapPointer, nil))
	if len(res.caps) != 2 || res.caps[1] != CapKeyboard|CapPointer {
		t.Fatalf("expected a capability broadcast after adding the pointer device, got %v", res.caps)
	}
}
