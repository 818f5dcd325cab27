package seat

import (
	"testing"

	"github.com/peppercomp/pepper/internal/xkb"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire/wiretest"
)

type fakeKeyboardResource struct {
	*wiretest.Resource
	keymapCalls  int
	entered      int
	left         int
	keys         int
	modifiers    int
	repeatRate   int32
	repeatDelay  int32
}

func (f *fakeKeyboardResource) Keymap(fd int, size int)      { f.keymapCalls++ }
func (f *fakeKeyboardResource) Enter(serial uint32, keys []uint32) { f.entered++ }
func (f *fakeKeyboardResource) Leave(serial uint32)           { f.left++ }
func (f *fakeKeyboardResource) Key(serial, time, key, state uint32) { f.keys++ }
func (f *fakeKeyboardResource) Modifiers(serial, depressed, latched, locked, group uint32) {
	f.modifiers++
}
func (f *fakeKeyboardResource) RepeatInfo(rate, delay int32) {
	f.repeatRate, f.repeatDelay = rate, delay
}

func TestKeyUpdatesPressedArrayAndForwardsToFocus(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "kbd", CapKeyboard, nil))
	k := s.Keyboard()

	client := &wiretest.Client{}
	v := mappedViewWithClient(t, space, g, client, 0, 0, 10, 10)
	res := &fakeKeyboardResource{Resource: &wiretest.Resource{ClientValue: client}}
	k.AddResource(res)
	k.SetFocus(v, res)

	k.Key(1, 30, true)
	if len(k.Pressed()) != 1 || k.Pressed()[0] != 30 {
		t.Fatalf("Pressed() = %v, want [30]", k.Pressed())
	}
	if res.keys != 1 {
		t.Fatalf("expected one Key forwarded, got %d", res.keys)
	}

	k.Key(2, 30, false)
	if len(k.Pressed()) != 0 {
		t.Fatalf("Pressed() = %v, want empty after release", k.Pressed())
	}
}

func TestSetKeymapDeferredUntilNoKeysPressed(t *testing.T) {
	space := object.NewSpace()
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "kbd", CapKeyboard, nil))
	k := s.Keyboard()

	client := &wiretest.Client{}
	res := &fakeKeyboardResource{Resource: &wiretest.Resource{ClientValue: client}}
	k.AddResource(res)

	k.Key(1, 30, true)
	km, err := xkb.NewKeymap(xkb.DefaultKeymap)
	if err != nil {
		t.Skipf("memfd_create unavailable: %v", err)
	}
	k.SetKeymap(km)
	if res.keymapCalls != 0 {
		t.Fatalf("keymap must not apply while a key is pressed, got %d calls", res.keymapCalls)
	}

	k.Key(2, 30, false)
	if res.keymapCalls != 1 {
		t.Fatalf("keymap must apply once all keys are released, got %d calls", res.keymapCalls)
	}
}

func TestUpdateModifiersOnlyFiresGrabOnActualChange(t *testing.T) {
	space := object.NewSpace()
	g := view.NewGraph(nil)
	s := New(space, "seat0")
	s.AddInputDevice(NewInputDevice(space, "kbd", CapKeyboard, nil))
	k := s.Keyboard()

	client := &wiretest.Client{}
	v := mappedViewWithClient(t, space, g, client, 0, 0, 10, 10)
	res := &fakeKeyboardResource{Resource: &wiretest.Resource{ClientValue: client}}
	k.AddResource(res)
	k.SetFocus(v, res)

	k.UpdateModifiers(1, 0, 0, 0)
	if res.modifiers != 1 {
		t.Fatalf("expected one Modifiers forward on real change, got %d", res.modifiers)
	}
	k.UpdateModifiers(1, 0, 0, 0)
	if res.modifiers != 1 {
		t.Fatalf("expected no extra Modifiers forward on no-op update, got %d", res.modifiers)
	}
}
