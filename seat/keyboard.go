package seat

import (
	"github.com/peppercomp/pepper/internal/xkb"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire"
)

// KeyboardResource is a client's bound wl_keyboard object (§6
// wl_keyboard with release semantics).
type KeyboardResource interface {
	wire.Resource
	Keymap(fd int, size int)
	Enter(serial uint32, keys []uint32)
	Leave(serial uint32)
	Key(serial, time, key, state uint32)
	Modifiers(serial, depressed, latched, locked, group uint32)
	RepeatInfo(rate, delay int32)
}

// KeyboardGrab is the vtable a grab installs to intercept keyboard
// input (§4.8 "Grab stack").
type KeyboardGrab interface {
	Key(k *Keyboard, time, key uint32, pressed bool)
	Modifiers(k *Keyboard, depressed, latched, locked, group uint32)
	Cancel(k *Keyboard)
}

// Keyboard is one seat's keyboard substructure (§3, §4.8).
type Keyboard struct {
	seat *Seat

	resources []KeyboardResource

	pressed []uint32

	keymap        *xkb.Keymap
	pendingKeymap *xkb.Keymap
	xkbState      *xkb.State

	repeatRate, repeatDelay int32

	focus                *view.View
	focusResource        KeyboardResource
	focusDestroyListener *object.Listener

	grab KeyboardGrab
}

func newKeyboard(s *Seat) *Keyboard {
	k := &Keyboard{seat: s, xkbState: xkb.NewState(), repeatRate: 25, repeatDelay: 600}
	k.grab = &defaultKeyboardGrab{}
	return k
}

// AddResource registers a client's bound wl_keyboard, immediately
// sending it the current keymap if one has been set.
func (k *Keyboard) AddResource(r KeyboardResource) {
	k.resources = append(k.resources, r)
	if k.keymap != nil {
		r.Keymap(k.keymap.Fd(), k.keymap.Size())
	}
	r.RepeatInfo(k.repeatRate, k.repeatDelay)
}

// SetRepeatInfo configures the (rate, delay) pair sent to every bound
// resource; grounded on the teacher's xkb keycode-repeats query,
// generalised into a compositor-wide policy the original distillation
// omitted (§9 "Keyboard repeat-info").
func (k *Keyboard) SetRepeatInfo(rate, delay int32) {
	k.repeatRate, k.repeatDelay = rate, delay
	for _, r := range k.resources {
		r.RepeatInfo(rate, delay)
	}
}

// SetKeymap installs a new keymap. If no keys are currently pressed it
// takes effect immediately (sent to every bound resource); otherwise
// it is deferred until Key() observes an empty pressed array (§4.8
// "Keymap changes are deferred until no keys are pressed").
func (k *Keyboard) SetKeymap(km *xkb.Keymap) {
	if len(k.pressed) == 0 {
		k.applyKeymap(km)
		return
	}
	k.pendingKeymap = km
}

func (k *Keyboard) applyKeymap(km *xkb.Keymap) {
	k.keymap = km
	for _, r := range k.resources {
		r.Keymap(km.Fd(), km.Size())
	}
}

// Pressed returns the currently pressed key codes.
func (k *Keyboard) Pressed() []uint32 { return append([]uint32(nil), k.pressed...) }

func (k *Keyboard) isPressed(key uint32) (int, bool) {
	for i, p := range k.pressed {
		if p == key {
			return i, true
		}
	}
	return 0, false
}

// Key updates the pressed-key array and invokes the grab's Key (§4.8
// Keyboard). It never touches modifier state or calls the grab's
// Modifiers: modifiers are not derivable from key codes alone without
// real xkbcommon, so a separate UpdateModifiers call drives the mask
// change and the Modifiers forwarding.
func (k *Keyboard) Key(time, key uint32, pressed bool) {
	if pressed {
		if _, ok := k.isPressed(key); !ok {
			k.pressed = append(k.pressed, key)
		}
	} else {
		if i, ok := k.isPressed(key); ok {
			k.pressed = append(k.pressed[:i], k.pressed[i+1:]...)
		}
	}
	k.grab.Key(k, time, key, pressed)
	if len(k.pressed) == 0 && k.pendingKeymap != nil {
		k.applyKeymap(k.pendingKeymap)
		k.pendingKeymap = nil
	}
}

// UpdateModifiers applies a raw depressed/latched/locked/group mask
// update (as computed by an input backend from evdev modifier keys)
// and, if it actually changed the serialised state, forwards it to
// the active grab (§4.8 "if xkb state changes modifiers").
func (k *Keyboard) UpdateModifiers(depressed, latched, locked, group uint32) {
	before := [4]uint32{}
	before[0], before[1], before[2], before[3] = k.xkbState.Serialize()
	k.xkbState.UpdateMask(depressed, latched, locked, group)
	after := [4]uint32{}
	after[0], after[1], after[2], after[3] = k.xkbState.Serialize()
	if before != after {
		k.grab.Modifiers(k, depressed, latched, locked, group)
	}
}

// SetGrab installs g, invoking the previous grab's Cancel first.
func (k *Keyboard) SetGrab(g KeyboardGrab) {
	if k.grab != nil {
		k.grab.Cancel(k)
	}
	k.grab = g
}

// Grab returns the currently active grab.
func (k *Keyboard) Grab() KeyboardGrab { return k.grab }

// Focus returns the view currently receiving keyboard events, if any.
func (k *Keyboard) Focus() *view.View { return k.focus }

// SetFocus changes the keyboard focus, sending Leave/Enter and arming
// a destroy listener exactly like Pointer.SetFocus (§3 focus
// liveness invariant).
func (k *Keyboard) SetFocus(v *view.View, resource KeyboardResource) {
	if k.focus == v {
		return
	}
	if k.focus != nil {
		if k.focusDestroyListener != nil {
			k.focus.Object().RemoveListener(k.focusDestroyListener)
			k.focusDestroyListener = nil
		}
		if k.focusResource != nil {
			k.focusResource.Leave(k.seat.nextSerial())
		}
		k.focus.Object().Emit(object.EventFocusLeave, k)
	}
	k.focus, k.focusResource = v, resource
	if v != nil {
		if resource != nil {
			resource.Enter(k.seat.nextSerial(), k.pressed)
		}
		k.focusDestroyListener = v.Object().AddEventListener(object.EventDestroy, 0, func(*object.Object, object.EventID, any) {
			k.focus = nil
			k.focusResource = nil
			k.grab.Cancel(k)
		}, nil)
		v.Object().Emit(object.EventFocusEnter, k)
	}
}

// FocusView sets keyboard focus to v, resolving the KeyboardResource
// bound by v's surface's owning client itself. Exposed for callers
// that focus a view directly rather than through hit-testing (the
// desktop-shell focuses a newly mapped toplevel this way).
func (k *Keyboard) FocusView(v *view.View) {
	k.SetFocus(v, k.resourceFor(v))
}

// resourceFor returns the KeyboardResource, among those bound on this
// keyboard, belonging to the client that owns v's surface.
func (k *Keyboard) resourceFor(v *view.View) KeyboardResource {
	if v == nil || v.Surface() == nil {
		return nil
	}
	client := v.Surface().Resource().Client()
	for _, r := range k.resources {
		if r.Client() == client {
			return r
		}
	}
	return nil
}

// defaultKeyboardGrab implements §4.8's default keyboard grab:
// forward key/modifier events straight to the focus view's client.
type defaultKeyboardGrab struct{}

func (g *defaultKeyboardGrab) Key(k *Keyboard, time, key uint32, pressed bool) {
	if k.focusResource == nil {
		return
	}
	state := uint32(0)
	if pressed {
		state = 1
	}
	k.focusResource.Key(k.seat.nextSerial(), time, key, state)
}

func (g *defaultKeyboardGrab) Modifiers(k *Keyboard, depressed, latched, locked, group uint32) {
	if k.focusResource != nil {
		k.focusResource.Modifiers(k.seat.nextSerial(), depressed, latched, locked, group)
	}
}

func (g *defaultKeyboardGrab) Cancel(k *Keyboard) {}
