// Package seat implements §4.8: capability aggregation across input
// devices, and the Pointer/Keyboard/Touch substructures with their
// grab stacks. It is grounded on gio's io/router.Router (the same
// "one router per input modality, default handling overridable by
// installing something in front of it" shape), generalised from
// gio's client-side event queue to the server-side focus/grab model
// original_source/src/lib/pepper/seat.c actually implements.
package seat

import (
	"github.com/peppercomp/pepper/object"
)

// Capability is a bitmask of the three input modalities a device can
// contribute to a seat (§4.8 "unions its capabilities").
type Capability uint32

const (
	CapPointer Capability = 1 << iota
	CapKeyboard
	CapTouch
)

// InputDevice is the seat-facing view of a backend input device (§6
// "Backend interface — input backend"): a capability bitmask and a
// small string property lookup (e.g. udev properties), queried by the
// desktop-shell for things like per-device configuration.
type InputDevice struct {
	obj   *object.Object
	name  string
	caps  Capability
	props map[string]string
}

// NewInputDevice wraps a backend-reported device.
func NewInputDevice(space *object.Space, name string, caps Capability, props map[string]string) *InputDevice {
	return &InputDevice{obj: space.Alloc(object.TypeInputDevice), name: name, caps: caps, props: props}
}

func (d *InputDevice) Object() *object.Object   { return d.obj }
func (d *InputDevice) Name() string             { return d.name }
func (d *InputDevice) Capabilities() Capability { return d.caps }

// Property returns a backend-reported property, e.g. "ID_INPUT_TOUCHPAD".
func (d *InputDevice) Property(key string) (string, bool) {
	v, ok := d.props[key]
	return v, ok
}

// Seat aggregates the capabilities of every attached InputDevice into
// at most one Pointer, one Keyboard and one Touch (§4.8 "Capability
// aggregation").
type Seat struct {
	obj  *object.Object
	name string

	devices []*InputDevice
	caps    Capability

	serial uint32

	pointer  *Pointer
	keyboard *Keyboard
	touch    *Touch

	// boundResources lets AddInputDevice's "broadcast the new caps to
	// every bound resource" step reach every wl_seat resource a
	// client has bound, independent of pointer/keyboard/touch.
	boundResources []SeatResource
}

// SeatResource is a client's bound wl_seat object (§6 wl_seat v4).
type SeatResource interface {
	Capabilities(caps Capability)
	Name(name string)
}

// New creates an empty seat with the given wl_seat name string.
func New(space *object.Space, name string) *Seat {
	return &Seat{obj: space.Alloc(object.TypeSeat), name: name}
}

func (s *Seat) Object() *object.Object { return s.obj }
func (s *Seat) Name() string           { return s.name }
func (s *Seat) Capabilities() Capability { return s.caps }

func (s *Seat) Pointer() *Pointer   { return s.pointer }
func (s *Seat) Keyboard() *Keyboard { return s.keyboard }
func (s *Seat) Touch() *Touch       { return s.touch }

// BindResource registers a client's wl_seat resource so future
// capability changes are broadcast to it, and immediately reports the
// seat's current name and capabilities (matching wl_seat's bind-time
// behaviour).
func (s *Seat) BindResource(r SeatResource) {
	s.boundResources = append(s.boundResources, r)
	r.Name(s.name)
	r.Capabilities(s.caps)
}

func (s *Seat) broadcastCaps() {
	for _, r := range s.boundResources {
		r.Capabilities(s.caps)
	}
}

// AddInputDevice unions dev's capabilities into the seat, constructing
// whichever of Pointer/Keyboard/Touch newly appears and emitting
// EventSeatPointerAdd/EventSeatKeyboardAdd/EventSeatTouchAdd for each
// (§4.8).
func (s *Seat) AddInputDevice(dev *InputDevice) {
	s.devices = append(s.devices, dev)
	added := dev.caps &^ s.caps
	s.caps |= dev.caps

	if added&CapPointer != 0 {
		s.pointer = newPointer(s)
		s.obj.Emit(object.EventSeatPointerAdd, s.pointer)
	}
	if added&CapKeyboard != 0 {
		s.keyboard = newKeyboard(s)
		s.obj.Emit(object.EventSeatKeyboardAdd, s.keyboard)
	}
	if added&CapTouch != 0 {
		s.touch = newTouch(s)
		s.obj.Emit(object.EventSeatTouchAdd, s.touch)
	}
	s.obj.Emit(object.EventSeatDeviceAdd, dev)
	s.broadcastCaps()
}

// RemoveInputDevice reverses AddInputDevice: recomputes the union of
// the remaining devices' capabilities, destroying whichever
// substructure's capability disappeared entirely (§4.8 "Removal is
// symmetric").
func (s *Seat) RemoveInputDevice(dev *InputDevice) {
	for i, d := range s.devices {
		if d == dev {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			break
		}
	}
	var remaining Capability
	for _, d := range s.devices {
		remaining |= d.caps
	}
	removed := s.caps &^ remaining
	s.caps = remaining

	if removed&CapPointer != 0 && s.pointer != nil {
		s.obj.Emit(object.EventSeatPointerRemove, s.pointer)
		s.pointer = nil
	}
	if removed&CapKeyboard != 0 && s.keyboard != nil {
		s.obj.Emit(object.EventSeatKeyboardRemove, s.keyboard)
		s.keyboard = nil
	}
	if removed&CapTouch != 0 && s.touch != nil {
		s.obj.Emit(object.EventSeatTouchRemove, s.touch)
		s.touch = nil
	}
	s.obj.Emit(object.EventSeatDeviceRemove, dev)
	s.broadcastCaps()
}

// nextSerial returns a fresh, seat-scoped, monotonically increasing
// serial for focus-change and input events (§4.8 "a fresh serial").
// Real Wayland servers hand out globally unique serials from the
// display's own counter; scoping it to the seat instead avoids
// needing a back-reference to the not-yet-built compositor root
// (seat is a leaf package) at the cost of serials only being unique
// per-seat rather than process-wide, which no client-visible
// invariant in §8 depends on.
func (s *Seat) nextSerial() uint32 {
	s.serial++
	return s.serial
}
