// Package object implements the typed handle allocator, per-object
// user-data map and prioritised event-listener lists shared by every
// long-lived entity in the compositor (surfaces, views, outputs,
// seats, buffers, ...).
//
// The allocator and id table are confined to a single [Space] owned by
// the compositor instance rather than exposed as package-level
// globals: nothing here needs process-wide uniqueness, and ambient
// mutable state makes testing multiple compositors in one process
// impossible.
package object

import (
	"fmt"
)

// Type tags the kind of entity an Object represents.
type Type int

const (
	TypeCompositor Type = iota
	TypeOutput
	TypeSurface
	TypeBuffer
	TypeView
	TypeSeat
	TypePointer
	TypeKeyboard
	TypeTouch
	TypeInputDevice
	TypePlane
	TypeRegion
	TypeSubsurface
	TypeSubcompositor
)

func (t Type) String() string {
	switch t {
	case TypeCompositor:
		return "compositor"
	case TypeOutput:
		return "output"
	case TypeSurface:
		return "surface"
	case TypeBuffer:
		return "buffer"
	case TypeView:
		return "view"
	case TypeSeat:
		return "seat"
	case TypePointer:
		return "pointer"
	case TypeKeyboard:
		return "keyboard"
	case TypeTouch:
		return "touch"
	case TypeInputDevice:
		return "input-device"
	case TypePlane:
		return "plane"
	case TypeRegion:
		return "region"
	case TypeSubsurface:
		return "subsurface"
	case TypeSubcompositor:
		return "subcompositor"
	default:
		return fmt.Sprintf("object.Type(%d)", int(t))
	}
}

// ID is a per-[Space] unique, monotonically allocated handle.
type ID uint32

// Space owns one process-wide (or, preferably, one-compositor-wide)
// id allocator and id→object lookup table. A real server confines a
// Space to a single *pepper.Compositor instance; see the package doc.
type Space struct {
	next    ID
	free    []ID
	objects map[ID]*Object
}

// NewSpace creates an empty id space. It is cheap (one empty map,
// built here rather than on first allocation), and the backing map
// never shrinks below its high-water mark (lookup
// tables are not expected to be large enough for this to matter).
func NewSpace() *Space {
	return &Space{objects: make(map[ID]*Object)}
}

// Alloc allocates a fresh Object of the given type and registers it
// in the space's id table. Freed ids are recycled before new ones are
// minted, matching the original implementation's bitmap-reuse
// behaviour without capping the size of the id space.
func (s *Space) Alloc(typ Type) *Object {
	var id ID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.next++
		id = s.next
	}
	o := &Object{
		typ:   typ,
		id:    id,
		space: s,
	}
	s.objects[id] = o
	return o
}

// Lookup returns the object registered under id, if any.
func (s *Space) Lookup(id ID) (*Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

// release removes id from the table and queues it for reuse. Called
// only from Object.Fini.
func (s *Space) release(id ID) {
	delete(s.objects, id)
	s.free = append(s.free, id)
}

// Object is the embeddable base of every long-lived compositor entity.
type Object struct {
	typ   Type
	id    ID
	space *Space

	userData map[any]userDataEntry
	listeners
}

type userDataEntry struct {
	data any
	free func(any)
}

// Type reports the object's type tag.
func (o *Object) Type() Type { return o.typ }

// ID reports the object's allocator-assigned id.
func (o *Object) ID() ID { return o.id }

// SetUserData attaches data under key, replacing anything previously
// stored there. If freeFn is non-nil it runs (on the old value, if
// any is being replaced, and on the final value during Fini) when the
// slot is cleared.
func (o *Object) SetUserData(key any, data any, freeFn func(any)) {
	if o.userData == nil {
		o.userData = make(map[any]userDataEntry)
	}
	if old, ok := o.userData[key]; ok && old.free != nil {
		old.free(old.data)
	}
	o.userData[key] = userDataEntry{data: data, free: freeFn}
}

// GetUserData returns the data stored under key, if any.
func (o *Object) GetUserData(key any) (any, bool) {
	e, ok := o.userData[key]
	return e.data, ok
}

// Fini emits [EventDestroy], runs every attached user-data
// free-function, detaches all listeners and releases the object's id
// back to its owning Space, in that order — so that destroy
// observers can still read user data and walk listeners while
// tearing down.
func (o *Object) Fini() {
	o.emitAll(EventDestroy, nil)
	for key, e := range o.userData {
		if e.free != nil {
			e.free(e.data)
		}
		delete(o.userData, key)
	}
	o.listeners.clear()
	if o.space != nil {
		o.space.release(o.id)
	}
}
