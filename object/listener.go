package object

import (
	"errors"

	"golang.org/x/exp/slices"
)

// ErrEmitAll is returned by Emit when called with EventAll, which is
// only a valid listener-registration wildcard, never a real event.
var ErrEmitAll = errors.New("object: EVENT_ALL may not be emitted")

// Callback receives an emitted event. info carries whatever payload
// the emitting component documents for the given EventID (nil for
// events with no payload, such as EventDestroy).
type Callback func(o *Object, id EventID, info any)

// Listener is the handle returned by AddEventListener, used to adjust
// priority or detach the listener later.
type Listener struct {
	id       EventID
	priority int
	cb       Callback
	data     any
	removed  bool
}

// Data returns the opaque data the listener was registered with.
func (l *Listener) Data() any { return l.data }

// listeners is embedded in Object; it keeps entries sorted by
// descending priority so Emit can walk front-to-back.
type listeners struct {
	entries []*Listener
	// emitting is non-zero while Emit is iterating a snapshot of
	// entries, guarding against the tombstone slice being compacted
	// out from under a nested Emit (listeners may emit further
	// events from inside a callback).
	emitting int
}

// AddEventListener registers cb for events matching id (or every
// event, if id == EventAll), at the given priority. Higher-priority
// listeners are invoked first.
func (o *Object) AddEventListener(id EventID, priority int, cb Callback, data any) *Listener {
	l := &Listener{id: id, priority: priority, cb: cb, data: data}
	o.listeners.entries = append(o.listeners.entries, l)
	o.listeners.resort()
	return l
}

// RemoveListener detaches l. Safe to call from inside the callback
// currently being invoked by Emit, or to remove any other listener of
// the same object mid-walk.
func (o *Object) RemoveListener(l *Listener) {
	l.removed = true
	if o.listeners.emitting == 0 {
		o.listeners.compact()
	}
}

// SetPriority changes l's priority and re-sorts the listener list.
func (o *Object) SetPriority(l *Listener, priority int) {
	l.priority = priority
	o.listeners.resort()
}

func (ls *listeners) resort() {
	slices.SortFunc(ls.entries, func(a, b *Listener) int {
		return b.priority - a.priority
	})
}

func (ls *listeners) compact() {
	ls.entries = slices.DeleteFunc(ls.entries, func(l *Listener) bool {
		return l.removed
	})
}

func (ls *listeners) clear() {
	ls.entries = nil
}

// Emit dispatches id to every matching listener, highest priority
// first. It is forbidden to emit EventAll itself — that id only
// selects listeners that want to observe everything.
//
// Emit takes a stable snapshot of the listener list before the first
// callback runs, so a callback may unregister itself or any other
// listener (including ones not yet visited) without invalidating the
// walk; such removals take effect for the *next* Emit, not the one in
// progress, except that a removed listener is simply skipped if its
// turn has not yet come.
func (o *Object) Emit(id EventID, info any) error {
	if id == EventAll {
		return ErrEmitAll
	}
	ls := &o.listeners
	snapshot := make([]*Listener, len(ls.entries))
	copy(snapshot, ls.entries)

	ls.emitting++
	for _, l := range snapshot {
		if l.removed {
			continue
		}
		if l.id != id && l.id != EventAll {
			continue
		}
		l.cb(o, id, info)
	}
	ls.emitting--
	if ls.emitting == 0 {
		ls.compact()
	}
	return nil
}

// emitAll is used internally by Fini to emit EventDestroy without
// going through the EventAll-rejection check (EventDestroy is a real,
// emittable id).
func (o *Object) emitAll(id EventID, info any) {
	_ = o.Emit(id, info)
}
