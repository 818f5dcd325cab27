// Package buffer implements the refcounted handle onto a
// client-supplied pixel source (§4.3). A Buffer carries no pixel data
// itself — width/height stay zero until some output's renderer
// attaches it and reports them back (§3 Buffer, §4.4 commit step 1).
package buffer

import (
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/wire"
)

// Releaser is implemented by a wire.Resource that can receive the
// wl_buffer.release wire message. Not every resource needs it (a
// buffer created for a test fixture may not), so it is queried with a
// type assertion rather than folded into wire.Resource itself.
type Releaser interface {
	Release()
}

// Buffer is a reference-counted handle onto one client wl_buffer.
type Buffer struct {
	obj      *object.Object
	resource wire.Resource
	refcount int
	width    int32
	height   int32
}

// Object returns the buffer's event-bus handle.
func (b *Buffer) Object() *object.Object { return b.obj }

// Resource returns the wire resource the buffer wraps.
func (b *Buffer) Resource() wire.Resource { return b.resource }

// Size returns the buffer's pixel dimensions as last reported by a
// renderer's attach call, or (0,0) if none has attached it yet.
func (b *Buffer) Size() (w, h int32) { return b.width, b.height }

// SetSize is called by an output's renderer after Surface.commit asks
// it to attach the buffer, recording the pixel dimensions the core
// itself cannot know (§3: "Width/height are not known to the core
// until a renderer attaches the buffer and reports them back").
func (b *Buffer) SetSize(w, h int32) {
	b.width, b.height = w, h
}

// Reference increments the refcount. Surfaces reference a buffer when
// it is promoted from pending to current on commit; renderers that
// retain a buffer for async GPU use must add their own reference
// before doing so (§5).
func (b *Buffer) Reference() {
	b.refcount++
}

// Unreference decrements the refcount. When it reaches zero, the
// buffer-release object event fires and, if the wrapped resource
// supports it, the wl_buffer.release wire message is queued. The
// Buffer object itself survives until the wire layer destroys the
// underlying resource (Table.Destroy) — only the content is released.
func (b *Buffer) Unreference() {
	if b.refcount == 0 {
		return
	}
	b.refcount--
	if b.refcount == 0 {
		b.obj.Emit(object.EventBufferRelease, b)
		if r, ok := b.resource.(Releaser); ok {
			r.Release()
		}
	}
}

// Refcount reports the current reference count, for tests and
// invariant checks.
func (b *Buffer) Refcount() int { return b.refcount }

// Table owns the resource→Buffer wrapper registry for one compositor,
// matching the "returns the existing wrapper if any" half of
// pepper_buffer_from_resource (§4.3); the space is the object id
// table the buffer's event-bus handle is allocated from.
type Table struct {
	space      *object.Space
	byResource map[wire.Resource]*Buffer
}

// NewTable creates an empty buffer registry bound to space.
func NewTable(space *object.Space) *Table {
	return &Table{space: space, byResource: make(map[wire.Resource]*Buffer)}
}

// FromResource returns the Buffer wrapping res, allocating one (with
// a fresh object-bus handle, refcount zero) the first time res is
// seen.
func (t *Table) FromResource(res wire.Resource) *Buffer {
	if b, ok := t.byResource[res]; ok {
		return b
	}
	b := &Buffer{
		obj:      t.space.Alloc(object.TypeBuffer),
		resource: res,
	}
	t.byResource[res] = b
	return b
}

// Lookup returns the Buffer already wrapping res, if any, without
// allocating.
func (t *Table) Lookup(res wire.Resource) (*Buffer, bool) {
	b, ok := t.byResource[res]
	return b, ok
}

// Destroy tears down the Buffer wrapping res: the hosting wire
// library calls this when the client destroys the wl_buffer resource
// (§3: "Buffer destruction fires object-destroy which surfaces listen
// to"). It is a no-op if res was never wrapped.
func (t *Table) Destroy(res wire.Resource) {
	b, ok := t.byResource[res]
	if !ok {
		return
	}
	delete(t.byResource, res)
	b.obj.Fini()
}
