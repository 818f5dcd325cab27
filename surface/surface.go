// Package surface implements the double-buffered client drawable
// (§3 Surface, §4.4) and the subsurface parenting layer on top of it
// (§3 Subsurface, §4.4's subsurface commit rules). Both live in one
// package because a subsurface has no existence apart from the
// surface it is attached to: it is folded into the surface's commit
// exactly the way original_source/src/lib/pepper/subsurface.c folds
// into surface.c's commit path.
package surface

import (
	"errors"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/wire"
)

// Protocol errors, sent via wire.Resource.PostError per §7.
var (
	ErrInvalidTransform = errors.New("surface: invalid buffer transform")
	ErrInvalidScale     = errors.New("surface: invalid buffer scale")
	ErrRoleAlreadySet   = errors.New("surface: role already set")
)

// Viewer is implemented by whatever holds a reference to a surface's
// views (pepper/view.View) so Surface can resize and damage them on
// commit without importing the view package (which itself imports
// surface — the back-reference is kept non-owning, per §9's "cyclic
// graphs" design note).
type Viewer interface {
	// ResizeForSurfaceCommit is called for every view of the
	// committed surface with the surface's new size, and must mark
	// the view content-dirty.
	ResizeForSurfaceCommit(w, h int32)
}

// FrameCallback is a pending wl_surface.frame registration.
type FrameCallback struct {
	Resource wire.Callback
}

// bufferState is one half (pending or current) of a surface's
// double-buffered state (§3).
type bufferState struct {
	buf       *buffer.Buffer
	offsetX   int32
	offsetY   int32
	transform geom.OutputTransform
	scale     int32

	damage  geom.Region
	opaque  geom.Region
	input   geom.Region
	frames  []*FrameCallback
}

func newBufferState() bufferState {
	return bufferState{
		transform: geom.TransformNormal,
		scale:     1,
		input:     geom.Infinite(),
	}
}

// Surface is a client's double-buffered drawable (§3, §4.4).
type Surface struct {
	obj      *object.Object
	resource wire.Resource

	pending bufferState
	current bufferState

	// newlyAttached is set by Attach and cleared by the next commit.
	newlyAttached bool
	// pendingBufferDestroyListener cancels a stale destroy listener if the
	// pending buffer is replaced before it is committed.
	pendingBufferDestroyListener *object.Listener

	// bufferDestroyListener is attached to the *current* buffer and
	// detached on the next attach-commit.
	bufferDestroyListener *object.Listener

	width, height int32

	role string

	views []Viewer

	subsurface *Subsurface // non-nil if this surface has been subsurface-ified

	// childSubsurfaces is the set of subsurfaces parented to this
	// surface, in current stacking order (front=bottom per Wayland
	// convention: below-to-above is list order). pendingChildOrder
	// holds reordering requests (place_above/below) until the next
	// commit of this (parent) surface, per §4.4 "pulls the parent's
	// committed sibling ordering ... from its pending siblings list
	// on the parent's commit".
	childSubsurfaces []*Subsurface
	pendingChildOrder []*Subsurface
}

// New allocates a Surface bound to res, with empty pending and
// current state (input region defaults to "everything", per §3).
func New(space *object.Space, res wire.Resource) *Surface {
	return &Surface{
		obj:      space.Alloc(object.TypeSurface),
		resource: res,
		pending:  newBufferState(),
		current:  newBufferState(),
	}
}

func (s *Surface) Object() *object.Object { return s.obj }
func (s *Surface) Resource() wire.Resource { return s.resource }

// Role returns the surface's role string, or "" if none has been set
// yet.
func (s *Surface) Role() string { return s.role }

// SetRole assigns the surface's role the first time it is called;
// subsequent calls with a different role fail with ErrRoleAlreadySet
// (§3: "role once set may not change"). Calling it again with the
// *same* role is allowed (idempotent), matching how xdg_surface's
// get_toplevel may legitimately be requested more than once on a
// wl_shell_surface-less client in some toolkits.
func (s *Surface) SetRole(role string) error {
	if s.role != "" && s.role != role {
		return ErrRoleAlreadySet
	}
	s.role = role
	return nil
}

// Size returns the surface's current size in surface-local space.
func (s *Surface) Size() (w, h int32) { return s.width, s.height }

// CurrentBuffer returns the buffer backing the surface's current
// state, or nil.
func (s *Surface) CurrentBuffer() *buffer.Buffer { return s.current.buf }

// Opaque/Input/Damage return the current-state regions.
func (s *Surface) OpaqueRegion() geom.Region { return s.current.opaque }
func (s *Surface) InputRegion() geom.Region  { return s.current.input }
func (s *Surface) DamageRegion() geom.Region { return s.current.damage }
func (s *Surface) BufferTransform() geom.OutputTransform { return s.current.transform }
func (s *Surface) BufferScale() int32                    { return s.current.scale }
func (s *Surface) BufferOffset() (x, y int32)            { return s.current.offsetX, s.current.offsetY }

// AddView registers v as an instance of this surface; commit resizes
// every registered view (§4.4 commit step 7).
func (s *Surface) AddView(v Viewer) {
	s.views = append(s.views, v)
}

// RemoveView unregisters v.
func (s *Surface) RemoveView(v Viewer) {
	for i, x := range s.views {
		if x == v {
			s.views = append(s.views[:i], s.views[i+1:]...)
			return
		}
	}
}

// Subsurface returns the Subsurface struct if this surface has been
// subsurface-ified, else nil.
func (s *Surface) Subsurface() *Subsurface { return s.subsurface }

// --- request handlers (§4.4) ---

// Attach stores a pending buffer and offset (nil buf detaches).
func (s *Surface) Attach(buf *buffer.Buffer, dx, dy int32) {
	if s.pendingBufferDestroyListener != nil && s.pending.buf != nil {
		s.pending.buf.Object().RemoveListener(s.pendingBufferDestroyListener)
		s.pendingBufferDestroyListener = nil
	}
	s.pending.buf = buf
	s.pending.offsetX, s.pending.offsetY = dx, dy
	s.newlyAttached = true
	if buf != nil {
		s.pendingBufferDestroyListener = buf.Object().AddEventListener(object.EventDestroy, 0, func(*object.Object, object.EventID, any) {
			s.pending.buf = nil
		}, nil)
	}
}

// Damage unions (x,y,w,h) into the pending damage region.
func (s *Surface) Damage(x, y, w, h int32) {
	s.pending.damage.Union(geom.RectXYWH(x, y, w, h))
}

// Frame appends res to the pending frame-callback list.
func (s *Surface) Frame(res wire.Callback) {
	s.pending.frames = append(s.pending.frames, &FrameCallback{Resource: res})
}

// SetOpaqueRegion replaces the pending opaque region; nil resets it
// to empty.
func (s *Surface) SetOpaqueRegion(r *geom.Region) {
	if r == nil {
		s.pending.opaque = geom.NewRegion()
		return
	}
	s.pending.opaque = r.Clone()
}

// SetInputRegion replaces the pending input region; nil resets it to
// "everything".
func (s *Surface) SetInputRegion(r *geom.Region) {
	if r == nil {
		s.pending.input = geom.Infinite()
		return
	}
	s.pending.input = r.Clone()
}

// SetBufferTransform validates and stores the pending buffer
// transform.
func (s *Surface) SetBufferTransform(t geom.OutputTransform) error {
	if !t.Valid() {
		return ErrInvalidTransform
	}
	s.pending.transform = t
	return nil
}

// SetBufferScale validates and stores the pending buffer scale.
func (s *Surface) SetBufferScale(scale int32) error {
	if scale < 1 {
		return ErrInvalidScale
	}
	s.pending.scale = scale
	return nil
}

// OutputAttacher is called, once per output, on every commit that
// carries a newly attached buffer, to let the output's renderer attach
// that buffer and report its pixel size back (§4.4 commit step 1, "Ask every output to let its
// renderer attach the surface and report back (w,h)"). The compositor
// wiring supplies outputs; surface itself has no list of outputs.
type OutputAttacher interface {
	AttachSurfaceBuffer(buf *buffer.Buffer) (w, h int32)
}

// Commit applies pending state to current atomically, per the
// six-step algorithm in §4.4. outputs is consulted only when a new
// buffer was attached this commit.
func (s *Surface) Commit(outputs []OutputAttacher) {
	if s.subsurface != nil && s.subsurface.Synchronized() {
		s.subsurface.cacheFromPending(s)
		return
	}
	s.commitNow(outputs)
	s.flushSubsurfaceOrder()
	s.flushSyncedChildren(outputs)
}

// commitNow performs the actual pending→current promotion, used both
// by a desynchronized/unparented surface's own Commit and by a
// synchronized subsurface's cached-state flush on the parent's
// commit.
func (s *Surface) commitNow(outputs []OutputAttacher) {
	if s.newlyAttached {
		if s.current.buf != nil {
			if s.bufferDestroyListener != nil {
				s.current.buf.Object().RemoveListener(s.bufferDestroyListener)
				s.bufferDestroyListener = nil
			}
			s.current.buf.Unreference()
		}
		if s.pending.buf != nil {
			if s.pendingBufferDestroyListener != nil {
				s.pending.buf.Object().RemoveListener(s.pendingBufferDestroyListener)
				s.pendingBufferDestroyListener = nil
			}
			s.pending.buf.Reference()
			s.bufferDestroyListener = s.pending.buf.Object().AddEventListener(object.EventDestroy, 0, func(*object.Object, object.EventID, any) {
				s.current.buf = nil
			}, nil)
		}
		s.current.buf = s.pending.buf
		s.current.offsetX += s.pending.offsetX
		s.current.offsetY += s.pending.offsetY

		s.newlyAttached = false
		s.pending.buf = nil
		s.pending.offsetX, s.pending.offsetY = 0, 0

		if s.current.buf != nil {
			for _, o := range outputs {
				w, h := o.AttachSurfaceBuffer(s.current.buf)
				s.current.buf.SetSize(w, h)
			}
		}
	}

	s.current.transform = s.pending.transform
	s.current.scale = s.pending.scale

	s.updateSize()

	s.current.frames = append(s.current.frames, s.pending.frames...)
	s.pending.frames = nil

	s.current.damage = s.pending.damage
	s.pending.damage = geom.NewRegion()

	s.current.opaque = s.pending.opaque
	s.current.input = s.pending.input

	for _, v := range s.views {
		v.ResizeForSurfaceCommit(s.width, s.height)
	}

	s.obj.Emit(object.EventSurfaceCommit, s)
}

func (s *Surface) updateSize() {
	if s.current.buf == nil {
		s.width, s.height = 0, 0
		return
	}
	bw, bh := s.current.buf.Size()
	tw, th := s.current.transform.ApplySize(bw, bh)
	s.width = tw / s.current.scale
	s.height = th / s.current.scale
}

// SendFrameCallbacksDone fires done(time) on every pending current
// frame callback exactly once, then clears the list (§4.4: "each
// callback fires at most once").
func (s *Surface) SendFrameCallbacksDone(time uint32) {
	cbs := s.current.frames
	s.current.frames = nil
	for _, cb := range cbs {
		cb.Resource.Done(time)
	}
}

// HasPendingFrameCallbacks reports whether the surface has content
// whose frame callbacks have not yet fired.
func (s *Surface) HasPendingFrameCallbacks() bool {
	return len(s.current.frames) > 0
}
