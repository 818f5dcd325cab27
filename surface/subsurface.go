package surface

import (
	"errors"

	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
)

// Protocol errors for subsurface-ification (§7: "subcompositor-owned
// surface used as its own parent").
var (
	ErrAlreadySubsurface = errors.New("surface: already a subsurface")
	ErrOwnAncestor       = errors.New("surface: surface may not be its own ancestor")
)

// Subsurface parents child to parent (§3 Subsurface, §4.4 commit
// rules). A subsurface is synchronized by default until SetDesync.
type Subsurface struct {
	obj    *object.Object
	parent *Surface
	child  *Surface

	x, y               int32 // current, relative to parent
	pendingX, pendingY int32

	synchronized bool

	cached                      *bufferState
	cachedNewlyAttached         bool
	cachedPendingBufferListener *object.Listener
	hasCache                    bool
}

// MakeSubsurface subsurface-ifies child under parent. It fails with
// ErrAlreadySubsurface if child already has a Subsurface, or
// ErrOwnAncestor if parent is child or a descendant of child.
func MakeSubsurface(space *object.Space, parent, child *Surface) (*Subsurface, error) {
	if child.subsurface != nil {
		return nil, ErrAlreadySubsurface
	}
	if isAncestor(child, parent) || parent == child {
		return nil, ErrOwnAncestor
	}
	sub := &Subsurface{
		obj:          space.Alloc(object.TypeSubsurface),
		parent:       parent,
		child:        child,
		synchronized: true,
	}
	child.subsurface = sub
	parent.childSubsurfaces = append(parent.childSubsurfaces, sub)
	parent.pendingChildOrder = append(append([]*Subsurface(nil), parent.childSubsurfaces...))
	return sub, nil
}

// isAncestor reports whether candidate is p or an ancestor of p
// through the subsurface parent chain.
func isAncestor(candidate, p *Surface) bool {
	for cur := p; cur != nil; {
		if cur == candidate {
			return true
		}
		if cur.subsurface == nil {
			return false
		}
		cur = cur.subsurface.parent
	}
	return false
}

func (sub *Subsurface) Object() *object.Object { return sub.obj }
func (sub *Subsurface) Parent() *Surface       { return sub.parent }
func (sub *Subsurface) Child() *Surface        { return sub.child }
func (sub *Subsurface) Synchronized() bool     { return sub.synchronized }

// Position returns the subsurface's current (x,y) relative to its
// parent.
func (sub *Subsurface) Position() (x, y int32) { return sub.x, sub.y }

// SetPosition stores a pending relative position; per the Wayland
// wl_subsurface.set_position semantics it only takes effect on the
// *parent* surface's next commit, never the subsurface's own (§4.4).
func (sub *Subsurface) SetPosition(x, y int32) {
	sub.pendingX, sub.pendingY = x, y
}

// SetSync / SetDesync toggle the commit mode. A subsurface is
// synchronized by default.
func (sub *Subsurface) SetSync()   { sub.synchronized = true }
func (sub *Subsurface) SetDesync() { sub.synchronized = false }

// PlaceAbove / PlaceBelow reorder sub relative to sibling within the
// parent's pending sibling list (§3 "SUPPLEMENTAL: place_above/
// place_below", applied on the parent's next commit like any other
// sibling restack).
func (sub *Subsurface) PlaceAbove(sibling *Subsurface) { sub.parent.reorderPending(sub, sibling, true) }
func (sub *Subsurface) PlaceBelow(sibling *Subsurface) { sub.parent.reorderPending(sub, sibling, false) }

func (s *Surface) reorderPending(sub, sibling *Subsurface, above bool) {
	order := s.pendingChildOrder
	if order == nil {
		order = append([]*Subsurface(nil), s.childSubsurfaces...)
	}
	// Remove sub from its current slot.
	filtered := order[:0]
	for _, c := range order {
		if c != sub {
			filtered = append(filtered, c)
		}
	}
	order = filtered
	idx := len(order)
	for i, c := range order {
		if c == sibling {
			idx = i
			if above {
				idx = i + 1
			}
			break
		}
	}
	order = append(order, nil)
	copy(order[idx+1:], order[idx:])
	order[idx] = sub
	s.pendingChildOrder = order
}

// ChildSubsurfaces returns the surface's subsurfaces in current
// (applied) stacking order, bottom to top.
func (s *Surface) ChildSubsurfaces() []*Subsurface { return s.childSubsurfaces }

// cacheFromPending is invoked by Surface.Commit when the surface is a
// synchronized subsurface: it snapshots exactly what Surface.commitNow
// would have consumed, stashes it as the cache, and resets the
// consumed pending fields (buffer, offsets, damage, frames,
// newly-attached) so the surface keeps accumulating fresh pending
// state — opaque/input regions persist in pending across commits
// exactly as they would for an ordinary commit, since nothing resets
// them there either.
func (sub *Subsurface) cacheFromPending(s *Surface) {
	snapshot := bufferState{
		buf:       s.pending.buf,
		offsetX:   s.pending.offsetX,
		offsetY:   s.pending.offsetY,
		transform: s.pending.transform,
		scale:     s.pending.scale,
		damage:    s.pending.damage,
		opaque:    s.pending.opaque.Clone(),
		input:     s.pending.input.Clone(),
		frames:    s.pending.frames,
	}
	sub.cached = &snapshot
	sub.cachedNewlyAttached = s.newlyAttached
	sub.cachedPendingBufferListener = s.pendingBufferDestroyListener
	sub.hasCache = true

	s.pending.buf = nil
	s.pending.offsetX, s.pending.offsetY = 0, 0
	s.pending.damage = geom.NewRegion()
	s.pending.frames = nil
	s.newlyAttached = false
	s.pendingBufferDestroyListener = nil
}

// flush promotes a synchronized subsurface's cached state into its
// child surface's current state, then recurses into the child's own
// synchronized grandchildren (a synced subsurface's cache flush is
// itself a "commit" for nested subsurfaces).
func (sub *Subsurface) flush(outputs []OutputAttacher) {
	child := sub.child
	if sub.hasCache {
		savedPending := child.pending
		savedNewlyAttached := child.newlyAttached
		savedListener := child.pendingBufferDestroyListener

		child.pending = *sub.cached
		child.newlyAttached = sub.cachedNewlyAttached
		child.pendingBufferDestroyListener = sub.cachedPendingBufferListener

		child.commitNow(outputs)

		child.pending = savedPending
		child.newlyAttached = savedNewlyAttached
		child.pendingBufferDestroyListener = savedListener

		sub.hasCache = false
		sub.cached = nil
	}

	// A descendant's own cache lives on its subsurfaces, parented under
	// child, not under sub — so the cascade must continue regardless of
	// whether this level had anything cached itself.
	child.flushSubsurfaceOrder()
	child.flushSyncedChildren(outputs)
}

// flushSubsurfaceOrder applies a pending sibling restack (place_above/
// below) and promotes every direct child subsurface's pending
// relative position, both gated on *this* (parent) surface's commit
// per §4.4.
func (s *Surface) flushSubsurfaceOrder() {
	if s.pendingChildOrder != nil {
		s.childSubsurfaces = s.pendingChildOrder
		s.pendingChildOrder = nil
	}
	for _, c := range s.childSubsurfaces {
		c.x, c.y = c.pendingX, c.pendingY
	}
}

// flushSyncedChildren flushes the cache of every synchronized direct
// child subsurface. Desynchronized children commit independently
// (their own Commit calls commitNow directly) and are left alone.
func (s *Surface) flushSyncedChildren(outputs []OutputAttacher) {
	for _, c := range s.childSubsurfaces {
		if c.synchronized {
			c.flush(outputs)
		}
	}
}
