// Package view implements the scene graph (§3 View, §4.6): each View
// is an instance of a surface positioned, transformed and stacked
// independently of the surface's own state, so the same surface can in
// principle back more than one view (§3: "a surface may be instanced
// by more than one view").
package view

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/surface"
)

type dirtyFlags uint8

const (
	dirtyActive dirtyFlags = 1 << iota
	dirtyGeometry
)

// OutputRef is the minimal output shape the view package needs to
// recompute output_overlap and send enter/leave notifications (§4.6
// step 5), kept as an interface so view does not import the output
// package.
type OutputRef interface {
	ID() uint32
	Rect() geom.Rect
}

// PlaneAttachment is a view's membership in one output's plane list,
// owned by the output package (§4.7). View only ever pushes damage
// into it and asks for its last-known visible region; it never
// mutates plane membership itself.
type PlaneAttachment interface {
	VisibleRegion() geom.Region
	AddDamage(r geom.Region)
	MarkFullDamage()
}

// OverlapObserver is notified when a view starts or stops overlapping
// an output, the view-side half of "surface-send-enter" /
// "surface-send-leave" (§4.6 step 5). The wire delivery itself is
// outside this package's scope (§1).
type OverlapObserver interface {
	SurfaceEnteredOutput(v *View, outputID uint32)
	SurfaceLeftOutput(v *View, outputID uint32)
}

// View is one positioned, transformed, stacked instance of a surface
// (§3, §4.6).
type View struct {
	obj   *object.Object
	graph *Graph

	surf *surface.Surface

	parent   *View
	children []*View

	transformInherit bool
	x, y             int32
	width, height    int32
	localTransform   geom.Affine2D

	mapped bool
	active bool

	dirty dirtyFlags

	globalTransform    geom.Affine2D
	invGlobalTransform geom.Affine2D
	boundingRegion     geom.Region
	opaqueRegion       geom.Region

	outputOverlap map[uint32]bool

	planeEntries []PlaneAttachment

	overlapObserver OverlapObserver
}

// New allocates an unmapped, unparented view with no surface, default
// transform-inherit on (§4.6 op `create`).
func New(space *object.Space, g *Graph) *View {
	v := &View{
		obj:              space.Alloc(object.TypeView),
		graph:            g,
		transformInherit: true,
		outputOverlap:    make(map[uint32]bool),
	}
	g.add(v)
	return v
}

func (v *View) Object() *object.Object { return v.obj }

// Destroy removes the view from the scene graph, the surface's view
// list (if any), and its parent's children list (§4.6 op `destroy`).
func (v *View) Destroy() {
	v.SetSurface(nil)
	v.SetParent(nil)
	v.graph.remove(v)
	v.obj.Fini()
}

// Surface returns the view's backing surface, or nil.
func (v *View) Surface() *surface.Surface { return v.surf }

// SetSurface unlinks v from its old surface's back-reference list (if
// any) and hooks it into the new one, marking geometry dirty (§4.6 op
// `set_surface`).
func (v *View) SetSurface(s *surface.Surface) {
	if v.surf != nil {
		v.surf.RemoveView(v)
	}
	v.surf = s
	if s != nil {
		s.AddView(v)
		v.width, v.height = s.Size()
	} else {
		v.width, v.height = 0, 0
	}
	v.markDirty(dirtyGeometry)
}

// ResizeForSurfaceCommit implements surface.Viewer: it is called once
// per commit of the backing surface, for every view instancing it.
func (v *View) ResizeForSurfaceCommit(w, h int32) {
	v.width, v.height = w, h
	v.markDirty(dirtyGeometry)
}

// Parent returns the view's parent in the scene graph, or nil.
func (v *View) Parent() *View { return v.parent }

// Children returns v's direct children, in stacking order.
func (v *View) Children() []*View { return append([]*View(nil), v.children...) }

// SetParent re-links v into p's children list (or detaches it, if p
// is nil), marking active and geometry dirty on v and its descendants
// (§4.6 op `set_parent`).
func (v *View) SetParent(p *View) {
	if v.parent != nil {
		siblings := v.parent.children
		for i, c := range siblings {
			if c == v {
				v.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	v.parent = p
	if p != nil {
		p.children = append(p.children, v)
	}
	v.markDirty(dirtyActive | dirtyGeometry)
}

// SetTransformInherit toggles whether v's global transform composes
// with its parent's (§4.6 op `set_transform_inherit`).
func (v *View) SetTransformInherit(inherit bool) {
	v.transformInherit = inherit
	v.markDirty(dirtyGeometry)
}

// SetPosition sets v's (x,y) offset in parent-local space (§4.6 op
// `set_position`).
func (v *View) SetPosition(x, y int32) {
	v.x, v.y = x, y
	v.markDirty(dirtyGeometry)
}

// Position returns v's current (x,y) offset.
func (v *View) Position() (x, y int32) { return v.x, v.y }

// SetTransform sets v's local transform matrix (§4.6 op
// `set_transform`).
func (v *View) SetTransform(m geom.Affine2D) {
	v.localTransform = m
	v.markDirty(dirtyGeometry)
}

// Resize overrides v's content size directly, for views not backed by
// a surface (e.g. solid-color backgrounds); a later surface commit
// supersedes it via ResizeForSurfaceCommit (§4.6 op `resize`).
func (v *View) Resize(w, h int32) {
	v.width, v.height = w, h
	v.markDirty(dirtyGeometry)
}

// Size returns v's current content size.
func (v *View) Size() (w, h int32) { return v.width, v.height }

// Map / Unmap toggle visibility, propagating the active flag to
// descendants (§4.6 ops `map`/`unmap`).
func (v *View) Map() {
	v.mapped = true
	v.markDirty(dirtyActive)
}

func (v *View) Unmap() {
	v.mapped = false
	v.markDirty(dirtyActive)
}

// Mapped reports whether Map has been called more recently than Unmap.
func (v *View) Mapped() bool { return v.mapped }

// Active reports the view's last-computed active state (§8 property
// 1: active == mapped && (parent == nil || parent.active)).
func (v *View) Active() bool { return v.active }

// SetOverlapObserver installs the output-enter/leave notification
// sink.
func (v *View) SetOverlapObserver(o OverlapObserver) { v.overlapObserver = o }

// AttachPlane/DetachPlane register/unregister a plane membership, used
// by the output package's assign_planes/repaint (§4.7).
func (v *View) AttachPlane(p PlaneAttachment) {
	v.planeEntries = append(v.planeEntries, p)
}

func (v *View) DetachPlane(p PlaneAttachment) {
	for i, x := range v.planeEntries {
		if x == p {
			v.planeEntries = append(v.planeEntries[:i], v.planeEntries[i+1:]...)
			return
		}
	}
}

// PlaneEntries returns v's current plane memberships.
func (v *View) PlaneEntries() []PlaneAttachment { return v.planeEntries }

// BoundingRegion returns v's last-computed axis-aligned bounding
// region in global space.
func (v *View) BoundingRegion() geom.Region { return v.boundingRegion }

// OpaqueRegion returns v's last-computed opaque region in global
// space.
func (v *View) OpaqueRegion() geom.Region { return v.opaqueRegion }

// OutputOverlap reports whether v's bounding region currently
// intersects outputID's rectangle.
func (v *View) OutputOverlap(outputID uint32) bool { return v.outputOverlap[outputID] }

// GlobalToLocal/LocalToGlobal implement `get_local_coordinate` /
// `get_global_coordinate` (§4.6).
func (v *View) GlobalToLocal(p geom.FPoint) geom.FPoint { return v.invGlobalTransform.Transform(p) }
func (v *View) LocalToGlobal(p geom.FPoint) geom.FPoint { return v.globalTransform.Transform(p) }

// markDirty sets flag on v and propagates it to every descendant,
// then asks the graph to schedule a global repaint (§4.6 "Dirty
// propagation").
func (v *View) markDirty(flag dirtyFlags) {
	v.dirty |= flag
	for _, c := range v.children {
		c.markDirty(flag)
	}
	if v.graph.scheduler != nil {
		v.graph.scheduler.ScheduleRepaint()
	}
}

// Update recomputes v's derived state if any dirty bit is set,
// ensuring the parent is up to date first (§4.6 "update(view)").
func (v *View) Update(outputs []OutputRef) {
	if v.dirty == 0 {
		return
	}
	if v.parent != nil {
		v.parent.Update(outputs)
	}

	v.active = v.mapped && (v.parent == nil || v.parent.active)

	for _, p := range v.planeEntries {
		p.AddDamage(p.VisibleRegion())
	}

	if v.dirty&dirtyGeometry != 0 {
		translate := geom.Identity.Offset(geom.Pt(float32(v.x), float32(v.y)))
		var global geom.Affine2D
		if v.transformInherit && v.parent != nil {
			global = v.parent.globalTransform.Mul(translate).Mul(v.localTransform)
		} else {
			global = translate.Mul(v.localTransform)
		}
		v.globalTransform = global
		v.invGlobalTransform = global.Invert()

		v.boundingRegion = geom.RegionFromRect(geom.RectXYWH(0, 0, v.width, v.height)).Transform(global)

		if global.Flag() == geom.FlagIdentity || global.Flag() == geom.FlagTranslate {
			if v.surf != nil {
				origin := global.Transform(geom.Pt(0, 0))
				v.opaqueRegion = v.surf.OpaqueRegion().Translate(int32(origin.X), int32(origin.Y))
			} else {
				v.opaqueRegion = geom.NewRegion()
			}
		} else {
			v.opaqueRegion = geom.NewRegion()
		}

		for _, o := range outputs {
			overlaps := v.boundingRegion.Bounds().Intersects(o.Rect())
			was := v.outputOverlap[o.ID()]
			v.outputOverlap[o.ID()] = overlaps
			if overlaps && !was && v.overlapObserver != nil {
				v.overlapObserver.SurfaceEnteredOutput(v, o.ID())
			} else if !overlaps && was && v.overlapObserver != nil {
				v.overlapObserver.SurfaceLeftOutput(v, o.ID())
			}
		}
	}

	for _, p := range v.planeEntries {
		p.MarkFullDamage()
	}

	v.dirty = 0
}
