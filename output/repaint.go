package output

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/view"
)

// siblingRefs returns the view.OutputRef list used to recompute
// output_overlap; injected via SetSiblings by whatever owns the full
// output set (the compositor), defaulting to just this output if none
// was set (useful for single-output tests).
func (o *Output) siblingRefs() []view.OutputRef {
	if o.siblings != nil {
		return o.siblings()
	}
	return []view.OutputRef{o}
}

// SetSiblings installs the callback used to gather every output's
// view.OutputRef for output_overlap recomputation (§4.6 step 5).
func (o *Output) SetSiblings(f func() []view.OutputRef) {
	o.siblings = f
}

// repaint implements `repaint(output)` (§4.7 steps 1-6).
//
// Planes are walked top-to-bottom, not bottom-to-top as the distilled
// spec's prose literally says: original_source/src/lib/pepper/plane.c
// accumulates the cross-plane occlusion clip by processing higher
// planes first (their opaque contribution must be known before a
// lower plane subtracts it), which only produces correct occlusion
// (§8 property 5) if the walk starts at the topmost plane.
func (o *Output) repaint(timestampMs uint32) {
	outputs := o.siblingRefs()
	for _, v := range o.graph.Views() {
		v.Update(outputs)
	}

	o.buildViewList()

	assignment := o.backend.AssignPlanes(o, o.currentViewList)
	o.updatePlanes(assignment)

	planes := o.planesTopToBottom()
	o.backend.Repaint(o, planes)
	for _, p := range planes {
		p.commitDamage()
	}

	o.frame.pending = true
	o.frame.scheduled = false

	for _, v := range o.currentViewList {
		if s := v.Surface(); s != nil {
			s.SendFrameCallbacksDone(timestampMs)
		}
	}
}

// buildViewList implements §4.7 step 2: for every view in global
// order, skip it (detaching its plane membership) unless it is
// active, overlaps this output, and has a surface — following
// original_source/src/lib/pepper/output.c's actual condition
// (`!active || !overlap || !surface` => skip), not the distilled
// spec's operator-precedence-garbled wording of the same rule.
func (o *Output) buildViewList() {
	var list []*view.View
	for _, v := range o.graph.Views() {
		if !v.Active() || !v.OutputOverlap(o.id) || v.Surface() == nil {
			o.detachView(v)
			continue
		}
		list = append(list, v)
	}
	o.currentViewList = list
}

func (o *Output) detachView(v *view.View) {
	e, ok := o.viewEntries[v]
	if !ok {
		return
	}
	delete(o.viewEntries, v)
	v.DetachPlane(e)
}

// updatePlanes implements §4.7 step 3's "unmoved views stay on the
// primary plane" and all of step 4: it walks o.currentViewList once,
// attaching each view to its backend-assigned plane (or the primary
// plane), then recomputes every plane's entries' visible regions and
// damage, processing planes top-to-bottom so each one sees the
// accumulated opaque clip of every plane above it.
func (o *Output) updatePlanes(assignment map[*view.View]*Plane) {
	planes := o.planesTopToBottom()
	for _, p := range planes {
		p.entries = p.entries[:0]
	}

	for _, v := range o.currentViewList {
		target := assignment[v]
		if target == nil {
			target = o.primaryPlane
		}
		e, ok := o.viewEntries[v]
		if !ok || e.plane != target {
			if ok {
				v.DetachPlane(e)
			}
			e = newPlaneEntry(target, v)
			o.viewEntries[v] = e
			v.AttachPlane(e)
		}
		target.entries = append(target.entries, e)
	}

	outputRect := o.Rect()
	clip := geom.NewRegion() // global-space region occluded by planes already processed (above)

	toPhysical := o.logicalToPhysical()
	applyOutputTransform := toPhysical.Flag() != geom.FlagIdentity

	for _, p := range planes {
		p.clipRegion = clip.Clone()
		planeClip := geom.NewRegion() // this plane's own opaque contribution, global space

		for _, e := range p.entries {
			v := e.v
			visible := v.BoundingRegion().Clone()
			visible.SubtractRegion(clip)
			visible = visible.IntersectRegion(geom.RegionFromRect(outputRect))
			visible = visible.Translate(-o.x, -o.y)
			if applyOutputTransform {
				visible = visible.Transform(toPhysical)
			}
			e.visible = visible

			planeClip.UnionRegion(v.OpaqueRegion())

			if e.needDamage {
				p.addDamage(e.visible)
				e.needDamage = false
			}

			if s := v.Surface(); s != nil {
				o.backend.FlushSurfaceDamage(s)
			}
		}

		clip.UnionRegion(planeClip)
	}
}
