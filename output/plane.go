package output

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/view"
)

// Plane is one hardware (or software-composited primary) scanout
// layer of an output (§4.7). Planes are kept in top-to-bottom order on
// the output; see repaint.go for why that order (not the "bottom-to-top"
// wording of the distilled spec) is what original_source/plane.c's
// clip accumulation actually requires.
type Plane struct {
	output  *Output
	primary bool

	entries []*PlaneEntry

	damage        geom.Region
	clipRegion    geom.Region // region occluded by planes above, as of the last update
	damageHistory []geom.Region
}

// MaxBufferCount bounds the buffer-age damage history (§4.7 "keeps the
// last MAX_BUFFER_COUNT damage regions"); the spec does not give a
// number, original_source's GL renderer uses a small fixed ring size,
// so 4 is chosen to match a typical triple/quad-buffered swapchain.
const MaxBufferCount = 4

func newPlane(o *Output, primary bool) *Plane {
	return &Plane{output: o, primary: primary}
}

// Primary reports whether this is the output's always-present primary
// plane (every unmoved view lands here).
func (p *Plane) Primary() bool { return p.primary }

// ClipRegion returns the region occluded by planes above p, as of the
// last repaint (§8 property 5 material).
func (p *Plane) ClipRegion() geom.Region { return p.clipRegion }

// Entries returns p's current view memberships, in top-to-bottom
// (global stacking) order.
func (p *Plane) Entries() []*PlaneEntry { return append([]*PlaneEntry(nil), p.entries...) }

// Damage returns the plane's accumulated, not-yet-repainted damage in
// output-local space.
func (p *Plane) Damage() geom.Region { return p.damage }

// RepaintRegion implements the buffer-age damage algorithm (§4.7): if
// bufferAge is in [1, len(history)+1], the result is the incoming damage
// unioned with the last bufferAge-1 stored damages; otherwise the
// whole output rectangle is repainted.
func (p *Plane) RepaintRegion(bufferAge int) geom.Region {
	if bufferAge <= 0 || bufferAge > len(p.damageHistory)+1 {
		return geom.RegionFromRect(geom.RectXYWH(0, 0, p.output.width, p.output.height))
	}
	out := p.damage.Clone()
	for i := 0; i < bufferAge-1 && i < len(p.damageHistory); i++ {
		out.UnionRegion(p.damageHistory[i])
	}
	return out
}

// commitDamage rolls the plane's current damage into the buffer-age
// history and clears it, called once repaint has been handed to the
// backend for this frame.
func (p *Plane) commitDamage() {
	hist := append([]geom.Region{p.damage.Clone()}, p.damageHistory...)
	if len(hist) > MaxBufferCount {
		hist = hist[:MaxBufferCount]
	}
	p.damageHistory = hist
	p.damage = geom.NewRegion()
}

// addDamage unions r (output-local) into the plane's pending damage;
// called by PlaneEntry.AddDamage and updatePlanes.
func (p *Plane) addDamage(r geom.Region) {
	p.damage.UnionRegion(r)
}

// PlaneEntry is one view's membership in one plane (§4.7): the thing
// view.View's PlaneAttachment interface is implemented against.
type PlaneEntry struct {
	plane   *Plane
	v       *view.View
	visible geom.Region
	needDamage bool
}

func newPlaneEntry(p *Plane, v *view.View) *PlaneEntry {
	return &PlaneEntry{plane: p, v: v, needDamage: true}
}

// View returns the entry's view.
func (e *PlaneEntry) View() *view.View { return e.v }

// VisibleRegion implements view.PlaneAttachment.
func (e *PlaneEntry) VisibleRegion() geom.Region { return e.visible }

// AddDamage implements view.PlaneAttachment: pushes r (already in
// output-local space by convention, see repaint.go) into the owning
// plane's damage.
func (e *PlaneEntry) AddDamage(r geom.Region) { e.plane.addDamage(r) }

// MarkFullDamage implements view.PlaneAttachment: the view's geometry
// just changed, so the *new* visible region computed for it in the
// next plane update must be added to damage too (its stale region was
// already pushed via AddDamage before the recompute).
func (e *PlaneEntry) MarkFullDamage() {
	e.needDamage = true
}
