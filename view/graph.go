package view

import (
	"golang.org/x/exp/slices"

	"github.com/peppercomp/pepper/geom"
)

// RepaintScheduler is notified whenever scene-graph state changes in a
// way that requires a future repaint (§4.6 "A global repaint is
// scheduled"). The output package implements it.
type RepaintScheduler interface {
	ScheduleRepaint()
}

// Graph is the compositor-wide scene graph: the global front-to-back
// view stacking order plus hit-testing (§4.6).
type Graph struct {
	scheduler RepaintScheduler
	// order holds every created view, front (topmost, index 0) to back.
	order []*View
}

// NewGraph creates an empty scene graph. scheduler may be nil (e.g. in
// tests exercising pure dirty-bit/stacking logic).
func NewGraph(scheduler RepaintScheduler) *Graph {
	return &Graph{scheduler: scheduler}
}

func (g *Graph) add(v *View) {
	g.order = append(g.order, v)
}

func (g *Graph) remove(v *View) {
	for i, x := range g.order {
		if x == v {
			g.order = append(g.order[:i], g.order[i+1:]...)
			return
		}
	}
}

// Views returns the current global stacking order, front to back.
func (g *Graph) Views() []*View { return append([]*View(nil), g.order...) }

// collectSubtree returns the set of v and every transitive descendant
// of v (§4.6 stacking: "every descendant after it into a contiguous
// run"); the set carries no order, restack takes the order from g.order.
func (g *Graph) collectSubtree(v *View) map[*View]bool {
	set := map[*View]bool{v: true}
	frontier := []*View{v}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, c := range cur.children {
			if !set[c] {
				set[c] = true
				frontier = append(frontier, c)
			}
		}
	}
	return set
}

// restack extracts run (v, and its subtree if subtree is true, in
// their existing relative order) from g.order and replaces g.order
// with place(rest, run), rest being every other view in its existing
// order.
func (g *Graph) restack(v *View, subtree bool, place func(rest []*View, run []*View) []*View) {
	var members map[*View]bool
	if subtree {
		members = g.collectSubtree(v)
	} else {
		members = map[*View]bool{v: true}
	}
	var run, rest []*View
	for _, x := range g.order {
		if members[x] {
			run = append(run, x)
		} else {
			rest = append(rest, x)
		}
	}
	g.order = place(rest, run)
	if g.scheduler != nil {
		g.scheduler.ScheduleRepaint()
	}
}

// StackAbove moves v (and its subtree, if subtree) to immediately
// above pivot (§4.6 op `stack_above`). "Above" means closer to the
// front of the list (index 0).
func (g *Graph) StackAbove(v, pivot *View, subtree bool) {
	g.restack(v, subtree, func(rest, run []*View) []*View {
		idx := indexOf(rest, pivot)
		if idx < 0 {
			return append(run, rest...)
		}
		out := append([]*View(nil), rest[:idx]...)
		out = append(out, run...)
		out = append(out, rest[idx:]...)
		return out
	})
}

// StackBelow moves v (and its subtree, if subtree) to immediately
// below pivot (§4.6 op `stack_below`).
func (g *Graph) StackBelow(v, pivot *View, subtree bool) {
	g.restack(v, subtree, func(rest, run []*View) []*View {
		idx := indexOf(rest, pivot)
		if idx < 0 {
			return append(rest, run...)
		}
		out := append([]*View(nil), rest[:idx+1]...)
		out = append(out, run...)
		out = append(out, rest[idx+1:]...)
		return out
	})
}

// StackTop moves v (and its subtree, if subtree) to the very front of
// the global order (§4.6 op `stack_top`).
func (g *Graph) StackTop(v *View, subtree bool) {
	g.restack(v, subtree, func(rest, run []*View) []*View {
		return append(run, rest...)
	})
}

// StackBottom moves v (and its subtree, if subtree) to the very back
// of the global order (§4.6 op `stack_bottom`).
func (g *Graph) StackBottom(v *View, subtree bool) {
	g.restack(v, subtree, func(rest, run []*View) []*View {
		return append(rest, run...)
	})
}

func indexOf(list []*View, v *View) int {
	return slices.Index(list, v)
}

// Pick implements compositor_pick_view: the front-most view whose
// surface exists, whose bounding region contains (x,y), whose
// view-local mapping of (x,y) lands in [0,w)x[0,h), and whose
// surface's input region contains that local point (§4.6
// "Hit-testing (pick)", §8 property 7).
func (g *Graph) Pick(x, y float32) *View {
	global := geom.Pt(x, y)
	for _, v := range g.order {
		if v.surf == nil {
			continue
		}
		if !v.boundingRegion.Contains(int32(global.X), int32(global.Y)) {
			continue
		}
		local := v.GlobalToLocal(global)
		lx, ly := int32(local.X), int32(local.Y)
		if lx < 0 || ly < 0 || lx >= v.width || ly >= v.height {
			continue
		}
		if !v.surf.InputRegion().Contains(lx, ly) {
			continue
		}
		return v
	}
	return nil
}
