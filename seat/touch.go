package seat

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire"
)

// TouchResource is a client's bound wl_touch object (§6 wl_touch with
// release semantics).
type TouchResource interface {
	wire.Resource
	Down(serial uint32, time uint32, id int32, x, y float32)
	Up(serial uint32, time uint32, id int32)
	Motion(time uint32, id int32, x, y float32)
	Frame()
	Cancel()
}

// TouchGrab is the vtable a grab installs to intercept touch input
// (§4.8 "Grab stack").
type TouchGrab interface {
	Down(t *Touch, time uint32, id int32, x, y float32)
	Up(t *Touch, time uint32, id int32)
	Motion(t *Touch, time uint32, id int32, x, y float32)
	Frame(t *Touch)
	Cancel(t *Touch)
}

// touchPoint is one active contact, keyed by its slot id (§4.8
// "Holds a list of touch points keyed by slot id").
type touchPoint struct {
	id                   int32
	x, y                 float32
	focus                *view.View
	focusResource        TouchResource
	focusDestroyListener *object.Listener
}

// Touch is one seat's touch substructure (§3, §4.8).
type Touch struct {
	seat *Seat

	resources []TouchResource
	points    map[int32]*touchPoint

	grab TouchGrab

	graph *view.Graph
}

func newTouch(s *Seat) *Touch {
	t := &Touch{seat: s, points: make(map[int32]*touchPoint)}
	t.grab = &defaultTouchGrab{}
	return t
}

// AttachGraph installs the scene graph Down hit-tests against.
func (t *Touch) AttachGraph(g *view.Graph) { t.graph = g }

// AddResource registers a client's bound wl_touch.
func (t *Touch) AddResource(r TouchResource) { t.resources = append(t.resources, r) }

// SetGrab installs g, invoking the previous grab's Cancel first.
func (t *Touch) SetGrab(g TouchGrab) {
	if t.grab != nil {
		t.grab.Cancel(t)
	}
	t.grab = g
}

// Grab returns the currently active grab.
func (t *Touch) Grab() TouchGrab { return t.grab }

// Points returns the currently active touch ids.
func (t *Touch) Points() []int32 {
	ids := make([]int32, 0, len(t.points))
	for id := range t.points {
		ids = append(ids, id)
	}
	return ids
}

// Down adds or updates the touch point for id and dispatches to the
// grab (§4.8 "Down adds or updates a point with a focus view").
func (t *Touch) Down(time uint32, id int32, x, y float32) {
	p, ok := t.points[id]
	if !ok {
		p = &touchPoint{id: id}
		t.points[id] = p
	}
	p.x, p.y = x, y
	t.grab.Down(t, time, id, x, y)
}

// Motion updates coordinates for an existing point and dispatches to
// the grab.
func (t *Touch) Motion(time uint32, id int32, x, y float32) {
	p, ok := t.points[id]
	if !ok {
		return
	}
	p.x, p.y = x, y
	t.grab.Motion(t, time, id, x, y)
}

// Up dispatches to the grab (while the point's focus is still live)
// and then removes the touch point (§4.8 "up removes the point").
func (t *Touch) Up(time uint32, id int32) {
	t.grab.Up(t, time, id)
	if p, ok := t.points[id]; ok {
		if p.focusDestroyListener != nil {
			p.focus.Object().RemoveListener(p.focusDestroyListener)
		}
		delete(t.points, id)
	}
}

// Frame dispatches a touch frame (batch terminator) to the grab.
func (t *Touch) Frame() { t.grab.Frame(t) }

// setPointFocus binds point id to v/resource and arms a destroy
// listener mirroring Pointer/Keyboard's focus-liveness handling.
func (t *Touch) setPointFocus(id int32, v *view.View, resource TouchResource) {
	p, ok := t.points[id]
	if !ok {
		return
	}
	p.focus, p.focusResource = v, resource
	if v != nil {
		p.focusDestroyListener = v.Object().AddEventListener(object.EventDestroy, 0, func(*object.Object, object.EventID, any) {
			p.focus = nil
			p.focusResource = nil
			t.grab.Cancel(t)
		}, nil)
	}
}

// defaultTouchGrab implements §4.8's default touch grab: hit-test on
// Down, forward subsequent events to the point's focused client.
type defaultTouchGrab struct{}

func (g *defaultTouchGrab) Down(t *Touch, time uint32, id int32, x, y float32) {
	var picked *view.View
	if t.graph != nil {
		picked = t.graph.Pick(x, y)
	}
	var resource TouchResource
	if picked != nil && picked.Surface() != nil {
		client := picked.Surface().Resource().Client()
		for _, r := range t.resources {
			if r.Client() == client {
				resource = r
				break
			}
		}
	}
	t.setPointFocus(id, picked, resource)
	if resource != nil {
		local := picked.GlobalToLocal(geom.Pt(x, y))
		resource.Down(t.seat.nextSerial(), time, id, local.X, local.Y)
	}
}

func (g *defaultTouchGrab) Motion(t *Touch, time uint32, id int32, x, y float32) {
	p, ok := t.points[id]
	if !ok || p.focusResource == nil {
		return
	}
	local := p.focus.GlobalToLocal(geom.Pt(x, y))
	p.focusResource.Motion(time, id, local.X, local.Y)
}

func (g *defaultTouchGrab) Up(t *Touch, time uint32, id int32) {
	p, ok := t.points[id]
	if !ok || p.focusResource == nil {
		return
	}
	p.focusResource.Up(t.seat.nextSerial(), time, id)
}

func (g *defaultTouchGrab) Frame(t *Touch) {
	for _, r := range t.resources {
		r.Frame()
	}
}

func (g *defaultTouchGrab) Cancel(t *Touch) {}
