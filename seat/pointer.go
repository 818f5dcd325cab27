package seat

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire"
)

// PointerResource is a client's bound wl_pointer object (§6 wl_pointer
// with release semantics). It embeds wire.Resource so the default
// grab can match a resource to the client owning a picked view's
// surface; the event methods mirror wl_pointer's wire events
// directly since wl_pointer carries several distinct event shapes
// rather than wire.Callback's single Done.
type PointerResource interface {
	wire.Resource
	Enter(serial uint32, surfaceX, surfaceY float32)
	Leave(serial uint32)
	Motion(time uint32, surfaceX, surfaceY float32)
	Button(serial, time, button, state uint32)
	Axis(time uint32, axis uint32, value float32)
	Frame()
}

// PointerGrab is the vtable a grab installs to intercept pointer input
// (§4.8 "Grab stack"). Grab implementations stash and restore the
// previous grab themselves when nesting (e.g. the desktop-shell's
// move grab).
type PointerGrab interface {
	Motion(p *Pointer, time uint32)
	Button(p *Pointer, time uint32, button uint32, pressed bool)
	Axis(p *Pointer, time uint32, axis uint32, value float32)
	Cancel(p *Pointer)
}

// Pointer is one seat's pointer substructure (§3, §4.8).
type Pointer struct {
	seat *Seat

	resources []PointerResource

	x, y   float32
	clampW geom.Rect // clamp rectangle; only applied while clamped is set
	clamped bool

	xVelocity, yVelocity float32

	cursorView          *view.View
	cursorHotspotX       int32
	cursorHotspotY       int32

	focus             *view.View
	focusSerial       uint32
	focusResource     PointerResource
	focusDestroyListener *object.Listener

	grab PointerGrab

	graph *view.Graph
}

func newPointer(s *Seat) *Pointer {
	p := &Pointer{seat: s, xVelocity: 1, yVelocity: 1}
	p.grab = &defaultPointerGrab{}
	return p
}

// AttachGraph installs the scene graph the default grab hit-tests
// against; called once by whatever owns both the seat and the graph
// (the compositor root).
func (p *Pointer) AttachGraph(g *view.Graph) { p.graph = g }

// AddResource registers a client's bound wl_pointer.
func (p *Pointer) AddResource(r PointerResource) { p.resources = append(p.resources, r) }

// Position returns the pointer's current (clamped) position.
func (p *Pointer) Position() (x, y float32) { return p.x, p.y }

// SetClampRegion restricts future motion to rect when clamp is true;
// with clamp false, rect is ignored and motion is unclamped, which is
// also the default, matching the "(−∞,∞) by default" wording.
func (p *Pointer) SetClampRegion(rect geom.Rect, clamp bool) {
	p.clampW, p.clamped = rect, clamp
}

func (p *Pointer) clampPosition(x, y float32) (float32, float32) {
	if !p.clamped {
		return x, y
	}
	if x < float32(p.clampW.MinX()) {
		x = float32(p.clampW.MinX())
	}
	if x > float32(p.clampW.MaxX()) {
		x = float32(p.clampW.MaxX())
	}
	if y < float32(p.clampW.MinY()) {
		y = float32(p.clampW.MinY())
	}
	if y > float32(p.clampW.MaxY()) {
		y = float32(p.clampW.MaxY())
	}
	return x, y
}

// SetVelocityScale sets the relative-motion scale factors (§4.8
// "relative scaled by x_velocity, y_velocity").
func (p *Pointer) SetVelocityScale(x, y float32) { p.xVelocity, p.yVelocity = x, y }

// MotionAbsolute moves the pointer to an absolute position and
// invokes the active grab's Motion (§4.8 Pointer).
func (p *Pointer) MotionAbsolute(time uint32, x, y float32) {
	p.x, p.y = p.clampPosition(x, y)
	p.afterMotion(time)
}

// MotionRelative moves the pointer by (dx,dy) scaled by the
// configured velocity factors.
func (p *Pointer) MotionRelative(time uint32, dx, dy float32) {
	p.x, p.y = p.clampPosition(p.x+dx*p.xVelocity, p.y+dy*p.yVelocity)
	p.afterMotion(time)
}

func (p *Pointer) afterMotion(time uint32) {
	if p.cursorView != nil {
		p.cursorView.SetPosition(int32(p.x)-p.cursorHotspotX, int32(p.y)-p.cursorHotspotY)
	}
	p.grab.Motion(p, time)
}

// Button dispatches a button event to the active grab; pressed is true
// for a press and false for a release.
func (p *Pointer) Button(time uint32, button uint32, pressed bool) {
	p.grab.Button(p, time, button, pressed)
}

// Axis dispatches a scroll/axis event to the active grab.
func (p *Pointer) Axis(time uint32, axis uint32, value float32) {
	p.grab.Axis(p, time, axis, value)
}

// SetCursor assigns the view a client wants rendered as the pointer
// cursor, with (hotspotX,hotspotY) as its surface-local hotspot (§4.8
// "A cursor view, if assigned by a client, is repositioned to
// (x-hotspot_x, y-hotspot_y)").
func (p *Pointer) SetCursor(v *view.View, hotspotX, hotspotY int32) {
	p.cursorView, p.cursorHotspotX, p.cursorHotspotY = v, hotspotX, hotspotY
	if v != nil {
		v.SetPosition(int32(p.x)-hotspotX, int32(p.y)-hotspotY)
	}
}

// SetGrab installs g as the active grab, invoking the previous grab's
// Cancel first so it can release any state it held (§4.8 "Grab
// stack").
func (p *Pointer) SetGrab(g PointerGrab) {
	if p.grab != nil {
		p.grab.Cancel(p)
	}
	p.grab = g
}

// Grab returns the currently active grab.
func (p *Pointer) Grab() PointerGrab { return p.grab }

// Focus returns the view currently receiving pointer events, if any.
func (p *Pointer) Focus() *view.View { return p.focus }

// SetFocus changes the focused view, sending Leave to the previous
// focus resource (if bound) and Enter to the new one with a fresh
// serial, and arms a destroy listener that nulls focus and cancels
// the grab if the view disappears (§3 "a focus may only reference a
// live view", §4.8 hit-testing).
func (p *Pointer) SetFocus(v *view.View, resource PointerResource) {
	if p.focus == v {
		return
	}
	if p.focus != nil {
		if p.focusDestroyListener != nil {
			p.focus.Object().RemoveListener(p.focusDestroyListener)
			p.focusDestroyListener = nil
		}
		if p.focusResource != nil {
			p.focusResource.Leave(p.nextFocusSerial())
		}
		p.focus.Object().Emit(object.EventFocusLeave, p)
	}
	p.focus, p.focusResource = v, resource
	if v != nil {
		lx, ly := p.localFocusPosition()
		if resource != nil {
			resource.Enter(p.nextFocusSerial(), lx, ly)
		}
		p.focusDestroyListener = v.Object().AddEventListener(object.EventDestroy, 0, func(*object.Object, object.EventID, any) {
			p.focus = nil
			p.focusResource = nil
			p.grab.Cancel(p)
		}, nil)
		v.Object().Emit(object.EventFocusEnter, p)
	}
}

func (p *Pointer) nextFocusSerial() uint32 {
	p.focusSerial = p.seat.nextSerial()
	return p.focusSerial
}

func (p *Pointer) localFocusPosition() (float32, float32) {
	if p.focus == nil {
		return 0, 0
	}
	local := p.focus.GlobalToLocal(geom.Pt(p.x, p.y))
	return local.X, local.Y
}

// defaultPointerGrab implements §4.8's default pointer grab: hit-test
// on every motion, swap focus (Leave/Enter with a fresh serial) if the
// picked view changed, and forward motion/button/axis to the focused
// view's client.
type defaultPointerGrab struct{}

func (g *defaultPointerGrab) Motion(p *Pointer, time uint32) {
	p.PickAndDispatchMotion(time)
}

// PickAndDispatchMotion hit-tests the pointer's current position
// against its attached graph, swaps focus if the picked view changed,
// and forwards a Motion event to whichever resource now holds focus.
// It is the default grab's own Motion behavior, exposed so other
// grabs (e.g. desktop-shell's popup grab, which hit-tests exactly the
// same way) can reuse it instead of re-implementing hit-testing.
func (p *Pointer) PickAndDispatchMotion(time uint32) {
	if p.graph != nil {
		if picked := p.graph.Pick(p.x, p.y); picked != p.focus {
			p.SetFocus(picked, p.resourceFor(picked))
		}
	}
	if p.focusResource != nil {
		lx, ly := p.localFocusPosition()
		p.focusResource.Motion(time, lx, ly)
	}
}

func (g *defaultPointerGrab) Button(p *Pointer, time uint32, button uint32, pressed bool) {
	p.SendButtonToFocus(time, button, pressed)
}

// SendButtonToFocus forwards a button event to the currently focused
// resource, if any, with a fresh serial.
func (p *Pointer) SendButtonToFocus(time, button uint32, pressed bool) {
	if p.focusResource == nil {
		return
	}
	state := uint32(0)
	if pressed {
		state = 1
	}
	p.focusResource.Button(p.nextFocusSerial(), time, button, state)
}

// FocusResource returns the resource currently bound to the focused
// view, or nil.
func (p *Pointer) FocusResource() PointerResource { return p.focusResource }

func (g *defaultPointerGrab) Axis(p *Pointer, time uint32, axis uint32, value float32) {
	if p.focusResource != nil {
		p.focusResource.Axis(time, axis, value)
	}
}

func (g *defaultPointerGrab) Cancel(p *Pointer) {}

// resourceFor returns the PointerResource, among those bound on this
// pointer, belonging to the same client that owns v's surface (or nil
// if v has no surface, or that client never bound a wl_pointer).
func (p *Pointer) resourceFor(v *view.View) PointerResource {
	if v == nil || v.Surface() == nil {
		return nil
	}
	client := v.Surface().Resource().Client()
	for _, r := range p.resources {
		if r.Client() == client {
			return r
		}
	}
	return nil
}
