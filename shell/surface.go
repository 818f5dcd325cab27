package shell

import (
	"golang.org/x/text/unicode/norm"

	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/seat"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/view"
)

// ConfigureSender is "the send-configure function-pointer appropriate
// to the wire role" (§3): wl_shell_surface's configure is
// fire-and-forget (ack is implicit), xdg_surface's carries a state
// array built from XDGStates and requires the client to call
// AckConfigure, xdg_popup's is a no-op. Binding code supplies the
// closure matching the resource it created; an xdg sender must call
// MarkConfigureSent after it writes the event.
type ConfigureSender func(shsurf *ShellSurface, width, height int32)

type rectGeometry struct{ x, y, w, h int32 }

type savedState struct {
	x, y, w, h int32
	mode       output.Mode
	hasMode    bool
}

type popupState struct {
	seat     *seat.Seat
	x, y     int32
	flags    uint32
	serial   uint32
	buttonUp bool
}

type transientState struct {
	x, y  int32
	flags TransientFlags
}

type maximizedState struct {
	output *output.Output
}

type fullscreenState struct {
	output    *output.Output
	method    FullscreenMethod
	framerate uint32
}

type resizeState struct {
	px, py   float32
	vw, vh   int32
	edges    ResizeEdges
	resizing bool
}

type moveState struct {
	dx, dy float32
}

// ShellSurface is the window-manager wrapper around a client surface
// (§3 "Shell surface").
type ShellSurface struct {
	client *ShellClient
	shell  *Shell

	surf *surface.Surface
	view *view.View

	parent   *ShellSurface
	children []*ShellSurface

	title string
	class string

	geometry        rectGeometry
	nextGeometry    rectGeometry
	hasNextGeometry bool

	nextType Type
	typ      Type

	popup      popupState
	transient  transientState
	maximized  maximizedState
	fullscreen fullscreenState
	saved      savedState

	ackConfigure bool
	mapped       bool

	resize resizeState
	move   moveState

	oldPointerGrab seat.PointerGrab

	lastWidth, lastHeight int32

	hasKeyboardFocus bool

	sendConfigure ConfigureSender
	sendPopupDone PopupDoneSender

	surfaceDestroyListener *object.Listener
	surfaceCommitListener  *object.Listener
	focusEnterListener     *object.Listener
	focusLeaveListener     *object.Listener
}

// NewShellSurface assigns role to surf (failing with whatever
// surface.SetRole returns if a different role is already set),
// allocates the surface's dedicated view, and wires up the commit/
// destroy/focus listeners that drive the rest of §4.9 (§3 "Shell
// surface... a dedicated view").
func (sh *Shell) NewShellSurface(client *ShellClient, surf *surface.Surface, role string, sendConfigure ConfigureSender) (*ShellSurface, error) {
	if err := surf.SetRole(role); err != nil {
		return nil, err
	}

	v := view.New(sh.space, sh.graph)
	v.SetSurface(surf)

	shsurf := &ShellSurface{
		client:        client,
		shell:         sh,
		surf:          surf,
		view:          v,
		sendConfigure: sendConfigure,
		ackConfigure:  true,
	}

	shsurf.surfaceDestroyListener = surf.Object().AddEventListener(object.EventDestroy, 0,
		func(*object.Object, object.EventID, any) { shsurf.handleSurfaceDestroy() }, nil)
	shsurf.surfaceCommitListener = surf.Object().AddEventListener(object.EventSurfaceCommit, 0,
		func(*object.Object, object.EventID, any) { shsurf.handleSurfaceCommit() }, nil)
	shsurf.focusEnterListener = v.Object().AddEventListener(object.EventFocusEnter, 0,
		func(_ *object.Object, _ object.EventID, info any) { shsurf.handleFocus(true, info) }, nil)
	shsurf.focusLeaveListener = v.Object().AddEventListener(object.EventFocusLeave, 0,
		func(_ *object.Object, _ object.EventID, info any) { shsurf.handleFocus(false, info) }, nil)

	client.addSurface(shsurf)
	sh.surfaces = append(sh.surfaces, shsurf)

	return shsurf, nil
}

func (s *ShellSurface) View() *view.View    { return s.view }
func (s *ShellSurface) Type() Type          { return s.typ }
func (s *ShellSurface) Title() string       { return s.title }
func (s *ShellSurface) Class() string       { return s.class }
func (s *ShellSurface) AckConfigured() bool { return s.ackConfigure }
func (s *ShellSurface) Mapped() bool        { return s.mapped }
func (s *ShellSurface) Parent() *ShellSurface { return s.parent }

// SetTitle records the window title in Unicode normalization form NFC,
// so a title assembled by a client out of separately-composed
// characters compares and renders the same as one sent precomposed.
func (s *ShellSurface) SetTitle(title string) { s.title = norm.NFC.String(title) }
func (s *ShellSurface) SetClass(class string) { s.class = class }

// SetPopupDoneSender installs the wire-role-specific popup_done
// closure, invoked when this surface's popup grab ends.
func (s *ShellSurface) SetPopupDoneSender(fn PopupDoneSender) { s.sendPopupDone = fn }

// SetGeometry records the client's window-geometry request, applied
// on the next qualifying commit (§3 "current geometry and
// next-geometry").
func (s *ShellSurface) SetGeometry(x, y, w, h int32) {
	s.nextGeometry = rectGeometry{x, y, w, h}
	s.hasNextGeometry = true
}

// AckConfigure marks the most recent configure as acknowledged,
// unblocking the commit-time map/geometry-apply gate (§4.9
// "Configure/Ack"). No invariant in §8 depends on cross-checking the
// serial, only on ack_configure becoming true, so it is accepted but
// not compared against the last-sent serial.
func (s *ShellSurface) AckConfigure(serial uint32) {
	s.ackConfigure = true
}

// MarkConfigureSent lets an xdg_surface ConfigureSender record that
// the client must explicitly ack before the next commit maps/resizes
// (§4.9 "ack_configure == false until the client acks"). wl_shell's
// sender never calls this, leaving the ack implicit.
func (s *ShellSurface) MarkConfigureSent() { s.ackConfigure = false }

// XDGStates builds the xdg_surface configure state array from the
// surface's pending type and live resize/focus state (§4.9
// "Configure/Ack": "maximized/fullscreen -> corresponding state flag;
// resizing -> resizing; keyboard focus present -> activated").
func (s *ShellSurface) XDGStates() []uint32 {
	var states []uint32
	switch s.nextType {
	case TypeMaximized:
		states = append(states, XDGStateMaximized)
	case TypeFullscreen:
		states = append(states, XDGStateFullscreen)
	}
	if s.resize.resizing {
		states = append(states, XDGStateResizing)
	}
	if s.hasKeyboardFocus {
		states = append(states, XDGStateActivated)
	}
	return states
}

// Ping sends a liveness ping through this surface's shell client
// (§4.9 "Ping/Pong liveness").
func (s *ShellSurface) Ping() { s.client.Ping(s) }

func (s *ShellSurface) sendConfigureTo(w, h int32) {
	if s.sendConfigure != nil {
		s.sendConfigure(s, w, h)
	}
}

func (s *ShellSurface) handleSurfaceCommit() {
	if s.hasNextGeometry {
		s.geometry = s.nextGeometry
		s.hasNextGeometry = false
	}

	if !s.mapped && s.ackConfigure {
		if m := s.mapper(); m != nil {
			m(s)
			s.mapped = true
			s.typ = s.nextType
			s.nextType = TypeNone
		}
	}

	vw, vh := s.view.Size()
	dw, dh := vw-s.lastWidth, vh-s.lastHeight
	if dw != 0 || dh != 0 {
		vx, vy := s.view.Position()
		if s.resize.edges&ResizeLeft != 0 {
			vx -= dw
		}
		if s.resize.edges&ResizeTop != 0 {
			vy -= dh
		}
		s.view.SetPosition(vx, vy)
		s.lastWidth, s.lastHeight = vw, vh
	}
}

func (s *ShellSurface) handleSurfaceDestroy() {
	if s.typ == TypePopup {
		s.endPopupGrab()
	}
	for _, c := range append([]*ShellSurface(nil), s.children...) {
		c.SetParent(nil)
	}
	if s.parent != nil {
		s.parent.removeChild(s)
	}
	s.client.removeSurface(s)
	s.shell.removeSurface(s)
}

func (s *ShellSurface) handleFocus(entered bool, info any) {
	switch info.(type) {
	case *seat.Pointer:
		if entered {
			s.Ping()
		}
	case *seat.Keyboard:
		s.hasKeyboardFocus = entered
		s.sendConfigureTo(0, 0)
	}
}

func (s *ShellSurface) removeChild(c *ShellSurface) {
	for i, x := range s.children {
		if x == c {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

func (sh *Shell) removeSurface(s *ShellSurface) {
	for i, x := range sh.surfaces {
		if x == s {
			sh.surfaces = append(sh.surfaces[:i], sh.surfaces[i+1:]...)
			return
		}
	}
}
