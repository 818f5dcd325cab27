package shell

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/seat"
)

// setType records the requested type as next_type and clears mapped,
// so the next qualifying commit performs the transition (§4.9 "Type
// transitions": "Requesting a type records it in next_type").
func (s *ShellSurface) setType(t Type) {
	s.nextType = t
	s.mapped = false
}

// outputForSurface picks the output a type-transition request with no
// explicit output should use. The legacy policy ("the output on which
// the surface has the biggest surface area") is left as a TODO
// upstream; this falls back to the shell's first registered output,
// same as the legacy fallback path.
func (s *ShellSurface) outputForSurface() *output.Output {
	return s.shell.firstOutput()
}

// SetParent unlinks shsurf from any previous parent's child list,
// relinks it under parent (or detaches it entirely, if parent is
// nil), and sets the view's scene-graph parent so transforms may
// inherit (§4.9 "Parent linkage").
func (s *ShellSurface) SetParent(parent *ShellSurface) {
	if s.parent != nil {
		s.parent.removeChild(s)
	}
	s.parent = parent
	if parent != nil {
		parent.children = append(parent.children, s)
		s.view.SetParent(parent.view)
	} else {
		s.view.SetParent(nil)
	}
}

// SetToplevel requests the toplevel type. Leaving fullscreen with the
// driver method restores the output's previously current mode;
// leaving any of fullscreen/maximized/minimized sends one configure at
// the saved size (§4.9 "Going to toplevel from
// fullscreen/maximized/minimized restores saved geometry").
func (s *ShellSurface) SetToplevel() {
	if s.typ == TypeFullscreen && s.fullscreen.method == FullscreenDriver && s.saved.hasMode && s.fullscreen.output != nil {
		s.fullscreen.output.SetMode(s.saved.mode)
	}
	if s.typ == TypeFullscreen || s.typ == TypeMaximized || s.typ == TypeMinimized {
		s.sendConfigureTo(s.saved.w, s.saved.h)
	}
	s.SetParent(nil)
	s.setType(TypeToplevel)
}

// SetPopup requests the popup type, attached to parent at (x,y)
// relative to it, and remembers the seat/serial the popup grab will
// use once mapped (§4.9 "Going to popup").
func (s *ShellSurface) SetPopup(parent *ShellSurface, sourceSeat *seat.Seat, x, y int32, flags uint32, serial uint32) {
	s.SetParent(parent)
	s.popup = popupState{seat: sourceSeat, x: x, y: y, flags: flags, serial: serial}
	s.setType(TypePopup)
}

// SetTransient requests the transient type, offset (x,y) from parent.
func (s *ShellSurface) SetTransient(parent *ShellSurface, x, y int32, flags TransientFlags) {
	s.SetParent(parent)
	s.transient = transientState{x: x, y: y, flags: flags}
	s.setType(TypeTransient)
}

// SetMaximized requests the maximized type on o (or the shell's
// fallback output, if o is nil), saving the current geometry for a
// later SetToplevel, and sends a configure sized to the output's
// workarea (§4.9 "Going to maximized computes the output's workarea
// ... and sends a configure with those dimensions").
func (s *ShellSurface) SetMaximized(o *output.Output) {
	s.SetParent(nil)
	if o == nil {
		o = s.outputForSurface()
	}
	s.maximized.output = o
	vx, vy := s.view.Position()
	s.saved = savedState{x: vx, y: vy, w: s.geometry.w, h: s.geometry.h}
	s.setType(TypeMaximized)
	if o != nil {
		area := s.shell.Workarea(o)
		s.sendConfigureTo(area.W, area.H)
	}
}

// UnsetMaximized returns to toplevel.
func (s *ShellSurface) UnsetMaximized() { s.SetToplevel() }

// SetFullscreen requests the fullscreen type on o with the given
// method/framerate, saving current geometry and (for the driver
// method) the output's current mode, then sends a configure sized to
// the output (§4.9 "Going to fullscreen").
func (s *ShellSurface) SetFullscreen(o *output.Output, method FullscreenMethod, framerate uint32) {
	s.SetParent(nil)
	if o == nil {
		o = s.outputForSurface()
	}
	s.fullscreen = fullscreenState{output: o, method: method, framerate: framerate}

	vx, vy := s.view.Position()
	s.saved = savedState{x: vx, y: vy, w: s.geometry.w, h: s.geometry.h}
	if o != nil {
		if m, ok := currentMode(o); ok {
			s.saved.mode, s.saved.hasMode = m, true
		}
	}

	s.setType(TypeFullscreen)

	if o != nil {
		r := o.Rect()
		s.sendConfigureTo(r.W, r.H)
	}
}

// UnsetFullscreen restores the output's saved mode (driver method
// only) and returns to toplevel.
func (s *ShellSurface) UnsetFullscreen() {
	if s.fullscreen.method == FullscreenDriver && s.saved.hasMode && s.fullscreen.output != nil {
		s.fullscreen.output.SetMode(s.saved.mode)
	}
	s.SetToplevel()
}

// SetMinimized requests the minimized type.
func (s *ShellSurface) SetMinimized() { s.setType(TypeMinimized) }

// mapper returns the type-specific view-mapping function invoked on
// the transition into s.nextType (§4.9 "Type transitions").
func (s *ShellSurface) mapper() func(*ShellSurface) {
	switch s.nextType {
	case TypeToplevel:
		return mapToplevel
	case TypePopup:
		return mapPopup
	case TypeTransient:
		return mapTransient
	case TypeMaximized:
		return mapMaximized
	case TypeMinimized:
		return mapMinimized
	case TypeFullscreen:
		return mapFullscreen
	default:
		return nil
	}
}

func mapToplevel(s *ShellSurface) {
	if s.typ == TypeFullscreen || s.typ == TypeMaximized || s.typ == TypeMinimized {
		s.view.SetPosition(s.saved.x, s.saved.y)
	} else {
		s.setInitialPosition()
		for _, sv := range s.shell.seats {
			if k := sv.Keyboard(); k != nil {
				k.FocusView(s.view)
			}
		}
	}
	s.view.Map()
}

func mapMinimized(s *ShellSurface) {
	s.view.Unmap()
}

func mapMaximized(s *ShellSurface) {
	if o := s.maximized.output; o != nil {
		area := s.shell.Workarea(o)
		s.view.SetPosition(area.X, area.Y)
	}
	s.view.Map()
	s.shell.graph.StackTop(s.view, true)
}

func mapFullscreen(s *ShellSurface) {
	o := s.fullscreen.output
	if o == nil {
		s.view.Map()
		return
	}

	switch s.fullscreen.method {
	case FullscreenDriver:
		vw, vh := s.view.Size()
		if mode, ok := pickModeToFit(o, vw, vh); ok {
			o.SetMode(mode)
		}
		r := o.Rect()
		s.view.SetPosition(r.X, r.Y)
	case FullscreenScale:
		r := o.Rect()
		vw, vh := s.view.Size()
		scale := fitScale(float32(r.W), float32(r.H), float32(vw), float32(vh))
		x := r.X + int32((float32(r.W)-float32(vw)*scale)/2)
		y := r.Y + int32((float32(r.H)-float32(vh)*scale)/2)
		s.view.SetPosition(x, y)
	default: // FullscreenFill, FullscreenDefault: 1:1 centred
		r := o.Rect()
		vw, vh := s.view.Size()
		s.view.SetPosition(r.X+(r.W-vw)/2, r.Y+(r.H-vh)/2)
	}

	s.view.Map()
	s.shell.graph.StackTop(s.view, true)
}

func mapPopup(s *ShellSurface) {
	if s.parent == nil {
		s.view.Map()
		return
	}
	s.view.SetParent(s.parent.view)
	px, py := s.parent.view.Position()
	s.view.SetPosition(px+s.popup.x, py+s.popup.y)
	s.view.Map()
	s.shell.graph.StackTop(s.view, true)
	s.addPopupGrab()
}

func mapTransient(s *ShellSurface) {
	if s.parent == nil {
		s.view.Map()
		return
	}
	s.view.SetParent(s.parent.view)
	px, py := s.parent.view.Position()
	s.view.SetPosition(px+s.transient.x, py+s.transient.y)
	s.view.Map()
}

// setInitialPosition mirrors shell_surface_set_initial_position:
// place the window at the first seat's pointer, clamped into that
// pointer's containing output (§4.9, shell-surface.c
// shell_surface_set_initial_position). Falls back to (0,0) with no
// pointer-capable seat.
func (s *ShellSurface) setInitialPosition() {
	for _, sv := range s.shell.seats {
		p := sv.Pointer()
		if p == nil {
			continue
		}
		px, py := p.Position()
		o := s.shell.outputAt(px, py)
		if o == nil {
			return
		}
		vw, vh := s.view.Size()
		r := o.Rect()
		vx, vy := clampInitialPosition(px, py, r, vw, vh)
		s.view.SetPosition(vx, vy)
		return
	}
}

func clampInitialPosition(px, py float32, r geom.Rect, vw, vh int32) (int32, int32) {
	vx, vy := int32(px), int32(py)
	if px <= float32(r.X) {
		vx = r.X
	} else if int32(px)+vw > r.X+r.W {
		vx = r.X + r.W - vw
	}
	if py <= float32(r.Y) {
		vy = r.Y
	} else if int32(py)+vh > r.Y+r.H {
		vy = r.Y + r.H - vh
	}
	return vx, vy
}

// fitScale mirrors get_scale: the largest uniform scale that fits a
// (viewW,viewH) content box inside an (outputW,outputH) box while
// preserving aspect ratio.
func fitScale(outputW, outputH, viewW, viewH float32) float32 {
	if (outputW / outputH) < (viewW / viewH) {
		return outputW / viewW
	}
	return outputH / viewH
}

// outputAt returns the first registered output whose rectangle
// contains (x,y), or the first output if none does (shell_pointer_get_output).
func (sh *Shell) outputAt(x, y float32) *output.Output {
	if len(sh.outputs) == 0 {
		return nil
	}
	best := sh.outputs[0]
	for _, o := range sh.outputs {
		r := o.Rect()
		if float32(r.X) <= x && x < float32(r.X+r.W) && float32(r.Y) <= y && y < float32(r.Y+r.H) {
			return o
		}
	}
	return best
}
