package shell

import "github.com/peppercomp/pepper/seat"

// moveGrab is the pointer grab installed for the duration of an
// interactive move (§4.9 "Interactive move").
type moveGrab struct {
	shsurf *ShellSurface
}

func (g *moveGrab) Motion(p *seat.Pointer, time uint32) {
	x, y := p.Position()
	g.shsurf.view.SetPosition(int32(g.shsurf.move.dx+x), int32(g.shsurf.move.dy+y))
}

func (g *moveGrab) Button(p *seat.Pointer, time uint32, button uint32, pressed bool) {
	if button == BtnLeft && !pressed {
		p.SetGrab(g.shsurf.oldPointerGrab)
	}
}

func (g *moveGrab) Axis(p *seat.Pointer, time uint32, axis uint32, value float32) {}

func (g *moveGrab) Cancel(p *seat.Pointer) {}

// Move starts an interactive move on behalf of sourceSeat's pointer.
// No-op for fullscreen/maximized/minimized surfaces and for seats
// without a pointer (§4.9 "Interactive move... suppressed while
// fullscreen/maximized/minimized").
func (s *ShellSurface) Move(sourceSeat *seat.Seat) {
	if s.typ == TypeFullscreen || s.typ == TypeMaximized || s.typ == TypeMinimized {
		return
	}
	p := sourceSeat.Pointer()
	if p == nil {
		return
	}

	vx, vy := s.view.Position()
	px, py := p.Position()
	s.move.dx = float32(vx) - px
	s.move.dy = float32(vy) - py

	s.oldPointerGrab = p.Grab()
	p.SetGrab(&moveGrab{shsurf: s})
}

// resizeGrab is the pointer grab installed for the duration of an
// interactive resize (§4.9 "Interactive resize").
type resizeGrab struct {
	shsurf *ShellSurface
}

func (g *resizeGrab) Motion(p *seat.Pointer, time uint32) {
	s := g.shsurf
	x, y := p.Position()
	var dx, dy float32

	switch {
	case s.resize.edges&ResizeLeft != 0:
		dx = s.resize.px - x
	case s.resize.edges&ResizeRight != 0:
		dx = x - s.resize.px
	}

	switch {
	case s.resize.edges&ResizeTop != 0:
		dy = s.resize.py - y
	case s.resize.edges&ResizeBottom != 0:
		dy = y - s.resize.py
	}

	s.sendConfigureTo(s.resize.vw+int32(dx), s.resize.vh+int32(dy))
}

func (g *resizeGrab) Button(p *seat.Pointer, time uint32, button uint32, pressed bool) {
	if button == BtnLeft && !pressed {
		s := g.shsurf
		p.SetGrab(s.oldPointerGrab)
		s.resize.resizing = false
		s.resize.edges = ResizeNone
	}
}

func (g *resizeGrab) Axis(p *seat.Pointer, time uint32, axis uint32, value float32) {}

func (g *resizeGrab) Cancel(p *seat.Pointer) {}

// Resize starts an interactive resize along edges on behalf of
// sourceSeat's pointer. No-op for fullscreen/maximized/minimized
// surfaces and for seats without a pointer.
func (s *ShellSurface) Resize(sourceSeat *seat.Seat, edges ResizeEdges) {
	if s.typ == TypeFullscreen || s.typ == TypeMaximized || s.typ == TypeMinimized {
		return
	}
	p := sourceSeat.Pointer()
	if p == nil {
		return
	}

	s.resize.px, s.resize.py = p.Position()
	s.resize.vw, s.resize.vh = s.geometry.w, s.geometry.h
	s.resize.edges = edges
	s.resize.resizing = true

	s.sendConfigureTo(0, 0)

	s.oldPointerGrab = p.Grab()
	p.SetGrab(&resizeGrab{shsurf: s})
}
