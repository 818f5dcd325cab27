package shell

import "github.com/peppercomp/pepper/seat"

// PopupDoneSender fires the wire-role-specific popup_done event, sent
// when a popup grab ends (§4.9 "popup_done event... wire-protocol-
// specific"): xdg_popup's carries the grab serial, wl_shell_surface's
// carries nothing.
type PopupDoneSender func(shsurf *ShellSurface)

// popupGrab is the pointer grab installed while a popup is open (§4.9
// "Popups... grab breaks (ending the popup) on a button press outside
// the popup owner's client").
type popupGrab struct {
	shsurf *ShellSurface
	done   bool
}

func (g *popupGrab) Motion(p *seat.Pointer, time uint32) {
	p.PickAndDispatchMotion(time)
}

func (g *popupGrab) Button(p *seat.Pointer, time uint32, button uint32, pressed bool) {
	shsurf := g.shsurf
	var focusClient any
	if v := p.Focus(); v != nil && v.Surface() != nil {
		focusClient = v.Surface().Resource().Client()
	}

	if focusClient != nil && focusClient == shsurf.client.Client() {
		p.SendButtonToFocus(time, button, pressed)
	} else if shsurf.popup.buttonUp {
		shsurf.endPopupGrab()
	}

	if !pressed {
		shsurf.popup.buttonUp = true
	}
}

func (g *popupGrab) Axis(p *seat.Pointer, time uint32, axis uint32, value float32) {}

func (g *popupGrab) Cancel(p *seat.Pointer) {
	if g.done {
		return
	}
	g.done = true
	g.shsurf.endPopupGrab()
}

// addPopupGrab stashes the popup's seat's current pointer grab and
// installs popupGrab in its place (§4.9 "shell_surface_add_popup_grab").
func (s *ShellSurface) addPopupGrab() {
	if s.popup.seat == nil {
		return
	}
	p := s.popup.seat.Pointer()
	if p == nil {
		return
	}
	s.oldPointerGrab = p.Grab()
	p.SetGrab(&popupGrab{shsurf: s})
	s.popup.buttonUp = false
}

// endPopupGrab restores the seat's previous pointer grab (if the
// popup grab is still the active one) and sends popup_done (§4.9
// "shell_surface_end_popup_grab").
func (s *ShellSurface) endPopupGrab() {
	if s.popup.seat != nil {
		if p := s.popup.seat.Pointer(); p != nil {
			if pg, ok := p.Grab().(*popupGrab); ok {
				pg.done = true
				p.SetGrab(s.oldPointerGrab)
			}
		}
	}
	if s.sendPopupDone != nil {
		s.sendPopupDone(s)
	}
}
