// Package shell implements the desktop-shell window-management layer
// built on top of the scene graph and seat input dispatch (§4.9):
// window roles, the configure/ack protocol, interactive move/resize,
// fullscreen/maximize/minimize, popups and parent linkage, and
// per-client ping/pong liveness tracking.
package shell

import (
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/seat"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire"
)

// Shell is the desktop_shell_init entry point's receiver (§4.9): it
// registers no wire globals itself (those are the hosting binding
// code's job, per §1's wire-codec boundary) but owns every shell
// surface, per-client liveness state, the seats it dispatches
// move/resize/popup grabs through, and the outputs it consults for
// workarea and fullscreen mode selection.
type Shell struct {
	space *object.Space
	graph *view.Graph

	outputs []*output.Output
	seats   []*seat.Seat

	clients map[wire.Client]*ShellClient

	surfaces []*ShellSurface

	serial uint32

	// workareaInsets holds, per output id, the top/bottom/left/right
	// strip reserved for panels (§9 open question 3: "the whole
	// output rectangle minus any reserved panel strips, which the
	// window manager publishes").
	workareaInsets map[uint32]insets
}

type insets struct{ top, bottom, left, right int32 }

// New creates a Shell. space and graph back every shell surface's
// dedicated view (§3 "a dedicated view").
func New(space *object.Space, graph *view.Graph) *Shell {
	return &Shell{
		space:          space,
		graph:          graph,
		clients:        make(map[wire.Client]*ShellClient),
		workareaInsets: make(map[uint32]insets),
	}
}

// shellClientFor returns the ShellClient for client, creating it (with
// sendPing as its ping delivery function) on first use.
func (sh *Shell) shellClientFor(client wire.Client, sendPing PingSender) *ShellClient {
	if sc, ok := sh.clients[client]; ok {
		return sc
	}
	sc := newShellClient(sh, client, sendPing)
	sh.clients[client] = sc
	return sc
}

// AddOutput registers an output the shell may place maximized/
// fullscreen surfaces on.
func (sh *Shell) AddOutput(o *output.Output) { sh.outputs = append(sh.outputs, o) }

// RemoveOutput unregisters an output.
func (sh *Shell) RemoveOutput(o *output.Output) {
	for i, x := range sh.outputs {
		if x == o {
			sh.outputs = append(sh.outputs[:i], sh.outputs[i+1:]...)
			return
		}
	}
}

// AddSeat registers a seat the shell may focus toplevels on and
// install move/resize/popup grabs through.
func (sh *Shell) AddSeat(s *seat.Seat) { sh.seats = append(sh.seats, s) }

// RemoveSeat unregisters a seat.
func (sh *Shell) RemoveSeat(s *seat.Seat) {
	for i, x := range sh.seats {
		if x == s {
			sh.seats = append(sh.seats[:i], sh.seats[i+1:]...)
			return
		}
	}
}

func (sh *Shell) nextSerial() uint32 {
	sh.serial++
	return sh.serial
}

// firstOutput picks an output by the legacy FIXME policy: "find the
// output on which the surface has the biggest surface area" is left
// undone upstream too; the fallback is the first registered output.
func (sh *Shell) firstOutput() *output.Output {
	if len(sh.outputs) == 0 {
		return nil
	}
	return sh.outputs[0]
}

// SetWorkareaInsets publishes the panel strips reserved on o, per side
// (§9 open question 3). Zero insets (the default) leave the whole
// output rectangle available.
func (sh *Shell) SetWorkareaInsets(o *output.Output, top, bottom, left, right int32) {
	sh.workareaInsets[o.ID()] = insets{top, bottom, left, right}
}

// Workarea returns the portion of o available to maximized windows:
// o's rectangle shrunk by whatever insets were published for it
// (§GLOSSARY "Workarea").
func (sh *Shell) Workarea(o *output.Output) geom.Rect {
	r := o.Rect()
	in := sh.workareaInsets[o.ID()]
	return geom.RectXYWH(r.X+in.left, r.Y+in.top, r.W-in.left-in.right, r.H-in.top-in.bottom)
}

// pickModeToFit mirrors switch_output_mode's "smallest mode that fits"
// search (§4.9 "with driver picks the smallest mode that fits").
func pickModeToFit(o *output.Output, w, h int32) (output.Mode, bool) {
	var best output.Mode
	found := false
	for _, m := range o.Modes() {
		if m.Width >= w && m.Height >= h {
			if !found || (m.Width < best.Width && m.Height < best.Height) {
				best = m
				found = true
			}
		}
	}
	return best, found
}

// currentMode returns o's mode flagged Current, if any.
func currentMode(o *output.Output) (output.Mode, bool) {
	for _, m := range o.Modes() {
		if m.Current() {
			return m, true
		}
	}
	return output.Mode{}, false
}
