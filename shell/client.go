package shell

import "github.com/peppercomp/pepper/wire"

// PingSender delivers a ping serial to a client using whatever wire
// shape its shell role requires: wl_shell_surface pings the specific
// shell surface's own resource, xdg_shell pings the client's shared
// xdg_shell resource (§6, §4.9 "shell_surface_ping... wire-protocol-
// specific"). The shell core only needs to hand back a serial; which
// resource carries it is the binding code's concern.
type PingSender func(shsurf *ShellSurface, serial uint32)

// ShellClient is the per-wl_client liveness and surface-list state
// shared across every shell surface that client owns (§3 "Shell
// surface... back-reference to shell-client").
type ShellClient struct {
	shell  *Shell
	client wire.Client

	sendPing PingSender
	timer    *pingTimer

	serial       uint32
	needPong     bool
	unresponsive bool

	surfaces []*ShellSurface
}

func newShellClient(sh *Shell, client wire.Client, sendPing PingSender) *ShellClient {
	return &ShellClient{shell: sh, client: client, sendPing: sendPing}
}

// Client returns the owning wire client.
func (sc *ShellClient) Client() wire.Client { return sc.client }

// Unresponsive reports whether the last ping timed out without a pong.
func (sc *ShellClient) Unresponsive() bool { return sc.unresponsive }

// Ping arms the liveness timer and sends a fresh ping serial through
// shsurf (§4.9 "shell_surface_ping"). If the client is already
// unresponsive, it does not send a second ping — the timeout path
// fires immediately instead, matching the legacy "already stuck, do
// not send another ping" short-circuit.
func (sc *ShellClient) Ping(shsurf *ShellSurface) {
	if sc.unresponsive {
		sc.HandleTimeout()
		return
	}
	if sc.timer == nil {
		t, err := newPingTimer()
		if err != nil {
			return
		}
		sc.timer = t
	}
	if err := sc.timer.Arm(); err != nil {
		return
	}
	sc.serial = sc.shell.nextSerial()
	sc.needPong = true
	if sc.sendPing != nil {
		sc.sendPing(shsurf, sc.serial)
	}
}

// HandlePong processes a client's pong reply, disarming the timer and
// clearing unresponsive if the serial matches the outstanding ping.
func (sc *ShellClient) HandlePong(serial uint32) {
	if !sc.needPong || sc.serial != serial {
		return
	}
	if sc.timer != nil {
		sc.timer.Disarm()
	}
	sc.unresponsive = false
	sc.needPong = false
	sc.serial = 0
}

// HandleTimeout is the timerfd upcall: flips the client unresponsive
// (§4.9, §5 "Timeout flips the client to unresponsive").
func (sc *ShellClient) HandleTimeout() {
	sc.unresponsive = true
}

// TimerFd returns the liveness timer's file descriptor for an external
// event loop to poll, or -1 if no ping has armed a timer yet.
func (sc *ShellClient) TimerFd() int {
	if sc.timer == nil {
		return -1
	}
	return sc.timer.Fd()
}

func (sc *ShellClient) addSurface(s *ShellSurface) {
	sc.surfaces = append(sc.surfaces, s)
}

func (sc *ShellClient) removeSurface(s *ShellSurface) {
	for i, o := range sc.surfaces {
		if o == s {
			sc.surfaces = append(sc.surfaces[:i], sc.surfaces[i+1:]...)
			return
		}
	}
}
