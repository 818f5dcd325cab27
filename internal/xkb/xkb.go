// Package xkb provides the xkb keymap/modifier-state bookkeeping the
// seat package needs (§3 Keyboard "xkb keymap fd/length" and
// "serialised modifier state", §4.8 Keyboard). It is a pure-Go
// fallback of the teacher's cgo libxkbcommon binding: rather than
// linking xkbcommon to interpret a real keymap and compute keysyms,
// it tracks only the wire-visible state a compositor core actually
// needs — the depressed/latched/locked/group mask quartet sent with
// wl_keyboard.modifiers — and hands clients a keymap string verbatim
// through a memfd, exactly as the protocol requires, without parsing
// it.
package xkb

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Modifier is one bit of the modifier masks wl_keyboard.modifiers
// carries.
type Modifier uint32

const (
	ModShift Modifier = 1 << iota
	ModCapsLock
	ModCtrl
	ModAlt
	ModNumLock
	ModLogo
)

// State tracks the depressed/latched/locked modifier masks and the
// active layout group, mirroring xkb_state_update_mask without
// depending on libxkbcommon to compute it.
type State struct {
	depressed, latched, locked uint32
	group                      uint32
}

// NewState returns a State with no modifiers active, group 0.
func NewState() *State { return &State{} }

// UpdateMask applies a wl_keyboard.modifiers-shaped update, as
// forwarded from an input backend's raw evdev modifier computation.
func (s *State) UpdateMask(depressed, latched, locked, group uint32) {
	s.depressed, s.latched, s.locked, s.group = depressed, latched, locked, group
}

// Serialize returns the quartet the Keyboard sends verbatim in
// wl_keyboard.modifiers.
func (s *State) Serialize() (depressed, latched, locked, group uint32) {
	return s.depressed, s.latched, s.locked, s.group
}

// Effective is the union of depressed and latched (but not locked)
// modifiers — what a key-repeat or compose step should see as "active
// right now" per xkb_state_mod_name_is_active(..., EFFECTIVE).
func (s *State) Effective() uint32 { return s.depressed | s.latched }

// Active reports whether m is set in the effective or locked mask.
func (s *State) Active(m Modifier) bool {
	return uint32(m)&(s.Effective()|s.locked) != 0
}

// Keymap is a client-visible xkb keymap: the raw text a client's
// xkbcommon parses, exposed as a memfd per the wl_keyboard.keymap
// event's (fd, size) pair (§3, grounded on the teacher's mmap-based
// ingestion of the same fd/size pair in xkb_unix.go's New, run in
// reverse: producer instead of consumer).
type Keymap struct {
	text []byte
	fd   int
	size int
}

// NewKeymap wraps a textual xkb keymap (v1 format) and materialises it
// into an anonymous memfd, ready to hand a client as
// wl_keyboard.keymap's fd/size pair. Keymaps change rarely (only on
// input device hotplug) so paying for the memfd eagerly is cheap.
func NewKeymap(text string) (*Keymap, error) {
	fd, err := unix.MemfdCreate("pepper-xkb-keymap", 0)
	if err != nil {
		return nil, fmt.Errorf("xkb: memfd_create: %w", err)
	}
	buf := append([]byte(text), 0)
	if err := unix.Ftruncate(fd, int64(len(buf))); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("xkb: ftruncate: %w", err)
	}
	if _, err := unix.Pwrite(fd, buf, 0); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("xkb: write keymap: %w", err)
	}
	return &Keymap{text: buf, fd: fd, size: len(buf)}, nil
}

// Fd and Size return the pair sent with wl_keyboard.keymap.
func (k *Keymap) Fd() int     { return k.fd }
func (k *Keymap) Size() int   { return k.size }
func (k *Keymap) Close() error { return unix.Close(k.fd) }

// DefaultKeymap is a minimal, valid xkb_keymap_format_text_v1 keymap
// string describing a generic PC-104 US layout, used when no
// backend-supplied keymap is available. It is not interpreted by this
// package — only relayed to clients, who parse it with their own
// xkbcommon — so it only needs to be syntactically valid, not
// exhaustive.
const DefaultKeymap = `xkb_keymap {
	xkb_keycodes { include "evdev+aliases(qwerty)" };
	xkb_types { include "complete" };
	xkb_compat { include "complete" };
	xkb_symbols { include "pc+us+inet(evdev)" };
	xkb_geometry { include "pc(pc104)" };
};
`
