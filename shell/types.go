package shell

// Role name constants assigned by surface.SetRole (§4.9 "Roles").
// wl_subsurface is listed here only because §4.9 enumerates it among
// the mutually exclusive role strings; surface.MakeSubsurface does not
// assign it through SetRole.
const (
	RoleWlShellSurface = "wl_shell_surface"
	RoleXDGSurface     = "xdg_surface"
	RoleXDGPopup       = "xdg_popup"
	RoleWlSubsurface   = "wl_subsurface"
	RolePointerCursor  = "wl_pointer-cursor"
	RolePepperCursor   = "pepper_cursor"
)

// Type is a shell surface's window type (§3 "a next-type / current-type
// pair from {none, toplevel, transient, popup, fullscreen, maximized,
// minimized}").
type Type int

const (
	TypeNone Type = iota
	TypeToplevel
	TypeTransient
	TypePopup
	TypeFullscreen
	TypeMaximized
	TypeMinimized
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeToplevel:
		return "toplevel"
	case TypeTransient:
		return "transient"
	case TypePopup:
		return "popup"
	case TypeFullscreen:
		return "fullscreen"
	case TypeMaximized:
		return "maximized"
	case TypeMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// FullscreenMethod mirrors wl_shell_surface.fullscreen_method (§4.9
// "Going to fullscreen").
type FullscreenMethod uint32

const (
	FullscreenDefault FullscreenMethod = iota
	FullscreenScale
	FullscreenDriver
	FullscreenFill
)

// TransientFlags mirrors wl_shell_surface.transient (only the
// inactive bit is meaningful here).
type TransientFlags uint32

const TransientInactive TransientFlags = 0x1

// ResizeEdges mirrors wl_shell_surface.resize / xdg_surface's
// resize_edge enum (§4.9 "Interactive resize").
type ResizeEdges uint32

const (
	ResizeNone        ResizeEdges = 0
	ResizeTop         ResizeEdges = 1
	ResizeBottom      ResizeEdges = 2
	ResizeLeft        ResizeEdges = 4
	ResizeTopLeft     ResizeEdges = ResizeTop | ResizeLeft
	ResizeBottomLeft  ResizeEdges = ResizeBottom | ResizeLeft
	ResizeRight       ResizeEdges = 8
	ResizeTopRight    ResizeEdges = ResizeTop | ResizeRight
	ResizeBottomRight ResizeEdges = ResizeBottom | ResizeRight
)

// XDG surface configure state flags, sent in the state array built
// from the next type (§4.9 "Configure/Ack"). Values mirror the
// xdg_surface unstable-v5 state enum.
const (
	XDGStateMaximized uint32 = 1
	XDGStateFullscreen uint32 = 2
	XDGStateResizing   uint32 = 3
	XDGStateActivated  uint32 = 4
)

// BtnLeft is linux/input.h's BTN_LEFT, used by the move/resize grabs
// to recognise the release that ends the interactive operation.
const BtnLeft uint32 = 272
