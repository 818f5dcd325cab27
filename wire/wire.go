// Package wire defines the minimal surface the compositor core needs
// from the wire-protocol hosting library it is built on top of. §1
// places the Wayland wire codec, the fd event loop and
// display-add-socket plumbing out of scope for this module: it is
// "assumed to be provided by a library that delivers decoded requests
// and serialises outgoing events". wire.Resource/wire.Client is that
// boundary — small enough to be satisfied by any such library's
// generated bindings (the shape mirrors wl_resource_post_error/
// wl_resource_post_no_memory from the C wayland-server ABI, renamed
// idiomatically; it is deliberately not a copy of any client-stub
// package in the retrieval pack, since those bind the client role).
package wire

// Resource is a single bound protocol object belonging to one Client.
// Request handlers on surface.Surface, view.View and friends accept a
// Resource so they can report protocol errors on the exact object the
// client misused.
type Resource interface {
	// ID is the protocol object id the client knows this resource by.
	ID() uint32
	// Client returns the owning connection.
	Client() Client
	// PostError sends a fatal protocol error to the client and marks
	// the resource (and, per the Wayland wire protocol, the whole
	// connection) for disconnection once the current request
	// returns.
	PostError(code uint32, message string)
}

// Client is one connected peer.
type Client interface {
	// PostNoMemory sends wl_display.error(OutOfMemory) on the
	// connection, per §7's resource-exhaustion policy.
	PostNoMemory()
}

// Callback is a client-requested one-shot notification resource, used
// for wl_surface.frame's done(time) and wl_shell_surface/xdg_wm_base
// ping/pong round-trips.
type Callback interface {
	Resource
	// Done fires the callback with an opaque serial (a frame
	// timestamp in milliseconds for frame callbacks).
	Done(data uint32)
}
