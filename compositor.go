// Package pepper wires the object/geom/buffer/surface/view/output/
// seat/shell packages into one running compositor: a single object
// space and scene graph shared by every output, a region/buffer
// table per compositor instance, and the small adapters each package
// boundary needs (an output.Backend-backed OutputAttacher per commit,
// a RepaintScheduler that fans a scene-graph change out to every
// output). The wire codec and platform backend are out of this
// package's scope (§1) — Compositor is driven by a hosting process
// that owns both.
package pepper

import (
	"log"
	"os"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/seat"
	"github.com/peppercomp/pepper/shell"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/view"
	"github.com/peppercomp/pepper/wire"
)

// Compositor owns every shared table the rest of the packages need a
// reference to, plus the live set of outputs and seats.
type Compositor struct {
	Space   *object.Space
	Buffers *buffer.Table
	Regions *surface.RegionTable
	Graph   *view.Graph
	Shell   *shell.Shell

	outputs []*output.Output
	seats   []*seat.Seat

	nextOutputID uint32

	fpsEnabled bool
	log        *log.Logger
}

// Option configures a Compositor at construction time, the teacher's
// app.NewWindow(options ...Option) idiom.
type Option func(*Compositor)

// WithDebugFPS overrides the PEPPER_DEBUG_FPS environment toggle every
// output New adds inherits its fpsEnabled default from.
func WithDebugFPS(enabled bool) Option {
	return func(c *Compositor) { c.fpsEnabled = enabled }
}

// WithLogger overrides the default stderr logger every package-level
// component message is written through.
func WithLogger(l *log.Logger) Option {
	return func(c *Compositor) { c.log = l }
}

// New creates an empty Compositor: no outputs, no seats, an empty
// scene graph whose RepaintScheduler fans out to every output
// registered with AddOutput. PEPPER_DEBUG_FPS is read once here,
// mirroring the original per-process debug-channel env vars, and
// supplies AddOutput's fpsEnabled default unless WithDebugFPS
// overrides it.
func New(opts ...Option) *Compositor {
	space := object.NewSpace()
	c := &Compositor{
		Space:      space,
		Buffers:    buffer.NewTable(space),
		Regions:    surface.NewRegionTable(),
		fpsEnabled: os.Getenv("PEPPER_DEBUG_FPS") != "",
		log:        log.New(os.Stderr, "pepper: ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Graph = view.NewGraph(multiOutputScheduler{c})
	c.Shell = shell.New(space, c.Graph)
	return c
}

// multiOutputScheduler implements view.RepaintScheduler by asking
// every registered output to schedule its own repaint (§4.6 "A global
// repaint is scheduled" — global meaning every affected output, since
// each output's repaint pipeline is independent per §4.7).
type multiOutputScheduler struct{ c *Compositor }

func (m multiOutputScheduler) ScheduleRepaint() {
	for _, o := range m.c.outputs {
		o.ScheduleRepaint()
	}
}

// AddOutput allocates and registers a new output backed by b, with the
// given mode list, wl_output transform and scale, and the
// compositor's PEPPER_DEBUG_FPS setting; wires it into the shell's
// output/workarea bookkeeping and the other outputs' output_overlap
// sibling lists, and returns it.
func (c *Compositor) AddOutput(b output.Backend, modes []output.Mode, transform geom.OutputTransform, scale int32) *output.Output {
	c.nextOutputID++
	o := output.New(c.Space, c.Graph, c.nextOutputID, b, modes, c.fpsEnabled, transform, scale)
	c.outputs = append(c.outputs, o)
	o.SetSiblings(c.outputRefs)
	c.Shell.AddOutput(o)
	c.log.Printf("output %d added (%s %s)", o.ID(), b.MakerName(), b.ModelName())
	return o
}

// AddOutputNormal is AddOutput with the common case of an unrotated,
// unscaled output (§6 Environment has no toggle for either; most
// software deployments have no reason to set them).
func (c *Compositor) AddOutputNormal(b output.Backend, modes []output.Mode) *output.Output {
	return c.AddOutput(b, modes, geom.TransformNormal, 1)
}

// RemoveOutput unregisters o.
func (c *Compositor) RemoveOutput(o *output.Output) {
	for i, x := range c.outputs {
		if x == o {
			c.outputs = append(c.outputs[:i], c.outputs[i+1:]...)
			break
		}
	}
	c.Shell.RemoveOutput(o)
	c.log.Printf("output %d removed", o.ID())
}

func (c *Compositor) outputRefs() []view.OutputRef {
	refs := make([]view.OutputRef, len(c.outputs))
	for i, o := range c.outputs {
		refs[i] = o
	}
	return refs
}

// Outputs returns the live output set.
func (c *Compositor) Outputs() []*output.Output { return append([]*output.Output(nil), c.outputs...) }

// AddSeat registers a seat with both the scene graph's pointer/touch
// hit-testing and the shell's move/resize/popup-grab dispatch.
func (c *Compositor) AddSeat(s *seat.Seat) {
	c.seats = append(c.seats, s)
	if p := s.Pointer(); p != nil {
		p.AttachGraph(c.Graph)
	}
	if t := s.Touch(); t != nil {
		t.AttachGraph(c.Graph)
	}
	c.Shell.AddSeat(s)
	c.log.Printf("seat %q added", s.Name())
}

// RemoveSeat unregisters a seat.
func (c *Compositor) RemoveSeat(s *seat.Seat) {
	for i, x := range c.seats {
		if x == s {
			c.seats = append(c.seats[:i], c.seats[i+1:]...)
			break
		}
	}
	c.Shell.RemoveSeat(s)
}

// Seats returns the live seat set.
func (c *Compositor) Seats() []*seat.Seat { return append([]*seat.Seat(nil), c.seats...) }

// NewSurface allocates a Surface bound to res, registered with this
// compositor's object space.
func (c *Compositor) NewSurface(res wire.Resource) *surface.Surface {
	return surface.New(c.Space, res)
}

// CommitSurface commits s against every currently registered output,
// each wrapped in a per-(output,surface) adapter satisfying
// surface.OutputAttacher (§4.4 commit step 1). OutputAttacher's single-
// argument shape doesn't carry which surface is being attached, since
// one output.Backend renders many surfaces; building the adapter here,
// once per commit, keeps that plumbing out of both surface and output.
func (c *Compositor) CommitSurface(s *surface.Surface) {
	attachers := make([]surface.OutputAttacher, len(c.outputs))
	for i, o := range c.outputs {
		attachers[i] = outputSurfaceAttacher{o: o, s: s}
	}
	s.Commit(attachers)
}

// outputSurfaceAttacher adapts output.Output.AttachSurfaceBuffer (which
// takes the surface explicitly, since a backend renders many surfaces)
// to surface.OutputAttacher (which, from inside a single surface's own
// commit, already knows which surface it is).
type outputSurfaceAttacher struct {
	o *output.Output
	s *surface.Surface
}

func (a outputSurfaceAttacher) AttachSurfaceBuffer(buf *buffer.Buffer) (w, h int32) {
	return a.o.AttachSurfaceBuffer(a.s, buf)
}
