// Package output implements the output/plane/damage repaint pipeline
// (§4.7): scheduling, the repaint algorithm, plane occlusion, and
// buffer-age damage tracking.
package output

import (
	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/geom"
	"github.com/peppercomp/pepper/object"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/view"
)

// Backend is the output backend trait (§6 "Backend interface — output
// backend"): everything the core needs the platform layer to do for
// one output. It owns no core state; AssignPlanes/StartRepaintLoop/
// Repaint are told what to do, not asked about internal details.
type Backend interface {
	SubpixelOrder() SubpixelOrder
	MakerName() string
	ModelName() string
	Modes() []Mode
	SetMode(Mode) bool

	// AssignPlanes may move any subset of viewList onto overlay planes
	// it creates/owns; views absent from the returned map stay on the
	// output's primary plane (§4.7 step 3).
	AssignPlanes(o *Output, viewList []*view.View) map[*view.View]*Plane

	StartRepaintLoop(o *Output)
	Repaint(o *Output, planes []*Plane)

	// AttachSurface lets the backend's renderer attach buf and report
	// its pixel size (§4.4 commit step 1, §6 attach_surface).
	AttachSurface(s *surface.Surface, buf *buffer.Buffer) (w, h int32)

	// FlushSurfaceDamage uploads any pending surface damage (e.g. SHM
	// texture upload) and reports whether the surface's buffer must be
	// retained (§6 flush_surface_damage).
	FlushSurfaceDamage(s *surface.Surface) (keepBuffer bool)
}

type frameState struct {
	scheduled bool
	pending   bool
}

// Output is one display sink (§3, §4.7).
type Output struct {
	obj   *object.Object
	id    uint32
	graph *view.Graph

	x, y                  int32
	width, height         int32
	modeWidth, modeHeight int32 // current mode's native pixel size, pre-transform, pre-scale
	transform             geom.OutputTransform
	scale                 int32

	backend Backend
	modes   []Mode

	frame frameState

	primaryPlane *Plane
	overlays     []*Plane // top-to-bottom order, in front of (above) the primary plane

	viewEntries     map[*view.View]*PlaneEntry
	currentViewList []*view.View

	siblings func() []view.OutputRef

	fpsEnabled    bool
	fpsFrameCount int
	fpsAvg        float64
	lastFrameTime uint32
	haveLastFrame bool
}

// New creates an output bound to id, with modes as its supported mode
// list (one of which must have ModeCurrent set) and fpsEnabled
// mirroring PEPPER_DEBUG_FPS (§6 Environment). transform and scale are
// fixed at creation (§3 Output fields "geometry ... transform, scale";
// original_source/src/lib/pepper/output.c's pepper_compositor_add_output
// takes both as constructor arguments and never exposes a setter for
// either afterwards). scale must be >= 1; a value <= 0 is treated as 1.
func New(space *object.Space, graph *view.Graph, id uint32, backend Backend, modes []Mode, fpsEnabled bool, transform geom.OutputTransform, scale int32) *Output {
	if scale < 1 {
		scale = 1
	}
	o := &Output{
		obj:         space.Alloc(object.TypeOutput),
		id:          id,
		graph:       graph,
		backend:     backend,
		modes:       modes,
		transform:   transform,
		scale:       scale,
		fpsEnabled:  fpsEnabled,
		viewEntries: make(map[*view.View]*PlaneEntry),
	}
	o.primaryPlane = newPlane(o, true)
	for _, m := range modes {
		if m.Current() {
			o.modeWidth, o.modeHeight = m.Width, m.Height
			w, h := transform.ApplySize(m.Width, m.Height)
			o.width, o.height = w/scale, h/scale
		}
	}
	return o
}

func (o *Output) Object() *object.Object { return o.obj }
func (o *Output) ID() uint32             { return o.id }

// Rect implements view.OutputRef.
func (o *Output) Rect() geom.Rect { return geom.RectXYWH(o.x, o.y, o.width, o.height) }

// Move relocates the output's origin in global space (§4.7/§3, emits
// EventOutputMove).
func (o *Output) Move(x, y int32) {
	o.x, o.y = x, y
	o.obj.Emit(object.EventOutputMove, o)
}

// Transform returns the output's currently configured wl_output
// transform.
func (o *Output) Transform() geom.OutputTransform { return o.transform }

// Scale returns the output's configured integer scale (§3 Output
// fields "scale"), always >= 1.
func (o *Output) Scale() int32 { return o.scale }

// logicalToPhysical returns the Affine2D mapping output-local logical
// pixel coordinates (after the output's transform and scale have been
// applied, the space o.Rect()'s w/h are expressed in) back into the
// backend's native framebuffer pixel coordinates of size
// modeWidth x modeHeight (§4.7 step 4 "output-transform into
// output-local space" — repaint needs the inverse of that mapping to
// land visible regions in the pixels the backend actually paints).
func (o *Output) logicalToPhysical() geom.Affine2D {
	forward := o.transform.Matrix(float32(o.modeWidth), float32(o.modeHeight))
	if o.scale != 1 {
		forward = forward.Scale(geom.FPoint{}, geom.Pt(1/float32(o.scale), 1/float32(o.scale)))
	}
	return forward.Invert()
}

// AttachSurfaceBuffer implements surface.OutputAttacher for the
// surface this output is attaching a newly-committed buffer for,
// forwarding to the backend's renderer and reporting the pixel size
// it reads back (§4.4 commit step 1, §6 attach_surface). Unlike
// surface.OutputAttacher's single-argument shape, this method also
// needs which surface is being attached, since one backend renders
// many surfaces; wiring code builds a surface.OutputAttacher closure
// around (o, s) per commit.
func (o *Output) AttachSurfaceBuffer(s *surface.Surface, buf *buffer.Buffer) (w, h int32) {
	return o.backend.AttachSurface(s, buf)
}

// SetMode asks the backend to change mode; on success the output's
// geometry and mode list are updated and EventOutputModeChange fires
// (§6 set_mode).
func (o *Output) SetMode(m Mode) bool {
	if !o.backend.SetMode(m) {
		return false
	}
	o.modeWidth, o.modeHeight = m.Width, m.Height
	w, h := o.transform.ApplySize(m.Width, m.Height)
	o.width, o.height = w/o.scale, h/o.scale
	found := false
	for i, existing := range o.modes {
		flags := existing.Flags &^ ModeCurrent
		if existing.Width == m.Width && existing.Height == m.Height && existing.RefreshMilliHz == m.RefreshMilliHz {
			flags |= ModeCurrent
			found = true
		}
		o.modes[i].Flags = flags
	}
	if !found {
		o.modes = append(o.modes, Mode{Width: m.Width, Height: m.Height, RefreshMilliHz: m.RefreshMilliHz, Flags: m.Flags | ModeCurrent})
	}
	o.obj.Emit(object.EventOutputModeChange, o)
	return true
}

// Modes returns the output's mode list.
func (o *Output) Modes() []Mode { return append([]Mode(nil), o.modes...) }

// AddOverlayPlane creates a new overlay plane placed directly above
// the given existing plane (nil means "above the primary plane", i.e.
// the new bottom-most overlay) and returns it; backends call this from
// their own setup, not per-frame (§6 "assign_planes may move views to
// hardware overlay planes").
func (o *Output) AddOverlayPlane(above *Plane) *Plane {
	p := newPlane(o, false)
	if above == nil {
		o.overlays = append(o.overlays, p)
		return p
	}
	for i, x := range o.overlays {
		if x == above {
			out := append([]*Plane(nil), o.overlays[:i]...)
			out = append(out, p)
			out = append(out, o.overlays[i:]...)
			o.overlays = out
			return p
		}
	}
	o.overlays = append(o.overlays, p)
	return p
}

// planesTopToBottom returns every plane on the output ordered from
// topmost (first-created overlay closest to the screen) to the
// primary plane at the very bottom — see repaint.go for why this
// order, not the spec prose's "bottom-to-top", is what correct
// occlusion accumulation requires.
func (o *Output) planesTopToBottom() []*Plane {
	out := append([]*Plane(nil), o.overlays...)
	return append(out, o.primaryPlane)
}

// ScheduleRepaint implements view.RepaintScheduler and the §4.7
// `schedule_repaint` op: sets the scheduled flag; if a frame is
// already pending, its completion (FinishFrame) will drain the flag.
// Otherwise it asks the backend to start a repaint loop, which must
// eventually call FinishFrame back.
func (o *Output) ScheduleRepaint() {
	if o.frame.scheduled {
		return
	}
	o.frame.scheduled = true
	if o.frame.pending {
		return
	}
	o.backend.StartRepaintLoop(o)
}

// FinishFrame implements `pepper_output_finish_frame` (§6): the
// backend must call this exactly once per frame. Clears pending,
// updates the FPS average if enabled, and repaints immediately if a
// repaint was scheduled meanwhile.
func (o *Output) FinishFrame(timestampMs uint32) {
	o.frame.pending = false
	if o.fpsEnabled && o.haveLastFrame {
		deltaMs := float64(timestampMs - o.lastFrameTime)
		if deltaMs > 0 {
			fps := 1000.0 / deltaMs
			o.fpsFrameCount++
			o.fpsAvg += (fps - o.fpsAvg) / float64(o.fpsFrameCount)
		}
	}
	o.lastFrameTime = timestampMs
	o.haveLastFrame = true
	if o.frame.scheduled {
		o.repaint(timestampMs)
	}
}

// FPSAverage returns the mean of the per-frame FPS values of every
// frame interval seen since the output was created; it is a cumulative
// mean, not an average over a sliding window of recent frames (only
// meaningful when the output was constructed with fpsEnabled, matching
// PEPPER_DEBUG_FPS).
func (o *Output) FPSAverage() float64 { return o.fpsAvg }
