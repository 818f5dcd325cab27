// Package backend provides a reference output.Backend: a
// software-composited renderer that blits client pixel buffers into an
// in-memory image.RGBA framebuffer per output, grounded on gio's
// app/headless package (render-to-image instead of render-to-GPU, used
// there for screenshot tests; used here as a renderer in its own
// right). Real deployments are expected to supply their own
// output.Backend (EGL/DRM, Vulkan, ...); this one exists so the core
// is runnable and testable without any platform graphics stack.
package backend

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/peppercomp/pepper/buffer"
	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/surface"
	"github.com/peppercomp/pepper/view"
)

// PixelSource is implemented by a wl_buffer resource that can hand
// back its decoded pixels (e.g. a wl_shm pool entry already unpacked
// into host memory). Queried via type assertion from the wire
// resource a buffer.Buffer wraps, mirroring buffer.Releaser's
// optional-capability pattern.
type PixelSource interface {
	Image() *image.RGBA
}

// Software is a reference, single-threaded output.Backend. One
// instance may back several outputs; per-output framebuffers and
// vsync timers are keyed by the *output.Output pointer itself.
type Software struct {
	frameInterval uint32 // milliseconds between simulated vsyncs

	framebuffers map[*output.Output]*image.RGBA
	timers       map[*output.Output]*vsyncTimer

	images map[*surface.Surface]*image.RGBA

	modes []output.Mode
}

// NewSoftware creates a Software backend. frameIntervalMs paces the
// simulated vsync (e.g. 16 for ~60Hz); modes is the mode list reported
// to every output this backend drives (a software renderer has no
// display hardware of its own to enumerate, so the caller supplies
// one, typically a single ModeCurrent|ModePreferred entry).
func NewSoftware(frameIntervalMs uint32, modes []output.Mode) *Software {
	return &Software{
		frameInterval: frameIntervalMs,
		framebuffers:  make(map[*output.Output]*image.RGBA),
		timers:        make(map[*output.Output]*vsyncTimer),
		images:        make(map[*surface.Surface]*image.RGBA),
		modes:         modes,
	}
}

func (b *Software) SubpixelOrder() output.SubpixelOrder { return output.SubpixelUnknown }
func (b *Software) MakerName() string                   { return "pepper" }
func (b *Software) ModelName() string                   { return "software" }
func (b *Software) Modes() []output.Mode                { return b.modes }

// SetMode is a no-op acceptance: a software framebuffer has no fixed
// native resolution to reject a mode switch against.
func (b *Software) SetMode(output.Mode) bool { return true }

// AssignPlanes never moves a view to an overlay plane: software
// compositing has no hardware overlay to offload onto, so every view
// lands on the output's primary plane.
func (b *Software) AssignPlanes(o *output.Output, viewList []*view.View) map[*view.View]*output.Plane {
	return nil
}

// Framebuffer returns o's current composited frame, or nil before the
// first repaint.
func (b *Software) Framebuffer(o *output.Output) *image.RGBA {
	return b.framebuffers[o]
}

func (b *Software) framebufferFor(o *output.Output) *image.RGBA {
	r := o.Rect()
	fb := b.framebuffers[o]
	if fb == nil || fb.Bounds().Dx() != int(r.W) || fb.Bounds().Dy() != int(r.H) {
		fb = image.NewRGBA(image.Rect(0, 0, int(r.W), int(r.H)))
		b.framebuffers[o] = fb
	}
	return fb
}

// Repaint composites every plane's visible view regions into o's
// framebuffer. planes arrive top-to-bottom and are painted in reverse,
// bottom plane first, so upper planes overdraw lower ones; each view's
// last-attached pixel image is blitted clipped to its visible region.
func (b *Software) Repaint(o *output.Output, planes []*output.Plane) {
	fb := b.framebufferFor(o)
	for i := len(planes) - 1; i >= 0; i-- {
		for _, e := range planes[i].Entries() {
			v := e.View()
			s := v.Surface()
			if s == nil {
				continue
			}
			img := b.images[s]
			if img == nil {
				continue
			}
			vx, vy := v.Position()
			for _, r := range e.VisibleRegion().Rects() {
				dst := image.Rect(int(r.X), int(r.Y), int(r.X+r.W), int(r.Y+r.H))
				srcPt := image.Pt(int(r.X)-int(vx), int(r.Y)-int(vy))
				draw.Draw(fb, dst, img, srcPt, draw.Src)
			}
		}
	}
}

// AttachSurface resolves buf's pixel content through PixelSource, if
// its wire resource supports it, recording it for the next Repaint
// and reporting its raw pixel size back to the caller (§4.4 commit
// step 1, §6 attach_surface) — the caller divides this by the
// surface's buffer scale to get its logical size. Buffers whose
// resource does not implement PixelSource report a zero size, same as
// an unrecognised buffer type upstream.
//
// A buffer_scale greater than 1 (HiDPI client) is downsampled here,
// once per attach, with a high-quality resampler rather than at every
// Repaint: img is stored already in the output's logical pixel space,
// so Repaint's blit stays a plain same-size image/draw.Draw copy.
func (b *Software) AttachSurface(s *surface.Surface, buf *buffer.Buffer) (w, h int32) {
	src, ok := buf.Resource().(PixelSource)
	if !ok {
		delete(b.images, s)
		return 0, 0
	}
	img := src.Image()
	bounds := img.Bounds()
	w, h = int32(bounds.Dx()), int32(bounds.Dy())

	if scale := s.BufferScale(); scale > 1 {
		lw, lh := int(w)/int(scale), int(h)/int(scale)
		if lw > 0 && lh > 0 {
			scaled := image.NewRGBA(image.Rect(0, 0, lw, lh))
			xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
			img = scaled
		}
	}
	b.images[s] = img
	return w, h
}

// FlushSurfaceDamage is a no-op: the software renderer re-reads the
// whole attached image.RGBA on every Repaint rather than maintaining
// its own incremental texture upload, so there is nothing to flush.
// The buffer is always safe to release back to the client once this
// returns.
func (b *Software) FlushSurfaceDamage(s *surface.Surface) (keepBuffer bool) {
	return false
}

// StartRepaintLoop arms (or reuses) a per-output vsync timer paced at
// frameInterval and returns; the caller's event loop must poll the
// timer's Fd and invoke HandleVsync when it fires, exactly like
// shell.ShellClient's ping timer (§4.7 "the backend must eventually
// call FinishFrame back").
func (b *Software) StartRepaintLoop(o *output.Output) {
	t, ok := b.timers[o]
	if !ok {
		var err error
		t, err = newVsyncTimer(b.frameInterval)
		if err != nil {
			return
		}
		b.timers[o] = t
	}
	t.Arm()
}

// VsyncFd returns o's vsync timer file descriptor for an external
// event loop to poll, or -1 if no repaint has been scheduled yet.
func (b *Software) VsyncFd(o *output.Output) int {
	t, ok := b.timers[o]
	if !ok {
		return -1
	}
	return t.Fd()
}

// HandleVsync is the timerfd upcall: finishes o's in-flight frame
// (which repaints at once if a repaint was scheduled meanwhile) and
// re-arms the timer every time, whether or not anything is left to
// paint.
func (b *Software) HandleVsync(o *output.Output, timestampMs uint32) {
	o.FinishFrame(timestampMs)
	if t, ok := b.timers[o]; ok {
		t.Arm()
	}
}

// Close releases every per-output vsync timer's file descriptor.
func (b *Software) Close() error {
	var first error
	for o, t := range b.timers {
		if err := t.Close(); err != nil && first == nil {
			first = err
		}
		delete(b.timers, o)
	}
	return first
}
