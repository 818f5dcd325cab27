// Command pepperd wires pepper.Compositor to the reference software
// backend and logs output/seat activity until interrupted. It
// is a demonstration of end-to-end library use, not a wire-protocol
// server: no socket is opened (§1's codec boundary is a hosting
// process's job, not this library's).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/peppercomp/pepper"
	"github.com/peppercomp/pepper/backend"
	"github.com/peppercomp/pepper/output"
	"github.com/peppercomp/pepper/seat"
)

var (
	width         = flag.Int("width", 1280, "software output width")
	height        = flag.Int("height", 720, "software output height")
	frameInterval = flag.Uint("frame-interval-ms", 16, "simulated vsync interval in milliseconds")
	debugFPS      = flag.Bool("debug-fps", false, "force-enable the FPS counter (overrides PEPPER_DEBUG_FPS)")
	configPath    = flag.String("config", "", "YAML file describing outputs and seats (overrides -width/-height/-frame-interval-ms)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: pepperd [flags]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pepperd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var opts []pepper.Option
	if *debugFPS {
		opts = append(opts, pepper.WithDebugFPS(true))
	}
	c := pepper.New(opts...)

	if *configPath != "" {
		return runFromConfig(c, *configPath)
	}

	modes := []output.Mode{{
		Width:  int32(*width),
		Height: int32(*height),
		Flags:  output.ModeCurrent | output.ModePreferred,
	}}
	b := backend.NewSoftware(uint32(*frameInterval), modes)
	o := c.AddOutputNormal(b, modes)
	defer b.Close()

	s := seat.New(c.Space, "seat0")
	s.AddInputDevice(seat.NewInputDevice(c.Space, "default", seat.CapPointer|seat.CapKeyboard|seat.CapTouch, nil))
	c.AddSeat(s)

	fmt.Printf("pepperd: output %d ready at %dx%d\n", o.ID(), *width, *height)

	waitForSignal()
	return nil
}

// runFromConfig replaces the single default output/seat with whatever
// a -config YAML file describes (§ config layer: multi-output,
// multi-seat rigs aren't expressible through flags alone).
func runFromConfig(c *pepper.Compositor, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	var closers []io.Closer
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()

	for _, oc := range cfg.Outputs {
		modes := []output.Mode{oc.mode()}
		b := backend.NewSoftware(oc.frameIntervalOrDefault(), modes)
		closers = append(closers, b)
		o := c.AddOutputNormal(b, modes)
		fmt.Printf("pepperd: output %q (%d) ready at %dx%d\n", oc.Name, o.ID(), oc.Width, oc.Height)
	}

	for _, sc := range cfg.Seats {
		s := seat.New(c.Space, sc.Name)
		s.AddInputDevice(seat.NewInputDevice(c.Space, sc.Name+"-device", sc.capabilities(), nil))
		c.AddSeat(s)
	}

	waitForSignal()
	return nil
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}
