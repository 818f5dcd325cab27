package backend

import (
	"time"

	"golang.org/x/sys/unix"
)

// vsyncTimer wraps a monotonic timerfd paced at a fixed interval,
// standing in for a real display's vblank interrupt. Grounded on the
// same golang.org/x/sys/unix.Timerfd* use as shell's ping timer.
type vsyncTimer struct {
	fd       int
	interval time.Duration
}

func newVsyncTimer(intervalMs uint32) (*vsyncTimer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return nil, err
	}
	return &vsyncTimer{fd: fd, interval: time.Duration(intervalMs) * time.Millisecond}, nil
}

func (t *vsyncTimer) Fd() int { return t.fd }

// Arm schedules the next one-shot vsync after interval. The caller
// re-arms after each firing; a recurring timerfd is avoided so the
// loop can stop pacing simply by not calling Arm again.
func (t *vsyncTimer) Arm() error {
	spec := &unix.ItimerSpec{Value: unix.NsecToTimespec(t.interval.Nanoseconds())}
	return unix.TimerfdSettime(t.fd, 0, spec, nil)
}

func (t *vsyncTimer) Close() error { return unix.Close(t.fd) }
