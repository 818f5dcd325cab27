package shell

import (
	"time"

	"golang.org/x/sys/unix"
)

// pingTimeout is the fixed 200ms liveness deadline (§4.9 "Ping/Pong
// liveness", §5 "a one-shot with 200ms timeout").
const pingTimeout = 200 * time.Millisecond

// pingTimer wraps a monotonic timerfd. The file-descriptor event loop
// is an external collaborator (§1); Fd is exposed so the host loop can
// poll it and call a shell client's HandleTimeout when it becomes
// readable, the same upcall shape as output.Backend's frame
// completion.
type pingTimer struct {
	fd int
}

func newPingTimer() (*pingTimer, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return nil, err
	}
	return &pingTimer{fd: fd}, nil
}

func (t *pingTimer) Fd() int { return t.fd }

// Arm (re-)arms the timer for pingTimeout from now.
func (t *pingTimer) Arm() error {
	spec := &unix.ItimerSpec{Value: unix.NsecToTimespec(pingTimeout.Nanoseconds())}
	return unix.TimerfdSettime(t.fd, 0, spec, nil)
}

// Disarm cancels any pending timeout ("event_source.timer_update(0)
// disarms", §5).
func (t *pingTimer) Disarm() error {
	return unix.TimerfdSettime(t.fd, 0, &unix.ItimerSpec{}, nil)
}

func (t *pingTimer) Close() error { return unix.Close(t.fd) }
