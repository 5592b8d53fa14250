//go:build linux

package core

import (
	"time"

	"golang.org/x/sys/unix"
)

// FDWaiter implements Waiter over a raw file descriptor using poll(2), so
// the engine can bound how long it blocks waiting for the receive socket
// to have data without needing its own goroutine.
type FDWaiter struct {
	fd int
}

// NewFDWaiter wraps a *RecvSocket's descriptor.
func NewFDWaiter(fd int) *FDWaiter {
	return &FDWaiter{fd: fd}
}

func (w *FDWaiter) WaitReadable(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}

	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}

	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}
