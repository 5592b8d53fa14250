package core

import (
	"time"

	"github.com/sirupsen/logrus"
)

// drainPollInterval bounds how long the drain phase waits for readability
// before re-checking whether every outstanding probe has timed out.
const drainPollInterval = 10 * time.Millisecond

// recvBufferSize is sized for the largest frame this engine expects to
// decode: an Ethernet header plus a worst-case IPv4+ICMP+embedded-IPv4+TCP
// stack, with headroom.
const recvBufferSize = 4096

// Engine runs the two-phase send/receive loop described by the scanning
// model: emit every probe the Generator produces, paced by DELAY and
// opportunistically draining replies between sends, then drain until every
// outstanding probe has either been answered or timed out. It is
// single-threaded and cooperative — one send socket, one receive socket,
// no external cancellation.
type Engine struct {
	Sender   RawSender
	Receiver RawReceiver
	Waiter   Waiter
	Store    *Store
	Delay    time.Duration

	Log *logrus.Entry
}

// Run drives the two phases to completion and returns the accumulated
// reports. Emission errors (a send that fails outright) are fatal and
// abort the run; everything after that point is best-effort.
func (e *Engine) Run(gen *Generator) ([]*PortReport, error) {
	if err := e.emit(gen); err != nil {
		return nil, err
	}
	e.drain()
	return e.Store.Reports(), nil
}

func (e *Engine) emit(gen *Generator) error {
	total := gen.Total()
	sent := 0

	for {
		probe, ok := gen.Next()
		if !ok {
			break
		}

		if err := e.Sender.Send(probe.Host, probe.Data[:]); err != nil {
			return emissionError(probe, err)
		}
		e.Store.Add(probe)
		sent++

		if e.Log != nil && sent%256 == 0 {
			e.Log.WithFields(logrus.Fields{"sent": sent, "total": total}).Debug("emission progress")
		}

		e.pacedDrain(e.Delay)
	}

	return nil
}

// pacedDrain spends up to budget waiting for the receive socket to become
// readable, draining whatever is available. It never blocks longer than
// budget, so emission keeps its pace even under heavy reply traffic.
func (e *Engine) pacedDrain(budget time.Duration) {
	deadline := time.Now().Add(budget)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		readable, err := e.Waiter.WaitReadable(remaining)
		if err != nil || !readable {
			return
		}
		e.recvOnce()
	}
}

// drain runs phase 2: keep reading until every outstanding probe has
// either been answered or aged past its timeout.
func (e *Engine) drain() {
	for !e.Store.IsComplete() {
		readable, err := e.Waiter.WaitReadable(drainPollInterval)
		if err != nil {
			if e.Log != nil {
				e.Log.WithError(err).Debug("drain: waiter error")
			}
			continue
		}
		if readable {
			e.recvOnce()
		}
	}
}

func (e *Engine) recvOnce() {
	buf := make([]byte, recvBufferSize)
	n, err := e.Receiver.Recv(buf)
	if err != nil {
		return
	}
	e.Store.Update(buf[:n])
}

func emissionError(p Probe, err error) error {
	return &EmissionError{Host: p.Host.String(), Port: p.Port, Technique: p.Technique, Err: err}
}

// EmissionError wraps a fatal failure to write a probe to the send socket.
type EmissionError struct {
	Host      string
	Port      uint16
	Technique ScanTechnique
	Err       error
}

func (e *EmissionError) Error() string {
	return "core: failed to emit " + e.Technique.String() + " probe to " + e.Host + ": " + e.Err.Error()
}

func (e *EmissionError) Unwrap() error { return e.Err }
