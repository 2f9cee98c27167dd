// File: api/message.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "sync/atomic"

// Message is a unit of work enqueued onto one worker's hub and delivered
// exactly once on that worker's loop. The runtime never takes permanent
// ownership: after delivery the sender may free or reuse the message.
type Message interface {
	// Deliver is invoked exactly once, on the destination worker, with that
	// worker's thread context. Deliver must not block; it runs to completion
	// before the loop proceeds.
	Deliver(tc *ThreadContext)

	// Flight exposes the message's in-flight state. Embed Envelope to
	// implement it.
	Flight() *Envelope
}

// Envelope carries the in-flight state of a message. A message is in flight
// from enqueue until just before delivery; enqueueing it again during that
// window is a protocol violation the hub reports fatally.
type Envelope struct {
	inflight atomic.Bool
}

// Flight returns the envelope itself so embedding types satisfy Message.
func (e *Envelope) Flight() *Envelope { return e }

// BeginFlight marks the message in flight. It reports false when the message
// was already in flight.
func (e *Envelope) BeginFlight() bool { return e.inflight.CompareAndSwap(false, true) }

// EndFlight clears the in-flight mark. Called by the hub just before
// delivery, returning ownership to the sender.
func (e *Envelope) EndFlight() { e.inflight.Store(false) }

// InFlight reports whether the message is currently enqueued.
func (e *Envelope) InFlight() bool { return e.inflight.Load() }
