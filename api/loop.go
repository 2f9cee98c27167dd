// File: api/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Readiness event bits reported to watchers.
const (
	EventIn  = 1 << 0
	EventOut = 1 << 1
)

// Watcher receives readiness callbacks from a worker's event loop. Callbacks
// run on the owning worker, single-threaded, and must not block.
type Watcher interface {
	OnEvent(events int)
}

// Loop is the resource-registration surface of one worker's event loop.
// Watch and Unwatch may only be called from the owning worker.
type Loop interface {
	Watch(fd int, events int, w Watcher) error
	Unwatch(fd int) error
}

// Enqueuer delivers a message onto a specific worker's hub. Safe to call
// from any thread, including the destination worker itself.
type Enqueuer interface {
	Enqueue(target int, m Message) error
}

// ThreadContext identifies the worker a delivery or callback is running on
// and exposes the per-thread facilities collaborators may use from there.
// It is valid from worker start until worker teardown.
type ThreadContext struct {
	// Index is the worker index, 0..N. Index N is the utility thread.
	Index int

	// Loop is the worker's own event loop.
	Loop Loop

	// Pool enqueues messages to any worker in the same pool.
	Pool Enqueuer
}
