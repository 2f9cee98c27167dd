// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "errors"

// Protocol violations and lifecycle failures are unrecoverable: the runtime
// panics with one of these values rather than returning it. Only the
// embedding surface (Enqueue, Watch) returns errors.
var (
	// ErrWorkerCount reports a worker count below 1 or above the hard cap.
	ErrWorkerCount = errors.New("runtime: worker count out of range")

	// ErrAlreadyRunning reports a second Run call on the same pool.
	ErrAlreadyRunning = errors.New("runtime: pool is already running")

	// ErrMessageInFlight reports an enqueue of a message that is already
	// enqueued and not yet delivered.
	ErrMessageInFlight = errors.New("runtime: message enqueued while in flight")

	// ErrBlockerUninitialized reports a worker observing a nil shared
	// blocking pool after the start barrier.
	ErrBlockerUninitialized = errors.New("runtime: blocking pool uninitialized after start barrier")

	// ErrBlockerInitialized reports a second initialization of the shared
	// blocking pool.
	ErrBlockerInitialized = errors.New("runtime: blocking pool already initialized")

	// ErrPoolStopped is returned by Enqueue and blocking-pool submission when
	// the pool is not running.
	ErrPoolStopped = errors.New("runtime: pool is not running")

	// ErrWatchUnsupported is returned by Watch on platforms without a native
	// readiness facility.
	ErrWatchUnsupported = errors.New("reactor: descriptor watch not supported on this platform")
)
