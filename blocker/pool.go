// File: blocker/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package blocker offloads blocking operations from the runtime's event
// loops onto a small shared set of dedicated OS threads. Completions travel
// back to the requesting worker as ordinary hub messages, so the event loops
// themselves never block on anything but readiness.
package blocker

import (
	"runtime"
	"sync"

	"github.com/momentics/hioload-runtime/api"
)

// queueDepth bounds pending jobs; submission blocks once it is reached so
// misbehaving producers apply backpressure instead of growing memory.
const queueDepth = 256

type job struct {
	run    func()
	done   api.Message
	target int
}

// Pool is the shared blocking-operation pool. One worker creates it before
// the start barrier and destroys it during shutdown; all other workers only
// submit to it in between.
type Pool struct {
	enq  api.Enqueuer
	jobs chan job
	stop chan struct{}
	wg   sync.WaitGroup

	closeOnce sync.Once
}

// New starts the given number of dedicated OS threads consuming blocking jobs.
// Completion messages are delivered through enq.
func New(threads int, enq api.Enqueuer) *Pool {
	if threads <= 0 {
		threads = 1
	}
	p := &Pool{
		enq:  enq,
		jobs: make(chan job, queueDepth),
		stop: make(chan struct{}),
	}
	for i := 0; i < threads; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Do schedules run on a pool thread. When run returns, done (if non-nil) is
// enqueued to the target worker. Blocks while the queue is full.
func (p *Pool) Do(run func(), done api.Message, target int) error {
	select {
	case <-p.stop:
		return api.ErrPoolStopped
	default:
	}
	select {
	case <-p.stop:
		return api.ErrPoolStopped
	case p.jobs <- job{run: run, done: done, target: target}:
		return nil
	}
}

// Close stops the pool and joins every thread. Jobs already picked up finish
// first; jobs still queued are dropped.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.stop)
	})
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	// Blocking work stays off the goroutine scheduler's shared threads.
	runtime.LockOSThread()
	for {
		select {
		case <-p.stop:
			return
		case j := <-p.jobs:
			j.run()
			if j.done != nil {
				_ = p.enq.Enqueue(j.target, j.done)
			}
		}
	}
}
