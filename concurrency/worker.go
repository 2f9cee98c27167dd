// File: concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	goruntime "runtime"
	"strconv"
	"sync"

	"github.com/momentics/hioload-runtime/affinity"
	"github.com/momentics/hioload-runtime/api"
	"github.com/momentics/hioload-runtime/blocker"
	"github.com/momentics/hioload-runtime/reactor"
)

// TaskCounts is a per-category tally of live cooperative tasks on one
// worker, snapshotted just before the worker is destroyed.
type TaskCounts map[string]int

// Worker owns one event loop and one message hub and lives on a dedicated
// OS thread for the duration of a pool run.
type Worker struct {
	pool  *Pool
	index int

	loop *reactor.Loop
	hub  *Hub
	ctx  *api.ThreadContext

	shutdownMu sync.Mutex
	shutdown   bool
	taskSink   *TaskCounts

	tasksMu sync.Mutex
	tasks   TaskCounts

	// Set only on the worker that created the shared blocking pool.
	ownedBlocker *blocker.Pool
}

func newWorker(p *Pool, index int) *Worker {
	return &Worker{
		pool:  p,
		index: index,
		tasks: make(TaskCounts),
	}
}

// Index returns the worker's position in the pool. The highest index is the
// utility thread.
func (w *Worker) Index() int { return w.index }

// Context returns the worker's thread context; nil once the worker has
// exited.
func (w *Worker) Context() *api.ThreadContext { return w.ctx }

// Loop returns the worker's event loop for descriptor registration.
func (w *Worker) Loop() api.Loop { return w.loop }

// run is the worker thread's whole life. The goroutine is locked to its OS
// thread and never unlocked, so the thread dies with the worker instead of
// returning to the scheduler tainted by pinning.
func (w *Worker) run(b *barrier, initial api.Message, done chan<- struct{}) {
	defer close(done)
	goruntime.LockOSThread()

	p := w.pool
	if p.cfg.PinThreads {
		if err := affinity.Pin(w.index % goruntime.NumCPU()); err != nil {
			p.log.Debug("cpu pinning unavailable", "worker", w.index, "err", err)
		}
	}

	loop, err := reactor.New(reactor.Config{
		Pump: w.pump,
		Done: w.ShouldShutDown,
	})
	if err != nil {
		// Broken host environment; there is no state to continue from.
		panic(err)
	}
	w.loop = loop
	w.hub = newHub(loop)
	w.ctx = &api.ThreadContext{Index: w.index, Loop: loop, Pool: p}
	p.setWorker(w.index, w)
	p.probes.Register(w.probeName(), w.TaskSnapshot)

	// Worker 0 brings up the shared blocking pool before the start barrier
	// so every worker sees it initialized from the first message onward.
	if w.index == 0 {
		bp := blocker.New(genericBlockerThreads, p)
		if !p.blocker.CompareAndSwap(nil, bp) {
			panic(api.ErrBlockerInitialized)
		}
		w.ownedBlocker = bp
	}

	// No worker may run a message while another is still half constructed.
	b.wait()
	if p.blocker.Load() == nil {
		panic(api.ErrBlockerUninitialized)
	}

	if initial != nil {
		w.hub.Enqueue(initial)
	}

	guard(p.log, w.index, loop.Run)

	// No worker may tear shared state down while another is still inside
	// its final loop iteration.
	b.wait()

	if w.ownedBlocker != nil {
		w.ownedBlocker.Close()
		p.blocker.Store(nil)
	}
	w.snapshotToSink()
	p.probes.Unregister(w.probeName())
	if err := loop.Close(); err != nil {
		p.log.Warn("loop close failed", "worker", w.index, "err", err)
	}
	p.setWorker(w.index, nil)
	w.ctx = nil
}

// pump drains the hub once; runs at the top of every loop iteration.
func (w *Worker) pump() {
	w.hub.pump(w.deliver)
}

func (w *Worker) deliver(m api.Message) {
	m.Deliver(w.ctx)
}

// ShouldShutDown is a thread-safe point read of the local shutdown flag.
func (w *Worker) ShouldShutDown() bool {
	w.shutdownMu.Lock()
	defer w.shutdownMu.Unlock()
	return w.shutdown
}

// InitiateShutdown sets the shutdown flag and wakes the loop so the flag is
// observed even when no other activity is pending. sink, when non-nil,
// receives the worker's live-task snapshot just before destruction.
func (w *Worker) InitiateShutdown(sink *TaskCounts) {
	w.shutdownMu.Lock()
	w.taskSink = sink
	w.shutdown = true
	w.shutdownMu.Unlock()
	w.loop.Wake()
}

// TaskStarted records a live cooperative task of the given category on this
// worker. Intended for the scheduling layer built on top of the runtime.
func (w *Worker) TaskStarted(category string) {
	w.tasksMu.Lock()
	w.tasks[category]++
	w.tasksMu.Unlock()
}

// TaskFinished retires a task previously recorded with TaskStarted.
func (w *Worker) TaskFinished(category string) {
	w.tasksMu.Lock()
	w.tasks[category]--
	if w.tasks[category] == 0 {
		delete(w.tasks, category)
	}
	w.tasksMu.Unlock()
}

// TaskSnapshot returns a copy of the live-task tally.
func (w *Worker) TaskSnapshot() any {
	w.tasksMu.Lock()
	defer w.tasksMu.Unlock()
	out := make(TaskCounts, len(w.tasks))
	for k, v := range w.tasks {
		out[k] = v
	}
	return out
}

func (w *Worker) snapshotToSink() {
	w.shutdownMu.Lock()
	sink := w.taskSink
	w.shutdownMu.Unlock()
	if sink == nil {
		return
	}
	*sink = w.TaskSnapshot().(TaskCounts)
}

func (w *Worker) probeName() string {
	return "runtime.worker." + strconv.Itoa(w.index) + ".tasks"
}
