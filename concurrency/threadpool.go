// File: concurrency/threadpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"fmt"
	goruntime "runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-runtime/api"
	"github.com/momentics/hioload-runtime/blocker"
	"github.com/momentics/hioload-runtime/control"
	"github.com/momentics/hioload-runtime/logging"
)

const (
	// MaxThreads caps the pool size, utility thread included.
	MaxThreads = 128

	// genericBlockerThreads sizes the shared blocking-operation pool.
	genericBlockerThreads = 2

	// CoordinatorIndex identifies the thread Run was called on; it is never
	// a valid enqueue target.
	CoordinatorIndex = -1
)

// Config carries the pool's construction parameters.
type Config struct {
	// Workers is the number of worker threads, excluding the implicit
	// utility thread. Must be at least 1.
	Workers int

	// PinThreads distributes worker threads across CPUs, best effort.
	PinThreads bool

	// Log receives runtime diagnostics. Defaults to logging.NewDefault().
	Log logging.Logger

	// AlarmPeriod, together with Alarm, turns on the periodic message
	// source: every period, Alarm mints one message per worker and the pool
	// enqueues it to that worker's hub. Zero disables the source.
	AlarmPeriod time.Duration
	Alarm       func(worker int) api.Message

	// TaskSummary enables the aggregated end-of-run report of live-task
	// counts by category, emitted through Log after all workers have been
	// joined.
	TaskSummary bool
}

// Pool is the runtime coordinator: it owns the worker threads, the startup
// and shutdown rendezvous, signal routing and the shared blocking pool.
// Construct once, call Run once, then discard.
type Pool struct {
	cfg   Config
	log   logging.Logger
	total int

	workersMu sync.Mutex
	workers   []*Worker

	interruptMu spinLock
	interrupt   api.Message

	shutdownMu        sync.Mutex
	shutdownCond      *sync.Cond
	shutdownRequested bool

	blocker atomic.Pointer[blocker.Pool]
	running atomic.Bool
	probes  *control.Probes
}

// New validates the configuration and prepares a pool. Worker counts outside
// 1..MaxThreads-1 are a caller error and fatal.
func New(cfg Config) *Pool {
	if cfg.Workers < 1 || cfg.Workers+1 > MaxThreads {
		panic(api.ErrWorkerCount)
	}
	if cfg.Log == nil {
		cfg.Log = logging.NewDefault()
	}
	p := &Pool{
		cfg:     cfg,
		log:     cfg.Log,
		total:   cfg.Workers + 1, // extra utility thread
		workers: make([]*Worker, cfg.Workers+1),
		probes:  control.NewProbes(),
	}
	p.shutdownCond = sync.NewCond(&p.shutdownMu)
	return p
}

// Total returns the thread count including the utility thread.
func (p *Pool) Total() int { return p.total }

// Probes exposes the pool's debug probe registry.
func (p *Pool) Probes() *control.Probes { return p.probes }

// Blocker returns the shared blocking-operation pool. Non-nil for every
// worker between the start and stop barriers.
func (p *Pool) Blocker() *blocker.Pool { return p.blocker.Load() }

// Run spawns the worker threads, rendezvouses with them at the start
// barrier, routes termination signals, and blocks until shutdown completes.
// The initial message, if any, goes to worker 0 and to no one else. Run is
// designed to be called exactly once per pool.
func (p *Pool) Run(initial api.Message) {
	if !p.running.CompareAndSwap(false, true) {
		panic(api.ErrAlreadyRunning)
	}

	// Workers plus the coordinator.
	b := newBarrier(p.total + 1)
	done := make([]chan struct{}, p.total)
	for i := 0; i < p.total; i++ {
		w := newWorker(p, i)
		var first api.Message
		if i == 0 {
			first = initial
		}
		done[i] = make(chan struct{})
		go w.run(b, first, done[i])
	}

	// No worker runs a message until every worker finished construction.
	b.wait()

	uninstallSignals := p.installSignals()
	stopAlarm := p.startAlarm()
	p.log.Debug("pool running", "threads", p.total, "pinned", p.cfg.PinThreads)

	p.shutdownMu.Lock()
	for !p.shutdownRequested {
		p.shutdownCond.Wait()
	}
	p.shutdownMu.Unlock()

	uninstallSignals()
	stopAlarm()

	sinks := make([]TaskCounts, p.total)
	for i := 0; i < p.total; i++ {
		var sink *TaskCounts
		if p.cfg.TaskSummary {
			sink = &sinks[i]
		}
		p.workerAt(i).InitiateShutdown(sink)
	}

	// Workers tear shared state down only after every loop has exited.
	b.wait()

	for i := 0; i < p.total; i++ {
		<-done[i]
	}

	if p.cfg.TaskSummary {
		p.reportTaskSummary(sinks)
	}
	p.log.Debug("pool stopped")
}

// RequestShutdown orders the pool to stop. Callable from any thread,
// idempotent, and the normal delivery target of an interrupt message.
func (p *Pool) RequestShutdown() {
	p.shutdownMu.Lock()
	if !p.shutdownRequested {
		p.shutdownRequested = true
		p.shutdownCond.Signal()
	}
	p.shutdownMu.Unlock()
}

// ExchangeInterruptMessage atomically swaps the stored interrupt message and
// returns the previous one, so callers can tell whether a message was
// already pending and avoid issuing a duplicate.
func (p *Pool) ExchangeInterruptMessage(m api.Message) api.Message {
	p.interruptMu.lock()
	prev := p.interrupt
	p.interrupt = m
	p.interruptMu.unlock()
	return prev
}

// Enqueue delivers m onto the hub of the target worker. Implements
// api.Enqueuer; safe from any thread while the pool is running.
func (p *Pool) Enqueue(target int, m api.Message) error {
	if target < 0 || target >= p.total {
		return fmt.Errorf("runtime: no worker %d in a pool of %d: %w",
			target, p.total, api.ErrPoolStopped)
	}
	w := p.workerAt(target)
	if w == nil {
		return api.ErrPoolStopped
	}
	w.hub.Enqueue(m)
	return nil
}

// WorkerAt returns the live worker at index, or nil outside the worker's
// lifetime. Slots fill before the start barrier and clear as workers exit.
func (p *Pool) WorkerAt(index int) *Worker {
	if index < 0 || index >= p.total {
		return nil
	}
	return p.workerAt(index)
}

func (p *Pool) workerAt(index int) *Worker {
	p.workersMu.Lock()
	defer p.workersMu.Unlock()
	return p.workers[index]
}

func (p *Pool) setWorker(index int, w *Worker) {
	p.workersMu.Lock()
	p.workers[index] = w
	p.workersMu.Unlock()
}

// routeInterrupt runs on the coordinator's normal control path after a
// termination signal. Emptying the slot at the same time as reading it
// guarantees that two rapid signals deliver exactly one message.
func (p *Pool) routeInterrupt() {
	m := p.ExchangeInterruptMessage(nil)
	if m == nil {
		return
	}
	// Signal-sourced traffic goes to the utility thread.
	if w := p.workerAt(p.total - 1); w != nil {
		w.hub.Enqueue(m)
	}
}

func (p *Pool) reportTaskSummary(sinks []TaskCounts) {
	totals := make(TaskCounts)
	for _, counts := range sinks {
		for category, n := range counts {
			totals[category] += n
		}
	}
	for category, n := range totals {
		p.log.Info("live tasks at shutdown", "category", category, "count", n)
	}
	if len(totals) == 0 {
		p.log.Info("live tasks at shutdown", "count", 0)
	}
}

// NumCPU is a convenience mirror of runtime.NumCPU for sizing pools.
func NumCPU() int { return goruntime.NumCPU() }
