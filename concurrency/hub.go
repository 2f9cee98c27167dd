// File: concurrency/hub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-runtime/api"
)

// waker is the loop-side wakeup a hub uses after enqueueing.
type waker interface {
	Wake()
}

// Hub is the inbound mailbox of one worker: any thread enqueues, only the
// owning worker's loop drains. Messages enqueued by the same source are
// delivered in enqueue order; no order is defined across sources.
type Hub struct {
	mu    sync.Mutex
	fifo  *queue.Queue
	waker waker
}

func newHub(w waker) *Hub {
	return &Hub{
		fifo:  queue.New(),
		waker: w,
	}
}

// Enqueue appends m and wakes the destination loop. Enqueueing a message
// that is already in flight is a protocol violation and panics: the caller
// has a correctness bug that must not be papered over.
func (h *Hub) Enqueue(m api.Message) {
	if !m.Flight().BeginFlight() {
		panic(api.ErrMessageInFlight)
	}
	h.mu.Lock()
	h.fifo.Add(m)
	h.mu.Unlock()
	h.waker.Wake()
}

// pump takes the batch of currently queued messages and delivers each.
// Enqueues racing with a pump become visible on the next pump. The in-flight
// mark is cleared before delivery, so a handler may re-enqueue its own
// message.
func (h *Hub) pump(deliver func(api.Message)) {
	h.mu.Lock()
	n := h.fifo.Length()
	if n == 0 {
		h.mu.Unlock()
		return
	}
	batch := make([]api.Message, n)
	for i := 0; i < n; i++ {
		batch[i] = h.fifo.Remove().(api.Message)
	}
	h.mu.Unlock()

	for _, m := range batch {
		m.Flight().EndFlight()
		deliver(m)
	}
}

// pending reports the number of queued, not yet pumped messages.
func (h *Hub) pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fifo.Length()
}
