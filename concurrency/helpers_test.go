// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package concurrency

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-runtime/api"
	"github.com/momentics/hioload-runtime/logging"
)

// testMsg is a closure-backed message for tests.
type testMsg struct {
	api.Envelope
	fn func(tc *api.ThreadContext)
}

func (m *testMsg) Deliver(tc *api.ThreadContext) {
	if m.fn != nil {
		m.fn(tc)
	}
}

func newTestPool(workers int) *Pool {
	return New(Config{Workers: workers, Log: logging.NopLogger{}})
}

// startPool runs p in the background and returns a join func that fails the
// test if Run does not return in time.
func startPool(t *testing.T, p *Pool, initial api.Message) (join func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.Run(initial)
		close(done)
	}()
	return func() {
		t.Helper()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("pool did not shut down in time")
		}
	}
}

// waitLive blocks until every worker slot is populated.
func waitLive(t *testing.T, p *Pool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		live := 0
		for i := 0; i < p.Total(); i++ {
			if p.WorkerAt(i) != nil {
				live++
			}
		}
		if live == p.Total() && p.Blocker() != nil {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("pool did not start in time")
}

func waitCounter(t *testing.T, c *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Load() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("counter stuck at %d, want at least %d", c.Load(), want)
}
