// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package concurrency

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBarrierHoldsUntilAllArrive(t *testing.T) {
	const parties = 4
	b := newBarrier(parties)

	var passed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < parties-1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.wait()
			passed.Add(1)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), passed.Load(), "parties passed an incomplete barrier")

	b.wait()
	wg.Wait()
	assert.Equal(t, int64(parties-1), passed.Load())
}

func TestBarrierIsReusable(t *testing.T) {
	const parties = 3
	b := newBarrier(parties)

	// Two generations back to back, same barrier.
	for round := 0; round < 2; round++ {
		var wg sync.WaitGroup
		for i := 0; i < parties; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.wait()
			}()
		}
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("round %d: barrier deadlocked", round)
		}
	}
}
