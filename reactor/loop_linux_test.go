//go:build linux

// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package reactor_test

import (
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-runtime/api"
	"github.com/momentics/hioload-runtime/reactor"
)

type fdWatcher struct {
	ready chan int
}

func (w *fdWatcher) OnEvent(events int) { w.ready <- events }

func TestLoopDispatchesReadiness(t *testing.T) {
	var stop atomic.Bool
	pumped := make(chan struct{}, 64)

	loop, err := reactor.New(reactor.Config{
		Pump: func() {
			select {
			case pumped <- struct{}{}:
			default:
			}
		},
		Done: stop.Load,
	})
	require.NoError(t, err)

	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	w := &fdWatcher{ready: make(chan int, 1)}
	require.NoError(t, loop.Watch(fds[0], api.EventIn, w))

	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	// Pump runs before any readiness wait.
	select {
	case <-pumped:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never pumped")
	}

	_, err = unix.Write(fds[1], []byte("x"))
	require.NoError(t, err)

	select {
	case events := <-w.ready:
		require.NotZero(t, events&api.EventIn)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher was not notified")
	}

	var buf [1]byte
	_, err = unix.Read(fds[0], buf[:])
	require.NoError(t, err)

	stop.Store(true)
	loop.Wake()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
	require.NoError(t, loop.Close())
}

func TestLoopWakeIsNotLost(t *testing.T) {
	// Done only turns true on the second pump, so the loop must survive one
	// readiness wait. The wakeup is issued before Run starts: the eventfd
	// counter keeps it pending, so that wait returns instead of blocking.
	var pumps atomic.Int64
	loop, err := reactor.New(reactor.Config{
		Pump: func() { pumps.Add(1) },
		Done: func() bool { return pumps.Load() >= 2 },
	})
	require.NoError(t, err)

	loop.Wake()

	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pre-run wakeup was lost")
	}
	require.NoError(t, loop.Close())
}

func TestLoopUnwatchStopsDelivery(t *testing.T) {
	var stop atomic.Bool
	loop, err := reactor.New(reactor.Config{Pump: func() {}, Done: stop.Load})
	require.NoError(t, err)

	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	defer unix.Close(fds[0])
	defer unix.Close(fds[1])

	w := &fdWatcher{ready: make(chan int, 1)}
	require.NoError(t, loop.Watch(fds[0], api.EventIn, w))
	require.NoError(t, loop.Unwatch(fds[0]))

	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	_, err = unix.Write(fds[1], []byte("x"))
	require.NoError(t, err)

	select {
	case <-w.ready:
		t.Fatal("unwatched descriptor still delivered")
	case <-time.After(50 * time.Millisecond):
	}

	stop.Store(true)
	loop.Wake()
	<-done
	require.NoError(t, loop.Close())
}
