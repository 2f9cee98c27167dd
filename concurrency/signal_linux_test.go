//go:build linux

// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package concurrency

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-runtime/api"
)

// End to end: a real SIGINT is routed through the interrupt slot onto the
// utility thread, whose handler requests shutdown; a second rapid signal
// finds the slot empty and delivers nothing.
func TestTerminationSignalTriggersShutdown(t *testing.T) {
	// Keep SIGINT subscribed for the whole test so a signal arriving after
	// the pool uninstalls its handler cannot fall through to the default
	// disposition and kill the test process.
	safety := make(chan os.Signal, 4)
	signal.Notify(safety, syscall.SIGINT)
	defer signal.Stop(safety)

	p := newTestPool(2)

	var deliveries atomic.Int64
	interrupt := &testMsg{fn: func(tc *api.ThreadContext) {
		deliveries.Add(1)
		p.RequestShutdown()
	}}
	p.ExchangeInterruptMessage(interrupt)

	join := startPool(t, p, nil)
	waitLive(t, p)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	join()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), deliveries.Load(), "two rapid signals must deliver exactly one interrupt message")
}
