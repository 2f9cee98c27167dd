// File: concurrency/spinlock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"runtime"
	"sync/atomic"
)

// spinLock guards the interrupt-message slot. The critical section is a
// single pointer swap, so spinning beats parking the thread.
type spinLock struct {
	state atomic.Int32
}

func (l *spinLock) lock() {
	for !l.state.CompareAndSwap(0, 1) {
		runtime.Gosched()
	}
}

func (l *spinLock) unlock() {
	l.state.Store(0)
}
