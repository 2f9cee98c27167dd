// File: concurrency/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Termination signals fold into the ordinary message stream: the OS-level
// handler is only the async-signal-safe channel send inside os/signal, and
// all object-level work (the interrupt-message exchange, the enqueue) runs
// on the coordinator's own goroutine afterwards. Workers never observe
// asynchronous signals themselves.

package concurrency

import (
	"os"
	"os/signal"
	"syscall"
)

func (p *Pool) installSignals() (uninstall func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				p.routeInterrupt()
			case <-quit:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(quit)
	}
}
