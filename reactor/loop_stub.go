//go:build !linux

// File: reactor/loop_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable fallback: no descriptor multiplexing, wakeups carried by a
// buffered channel. The runtime stays fully functional for message traffic;
// Watch reports the facility as unsupported.

package reactor

import "github.com/momentics/hioload-runtime/api"

type Loop struct {
	cfg  Config
	wake chan struct{}
}

func New(cfg Config) (*Loop, error) {
	return &Loop{cfg: cfg, wake: make(chan struct{}, 1)}, nil
}

func (l *Loop) Watch(fd int, events int, w api.Watcher) error {
	return api.ErrWatchUnsupported
}

func (l *Loop) Unwatch(fd int) error {
	return api.ErrWatchUnsupported
}

// Wake forces the loop out of its wait. Safe from any thread; the buffer
// coalesces concurrent wakeups.
func (l *Loop) Wake() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) Run() {
	for {
		l.cfg.Pump()
		if l.cfg.Done() {
			return
		}
		<-l.wake
	}
}

func (l *Loop) Close() error { return nil }
