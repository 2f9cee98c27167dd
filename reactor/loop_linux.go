//go:build linux

// File: reactor/loop_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// epoll(7)-based loop. A level-triggered eventfd doubles as the wakeup and
// shutdown notifier: any cross-thread producer writes it to pull the loop
// out of its wait, and the pending counter keeps the descriptor readable
// until the loop drains it, so wakeups issued before the wait cannot be lost.

package reactor

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-runtime/api"
)

// Loop is an epoll-backed event loop. All methods except Wake must be called
// from the owning worker.
type Loop struct {
	cfg      Config
	epfd     int
	wakeFD   int
	watchers map[int]api.Watcher
	events   []unix.EpollEvent
	wakeBuf  [8]byte
}

// New creates a loop for one worker. Failure to obtain the epoll instance or
// the wake descriptor indicates a broken host environment.
func New(cfg Config) (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("reactor: epoll_create1: %w", err)
	}
	wakeFD, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("reactor: eventfd: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeFD)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFD, &ev); err != nil {
		unix.Close(wakeFD)
		unix.Close(epfd)
		return nil, fmt.Errorf("reactor: register wake fd: %w", err)
	}
	return &Loop{
		cfg:      cfg,
		epfd:     epfd,
		wakeFD:   wakeFD,
		watchers: make(map[int]api.Watcher),
		events:   make([]unix.EpollEvent, cfg.maxEvents()),
	}, nil
}

// Watch registers fd for readiness notifications delivered to w.
func (l *Loop) Watch(fd int, events int, w api.Watcher) error {
	ev := unix.EpollEvent{Events: epollBits(events), Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("reactor: watch fd %d: %w", fd, err)
	}
	l.watchers[fd] = w
	return nil
}

// Unwatch removes fd from the interest set.
func (l *Loop) Unwatch(fd int) error {
	delete(l.watchers, fd)
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("reactor: unwatch fd %d: %w", fd, err)
	}
	return nil
}

// Wake forces the loop out of its readiness wait. Safe from any thread.
func (l *Loop) Wake() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	// EAGAIN means the counter is already pending a wakeup.
	unix.Write(l.wakeFD, buf[:])
}

// Run drives the loop until Done reports true. Each iteration pumps first,
// then blocks for readiness and dispatches watcher callbacks.
func (l *Loop) Run() {
	for {
		l.cfg.Pump()
		if l.cfg.Done() {
			return
		}
		n, err := unix.EpollWait(l.epfd, l.events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			panic(fmt.Errorf("reactor: epoll_wait: %w", err))
		}
		for i := 0; i < n; i++ {
			fd := int(l.events[i].Fd)
			if fd == l.wakeFD {
				l.drainWake()
				continue
			}
			if w := l.watchers[fd]; w != nil {
				w.OnEvent(apiBits(l.events[i].Events))
			}
		}
	}
}

// Close releases the epoll instance and wake descriptor. Must run on the
// owning worker, after Run has returned.
func (l *Loop) Close() error {
	l.watchers = nil
	if err := unix.Close(l.wakeFD); err != nil {
		return err
	}
	return unix.Close(l.epfd)
}

func (l *Loop) drainWake() {
	for {
		if _, err := unix.Read(l.wakeFD, l.wakeBuf[:]); err != nil {
			return
		}
	}
}

func epollBits(events int) uint32 {
	var bits uint32
	if events&api.EventIn != 0 {
		bits |= unix.EPOLLIN
	}
	if events&api.EventOut != 0 {
		bits |= unix.EPOLLOUT
	}
	return bits
}

func apiBits(events uint32) int {
	var bits int
	if events&(unix.EPOLLIN|unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		bits |= api.EventIn
	}
	if events&unix.EPOLLOUT != 0 {
		bits |= api.EventOut
	}
	return bits
}
