// Package concurrency implements the runtime's execution core: a fixed pool
// of OS threads, each driving one single-threaded event loop and one inbound
// message hub, coordinated through start/stop barriers, a shutdown condition
// and signal-sourced interrupt routing.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package concurrency
