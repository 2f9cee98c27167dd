// File: reactor/loop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package reactor

// Config wires a loop to its owning worker.
type Config struct {
	// Pump runs at the top of every iteration, before descriptors are
	// serviced. The worker drains its message hub here.
	Pump func()

	// Done is checked after each pump. When it reports true the loop
	// returns; by then the pump has already drained anything queued behind
	// the final wakeup.
	Done func() bool

	// MaxEvents bounds the readiness batch per iteration. Defaults to 64.
	MaxEvents int
}

func (c *Config) maxEvents() int {
	if c.MaxEvents <= 0 {
		return 64
	}
	return c.MaxEvents
}
