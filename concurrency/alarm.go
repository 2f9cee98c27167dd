// File: concurrency/alarm.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Optional periodic message source for platforms and layers without native
// high-resolution timers: every period, one freshly minted message per
// worker, delivered through the normal hub path.

package concurrency

import "time"

func (p *Pool) startAlarm() (stop func()) {
	if p.cfg.AlarmPeriod <= 0 || p.cfg.Alarm == nil {
		return func() {}
	}
	ticker := time.NewTicker(p.cfg.AlarmPeriod)
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				for i := 0; i < p.total; i++ {
					m := p.cfg.Alarm(i)
					if m == nil {
						continue
					}
					if w := p.workerAt(i); w != nil {
						w.hub.Enqueue(m)
					}
				}
			case <-quit:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(quit)
	}
}
