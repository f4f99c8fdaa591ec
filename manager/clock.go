// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manager

import "time"

// sessionClock is the time of a render session, which starts at
// zero when the session is created and can be paused.
type sessionClock struct {
	now      func() time.Time
	start    time.Time
	paused   bool
	pausedAt time.Duration
}

func newSessionClock(now func() time.Time) sessionClock {
	return sessionClock{now: now, start: now()}
}

// elapsed returns the session time.
func (c *sessionClock) elapsed() time.Duration {
	if c.paused {
		return c.pausedAt
	}
	return c.now().Sub(c.start)
}

func (c *sessionClock) pause() {
	if c.paused {
		return
	}
	c.pausedAt = c.elapsed()
	c.paused = true
}

func (c *sessionClock) resume() {
	if !c.paused {
		return
	}
	c.start = c.now().Add(-c.pausedAt)
	c.paused = false
}
