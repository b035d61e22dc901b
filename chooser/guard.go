// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chooser

import "sync/atomic"

// Guard is the Idle -> Rolling -> Idle re-entrancy guard for rolls.
// Acquire it with TryAcquire and release it with a deferred Release so
// every exit path returns to Idle.
type Guard struct {
	rolling atomic.Bool
}

// TryAcquire moves Idle -> Rolling. It returns false if a roll is running.
func (g *Guard) TryAcquire() bool {
	return g.rolling.CompareAndSwap(false, true)
}

// Release moves Rolling -> Idle
func (g *Guard) Release() {
	g.rolling.Store(false)
}

func (g *Guard) Rolling() bool {
	return g.rolling.Load()
}
