// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package chooser is the core facade the presentation layer talks to.
//
// # Rolling
//
// Roll draws one visible choice. With weights enabled the draw uses the
// stored weights (see package weighted), otherwise it is uniform. The draw
// is then played back as a slot-machine style animation: the highlight
// walks over the visible choices a random number of full turns (3 to 9)
// and stops on the drawn one. Each step is published as a roll_frame event.
//
// After the animation the settings document is read again before weight
// feedback is applied, so changes made while the animation was running are
// kept. The first roll of a process uses the configured frame and settle
// delays; later rolls use half of them.
//
// # Re-entrancy
//
// A Guard allows a single roll at a time. A second Roll while one is
// running fails with ErrRollInProgress. The guard is released on every
// return path, including the empty-candidate case.
//
// # Events
//
// Every state change publishes a roster_updated event through the Hub.
// Subscribers that fall behind miss events rather than slowing rolls down.
package chooser
