// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package weights implements the weight feedback policy.

After every draw, Apply zeroes the drawn choice and adds one to every other
visible choice, so repeated rolls rotate through the roster:

	{A:1, B:1, C:1} --draw A--> {A:0, B:2, C:2} --draw B--> {A:1, B:0, C:3}

Hidden choices keep their weight. Weights have no upper bound.

Recover builds the weighted candidate list for a roll, ResetAll restores
every weight to 1, and Set applies manual edits.

All functions return new slices and never modify their input.
*/
package weights
