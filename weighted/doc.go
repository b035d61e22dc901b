// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package weighted draws one item from an ordered list of weighted items.

	choice, err := weighted.Pick([]weighted.Item[string]{
		{Value: "A", Weight: 1},
		{Value: "B", Weight: 3},
	}, nil)

Selection walks the list subtracting weights from a random value in
[1, total]. Iteration order is the slice order, so results are reproducible
with a seeded source:

	src := rand.New(rand.NewPCG(1, 2))
	i, v, err := weighted.PickIndex(items, src)

If all weights are zero the draw is uniform. An empty list returns
ErrEmptyCandidateSet.
*/
package weighted
