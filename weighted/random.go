// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package weighted

import (
	"errors"
	"math"
	"math/rand/v2"
)

var ErrEmptyCandidateSet = errors.New("empty candidate set")

// Item pairs a value with its selection weight
type Item[T any] struct {
	Value  T
	Weight int
}

// Source is the random source used by Pick. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Default returns the process-wide generator from math/rand/v2
func Default() Source { return globalSource{} }

// Pick draws one value with probability weight_i / sum(weights).
// Negative weights count as zero, and weights above math.MaxInt/len(items)
// are capped there so the sum cannot overflow. When every weight is zero the
// draw is uniform across all items. A nil src uses the global generator.
func Pick[T any](items []Item[T], src Source) (T, error) {
	_, v, err := PickIndex(items, src)
	return v, err
}

// PickIndex is Pick, also returning the position of the drawn item
func PickIndex[T any](items []Item[T], src Source) (int, T, error) {
	var zero T
	if len(items) == 0 {
		return -1, zero, ErrEmptyCandidateSet
	}
	if src == nil {
		src = globalSource{}
	}

	limit := math.MaxInt / len(items)
	total := 0
	for _, it := range items {
		total += clamp(it.Weight, limit)
	}

	if total <= 0 {
		i := src.IntN(len(items))
		return i, items[i].Value, nil
	}

	// r in [1, total]; the item that brings r to <= 0 wins
	r := src.IntN(total) + 1
	for i, it := range items {
		r -= clamp(it.Weight, limit)
		if r <= 0 {
			return i, it.Value, nil
		}
	}

	last := len(items) - 1
	return last, items[last].Value, nil
}

func clamp(w, limit int) int {
	return min(max(w, 0), limit)
}
