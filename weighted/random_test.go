// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package weighted

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

// fixedSource always returns the same value (clamped to n-1)
type fixedSource int

func (f fixedSource) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func items(weights ...int) []Item[string] {
	out := make([]Item[string], len(weights))
	for i, w := range weights {
		out[i] = Item[string]{Value: string(rune('A' + i)), Weight: w}
	}
	return out
}

func TestPick_Empty(t *testing.T) {
	_, err := Pick[string](nil, nil)
	if !errors.Is(err, ErrEmptyCandidateSet) {
		t.Fatalf("expected ErrEmptyCandidateSet, got %v", err)
	}
}

func TestPick_SingleItem(t *testing.T) {
	v, err := Pick(items(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if v != "A" {
		t.Errorf("expected A, got %s", v)
	}
}

func TestPick_UniformDistribution(t *testing.T) {
	src := rand.New(rand.NewPCG(42, 7))
	const n = 10000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		v, err := Pick(items(1, 1, 1, 1), src)
		if err != nil {
			t.Fatal(err)
		}
		counts[v]++
	}

	// 25% +/- 2% is more than 4 standard deviations at n=10000
	for _, name := range []string{"A", "B", "C", "D"} {
		freq := float64(counts[name]) / n
		if math.Abs(freq-0.25) > 0.02 {
			t.Errorf("%s: frequency %.4f outside tolerance of 0.25", name, freq)
		}
	}
}

func TestPick_ProportionalDistribution(t *testing.T) {
	src := rand.New(rand.NewPCG(3, 9))
	const n = 20000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		v, _ := Pick(items(1, 3), src)
		counts[v]++
	}

	freq := float64(counts["B"]) / n
	if math.Abs(freq-0.75) > 0.02 {
		t.Errorf("expected B near 0.75, got %.4f", freq)
	}
}

func TestPick_ZeroWeightExcluded(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 5000; i++ {
		v, err := Pick(items(0, 5), src)
		if err != nil {
			t.Fatal(err)
		}
		if v == "A" {
			t.Fatalf("zero-weight item drawn on iteration %d", i)
		}
	}
}

func TestPick_AllZeroFallsBackToUniform(t *testing.T) {
	src := rand.New(rand.NewPCG(5, 5))
	seen := map[string]int{}
	for i := 0; i < 3000; i++ {
		v, err := Pick(items(0, 0, 0), src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[v]++
	}
	for _, name := range []string{"A", "B", "C"} {
		if seen[name] == 0 {
			t.Errorf("expected %s to be drawn at least once", name)
		}
	}
}

func TestPickIndex_CumulativeBoundaries(t *testing.T) {
	// weights 2,0,3 -> r in [1,5]; r=1,2 -> A; r=3..5 -> C
	tests := []struct {
		name     string
		src      fixedSource
		expected int
	}{
		{"lowest value", 0, 0},
		{"end of first bucket", 1, 0},
		{"start of last bucket", 2, 2},
		{"highest value", 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, _, err := PickIndex(items(2, 0, 3), tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if i != tt.expected {
				t.Errorf("expected index %d, got %d", tt.expected, i)
			}
		})
	}
}

func TestPick_NegativeWeightsTreatedAsZero(t *testing.T) {
	src := rand.New(rand.NewPCG(8, 8))
	for i := 0; i < 2000; i++ {
		v, _ := Pick(items(-4, 2), src)
		if v != "B" {
			t.Fatalf("negative-weight item drawn")
		}
	}
}

func TestPick_HugeWeightsDoNotOverflow(t *testing.T) {
	huge := 1 << 62
	tests := []struct {
		name    string
		weights []int
		zero    string
	}{
		{"zero last", []int{huge, huge, 0}, "C"},
		{"zero first", []int{0, huge, huge}, "A"},
		{"max int", []int{math.MaxInt, 0, math.MaxInt}, "B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, src := range []Source{fixedSource(0), fixedSource(math.MaxInt), rand.New(rand.NewPCG(3, 4))} {
				for i := 0; i < 200; i++ {
					v, err := Pick(items(tt.weights...), src)
					if err != nil {
						t.Fatal(err)
					}
					if v == tt.zero {
						t.Fatalf("zero-weight %s drawn", tt.zero)
					}
				}
			}
		})
	}
}
