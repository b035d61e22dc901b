// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package weights

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/random-chooser/models"
	"github.com/danielhkuo/random-chooser/weighted"
)

var (
	ErrNegativeWeight = errors.New("weight must be zero or greater")
	ErrWeightTooLarge = fmt.Errorf("weight must not exceed %d", models.MaxWeight)
)

// Recover pairs each choice with its stored weight, keeping the choices' order.
// Choices without a stored entry get models.DefaultWeight.
func Recover(stored []models.StoredChoice, choices []models.Choice) []weighted.Item[models.Choice] {
	byName := index(stored)
	items := make([]weighted.Item[models.Choice], 0, len(choices))
	for _, c := range choices {
		w := models.DefaultWeight
		if i, ok := byName[c.Name]; ok {
			w = stored[i].EffectiveWeight()
		}
		items = append(items, weighted.Item[models.Choice]{Value: c, Weight: w})
	}
	return items
}

// Lookup returns the stored weight for name, or models.DefaultWeight
func Lookup(stored []models.StoredChoice, name string) int {
	for _, s := range stored {
		if key(s) == name {
			return s.EffectiveWeight()
		}
	}
	return models.DefaultWeight
}

// Apply runs the feedback step after a draw: the drawn entry drops to 0 and
// every other visible entry gains 1, saturating at models.MaxWeight. Entries
// not in visible are copied as-is.
// The input slice is not modified.
func Apply(stored []models.StoredChoice, visible []models.Choice, drawn models.Choice) []models.StoredChoice {
	inRoll := make(map[string]struct{}, len(visible))
	for _, c := range visible {
		inRoll[c.Name] = struct{}{}
	}

	out := make([]models.StoredChoice, len(stored))
	for i, s := range stored {
		out[i] = s
		if _, ok := inRoll[key(s)]; !ok {
			continue
		}
		if key(s) == drawn.Name {
			out[i].Weight = ptr(0)
		} else {
			out[i].Weight = ptr(bump(s.EffectiveWeight()))
		}
	}
	return out
}

// ResetAll sets every entry back to models.DefaultWeight
func ResetAll(stored []models.StoredChoice) []models.StoredChoice {
	out := make([]models.StoredChoice, len(stored))
	for i, s := range stored {
		out[i] = s
		out[i].Weight = ptr(models.DefaultWeight)
	}
	return out
}

// Set overwrites the weights named in updates. Names that are not stored
// are ignored; a value outside [0, models.MaxWeight] rejects the whole update.
func Set(stored []models.StoredChoice, updates map[string]int) ([]models.StoredChoice, error) {
	for name, w := range updates {
		if w < 0 {
			return nil, fmt.Errorf("%q: %w", name, ErrNegativeWeight)
		}
		if w > models.MaxWeight {
			return nil, fmt.Errorf("%q: %w", name, ErrWeightTooLarge)
		}
	}

	out := make([]models.StoredChoice, len(stored))
	for i, s := range stored {
		out[i] = s
		if w, ok := updates[key(s)]; ok {
			out[i].Weight = ptr(w)
		}
	}
	return out, nil
}

func index(stored []models.StoredChoice) map[string]int {
	m := make(map[string]int, len(stored))
	for i, s := range stored {
		if _, dup := m[key(s)]; !dup {
			m[key(s)] = i
		}
	}
	return m
}

// key matches stored entries to choices, whose names are trimmed on load
func key(s models.StoredChoice) string {
	return strings.TrimSpace(s.Name)
}

func bump(w int) int {
	if w >= models.MaxWeight {
		return models.MaxWeight
	}
	return w + 1
}

func ptr(v int) *int {
	return &v
}
