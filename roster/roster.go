// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/random-chooser/models"
	"github.com/danielhkuo/random-chooser/settings"
	"github.com/danielhkuo/random-chooser/weights"
)

var (
	ErrDuplicateName = errors.New("a choice with this name already exists")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrUnknownChoice = errors.New("unknown choice")
)

// Roster is the in-memory, ordered list of choices kept in sync with the
// settings store. It is not safe for concurrent use; callers serialize access.
type Roster struct {
	store    settings.Store
	defaults []models.Choice
	choices  []models.Choice
	hidden   map[string]bool
}

// New builds a roster from the store, falling back to defaults
func New(ctx context.Context, store settings.Store, defaults []models.Choice) *Roster {
	r := &Roster{
		store:    store,
		defaults: append([]models.Choice{}, defaults...),
		hidden:   make(map[string]bool),
	}
	r.Load(ctx)
	return r
}

// Load replaces the roster with the stored restaurant list. Invalid or
// duplicate stored entries are skipped. If nothing valid remains, the
// defaults are used and persisted as the initial list.
func (r *Roster) Load(ctx context.Context) {
	doc := r.store.Load(ctx)
	if loaded := r.fromStored(doc.Restaurants); len(loaded) > 0 {
		r.adopt(loaded)
		return
	}

	slog.Info("no stored restaurants, using defaults", "count", len(r.defaults))
	r.adopt(r.defaults)
	r.persist(ctx)
}

// Choices returns the roster in display order
func (r *Roster) Choices() []models.Choice {
	return append([]models.Choice{}, r.choices...)
}

// Visible returns the choices that are not hidden, in display order
func (r *Roster) Visible() []models.Choice {
	visible := make([]models.Choice, 0, len(r.choices))
	for _, c := range r.choices {
		if !r.hidden[c.ID] {
			visible = append(visible, c)
		}
	}
	return visible
}

// Get looks a choice up by ID
func (r *Roster) Get(id string) (models.Choice, bool) {
	for _, c := range r.choices {
		if c.ID == id {
			return c, true
		}
	}
	return models.Choice{}, false
}

func (r *Roster) IsHidden(id string) bool {
	return r.hidden[id]
}

// Add appends a new choice and persists the roster.
// Names are compared case-insensitively.
func (r *Roster) Add(ctx context.Context, name, address string, lat, lng float64) (models.Choice, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Choice{}, fmt.Errorf("%w: name is required", ErrInvalidChoice)
	}
	if !models.ValidLatLng(lat, lng) {
		return models.Choice{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidChoice)
	}

	normalized := settings.NormalizeName(name)
	for _, c := range r.choices {
		if settings.NormalizeName(c.Name) == normalized {
			return models.Choice{}, fmt.Errorf("%w: %s", ErrDuplicateName, c.Name)
		}
	}

	choice := models.Choice{
		ID:       uuid.NewString(),
		Name:     name,
		Address:  strings.TrimSpace(address),
		Location: models.At(lat, lng),
	}
	r.choices = append(r.choices, choice)
	r.persist(ctx)

	slog.Info("choice added", "choice_id", choice.ID, "name", choice.Name)
	return choice, nil
}

// Delete removes a choice by ID. It reports whether anything was removed.
func (r *Roster) Delete(ctx context.Context, id string) bool {
	for i, c := range r.choices {
		if c.ID != id {
			continue
		}
		r.choices = append(r.choices[:i:i], r.choices[i+1:]...)
		delete(r.hidden, id)
		r.persist(ctx)

		slog.Info("choice deleted", "choice_id", id, "name", c.Name)
		return true
	}
	return false
}

// SetHidden changes session visibility. It is never persisted.
func (r *Roster) SetHidden(id string, hidden bool) error {
	if _, ok := r.Get(id); !ok {
		return ErrUnknownChoice
	}
	if hidden {
		r.hidden[id] = true
	} else {
		delete(r.hidden, id)
	}
	return nil
}

// ToggleHidden flips visibility and returns the new hidden state
func (r *Roster) ToggleHidden(id string) (bool, error) {
	hidden := !r.hidden[id]
	if err := r.SetHidden(id, hidden); err != nil {
		return false, err
	}
	return hidden, nil
}

// ResetToDefaults replaces the roster with the default list and overwrites
// the whole stored document.
func (r *Roster) ResetToDefaults(ctx context.Context) {
	r.hidden = make(map[string]bool)
	r.choices = nil
	r.adopt(r.defaults)

	doc := models.DefaultSettings()
	doc.Restaurants = r.storedList(nil)
	if err := r.store.Save(ctx, doc); err != nil {
		slog.Warn("reset not persisted, keeping defaults in memory", "error", err)
	}
	slog.Info("roster reset to defaults", "count", len(r.choices))
}

// ExportSnapshot builds the downloadable document. View supplies the
// fields the settings document does not carry (zoom, language).
func (r *Roster) ExportSnapshot(ctx context.Context, view models.View) models.ExportFile {
	doc := r.store.Load(ctx)

	out := models.ExportFile{
		InitialLat:         view.InitialLat,
		InitialLng:         view.InitialLng,
		InitialZoom:        view.InitialZoom,
		Language:           view.Language,
		MapStyle:           view.MapStyle,
		WeightsEnabled:     doc.WeightsEnabled,
		Version:            models.SettingsVersion,
		DefaultRestaurants: make([]models.ExportChoice, 0, len(r.choices)),
	}
	if doc.OriginPosition != nil {
		lat, lng := doc.OriginPosition.Lat, doc.OriginPosition.Lng
		out.InitialLat, out.InitialLng = &lat, &lng
	}
	if doc.MapStyle != "" {
		style := doc.MapStyle
		out.MapStyle = &style
	}

	for _, c := range r.choices {
		w := weights.Lookup(doc.Restaurants, c.Name)
		out.DefaultRestaurants = append(out.DefaultRestaurants, models.ExportChoice{
			Name:     c.Name,
			Location: c.Location,
			Address:  c.Address,
			Weight:   &w,
		})
	}
	return out
}

// ImportSnapshot validates an import file and, if valid, replaces the
// roster and the settings it carries. On error nothing changes.
func (r *Roster) ImportSnapshot(ctx context.Context, data []byte) error {
	patch, err := settings.ParseImport(data)
	if err != nil {
		return err
	}

	if err := r.store.Update(ctx, patch); err != nil {
		slog.Warn("import not persisted, keeping it in memory", "error", err)
	}
	r.adopt(r.fromStored(patch.Restaurants))

	slog.Info("snapshot imported", "count", len(r.choices))
	return nil
}

// ApplyURLQuery merges the compact share parameters into the stored
// document. It reports whether any recognized parameter was present.
func (r *Roster) ApplyURLQuery(ctx context.Context, q url.Values) (bool, error) {
	patch, found, err := settings.ParseURLQuery(q)
	if err != nil || !found {
		return found, err
	}

	if err := r.store.Update(ctx, patch); err != nil {
		slog.Warn("url settings not persisted, keeping them in memory", "error", err)
	}
	if patch.Restaurants != nil {
		r.adopt(r.fromStored(patch.Restaurants))
	}

	slog.Info("url settings merged", "restaurants", len(patch.Restaurants))
	return true, nil
}

// ExportURL returns base with the compact share parameters appended
func (r *Roster) ExportURL(ctx context.Context, base string) (string, error) {
	q, err := settings.EncodeURLQuery(r.store.Load(ctx))
	if err != nil {
		return "", err
	}
	if len(q) == 0 {
		return base, nil
	}
	return base + "?" + q.Encode(), nil
}

// View returns the roster with current weights and visibility
func (r *Roster) View(ctx context.Context) models.RosterView {
	doc := r.store.Load(ctx)

	view := models.RosterView{
		Choices:        make([]models.ChoiceView, 0, len(r.choices)),
		WeightsEnabled: doc.WeightsOn(),
		MapStyle:       doc.MapStyle,
		OriginPosition: doc.OriginPosition,
	}
	for _, c := range r.choices {
		view.Choices = append(view.Choices, models.ChoiceView{
			ID:       c.ID,
			Name:     c.Name,
			Address:  c.Address,
			Location: c.Location,
			Weight:   weights.Lookup(doc.Restaurants, c.Name),
			Hidden:   r.hidden[c.ID],
		})
	}
	return view
}

// fromStored converts stored entries to choices, skipping invalid ones
func (r *Roster) fromStored(stored []models.StoredChoice) []models.Choice {
	out := make([]models.Choice, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))

	for _, s := range stored {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			slog.Warn("skipping stored restaurant without a name")
			continue
		}
		key := settings.NormalizeName(name)
		if _, dup := seen[key]; dup {
			slog.Warn("duplicate restaurant name in saved settings skipped", "name", name)
			continue
		}
		seen[key] = struct{}{}

		if !s.Location.Valid() {
			slog.Warn("invalid location in saved settings, skipping", "name", name)
			continue
		}
		out = append(out, models.Choice{Name: name, Address: s.Address, Location: s.Location})
	}
	return out
}

// adopt makes list the roster. Choices whose name is already in the roster
// keep their ID, so session visibility survives reloads.
func (r *Roster) adopt(list []models.Choice) {
	existing := make(map[string]string, len(r.choices))
	for _, c := range r.choices {
		existing[settings.NormalizeName(c.Name)] = c.ID
	}

	choices := make([]models.Choice, 0, len(list))
	keep := make(map[string]bool, len(r.hidden))
	for _, c := range list {
		if id, ok := existing[settings.NormalizeName(c.Name)]; ok {
			c.ID = id
		} else {
			c.ID = uuid.NewString()
		}
		if r.hidden[c.ID] {
			keep[c.ID] = true
		}
		choices = append(choices, c)
	}

	r.choices = choices
	r.hidden = keep
}

// persist writes the roster to the store, keeping each name's stored weight
func (r *Roster) persist(ctx context.Context) {
	doc := r.store.Load(ctx)
	list := r.storedList(doc.Restaurants)
	if err := r.store.Update(ctx, models.SettingsPatch{Restaurants: list}); err != nil {
		slog.Warn("roster change not persisted, keeping it in memory", "error", err)
	}
}

func (r *Roster) storedList(previous []models.StoredChoice) []models.StoredChoice {
	list := make([]models.StoredChoice, 0, len(r.choices))
	for _, c := range r.choices {
		w := weights.Lookup(previous, c.Name)
		list = append(list, models.StoredChoice{
			Name:     c.Name,
			Address:  c.Address,
			Location: c.Location,
			Weight:   &w,
		})
	}
	return list
}
