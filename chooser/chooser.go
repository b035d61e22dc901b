// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chooser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/random-chooser/models"
	"github.com/danielhkuo/random-chooser/roster"
	"github.com/danielhkuo/random-chooser/settings"
	"github.com/danielhkuo/random-chooser/weighted"
	"github.com/danielhkuo/random-chooser/weights"
)

var (
	ErrRollInProgress = errors.New("a roll is already in progress")
	ErrInvalidOrigin  = errors.New("invalid origin position")
)

// Config holds the roll timing and the initial map view
type Config struct {
	View       models.View
	RollStep   time.Duration // delay between animation frames on the first roll
	RollSettle time.Duration // pause after the drawn choice is shown
}

type Option func(*Chooser)

// WithSource sets the random source used for draws and animation length
func WithSource(src weighted.Source) Option {
	return func(c *Chooser) { c.rng = src }
}

// WithWait replaces the frame delay, mainly so tests run without sleeping
func WithWait(wait func(time.Duration)) Option {
	return func(c *Chooser) { c.wait = wait }
}

// WithClock sets the clock used for export file names
func WithClock(now func() time.Time) Option {
	return func(c *Chooser) { c.now = now }
}

// Chooser is the entry point for every presentation call. Core operations
// run one at a time; a roll releases the lock between animation frames so
// other calls can interleave with it.
type Chooser struct {
	mu     sync.Mutex
	store  settings.Store
	roster *roster.Roster
	cfg    Config

	guard  Guard
	hub    *Hub
	rolled bool

	rng  weighted.Source
	wait func(time.Duration)
	now  func() time.Time
}

func New(store settings.Store, r *roster.Roster, cfg Config, opts ...Option) *Chooser {
	c := &Chooser{
		store:  store,
		roster: r,
		cfg:    cfg,
		hub:    NewHub(),
		rng:    weighted.Default(),
		wait:   time.Sleep,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Chooser) Hub() *Hub {
	return c.hub
}

// Rolling reports whether a roll animation is running
func (c *Chooser) Rolling() bool {
	return c.guard.Rolling()
}

func (c *Chooser) View(ctx context.Context) models.RosterView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roster.View(ctx)
}

// Roll draws one visible choice, animates the draw as a series of frame
// events and then applies weight feedback. Only one roll runs at a time.
// Once started the roll runs to completion even if ctx is canceled.
func (c *Chooser) Roll(ctx context.Context) (models.RollResponse, error) {
	if !c.guard.TryAcquire() {
		return models.RollResponse{}, ErrRollInProgress
	}
	defer c.guard.Release()

	ctx = context.WithoutCancel(ctx)

	c.mu.Lock()
	visible := c.roster.Visible()
	if len(visible) == 0 {
		c.mu.Unlock()
		return models.RollResponse{}, fmt.Errorf("no visible choices: %w", weighted.ErrEmptyCandidateSet)
	}

	var (
		index int
		drawn models.Choice
		err   error
	)
	if doc := c.store.Load(ctx); doc.WeightsOn() {
		index, drawn, err = weighted.PickIndex(weights.Recover(doc.Restaurants, visible), c.rng)
	} else {
		index, drawn, err = weighted.PickIndex(uniform(visible), c.rng)
	}
	if err != nil {
		c.mu.Unlock()
		return models.RollResponse{}, err
	}

	step, settle := c.cfg.RollStep, c.cfg.RollSettle
	if c.rolled {
		step, settle = step/2, settle/2
	}
	c.mu.Unlock()

	rollID := uuid.NewString()
	frames := len(visible)*(3+c.rng.IntN(7)) + index + 1

	slog.Info("roll started", "roll_id", rollID, "visible", len(visible), "frames", frames)
	c.hub.Publish(models.Event{Type: models.EventRollStarted, RollID: rollID, Frames: frames})

	for i := 0; i < frames; i++ {
		c.hub.Publish(models.Event{
			Type:     models.EventRollFrame,
			RollID:   rollID,
			ChoiceID: visible[i%len(visible)].ID,
			Frame:    i + 1,
			Frames:   frames,
		})
		c.wait(step)
	}

	c.mu.Lock()
	// Re-read: settings may have changed while the animation was running.
	if doc := c.store.Load(ctx); doc.WeightsOn() {
		updated := weights.Apply(doc.Restaurants, visible, drawn)
		if err := c.store.Update(ctx, models.SettingsPatch{Restaurants: updated}); err != nil {
			slog.Warn("weight feedback not persisted", "roll_id", rollID, "error", err)
		}
	}
	view := c.roster.View(ctx)
	c.rolled = true
	c.mu.Unlock()

	slog.Info("roll finished", "roll_id", rollID, "choice_id", drawn.ID, "name", drawn.Name)
	c.hub.Publish(models.Event{Type: models.EventRollFinished, RollID: rollID, ChoiceID: drawn.ID, Frames: frames, Roster: &view})

	c.wait(settle)

	return models.RollResponse{
		RollID: rollID,
		Choice: drawn,
		Index:  index,
		Frames: frames,
		Roster: view,
	}, nil
}

func uniform(choices []models.Choice) []weighted.Item[models.Choice] {
	items := make([]weighted.Item[models.Choice], len(choices))
	for i, ch := range choices {
		items[i] = weighted.Item[models.Choice]{Value: ch, Weight: models.DefaultWeight}
	}
	return items
}

func (c *Chooser) AddChoice(ctx context.Context, req models.AddChoiceRequest) (models.Choice, models.RosterView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	choice, err := c.roster.Add(ctx, req.Name, req.Address, req.Lat, req.Lng)
	if err != nil {
		return models.Choice{}, models.RosterView{}, err
	}
	return choice, c.changed(ctx), nil
}

// DeleteChoice removes a choice by ID; unknown IDs are ignored
func (c *Chooser) DeleteChoice(ctx context.Context, id string) models.RosterView {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.roster.Delete(ctx, id) {
		return c.roster.View(ctx)
	}
	return c.changed(ctx)
}

// ToggleVisibility flips the session-only hidden flag and returns it
func (c *Chooser) ToggleVisibility(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hidden, err := c.roster.ToggleHidden(id)
	if err != nil {
		return false, err
	}
	c.changed(ctx)
	return hidden, nil
}

// ResetWeights sets every stored weight back to 1
func (c *Chooser) ResetWeights(ctx context.Context) models.RosterView {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.store.Load(ctx)
	if err := c.store.Update(ctx, models.SettingsPatch{Restaurants: weights.ResetAll(doc.Restaurants)}); err != nil {
		slog.Warn("weight reset not persisted", "error", err)
	}
	slog.Info("weights reset", "count", len(doc.Restaurants))
	return c.changed(ctx)
}

// SetWeights overwrites the weights of the named choices
func (c *Chooser) SetWeights(ctx context.Context, updates map[string]int) (models.RosterView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := c.store.Load(ctx)
	updated, err := weights.Set(doc.Restaurants, updates)
	if err != nil {
		return models.RosterView{}, err
	}
	if err := c.store.Update(ctx, models.SettingsPatch{Restaurants: updated}); err != nil {
		slog.Warn("weights not persisted", "error", err)
	}
	return c.changed(ctx), nil
}

// ToggleWeightsEnabled flips weighted selection and returns the new state
func (c *Chooser) ToggleWeightsEnabled(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	enabled := !c.store.Load(ctx).WeightsOn()
	if err := c.store.Update(ctx, models.SettingsPatch{WeightsEnabled: &enabled}); err != nil {
		slog.Warn("weights flag not persisted", "error", err)
	}
	slog.Info("weights toggled", "enabled", enabled)
	c.changed(ctx)
	return enabled
}

func (c *Chooser) ResetToDefaults(ctx context.Context) models.RosterView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.roster.ResetToDefaults(ctx)
	return c.changed(ctx)
}

// SetMapStyle stores the tile URL template; an empty style clears it
func (c *Chooser) SetMapStyle(ctx context.Context, style string) models.RosterView {
	c.mu.Lock()
	defer c.mu.Unlock()

	style = strings.TrimSpace(style)
	if err := c.store.Update(ctx, models.SettingsPatch{MapStyle: &style}); err != nil {
		slog.Warn("map style not persisted", "error", err)
	}
	return c.changed(ctx)
}

// SetOrigin stores the user's reference position
func (c *Chooser) SetOrigin(ctx context.Context, lat, lng float64) (models.RosterView, error) {
	if !models.ValidLatLng(lat, lng) {
		return models.RosterView{}, ErrInvalidOrigin
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	origin := models.LatLng{Lat: lat, Lng: lng}
	if err := c.store.Update(ctx, models.SettingsPatch{OriginPosition: &origin}); err != nil {
		slog.Warn("origin not persisted", "error", err)
	}
	return c.changed(ctx), nil
}

// ExportData returns the export document and its suggested file name
func (c *Chooser) ExportData(ctx context.Context) (models.ExportFile, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := fmt.Sprintf("exported-config-%s.json", c.now().Format("2006-01-02"))
	return c.roster.ExportSnapshot(ctx, c.cfg.View), name
}

// ImportData replaces the roster and settings with an import file.
// An invalid file changes nothing.
func (c *Chooser) ImportData(ctx context.Context, data []byte) (models.RosterView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.roster.ImportSnapshot(ctx, data); err != nil {
		return models.RosterView{}, err
	}
	return c.changed(ctx), nil
}

// ExportViaURLString returns base with the share parameters appended
func (c *Chooser) ExportViaURLString(ctx context.Context, base string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roster.ExportURL(ctx, base)
}

// ApplyURLQuery merges share parameters into the stored settings
func (c *Chooser) ApplyURLQuery(ctx context.Context, q url.Values) (bool, models.RosterView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	found, err := c.roster.ApplyURLQuery(ctx, q)
	if err != nil {
		return found, models.RosterView{}, err
	}
	if !found {
		return false, c.roster.View(ctx), nil
	}
	return true, c.changed(ctx), nil
}

// changed publishes the current roster. Callers hold c.mu.
func (c *Chooser) changed(ctx context.Context) models.RosterView {
	view := c.roster.View(ctx)
	c.hub.Publish(models.Event{Type: models.EventRosterUpdated, Roster: &view})
	return view
}
