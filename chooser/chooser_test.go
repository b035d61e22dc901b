// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chooser

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/random-chooser/models"
	"github.com/danielhkuo/random-chooser/roster"
	"github.com/danielhkuo/random-chooser/settings"
	"github.com/danielhkuo/random-chooser/weighted"
)

// zeroSource always returns 0: the first positive-weight candidate wins
// and the animation makes the minimum number of turns.
type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

func testDefaults() []models.Choice {
	return []models.Choice{
		{Name: "Giraya", Location: models.At(43.6078, 3.8894)},
		{Name: "Subway", Location: models.At(43.6075, 3.8802)},
		{Name: "Thai to Box", Location: models.At(43.6072, 3.8807)},
	}
}

func newTestChooser(t *testing.T, opts ...Option) (*Chooser, settings.Store) {
	t.Helper()

	store := settings.NewStore(settings.NewMemoryKV())
	r := roster.New(context.Background(), store, testDefaults())
	cfg := Config{RollStep: 100 * time.Millisecond, RollSettle: time.Second}

	base := []Option{WithSource(zeroSource{}), WithWait(func(time.Duration) {})}
	return New(store, r, cfg, append(base, opts...)...), store
}

func storedWeights(t *testing.T, store settings.Store) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, s := range store.Load(context.Background()).Restaurants {
		out[s.Name] = s.EffectiveWeight()
	}
	return out
}

func assertWeights(t *testing.T, got, want map[string]int) {
	t.Helper()
	for name, w := range want {
		if got[name] != w {
			t.Errorf("Weight of %s: expected %d, got %d (all: %v)", name, w, got[name], got)
		}
	}
}

func TestRoll_FeedbackSequence(t *testing.T) {
	ctx := context.Background()
	c, store := newTestChooser(t)

	res, err := c.Roll(ctx)
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if res.Choice.Name != "Giraya" || res.Index != 0 {
		t.Fatalf("Expected Giraya at index 0, got %s at %d", res.Choice.Name, res.Index)
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Giraya": 0, "Subway": 2, "Thai to Box": 2})

	res, err = c.Roll(ctx)
	if err != nil {
		t.Fatalf("Second roll failed: %v", err)
	}
	if res.Choice.Name != "Subway" {
		t.Fatalf("Expected Subway on second roll, got %s", res.Choice.Name)
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Giraya": 1, "Subway": 0, "Thai to Box": 3})

	if res.Roster.Choices[2].Weight != 3 {
		t.Errorf("Expected response roster to carry updated weights, got %+v", res.Roster.Choices)
	}
}

func TestRoll_Events(t *testing.T) {
	c, _ := newTestChooser(t)
	_, events := c.Hub().Subscribe(128)

	res, err := c.Roll(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// 3 visible choices, 3 turns, index 0
	if res.Frames != 10 {
		t.Fatalf("Expected 10 frames, got %d", res.Frames)
	}

	var got []models.Event
	for len(events) > 0 {
		got = append(got, <-events)
	}
	if len(got) != res.Frames+2 {
		t.Fatalf("Expected %d events, got %d", res.Frames+2, len(got))
	}
	if got[0].Type != models.EventRollStarted {
		t.Errorf("Expected roll_started first, got %s", got[0].Type)
	}
	last := got[len(got)-1]
	if last.Type != models.EventRollFinished || last.ChoiceID != res.Choice.ID || last.Roster == nil {
		t.Errorf("Unexpected final event %+v", last)
	}
	finalFrame := got[len(got)-2]
	if finalFrame.Type != models.EventRollFrame || finalFrame.ChoiceID != res.Choice.ID {
		t.Errorf("Expected the last frame to highlight the drawn choice, got %+v", finalFrame)
	}
	for _, ev := range got {
		if ev.RollID != res.RollID {
			t.Errorf("Event %s has roll ID %q, want %q", ev.Type, ev.RollID, res.RollID)
		}
	}
}

func TestRoll_WeightsDisabled(t *testing.T) {
	ctx := context.Background()
	c, store := newTestChooser(t)

	if c.ToggleWeightsEnabled(ctx) {
		t.Fatal("Expected weights to be disabled by the toggle")
	}
	if _, err := c.Roll(ctx); err != nil {
		t.Fatal(err)
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Giraya": 1, "Subway": 1, "Thai to Box": 1})
}

func TestRoll_SkipsHidden(t *testing.T) {
	ctx := context.Background()
	c, store := newTestChooser(t)

	giraya := c.View(ctx).Choices[0]
	if _, err := c.ToggleVisibility(ctx, giraya.ID); err != nil {
		t.Fatal(err)
	}

	res, err := c.Roll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Choice.Name != "Subway" {
		t.Errorf("Expected Subway, got %s", res.Choice.Name)
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Giraya": 1, "Subway": 0, "Thai to Box": 2})
}

func TestRoll_NoVisibleChoicesReleasesGuard(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChooser(t)

	for _, ch := range c.View(ctx).Choices {
		if _, err := c.ToggleVisibility(ctx, ch.ID); err != nil {
			t.Fatal(err)
		}
	}

	_, err := c.Roll(ctx)
	if !errors.Is(err, weighted.ErrEmptyCandidateSet) {
		t.Fatalf("Expected ErrEmptyCandidateSet, got %v", err)
	}
	if c.Rolling() {
		t.Fatal("Guard still held after the empty-candidate exit")
	}

	id := c.View(ctx).Choices[1].ID
	if _, err := c.ToggleVisibility(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Roll(ctx); err != nil {
		t.Errorf("Expected roll to work again, got %v", err)
	}
}

func TestRoll_RejectsConcurrentRoll(t *testing.T) {
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	wait := func(time.Duration) {
		once.Do(func() { close(started) })
		<-release
	}
	c, _ := newTestChooser(t, WithWait(wait))

	done := make(chan error, 1)
	go func() {
		_, err := c.Roll(ctx)
		done <- err
	}()

	<-started
	if !c.Rolling() {
		t.Error("Expected Rolling during the animation")
	}
	if _, err := c.Roll(ctx); !errors.Is(err, ErrRollInProgress) {
		t.Errorf("Expected ErrRollInProgress, got %v", err)
	}

	// Other calls are not blocked by a running roll
	_ = c.View(ctx)

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("First roll failed: %v", err)
	}
	if c.Rolling() {
		t.Error("Expected Idle after the roll")
	}
}

func TestRoll_KeepsChangesMadeDuringAnimation(t *testing.T) {
	ctx := context.Background()

	var c *Chooser
	var once sync.Once
	wait := func(time.Duration) {
		once.Do(func() {
			if _, err := c.SetWeights(ctx, map[string]int{"Subway": 10}); err != nil {
				t.Errorf("SetWeights failed: %v", err)
			}
		})
	}
	c, store := newTestChooser(t, WithWait(wait))

	res, err := c.Roll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Choice.Name != "Giraya" {
		t.Fatalf("Expected Giraya, got %s", res.Choice.Name)
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Giraya": 0, "Subway": 11, "Thai to Box": 2})
}

func TestRoll_WeightsDisabledDuringAnimation(t *testing.T) {
	ctx := context.Background()

	var c *Chooser
	var once sync.Once
	wait := func(time.Duration) {
		once.Do(func() { c.ToggleWeightsEnabled(ctx) })
	}
	c, store := newTestChooser(t, WithWait(wait))

	if _, err := c.Roll(ctx); err != nil {
		t.Fatal(err)
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Giraya": 1, "Subway": 1, "Thai to Box": 1})
}

func TestRoll_DelaysHalveAfterFirstRoll(t *testing.T) {
	ctx := context.Background()

	var delays []time.Duration
	c, _ := newTestChooser(t, WithWait(func(d time.Duration) { delays = append(delays, d) }))

	first, err := c.Roll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(delays) != first.Frames+1 {
		t.Fatalf("Expected %d waits, got %d", first.Frames+1, len(delays))
	}
	if delays[0] != 100*time.Millisecond || delays[len(delays)-1] != time.Second {
		t.Errorf("Unexpected first roll delays: step %v settle %v", delays[0], delays[len(delays)-1])
	}

	delays = nil
	if _, err := c.Roll(ctx); err != nil {
		t.Fatal(err)
	}
	if delays[0] != 50*time.Millisecond || delays[len(delays)-1] != 500*time.Millisecond {
		t.Errorf("Unexpected second roll delays: step %v settle %v", delays[0], delays[len(delays)-1])
	}
}

func TestRoll_Distribution(t *testing.T) {
	ctx := context.Background()
	store := settings.NewStore(settings.NewMemoryKV())
	r := roster.New(ctx, store, testDefaults())
	c := New(store, r, Config{}, WithWait(func(time.Duration) {}))

	counts := make(map[string]int)
	for i := 0; i < 300; i++ {
		res, err := c.Roll(ctx)
		if err != nil {
			t.Fatal(err)
		}
		counts[res.Choice.Name]++
	}

	// Feedback rotates draws, so every choice comes up regularly
	for _, ch := range testDefaults() {
		if counts[ch.Name] < 50 {
			t.Errorf("%s drawn only %d times out of 300", ch.Name, counts[ch.Name])
		}
	}
}

func TestMutationsPublishRosterUpdates(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChooser(t)
	_, events := c.Hub().Subscribe(32)

	if _, _, err := c.AddChoice(ctx, models.AddChoiceRequest{Name: "Grand Slam", Lat: 43.6, Lng: 3.88}); err != nil {
		t.Fatal(err)
	}
	c.ResetWeights(ctx)
	c.SetMapStyle(ctx, "https://tiles.example/{z}/{x}/{y}.png")
	if _, err := c.SetOrigin(ctx, 43.6, 3.88); err != nil {
		t.Fatal(err)
	}

	if n := len(events); n != 4 {
		t.Fatalf("Expected 4 events, got %d", n)
	}
	for len(events) > 0 {
		ev := <-events
		if ev.Type != models.EventRosterUpdated || ev.Roster == nil {
			t.Errorf("Unexpected event %+v", ev)
		}
	}
}

func TestAddAndDeleteChoice(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChooser(t)

	choice, view, err := c.AddChoice(ctx, models.AddChoiceRequest{Name: "Cuisine S", Lat: 43.61, Lng: 3.88})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Choices) != 4 {
		t.Errorf("Expected 4 choices, got %d", len(view.Choices))
	}

	if _, _, err := c.AddChoice(ctx, models.AddChoiceRequest{Name: "CUISINE S", Lat: 43.61, Lng: 3.88}); !errors.Is(err, roster.ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName, got %v", err)
	}

	view = c.DeleteChoice(ctx, choice.ID)
	if len(view.Choices) != 3 {
		t.Errorf("Expected 3 choices after delete, got %d", len(view.Choices))
	}
	view = c.DeleteChoice(ctx, choice.ID)
	if len(view.Choices) != 3 {
		t.Error("Deleting an unknown ID must be a no-op")
	}
}

func TestSetWeights_RejectsNegative(t *testing.T) {
	ctx := context.Background()
	c, store := newTestChooser(t)

	if _, err := c.SetWeights(ctx, map[string]int{"Giraya": 4, "Subway": -1}); err == nil {
		t.Fatal("Expected error for negative weight")
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Giraya": 1, "Subway": 1})

	view, err := c.SetWeights(ctx, map[string]int{"Giraya": 4})
	if err != nil {
		t.Fatal(err)
	}
	if view.Choices[0].Weight != 4 {
		t.Errorf("Expected weight 4, got %d", view.Choices[0].Weight)
	}
}

func TestSetOrigin_Invalid(t *testing.T) {
	c, _ := newTestChooser(t)
	if _, err := c.SetOrigin(context.Background(), 95, 0); !errors.Is(err, ErrInvalidOrigin) {
		t.Errorf("Expected ErrInvalidOrigin, got %v", err)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	c, _ := newTestChooser(t, WithClock(func() time.Time { return day }))

	doc, name := c.ExportData(ctx)
	if name != "exported-config-2025-03-14.json" {
		t.Errorf("Unexpected file name %s", name)
	}
	if len(doc.DefaultRestaurants) != 3 {
		t.Errorf("Expected 3 exported restaurants, got %d", len(doc.DefaultRestaurants))
	}

	if _, err := c.ImportData(ctx, []byte(`{"defaultRestaurants": "nope"}`)); !errors.Is(err, settings.ErrInvalidImportFormat) {
		t.Errorf("Expected ErrInvalidImportFormat, got %v", err)
	}

	view, err := c.ImportData(ctx, []byte(`{"defaultRestaurants": [{"name": "Only One", "location": {"lat": 1, "long": 2}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Choices) != 1 || view.Choices[0].Name != "Only One" {
		t.Errorf("Unexpected roster after import %+v", view.Choices)
	}
}

func TestURLRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestChooser(t)

	if _, err := c.SetWeights(ctx, map[string]int{"Subway": 7}); err != nil {
		t.Fatal(err)
	}
	link, err := c.ExportViaURLString(ctx, "http://127.0.0.1:3318/")
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}

	other, store := newTestChooser(t)
	found, view, err := other.ApplyURLQuery(ctx, u.Query())
	if err != nil || !found {
		t.Fatalf("Expected parameters applied, got %v %v", found, err)
	}
	if len(view.Choices) != 3 {
		t.Errorf("Expected 3 choices, got %d", len(view.Choices))
	}
	assertWeights(t, storedWeights(t, store), map[string]int{"Subway": 7, "Giraya": 1})
}
