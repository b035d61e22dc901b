// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// SettingsVersion is the schema tag written into every settings document
const SettingsVersion = "1.0"

// DefaultWeight applies to any choice without a recorded weight
const DefaultWeight = 1

// MaxWeight is the largest weight accepted or produced by feedback
const MaxWeight = 1_000_000_000

// Event types published to presentation subscribers
const (
	EventRosterUpdated = "roster_updated"
	EventRollStarted   = "roll_started"
	EventRollFrame     = "roll_frame"
	EventRollFinished  = "roll_finished"
)

// Domain types

// Choice is a selectable point. ID is assigned in memory when the roster is
// built and is what delete/hide operate on; Name is unique case-insensitively.
type Choice struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location Location `json:"location"`
}

// StoredChoice is one entry of the persisted restaurant list
type StoredChoice struct {
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location Location `json:"location"`
	Weight   *int     `json:"weight,omitempty"`
}

// EffectiveWeight returns the recorded weight, or DefaultWeight if none
func (s StoredChoice) EffectiveWeight() int {
	if s.Weight == nil {
		return DefaultWeight
	}
	return *s.Weight
}

// Settings is the single persisted document
type Settings struct {
	Restaurants    []StoredChoice `json:"restaurants"`
	WeightsEnabled *bool          `json:"weightsEnabled,omitempty"`
	MapStyle       string         `json:"mapStyle,omitempty"`
	OriginPosition *LatLng        `json:"originPosition,omitempty"`
	Version        string         `json:"version"`
}

// DefaultSettings is the document returned when nothing usable is stored
func DefaultSettings() Settings {
	return Settings{
		Restaurants: []StoredChoice{},
		Version:     SettingsVersion,
	}
}

// WeightsOn reports whether weighted selection is enabled (default true)
func (s Settings) WeightsOn() bool {
	return s.WeightsEnabled == nil || *s.WeightsEnabled
}

// SettingsPatch carries the top-level keys to overwrite. A nil field is
// absent; a non-nil empty Restaurants slice clears the list.
type SettingsPatch struct {
	Restaurants    []StoredChoice
	WeightsEnabled *bool
	MapStyle       *string
	OriginPosition *LatLng
}

// Empty reports whether the patch carries no keys
func (p SettingsPatch) Empty() bool {
	return p.Restaurants == nil && p.WeightsEnabled == nil && p.MapStyle == nil && p.OriginPosition == nil
}

// View describes how the map is initially shown; it comes from the defaults
// file and is echoed into exports.
type View struct {
	InitialLat  *float64 `json:"initialLat" yaml:"initialLat"`
	InitialLng  *float64 `json:"initialLng" yaml:"initialLng"`
	InitialZoom *int     `json:"initialZoom" yaml:"initialZoom"`
	Language    *string  `json:"language" yaml:"language"`
	MapStyle    *string  `json:"mapStyle" yaml:"mapStyle"`
}

// Export / import file types

type ExportChoice struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
	Address  string   `json:"address,omitempty"`
	Weight   *int     `json:"weight,omitempty"`
}

type ExportFile struct {
	InitialLat         *float64       `json:"initialLat"`
	InitialLng         *float64       `json:"initialLng"`
	InitialZoom        *int           `json:"initialZoom"`
	Language           *string        `json:"language"`
	MapStyle           *string        `json:"mapStyle"`
	WeightsEnabled     *bool          `json:"weightsEnabled,omitempty"`
	Version            string         `json:"version"`
	DefaultRestaurants []ExportChoice `json:"defaultRestaurants"`
}

// URLChoice is the compact per-restaurant form used in the "r" query parameter
type URLChoice struct {
	N  string  `json:"n"`
	A  string  `json:"a"`
	Lt float64 `json:"lt"`
	Lg float64 `json:"lg"`
	W  *int    `json:"w,omitempty"`
}

// Presentation views

type ChoiceView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location Location `json:"location"`
	Weight   int      `json:"weight"`
	Hidden   bool     `json:"hidden"`
}

type RosterView struct {
	Choices        []ChoiceView `json:"choices"`
	WeightsEnabled bool         `json:"weights_enabled"`
	MapStyle       string       `json:"map_style,omitempty"`
	OriginPosition *LatLng      `json:"origin_position,omitempty"`
}

type Event struct {
	Type     string      `json:"type"`
	RollID   string      `json:"roll_id,omitempty"`
	ChoiceID string      `json:"choice_id,omitempty"`
	Frame    int         `json:"frame,omitempty"`
	Frames   int         `json:"frames,omitempty"`
	Roster   *RosterView `json:"roster,omitempty"`
}

// Request types

type AddChoiceRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// name -> weight
type SetWeightsRequest struct {
	Weights map[string]int `json:"weights"`
}

type MapStyleRequest struct {
	MapStyle string `json:"map_style"`
}

type OriginRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Response types

type AddChoiceResponse struct {
	Choice Choice     `json:"choice"`
	Roster RosterView `json:"roster"`
}

type ToggleVisibilityResponse struct {
	ID     string `json:"id"`
	Hidden bool   `json:"hidden"`
}

type RollResponse struct {
	RollID string     `json:"roll_id"`
	Choice Choice     `json:"choice"`
	Index  int        `json:"index"`
	Frames int        `json:"frames"`
	Roster RosterView `json:"roster"`
}

type ToggleWeightsResponse struct {
	WeightsEnabled bool `json:"weights_enabled"`
}

type ExportURLResponse struct {
	URL string `json:"url"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
