// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/danielhkuo/random-chooser/models"
)

var ErrInvalidImportFormat = errors.New("invalid import format")

// URL query parameter names
const (
	ParamRestaurants    = "r"
	ParamOrigin         = "o"
	ParamWeightsEnabled = "we"
)

// ParseImport validates an import file and returns the keys it sets.
//
// The file must be a JSON object with a defaultRestaurants list holding at
// least one valid entry. Invalid entries are skipped individually, as are
// malformed optional keys (initialLat/initialLng, mapStyle, weightsEnabled).
func ParseImport(data []byte) (models.SettingsPatch, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return models.SettingsPatch{}, fmt.Errorf("%w: top level must be a JSON object", ErrInvalidImportFormat)
	}

	raw, ok := top["defaultRestaurants"]
	if !ok {
		return models.SettingsPatch{}, fmt.Errorf("%w: defaultRestaurants is missing", ErrInvalidImportFormat)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return models.SettingsPatch{}, fmt.Errorf("%w: defaultRestaurants must be a list", ErrInvalidImportFormat)
	}

	restaurants := collect(entries, importEntry, func(entry json.RawMessage) (models.StoredChoice, error) {
		var e models.ExportChoice
		if err := json.Unmarshal(entry, &e); err != nil {
			return models.StoredChoice{}, err
		}
		return stored(e.Name, e.Address, e.Location.Lat, e.Location.Long, e.Weight), nil
	})
	if len(restaurants) == 0 {
		return models.SettingsPatch{}, fmt.Errorf("%w: no valid restaurant entries", ErrInvalidImportFormat)
	}

	patch := models.SettingsPatch{Restaurants: restaurants}

	var lat, lng *float64
	if decodeOptional(top, "initialLat", &lat) && decodeOptional(top, "initialLng", &lng) && lat != nil && lng != nil {
		origin := models.LatLng{Lat: *lat, Lng: *lng}
		if origin.Valid() {
			patch.OriginPosition = &origin
		} else {
			slog.Warn("import: initial position out of range, ignored", "lat", *lat, "lng", *lng)
		}
	}

	var mapStyle *string
	if decodeOptional(top, "mapStyle", &mapStyle) && mapStyle != nil && strings.TrimSpace(*mapStyle) != "" {
		patch.MapStyle = mapStyle
	}

	var weightsEnabled *bool
	if decodeOptional(top, "weightsEnabled", &weightsEnabled) && weightsEnabled != nil {
		patch.WeightsEnabled = weightsEnabled
	}

	return patch, nil
}

// ParseURLQuery reads the compact share parameters (r, o, we). found reports
// whether any of them is present. Each key is applied on its own: a bad "r",
// "o" or "we" is logged and skipped. ErrInvalidImportFormat is returned only
// when "r" was unusable and no other key survived.
func ParseURLQuery(q url.Values) (patch models.SettingsPatch, found bool, err error) {
	var restaurantsErr error
	if q.Has(ParamRestaurants) {
		found = true
		patch.Restaurants, restaurantsErr = parseURLRestaurants(q.Get(ParamRestaurants))
		if restaurantsErr != nil {
			slog.Warn("url: restaurant list ignored", "error", restaurantsErr)
		}
	}

	if q.Has(ParamOrigin) {
		found = true
		if origin, ok := parseOrigin(q.Get(ParamOrigin)); ok {
			patch.OriginPosition = &origin
		} else {
			slog.Warn("url: invalid origin ignored", "o", q.Get(ParamOrigin))
		}
	}

	if q.Has(ParamWeightsEnabled) {
		found = true
		switch q.Get(ParamWeightsEnabled) {
		case "1":
			v := true
			patch.WeightsEnabled = &v
		case "0":
			v := false
			patch.WeightsEnabled = &v
		default:
			slog.Warn("url: invalid weights flag ignored", "we", q.Get(ParamWeightsEnabled))
		}
	}

	if restaurantsErr != nil && patch.Empty() {
		return models.SettingsPatch{}, true, restaurantsErr
	}
	return patch, found, nil
}

func parseURLRestaurants(raw string) ([]models.StoredChoice, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: r must be a JSON list", ErrInvalidImportFormat)
	}

	restaurants := collect(entries, urlEntry, func(entry json.RawMessage) (models.StoredChoice, error) {
		var e models.URLChoice
		if err := json.Unmarshal(entry, &e); err != nil {
			return models.StoredChoice{}, err
		}
		return stored(e.N, e.A, e.Lt, e.Lg, e.W), nil
	})
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("%w: no valid restaurant entries in r", ErrInvalidImportFormat)
	}
	return restaurants, nil
}

// EncodeURLQuery builds the compact share parameters for doc. Weights equal
// to the default are omitted.
func EncodeURLQuery(doc models.Settings) (url.Values, error) {
	q := url.Values{}

	if len(doc.Restaurants) > 0 {
		entries := make([]models.URLChoice, 0, len(doc.Restaurants))
		for _, r := range doc.Restaurants {
			e := models.URLChoice{N: r.Name, A: r.Address, Lt: r.Location.Lat, Lg: r.Location.Long}
			if r.Weight != nil && *r.Weight != models.DefaultWeight {
				w := *r.Weight
				e.W = &w
			}
			entries = append(entries, e)
		}
		raw, err := json.Marshal(entries)
		if err != nil {
			return nil, fmt.Errorf("failed to encode restaurants: %w", err)
		}
		q.Set(ParamRestaurants, string(raw))
	}

	if doc.OriginPosition != nil {
		q.Set(ParamOrigin, strconv.FormatFloat(doc.OriginPosition.Lat, 'f', -1, 64)+","+
			strconv.FormatFloat(doc.OriginPosition.Lng, 'f', -1, 64))
	}

	if doc.WeightsEnabled != nil {
		if *doc.WeightsEnabled {
			q.Set(ParamWeightsEnabled, "1")
		} else {
			q.Set(ParamWeightsEnabled, "0")
		}
	}

	return q, nil
}

// collect validates each entry against schema, converts the valid ones, and
// drops case-insensitive duplicate names (first one wins).
func collect(entries []json.RawMessage, schema *jsonschema.Schema, convert func(json.RawMessage) (models.StoredChoice, error)) []models.StoredChoice {
	out := []models.StoredChoice{}
	seen := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		var v any
		if err := json.Unmarshal(entry, &v); err != nil {
			slog.Warn("skipping unparseable restaurant entry", "index", i, "error", err)
			continue
		}
		if err := schema.Validate(v); err != nil {
			slog.Warn("skipping invalid restaurant entry", "index", i, "error", err)
			continue
		}

		r, err := convert(entry)
		if err != nil {
			slog.Warn("skipping invalid restaurant entry", "index", i, "error", err)
			continue
		}
		if r.Name == "" {
			slog.Warn("skipping restaurant entry with blank name", "index", i)
			continue
		}

		key := NormalizeName(r.Name)
		if _, dup := seen[key]; dup {
			slog.Warn("skipping duplicate restaurant entry", "index", i, "name", r.Name)
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out
}

func stored(name, address string, lat, long float64, weight *int) models.StoredChoice {
	w := models.DefaultWeight
	if weight != nil {
		w = *weight
	}
	return models.StoredChoice{
		Name:     strings.TrimSpace(name),
		Address:  address,
		Location: models.At(lat, long),
		Weight:   &w,
	}
}

// decodeOptional decodes top[key] into dst. It reports false when the key is
// present but has the wrong type.
func decodeOptional(top map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := top[key]
	if !ok {
		return true
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("import: ignoring malformed key", "key", key, "error", err)
		return false
	}
	return true
}

func parseOrigin(s string) (models.LatLng, bool) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return models.LatLng{}, false
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return models.LatLng{}, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return models.LatLng{}, false
	}
	origin := models.LatLng{Lat: la, Lng: lo}
	return origin, origin.Valid()
}

// NormalizeName is the case-insensitive form used for uniqueness checks
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
