// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package defaults

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/random-chooser/models"
)

var ErrNoDefaultChoices = errors.New("defaults file lists no valid restaurants")

// Defaults is the built-in roster plus the initial map view
type Defaults struct {
	View    models.View
	Choices []models.Choice
}

// file mirrors the export document so an exported file can be reused as
// the defaults file. YAML is a superset of JSON, so both formats load.
type file struct {
	models.View        `yaml:",inline"`
	DefaultRestaurants []entry `yaml:"defaultRestaurants"`
}

type entry struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	Location struct {
		Lat  *float64 `yaml:"lat"`
		Long *float64 `yaml:"long"`
	} `yaml:"location"`
}

// Load reads the defaults file at path. An empty path returns Builtin().
// View fields missing from the file fall back to the built-in view.
func Load(path string) (Defaults, error) {
	if strings.TrimSpace(path) == "" {
		return Builtin(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("failed to read defaults file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Defaults{}, fmt.Errorf("%s: %w", path, err)
	}

	d := Defaults{View: mergeView(f.View, Builtin().View)}
	seen := make(map[string]struct{}, len(f.DefaultRestaurants))
	for i, e := range f.DefaultRestaurants {
		name := strings.TrimSpace(e.Name)
		if name == "" || e.Location.Lat == nil || e.Location.Long == nil {
			slog.Warn("defaults: incomplete restaurant skipped", "index", i, "name", e.Name)
			continue
		}
		if !models.ValidLatLng(*e.Location.Lat, *e.Location.Long) {
			slog.Warn("defaults: restaurant location out of range", "name", name)
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			slog.Warn("defaults: duplicate restaurant skipped", "name", name)
			continue
		}
		seen[key] = struct{}{}

		d.Choices = append(d.Choices, models.Choice{
			Name:     name,
			Address:  strings.TrimSpace(e.Address),
			Location: models.At(*e.Location.Lat, *e.Location.Long),
		})
	}

	if len(d.Choices) == 0 {
		return Defaults{}, fmt.Errorf("%s: %w", path, ErrNoDefaultChoices)
	}
	return d, nil
}

func mergeView(v, fallback models.View) models.View {
	if v.InitialLat == nil || v.InitialLng == nil {
		v.InitialLat, v.InitialLng = fallback.InitialLat, fallback.InitialLng
	}
	if v.InitialZoom == nil {
		v.InitialZoom = fallback.InitialZoom
	}
	if v.Language == nil {
		v.Language = fallback.Language
	}
	if v.MapStyle == nil {
		v.MapStyle = fallback.MapStyle
	}
	return v
}

// Builtin returns the bundled Montpellier roster
func Builtin() Defaults {
	lat, lng := 43.6083, 3.8840
	zoom := 17
	language := "en"
	mapStyle := "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

	return Defaults{
		View: models.View{
			InitialLat:  &lat,
			InitialLng:  &lng,
			InitialZoom: &zoom,
			Language:    &language,
			MapStyle:    &mapStyle,
		},
		Choices: []models.Choice{
			{
				Name:     "Giraya",
				Address:  "22 Pl. du Millénaire, 34000 Montpellier",
				Location: models.At(43.607848623402234, 3.8894554656255598),
			},
			{
				Name:     "Grand Slam",
				Address:  "16 Rue Boussairolles, 34000 Montpellier",
				Location: models.At(43.60768439445637, 3.8812468082320444),
			},
			{
				Name:     "Subway",
				Address:  "4 Rue de Verdun, 34000 Montpellier",
				Location: models.At(43.60756628044681, 3.8802459617421103),
			},
			{
				Name:     "Thai to Box",
				Address:  "13 Rue de Verdun, 34000 Montpellier",
				Location: models.At(43.60722883336906, 3.8807294299039223),
			},
			{
				Name:     "Bistro Régent",
				Address:  "26 All. Jules Milhau, 34000 Montpellier",
				Location: models.At(43.60919396081588, 3.8819854087880383),
			},
			{
				Name:     "Cuisine S",
				Address:  "All. Jules Milhau, 34000 Montpellier",
				Location: models.At(43.60877550101456, 3.882493898330213),
			},
		},
	}
}
