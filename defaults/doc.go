// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package defaults provides the roster used when nothing is stored yet.
//
// The defaults file uses the same layout as an exported settings file
// (initialLat, initialLng, initialZoom, language, mapStyle and
// defaultRestaurants), written as YAML or JSON. Without a file the bundled
// Montpellier list is used.
package defaults
