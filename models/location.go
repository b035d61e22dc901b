// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "math"

// Location is an immutable latitude/longitude pair in degrees.
type Location struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

// At builds a Location from latitude and longitude
func At(lat, long float64) Location {
	return Location{Lat: lat, Long: long}
}

// Tuple projects the location to a [lat, long] coordinate pair
func (l Location) Tuple() [2]float64 {
	return [2]float64{l.Lat, l.Long}
}

// Valid reports whether both coordinates are finite and inside
// [-90,90] / [-180,180].
func (l Location) Valid() bool {
	return ValidLatLng(l.Lat, l.Long)
}

// LatLng is the map reference point. It keeps the "lng" key used by the
// persisted originPosition field.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p LatLng) Valid() bool {
	return ValidLatLng(p.Lat, p.Lng)
}

// ValidLatLng checks coordinate ranges
func ValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
