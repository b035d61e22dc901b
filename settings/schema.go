// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settings

import (
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Weight bounds match models.MaxWeight.

// importEntrySchema validates one element of defaultRestaurants
const importEntrySchema = `{
	"type": "object",
	"required": ["name", "location"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"address": {"type": ["string", "null"]},
		"location": {
			"type": "object",
			"required": ["lat", "long"],
			"properties": {
				"lat": {"type": "number", "minimum": -90, "maximum": 90},
				"long": {"type": "number", "minimum": -180, "maximum": 180}
			}
		},
		"weight": {"type": "integer", "minimum": 0, "maximum": 1000000000}
	}
}`

// urlEntrySchema validates one element of the "r" query parameter
const urlEntrySchema = `{
	"type": "object",
	"required": ["n", "lt", "lg"],
	"properties": {
		"n": {"type": "string", "minLength": 1},
		"a": {"type": ["string", "null"]},
		"lt": {"type": "number", "minimum": -90, "maximum": 90},
		"lg": {"type": "number", "minimum": -180, "maximum": 180},
		"w": {"type": "integer", "minimum": 0, "maximum": 1000000000}
	}
}`

var (
	importEntry = jsonschema.MustCompileString("import-entry.schema.json", importEntrySchema)
	urlEntry    = jsonschema.MustCompileString("url-entry.schema.json", urlEntrySchema)
)
