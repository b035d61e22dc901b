// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, persisted, and API types.

# Domain Types

  - Location: latitude/longitude pair (degrees)
  - Choice: a named, located, selectable point
  - StoredChoice: persisted form of a choice, with optional weight
  - Settings: the single persisted settings document
  - SettingsPatch: top-level keys to overwrite in Settings

# File Formats

  - ExportFile / ExportChoice: downloadable snapshot (defaultRestaurants, initialLat, ...)
  - URLChoice: compact share format ({n, a, lt, lg, w})

# Presentation Types

  - RosterView / ChoiceView: roster plus weights and visibility
  - Event: notification pushed to subscribers

# Constants

	SettingsVersion = "1.0"
	DefaultWeight   = 1

Event types:

	EventRosterUpdated = "roster_updated"
	EventRollStarted   = "roll_started"
	EventRollFrame     = "roll_frame"
	EventRollFinished  = "roll_finished"
*/
package models
