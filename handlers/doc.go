// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Random Chooser API.

# Handler Types

Each handler is a struct wrapping the core chooser:

  - ChooserHandler: roster, roll, weights, settings, import/export
  - EventsHandler: websocket stream of roster and roll events

Handlers are created via constructor functions:

	chooserHandler := handlers.NewChooserHandler(c, cfg)
	eventsHandler := handlers.NewEventsHandler(c)

# Rolling

	POST /roll → Roll

The request returns once the animation has finished and weights have been
updated. Animation frames are streamed to GET /events subscribers while the
request is in flight. A second roll while one is running gets 409 Conflict;
a roll with no visible choices gets 422 Unprocessable Entity.

# Roster

	GET    /choices                        → GetChoices
	POST   /choices                        → AddChoice (409 on duplicate name)
	DELETE /choices/{id}                   → DeleteChoice (unknown IDs ignored)
	POST   /choices/{id}/toggle-visibility → ToggleVisibility

Visibility is kept for the lifetime of the process only.

# Weights and Settings

	POST /weights/reset?confirm=true  → ResetWeights
	PUT  /weights                     → SetWeights
	POST /weights/toggle              → ToggleWeights
	POST /settings/reset?confirm=true → ResetToDefaults
	PUT  /settings/map-style          → SetMapStyle
	PUT  /settings/origin             → SetOrigin

Destructive resets require confirm=true.

# Import and Export

	GET  /export                   → ExportData (file download)
	POST /import                   → ImportData
	GET  /export/url?base=...      → ExportURL
	POST /settings/url?r=&o=&we=   → ApplyURL

An invalid import returns 400 and leaves the roster and stored settings
unchanged.

# Events

	GET /events → EventsHandler.Stream (websocket)

Each message is a JSON models.Event. The first message is always a
roster_updated snapshot.
*/
package handlers
