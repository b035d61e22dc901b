// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Random Chooser API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(chooser, cfg)

# Endpoints

Health:

	GET /health

Roster:

	GET    /choices                        - Roster with weights and visibility
	POST   /choices                        - Add a choice
	DELETE /choices/{id}                   - Delete a choice
	POST   /choices/{id}/toggle-visibility - Hide or show for this session

Selection:

	POST /roll - Draw a choice (animation streamed on /events)

Weights:

	POST /weights/reset  - Set every weight to 1 (confirm=true)
	PUT  /weights        - Set weights by name
	POST /weights/toggle - Enable or disable weighted selection

Settings:

	POST /settings/reset     - Restore the default roster (confirm=true)
	PUT  /settings/map-style - Tile URL template
	PUT  /settings/origin    - Reference position
	POST /settings/url       - Merge share-link parameters

Import / export:

	GET  /export     - Download settings file
	GET  /export/url - Share link
	POST /import     - Replace roster from a settings file

Events:

	GET /events - Websocket stream of roster and roll events

# Middleware

Every API route is wrapped with middleware.WithLogging. GET /choices and
GET /export are also gzip-compressed. GET /events is never compressed
because the websocket upgrade needs the raw connection.
*/
package router
