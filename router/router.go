// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/random-chooser/chooser"
	"github.com/danielhkuo/random-chooser/cliparse"
	"github.com/danielhkuo/random-chooser/handlers"
	"github.com/danielhkuo/random-chooser/middleware"
)

func NewRouter(c *chooser.Chooser, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	chooserHandler := handlers.NewChooserHandler(c, cfg)
	eventsHandler := handlers.NewEventsHandler(c)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Roster
	mux.HandleFunc("GET /choices", middleware.WithLogging(middleware.Gzip(chooserHandler.GetChoices)))
	mux.HandleFunc("POST /choices", middleware.WithLogging(chooserHandler.AddChoice))
	mux.HandleFunc("DELETE /choices/{id}", middleware.WithLogging(chooserHandler.DeleteChoice))
	mux.HandleFunc("POST /choices/{id}/toggle-visibility", middleware.WithLogging(chooserHandler.ToggleVisibility))

	// Selection
	mux.HandleFunc("POST /roll", middleware.WithLogging(chooserHandler.Roll))

	// Weights
	mux.HandleFunc("POST /weights/reset", middleware.WithLogging(chooserHandler.ResetWeights))
	mux.HandleFunc("PUT /weights", middleware.WithLogging(chooserHandler.SetWeights))
	mux.HandleFunc("POST /weights/toggle", middleware.WithLogging(chooserHandler.ToggleWeights))

	// Settings
	mux.HandleFunc("POST /settings/reset", middleware.WithLogging(chooserHandler.ResetToDefaults))
	mux.HandleFunc("PUT /settings/map-style", middleware.WithLogging(chooserHandler.SetMapStyle))
	mux.HandleFunc("PUT /settings/origin", middleware.WithLogging(chooserHandler.SetOrigin))
	mux.HandleFunc("POST /settings/url", middleware.WithLogging(chooserHandler.ApplyURL))

	// Import / export
	mux.HandleFunc("GET /export", middleware.WithLogging(middleware.Gzip(chooserHandler.ExportData)))
	mux.HandleFunc("GET /export/url", middleware.WithLogging(chooserHandler.ExportURL))
	mux.HandleFunc("POST /import", middleware.WithLogging(chooserHandler.ImportData))

	// Event stream (websocket, not compressed)
	mux.HandleFunc("GET /events", middleware.WithLogging(eventsHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("random-chooser API v1"))
	})

	return mux
}
