// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/random-chooser/chooser"
	"github.com/danielhkuo/random-chooser/cliparse"
	"github.com/danielhkuo/random-chooser/middleware"
	"github.com/danielhkuo/random-chooser/models"
	"github.com/danielhkuo/random-chooser/roster"
	"github.com/danielhkuo/random-chooser/settings"
	"github.com/danielhkuo/random-chooser/weighted"
	"github.com/danielhkuo/random-chooser/weights"
)

// maxImportSize bounds POST /import bodies
const maxImportSize = 1 << 20

type ChooserHandler struct {
	chooser *chooser.Chooser
	cfg     cliparse.Config
}

func NewChooserHandler(c *chooser.Chooser, cfg cliparse.Config) *ChooserHandler {
	return &ChooserHandler{chooser: c, cfg: cfg}
}

// GetChoices handles GET /choices
func (h *ChooserHandler) GetChoices(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.chooser.View(r.Context()))
}

// AddChoice handles POST /choices
func (h *ChooserHandler) AddChoice(w http.ResponseWriter, r *http.Request) {
	var req models.AddChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	choice, view, err := h.chooser.AddChoice(r.Context(), req)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddChoiceResponse{
		Choice: choice,
		Roster: view,
	})
}

// DeleteChoice handles DELETE /choices/{id}
func (h *ChooserHandler) DeleteChoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice id is required")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.chooser.DeleteChoice(r.Context(), id))
}

// ToggleVisibility handles POST /choices/{id}/toggle-visibility
func (h *ChooserHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice id is required")
		return
	}

	hidden, err := h.chooser.ToggleVisibility(r.Context(), id)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ToggleVisibilityResponse{ID: id, Hidden: hidden})
}

// Roll handles POST /roll. The response is written once the animation
// has finished; progress is streamed on GET /events.
func (h *ChooserHandler) Roll(w http.ResponseWriter, r *http.Request) {
	res, err := h.chooser.Roll(r.Context())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, res)
}

// ResetWeights handles POST /weights/reset?confirm=true
func (h *ChooserHandler) ResetWeights(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "resetting weights requires confirm=true")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.chooser.ResetWeights(r.Context()))
}

// SetWeights handles PUT /weights
func (h *ChooserHandler) SetWeights(w http.ResponseWriter, r *http.Request) {
	var req models.SetWeightsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Weights) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "weights is required")
		return
	}

	view, err := h.chooser.SetWeights(r.Context(), req.Weights)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// ToggleWeights handles POST /weights/toggle
func (h *ChooserHandler) ToggleWeights(w http.ResponseWriter, r *http.Request) {
	enabled := h.chooser.ToggleWeightsEnabled(r.Context())
	middleware.JSONResponse(w, http.StatusOK, models.ToggleWeightsResponse{WeightsEnabled: enabled})
}

// ResetToDefaults handles POST /settings/reset?confirm=true
func (h *ChooserHandler) ResetToDefaults(w http.ResponseWriter, r *http.Request) {
	if !confirmed(r) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "resetting to defaults requires confirm=true")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.chooser.ResetToDefaults(r.Context()))
}

// SetMapStyle handles PUT /settings/map-style
func (h *ChooserHandler) SetMapStyle(w http.ResponseWriter, r *http.Request) {
	var req models.MapStyleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.chooser.SetMapStyle(r.Context(), req.MapStyle))
}

// SetOrigin handles PUT /settings/origin
func (h *ChooserHandler) SetOrigin(w http.ResponseWriter, r *http.Request) {
	var req models.OriginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	view, err := h.chooser.SetOrigin(r.Context(), req.Lat, req.Lng)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// ExportData handles GET /export as a file download
func (h *ChooserHandler) ExportData(w http.ResponseWriter, r *http.Request) {
	doc, filename := h.chooser.ExportData(r.Context())

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	middleware.JSONResponse(w, http.StatusOK, doc)
}

// ImportData handles POST /import. The body is an exported settings file.
func (h *ChooserHandler) ImportData(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
				"import file larger than "+humanize.Bytes(maxImportSize))
			return
		}
		slog.Warn("failed to read import body", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Could not read import file")
		return
	}

	view, err := h.chooser.ImportData(r.Context(), data)
	if err != nil {
		writeCoreError(w, err)
		return
	}

	slog.Info("settings imported", "size", humanize.Bytes(uint64(len(data))), "choices", len(view.Choices))
	middleware.JSONResponse(w, http.StatusOK, view)
}

// ExportURL handles GET /export/url. The optional base parameter sets the
// page the link points to; it defaults to this server's root, taken from the
// Host header or, without one, the configured listen address.
func (h *ChooserHandler) ExportURL(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if base == "" {
		host := r.Host
		if host == "" {
			host = h.cfg.Addr()
		}
		base = "http://" + host + "/"
	}

	link, err := h.chooser.ExportViaURLString(r.Context(), base)
	if err != nil {
		writeCoreError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ExportURLResponse{URL: link})
}

// ApplyURL handles POST /settings/url?r=...&o=...&we=...
func (h *ChooserHandler) ApplyURL(w http.ResponseWriter, r *http.Request) {
	found, view, err := h.chooser.ApplyURLQuery(r.Context(), r.URL.Query())
	if err != nil {
		writeCoreError(w, err)
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusBadRequest, "no share parameters (r, o, we) in query")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

// writeCoreError maps core errors to HTTP responses
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, roster.ErrDuplicateName), errors.Is(err, chooser.ErrRollInProgress):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, roster.ErrInvalidChoice),
		errors.Is(err, settings.ErrInvalidImportFormat),
		errors.Is(err, weights.ErrNegativeWeight),
		errors.Is(err, weights.ErrWeightTooLarge),
		errors.Is(err, chooser.ErrInvalidOrigin):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, roster.ErrUnknownChoice):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, weighted.ErrEmptyCandidateSet):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "No visible restaurant for selection. Make at least one restaurant visible.")
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
