// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, client IP, status, response
size (humanized) and duration_ms. The wrapper supports http.Hijacker so it
can sit in front of the websocket route.

# Compression

Gzip wraps handlers whose responses can be large (roster, export):

	mux.HandleFunc("GET /export", middleware.WithLogging(middleware.Gzip(h.ExportData)))

Responses are only compressed when the client sends Accept-Encoding: gzip
and the body is big enough to benefit. Never wrap GET /events.

# CORS Middleware

Enable cross-origin requests for a map page served from another port:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with the Content-Type header
and exposes Content-Disposition so export downloads keep their file name.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.AddChoiceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
