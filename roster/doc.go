// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package roster owns the ordered list of restaurant choices and keeps it in
// sync with the persisted settings document.
//
// # Identity
//
// Every choice gets a UUID when it enters the roster. Delete and visibility
// operate on IDs, while weights and duplicate detection operate on names.
// Duplicate detection trims and lower-cases names, so "Giraya" and
// " giraya " collide.
//
// # Visibility
//
// Hidden choices are excluded from draws and from weight feedback. The hidden
// set lives only for the process lifetime and is never written to storage.
//
// # Persistence
//
// Every mutation writes the full restaurant list back through settings.Store,
// keeping each name's stored weight; new names start at weight 1. Write
// failures are logged and the in-memory roster stays authoritative.
//
// # Import and sharing
//
// ImportSnapshot and ApplyURLQuery validate their input with the settings
// package before touching anything. An invalid import leaves both the roster
// and storage unchanged.
package roster
