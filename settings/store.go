// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/random-chooser/models"
)

// StorageKey is the key the settings document is stored under
const StorageKey = "random-chooser-settings"

var (
	ErrCorruptSettings        = errors.New("corrupt settings document")
	ErrPersistenceUnavailable = errors.New("settings storage unavailable")
)

// Store manages the persisted settings document.
//
// Load never fails: missing, unreadable, or corrupt values yield
// models.DefaultSettings. Save and Update return an error wrapping
// ErrPersistenceUnavailable when the substrate cannot write.
type Store interface {
	Load(ctx context.Context) models.Settings
	Save(ctx context.Context, doc models.Settings) error
	Update(ctx context.Context, patch models.SettingsPatch) error
	Clear(ctx context.Context) error
}

type KVStore struct {
	kv  KV
	key string
}

func NewStore(kv KV) *KVStore {
	return &KVStore{kv: kv, key: StorageKey}
}

func (s *KVStore) Load(ctx context.Context) models.Settings {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		slog.Warn("failed to read settings, using defaults", "error", err)
		return models.DefaultSettings()
	}
	if !ok {
		return models.DefaultSettings()
	}

	doc, err := Decode([]byte(raw))
	if err != nil {
		slog.Warn("discarding stored settings", "error", err)
		if err := s.kv.Remove(ctx, s.key); err != nil {
			slog.Error("failed to clear corrupt settings", "error", err)
		}
		return models.DefaultSettings()
	}
	return doc
}

func (s *KVStore) Save(ctx context.Context, doc models.Settings) error {
	doc = normalize(doc)
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		slog.Error("failed to save settings", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	slog.Debug("settings saved",
		"restaurants", len(doc.Restaurants),
		"size", humanize.Bytes(uint64(len(raw))),
	)
	return nil
}

// Update reads the current document, overwrites the keys present in patch,
// and saves the result.
func (s *KVStore) Update(ctx context.Context, patch models.SettingsPatch) error {
	return s.Save(ctx, Merge(s.Load(ctx), patch))
}

func (s *KVStore) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		slog.Error("failed to clear settings", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

// Merge returns doc with every key present in patch overwritten
func Merge(doc models.Settings, patch models.SettingsPatch) models.Settings {
	if patch.Restaurants != nil {
		doc.Restaurants = append([]models.StoredChoice{}, patch.Restaurants...)
	}
	if patch.WeightsEnabled != nil {
		v := *patch.WeightsEnabled
		doc.WeightsEnabled = &v
	}
	if patch.MapStyle != nil {
		doc.MapStyle = *patch.MapStyle
	}
	if patch.OriginPosition != nil {
		o := *patch.OriginPosition
		doc.OriginPosition = &o
	}
	return normalize(doc)
}

// storedDocument decodes restaurant entries one by one so a single bad
// entry does not invalidate the whole document.
type storedDocument struct {
	Restaurants    []json.RawMessage `json:"restaurants"`
	WeightsEnabled *bool             `json:"weightsEnabled"`
	MapStyle       string            `json:"mapStyle"`
	OriginPosition *models.LatLng    `json:"originPosition"`
	Version        string            `json:"version"`
}

// Decode parses a stored settings document. It fails with ErrCorruptSettings
// only when the document itself is unparseable; undecodable restaurant
// entries are dropped.
func Decode(raw []byte) (models.Settings, error) {
	var stored storedDocument
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %v", ErrCorruptSettings, err)
	}

	doc := models.Settings{
		Restaurants:    make([]models.StoredChoice, 0, len(stored.Restaurants)),
		WeightsEnabled: stored.WeightsEnabled,
		MapStyle:       stored.MapStyle,
		OriginPosition: stored.OriginPosition,
		Version:        stored.Version,
	}
	for i, entry := range stored.Restaurants {
		var r models.StoredChoice
		if err := json.Unmarshal(entry, &r); err != nil {
			slog.Warn("skipping undecodable stored restaurant", "index", i, "error", err)
			continue
		}
		doc.Restaurants = append(doc.Restaurants, r)
	}

	return normalize(doc), nil
}

func normalize(doc models.Settings) models.Settings {
	if doc.Restaurants == nil {
		doc.Restaurants = []models.StoredChoice{}
	}
	if doc.Version == "" {
		doc.Version = models.SettingsVersion
	}
	return doc
}
