// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package jsondb

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/model"
)

func NewSettingsStore(filename string) (*SettingsStore, error) {
	store := &SettingsStore{filename: filename}
	if err := store.loadFromFile(); err != nil {
		return nil, err
	}
	return store, nil
}

// SettingsStore keeps the page settings in a JSON file.
type SettingsStore struct {
	mu       sync.RWMutex
	settings model.Settings
	filename string
}

func (s *SettingsStore) GetSettings(ctx context.Context) (*model.Settings, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetSettings")
	defer span.End()

	span.AddEvent("RLock")
	s.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer s.mu.RUnlock()

	cp := s.settings
	return &cp, nil
}

func (s *SettingsStore) UpdateSettings(ctx context.Context, settings *model.Settings) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "UpdateSettings")
	defer span.End()

	span.AddEvent("Lock")
	s.mu.Lock()
	defer span.AddEvent("Unlock")
	defer s.mu.Unlock()

	s.settings = *settings
	return s.saveToFile(ctx)
}

func (s *SettingsStore) saveToFile(ctx context.Context) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "SaveToFile")
	defer span.End()

	fileData, err := json.MarshalIndent(s.settings, "", "  ")
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := os.WriteFile(s.filename, fileData, 0644); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// loadFromFile loads settings from the JSON file. Absence or corruption
// falls back to the default settings.
func (s *SettingsStore) loadFromFile() error {
	if _, err := os.Stat(s.filename); os.IsNotExist(err) {
		return nil
	}

	fileData, err := os.ReadFile(s.filename)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := json.Unmarshal(fileData, &s.settings); err != nil {
		slog.Default().WithGroup("jsondb").Warn("could not unmarshal settings, using defaults", "file", s.filename, "error", err)
		s.settings = model.Settings{}
	}
	return nil
}
