// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package jsondb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/model"
)

func TestEventStoreRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "events.json")
	ctx := context.Background()

	store, err := NewEventStore(filename)
	if err != nil {
		t.Fatalf("NewEventStore: %v", err)
	}

	events := []*model.Event{
		{ID: "evt-1700000000001", Title: "Primo", Origin: model.EventOriginUser},
		{ID: "evt-1700000000002", Title: "Secondo", Origin: model.EventOriginUser},
	}
	for _, e := range events {
		if err := store.CreateEvent(ctx, e); err != nil {
			t.Fatalf("CreateEvent(%s): %v", e.ID, err)
		}
	}

	reloaded, err := NewEventStore(filename)
	if err != nil {
		t.Fatalf("NewEventStore reload: %v", err)
	}
	got, err := reloaded.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	// most recently created first
	if got[0].ID != "evt-1700000000002" || got[1].ID != "evt-1700000000001" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
}

func TestEventStoreDuplicateID(t *testing.T) {
	store, err := NewEventStore(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("NewEventStore: %v", err)
	}
	ctx := context.Background()

	event := &model.Event{ID: "evt-1700000000001"}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if err := store.CreateEvent(ctx, event); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestEventStoreNotFound(t *testing.T) {
	store, err := NewEventStore(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("NewEventStore: %v", err)
	}

	if _, err := store.GetEventByID(context.Background(), "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestEventStoreCorruptFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(filename, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	store, err := NewEventStore(filename)
	if err != nil {
		t.Fatalf("corruption must not be fatal: %v", err)
	}
	events, err := store.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events from corrupt file, want 0", len(events))
	}
}

func TestAttendanceStoreRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "attendance.json")
	ctx := context.Background()

	store, err := NewAttendanceStore(filename)
	if err != nil {
		t.Fatalf("NewAttendanceStore: %v", err)
	}

	if _, err := store.GetRecord(ctx, "aperitivo-navigli"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	rec := &model.AttendanceRecord{Count: 5, Active: true}
	if err := store.PutRecord(ctx, "aperitivo-navigli", rec); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}

	reloaded, err := NewAttendanceStore(filename)
	if err != nil {
		t.Fatalf("NewAttendanceStore reload: %v", err)
	}
	got, err := reloaded.GetRecord(ctx, "aperitivo-navigli")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if *got != *rec {
		t.Errorf("got %+v, want %+v", got, rec)
	}

	records, err := reloaded.ListRecords(ctx)
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}
}

func TestSettingsStoreDefaults(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "settings.json")
	ctx := context.Background()

	store, err := NewSettingsStore(filename)
	if err != nil {
		t.Fatalf("NewSettingsStore: %v", err)
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if settings.SoloMode {
		t.Error("solo mode should default to off")
	}

	settings.SoloMode = true
	if err := store.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	reloaded, err := NewSettingsStore(filename)
	if err != nil {
		t.Fatalf("NewSettingsStore reload: %v", err)
	}
	got, err := reloaded.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !got.SoloMode {
		t.Error("solo mode not persisted")
	}
}
