// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/model"
)

func NewEventStore(filename string) (*EventStore, error) {
	store := &EventStore{filename: filename}
	if err := store.loadFromFile(); err != nil {
		return nil, err
	}
	return store, nil
}

// EventStore keeps user-created events in a JSON file, newest first.
type EventStore struct {
	mu sync.RWMutex

	filename string
	events   []*model.Event
}

func (e *EventStore) CreateEvent(ctx context.Context, event *model.Event) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "CreateEvent")
	defer span.End()

	span.AddEvent("Lock")
	e.mu.Lock()
	defer span.AddEvent("Unlock")
	defer e.mu.Unlock()

	for _, existing := range e.events {
		if existing.ID == event.ID {
			err := fmt.Errorf("cannot create event, id already exists: %s", event.ID)
			span.RecordError(err)
			return err
		}
	}
	e.events = append([]*model.Event{event}, e.events...)
	if err := e.saveToFile(ctx); err != nil {
		e.events = e.events[1:]
		return err
	}
	return nil
}

func (e *EventStore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListEvents")
	defer span.End()

	span.AddEvent("RLock")
	e.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer e.mu.RUnlock()

	res := make([]*model.Event, len(e.events))
	copy(res, e.events)
	return res, nil
}

func (e *EventStore) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetEventByID")
	defer span.End()

	span.AddEvent("RLock")
	e.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer e.mu.RUnlock()

	for _, event := range e.events {
		if event.ID == id {
			return event, nil
		}
	}
	err := fmt.Errorf("event %q: %w", id, db.ErrNotFound)
	span.RecordError(err)
	return nil, err
}

// saveToFile saves the current event sequence to the JSON file.
func (e *EventStore) saveToFile(ctx context.Context) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "SaveToFile")
	defer span.End()

	fileData, err := json.MarshalIndent(e.events, "", "  ")
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := os.WriteFile(e.filename, fileData, 0644); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// loadFromFile loads event data from the JSON file into the store.
// A missing or corrupt file leaves the store empty instead of failing
// startup.
func (e *EventStore) loadFromFile() error {
	if _, err := os.Stat(e.filename); os.IsNotExist(err) {
		// File does not exist, no events to load
		return nil
	}

	fileData, err := os.ReadFile(e.filename)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := json.Unmarshal(fileData, &e.events); err != nil {
		slog.Default().WithGroup("jsondb").Warn("could not unmarshal events, starting empty", "file", e.filename, "error", err)
		e.events = nil
	}
	return nil
}
