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

func NewAttendanceStore(filename string) (*AttendanceStore, error) {
	store := &AttendanceStore{
		records:  make(map[string]*model.AttendanceRecord),
		filename: filename,
	}
	if err := store.loadFromFile(); err != nil {
		return nil, err
	}
	return store, nil
}

// AttendanceStore keeps the event id to attendance record map in a
// JSON file. The whole map is written back on every mutation,
// last write wins.
type AttendanceStore struct {
	mu       sync.RWMutex
	records  map[string]*model.AttendanceRecord
	filename string
}

func (a *AttendanceStore) GetRecord(ctx context.Context, eventID string) (*model.AttendanceRecord, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetRecord")
	defer span.End()

	span.AddEvent("RLock")
	a.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer a.mu.RUnlock()

	rec, ok := a.records[eventID]
	if !ok {
		return nil, fmt.Errorf("attendance for %q: %w", eventID, db.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (a *AttendanceStore) PutRecord(ctx context.Context, eventID string, rec *model.AttendanceRecord) error {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "PutRecord")
	defer span.End()

	span.AddEvent("Lock")
	a.mu.Lock()
	defer span.AddEvent("Unlock")
	defer a.mu.Unlock()

	cp := *rec
	a.records[eventID] = &cp
	return a.saveToFile(ctx)
}

func (a *AttendanceStore) ListRecords(ctx context.Context) (map[string]*model.AttendanceRecord, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListRecords")
	defer span.End()

	span.AddEvent("RLock")
	a.mu.RLock()
	defer span.AddEvent("RUnlock")
	defer a.mu.RUnlock()

	res := make(map[string]*model.AttendanceRecord, len(a.records))
	for id, rec := range a.records {
		cp := *rec
		res[id] = &cp
	}
	return res, nil
}

// saveToFile saves the current attendance map to the JSON file.
func (a *AttendanceStore) saveToFile(ctx context.Context) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "SaveToFile")
	defer span.End()

	fileData, err := json.MarshalIndent(a.records, "", "  ")
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := os.WriteFile(a.filename, fileData, 0644); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// loadFromFile loads attendance data from the JSON file into the store.
func (a *AttendanceStore) loadFromFile() error {
	if _, err := os.Stat(a.filename); os.IsNotExist(err) {
		// File does not exist, no records to load
		return nil
	}

	fileData, err := os.ReadFile(a.filename)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := json.Unmarshal(fileData, &a.records); err != nil {
		slog.Default().WithGroup("jsondb").Warn("could not unmarshal attendance, starting empty", "file", a.filename, "error", err)
		a.records = make(map[string]*model.AttendanceRecord)
	}
	return nil
}
