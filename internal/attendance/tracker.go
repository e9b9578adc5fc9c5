// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package attendance

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/model"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/milantonight/StaseraMilano/internal/attendance")

func NewTracker(store db.AttendanceStore) *Tracker {
	return &Tracker{
		store:  store,
		logger: slog.Default().WithGroup("attendance"),
	}
}

// Tracker owns the attendance invariants: a record appears on first
// attendance, the head count grows by exactly one per device, and
// Active never reverts.
type Tracker struct {
	store  db.AttendanceStore
	logger *slog.Logger
}

// Restore returns the displayable record for every event, falling back
// to (declared initial count, inactive) when nothing is stored. Store
// failures degrade to the default instead of failing the page.
func (t *Tracker) Restore(ctx context.Context, events []*model.Event) map[string]model.AttendanceRecord {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Tracker.Restore")
	defer span.End()

	res := make(map[string]model.AttendanceRecord, len(events))
	for _, e := range events {
		rec, err := t.store.GetRecord(ctx, e.ID)
		switch {
		case err == nil:
			res[e.ID] = *rec
		case errors.Is(err, db.ErrNotFound):
			res[e.ID] = model.AttendanceRecord{Count: e.InitialCount}
		default:
			span.RecordError(err)
			t.logger.WarnContext(ctx, "could not read attendance record", "event", e.ID, "error", err)
			res[e.ID] = model.AttendanceRecord{Count: e.InitialCount}
		}
	}
	return res
}

// MarkAttending records the visitor's attendance for an event. Calling
// it again for the same id is a no-op and returns the stored record.
func (t *Tracker) MarkAttending(ctx context.Context, event *model.Event) (model.AttendanceRecord, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Tracker.MarkAttending")
	defer span.End()

	rec, err := t.store.GetRecord(ctx, event.ID)
	if err == nil && rec.Active {
		span.AddEvent("already attending")
		return *rec, nil
	}
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		span.RecordError(err)
		return model.AttendanceRecord{}, err
	}

	count := event.InitialCount
	if rec != nil {
		count = rec.Count
	}
	updated := model.AttendanceRecord{Count: count + 1, Active: true}
	if err := t.store.PutRecord(ctx, event.ID, &updated); err != nil {
		span.RecordError(err)
		return model.AttendanceRecord{}, err
	}
	return updated, nil
}
