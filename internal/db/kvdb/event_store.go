// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/model"
)

const bucketEvent = "event_store"

func NewEventStore(database *bolt.DB) (*EventStore, error) {
	return &EventStore{db: database}, database.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketEvent))
		return err
	})
}

// EventStore keeps user-created events in a bbolt bucket keyed by event
// id. Ids are freshness ordered, so a reverse key scan yields the
// newest-first sequence.
type EventStore struct {
	db *bolt.DB
}

func (e *EventStore) CreateEvent(ctx context.Context, event *model.Event) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "CreateEvent")
	defer span.End()

	j, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.AddEvent("Update bucket")
	return e.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketEvent))
		if bucket.Get([]byte(event.ID)) != nil {
			err := fmt.Errorf("cannot create event, id already exists: %s", event.ID)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		return bucket.Put([]byte(event.ID), j)
	})
}

func (e *EventStore) ListEvents(ctx context.Context) ([]*model.Event, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListEvents")
	defer span.End()

	span.AddEvent("View bucket")
	var events []*model.Event
	return events, e.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketEvent)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			event := &model.Event{}
			if err := json.Unmarshal(v, event); err != nil {
				span.RecordError(err)
				return err
			}
			events = append(events, event)
		}
		return nil
	})
}

func (e *EventStore) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetEventByID")
	defer span.End()

	span.AddEvent("View bucket")
	event := &model.Event{}
	return event, e.db.View(func(tx *bolt.Tx) error {
		res := tx.Bucket([]byte(bucketEvent)).Get([]byte(id))
		if res == nil {
			err := fmt.Errorf("event %q: %w", id, db.ErrNotFound)
			span.RecordError(err)
			return err
		}
		return json.Unmarshal(res, event)
	})
}
