// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/model"
)

const bucketAttendance = "attendance_store"

func NewAttendanceStore(database *bolt.DB) (*AttendanceStore, error) {
	return &AttendanceStore{db: database}, database.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketAttendance))
		return err
	})
}

// AttendanceStore keeps one record per event id in a bbolt bucket.
type AttendanceStore struct {
	db *bolt.DB
}

func (a *AttendanceStore) GetRecord(ctx context.Context, eventID string) (*model.AttendanceRecord, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetRecord")
	defer span.End()

	span.AddEvent("View bucket")
	rec := &model.AttendanceRecord{}
	return rec, a.db.View(func(tx *bolt.Tx) error {
		res := tx.Bucket([]byte(bucketAttendance)).Get([]byte(eventID))
		if res == nil {
			return fmt.Errorf("attendance for %q: %w", eventID, db.ErrNotFound)
		}
		return json.Unmarshal(res, rec)
	})
}

func (a *AttendanceStore) PutRecord(ctx context.Context, eventID string, rec *model.AttendanceRecord) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "PutRecord")
	defer span.End()

	j, err := json.Marshal(rec)
	if err != nil {
		span.RecordError(err)
		return err
	}

	span.AddEvent("Update bucket")
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketAttendance)).Put([]byte(eventID), j)
	})
}

func (a *AttendanceStore) ListRecords(ctx context.Context) (map[string]*model.AttendanceRecord, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "ListRecords")
	defer span.End()

	span.AddEvent("View bucket")
	records := make(map[string]*model.AttendanceRecord)
	return records, a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketAttendance)).ForEach(func(k, v []byte) error {
			rec := &model.AttendanceRecord{}
			if err := json.Unmarshal(v, rec); err != nil {
				span.RecordError(err)
				return err
			}
			records[string(k)] = rec
			return nil
		})
	})
}
