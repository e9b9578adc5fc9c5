// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package kvdb

import (
	"context"
	"encoding/json"
	"log/slog"

	bolt "go.etcd.io/bbolt"
	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/model"
)

const bucketSettings = "settings_store"

func NewSettingsStore(database *bolt.DB) (*SettingsStore, error) {
	const key = "settings"

	logger := slog.Default().WithGroup("kvdb")
	return &SettingsStore{db: database, skey: key}, database.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketSettings))
		if err != nil {
			return err
		}
		res := bucket.Get([]byte(key))
		if err := json.Unmarshal(res, &model.Settings{}); err != nil {
			logger.Warn("could not unmarshal settings, create defaults", "error", err.Error())
			j, err := json.Marshal(&model.Settings{})
			if err != nil {
				panic(err)
			}
			return bucket.Put([]byte(key), j)
		}
		return nil
	})
}

// SettingsStore keeps the page settings under a single bbolt key.
type SettingsStore struct {
	db   *bolt.DB
	skey string
}

func (s *SettingsStore) GetSettings(ctx context.Context) (*model.Settings, error) {
	var span trace.Span
	_, span = tracer.Start(ctx, "GetSettings")
	defer span.End()

	span.AddEvent("View bucket")
	settings := &model.Settings{}
	return settings, s.db.View(func(tx *bolt.Tx) error {
		res := tx.Bucket([]byte(bucketSettings)).Get([]byte(s.skey))
		if res == nil {
			// nothing stored yet, defaults apply
			return nil
		}
		return json.Unmarshal(res, settings)
	})
}

func (s *SettingsStore) UpdateSettings(ctx context.Context, in *model.Settings) error {
	var span trace.Span
	_, span = tracer.Start(ctx, "UpdateSettings")
	defer span.End()

	return s.db.Update(func(tx *bolt.Tx) error {
		settings, err := json.Marshal(in)
		if err != nil {
			span.RecordError(err)
			return err
		}
		return tx.Bucket([]byte(bucketSettings)).Put([]byte(s.skey), settings)
	})
}
