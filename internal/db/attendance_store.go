// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"

	"github.com/milantonight/StaseraMilano/internal/model"
)

// AttendanceStore keeps one record per event id. Records are created on
// first attendance and updated last-write-wins.
type AttendanceStore interface {
	GetRecord(context.Context, string) (*model.AttendanceRecord, error)
	PutRecord(context.Context, string, *model.AttendanceRecord) error
	ListRecords(context.Context) (map[string]*model.AttendanceRecord, error)
}
