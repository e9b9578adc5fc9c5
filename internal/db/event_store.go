// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"

	"github.com/milantonight/StaseraMilano/internal/model"
)

// EventStore persists user-created events as an ordered sequence,
// most recently created first. Static events never pass through it.
type EventStore interface {
	CreateEvent(context.Context, *model.Event) error
	ListEvents(context.Context) ([]*model.Event, error)
	GetEventByID(context.Context, string) (*model.Event, error)
}
