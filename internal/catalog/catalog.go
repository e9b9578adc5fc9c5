// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/db"
	"github.com/milantonight/StaseraMilano/internal/model"
)

func New(static []*model.Event, store db.EventStore) (*Catalog, error) {
	seen := make(map[string]struct{}, len(static))
	for _, e := range static {
		if e.ID == "" {
			return nil, fmt.Errorf("static event %q has no id", e.Title)
		}
		if _, ok := seen[e.ID]; ok {
			return nil, fmt.Errorf("duplicate static event id: %s", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return &Catalog{
		static: static,
		store:  store,
		now:    time.Now,
	}, nil
}

// Catalog merges the static event set with the persisted user-created
// sequence into one addressable collection. User events come first,
// newest first; static events keep their document order.
type Catalog struct {
	static []*model.Event
	store  db.EventStore

	mu     sync.Mutex
	lastMS int64
	now    func() time.Time
}

func (c *Catalog) All(ctx context.Context) ([]*model.Event, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Catalog.All")
	defer span.End()

	userEvents, err := c.store.ListEvents(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	res := make([]*model.Event, 0, len(userEvents)+len(c.static))
	seen := make(map[string]struct{}, cap(res))
	for _, e := range append(userEvents, c.static...) {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		res = append(res, e)
	}
	return res, nil
}

func (c *Catalog) ByID(ctx context.Context, id string) (*model.Event, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Catalog.ByID")
	defer span.End()

	for _, e := range c.static {
		if e.ID == id {
			return e, nil
		}
	}
	return c.store.GetEventByID(ctx, id)
}

// CreateUserEvent promotes a completed draft plus a picked coordinate
// to a persisted event. Missing required fields abort the operation
// with no state change.
func (c *Catalog) CreateUserEvent(ctx context.Context, draft *model.EventDraft, coord model.Coordinate) (*model.Event, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Catalog.CreateUserEvent")
	defer span.End()

	if err := draft.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !coord.Valid() {
		span.RecordError(model.ErrInvalidCoordinate)
		return nil, model.ErrInvalidCoordinate
	}
	draft.ApplyDefaults()

	createdAt := c.now()
	event := &model.Event{
		ID:           c.nextID(createdAt),
		Title:        draft.Title,
		Time:         draft.Time,
		Place:        draft.Place,
		Cost:         draft.Cost,
		Requirements: draft.Requirements,
		DistanceHint: draft.DistanceHint,
		Coordinate:   &coord,
		MapsURL:      MapsURL(draft.Place),
		Origin:       model.EventOriginUser,
		CreatedAt:    &createdAt,
	}
	if err := c.store.CreateEvent(ctx, event); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return event, nil
}

// nextID generates a freshness-ordered event id. Two creations inside
// the same millisecond get strictly increasing ids.
func (c *Catalog) nextID(t time.Time) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := t.UnixMilli()
	if ms <= c.lastMS {
		ms = c.lastMS + 1
	}
	c.lastMS = ms
	return fmt.Sprintf("evt-%d", ms)
}

// MapsURL builds the outbound maps-search deep link for a place name.
// It is never parsed back.
func MapsURL(place string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(place)
}
