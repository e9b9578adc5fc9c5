// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

// Package flow drives the create-event state machine. A session is
// either idle or awaiting exactly one map click for a pending draft;
// both commit and cancel release the slot.
package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/milantonight/StaseraMilano/internal/catalog"
	"github.com/milantonight/StaseraMilano/internal/model"
)

var tracer = otel.GetTracerProvider().Tracer("github.com/milantonight/StaseraMilano/internal/flow")

// ErrNoPendingDraft is returned when a map click or cancel arrives
// without a creation in progress.
var ErrNoPendingDraft = errors.New("no pending event draft")

func NewController(cat *catalog.Catalog) *Controller {
	return &Controller{
		catalog: cat,
		drafts:  make(map[uuid.UUID]*model.EventDraft),
	}
}

// Controller exclusively owns the pending-draft slot of every session.
type Controller struct {
	catalog *catalog.Catalog

	mu     sync.Mutex
	drafts map[uuid.UUID]*model.EventDraft
}

// Begin validates the collected fields and arms pick-a-point mode for
// the session. A draft already awaiting a click is discarded first, so
// at most one draft is ever pending.
func (c *Controller) Begin(sessionID uuid.UUID, draft *model.EventDraft) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	draft.ApplyDefaults()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[sessionID] = draft
	return nil
}

// Commit consumes the next map click: the pending draft plus the
// clicked coordinate become a persisted event and pick mode exits.
// The slot is released even when persisting fails; the visitor
// re-invokes the flow instead of inheriting a stale draft.
func (c *Controller) Commit(ctx context.Context, sessionID uuid.UUID, coord model.Coordinate) (*model.Event, error) {
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Controller.Commit")
	defer span.End()

	c.mu.Lock()
	draft, ok := c.drafts[sessionID]
	delete(c.drafts, sessionID)
	c.mu.Unlock()

	if !ok {
		span.RecordError(ErrNoPendingDraft)
		return nil, ErrNoPendingDraft
	}

	event, err := c.catalog.CreateUserEvent(ctx, draft, coord)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return event, nil
}

// Cancel discards the pending draft with no persistence.
func (c *Controller) Cancel(sessionID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.drafts[sessionID]; !ok {
		return ErrNoPendingDraft
	}
	delete(c.drafts, sessionID)
	return nil
}

// Pending reports whether the session is awaiting a map click.
func (c *Controller) Pending(sessionID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.drafts[sessionID]
	return ok
}
