// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milantonight/StaseraMilano/internal/db/jsondb"
	"github.com/milantonight/StaseraMilano/internal/model"
)

func newTestCatalog(t *testing.T, dir string) *Catalog {
	t.Helper()
	store, err := jsondb.NewEventStore(filepath.Join(dir, "events.json"))
	if err != nil {
		t.Fatalf("could not create event store: %v", err)
	}
	cat, err := New(DefaultSeed(), store)
	if err != nil {
		t.Fatalf("could not create catalog: %v", err)
	}
	return cat
}

func TestAllStartsWithSeed(t *testing.T) {
	cat := newTestCatalog(t, t.TempDir())

	events, err := cat.All(context.Background())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(events) != len(DefaultSeed()) {
		t.Fatalf("got %d events, want %d", len(events), len(DefaultSeed()))
	}
	if events[0].ID != "aperitivo-navigli" {
		t.Errorf("seed order not preserved, first = %s", events[0].ID)
	}
}

func TestCreateUserEvent(t *testing.T) {
	cat := newTestCatalog(t, t.TempDir())
	ctx := context.Background()

	draft := &model.EventDraft{Title: "Scacchi al bar", Time: "20:30", Place: "Isola"}
	event, err := cat.CreateUserEvent(ctx, draft, model.Coordinate{Lat: 45.4850, Lng: 9.1900})
	if err != nil {
		t.Fatalf("CreateUserEvent: %v", err)
	}

	if event.Origin != model.EventOriginUser {
		t.Errorf("origin = %s, want user", event.Origin)
	}
	if !strings.HasPrefix(event.ID, "evt-") {
		t.Errorf("id = %q, want evt- prefix", event.ID)
	}
	if event.InitialCount != 0 {
		t.Errorf("initial count = %d, want 0", event.InitialCount)
	}
	if event.Cost != "Gratis" || event.Requirements != "Nessuno" {
		t.Errorf("defaults not applied: cost %q, requirements %q", event.Cost, event.Requirements)
	}
	if !strings.Contains(event.MapsURL, "query=Isola") {
		t.Errorf("maps url = %q, want place query", event.MapsURL)
	}

	// user events come before the static set
	events, err := cat.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if events[0].ID != event.ID {
		t.Errorf("new event not first, got %s", events[0].ID)
	}
}

func TestCreateUserEventValidation(t *testing.T) {
	tt := []struct {
		name  string
		draft model.EventDraft
		coord model.Coordinate
		want  error
	}{
		{
			name:  "missing title",
			draft: model.EventDraft{Time: "20:30", Place: "Isola"},
			coord: model.Coordinate{Lat: 45.4850, Lng: 9.1900},
			want:  model.ErrMissingField,
		},
		{
			name:  "blank place",
			draft: model.EventDraft{Title: "Scacchi", Time: "20:30", Place: "   "},
			coord: model.Coordinate{Lat: 45.4850, Lng: 9.1900},
			want:  model.ErrMissingField,
		},
		{
			name:  "coordinate out of range",
			draft: model.EventDraft{Title: "Scacchi", Time: "20:30", Place: "Isola"},
			coord: model.Coordinate{Lat: 123, Lng: 9.1900},
			want:  model.ErrInvalidCoordinate,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			cat := newTestCatalog(t, t.TempDir())
			ctx := context.Background()

			_, err := cat.CreateUserEvent(ctx, &tc.draft, tc.coord)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}

			events, err := cat.All(ctx)
			if err != nil {
				t.Fatalf("All: %v", err)
			}
			if len(events) != len(DefaultSeed()) {
				t.Errorf("aborted creation left state behind: %d events", len(events))
			}
		})
	}
}

func TestCreateUserEventUniqueIDs(t *testing.T) {
	cat := newTestCatalog(t, t.TempDir())
	ctx := context.Background()
	coord := model.Coordinate{Lat: 45.4850, Lng: 9.1900}

	seen := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		draft := &model.EventDraft{Title: "Evento", Time: "21:00", Place: "Lambrate"}
		event, err := cat.CreateUserEvent(ctx, draft, coord)
		if err != nil {
			t.Fatalf("CreateUserEvent: %v", err)
		}
		if _, ok := seen[event.ID]; ok {
			t.Fatalf("duplicate id: %s", event.ID)
		}
		seen[event.ID] = struct{}{}
	}
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cat := newTestCatalog(t, dir)
	draft := &model.EventDraft{Title: "Scacchi al bar", Time: "20:30", Place: "Isola"}
	created, err := cat.CreateUserEvent(ctx, draft, model.Coordinate{Lat: 45.4850, Lng: 9.1900})
	if err != nil {
		t.Fatalf("CreateUserEvent: %v", err)
	}

	// a fresh catalog over the same files sees the identical event
	reloaded := newTestCatalog(t, dir)
	got, err := reloaded.ByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("ByID after reload: %v", err)
	}
	if got.Title != created.Title || got.Time != created.Time || got.Place != created.Place {
		t.Errorf("reloaded event differs: %+v vs %+v", got, created)
	}
	if got.Coordinate == nil || *got.Coordinate != *created.Coordinate {
		t.Errorf("coordinate not preserved: %+v", got.Coordinate)
	}
}

func TestNewRejectsDuplicateStaticIDs(t *testing.T) {
	store, err := jsondb.NewEventStore(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("could not create event store: %v", err)
	}

	static := []*model.Event{
		{ID: "dup", Title: "A"},
		{ID: "dup", Title: "B"},
	}
	if _, err := New(static, store); err == nil {
		t.Fatal("expected error for duplicate static ids")
	}
}
