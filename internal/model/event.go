// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package model

import (
	"fmt"
	"strings"
	"time"
)

type EventOrigin string

const (
	// EventOriginStatic marks events that ship with the page and are
	// never persisted.
	EventOriginStatic EventOrigin = "static"
	// EventOriginUser marks events created through the pick-a-point
	// flow and stored durably.
	EventOriginUser EventOrigin = "user"
)

type Coordinate struct {
	Lat float64 `json:"lat" form:"lat"`
	Lng float64 `json:"lng" form:"lng"`
}

// Valid reports whether the coordinate lies inside the WGS84 range.
// The zero value is treated as "no coordinate".
func (c Coordinate) Valid() bool {
	if c.Lat == 0 && c.Lng == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Event struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Time         string      `json:"time"`
	Place        string      `json:"place"`
	Cost         string      `json:"cost,omitempty"`
	Requirements string      `json:"requirements,omitempty"`
	DistanceHint string      `json:"distance_hint,omitempty"`
	Coordinate   *Coordinate `json:"coordinate,omitempty"`
	MapsURL      string      `json:"maps_url,omitempty"`
	Origin       EventOrigin `json:"origin"`
	Tags         []string    `json:"tags,omitempty"`
	InitialCount int         `json:"initial_count"`
	CreatedAt    *time.Time  `json:"created_at,omitempty"`
}

// HasCoordinate reports whether the event can be placed on the map.
func (e *Event) HasCoordinate() bool {
	return e.Coordinate != nil && e.Coordinate.Valid()
}

// SearchText returns the text the low-pressure filter matches against.
func (e *Event) SearchText() string {
	parts := make([]string, 0, len(e.Tags)+2)
	parts = append(parts, e.Title, e.Requirements)
	parts = append(parts, e.Tags...)
	return strings.Join(parts, " ")
}

// EventDraft collects the fields of a user event before a map click
// supplies its coordinate. It is transient and never persisted.
type EventDraft struct {
	Title        string `json:"title" form:"title"`
	Time         string `json:"time" form:"time"`
	Place        string `json:"place" form:"place"`
	Cost         string `json:"cost" form:"cost"`
	Requirements string `json:"requirements" form:"requirements"`
	DistanceHint string `json:"distance_hint" form:"distance_hint"`
}

// Validate reports the first missing required field. Cost, requirements
// and the distance label have defaults and never fail validation.
func (d *EventDraft) Validate() error {
	required := []struct{ name, value string }{
		{"title", d.Title},
		{"time", d.Time},
		{"place", d.Place},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

// ApplyDefaults fills the optional fields left empty.
func (d *EventDraft) ApplyDefaults() {
	if strings.TrimSpace(d.Cost) == "" {
		d.Cost = "Gratis"
	}
	if strings.TrimSpace(d.Requirements) == "" {
		d.Requirements = "Nessuno"
	}
}
