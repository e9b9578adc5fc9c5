// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

// Package geo estimates walking distances between the visitor and the
// events. City-scale accuracy on a spherical Earth is good enough.
package geo

import (
	"fmt"
	"math"

	"github.com/milantonight/StaseraMilano/internal/model"
)

const (
	earthRadiusMeters = 6371000
	// walking pace used for the "X min a piedi" badges
	walkMetersPerMinute = 80
)

// Distance returns the great-circle distance in meters between two
// coordinates (haversine).
func Distance(a, b model.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WalkMinutes converts a distance to a walking-time estimate. Partial
// minutes count as a full one; the estimate is never below 1.
func WalkMinutes(meters float64) int {
	minutes := int(math.Ceil(meters / walkMetersPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Nearest returns the event closest to from, skipping events without a
// usable coordinate. Ties go to the first event in input order. It
// returns nil when no event has a coordinate.
func Nearest(events []*model.Event, from model.Coordinate) *model.Event {
	var nearest *model.Event
	best := math.Inf(1)
	for _, e := range events {
		if !e.HasCoordinate() {
			continue
		}
		if d := Distance(from, *e.Coordinate); d < best {
			best = d
			nearest = e
		}
	}
	return nearest
}

// FormatDistance renders a distance for display: rounded to the
// nearest 10 m below one kilometer, one decimal in kilometers above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters/10))*10)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
