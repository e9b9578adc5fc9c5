// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

// Package mapview projects the event catalog onto the map widget: one
// marker per mappable event plus an escaped popup snippet. It never
// mutates the catalog or the stores; clicks flow back through the
// create-event endpoints only.
package mapview

import (
	"html/template"
	"strings"

	"github.com/milantonight/StaseraMilano/internal/model"
)

// Marker is what the page script hands to the map widget.
type Marker struct {
	EventID   string  `json:"event_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	PopupHTML string  `json:"popup_html"`
}

var popupTmpl = template.Must(template.New("popup").Parse(strings.TrimSpace(`
<div class="popup">
  <div class="popup-title">{{.Title}}</div>
  <div class="popup-meta">{{.Time}} · {{.Cost}}</div>
  <div class="popup-actions">
    <button data-jump="{{.ID}}">Vedi dettagli</button>
    <a href="{{.MapsURL}}" target="_blank" rel="noreferrer">Apri su Maps</a>
  </div>
  <div class="popup-place">{{.Place}}</div>
</div>
`)))

// Markers builds one marker per event with a usable coordinate. Events
// without one are skipped for mapping but keep their place in the list.
func Markers(events []*model.Event) []Marker {
	markers := make([]Marker, 0, len(events))
	for _, e := range events {
		if !e.HasCoordinate() {
			continue
		}
		var b strings.Builder
		if err := popupTmpl.Execute(&b, e); err != nil {
			continue
		}
		markers = append(markers, Marker{
			EventID:   e.ID,
			Lat:       e.Coordinate.Lat,
			Lng:       e.Coordinate.Lng,
			PopupHTML: b.String(),
		})
	}
	return markers
}
