// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package filter

import (
	"testing"

	"github.com/milantonight/StaseraMilano/internal/model"
)

func TestVisible(t *testing.T) {
	engine := New()

	tt := []struct {
		name     string
		event    *model.Event
		filterOn bool
		want     bool
	}{
		{
			name:     "filter off shows everything",
			event:    &model.Event{Title: "Torneo competitivo"},
			filterOn: false,
			want:     true,
		},
		{
			name:     "tag phrase matches",
			event:    &model.Event{Title: "Jam session", Tags: []string{"senza impegno"}},
			filterOn: true,
			want:     true,
		},
		{
			name:     "match is case-insensitive",
			event:    &model.Event{Title: "Aperitivo", Requirements: "Nessuno, APERTO A TUTTI"},
			filterOn: true,
			want:     true,
		},
		{
			name:     "phrase inside longer text",
			event:    &model.Event{Title: "Book club", Requirements: "Si può solo ascoltare, senza problemi"},
			filterOn: true,
			want:     true,
		},
		{
			name:     "no phrase hides the event",
			event:    &model.Event{Title: "Corsa", Requirements: "Scarpe da corsa", Tags: []string{"sport"}},
			filterOn: true,
			want:     false,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.Visible(tc.event, tc.filterOn); got != tc.want {
				t.Errorf("Visible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisibleCustomPhrases(t *testing.T) {
	engine := New("chiacchiere libere")

	event := &model.Event{Title: "Serata di chiacchiere libere"}
	if !engine.Visible(event, true) {
		t.Error("custom phrase should match")
	}

	defaultTagged := &model.Event{Tags: []string{"senza impegno"}}
	if engine.Visible(defaultTagged, true) {
		t.Error("default phrases must not apply when overridden")
	}
}
