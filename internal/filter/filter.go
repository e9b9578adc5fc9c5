// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

// Package filter implements the solo / low-pressure display filter.
// It is a pure presentation predicate and never touches stored state.
package filter

import (
	"strings"

	"github.com/milantonight/StaseraMilano/internal/model"
)

// DefaultPhrases marks events as welcoming to people showing up alone.
// The list is configuration, not behavior; deployments may override it.
var DefaultPhrases = []string{
	"aperto a tutti",
	"senza impegno",
	"si può solo ascoltare",
	"puoi venire da solo",
}

func New(phrases ...string) *Engine {
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &Engine{phrases: lowered}
}

type Engine struct {
	phrases []string
}

// Visible reports whether the event should be shown. With the filter
// off every event is visible; with it on, the event text must contain
// at least one marker phrase (case-insensitive).
func (e *Engine) Visible(event *model.Event, filterOn bool) bool {
	if !filterOn {
		return true
	}
	text := strings.ToLower(event.SearchText())
	for _, phrase := range e.phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
