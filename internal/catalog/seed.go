// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package catalog

import (
	"encoding/json"
	"os"

	"github.com/milantonight/StaseraMilano/internal/model"
)

// LoadSeedFile reads a static event set from a JSON file, preserving
// document order.
func LoadSeedFile(filename string) ([]*model.Event, error) {
	fileData, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var events []*model.Event
	if err := json.Unmarshal(fileData, &events); err != nil {
		return nil, err
	}
	for _, e := range events {
		e.Origin = model.EventOriginStatic
	}
	return events, nil
}

// DefaultSeed is the built-in Milano event set used when no seed file
// is configured.
func DefaultSeed() []*model.Event {
	return []*model.Event{
		{
			ID:           "aperitivo-navigli",
			Title:        "Aperitivo sui Navigli",
			Time:         "19:00",
			Place:        "Navigli, Ripa di Porta Ticinese",
			Cost:         "Un drink",
			Requirements: "Nessuno, aperto a tutti",
			DistanceHint: "15 min dal Duomo",
			Coordinate:   &model.Coordinate{Lat: 45.4581, Lng: 9.1758},
			MapsURL:      MapsURL("Ripa di Porta Ticinese Milano"),
			Origin:       model.EventOriginStatic,
			Tags:         []string{"aperitivo", "aperto a tutti"},
			InitialCount: 4,
		},
		{
			ID:           "bookclub-brera",
			Title:        "Book club in libreria",
			Time:         "18:30",
			Place:        "Brera, Via Fiori Chiari",
			Cost:         "Gratis",
			Requirements: "Si può solo ascoltare",
			DistanceHint: "10 min dal Duomo",
			Coordinate:   &model.Coordinate{Lat: 45.4719, Lng: 9.1881},
			MapsURL:      MapsURL("Via Fiori Chiari Milano"),
			Origin:       model.EventOriginStatic,
			Tags:         []string{"libri", "si può solo ascoltare"},
			InitialCount: 2,
		},
		{
			ID:           "corsa-sempione",
			Title:        "Corsa leggera al Parco Sempione",
			Time:         "20:00",
			Place:        "Parco Sempione, ingresso Arco della Pace",
			Cost:         "Gratis",
			Requirements: "Scarpe da corsa",
			DistanceHint: "20 min dal Duomo",
			Coordinate:   &model.Coordinate{Lat: 45.4754, Lng: 9.1720},
			MapsURL:      MapsURL("Arco della Pace Milano"),
			Origin:       model.EventOriginStatic,
			Tags:         []string{"sport"},
			InitialCount: 7,
		},
		{
			ID:           "jam-isola",
			Title:        "Jam session acustica",
			Time:         "21:30",
			Place:        "Isola, Via Thaon di Revel",
			Cost:         "Gratis",
			Requirements: "Senza impegno, puoi venire da solo",
			DistanceHint: "25 min dal Duomo",
			Coordinate:   &model.Coordinate{Lat: 45.4863, Lng: 9.1891},
			MapsURL:      MapsURL("Via Thaon di Revel Milano"),
			Origin:       model.EventOriginStatic,
			Tags:         []string{"musica", "senza impegno"},
			InitialCount: 3,
		},
	}
}
