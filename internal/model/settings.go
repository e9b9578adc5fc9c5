// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package model

// Settings holds the persisted page preferences.
type Settings struct {
	// SoloMode is the "low-pressure" display filter toggle.
	SoloMode bool `json:"on"`
}
