// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package model

// AttendanceRecord is the per-device attendance state of one event.
// Once Active is true it never reverts; Count only grows.
type AttendanceRecord struct {
	Count  int  `json:"count"`
	Active bool `json:"active"`
}
