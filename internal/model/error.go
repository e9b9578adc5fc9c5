// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package model

import "errors"

var (
	// ErrMissingField aborts the create-event flow when a required
	// draft field is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidCoordinate rejects map clicks outside the WGS84 range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)
