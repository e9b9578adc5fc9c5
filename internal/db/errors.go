// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package db

import "errors"

// ErrNotFound is returned by lookups for ids with no stored value.
var ErrNotFound = errors.New("not found")
