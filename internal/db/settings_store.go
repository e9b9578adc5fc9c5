// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package db

import (
	"context"

	"github.com/milantonight/StaseraMilano/internal/model"
)

// SettingsStore persists the page settings. Reads fall back to the
// default settings when nothing has been stored yet.
type SettingsStore interface {
	GetSettings(context.Context) (*model.Settings, error)
	UpdateSettings(context.Context, *model.Settings) error
}
