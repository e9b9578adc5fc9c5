// Copyright (C) 2026 the StaseraMilano maintainers
// See root-dir/LICENSE for more information

package catalog

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("github.com/milantonight/StaseraMilano/internal/catalog")
