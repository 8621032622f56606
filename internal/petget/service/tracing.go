package service

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("github.com/aussiebroadwan/petget/internal/petget/service")
