package kvdb

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("github.com/lalith-99/eventboard/internal/repository/kvdb")
