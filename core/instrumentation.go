package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/ralfpopescu/scribe-core/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	turnOutcomes, _ = meter.Int64Counter("orchestrator.turns",
		metric.WithDescription("Finished turns, partitioned by outcome"),
	)
)
