package game

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/openkart/kartcore/internal/game"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
