package events

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/planviz/floorview/internal/events"

// dispatchMetrics bundles the dispatcher's instruments: queue depth per
// buffered command, and processed/dropped counters.
type dispatchMetrics struct {
	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter
}

func (m *dispatchMetrics) init(observe func(metric.Observer, metric.Int64ObservableGauge)) error {
	meter := otel.Meter(instrumentationName)

	var err error
	m.queueSize, err = meter.Int64ObservableGauge(
		"viewer.events.queue.size",
		metric.WithDescription("Current number of events in queue"),
	)
	if err != nil {
		return fmt.Errorf("creating queue size gauge: %w", err)
	}

	if _, err = meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			observe(o, m.queueSize)
			return nil
		},
		m.queueSize,
	); err != nil {
		return fmt.Errorf("registering queue callback: %w", err)
	}

	m.processed, err = meter.Int64Counter(
		"viewer.events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return fmt.Errorf("creating processed counter: %w", err)
	}

	m.dropped, err = meter.Int64Counter(
		"viewer.events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return fmt.Errorf("creating dropped counter: %w", err)
	}

	return nil
}
