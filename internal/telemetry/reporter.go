package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/bridgekit/bridgekit/internal/metrics"
)

// EmitTimeout is the max time a single capture call may take.
const EmitTimeout = 5 * time.Second

// Reporter emits analytics events. Implementations must never block the
// caller on sink delivery and must never surface delivery failures.
type Reporter interface {
	Emit(event Event)
}

// Sink accepts capture calls. Satisfied by SinkClient.
type Sink interface {
	Capture(ctx context.Context, distinctID, event string, properties map[string]any) error
}

// AsyncReporter delivers events to the sink in detached goroutines.
// Delivery failures are logged and counted, never returned.
type AsyncReporter struct {
	sink    Sink
	logger  *slog.Logger
	metrics metrics.Recorder
	wg      sync.WaitGroup
}

// NewReporter creates a fire-and-forget reporter backed by the given sink.
func NewReporter(sink Sink, logger *slog.Logger, recorder metrics.Recorder) *AsyncReporter {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AsyncReporter{
		sink:    sink,
		logger:  logger.With("component", "telemetry.reporter"),
		metrics: recorder,
	}
}

// Emit captures an event without waiting for sink delivery.
func (r *AsyncReporter) Emit(event Event) {
	r.logger.Info("captured event",
		"event", event.Name(),
		"source", string(event.Source),
		"description", event.LongDescription,
		"acting_user_id", event.DistinctID(),
	)

	properties := event.Properties()
	// Dedup key in case the sink sees a delivery twice.
	properties["$insert_id"] = ulid.Make().String()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), EmitTimeout)
		defer cancel()

		if err := r.sink.Capture(ctx, event.DistinctID(), event.Name(), properties); err != nil {
			r.logger.Warn("failed to deliver event",
				"event", event.Name(),
				"error", err,
			)
			r.metrics.IncTelemetryEmit("dropped")
			return
		}
		r.metrics.IncTelemetryEmit("success")
	}()
}

// Shutdown waits for in-flight deliveries to finish, or for ctx to expire.
// It implements server.ShutdownFunc.
func (r *AsyncReporter) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NopReporter discards all events. Useful as a default in tests.
type NopReporter struct{}

// Emit is a no-op.
func (NopReporter) Emit(event Event) {}
