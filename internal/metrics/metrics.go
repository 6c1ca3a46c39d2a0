// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Aggregation metrics
	IncReportBuilt(status string) // status: "success" or "failed"
	ObserveReportDuration(duration time.Duration)
	ObserveReportSize(users int)

	// Dispatch metrics
	IncNotificationDispatched(status string) // status: "success" or "failed"

	// Telemetry pipeline metrics
	IncTelemetryEmit(status string) // status: "success" or "dropped"

	// Upstream collaborator failures, labeled by collaborator:
	// "identity", "docstore", "oracle", "gateway"
	IncUpstreamError(collaborator string)

	// Entitlement check outcomes
	IncEntitlementCheck(result string) // result: "active" or "inactive"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
