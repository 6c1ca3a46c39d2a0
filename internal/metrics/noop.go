package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncReportBuilt is a no-op.
func (n *NoopRecorder) IncReportBuilt(status string) {}

// ObserveReportDuration is a no-op.
func (n *NoopRecorder) ObserveReportDuration(duration time.Duration) {}

// ObserveReportSize is a no-op.
func (n *NoopRecorder) ObserveReportSize(users int) {}

// IncNotificationDispatched is a no-op.
func (n *NoopRecorder) IncNotificationDispatched(status string) {}

// IncTelemetryEmit is a no-op.
func (n *NoopRecorder) IncTelemetryEmit(status string) {}

// IncUpstreamError is a no-op.
func (n *NoopRecorder) IncUpstreamError(collaborator string) {}

// IncEntitlementCheck is a no-op.
func (n *NoopRecorder) IncEntitlementCheck(result string) {}
