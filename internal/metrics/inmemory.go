package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ReportsBuilt            uint64
	ReportsFailed           uint64
	ReportDurationCount     uint64
	ReportDurationTotalNs   int64
	ReportUsersTotal        uint64
	NotificationsDispatched uint64
	NotificationsFailed     uint64
	TelemetryEmitted        uint64
	TelemetryDropped        uint64
	IdentityErrors          uint64
	DocstoreErrors          uint64
	OracleErrors            uint64
	GatewayErrors           uint64
	EntitlementsActive      uint64
	EntitlementsInactive    uint64
}

// InMemoryRecorder stores metrics in memory for tests and the /metrics endpoint.
type InMemoryRecorder struct {
	reportsBuilt            uint64
	reportsFailed           uint64
	reportDurationCount     uint64
	reportDurationTotalNs   int64
	reportUsersTotal        uint64
	notificationsDispatched uint64
	notificationsFailed     uint64
	telemetryEmitted        uint64
	telemetryDropped        uint64
	identityErrors          uint64
	docstoreErrors          uint64
	oracleErrors            uint64
	gatewayErrors           uint64
	entitlementsActive      uint64
	entitlementsInactive    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		ReportsBuilt:            atomic.LoadUint64(&m.reportsBuilt),
		ReportsFailed:           atomic.LoadUint64(&m.reportsFailed),
		ReportDurationCount:     atomic.LoadUint64(&m.reportDurationCount),
		ReportDurationTotalNs:   atomic.LoadInt64(&m.reportDurationTotalNs),
		ReportUsersTotal:        atomic.LoadUint64(&m.reportUsersTotal),
		NotificationsDispatched: atomic.LoadUint64(&m.notificationsDispatched),
		NotificationsFailed:     atomic.LoadUint64(&m.notificationsFailed),
		TelemetryEmitted:        atomic.LoadUint64(&m.telemetryEmitted),
		TelemetryDropped:        atomic.LoadUint64(&m.telemetryDropped),
		IdentityErrors:          atomic.LoadUint64(&m.identityErrors),
		DocstoreErrors:          atomic.LoadUint64(&m.docstoreErrors),
		OracleErrors:            atomic.LoadUint64(&m.oracleErrors),
		GatewayErrors:           atomic.LoadUint64(&m.gatewayErrors),
		EntitlementsActive:      atomic.LoadUint64(&m.entitlementsActive),
		EntitlementsInactive:    atomic.LoadUint64(&m.entitlementsInactive),
	}
}

// IncReportBuilt increments the report counter for the given status.
func (m *InMemoryRecorder) IncReportBuilt(status string) {
	if status == "success" {
		atomic.AddUint64(&m.reportsBuilt, 1)
		return
	}
	atomic.AddUint64(&m.reportsFailed, 1)
}

// ObserveReportDuration records aggregation duration.
func (m *InMemoryRecorder) ObserveReportDuration(duration time.Duration) {
	atomic.AddUint64(&m.reportDurationCount, 1)
	atomic.AddInt64(&m.reportDurationTotalNs, duration.Nanoseconds())
}

// ObserveReportSize records the number of users in a built report.
func (m *InMemoryRecorder) ObserveReportSize(users int) {
	if users > 0 {
		atomic.AddUint64(&m.reportUsersTotal, uint64(users))
	}
}

// IncNotificationDispatched increments the dispatch counter for the given status.
func (m *InMemoryRecorder) IncNotificationDispatched(status string) {
	if status == "success" {
		atomic.AddUint64(&m.notificationsDispatched, 1)
		return
	}
	atomic.AddUint64(&m.notificationsFailed, 1)
}

// IncTelemetryEmit increments the telemetry delivery counter for the given status.
func (m *InMemoryRecorder) IncTelemetryEmit(status string) {
	if status == "success" {
		atomic.AddUint64(&m.telemetryEmitted, 1)
		return
	}
	atomic.AddUint64(&m.telemetryDropped, 1)
}

// IncUpstreamError increments the error counter for a collaborator.
func (m *InMemoryRecorder) IncUpstreamError(collaborator string) {
	switch collaborator {
	case "identity":
		atomic.AddUint64(&m.identityErrors, 1)
	case "docstore":
		atomic.AddUint64(&m.docstoreErrors, 1)
	case "oracle":
		atomic.AddUint64(&m.oracleErrors, 1)
	case "gateway":
		atomic.AddUint64(&m.gatewayErrors, 1)
	}
}

// IncEntitlementCheck increments the entitlement result counter.
func (m *InMemoryRecorder) IncEntitlementCheck(result string) {
	if result == "active" {
		atomic.AddUint64(&m.entitlementsActive, 1)
		return
	}
	atomic.AddUint64(&m.entitlementsInactive, 1)
}
