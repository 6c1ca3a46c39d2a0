package handler

import (
	"fmt"
	"net/http"

	"github.com/bridgekit/bridgekit/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "bridgekit_reports_built_total{status=\"success\"} %d\n", snap.ReportsBuilt)
	writeMetric(w, "bridgekit_reports_built_total{status=\"failed\"} %d\n", snap.ReportsFailed)
	writeMetric(w, "bridgekit_report_duration_seconds_count %d\n", snap.ReportDurationCount)
	writeMetric(w, "bridgekit_report_duration_seconds_sum %.6f\n", float64(snap.ReportDurationTotalNs)/1e9)
	writeMetric(w, "bridgekit_report_users_total %d\n", snap.ReportUsersTotal)

	writeMetric(w, "bridgekit_notifications_total{status=\"success\"} %d\n", snap.NotificationsDispatched)
	writeMetric(w, "bridgekit_notifications_total{status=\"failed\"} %d\n", snap.NotificationsFailed)

	writeMetric(w, "bridgekit_telemetry_events_total{status=\"success\"} %d\n", snap.TelemetryEmitted)
	writeMetric(w, "bridgekit_telemetry_events_total{status=\"dropped\"} %d\n", snap.TelemetryDropped)

	writeMetric(w, "bridgekit_upstream_errors_total{collaborator=\"identity\"} %d\n", snap.IdentityErrors)
	writeMetric(w, "bridgekit_upstream_errors_total{collaborator=\"docstore\"} %d\n", snap.DocstoreErrors)
	writeMetric(w, "bridgekit_upstream_errors_total{collaborator=\"oracle\"} %d\n", snap.OracleErrors)
	writeMetric(w, "bridgekit_upstream_errors_total{collaborator=\"gateway\"} %d\n", snap.GatewayErrors)

	writeMetric(w, "bridgekit_entitlement_checks_total{result=\"active\"} %d\n", snap.EntitlementsActive)
	writeMetric(w, "bridgekit_entitlement_checks_total{result=\"inactive\"} %d\n", snap.EntitlementsInactive)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
