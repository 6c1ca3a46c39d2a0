// Package service provides the aggregation and dispatch orchestration logic.
package service

import "errors"

// ErrServer is the only error surfaced to external callers. Internal
// failure detail goes to logs and telemetry, never over the boundary.
var ErrServer = errors.New("server error")
