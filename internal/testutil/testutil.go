// Package testutil provides shared helpers and test doubles.
package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bridgekit/bridgekit/internal/model"
	"github.com/bridgekit/bridgekit/internal/telemetry"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// RecordingReporter captures emitted events synchronously for assertions.
type RecordingReporter struct {
	mu     sync.Mutex
	events []telemetry.Event
}

// Emit records the event.
func (r *RecordingReporter) Emit(event telemetry.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of all recorded events.
func (r *RecordingReporter) Events() []telemetry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]telemetry.Event, len(r.events))
	copy(out, r.events)
	return out
}

// CountKind returns how many recorded events have the given kind.
func (r *RecordingReporter) CountKind(kind telemetry.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, event := range r.events {
		if event.Kind == kind {
			count++
		}
	}
	return count
}

// ErrorsFromSource returns recorded error events with the given source.
func (r *RecordingReporter) ErrorsFromSource(source telemetry.Source) []telemetry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []telemetry.Event
	for _, event := range r.events {
		if event.Kind == telemetry.KindError && event.Source == source {
			out = append(out, event)
		}
	}
	return out
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestIdentity creates a test identity with a display name.
func NewTestIdentity(t testing.TB, id string) model.Identity {
	t.Helper()
	return model.Identity{
		ID:          id,
		DisplayName: "user " + id,
	}
}

// NewTestDocument creates a test document owned by the given identity.
func NewTestDocument(t testing.TB, ownerID string) model.Document {
	t.Helper()
	now := time.Now().UTC()
	return model.Document{
		ID:         fmt.Sprintf("doc-%d", now.UnixNano()),
		Collection: "posts",
		OwnerID:    ownerID,
		Body:       "test post",
		CreatedAt:  now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
