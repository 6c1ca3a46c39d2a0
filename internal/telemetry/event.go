// Package telemetry provides structured analytics event capture.
package telemetry

// Kind classifies the outcome an event describes.
type Kind string

const (
	KindInfo    Kind = "info"
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Source identifies the subsystem an event originates from.
type Source string

const (
	SourceGeneral   Source = "general"
	SourceAuth      Source = "auth"
	SourceDB        Source = "db"
	SourceAnalytics Source = "analytics"
	SourceIAP       Source = "iap"
	SourceNotif     Source = "notif"
)

// Relevancy grades how much an event matters when triaging.
type Relevancy string

const (
	RelevancyLow    Relevancy = "low"
	RelevancyMedium Relevancy = "medium"
	RelevancyHigh   Relevancy = "high"
)

// NoUserID is the distinct id used when an event is not tied to a user action.
const NoUserID = "NO_USER_ID"

// Event is a single analytics event record. Write-only, fire-and-forget.
type Event struct {
	Kind            Kind
	ID              string // stable id to recognize the event, e.g. "fetch_all_users"
	LongDescription string
	Source          Source
	Relevancy       Relevancy // optional; see EffectiveRelevancy
	ActingUserID    string    // optional; falls back to NoUserID
}

// Name returns the sink event name, "<kind>_<id>".
func (e Event) Name() string {
	return string(e.Kind) + "_" + e.ID
}

// DistinctID returns the acting user id, or NoUserID when the event is
// not the result of a user interaction.
func (e Event) DistinctID() string {
	if e.ActingUserID == "" {
		return NoUserID
	}
	return e.ActingUserID
}

// EffectiveRelevancy applies the defaults: errors are high, everything
// else medium, unless explicitly set.
func (e Event) EffectiveRelevancy() Relevancy {
	if e.Relevancy != "" {
		return e.Relevancy
	}
	if e.Kind == KindError {
		return RelevancyHigh
	}
	return RelevancyMedium
}

// Properties builds the sink property map for the event.
func (e Event) Properties() map[string]any {
	props := map[string]any{
		"relevancy":       string(e.EffectiveRelevancy()),
		"source":          string(e.Source),
		"endpoint_source": "backend",
	}
	if e.LongDescription != "" {
		props["longDescription"] = e.LongDescription
	}
	return props
}
