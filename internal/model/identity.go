// Package model defines domain entities for the application.
package model

// NoDisplayName is the username placeholder for identities without a display name.
const NoDisplayName = "NO_DISPLAY_NAME"

// Identity represents a user record owned by the external identity provider.
// It is read-only from this system's point of view.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}

// Username returns the display name, or the NoDisplayName placeholder
// when the provider has no display name on record.
func (i Identity) Username() string {
	if i.DisplayName == "" {
		return NoDisplayName
	}
	return i.DisplayName
}

// Caller is the authenticated identity attached to an incoming request.
type Caller struct {
	UserID      string
	DisplayName string
}
