package model

// In-app presentation sizes.
const (
	InAppSizeNormal  = "normal"
	InAppSizeCompact = "compact"
)

// In-app haptic feedback styles.
const (
	InAppHapticsSuccess = "success"
	InAppHapticsWarning = "warning"
	InAppHapticsError   = "error"
)

// InAppPresentation routes a push notification to be shown as an
// in-app banner with the given symbol and styling.
type InAppPresentation struct {
	Symbol  string `json:"inAppSymbol"`
	Color   string `json:"inAppColor"` // hex, e.g. "#ae0000"
	Size    string `json:"inAppSize,omitempty"`
	Haptics string `json:"inAppHaptics,omitempty"`
}

// Notification is a transient push payload, constructed per dispatch
// call and never stored.
type Notification struct {
	Title   string
	Message string
	Data    *InAppPresentation
}
