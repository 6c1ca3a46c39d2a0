// Package auth provides caller authentication utilities.
package auth

import (
	"context"

	"github.com/bridgekit/bridgekit/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// callerContextKey is the context key for storing the authenticated caller.
const callerContextKey contextKey = "caller"

// ContextWithCaller adds the authenticated caller to the context.
func ContextWithCaller(ctx context.Context, caller *model.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext retrieves the authenticated caller from the context.
// Returns nil if not present.
func CallerFromContext(ctx context.Context) *model.Caller {
	caller, ok := ctx.Value(callerContextKey).(*model.Caller)
	if !ok {
		return nil
	}
	return caller
}

// UserIDFromContext is a convenience function to get the caller's user id.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	caller := CallerFromContext(ctx)
	if caller == nil {
		return ""
	}
	return caller.UserID
}
