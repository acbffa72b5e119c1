// Package context provides request-scoped values: tracing and actor identity.
// Authentication happens upstream; this core only carries who performed the call.
package context

import (
	"context"
)

// Actor identifies the already-authenticated caller performing an operation.
// Stamped on movements, unit history entries, and retirement fields.
type Actor struct {
	// UserID is the upstream identity (subject claim, employee code, etc.)
	UserID string

	// DisplayName is an optional human-readable name for audit records
	DisplayName string
}

type actorKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns Actor from context or nil.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// ActorID returns the acting user id from context, or "system" when absent
// (seed scripts, maintenance commands).
func ActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil && a.UserID != "" {
		return a.UserID
	}
	return "system"
}
