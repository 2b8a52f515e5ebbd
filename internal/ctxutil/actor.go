// Package ctxutil carries request-scoped identity through contexts. It
// deliberately imports nothing from the rest of the module so any layer
// can read the actor without cycles.
package ctxutil

import "context"

// ActorKey keys the acting user's ID in a context.
type ActorKey struct{}

// WithActorID attributes whatever runs under the returned context to the
// given actor.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID carried by ctx, or "" when none
// was attached.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}
