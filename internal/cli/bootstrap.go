// Package cli provides CLI commands for the caseflow application.
package cli

import (
	gocontext "context"

	"github.com/example/caseflow/internal/adapters/actor"
	"github.com/example/caseflow/internal/ctxutil"
)

// globalActorID stores the configured actor ID for the current CLI invocation.
// Set once at startup by DetectAndStoreActor().
var globalActorID string

// DetectAndStoreActor resolves the current actor identity from the config and
// stores it globally. Should be called once at CLI startup in PersistentPreRun.
// Commands that require an actor fail later with a proper error, so resolution
// failures are not fatal here.
func DetectAndStoreActor() {
	identity, err := actor.NewConfigProvider().GetCurrentActor(gocontext.Background())
	if err != nil {
		globalActorID = ""
		return
	}
	globalActorID = identity.ID
}

// GetActorID returns the stored actor ID from CLI startup.
// Returns empty string if DetectAndStoreActor() was not called.
func GetActorID() string {
	return globalActorID
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}
