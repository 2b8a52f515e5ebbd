// Package actor resolves the current actor identity from local
// configuration. The CLI is single-user per invocation: whoever ran
// `caseflow init` is the actor for every operation.
package actor

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/example/caseflow/internal/config"
	"github.com/example/caseflow/internal/ports/secondary"
)

// ConfigProvider implements secondary.ActorProvider by reading the caseflow
// config file. The config is loaded once and cached for the process.
type ConfigProvider struct {
	once     sync.Once
	identity *secondary.ActorIdentity
	err      error
}

// NewConfigProvider creates a new config-backed actor provider.
func NewConfigProvider() *ConfigProvider {
	return &ConfigProvider{}
}

// GetCurrentActor returns the identity of the configured actor.
func (p *ConfigProvider) GetCurrentActor(ctx context.Context) (*secondary.ActorIdentity, error) {
	p.once.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			p.err = fmt.Errorf("failed to resolve working directory: %w", err)
			return
		}

		cfg, err := config.LoadConfig(cwd)
		if err != nil {
			p.err = fmt.Errorf("no actor configured, run 'caseflow init' first: %w", err)
			return
		}
		if cfg.ActorID == "" {
			p.err = fmt.Errorf("config has no actor_id, run 'caseflow init' again")
			return
		}

		role := cfg.Role
		if role == "" {
			role = "analyst"
		}
		p.identity = &secondary.ActorIdentity{ID: cfg.ActorID, Role: role}
	})

	if p.err != nil {
		return nil, p.err
	}
	cp := *p.identity
	return &cp, nil
}

// Ensure ConfigProvider implements the interface
var _ secondary.ActorProvider = (*ConfigProvider)(nil)
