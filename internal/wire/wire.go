// Package wire provides dependency injection for the caseflow application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/example/caseflow/internal/adapters/actor"
	cliadapter "github.com/example/caseflow/internal/adapters/cli"
	"github.com/example/caseflow/internal/adapters/sqlite"
	"github.com/example/caseflow/internal/app"
	"github.com/example/caseflow/internal/config"
	"github.com/example/caseflow/internal/core/template"
	"github.com/example/caseflow/internal/db"
	"github.com/example/caseflow/internal/ports/primary"
)

var (
	caseService     primary.CaseService
	workflowService primary.WorkflowService
	once            sync.Once
)

// CaseService returns the singleton CaseService instance.
func CaseService() primary.CaseService {
	once.Do(initServices)
	return caseService
}

// WorkflowService returns the singleton WorkflowService instance.
func WorkflowService() primary.WorkflowService {
	once.Do(initServices)
	return workflowService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB. The change
	// log writer attributes low-level writes to the configured actor.
	logWriter := sqlite.NewLogWriterAdapter(sqlite.NewChangeLogRepository(database))
	caseRepo := sqlite.NewCaseRepository(database, logWriter)
	phaseRepo := sqlite.NewPhaseRepository(database)
	gateRepo := sqlite.NewGateRepository(database, logWriter)
	auditRepo := sqlite.NewAuditRepository(database)
	userRepo := sqlite.NewUserRepository(database)
	txRunner := sqlite.NewTxRunner(database)
	actorProvider := actor.NewConfigProvider()

	registry := loadRegistry()

	// Both services share one lock registry so the status machine and the
	// workflow machine serialize against the same per-case section.
	locks := app.NewCaseLocks()

	caseService = app.NewCaseService(caseRepo, auditRepo, txRunner, userRepo, actorProvider, registry, locks)
	workflowService = app.NewWorkflowService(caseRepo, phaseRepo, gateRepo, auditRepo, txRunner, actorProvider, registry, locks)
}

// loadRegistry returns the built-in template registry, extended by the
// deployment overlay file when the config points at one.
func loadRegistry() *template.Registry {
	cwd, err := os.Getwd()
	if err != nil {
		return template.Builtin()
	}
	cfg, err := config.LoadConfig(cwd)
	if err != nil || cfg.TemplatesPath == "" {
		return template.Builtin()
	}
	registry, err := template.LoadFile(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("failed to load templates from %s: %v", cfg.TemplatesPath, err)
	}
	return registry
}

// CaseAdapter returns a new CaseAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CaseAdapter() *cliadapter.CaseAdapter {
	return CaseAdapterWithOutput(os.Stdout)
}

// CaseAdapterWithOutput returns a new CaseAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func CaseAdapterWithOutput(out io.Writer) *cliadapter.CaseAdapter {
	once.Do(initServices)
	return cliadapter.NewCaseAdapter(caseService, out)
}

// WorkflowAdapter returns a new WorkflowAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func WorkflowAdapter() *cliadapter.WorkflowAdapter {
	return WorkflowAdapterWithOutput(os.Stdout)
}

// WorkflowAdapterWithOutput returns a new WorkflowAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func WorkflowAdapterWithOutput(out io.Writer) *cliadapter.WorkflowAdapter {
	once.Do(initServices)
	return cliadapter.NewWorkflowAdapter(workflowService, out)
}
