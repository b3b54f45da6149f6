// Package di contains dependency injection tokens for the batch context.
package di

import (
	"github.com/fbellman/swapdesk/business/batch/app"
	"github.com/fbellman/swapdesk/business/batch/infra/batchfile"
	"github.com/fbellman/swapdesk/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Orchestrator = di.NewToken[*app.Orchestrator]("batch.Orchestrator")
	Loader       = di.NewToken[*batchfile.Loader]("batch.Loader")
)

// Private dependency tokens - internal to batch module
var (
	Reporter = di.NewToken[app.Reporter]("batch:reporter")
)

// Helper functions for type-safe access
func GetOrchestrator(c di.ServiceRegistry) *app.Orchestrator {
	return di.GetToken(c, Orchestrator)
}

func GetLoader(c di.ServiceRegistry) *batchfile.Loader {
	return di.GetToken(c, Loader)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
