// Package batch implements the batch orchestration bounded context:
// scheduling a list of trades across wallets and reporting progress.
package batch

import (
	"context"
	"math/big"

	"github.com/fbellman/swapdesk/business/batch/app"
	batchDI "github.com/fbellman/swapdesk/business/batch/di"
	"github.com/fbellman/swapdesk/business/batch/infra"
	"github.com/fbellman/swapdesk/business/batch/infra/batchfile"
	executionDI "github.com/fbellman/swapdesk/business/execution/di"
	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
	pricingDI "github.com/fbellman/swapdesk/business/pricing/di"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/di"
	"github.com/fbellman/swapdesk/internal/logger"
	"github.com/fbellman/swapdesk/internal/monolith"
)

// Module implements the batch bounded context.
type Module struct{}

// RegisterServices registers all batch services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Progress reporter - private dependency
	di.RegisterToken(c, batchDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)

		if cfg.Batch.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	// Batch file loader (public - main loads the trade list through it)
	di.RegisterToken(c, batchDI.Loader, func(sr di.ServiceRegistry) *batchfile.Loader {
		log := sr.Get("logger").(logger.LoggerInterface)

		return batchfile.NewLoader(
			pricingDI.GetTokenResolver(sr),
			executionDI.GetSigner(sr).Addresses(),
			log,
		)
	})

	// Orchestrator (public - exposed to main)
	di.RegisterToken(c, batchDI.Orchestrator, func(sr di.ServiceRegistry) *app.Orchestrator {
		log := sr.Get("logger").(logger.LoggerInterface)

		orchestrator, err := app.NewOrchestrator(
			executionDI.GetTradeExecutor(sr),
			batchDI.GetReporter(sr),
			log,
		)
		if err != nil {
			panic("failed to create batch orchestrator: " + err.Error())
		}
		return orchestrator
	})

	return nil
}

// Startup starts the reporter and feeds it chain head and gas price
// updates from the execution context.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	sr := mono.Services()
	log := mono.Logger()

	reporter := batchDI.GetReporter(sr)
	if err := reporter.Start(ctx); err != nil {
		return err
	}

	watcher := executionDI.GetHeadWatcher(sr)
	heads, err := watcher.Watch(ctx)
	if err != nil {
		// The batch still runs without a head feed; receipts are
		// polled independently.
		log.Warn(ctx, "head watcher unavailable, block display disabled", "error", err)
	} else {
		go m.feedReporter(ctx, heads, sr)
	}

	log.Info(ctx, "batch module started")
	return nil
}

// feedReporter pushes head, connection and gas price updates to the
// reporter until the context ends.
func (m *Module) feedReporter(ctx context.Context, heads <-chan *executionDomain.Head, sr di.ServiceRegistry) {
	watcher := executionDI.GetHeadWatcher(sr)
	gas := executionDI.GetGasPolicy(sr)

	for {
		select {
		case <-ctx.Done():
			return
		case head, ok := <-heads:
			if !ok {
				return
			}
			if head == nil {
				continue
			}
			reporter := batchDI.GetReporter(sr)
			reporter.UpdateBlock(head)
			reporter.UpdateConnection(watcher.Status())

			if price, err := gas.SuggestGasPrice(ctx); err == nil {
				reporter.UpdateGasPrice(weiToGwei(price))
			}
		}
	}
}

func weiToGwei(wei *big.Int) float64 {
	gwei, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		big.NewFloat(1_000_000_000),
	).Float64()
	return gwei
}
