// Package execution implements the trade execution bounded context:
// approvals, transaction building and submission, confirmation and gas
// policy.
package execution

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fbellman/swapdesk/business/execution/app"
	executionDI "github.com/fbellman/swapdesk/business/execution/di"
	infra "github.com/fbellman/swapdesk/business/execution/infra/ethereum"
	"github.com/fbellman/swapdesk/business/execution/infra/gasapi"
	pricingDI "github.com/fbellman/swapdesk/business/pricing/di"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/di"
	"github.com/fbellman/swapdesk/internal/logger"
	"github.com/fbellman/swapdesk/internal/monolith"
)

// Module implements the execution bounded context.
type Module struct{}

// RegisterServices registers all execution services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Swap and approve calldata codec - private dependency
	di.RegisterToken(c, executionDI.SwapEncoder, func(sr di.ServiceRegistry) app.SwapEncoder {
		codec, err := infra.NewCodec()
		if err != nil {
			panic("failed to create swap codec: " + err.Error())
		}
		return codec
	})

	// Chain reader - private dependency
	di.RegisterToken(c, executionDI.ChainReader, func(sr di.ServiceRegistry) app.ChainReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		return infra.NewReader(ethClient, cfg.Ethereum, log)
	})

	// Transaction submitter - private dependency
	di.RegisterToken(c, executionDI.TxSubmitter, func(sr di.ServiceRegistry) app.TxSubmitter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		submitter, err := infra.NewSubmitter(ethClient, cfg.Execution, log)
		if err != nil {
			panic("failed to create tx submitter: " + err.Error())
		}
		return submitter
	})

	// Nonce coordinator - private dependency
	di.RegisterToken(c, executionDI.NonceCoord, func(sr di.ServiceRegistry) app.NonceCoordinator {
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		return infra.NewNonceManager(ethClient, log)
	})

	// Allowance reader - private dependency
	di.RegisterToken(c, executionDI.AllowanceReader, func(sr di.ServiceRegistry) app.AllowanceReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		client, err := infra.NewAllowanceClient(ethClient, cfg.Ethereum, log)
		if err != nil {
			panic("failed to create allowance client: " + err.Error())
		}
		return client
	})

	// Wallet signer (public - batch module lists wallets through it)
	di.RegisterToken(c, executionDI.Signer, func(sr di.ServiceRegistry) app.Signer {
		cfg := sr.Get("config").(*config.Config)

		signer, err := infra.NewKeyringSigner(cfg.Execution.WalletKeys, cfg.Ethereum.ChainID)
		if err != nil {
			panic("failed to create signer: " + err.Error())
		}
		return signer
	})

	// Gas policy (public - pricing uses it for quote gas costs)
	di.RegisterToken(c, executionDI.GasPolicy, func(sr di.ServiceRegistry) app.GasPolicy {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		fallback, err := gasapi.NewProvider(cfg.GasStation, log)
		if err != nil {
			panic("failed to create gas station provider: " + err.Error())
		}

		// A nil *Provider must stay a nil interface inside the policy.
		var source infra.FallbackSource
		if fallback != nil {
			source = fallback
		}

		policy, err := infra.NewOracleGasPolicy(ethClient, source, cfg.Execution.MaxGasPriceWei(), log)
		if err != nil {
			panic("failed to create gas policy: " + err.Error())
		}
		return policy
	})

	// Transaction sender - private dependency
	di.RegisterToken(c, executionDI.TxSender, func(sr di.ServiceRegistry) *app.TxSender {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewTxSender(
			executionDI.GetChainReader(sr),
			executionDI.GetTxSubmitter(sr),
			executionDI.GetNonceCoordinator(sr),
			executionDI.GetGasPolicy(sr),
			executionDI.GetSigner(sr),
			cfg.Ethereum.ChainID,
			cfg.Execution.ConfirmTimeout,
			log,
		)
	})

	// Approval coordinator - private dependency
	di.RegisterToken(c, executionDI.Approvals, func(sr di.ServiceRegistry) *app.ApprovalCoordinator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewApprovalCoordinator(
			executionDI.GetAllowanceReader(sr),
			executionDI.GetSwapEncoder(sr),
			executionDI.GetTxSender(sr),
			cfg.Router.RouterAddressHex(),
			log,
		)
	})

	// Head watcher (public - batch reporter streams block heights)
	di.RegisterToken(c, executionDI.HeadWatcher, func(sr di.ServiceRegistry) *infra.HeadWatcher {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		watcher, err := infra.NewHeadWatcher(infra.WatcherConfigFrom(cfg.Ethereum), log)
		if err != nil {
			panic("failed to create head watcher: " + err.Error())
		}
		return watcher
	})

	// Trade executor (public - exposed to other modules)
	di.RegisterToken(c, executionDI.TradeExecutor, func(sr di.ServiceRegistry) *app.TradeExecutor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		executor, err := app.NewTradeExecutor(
			pricingDI.GetPricingService(sr),
			executionDI.GetApprovals(sr),
			executionDI.GetSwapEncoder(sr),
			executionDI.GetChainReader(sr),
			executionDI.GetTxSender(sr),
			cfg.Router.RouterAddressHex(),
			cfg.Execution.DeadlineSeconds(),
			log,
		)
		if err != nil {
			panic("failed to create trade executor: " + err.Error())
		}
		return executor
	})

	return nil
}

// Startup verifies the signer has wallets and logs the execution
// parameters.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	signer := executionDI.GetSigner(mono.Services())

	log.Info(ctx, "execution module started",
		"wallets", len(signer.Addresses()),
		"router", cfg.Router.RouterAddress,
		"deadline", cfg.Execution.Deadline.String(),
		"confirm_timeout", cfg.Execution.ConfirmTimeout.String(),
		"max_gas_price_gwei", cfg.Execution.MaxGasPriceGwei,
	)
	return nil
}
