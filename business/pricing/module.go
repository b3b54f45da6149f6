// Package pricing implements the quoting bounded context: token
// resolution, route selection, output amounts, price impact and
// adaptive slippage.
package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	executionDI "github.com/fbellman/swapdesk/business/execution/di"
	"github.com/fbellman/swapdesk/business/pricing/app"
	pricingDI "github.com/fbellman/swapdesk/business/pricing/di"
	"github.com/fbellman/swapdesk/business/pricing/domain"
	"github.com/fbellman/swapdesk/business/pricing/infra/amm"
	"github.com/fbellman/swapdesk/business/pricing/infra/erc20"
	"github.com/fbellman/swapdesk/internal/asset"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/di"
	"github.com/fbellman/swapdesk/internal/logger"
	"github.com/fbellman/swapdesk/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Router read client - private dependency
	di.RegisterToken(c, pricingDI.RouterClient, func(sr di.ServiceRegistry) app.RouterClient {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		router, err := amm.NewRouter(ethClient, cfg.Router, cfg.Ethereum, log)
		if err != nil {
			panic("failed to create amm router: " + err.Error())
		}
		return router
	})

	// ERC20 metadata reader - private dependency
	di.RegisterToken(c, pricingDI.MetadataReader, func(sr di.ServiceRegistry) app.TokenMetadataReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		ethClient := sr.Get("ethClient").(*ethclient.Client)

		reader, err := erc20.NewReader(ethClient, cfg.Ethereum, log)
		if err != nil {
			panic("failed to create erc20 reader: " + err.Error())
		}
		return reader
	})

	// Reference sample cache - private dependency
	di.RegisterToken(c, pricingDI.QuoteCache, func(sr di.ServiceRegistry) *app.QuoteCache {
		cfg := sr.Get("config").(*config.Config)
		return app.NewQuoteCache(cfg.Pricing.QuoteTTL)
	})

	// Gas price source - execution context owns the gas oracle
	di.RegisterToken(c, pricingDI.GasPriceSource, func(sr di.ServiceRegistry) app.GasPriceSource {
		return executionDI.GetGasPolicy(sr)
	})

	// Token resolver (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.TokenResolver, func(sr di.ServiceRegistry) *app.TokenResolver {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		resolver, err := app.NewTokenResolver(cfg.Ethereum.ChainID, registry, pricingDI.GetMetadataReader(sr), log)
		if err != nil {
			panic("failed to create token resolver: " + err.Error())
		}
		return resolver
	})

	// Pricing service (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		policy := domain.SlippagePolicy{
			MinBps: cfg.Pricing.MinSlippageBps,
			MaxBps: cfg.Pricing.MaxSlippageBps,
		}

		svc, err := app.NewPricingService(
			pricingDI.GetRouterClient(sr),
			pricingDI.GetTokenResolver(sr),
			pricingDI.GetQuoteCache(sr),
			pricingDI.GetGasPriceSource(sr),
			policy,
			cfg.Router.WrappedNativeHex(),
			log,
		)
		if err != nil {
			panic("failed to create pricing service: " + err.Error())
		}
		return svc
	})

	return nil
}

// Startup seeds the asset registry for the configured chain so the
// resolver and slippage policy have the native coin and routing hub
// available before the first quote.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()
	registry := mono.AssetRegistry()

	chainID := cfg.Ethereum.ChainID
	if _, ok := registry.GetNative(chainID); !ok {
		registry.Register(asset.NewClassifiedAsset(
			asset.NewNativeAssetID(chainID),
			"NATIVE", "Native Coin", 18, asset.ClassMajor,
		))
	}

	wrapped := cfg.Router.WrappedNativeHex()
	registry.RegisterIfAbsent(asset.NewClassifiedAsset(
		asset.NewTokenAssetID(chainID, wrapped),
		"WNATIVE", "Wrapped Native", 18, asset.ClassMajor,
	))

	log.Info(ctx, "pricing module started",
		"chain_id", chainID,
		"router", cfg.Router.RouterAddress,
		"quote_ttl", cfg.Pricing.QuoteTTL.String(),
	)
	return nil
}
