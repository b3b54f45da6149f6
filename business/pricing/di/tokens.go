// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/fbellman/swapdesk/business/pricing/app"
	"github.com/fbellman/swapdesk/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
	TokenResolver  = di.NewToken[*app.TokenResolver]("pricing.TokenResolver")
)

// Private dependency tokens - internal to pricing module
var (
	RouterClient   = di.NewToken[app.RouterClient]("pricing:routerClient")
	MetadataReader = di.NewToken[app.TokenMetadataReader]("pricing:metadataReader")
	QuoteCache     = di.NewToken[*app.QuoteCache]("pricing:quoteCache")
	GasPriceSource = di.NewToken[app.GasPriceSource]("pricing:gasPriceSource")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetTokenResolver(c di.ServiceRegistry) *app.TokenResolver {
	return di.GetToken(c, TokenResolver)
}

func GetRouterClient(c di.ServiceRegistry) app.RouterClient {
	return di.GetToken(c, RouterClient)
}

func GetMetadataReader(c di.ServiceRegistry) app.TokenMetadataReader {
	return di.GetToken(c, MetadataReader)
}

func GetQuoteCache(c di.ServiceRegistry) *app.QuoteCache {
	return di.GetToken(c, QuoteCache)
}

func GetGasPriceSource(c di.ServiceRegistry) app.GasPriceSource {
	return di.GetToken(c, GasPriceSource)
}
