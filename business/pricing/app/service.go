// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/pricing/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
	"github.com/fbellman/swapdesk/internal/logger"
)

const (
	tracerName = "pricing"
	meterName  = "pricing"
)

// probeDivisor sets the reference probe size: amountIn / 1000, floored
// at one wei.
const probeDivisor = 1000

type serviceMetrics struct {
	quotesTotal metric.Int64Counter
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	impactBps   metric.Int64Histogram
}

// PricingService is the quoting engine: route, output amount, price
// impact and adaptive slippage for a prospective swap.
type PricingService struct {
	router        RouterClient
	resolver      *TokenResolver
	references    *QuoteCache
	gas           GasPriceSource
	policy        domain.SlippagePolicy
	wrappedNative common.Address

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *serviceMetrics
}

// NewPricingService creates the quoting engine.
func NewPricingService(
	router RouterClient,
	resolver *TokenResolver,
	references *QuoteCache,
	gas GasPriceSource,
	policy domain.SlippagePolicy,
	wrappedNative common.Address,
	log logger.LoggerInterface,
) (*PricingService, error) {
	s := &PricingService{
		router:        router,
		resolver:      resolver,
		references:    references,
		gas:           gas,
		policy:        policy,
		wrappedNative: wrappedNative,
		logger:        log,
		tracer:        otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *PricingService) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &serviceMetrics{}

	s.metrics.quotesTotal, err = meter.Int64Counter(
		"pricing_quotes_total",
		metric.WithDescription("Total quote requests served"),
	)
	if err != nil {
		return err
	}

	s.metrics.cacheHits, err = meter.Int64Counter(
		"pricing_reference_cache_hits_total",
		metric.WithDescription("Reference samples answered from cache"),
	)
	if err != nil {
		return err
	}

	s.metrics.cacheMisses, err = meter.Int64Counter(
		"pricing_reference_cache_misses_total",
		metric.WithDescription("Reference samples that required a router read"),
	)
	if err != nil {
		return err
	}

	s.metrics.impactBps, err = meter.Int64Histogram(
		"pricing_quote_impact_bps",
		metric.WithDescription("Price impact of served quotes in basis points"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Resolver exposes the token resolver to sibling contexts.
func (s *PricingService) Resolver() *TokenResolver {
	return s.resolver
}

// GetQuote prices a swap. Every call reads the router at the requested
// trade size; only the small reference sample is served from cache.
// The returned quote is owned by the caller.
func (s *PricingService) GetQuote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "pricing.get_quote",
		trace.WithAttributes(
			attribute.String("token_in", req.TokenIn.Hex()),
			attribute.String("token_out", req.TokenOut.Hex()),
		),
	)
	defer span.End()

	s.metrics.quotesTotal.Add(ctx, 1)

	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		span.SetStatus(codes.Error, "non-positive amount")
		return nil, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext("amount in must be positive"))
	}
	if req.TokenIn == req.TokenOut {
		span.SetStatus(codes.Error, "same token")
		return nil, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext("token in and token out are the same"))
	}

	assetIn, err := s.resolver.Resolve(ctx, req.TokenIn)
	if err != nil {
		span.SetStatus(codes.Error, "token in unresolvable")
		return nil, err
	}
	assetOut, err := s.resolver.Resolve(ctx, req.TokenOut)
	if err != nil {
		span.SetStatus(codes.Error, "token out unresolvable")
		return nil, err
	}

	path := domain.BuildPath(req.TokenIn, req.TokenOut, s.wrappedNative)
	if path == nil {
		span.SetStatus(codes.Error, "no route")
		return nil, apperror.New(apperror.CodeNoRoute,
			apperror.WithContext("no AMM route between "+assetIn.Symbol()+" and "+assetOut.Symbol()))
	}

	// The trade-size read runs on every quote. Only the reference
	// sample is cacheable; a stale output here prices real money.
	amounts, err := s.router.GetAmountsOut(ctx, req.AmountIn, path)
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeNoRoute {
			// The pool rejected this size. If it also rejects the
			// reference size the pair cannot fill anything.
			if _, probeErr := s.probeFor(ctx, req, path); probeErr != nil {
				span.SetStatus(codes.Error, "liquidity too thin")
				return nil, apperror.New(apperror.CodeLiquidityTooThin,
					apperror.WithCause(err),
					apperror.WithContext("router reverted at trade and reference size for "+assetIn.Symbol()+"->"+assetOut.Symbol()))
			}
		}
		span.SetStatus(codes.Error, "router read failed")
		return nil, err
	}
	if len(amounts) == 0 {
		span.SetStatus(codes.Error, "empty router response")
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext("router returned no amounts"))
	}
	out := amounts[len(amounts)-1]
	if out == nil || out.Sign() == 0 {
		span.SetStatus(codes.Error, "zero output")
		return nil, apperror.New(apperror.CodeZeroOutput,
			apperror.WithContext("router returned zero output for "+assetIn.Symbol()+"->"+assetOut.Symbol()))
	}

	probe, err := s.probeFor(ctx, req, path)
	if err != nil {
		span.SetStatus(codes.Error, "probe failed")
		return nil, err
	}

	expected := domain.ExpectedOut(probe.In, probe.Out, req.AmountIn)
	impact := domain.CalculatePriceImpact(expected, out)
	band := domain.ClassifyImpact(impact)
	recommended := s.policy.Recommend(band, assetIn, assetOut, impact)
	effective := s.effectiveSlippage(recommended, req.SlippageBpsOverride)

	amtIn := asset.NewAmount(assetIn, req.AmountIn)
	amtOut := asset.NewAmount(assetOut, out)
	execPrice, err := asset.PriceFromAmounts(amtIn, amtOut)
	if err != nil {
		execPrice = asset.Price{}
	}
	gasEstimate := domain.EstimateSwapGas(len(path))

	q := &domain.Quote{
		TokenIn:                assetIn,
		TokenOut:               assetOut,
		AmountIn:               amtIn,
		AmountOut:              amtOut,
		Path:                   path,
		ExecutionPrice:         execPrice,
		ImpactBps:              impact,
		Band:                   band,
		RecommendedSlippageBps: recommended,
		EffectiveSlippageBps:   effective,
		MinimumReceived:        domain.MinimumReceived(amtOut, effective),
		GasEstimate:            gasEstimate,
		GasCost:                s.gasCost(ctx, gasEstimate),
		Timestamp:              time.Now(),
	}

	s.metrics.impactBps.Record(ctx, impact)

	span.SetAttributes(
		attribute.String("amount_out", out.String()),
		attribute.Int64("impact_bps", impact),
		attribute.String("band", string(band)),
		attribute.Int64("slippage_bps", effective),
	)
	span.SetStatus(codes.Ok, "quote computed")

	s.logger.Debug(ctx, "quote",
		"pair", q.Pair(),
		"amount_in", req.AmountIn.String(),
		"amount_out", out.String(),
		"impact_bps", impact,
		"band", string(band),
		"slippage_bps", effective,
	)

	return q, nil
}

// effectiveSlippage applies a request override when present. Overrides
// bypass adaptation but never the clamp bounds.
func (s *PricingService) effectiveSlippage(recommended, override int64) int64 {
	if override > 0 {
		return s.policy.Clamp(override)
	}
	return recommended
}

// probeFor returns the reference sample for a pair, reading the router
// at amountIn/probeDivisor (minimum one wei) on cache miss.
func (s *PricingService) probeFor(ctx context.Context, req domain.QuoteRequest, path []common.Address) (*ReferenceSample, error) {
	if sample, ok := s.references.GetReference(ctx, req.TokenIn, req.TokenOut, req.AmountIn); ok {
		s.metrics.cacheHits.Add(ctx, 1)
		return sample, nil
	}
	s.metrics.cacheMisses.Add(ctx, 1)

	probeIn := new(big.Int).Div(req.AmountIn, big.NewInt(probeDivisor))
	if probeIn.Sign() == 0 {
		probeIn = big.NewInt(1)
	}

	amounts, err := s.router.GetAmountsOut(ctx, probeIn, path)
	if err != nil {
		return nil, err
	}
	if len(amounts) == 0 {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext("router returned no amounts for probe"))
	}
	probeOut := amounts[len(amounts)-1]
	if probeOut == nil || probeOut.Sign() == 0 {
		return nil, apperror.New(apperror.CodeLiquidityTooThin,
			apperror.WithContext("reference probe returned zero output"))
	}

	sample := &ReferenceSample{In: probeIn, Out: probeOut}
	s.references.SetReference(ctx, req.TokenIn, req.TokenOut, req.AmountIn, sample)
	return sample, nil
}

// gasCost turns a gas estimate into a native-unit cost. A missing gas
// price degrades to zero cost rather than failing the quote.
func (s *PricingService) gasCost(ctx context.Context, gasEstimate uint64) asset.Amount {
	native := s.resolver.Native()

	gasPrice, err := s.gas.SuggestGasPrice(ctx)
	if err != nil || gasPrice == nil {
		s.logger.Warn(ctx, "gas price unavailable for quote", "error", err)
		return asset.Zero(native)
	}

	cost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasEstimate))
	return asset.NewAmount(native, cost)
}
