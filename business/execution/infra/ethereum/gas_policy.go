package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/execution/app"
	"github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/cache"
	"github.com/fbellman/swapdesk/internal/circuitbreaker"
	"github.com/fbellman/swapdesk/internal/logger"
)

// priceCacheTTL is roughly one block time.
const priceCacheTTL = 12 * time.Second

// FallbackSource supplies a gas price when the node cannot. Implemented
// by the gas station HTTP provider.
type FallbackSource interface {
	GasPriceWei(ctx context.Context) (*big.Int, error)
}

// Ensure OracleGasPolicy implements GasPolicy.
var _ app.GasPolicy = (*OracleGasPolicy)(nil)

type gasPolicyMetrics struct {
	fetches      metric.Int64Counter
	priceGwei    metric.Float64Gauge
	cacheHits    metric.Int64Counter
	fallbackUsed metric.Int64Counter
}

// OracleGasPolicy serves gas prices from the node with a short cache, a
// configured ceiling and an optional external fallback.
type OracleGasPolicy struct {
	client   *ethclient.Client
	fallback FallbackSource // may be nil
	maxPrice *big.Int

	prices *cache.Cache[string, *domain.GasPrice]
	cb     *circuitbreaker.CircuitBreaker[*big.Int]

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *gasPolicyMetrics
}

// NewOracleGasPolicy creates the gas policy. fallback may be nil when
// no gas station is configured.
func NewOracleGasPolicy(client *ethclient.Client, fallback FallbackSource, maxPriceWei *big.Int, log logger.LoggerInterface) (*OracleGasPolicy, error) {
	p := &OracleGasPolicy{
		client:   client,
		fallback: fallback,
		maxPrice: maxPriceWei,
		prices:   cache.New[string, *domain.GasPrice](5 * time.Minute),
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	p.cb = circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("gas-policy"))

	if err := p.initMetrics(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *OracleGasPolicy) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	p.metrics = &gasPolicyMetrics{}

	p.metrics.fetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Gas price fetch attempts against the node"),
	)
	if err != nil {
		return err
	}

	p.metrics.priceGwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Last served gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	p.metrics.cacheHits, err = meter.Int64Counter(
		"gas_price_cache_hits_total",
		metric.WithDescription("Gas prices served from cache"),
	)
	if err != nil {
		return err
	}

	p.metrics.fallbackUsed, err = meter.Int64Counter(
		"gas_price_fallback_total",
		metric.WithDescription("Gas prices served by the external fallback"),
	)
	if err != nil {
		return err
	}

	return nil
}

// SuggestGasPrice returns the current gas price in wei, clamped to the
// ceiling. The node is asked first; on failure the external fallback
// answers if configured.
func (p *OracleGasPolicy) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	ctx, span := p.tracer.Start(ctx, "gas.suggest_price")
	defer span.End()

	if price, ok := p.prices.Get(ctx, "current"); ok {
		p.metrics.cacheHits.Add(ctx, 1)
		span.SetStatus(codes.Ok, "served from cache")
		return new(big.Int).Set(price.Wei), nil
	}

	p.metrics.fetches.Add(ctx, 1)

	wei, err := p.cb.Execute(func() (*big.Int, error) {
		return p.client.SuggestGasPrice(ctx)
	})
	if err != nil {
		if p.fallback == nil {
			span.SetStatus(codes.Error, "node fetch failed")
			return nil, apperror.New(apperror.CodeGasPriceUnavailable,
				apperror.WithCause(err),
				apperror.WithContext("node gas price unavailable"))
		}

		p.logger.Warn(ctx, "node gas price failed, using gas station", "error", err)
		p.metrics.fallbackUsed.Add(ctx, 1)

		wei, err = p.fallback.GasPriceWei(ctx)
		if err != nil {
			span.SetStatus(codes.Error, "fallback failed")
			return nil, apperror.New(apperror.CodeGasPriceUnavailable,
				apperror.WithCause(err),
				apperror.WithContext("node and gas station both unavailable"))
		}
	}

	if p.maxPrice != nil && p.maxPrice.Sign() > 0 && wei.Cmp(p.maxPrice) > 0 {
		p.logger.Warn(ctx, "gas price exceeds ceiling",
			"wei", wei.String(),
			"ceiling", p.maxPrice.String(),
		)
		wei = new(big.Int).Set(p.maxPrice)
	}

	price := domain.NewGasPrice(wei)
	p.prices.Set(ctx, "current", price, priceCacheTTL)
	p.metrics.priceGwei.Record(ctx, price.Gwei)

	span.SetAttributes(attribute.Float64("gwei", price.Gwei))
	span.SetStatus(codes.Ok, "fetched")

	return new(big.Int).Set(wei), nil
}

// MaxGasPrice returns the configured submission ceiling in wei.
func (p *OracleGasPolicy) MaxGasPrice() *big.Int {
	if p.maxPrice == nil {
		return nil
	}
	return new(big.Int).Set(p.maxPrice)
}

// Close releases the price cache.
func (p *OracleGasPolicy) Close() error {
	p.prices.Close()
	return nil
}
