// Package amm implements the pricing ports against a V2-style AMM router.
package amm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/pricing/app"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/circuitbreaker"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
	"github.com/fbellman/swapdesk/internal/ratelimit"
)

const (
	tracerName = "amm"
	meterName  = "amm"
)

// Ensure Router implements RouterClient.
var _ app.RouterClient = (*Router)(nil)

type routerMetrics struct {
	callsTotal  metric.Int64Counter
	callLatency metric.Float64Histogram
	callErrors  metric.Int64Counter
}

// Router reads swap amounts from the on-chain router contract.
type Router struct {
	client    *ethclient.Client
	router    common.Address
	routerABI abi.ABI

	callTimeout  time.Duration
	readRetries  int
	retryBackoff time.Duration

	logger  logger.LoggerInterface
	cb      *circuitbreaker.CircuitBreaker[[]byte]
	limiter *ratelimit.Limiter

	tracer  trace.Tracer
	metrics *routerMetrics
}

// NewRouter creates a router read client.
func NewRouter(client *ethclient.Client, routerCfg config.RouterConfig, ethCfg config.EthereumConfig, log logger.LoggerInterface) (*Router, error) {
	parsedABI, err := abi.JSON(strings.NewReader(RouterReadABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router ABI: %w", err)
	}

	r := &Router{
		client:       client,
		router:       routerCfg.RouterAddressHex(),
		routerABI:    parsedABI,
		callTimeout:  ethCfg.CallTimeout,
		readRetries:  ethCfg.ReadRetries,
		retryBackoff: ethCfg.ReadRetryBackoff,
		logger:       log,
		limiter:      ratelimit.New(ethCfg.RequestsPerMinute),
		tracer:       otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("amm-router")
	r.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return r, nil
}

func (r *Router) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &routerMetrics{}

	r.metrics.callsTotal, err = meter.Int64Counter(
		"amm_router_calls_total",
		metric.WithDescription("Total router read calls"),
	)
	if err != nil {
		return err
	}

	r.metrics.callLatency, err = meter.Float64Histogram(
		"amm_router_call_latency_ms",
		metric.WithDescription("Router read latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	r.metrics.callErrors, err = meter.Int64Counter(
		"amm_router_call_errors_total",
		metric.WithDescription("Total router read errors"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetAmountsOut calls the router's getAmountsOut view. A missing pair
// reverts on chain and maps to NoRoute; transport failures map to
// RpcUnavailable and are retried a fixed number of times.
func (r *Router) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	ctx, span := r.tracer.Start(ctx, "amm.get_amounts_out",
		trace.WithAttributes(
			attribute.String("amount_in", amountIn.String()),
			attribute.Int("path_len", len(path)),
		),
	)
	defer span.End()

	start := time.Now()
	r.metrics.callsTotal.Add(ctx, 1)

	callData, err := r.routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		r.metrics.callErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "encode failed")
		return nil, fmt.Errorf("failed to encode getAmountsOut: %w", err)
	}

	raw, err := r.callWithRetry(ctx, callData)
	r.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		r.metrics.callErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	outputs, err := r.routerABI.Unpack("getAmountsOut", raw)
	if err != nil {
		r.metrics.callErrors.Add(ctx, 1)
		span.SetStatus(codes.Error, "decode failed")
		return nil, fmt.Errorf("failed to decode getAmountsOut: %w", err)
	}
	if len(outputs) != 1 {
		r.metrics.callErrors.Add(ctx, 1)
		return nil, fmt.Errorf("unexpected output length: %d", len(outputs))
	}

	amounts, ok := outputs[0].([]*big.Int)
	if !ok || len(amounts) != len(path) {
		r.metrics.callErrors.Add(ctx, 1)
		return nil, fmt.Errorf("malformed amounts response")
	}

	span.SetAttributes(attribute.String("amount_out", amounts[len(amounts)-1].String()))
	span.SetStatus(codes.Ok, "amounts received")

	return amounts, nil
}

// callWithRetry executes the read through the rate limiter and circuit
// breaker. Only transport failures are retried; reverts are final.
func (r *Router) callWithRetry(ctx context.Context, callData []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= r.readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperror.New(apperror.CodeRpcUnavailable,
					apperror.WithCause(ctx.Err()),
					apperror.WithContext("router read cancelled"))
			case <-time.After(r.retryBackoff * time.Duration(attempt)):
			}
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return nil, apperror.New(apperror.CodeRpcUnavailable,
				apperror.WithCause(err),
				apperror.WithContext("rate limiter interrupted"))
		}

		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		raw, err := r.cb.Execute(func() ([]byte, error) {
			return r.client.CallContract(callCtx, ethereum.CallMsg{
				To:   &r.router,
				Data: callData,
			}, nil)
		})
		cancel()

		if err == nil {
			return raw, nil
		}

		if isRevert(err) {
			return nil, apperror.New(apperror.CodeNoRoute,
				apperror.WithCause(err),
				apperror.WithContext("router rejected path"))
		}
		if apperror.GetCode(err) == apperror.CodeCircuitOpen {
			return nil, apperror.New(apperror.CodeRpcUnavailable,
				apperror.WithCause(err),
				apperror.WithContext("router reads suspended"))
		}

		lastErr = err
		r.logger.Warn(ctx, "router read failed",
			"attempt", attempt+1,
			"error", err,
		)
	}

	return nil, apperror.New(apperror.CodeRpcUnavailable,
		apperror.WithCause(lastErr),
		apperror.WithContext("router read failed after retries"))
}

func isRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "execution reverted")
}
