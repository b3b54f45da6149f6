package ethereum

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/execution/app"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/circuitbreaker"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
	"github.com/fbellman/swapdesk/internal/ratelimit"
)

const (
	tracerName = "execution.ethereum"
	meterName  = "execution.ethereum"
)

// Ensure Reader implements ChainReader.
var _ app.ChainReader = (*Reader)(nil)

// Reader performs read-only chain calls for simulation and gas
// estimation.
type Reader struct {
	client      *ethclient.Client
	callTimeout time.Duration

	logger  logger.LoggerInterface
	callCB  *circuitbreaker.CircuitBreaker[[]byte]
	gasCB   *circuitbreaker.CircuitBreaker[uint64]
	limiter *ratelimit.Limiter
	tracer  trace.Tracer
}

// NewReader creates a chain reader.
func NewReader(client *ethclient.Client, ethCfg config.EthereumConfig, log logger.LoggerInterface) *Reader {
	r := &Reader{
		client:      client,
		callTimeout: ethCfg.CallTimeout,
		logger:      log,
		limiter:     ratelimit.New(ethCfg.RequestsPerMinute),
		tracer:      otel.Tracer(tracerName),
	}

	r.callCB = circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("exec-call"))
	r.gasCB = circuitbreaker.New[uint64](circuitbreaker.DefaultConfig("exec-estimate"))

	return r
}

// Call executes a read-only contract call. Reverts map to Reverted so
// simulations surface the on-chain failure; transport failures map to
// RpcUnavailable.
func (r *Reader) Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	ctx, span := r.tracer.Start(ctx, "execution.call",
		trace.WithAttributes(attribute.String("to", msg.To.Hex())),
	)
	defer span.End()

	if err := r.limiter.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, "rate limiter interrupted")
		return nil, apperror.New(apperror.CodeRpcUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("rate limiter interrupted"))
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := r.callCB.Execute(func() ([]byte, error) {
		return r.client.CallContract(callCtx, msg, nil)
	})
	if err != nil {
		if isRevert(err) {
			span.SetStatus(codes.Error, "reverted")
			return nil, apperror.New(apperror.CodeReverted,
				apperror.WithCause(err),
				apperror.WithContext("call reverted"))
		}
		span.SetStatus(codes.Error, "call failed")
		return nil, apperror.New(apperror.CodeRpcUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("contract call failed"))
	}

	span.SetStatus(codes.Ok, "called")
	return raw, nil
}

// EstimateGas asks the node for a gas estimate.
func (r *Reader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ctx, span := r.tracer.Start(ctx, "execution.estimate_gas")
	defer span.End()

	if err := r.limiter.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, "rate limiter interrupted")
		return 0, apperror.New(apperror.CodeRpcUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("rate limiter interrupted"))
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	gas, err := r.gasCB.Execute(func() (uint64, error) {
		return r.client.EstimateGas(callCtx, msg)
	})
	if err != nil {
		if isRevert(err) {
			span.SetStatus(codes.Error, "reverted")
			return 0, apperror.New(apperror.CodeReverted,
				apperror.WithCause(err),
				apperror.WithContext("estimation reverted"))
		}
		span.SetStatus(codes.Error, "estimate failed")
		return 0, apperror.New(apperror.CodeGasEstimationFailed,
			apperror.WithCause(err),
			apperror.WithContext("gas estimation failed"))
	}

	span.SetAttributes(attribute.Int64("gas", int64(gas)))
	span.SetStatus(codes.Ok, "estimated")
	return gas, nil
}

func isRevert(err error) bool {
	return err != nil && strings.Contains(err.Error(), "execution reverted")
}
