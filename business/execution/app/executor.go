package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/execution/domain"
	pricingDomain "github.com/fbellman/swapdesk/business/pricing/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
	"github.com/fbellman/swapdesk/internal/logger"
)

const (
	tracerName = "execution"
	meterName  = "execution"
)

type executorMetrics struct {
	tradesTotal  metric.Int64Counter
	tradesFailed metric.Int64Counter
	tradeLatency metric.Float64Histogram
	gasUsed      metric.Int64Histogram
}

// TradeExecutor runs one swap end to end: quote, validate, approve,
// then simulate (dry run) or submit and confirm. Execute never returns
// an error; failures terminate the result instead.
type TradeExecutor struct {
	quoter    Quoter
	approvals *ApprovalCoordinator
	encoder   SwapEncoder
	reader    ChainReader
	sender    *TxSender

	router          common.Address
	defaultDeadline int64

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *executorMetrics
}

// NewTradeExecutor creates the executor.
func NewTradeExecutor(
	quoter Quoter,
	approvals *ApprovalCoordinator,
	encoder SwapEncoder,
	reader ChainReader,
	sender *TxSender,
	router common.Address,
	defaultDeadlineSeconds int64,
	log logger.LoggerInterface,
) (*TradeExecutor, error) {
	e := &TradeExecutor{
		quoter:          quoter,
		approvals:       approvals,
		encoder:         encoder,
		reader:          reader,
		sender:          sender,
		router:          router,
		defaultDeadline: defaultDeadlineSeconds,
		logger:          log,
		tracer:          otel.Tracer(tracerName),
	}

	if err := e.initMetrics(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *TradeExecutor) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &executorMetrics{}

	e.metrics.tradesTotal, err = meter.Int64Counter(
		"execution_trades_total",
		metric.WithDescription("Total trades executed"),
	)
	if err != nil {
		return err
	}

	e.metrics.tradesFailed, err = meter.Int64Counter(
		"execution_trades_failed_total",
		metric.WithDescription("Trades that terminated in a failure state"),
	)
	if err != nil {
		return err
	}

	e.metrics.tradeLatency, err = meter.Float64Histogram(
		"execution_trade_latency_ms",
		metric.WithDescription("End-to-end trade latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	e.metrics.gasUsed, err = meter.Int64Histogram(
		"execution_trade_gas_used",
		metric.WithDescription("Gas consumed per confirmed trade"),
	)
	if err != nil {
		return err
	}

	return nil
}

// run tracks the state machine for one trade.
type run struct {
	result     *domain.TradeResult
	phaseStart time.Time
}

func newRun(req domain.TradeRequest) *run {
	now := time.Now()
	return &run{
		result: &domain.TradeResult{
			Wallet:    req.Wallet,
			State:     domain.StateQuoting,
			StartedAt: now,
			Timings:   make(map[domain.TradeState]time.Duration),
		},
		phaseStart: now,
	}
}

func (r *run) enter(state domain.TradeState) {
	now := time.Now()
	r.result.Timings[r.result.State] = now.Sub(r.phaseStart)
	r.result.State = state
	r.phaseStart = now
}

func (r *run) fail(err error, fallback apperror.Code) *domain.TradeResult {
	code := apperror.GetCode(err)
	if code == apperror.CodeUnknownError {
		code = fallback
	}
	r.enter(domain.StateFailed)
	r.result.Success = false
	r.result.ErrorCode = code
	r.result.ErrorMessage = err.Error()
	r.result.FinishedAt = time.Now()
	return r.result
}

func (r *run) confirm() *domain.TradeResult {
	r.enter(domain.StateConfirmed)
	r.result.Success = true
	r.result.FinishedAt = time.Now()
	return r.result
}

// Execute runs a single trade through the state machine. The returned
// result is always terminal (confirmed or failed).
func (e *TradeExecutor) Execute(ctx context.Context, req domain.TradeRequest) *domain.TradeResult {
	ctx, span := e.tracer.Start(ctx, "execution.trade",
		trace.WithAttributes(
			attribute.String("wallet", req.Wallet.Hex()),
			attribute.String("token_in", req.TokenIn.Hex()),
			attribute.String("token_out", req.TokenOut.Hex()),
			attribute.Bool("dry_run", req.DryRun),
		),
	)
	defer span.End()

	e.metrics.tradesTotal.Add(ctx, 1)
	r := newRun(req)

	result := e.execute(ctx, r, req)

	e.metrics.tradeLatency.Record(ctx, float64(result.Duration().Milliseconds()))
	if result.Failed() {
		e.metrics.tradesFailed.Add(ctx, 1,
			metric.WithAttributes(attribute.String("code", string(result.ErrorCode))))
		span.SetStatus(codes.Error, string(result.ErrorCode))
		e.logger.Warn(ctx, "trade failed",
			"wallet", req.Wallet.Hex(),
			"state", string(result.State),
			"code", string(result.ErrorCode),
			"error", result.ErrorMessage,
		)
	} else {
		if result.GasUsed > 0 {
			e.metrics.gasUsed.Record(ctx, int64(result.GasUsed))
		}
		span.SetAttributes(attribute.String("tx", result.TxHash.Hex()))
		span.SetStatus(codes.Ok, "trade confirmed")
		e.logger.Info(ctx, "trade confirmed",
			"wallet", req.Wallet.Hex(),
			"tx", result.TxHash.Hex(),
			"dry_run", req.DryRun,
			"duration_ms", result.Duration().Milliseconds(),
		)
	}

	return result
}

func (e *TradeExecutor) execute(ctx context.Context, r *run, req domain.TradeRequest) *domain.TradeResult {
	// Quoting
	quote, err := e.quoter.GetQuote(ctx, pricingDomain.QuoteRequest{
		TokenIn:             req.TokenIn,
		TokenOut:            req.TokenOut,
		AmountIn:            req.AmountIn,
		SlippageBpsOverride: req.SlippageBpsOverride,
	})
	if err != nil {
		return r.fail(err, apperror.CodeNoRoute)
	}

	r.result.Quote = &domain.QuoteSummary{
		Pair:                 quote.Pair(),
		Path:                 quote.Path,
		ImpactBps:            quote.ImpactBps,
		EffectiveSlippageBps: quote.EffectiveSlippageBps,
		ExecutionPrice:       quote.ExecutionPrice,
	}
	// The request is the source of truth for the input size.
	r.result.AmountIn = asset.NewAmount(quote.TokenIn, req.AmountIn)
	r.result.AmountOut = quote.AmountOut
	r.result.MinimumReceived = quote.MinimumReceived

	// Validating. A request ceiling can only tighten the hard limit.
	r.enter(domain.StateValidating)
	ceiling := int64(pricingDomain.HardImpactCeilingBps)
	if req.MaxImpactBps > 0 && req.MaxImpactBps < ceiling {
		ceiling = req.MaxImpactBps
	}
	if quote.ImpactBps >= ceiling {
		return r.fail(apperror.New(apperror.CodePriceImpactTooHigh,
			apperror.WithContext("impact at or above ceiling")), apperror.CodePriceImpactTooHigh)
	}

	variant := domain.SelectSwapVariant(req.TokenIn, req.TokenOut)
	value := big.NewInt(0)
	if variant == domain.SwapNativeForTokens {
		value = new(big.Int).Set(req.AmountIn)
	}

	// Approving. Native input and dry runs skip it.
	if variant != domain.SwapNativeForTokens && !req.DryRun {
		r.enter(domain.StateApproving)
		if _, err := e.approvals.EnsureApproved(ctx, req.Wallet, req.TokenIn, req.AmountIn); err != nil {
			return r.fail(err, apperror.CodeApprovalFailed)
		}
	}

	deadlineSeconds := req.DeadlineSeconds
	if deadlineSeconds <= 0 {
		deadlineSeconds = e.defaultDeadline
	}
	deadline := big.NewInt(time.Now().Unix() + deadlineSeconds)

	data, err := e.encoder.EncodeSwap(variant, req.AmountIn, quote.MinimumReceived.Raw(), quote.Path, req.Wallet, deadline)
	if err != nil {
		return r.fail(err, apperror.CodeContractCallFailed)
	}

	if req.DryRun {
		r.enter(domain.StateSimulating)
		if _, err := e.reader.Call(ctx, ethereum.CallMsg{
			From:  req.Wallet,
			To:    &e.router,
			Value: value,
			Data:  data,
		}); err != nil {
			return r.fail(err, apperror.CodeReverted)
		}
		return r.confirm()
	}

	// Submitting
	r.enter(domain.StateSubmitting)
	receipt, err := e.sender.Send(ctx, req.Wallet, e.router, value, data, domain.FallbackGasLimit(variant))
	if err != nil {
		return r.fail(err, apperror.CodeRpcUnavailable)
	}

	r.result.TxHash = receipt.TxHash
	r.result.GasUsed = receipt.GasUsed
	r.result.GasPrice = receipt.EffectiveGasPrice

	if receipt.Reverted() {
		return r.fail(apperror.New(apperror.CodeReverted,
			apperror.WithContext("swap transaction reverted on chain")), apperror.CodeReverted)
	}

	return r.confirm()
}
