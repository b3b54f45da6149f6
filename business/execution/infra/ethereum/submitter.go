package ethereum

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/execution/app"
	"github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
)

// Ensure Submitter implements TxSubmitter.
var _ app.TxSubmitter = (*Submitter)(nil)

type submitterMetrics struct {
	submitted   metric.Int64Counter
	confirmed   metric.Int64Counter
	confirmTime metric.Float64Histogram
}

// Submitter broadcasts signed transactions and polls for receipts.
type Submitter struct {
	client       *ethclient.Client
	pollInterval time.Duration

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *submitterMetrics
}

// NewSubmitter creates a transaction submitter.
func NewSubmitter(client *ethclient.Client, execCfg config.ExecutionConfig, log logger.LoggerInterface) (*Submitter, error) {
	s := &Submitter{
		client:       client,
		pollInterval: execCfg.ReceiptPollInterval,
		logger:       log,
		tracer:       otel.Tracer(tracerName),
	}

	if err := s.initMetrics(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Submitter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &submitterMetrics{}

	s.metrics.submitted, err = meter.Int64Counter(
		"execution_tx_submitted_total",
		metric.WithDescription("Transactions broadcast to the network"),
	)
	if err != nil {
		return err
	}

	s.metrics.confirmed, err = meter.Int64Counter(
		"execution_tx_confirmed_total",
		metric.WithDescription("Transactions mined within the confirmation window"),
	)
	if err != nil {
		return err
	}

	s.metrics.confirmTime, err = meter.Float64Histogram(
		"execution_tx_confirm_seconds",
		metric.WithDescription("Time from submission to mined receipt"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Submit broadcasts a signed transaction. Nonce collisions and
// replacement rejections map to NonceConflict so the sender can retry
// with a fresh nonce.
func (s *Submitter) Submit(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	ctx, span := s.tracer.Start(ctx, "execution.submit",
		trace.WithAttributes(attribute.String("tx", tx.Hash().Hex())),
	)
	defer span.End()

	if err := s.client.SendTransaction(ctx, tx); err != nil {
		if isNonceConflict(err) {
			span.SetStatus(codes.Error, "nonce conflict")
			return common.Hash{}, apperror.New(apperror.CodeNonceConflict,
				apperror.WithCause(err),
				apperror.WithContext("node rejected nonce"))
		}
		span.SetStatus(codes.Error, "broadcast failed")
		return common.Hash{}, apperror.New(apperror.CodeRpcUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("broadcast failed"))
	}

	s.metrics.submitted.Add(ctx, 1)
	span.SetStatus(codes.Ok, "broadcast")
	return tx.Hash(), nil
}

// AwaitConfirmation polls for the receipt until it lands or the window
// closes. A transaction still pending at the deadline is a Timeout; it
// may confirm later.
func (s *Submitter) AwaitConfirmation(ctx context.Context, hash common.Hash, timeout time.Duration) (*domain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "execution.await_confirmation",
		trace.WithAttributes(attribute.String("tx", hash.Hex())),
	)
	defer span.End()

	start := time.Now()
	deadline := start.Add(timeout)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.client.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			s.metrics.confirmed.Add(ctx, 1)
			s.metrics.confirmTime.Record(ctx, time.Since(start).Seconds())
			span.SetAttributes(
				attribute.Int64("block", receipt.BlockNumber.Int64()),
				attribute.Bool("reverted", receipt.Status == types.ReceiptStatusFailed),
			)
			span.SetStatus(codes.Ok, "mined")
			return toDomainReceipt(receipt), nil
		}

		if time.Now().After(deadline) {
			span.SetStatus(codes.Error, "confirmation window closed")
			return nil, apperror.New(apperror.CodeTimeout,
				apperror.WithContext("transaction not mined within "+timeout.String()))
		}

		select {
		case <-ctx.Done():
			span.SetStatus(codes.Error, "cancelled")
			return nil, apperror.New(apperror.CodeTimeout,
				apperror.WithCause(ctx.Err()),
				apperror.WithContext("confirmation wait cancelled"))
		case <-ticker.C:
		}
	}
}

func toDomainReceipt(r *types.Receipt) *domain.Receipt {
	return &domain.Receipt{
		TxHash:            r.TxHash,
		BlockNumber:       r.BlockNumber.Uint64(),
		GasUsed:           r.GasUsed,
		Status:            r.Status,
		EffectiveGasPrice: r.EffectiveGasPrice,
		MinedAt:           time.Now(),
	}
}

func isNonceConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nonce too low") ||
		strings.Contains(msg, "replacement transaction underpriced") ||
		strings.Contains(msg, "already known")
}
