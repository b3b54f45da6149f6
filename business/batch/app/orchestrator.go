package app

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fbellman/swapdesk/business/batch/domain"
	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/internal/logger"
)

const (
	tracerName = "batch"
	meterName  = "batch"
)

type orchestratorMetrics struct {
	batchesTotal  metric.Int64Counter
	tradesTotal   metric.Int64Counter
	batchDuration metric.Float64Histogram
}

// Orchestrator schedules a batch of trades across wallets. Same-wallet
// requests are serialized; everything else follows the configured
// strategy.
type Orchestrator struct {
	runner   TradeRunner
	reporter Reporter
	logger   logger.LoggerInterface
	tracer   trace.Tracer
	metrics  orchestratorMetrics
}

// NewOrchestrator creates a batch orchestrator.
func NewOrchestrator(runner TradeRunner, reporter Reporter, log logger.LoggerInterface) (*Orchestrator, error) {
	o := &Orchestrator{
		runner:   runner,
		reporter: reporter,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
	if err := o.initMetrics(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Orchestrator) initMetrics() error {
	meter := otel.Meter(meterName)

	var err error
	o.metrics.batchesTotal, err = meter.Int64Counter("batch.runs.total",
		metric.WithDescription("Number of batch runs"))
	if err != nil {
		return err
	}
	o.metrics.tradesTotal, err = meter.Int64Counter("batch.trades.total",
		metric.WithDescription("Number of trades scheduled through batches"))
	if err != nil {
		return err
	}
	o.metrics.batchDuration, err = meter.Float64Histogram("batch.duration.seconds",
		metric.WithDescription("Wall time of batch runs"),
		metric.WithUnit("s"))
	if err != nil {
		return err
	}
	return nil
}

// ExecuteBatch runs every request to a terminal result and returns the
// summary. Results is index-aligned with requests; per-trade failures
// never abort the batch. The only error is an invalid config.
func (o *Orchestrator) ExecuteBatch(ctx context.Context, requests []executionDomain.TradeRequest, cfg domain.Config) (*domain.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	summary := domain.NewSummary(uuid.New(), cfg.Strategy, len(requests))

	ctx, span := o.tracer.Start(ctx, "batch.execute",
		trace.WithAttributes(
			attribute.String("batch.id", summary.BatchID.String()),
			attribute.String("batch.strategy", string(cfg.Strategy)),
			attribute.Int("batch.size", len(requests)),
			attribute.Bool("batch.dry_run", cfg.DryRun),
		))
	defer span.End()

	o.logger.Info(ctx, "batch started",
		"batch_id", summary.BatchID.String(),
		"strategy", string(cfg.Strategy),
		"trades", len(requests),
		"dry_run", cfg.DryRun,
	)
	o.reporter.BatchStarted(summary.BatchID, cfg.Strategy, len(requests))

	locks := walletLocks(requests)

	switch cfg.Strategy {
	case domain.StrategySequential:
		for i := range requests {
			o.runOne(ctx, summary, locks, i, requests[i], cfg)
		}
	case domain.StrategyParallel:
		o.runPooled(ctx, summary, locks, requests, cfg, 0)
	case domain.StrategyStaggered:
		o.runPooled(ctx, summary, locks, requests, cfg, cfg.InterOpDelay)
	}

	summary.Finalize()

	o.metrics.batchesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("strategy", string(cfg.Strategy))))
	o.metrics.batchDuration.Record(ctx, summary.Duration().Seconds())

	if summary.Failed > 0 {
		span.SetStatus(codes.Error, "batch finished with failures")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(
		attribute.Int("batch.successful", summary.Successful),
		attribute.Int("batch.failed", summary.Failed),
	)

	o.logger.Info(ctx, "batch finished",
		"batch_id", summary.BatchID.String(),
		"successful", summary.Successful,
		"failed", summary.Failed,
		"duration", summary.Duration().String(),
		"gas_used", summary.TotalGasUsed,
	)
	o.reporter.BatchFinished(summary)

	return summary, nil
}

// runPooled launches trades through a bounded pool, optionally spacing
// launches by the given delay.
func (o *Orchestrator) runPooled(ctx context.Context, summary *domain.Summary, locks map[common.Address]*sync.Mutex, requests []executionDomain.TradeRequest, cfg domain.Config, launchDelay time.Duration) {
	var g errgroup.Group
	g.SetLimit(cfg.MaxConcurrent)

	for i := range requests {
		if launchDelay > 0 && i > 0 {
			select {
			case <-time.After(launchDelay):
			case <-ctx.Done():
				// Stop pacing; remaining trades launch immediately and
				// fail fast under the cancelled context.
				launchDelay = 0
			}
		}

		i, req := i, requests[i]
		g.Go(func() error {
			o.runOne(ctx, summary, locks, i, req, cfg)
			return nil
		})
	}

	_ = g.Wait() // workers never return errors
}

// runOne executes the request at index i while holding its wallet
// lock, so same-wallet trades never overlap in flight.
func (o *Orchestrator) runOne(ctx context.Context, summary *domain.Summary, locks map[common.Address]*sync.Mutex, i int, req executionDomain.TradeRequest, cfg domain.Config) {
	if cfg.DryRun {
		req.DryRun = true
	}

	mu := locks[req.Wallet]
	mu.Lock()
	defer mu.Unlock()

	o.reporter.TradeStarted(i, req)
	o.logger.Debug(ctx, "trade started",
		"batch_id", summary.BatchID.String(),
		"index", i,
		"wallet", req.Wallet.Hex(),
	)

	result := o.runner.Execute(ctx, req)
	summary.Results[i] = result

	o.metrics.tradesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", string(result.State)),
		attribute.Bool("success", result.Success),
	))

	o.logger.Debug(ctx, "trade finished",
		"batch_id", summary.BatchID.String(),
		"index", i,
		"state", string(result.State),
		"success", result.Success,
	)
	o.reporter.TradeFinished(i, result)
}

func walletLocks(requests []executionDomain.TradeRequest) map[common.Address]*sync.Mutex {
	locks := make(map[common.Address]*sync.Mutex)
	for i := range requests {
		if _, ok := locks[requests[i].Wallet]; !ok {
			locks[requests[i].Wallet] = &sync.Mutex{}
		}
	}
	return locks
}
