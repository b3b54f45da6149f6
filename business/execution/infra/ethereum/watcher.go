package ethereum

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/circuitbreaker"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
)

// WatcherConfig holds configuration for the head watcher.
type WatcherConfig struct {
	WSURL          string        // WebSocket endpoint (primary)
	HTTPURL        string        // HTTP endpoint (fallback)
	PollInterval   time.Duration // Polling interval for HTTP fallback
	ReconnectDelay time.Duration // Delay before reconnecting WS
	BufferSize     int           // Head channel buffer size
}

// WatcherConfigFrom derives watcher settings from the node config.
func WatcherConfigFrom(ethCfg config.EthereumConfig) WatcherConfig {
	return WatcherConfig{
		WSURL:          ethCfg.WebSocketURL,
		HTTPURL:        ethCfg.HTTPURL,
		PollInterval:   12 * time.Second, // ~1 block time
		ReconnectDelay: ethCfg.InitialBackoff,
		BufferSize:     16,
	}
}

type watcherMetrics struct {
	headsReceived    metric.Int64Counter
	subscribeErrors  metric.Int64Counter
	connectionState  metric.Int64Gauge
	httpFallbackUsed metric.Int64Counter
}

// HeadWatcher streams new chain heads. WebSocket is primary; HTTP
// polling takes over when the subscription cannot be established or
// drops and cannot be re-established.
type HeadWatcher struct {
	config WatcherConfig
	logger logger.LoggerInterface

	wsClient   *ethclient.Client
	httpClient *ethclient.Client
	clientMu   sync.RWMutex

	state      domain.ConnectionState
	stateMu    sync.RWMutex
	usingHTTP  atomic.Bool
	lastBlock  atomic.Uint64
	reconnects atomic.Int32

	heads  chan *domain.Head
	done   chan struct{}
	closed atomic.Bool

	wsCB   *circuitbreaker.CircuitBreaker[*types.Header]
	httpCB *circuitbreaker.CircuitBreaker[*types.Header]

	tracer  trace.Tracer
	metrics *watcherMetrics
}

// NewHeadWatcher creates a head watcher.
func NewHeadWatcher(cfg WatcherConfig, log logger.LoggerInterface) (*HeadWatcher, error) {
	w := &HeadWatcher{
		config: cfg,
		logger: log,
		state:  domain.StateDisconnected,
		heads:  make(chan *domain.Head, cfg.BufferSize),
		done:   make(chan struct{}),
		tracer: otel.Tracer(tracerName),
	}

	if err := w.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	w.initCircuitBreakers()

	return w, nil
}

func (w *HeadWatcher) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	w.metrics = &watcherMetrics{}

	w.metrics.headsReceived, err = meter.Int64Counter(
		"chain_heads_received_total",
		metric.WithDescription("Chain heads received"),
	)
	if err != nil {
		return err
	}

	w.metrics.subscribeErrors, err = meter.Int64Counter(
		"chain_subscribe_errors_total",
		metric.WithDescription("Head subscription errors"),
	)
	if err != nil {
		return err
	}

	w.metrics.connectionState, err = meter.Int64Gauge(
		"chain_connection_state",
		metric.WithDescription("Chain connection state (0=disconnected, 1=connecting, 2=connected, 3=reconnecting)"),
	)
	if err != nil {
		return err
	}

	w.metrics.httpFallbackUsed, err = meter.Int64Counter(
		"chain_http_fallback_total",
		metric.WithDescription("Times HTTP polling replaced the subscription"),
	)
	if err != nil {
		return err
	}

	return nil
}

func (w *HeadWatcher) initCircuitBreakers() {
	wsCfg := circuitbreaker.DefaultConfig("chain-ws")
	wsCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		w.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	w.wsCB = circuitbreaker.New[*types.Header](wsCfg)

	httpCfg := circuitbreaker.DefaultConfig("chain-http")
	httpCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		w.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	w.httpCB = circuitbreaker.New[*types.Header](httpCfg)
}

// Watch starts streaming heads and returns the channel.
func (w *HeadWatcher) Watch(ctx context.Context) (<-chan *domain.Head, error) {
	ctx, span := w.tracer.Start(ctx, "chain.watch",
		trace.WithAttributes(
			attribute.String("ws_url", w.config.WSURL),
			attribute.String("http_url", w.config.HTTPURL),
		),
	)
	defer span.End()

	if w.closed.Load() {
		return nil, errors.New("watcher is closed")
	}

	w.setState(domain.StateConnecting)

	if err := w.connectWS(ctx); err != nil {
		w.logger.Warn(ctx, "ws connection failed, trying http fallback", "error", err)

		if err := w.connectHTTP(ctx); err != nil {
			span.SetStatus(codes.Error, "both connections failed")
			w.setState(domain.StateDisconnected)
			return nil, apperror.New(apperror.CodeChainConnectionFailed,
				apperror.WithCause(err),
				apperror.WithContext("failed to connect via WS and HTTP"))
		}

		w.usingHTTP.Store(true)
		w.metrics.httpFallbackUsed.Add(ctx, 1)
		go w.runHTTPPoller(ctx)
	} else {
		go w.runWSSubscription(ctx)
	}

	w.setState(domain.StateConnected)
	span.SetStatus(codes.Ok, "watching")

	return w.heads, nil
}

func (w *HeadWatcher) connectWS(ctx context.Context) error {
	if w.config.WSURL == "" {
		return errors.New("ws url not configured")
	}

	client, err := ethclient.DialContext(ctx, w.config.WSURL)
	if err != nil {
		return fmt.Errorf("dial ws: %w", err)
	}

	w.clientMu.Lock()
	w.wsClient = client
	w.clientMu.Unlock()
	return nil
}

func (w *HeadWatcher) connectHTTP(ctx context.Context) error {
	if w.config.HTTPURL == "" {
		return errors.New("http url not configured")
	}

	client, err := ethclient.DialContext(ctx, w.config.HTTPURL)
	if err != nil {
		return fmt.Errorf("dial http: %w", err)
	}

	w.clientMu.Lock()
	w.httpClient = client
	w.clientMu.Unlock()
	return nil
}

func (w *HeadWatcher) runWSSubscription(ctx context.Context) {
	headers := make(chan *types.Header, w.config.BufferSize)

	w.clientMu.RLock()
	client := w.wsClient
	w.clientMu.RUnlock()

	if client == nil {
		w.handleWSDisconnect(ctx)
		return
	}

	sub, err := client.SubscribeNewHead(ctx, headers)
	if err != nil {
		w.logger.Error(ctx, "subscribe new head failed", "error", err)
		w.metrics.subscribeErrors.Add(ctx, 1)
		w.handleWSDisconnect(ctx)
		return
	}

	w.logger.Info(ctx, "subscribed to new heads via ws")

	for {
		select {
		case <-w.done:
			sub.Unsubscribe()
			return
		case <-ctx.Done():
			sub.Unsubscribe()
			return
		case err := <-sub.Err():
			if err != nil {
				w.logger.Error(ctx, "subscription error", "error", err)
				w.metrics.subscribeErrors.Add(ctx, 1)
			}
			sub.Unsubscribe()
			w.handleWSDisconnect(ctx)
			return
		case header := <-headers:
			if header == nil {
				continue
			}
			w.emitHeader(ctx, header)
		}
	}
}

func (w *HeadWatcher) handleWSDisconnect(ctx context.Context) {
	if w.closed.Load() {
		return
	}

	w.setState(domain.StateReconnecting)
	w.reconnects.Add(1)

	time.Sleep(w.config.ReconnectDelay)

	if w.closed.Load() {
		return
	}

	if err := w.connectWS(ctx); err != nil {
		w.logger.Warn(ctx, "ws reconnect failed, switching to http", "error", err)

		w.clientMu.RLock()
		haveHTTP := w.httpClient != nil
		w.clientMu.RUnlock()

		if !haveHTTP {
			if err := w.connectHTTP(ctx); err != nil {
				w.logger.Error(ctx, "http fallback connection failed", "error", err)
				w.setState(domain.StateDisconnected)
				return
			}
		}

		w.usingHTTP.Store(true)
		w.metrics.httpFallbackUsed.Add(ctx, 1)
		w.setState(domain.StateConnected)
		go w.runHTTPPoller(ctx)
		return
	}

	w.usingHTTP.Store(false)
	w.setState(domain.StateConnected)
	go w.runWSSubscription(ctx)
}

func (w *HeadWatcher) runHTTPPoller(ctx context.Context) {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.logger.Info(ctx, "starting http head polling", "interval", w.config.PollInterval)

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollLatestHead(ctx)
		}
	}
}

func (w *HeadWatcher) pollLatestHead(ctx context.Context) {
	w.clientMu.RLock()
	client := w.httpClient
	w.clientMu.RUnlock()

	if client == nil {
		return
	}

	header, err := w.httpCB.Execute(func() (*types.Header, error) {
		return client.HeaderByNumber(ctx, nil) // nil = latest
	})
	if err != nil {
		w.logger.Error(ctx, "http head poll failed", "error", err)
		w.metrics.subscribeErrors.Add(ctx, 1)
		return
	}

	if header.Number.Uint64() <= w.lastBlock.Load() {
		return
	}

	w.emitHeader(ctx, header)
}

func (w *HeadWatcher) emitHeader(ctx context.Context, header *types.Header) {
	head := headerToHead(header)
	w.lastBlock.Store(head.Number)

	select {
	case w.heads <- head:
		w.metrics.headsReceived.Add(ctx, 1)
		w.logger.Debug(ctx, "head received",
			"number", head.Number,
			"hash", head.Hash.Hex()[:10],
		)
	default:
		w.logger.Warn(ctx, "head dropped, buffer full", "number", head.Number)
	}
}

func headerToHead(header *types.Header) *domain.Head {
	return &domain.Head{
		Number:     header.Number.Uint64(),
		Hash:       header.Hash(),
		ParentHash: header.ParentHash,
		Timestamp:  time.Unix(int64(header.Time), 0),
		GasLimit:   header.GasLimit,
		GasUsed:    header.GasUsed,
		BaseFee:    header.BaseFee,
	}
}

// State returns the current connection state.
func (w *HeadWatcher) State() domain.ConnectionState {
	w.stateMu.RLock()
	defer w.stateMu.RUnlock()
	return w.state
}

// Status returns detailed connection status.
func (w *HeadWatcher) Status() domain.ConnectionStatus {
	return domain.ConnectionStatus{
		State:      w.State(),
		LastBlock:  w.lastBlock.Load(),
		LastUpdate: time.Now(),
		Reconnects: int(w.reconnects.Load()),
		UsingHTTP:  w.usingHTTP.Load(),
	}
}

// BlockNumber returns the number of the last head seen.
func (w *HeadWatcher) BlockNumber() uint64 {
	return w.lastBlock.Load()
}

// Close stops the watcher and releases the clients.
func (w *HeadWatcher) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}

	w.logger.Info(context.Background(), "closing head watcher")
	close(w.done)

	w.clientMu.Lock()
	if w.wsClient != nil {
		w.wsClient.Close()
		w.wsClient = nil
	}
	if w.httpClient != nil {
		w.httpClient.Close()
		w.httpClient = nil
	}
	w.clientMu.Unlock()

	close(w.heads)
	w.setState(domain.StateDisconnected)

	return nil
}

func (w *HeadWatcher) setState(state domain.ConnectionState) {
	w.stateMu.Lock()
	w.state = state
	w.stateMu.Unlock()

	var v int64
	switch state {
	case domain.StateConnecting:
		v = 1
	case domain.StateConnected:
		v = 2
	case domain.StateReconnecting:
		v = 3
	}
	w.metrics.connectionState.Record(context.Background(), v)
}
