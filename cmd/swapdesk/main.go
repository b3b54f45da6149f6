// Package main is the entry point for the swap desk batch trader.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fbellman/swapdesk/business/batch"
	batchDI "github.com/fbellman/swapdesk/business/batch/di"
	"github.com/fbellman/swapdesk/business/execution"
	"github.com/fbellman/swapdesk/business/pricing"
	"github.com/fbellman/swapdesk/internal/apm"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/di"
	"github.com/fbellman/swapdesk/internal/health"
	"github.com/fbellman/swapdesk/internal/logger"
	"github.com/fbellman/swapdesk/internal/metrics"
	"github.com/fbellman/swapdesk/internal/monolith"
	"github.com/fbellman/swapdesk/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	batchPath := flag.String("batch", "", "Path to the batch trade file (yaml or json)")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	dryRun := flag.Bool("dry-run", false, "Simulate every trade instead of submitting")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("swapdesk %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if *batchPath == "" {
		fmt.Fprintln(os.Stderr, "error: -batch is required")
		flag.Usage()
		os.Exit(2)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	// Run application
	if err := run(ctx, *configPath, *batchPath, tuiMode, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, batchPath string, tuiMode, dryRun bool) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Runtime-only settings the modules read back from config
	cfg.Batch.TUIMode = tuiMode
	cfg.Batch.DryRun = dryRun

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting swap desk",
			"version", version,
			"environment", cfg.App.Environment,
			"batch_file", batchPath,
			"dry_run", dryRun,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		// Set service name env var for OTEL
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		// Initialize tracing with Zipkin (local dev friendly)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		// Initialize metrics with Prometheus
		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Start health check server on port 8081 with an RPC probe
	healthServer := health.NewServer(8081, version)
	healthServer.RegisterCheck("ethereum_rpc", func(ctx context.Context) (bool, string) {
		block, err := mono.EthClient().BlockNumber(ctx)
		if err != nil {
			return false, err.Error()
		}
		return true, fmt.Sprintf("block %d", block)
	})
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Define modules in dependency order
	modules := []monolith.Module{
		&pricing.Module{},   // Quotes, token resolution
		&execution.Module{}, // Signing, submission, confirmation
		&batch.Module{},     // Orchestration and reporting
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if tuiMode {
		// TUI mode: Start modules in background so TUI shows immediately
		startFunc := func() error {
			ui.Send(ui.StartupMsg{Step: "config", Status: "done"})
			ui.Send(ui.StartupMsg{Step: "ethereum", Status: "connecting"})

			if err := mono.StartModules(ctx, modules...); err != nil {
				ui.Send(ui.StartupMsg{Step: "ethereum", Status: "failed"})
				return fmt.Errorf("failed to start modules: %w", err)
			}
			ui.Send(ui.StartupMsg{Step: "ethereum", Status: "connected"})
			ui.Send(ui.StartupMsg{Step: "wallets", Status: "done"})

			ui.Send(ui.StartupMsg{Step: "batch", Status: "connecting"})
			requests, batchCfg, err := batchDI.GetLoader(mono.Services()).Load(ctx, batchPath, cfg.Batch)
			if err != nil {
				ui.Send(ui.StartupMsg{Step: "batch", Status: "failed"})
				return err
			}
			ui.Send(ui.StartupMsg{Step: "batch", Status: "done"})

			_, err = batchDI.GetOrchestrator(mono.Services()).ExecuteBatch(ctx, requests, batchCfg)
			return err
		}
		stopFunc := func() {
			_ = batchDI.GetReporter(mono.Services()).Stop()
		}
		return runTUI(ctx, startFunc, stopFunc)
	}

	// CLI mode: Start modules synchronously
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	return runCLI(ctx, mono.Services(), batchPath, cfg, log)
}

func runCLI(ctx context.Context, sr di.ServiceRegistry, batchPath string, cfg *config.Config, log *logger.Logger) error {
	requests, batchCfg, err := batchDI.GetLoader(sr).Load(ctx, batchPath, cfg.Batch)
	if err != nil {
		return err
	}

	summary, err := batchDI.GetOrchestrator(sr).ExecuteBatch(ctx, requests, batchCfg)
	if err != nil {
		return err
	}

	if err := batchDI.GetReporter(sr).Stop(); err != nil {
		log.Warn(ctx, "error stopping reporter", "error", err)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("batch %s finished with %d failed trade(s)", summary.BatchID, summary.Failed)
	}
	return nil
}

func runTUI(ctx context.Context, startFunc func() error, stopFunc func()) error {
	// Channel to receive StartModulesMsg signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	// Run batch logic in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for welcome screen to complete (StartModulesMsg signal)
		select {
		case <-startSignal:
			// Welcome complete, start modules
		case <-ctx.Done():
			errCh <- nil
			return
		}

		// Start modules and run the batch (TUI shows progress)
		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		// Batch done; leave the summary on screen until quit or cancel
		<-ctx.Done()

		stopFunc()
		errCh <- nil
	}()

	// Run TUI (blocking) - shows immediately with welcome screen
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Check for batch errors
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
