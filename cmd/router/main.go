// Package main is the entry point for the smart order router.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/smart-router/business/routing"
	routingApp "github.com/fd1az/smart-router/business/routing/app"
	routingDI "github.com/fd1az/smart-router/business/routing/di"
	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/apm"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/config"
	"github.com/fd1az/smart-router/internal/logger"
	"github.com/fd1az/smart-router/internal/metrics"
	"github.com/fd1az/smart-router/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	sideFlag := flag.String("side", "", "Order side: buy or sell")
	amountFlag := flag.String("amount", "", "Quote to spend (buy) or base to sell (sell), in whole units, e.g. 12.5")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("smart-router %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath, *sideFlag, *amountFlag); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if apperror.IsAppError(err) {
			code := apperror.GetCode(err)
			fmt.Fprintf(os.Stderr, "code: %s retryable: %t\n", code, apperror.IsRetryable(err))
		}
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, sideFlag, amountFlag string) error {
	side, err := domain.ParseSide(sideFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, traceID)
	log.Info(ctx, "starting smart router",
		"version", version,
		"environment", cfg.App.Environment,
	)

	if cfg.Telemetry.Enabled {
		traceProvider := apm.NewTraceProvider(log, apm.ParseProvider(cfg.Telemetry.Provider), apm.ExporterConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Headers:     cfg.Telemetry.OTLPHeaders,
		})
		defer traceProvider.Stop()

		meterProvider, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
			metrics.WithCollectorFor(
				cfg.Telemetry.Provider,
				cfg.Telemetry.OTLPEndpoint,
				apm.ParseHeaders(cfg.Telemetry.OTLPHeaders),
			),
		)
		if err != nil {
			log.Warn(ctx, "metrics disabled", "error", err)
		} else {
			defer meterProvider.Shutdown(context.Background())

			port := cfg.Telemetry.PrometheusPort
			if port == 0 {
				port = 9090
			}
			go metrics.ServePrometheusMetrics(ctx, log, metrics.WithPort(strconv.Itoa(port)))
		}
	}

	// Create monolith (application container)
	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	amount, err := parseAmount(mono.AssetRegistry(), cfg, side, amountFlag)
	if err != nil {
		return err
	}

	modules := []monolith.Module{
		&routing.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	router := routingDI.GetRouter(mono.Services())
	out, err := router.Route(ctx, routingApp.Request{Side: side, Amount: amount.Raw()})
	if err != nil {
		return err
	}

	log.Info(ctx, "request complete", "request_id", out.RequestID, "filled", out.Filled)
	return nil
}

// parseAmount reads the request amount in the asset the side spends.
func parseAmount(reg *asset.Registry, cfg *config.Config, side domain.Side, s string) (asset.Amount, error) {
	if s == "" {
		return asset.Amount{}, apperror.Validation(apperror.CodeInvalidInput, "-amount is required")
	}

	spent := cfg.Assets.Quote.Asset()
	if side == domain.Sell {
		spent = cfg.Assets.Base.Asset()
	}
	a, ok := reg.Get(spent.Mint())
	if !ok {
		return asset.Amount{}, errors.New("traded asset is not registered")
	}

	amount, err := asset.ParseString(a, s)
	if err != nil {
		return asset.Amount{}, apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("amount %q: %v", s, err))
	}
	return amount, nil
}

func traceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
