package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"parcel-dispatch/cmd"
	"parcel-dispatch/internal/observability"

	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	instruments, shutdownTelemetry, err := observability.Init(ctx, config.Observability())
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	app, err := cmd.NewCompositionRoot(ctx, config, instruments)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := run(ctx, app, config); err != nil {
		instruments.Logger.Error("Service stopped with error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := errors.Join(app.Close(), shutdownTelemetry(shutdownCtx)); err != nil {
		instruments.Logger.Error("Shutdown incomplete", "error", err)
	}
}

func run(ctx context.Context, app *cmd.CompositionRoot, config cmd.Config) error {
	router, err := app.NewRouter()
	if err != nil {
		return err
	}

	jobManager := app.NewJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", config.HTTPPort),
		Handler:           otelhttp.NewHandler(router, config.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		router.Logger.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
