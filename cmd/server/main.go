// Command server runs the togather API.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"togather/internal/config"
	"togather/internal/middleware"
	"togather/internal/observability"
	"togather/internal/server"
)

var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env, os.Stdout)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "togather-api",
		ServiceVersion: version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		middleware.Logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			middleware.Logger.Error("server shutdown error", slog.String("error", err.Error()))
		}
		if err := shutdownTracing(ctx); err != nil {
			middleware.Logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
