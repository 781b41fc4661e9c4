package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/app"
	"github.com/maslahah/nlpviz/pkg/server"
	"github.com/maslahah/nlpviz/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

// run is the entrypoint for the nlpviz server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring nlpviz: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting nlpviz server version %s", config.VersionString)

	config.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to set up telemetry: %s", err)
	}

	appState, cleanup, err := app.NewAppState(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	// A model that fails to load is reported again on first use.
	if err := app.Preload(ctx, appState); err != nil {
		log.Warnf("Failed to preload models: %s", err)
	}

	srv := server.Create(appState)

	go func() {
		log.Infof("Listening on: %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down nlpviz server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down server: %v", err)
	}
	cleanup()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Errorf("Error shutting down telemetry: %v", err)
	}
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		if err := writeJSON(os.Stdout, cfg); err != nil {
			log.Fatalf("Failed to dump config: %s", err)
		}
		os.Exit(0)
	}
}
