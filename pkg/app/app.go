package app

import (
	"context"
	"fmt"

	"github.com/maslahah/nlpviz/config"
	"github.com/maslahah/nlpviz/pkg/analysis"
	"github.com/maslahah/nlpviz/pkg/models"
	"github.com/maslahah/nlpviz/pkg/visualizer"
)

// AppError reports which part of the application failed to start.
type AppError struct {
	Component string
	Err       error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("failed to initialize %s: %v", e.Component, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppState wires the loader, processor and visualizer for cfg. The
// returned cleanup function releases the document cache backend.
func NewAppState(ctx context.Context, cfg *config.Config) (*models.AppState, func(), error) {
	loader, err := analysis.NewLoader(cfg)
	if err != nil {
		return nil, nil, &AppError{Component: "model loader", Err: err}
	}

	store, closeStore, err := analysis.NewDocumentStore(ctx, cfg)
	if err != nil {
		return nil, nil, &AppError{Component: "document cache", Err: err}
	}
	processor := analysis.NewProcessor(loader, store)

	appState := &models.AppState{
		Loader:     loader,
		Processor:  processor,
		Visualizer: visualizer.NewHandler(loader, processor, cfg),
		Config:     cfg,
	}

	cleanup := func() {
		if err := closeStore(); err != nil {
			log.Errorf("Failed to close document cache: %v", err)
		}
	}
	return appState, cleanup, nil
}

// Preload loads every configured model so the first request does not pay
// for it. It stops at the first failure.
func Preload(ctx context.Context, appState *models.AppState) error {
	for _, id := range appState.Loader.Models() {
		if _, err := appState.Loader.Load(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
