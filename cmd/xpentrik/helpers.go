package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/xpentrik/internal/classification"
	"github.com/Veraticus/xpentrik/internal/config"
	"github.com/Veraticus/xpentrik/internal/engine"
	"github.com/Veraticus/xpentrik/internal/notify"
	"github.com/Veraticus/xpentrik/internal/service"
	"github.com/Veraticus/xpentrik/internal/source"
	"github.com/Veraticus/xpentrik/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initPipeline wires the ingestion pipeline over the given storage.
func initPipeline(ctx context.Context, store service.Storage) (*engine.Pipeline, error) {
	classifier, err := classification.NewClassifier()
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	pipeline, err := engine.New(ctx, store, classifier, notify.NewLogNotifier(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return pipeline, nil
}

// initSource builds the SMS inbox source from config.
func initSource() *source.FileSource {
	return source.NewFileSource(config.InboxPath())
}

// closeStorage closes storage, logging rather than failing on error.
func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}
