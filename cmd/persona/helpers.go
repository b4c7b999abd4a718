package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/config"
	"github.com/marlowe-io/persona/internal/engine"
	"github.com/marlowe-io/persona/internal/storage"
)

// runPipeline resolves the dataset path and runs the full pipeline:
// load, derive, classify.
func runPipeline(ctx context.Context) (*engine.Pipeline, *engine.Result, error) {
	path, err := config.DiscoverInput(viper.GetString("input"))
	if err != nil {
		if errors.Is(err, common.ErrNoInput) {
			return nil, nil, common.NewUserError(
				"No dataset found. Place data/processed_data.parquet or data/processed_data.csv in the working directory, or pass --input", err)
		}
		return nil, nil, err
	}

	pipeline := engine.New(config.DefaultColumns())
	result, err := pipeline.Run(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, result, nil
}

// initStorage initializes the snapshot store with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/persona/persona.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
