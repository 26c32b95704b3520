// Package infrastructure assembles the shared systems every module depends
// on: lifecycle coordination, logging, the database pool, and optional blob
// storage.
package infrastructure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/pkg/database"
	"github.com/JaimeStill/warden/pkg/lifecycle"
	"github.com/JaimeStill/warden/pkg/storage"
)

// Infrastructure holds the core systems. Storage is nil when no connection
// string is configured.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New initializes every system without starting it; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		logger.Info("blob storage disabled")
		store = nil
	case err != nil:
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers the database startup ping and shutdown close.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
