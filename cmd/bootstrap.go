package cmd

import (
	"context"
	"fmt"

	"datasync/core/config"
	"datasync/core/database"
	"datasync/core/logger"
	"datasync/core/storage"
	"datasync/feature/contacts"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the dependencies shared by commands.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	store  storage.Client
}

// bootstrap loads configuration and connects the database and object storage.
func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	l.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, logger: l, db: db, store: client}, nil
}

// contactsService builds the contacts service and prepares its table.
func (r *runtime) contactsService(cfg contacts.Config) (*contacts.Service, error) {
	svc, err := contacts.NewService(r.db, r.store, r.cfg.Storage.Bucket, cfg, r.cfg.Sync, r.logger)
	if err != nil {
		return nil, err
	}

	if err := svc.Migrate(); err != nil {
		return nil, err
	}

	missing, err := svc.CheckSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect contacts table: %w", err)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("contacts table is missing columns %v", missing)
	}

	return svc, nil
}
