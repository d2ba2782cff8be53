package contacts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"datasync/core/channel"
	"datasync/core/database"
	"datasync/core/endpoint"
	"datasync/core/match"
	"datasync/core/resolve"
	"datasync/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Status describes the synchronization state of the contacts channel.
type Status struct {
	Synchronizing bool           `json:"synchronizing"`
	Last          *channel.Stats `json:"last,omitempty"`
}

// Service synchronizes remote contacts in object storage into the local database.
type Service struct {
	db      *gorm.DB
	logger  *zap.Logger
	config  Config
	syncCfg channel.Config
	local   *endpoint.GormStore[LocalContact, int]
	remote  *endpoint.Cached[RemoteContact, int]
	rules   *Rules
	channel *channel.Channel[LocalContact, RemoteContact, int]

	mu     sync.RWMutex
	view   *channel.LiveView[LocalContact, int]
	cancel context.CancelFunc
}

// NewService wires the local gorm store and the remote object store into a channel.
func NewService(db *gorm.DB, client storage.Client, bucket string, cfg Config, syncCfg channel.Config, logger *zap.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("contacts: database connection is required")
	}
	if client == nil {
		return nil, fmt.Errorf("contacts: storage client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	local := endpoint.NewGormStore[LocalContact, int](db, "id", LocalIdentity)
	remote := endpoint.NewCached[RemoteContact, int](
		endpoint.NewObjectStore[RemoteContact, int](client, bucket, cfg.Prefix, RemoteKey),
		cfg.CacheTTL(),
	)

	rules := &Rules{
		Local:      local,
		Remote:     remote,
		Translator: Translator{},
		TwoWay:     cfg.TwoWay,
	}

	step, err := resolve.NewStep(rules, Resolvers()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build contact rules: %w", err)
	}

	// Local rows are keyed by their own primary key, so only the remote side
	// can be completed by correlation id.
	if channel.ParseCompletion(syncCfg.Completion) == channel.CompletionEach {
		logger.Warn("Per item completion reads local contacts by remote id, using batch completion instead")
		syncCfg.Completion = channel.CompletionBatch.String()
	}
	opts := append(syncCfg.Options(match.Second),
		channel.WithLogger(logger),
		channel.WithIdentity(LocalIdentity),
	)

	ch, err := channel.New("contacts",
		endpoint.Config[LocalContact, int]{Key: LocalKey, Store: local},
		endpoint.Config[RemoteContact, int]{Key: RemoteKey, Store: remote},
		step,
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build contacts channel: %w", err)
	}

	ch.OnStarted(func(channel.Started) { rules.ids.reset() })

	return &Service{
		db:      db,
		logger:  logger,
		config:  cfg,
		syncCfg: syncCfg,
		local:   local,
		remote:  remote,
		rules:   rules,
		channel: ch,
	}, nil
}

// Channel exposes the underlying channel for observer registration.
func (s *Service) Channel() *channel.Channel[LocalContact, RemoteContact, int] {
	return s.channel
}

// Migrate creates or updates the contacts table.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(&LocalContact{}); err != nil {
		return fmt.Errorf("failed to migrate contacts table: %w", err)
	}
	return nil
}

// CheckSchema returns the required contact columns missing from the database.
func (s *Service) CheckSchema() ([]string, error) {
	return database.MissingColumns(s.db, LocalContact{}.TableName(), RequiredColumns...)
}

// Start opens the live contact view, optionally running a background
// synchronization first, and starts the periodic trigger when configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	view, err := s.channel.Drain(ctx, s.config.SyncOnStart)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to load contacts: %w", err)
	}
	s.view = view
	s.cancel = cancel

	if interval := s.syncCfg.Interval(); interval > 0 {
		go s.loop(ctx, interval)
	}

	s.logger.Info("Contacts service started",
		zap.Int("contacts", view.Len()),
		zap.Bool("sync_on_start", s.config.SyncOnStart),
		zap.Duration("interval", s.syncCfg.Interval()))
	return nil
}

func (s *Service) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.channel.Synchronize(ctx); err != nil {
				s.logger.Error("Periodic contact synchronization failed", zap.Error(err))
			}
		}
	}
}

// Close stops the periodic trigger and releases the live view.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.view != nil {
		s.view.Close()
		s.view = nil
	}
	s.remote.Close()
}

// List returns the local contacts, from the live view once the service is started.
func (s *Service) List(ctx context.Context) ([]LocalContact, error) {
	s.mu.RLock()
	view := s.view
	s.mu.RUnlock()

	if view != nil {
		return view.Items(), nil
	}
	return s.local.ReadAll(ctx)
}

// Synchronize runs one synchronization. It returns false when a run was already in progress.
func (s *Service) Synchronize(ctx context.Context) (channel.Stats, bool, error) {
	return s.channel.Run(ctx)
}

// Trigger starts a synchronization in the background. Errors are logged.
func (s *Service) Trigger(ctx context.Context) bool {
	if s.channel.IsSynchronizing() {
		return false
	}

	go func() {
		if err := s.channel.Synchronize(ctx); err != nil {
			s.logger.Error("Background contact synchronization failed", zap.Error(err))
		}
	}()
	return true
}

// Status returns whether a run is active and the stats of the last one.
func (s *Service) Status() Status {
	status := Status{Synchronizing: s.channel.IsSynchronizing()}
	if last, ok := s.channel.LastStats(); ok {
		status.Last = &last
	}
	return status
}
