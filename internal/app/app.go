// Package app builds and owns the application state shared by every handler: the draft
// store, the composer sessions, the connection flag and their observability.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postcraft/internal/composer"
	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/connection"
	"github.com/debemdeboas/postcraft/internal/db"
	"github.com/debemdeboas/postcraft/internal/metrics"
	"github.com/debemdeboas/postcraft/internal/model"
	"github.com/debemdeboas/postcraft/internal/notify"
	"github.com/debemdeboas/postcraft/internal/repository"
	"github.com/debemdeboas/postcraft/internal/sse"
	"github.com/debemdeboas/postcraft/internal/util/compression"
)

var (
	DraftSavedNotice = model.Notification{
		Title:       "Draft saved!",
		Description: "Your post has been saved to drafts.",
	}
	DraftDeletedNotice = model.Notification{
		Title:       "Draft deleted",
		Description: "The draft has been removed successfully.",
	}
	OpeningDraftNotice = model.Notification{
		Title:       "Opening draft in editor",
		Description: "Redirecting to chat interface...",
	}
)

type App struct {
	Config *config.Config
	Logger zerolog.Logger

	Metrics    *metrics.Metrics
	Drafts     repository.DraftRepository
	Sessions   *composer.Manager
	Connection *connection.Flag
	Hub        *notify.Hub

	db        db.DB
	generator composer.Generator
}

type Option func(*App)

// WithGenerator replaces the template generator used by composer sessions.
func WithGenerator(g composer.Generator) Option {
	return func(a *App) {
		a.generator = g
	}
}

// New wires every component from cfg. The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	drafts, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Drafts = repository.NewInstrumentedDraftRepository(drafts, a.Metrics)

	if cfg.Content.SeedExamples {
		if err := a.Drafts.Seed(ctx, repository.ExampleDrafts()); err != nil {
			a.Close()
			return nil, fmt.Errorf("error seeding example drafts: %w", err)
		}
		logger.Info().Int("count", len(repository.ExampleDrafts())).Msg("Example drafts seeded")
	}

	a.Hub = notify.NewHub(sse.NewSSEClients())
	a.Connection = connection.NewFlag(a.Metrics)
	a.Sessions = composer.NewManager(composer.Options{
		ReplyDelay:        cfg.Composer.ReplyDelay,
		GenerationTimeout: cfg.Composer.GenerationTimeout,
		Generator:         a.generator,
		Listener:          a.Hub,
		Metrics:           a.Metrics,
	}, cfg.Composer.SessionTTL)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.DraftRepository, error) {
	switch a.Config.Store.Driver {
	case config.StoreDriverSQLite:
		compressor, err := compression.New(a.Config.Store.Compression)
		if err != nil {
			return nil, err
		}

		database := db.NewSQLite(a.Config.Store.DSN)
		if err := database.InitDB(ctx); err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		a.db = database
		a.Logger.Info().Str("driver", config.StoreDriverSQLite).Str("compression", a.Config.Store.Compression).Msg("Draft store opened")
		return repository.NewDBDraftRepository(database, compressor), nil
	default:
		a.Logger.Info().Str("driver", config.StoreDriverMemory).Msg("Draft store opened")
		return repository.NewMemoryDraftRepository(), nil
	}
}

// Run sweeps idle composer sessions until ctx is done.
func (a *App) Run(ctx context.Context) {
	interval := a.Config.Composer.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	a.Sessions.Run(ctx, interval)
}

func (a *App) Close() error {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SaveDraft stores the session's candidate as a new draft.
func (a *App) SaveDraft(ctx context.Context, s *composer.Session) (model.Draft, model.Notification, error) {
	d, err := a.Drafts.SaveDraft(ctx, s.Snapshot().Draft())
	if err != nil {
		return model.Draft{}, model.Notification{}, fmt.Errorf("error saving draft: %w", err)
	}
	return d, DraftSavedNotice, nil
}

func (a *App) DeleteDraft(ctx context.Context, id model.DraftID) (model.Notification, error) {
	if err := a.Drafts.DeleteDraft(ctx, id); err != nil {
		return model.Notification{}, fmt.Errorf("error deleting draft: %w", err)
	}
	return DraftDeletedNotice, nil
}

// EditDraft loads a copy of the draft into the session.
func (a *App) EditDraft(ctx context.Context, s *composer.Session, id model.DraftID) (model.Notification, error) {
	d, err := a.Drafts.GetDraft(ctx, id)
	if err != nil {
		return model.Notification{}, err
	}
	s.LoadDraft(d)
	return OpeningDraftNotice, nil
}

// SearchDrafts collects the drafts matching term, in store order.
func (a *App) SearchDrafts(ctx context.Context, term string) ([]model.Draft, error) {
	seq, err := a.Drafts.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return repository.Collect(seq), nil
}

// Publish publishes the session's candidate. With confirmed set the account is connected
// first, which is what the "connect to publish" dialog does.
func (a *App) Publish(s *composer.Session, confirmed bool) (model.Notification, error) {
	content := s.Snapshot().Candidate.Content
	if confirmed {
		return a.Connection.ConnectAndPublish(content)
	}
	return a.Connection.Publish(content)
}

// IsNotFound reports whether err means a draft does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrDraftNotFound)
}
