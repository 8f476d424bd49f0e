// Package app assembles the search service components from configuration.
// Both the API server and the CLI build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AioliaTech/api-ia/internal/cache"
	"github.com/AioliaTech/api-ia/internal/config"
	"github.com/AioliaTech/api-ia/internal/events"
	"github.com/AioliaTech/api-ia/internal/interpreter"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/monitoring"
	"github.com/AioliaTech/api-ia/internal/observability"
	"github.com/AioliaTech/api-ia/internal/ranking"
	"github.com/AioliaTech/api-ia/internal/search"
	"github.com/AioliaTech/api-ia/internal/storage"
	"github.com/AioliaTech/api-ia/internal/vocabulary"
)

// App holds the wired components. Optional parts (DB, Redis, Archive) are
// nil when disabled in configuration.
type App struct {
	Config     *config.Config
	Logger     *observability.Logger
	InstanceID string

	Vocabulary *vocabulary.Index
	Provider   *inventory.Provider
	Refresher  *inventory.Refresher
	Search     *search.Service
	Audit      *monitoring.AuditLogger
	Staleness  *monitoring.StalenessMonitor

	DB      *sql.DB
	Archive *storage.SnapshotArchive
	Cache   cache.Client
	Redis   *cache.RedisClient
	Bus     events.Bus

	scheduler   *inventory.Scheduler
	unsubscribe func()
	cancel      context.CancelFunc
	closers     []func() error
}

// New builds every component from cfg. It opens connections but starts no
// background work; call Start for that.
func New(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*App, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}
	a := &App{
		Config:     cfg,
		Logger:     logger,
		InstanceID: uuid.NewString(),
		Provider:   inventory.NewProvider(),
	}

	vocab, err := vocabulary.Load(cfg.Vocabulary.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Vocabulary.Path).Msg("Vocabulary file unavailable, using built-in dictionaries")
	}
	a.Vocabulary = vocab
	logger.Info().Interface("entries", vocab.Stats()).Msg("Vocabulary loaded")

	if err := a.openDatabase(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openCache(); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openBus(); err != nil {
		a.Close()
		return nil, err
	}

	source, err := a.newSource()
	if err != nil {
		a.Close()
		return nil, err
	}
	refresherCfg := inventory.RefresherConfig{
		Source:   source,
		Provider: a.Provider,
		Logger:   logger.WithOperation("inventory_refresh"),
	}
	if cfg.Inventory.WriteSnapshot && cfg.Inventory.Source != "file" {
		refresherCfg.WritePath = cfg.Inventory.Path
	}
	if a.Archive != nil && cfg.Inventory.Archive && cfg.Inventory.Source != "store" {
		refresherCfg.Archive = a.Archive
	}
	a.Refresher = inventory.NewRefresher(refresherCfg)

	var store monitoring.SearchEventStore
	if a.DB != nil {
		store = storage.NewSearchEventRepository(a.DB)
	}
	a.Audit = monitoring.NewAuditLogger(logger.WithOperation("audit"), store)

	interp := interpreter.New(vocab, logger, interpreter.DefaultConfig())
	engine := ranking.New(rankingConfig(cfg.Search), ranking.WithSynonyms(vocab))
	opts := []search.Option{}
	if cfg.Search.CacheResults {
		opts = append(opts, search.WithCache(a.Cache, cfg.Search.CacheTTL))
	}
	if cfg.Observability.AuditSearch {
		opts = append(opts, search.WithAudit(a.Audit))
	}
	a.Search = search.NewService(a.Provider, interp, engine, logger, opts...)

	a.Refresher.OnRefresh(a.Search.RefreshListener())
	a.Refresher.OnRefresh(events.RefreshListener(a.Bus, a.InstanceID, logger))

	var alerts monitoring.AlertPublisher
	if a.Redis != nil {
		alerts = a.Redis
	}
	a.Staleness = monitoring.NewStalenessMonitor(logger, a.Provider, alerts, monitoring.StalenessConfig{
		MaxAge: cfg.Inventory.StaleAfter,
	})

	return a, nil
}

func rankingConfig(s config.SearchConfig) ranking.Config {
	return ranking.Config{
		TextThreshold:   s.TextThreshold,
		OptionThreshold: s.OptionThreshold,
		PriceTolerance:  s.PriceTolerance,
		MaxResults:      s.MaxResults,
		MaxAlternatives: s.MaxAlternatives,
		Fallback:        s.Fallback,
		Weights: ranking.Weights{
			Brand:     s.Weights.Brand,
			Category:  s.Weights.Category,
			Secondary: s.Weights.Secondary,
		},
	}
}

func (a *App) openDatabase(ctx context.Context) error {
	cfg := a.Config
	if !cfg.Database.Enabled {
		return nil
	}
	opts := storage.Options{Driver: cfg.Database.Driver, DSN: cfg.DatabaseDSN()}
	if cfg.Database.Driver == "sqlite" {
		opts.MaxOpenConns = cfg.Database.SQLite.MaxOpenConns
		opts.JournalMode = cfg.Database.SQLite.JournalMode
	} else {
		opts.MaxOpenConns = cfg.Database.Postgres.MaxOpenConns
		opts.MaxIdleConns = cfg.Database.Postgres.MaxIdleConns
		opts.ConnMaxLifetime = cfg.Database.Postgres.ConnMaxLifetime
	}
	db, err := storage.Open(ctx, opts)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)
	if err := storage.EnsureSchema(ctx, db); err != nil {
		return err
	}
	a.DB = db
	a.Archive = storage.NewSnapshotArchive(db, cfg.Inventory.ArchiveKeep)
	a.Logger.Info().Str("driver", cfg.Database.Driver).Msg("Database connected")
	return nil
}

func (a *App) openCache() error {
	cfg := a.Config.Cache
	if cfg.Driver == "redis" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		a.Redis = client
		a.Cache = client
		return nil
	}
	mem := cache.NewMemoryClient(cfg.MaxEntries)
	a.closers = append(a.closers, mem.Close)
	a.Cache = mem
	return nil
}

func (a *App) openBus() error {
	cfg := a.Config.Events
	switch cfg.Driver {
	case "redis":
		if a.Redis == nil {
			return fmt.Errorf("events driver redis requires a redis cache")
		}
		a.Bus = events.NewRedisBus(a.Redis, cfg.Subject)
	case "nats":
		bus, err := events.ConnectNATS(cfg.NATS.URL, cfg.NATS.Name, cfg.Subject)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, bus.Close)
		a.Bus = bus
	default:
		a.Bus = events.Noop{}
	}
	return nil
}

func (a *App) newSource() (inventory.Source, error) {
	cfg := a.Config.Inventory
	switch cfg.Source {
	case "file":
		return inventory.NewFileSource(cfg.Path), nil
	case "http":
		return inventory.NewHTTPSource(inventory.HTTPSourceConfig{
			URL:               cfg.FeedURL,
			Format:            cfg.FeedFormat,
			Timeout:           cfg.FetchTimeout,
			RequestsPerSecond: 1,
		}), nil
	case "store":
		if a.Archive == nil {
			return nil, fmt.Errorf("inventory source store requires a database")
		}
		return inventory.NewStoreSource(a.Archive), nil
	default:
		return nil, fmt.Errorf("unknown inventory source: %s", cfg.Source)
	}
}

// Load installs the first snapshot. When the configured source fails and an
// archive is available, the newest archived snapshot is served instead.
func (a *App) Load(ctx context.Context) error {
	_, err := a.Refresher.Refresh(ctx)
	if err == nil {
		return nil
	}
	if a.Archive == nil || a.Config.Inventory.Source == "store" {
		return err
	}
	snap, archiveErr := a.Archive.LatestSnapshot(ctx)
	if archiveErr != nil {
		return errors.Join(err, archiveErr)
	}
	a.Provider.Replace(snap)
	a.Logger.Warn().
		Err(err).
		Str("snapshot_id", snap.ID).
		Time("loaded_at", snap.LoadedAt).
		Msg("Serving archived snapshot after failed refresh")
	return nil
}

// Start performs the boot refresh and launches the refresh scheduler, the
// staleness monitor and the refresh event subscription.
func (a *App) Start(ctx context.Context) error {
	cfg := a.Config
	if cfg.Inventory.RefreshOnBoot {
		if err := a.Load(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("Initial inventory load failed")
		}
	}

	scheduler, err := inventory.NewScheduler(a.Refresher, cfg.Inventory.Schedule, cfg.Location(), cfg.Inventory.FetchTimeout, a.Logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	a.scheduler = scheduler
	a.Logger.Info().
		Str("schedule", cfg.Inventory.Schedule).
		Str("timezone", cfg.Inventory.Timezone).
		Time("next_run", scheduler.Next()).
		Msg("Inventory refresh scheduled")

	handler := a.Search.EventHandler()
	stop, err := a.Bus.Subscribe(ctx, func(ctx context.Context, evt events.InventoryRefreshed) {
		if evt.Instance == a.InstanceID {
			return
		}
		handler(ctx, evt)
	})
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Refresh event subscription failed")
	} else {
		a.unsubscribe = stop
	}

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go a.Staleness.Run(runCtx)
	return nil
}

// Stop halts background work started by Start.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.scheduler != nil {
		a.scheduler.Stop(ctx)
	}
}

// Ready reports whether a non-empty snapshot is being served.
func (a *App) Ready() bool {
	return a.Provider.Loaded() && !a.Provider.Current().Empty()
}

// Close releases connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
