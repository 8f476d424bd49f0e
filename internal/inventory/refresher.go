package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/AioliaTech/api-ia/internal/domain"
	"github.com/AioliaTech/api-ia/internal/observability"
)

// Listener is notified after a new snapshot is installed. old is nil on
// the first load.
type Listener func(ctx context.Context, old, current *Snapshot)

// RefresherConfig wires a Refresher.
type RefresherConfig struct {
	Source   Source
	Provider *Provider
	// Archive, when set, receives every installed snapshot.
	Archive Archive
	// WritePath, when set, receives a dados.json copy of every snapshot.
	WritePath string
	Logger    *observability.Logger
}

// Refresher builds snapshots from a Source and installs them. Refreshes
// are serialized; a failed refresh leaves the active snapshot in place.
type Refresher struct {
	cfg       RefresherConfig
	logger    *observability.Logger
	mu        sync.Mutex
	listeners []Listener
	lastErr   error
	lastRun   time.Time
}

// NewRefresher creates a refresher.
func NewRefresher(cfg RefresherConfig) *Refresher {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Refresher{cfg: cfg, logger: logger}
}

// OnRefresh registers a listener. Not safe to call concurrently with Refresh.
func (r *Refresher) OnRefresh(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Refresh fetches, validates and installs a new snapshot.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	r.lastRun = start
	snap, err := r.build(ctx)
	r.lastErr = err
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("source", r.sourceName()).
			Int("current_records", r.cfg.Provider.Current().Len()).
			Msg("Inventory refresh failed, keeping current snapshot")
		return nil, err
	}

	if r.cfg.WritePath != "" {
		if err := WriteFile(r.cfg.WritePath, snap.Vehicles()); err != nil {
			r.logger.Warn().Err(err).Str("path", r.cfg.WritePath).Msg("Failed to write inventory file")
		}
	}
	if r.cfg.Archive != nil {
		if err := r.cfg.Archive.SaveSnapshot(ctx, snap); err != nil {
			r.logger.Warn().Err(err).Str("snapshot_id", snap.ID).Msg("Failed to archive snapshot")
		}
	}

	old := r.cfg.Provider.Replace(snap)
	r.logger.Info().
		Str("snapshot_id", snap.ID).
		Str("source", snap.Source).
		Int("records", snap.Len()).
		Dur("duration", time.Since(start)).
		Msg("Inventory snapshot installed")

	for _, l := range r.listeners {
		l(ctx, old, snap)
	}
	return snap, nil
}

func (r *Refresher) build(ctx context.Context) (*Snapshot, error) {
	if r.cfg.Source == nil {
		return nil, domain.ConfigError("inventory source not configured", nil)
	}
	vehicles, err := r.cfg.Source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, domain.DataError("inventory source returned no vehicles", domain.ErrInvalidSnapshot)
	}
	return NewSnapshot(vehicles, r.sourceName()), nil
}

// Status describes the most recent refresh attempt.
type Status struct {
	LastRun time.Time
	LastErr error
}

// Status returns the outcome of the last refresh.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{LastRun: r.lastRun, LastErr: r.lastErr}
}

func (r *Refresher) sourceName() string {
	if r.cfg.Source == nil {
		return "none"
	}
	return r.cfg.Source.Name()
}
