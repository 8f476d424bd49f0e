package monitoring

import (
	"context"
	"time"

	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/observability"
)

// AlertPublisher delivers alerts to a real-time channel.
type AlertPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// StalenessConfig holds staleness detection configuration.
type StalenessConfig struct {
	MaxAge        time.Duration // e.g., 13 hours for a twice-daily refresh
	CheckInterval time.Duration
	AlertChannel  string
}

// StalenessAlert is published when the served snapshot is too old or absent.
type StalenessAlert struct {
	SnapshotID string        `json:"snapshot_id,omitempty"`
	LoadedAt   time.Time     `json:"loaded_at,omitempty"`
	Age        time.Duration `json:"age"`
	MaxAge     time.Duration `json:"max_age"`
	Missing    bool          `json:"missing"`
	DetectedAt time.Time     `json:"detected_at"`
}

// StalenessMonitor detects inventory snapshots that stopped refreshing.
type StalenessMonitor struct {
	logger    *observability.Logger
	reader    inventory.Reader
	publisher AlertPublisher
	config    StalenessConfig
	now       func() time.Time
}

// NewStalenessMonitor creates a monitor. publisher may be nil.
func NewStalenessMonitor(logger *observability.Logger, reader inventory.Reader, publisher AlertPublisher, cfg StalenessConfig) *StalenessMonitor {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 13 * time.Hour
	}
	if cfg.CheckInterval == 0 {
		cfg.CheckInterval = 30 * time.Minute
	}
	if cfg.AlertChannel == "" {
		cfg.AlertChannel = "inventory.stale"
	}
	return &StalenessMonitor{
		logger:    logger,
		reader:    reader,
		publisher: publisher,
		config:    cfg,
		now:       time.Now,
	}
}

// Check inspects the current snapshot and returns an alert when it is
// missing or older than MaxAge, or nil when it is fresh.
func (m *StalenessMonitor) Check(ctx context.Context) *StalenessAlert {
	now := m.now()
	snap := m.reader.Current()

	var alert *StalenessAlert
	switch {
	case snap == nil || snap.ID == "":
		alert = &StalenessAlert{Missing: true, MaxAge: m.config.MaxAge, DetectedAt: now}
	case now.Sub(snap.LoadedAt) > m.config.MaxAge:
		alert = &StalenessAlert{
			SnapshotID: snap.ID,
			LoadedAt:   snap.LoadedAt,
			Age:        now.Sub(snap.LoadedAt),
			MaxAge:     m.config.MaxAge,
			DetectedAt: now,
		}
	default:
		return nil
	}

	m.logger.Warn().
		Str("snapshot_id", alert.SnapshotID).
		Dur("age", alert.Age).
		Dur("max_age", alert.MaxAge).
		Bool("missing", alert.Missing).
		Msg("Inventory snapshot is stale")

	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, m.config.AlertChannel, alert); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to publish staleness alert")
		}
	}
	return alert
}

// Run checks periodically until ctx is cancelled.
func (m *StalenessMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("Stopping staleness checks")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
