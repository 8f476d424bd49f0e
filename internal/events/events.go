// Package events announces inventory refreshes to other service instances.
package events

import (
	"context"
	"time"

	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/observability"
)

// InventoryRefreshed is published after a new snapshot is installed.
type InventoryRefreshed struct {
	SnapshotID string    `json:"snapshot_id"`
	PreviousID string    `json:"previous_id,omitempty"`
	Source     string    `json:"source"`
	Vehicles   int       `json:"vehicles"`
	LoadedAt   time.Time `json:"loaded_at"`
	Instance   string    `json:"instance,omitempty"`
}

// Handler receives refresh events.
type Handler func(ctx context.Context, evt InventoryRefreshed)

// Bus publishes and receives refresh events.
type Bus interface {
	Publish(ctx context.Context, evt InventoryRefreshed) error
	// Subscribe delivers events until the returned stop function is called.
	Subscribe(ctx context.Context, h Handler) (stop func(), err error)
	Close() error
}

// NewRefreshed builds the event for a snapshot swap.
func NewRefreshed(old, current *inventory.Snapshot, instance string) InventoryRefreshed {
	evt := InventoryRefreshed{
		SnapshotID: current.ID,
		Source:     current.Source,
		Vehicles:   current.Len(),
		LoadedAt:   current.LoadedAt,
		Instance:   instance,
	}
	if old != nil {
		evt.PreviousID = old.ID
	}
	return evt
}

// RefreshListener returns an inventory.Listener that publishes every swap.
// Publish failures are logged; they never fail the refresh.
func RefreshListener(bus Bus, instance string, logger *observability.Logger) inventory.Listener {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return func(ctx context.Context, old, current *inventory.Snapshot) {
		evt := NewRefreshed(old, current, instance)
		if err := bus.Publish(ctx, evt); err != nil {
			logger.Warn().Err(err).Str("snapshot_id", evt.SnapshotID).Msg("Failed to publish inventory refresh")
		}
	}
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, InventoryRefreshed) error { return nil }

func (Noop) Subscribe(context.Context, Handler) (func(), error) { return func() {}, nil }

func (Noop) Close() error { return nil }
