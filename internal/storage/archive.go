package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/AioliaTech/api-ia/internal/domain"
	"github.com/AioliaTech/api-ia/internal/inventory"
)

// SnapshotArchive stores inventory snapshots through a SnapshotRepository.
// It implements inventory.Archive.
type SnapshotArchive struct {
	repo *SnapshotRepository
	// Keep bounds how many snapshots are retained; zero keeps all.
	keep int
}

// NewSnapshotArchive creates an archive that retains the newest keep snapshots.
func NewSnapshotArchive(db DB, keep int) *SnapshotArchive {
	return &SnapshotArchive{repo: NewSnapshotRepository(db), keep: keep}
}

// SaveSnapshot implements inventory.Archive.
func (a *SnapshotArchive) SaveSnapshot(ctx context.Context, s *inventory.Snapshot) error {
	payload, err := inventory.MarshalVehicles(s.Vehicles())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rec := &SnapshotRecord{
		ID:           s.ID,
		Source:       s.Source,
		VehicleCount: s.Len(),
		Payload:      payload,
		LoadedAt:     s.LoadedAt,
	}
	if err := a.repo.Create(ctx, rec); err != nil {
		return domain.IOError("archive snapshot", err)
	}
	if a.keep > 0 {
		if _, err := a.repo.Prune(ctx, a.keep); err != nil {
			return domain.IOError("prune snapshots", err)
		}
	}
	return nil
}

// LatestSnapshot implements inventory.Archive.
func (a *SnapshotArchive) LatestSnapshot(ctx context.Context) (*inventory.Snapshot, error) {
	rec, err := a.repo.Latest(ctx)
	if errors.Is(err, ErrNotFound) {
		return nil, domain.DataError("no archived inventory snapshot", domain.ErrInventoryUnavailable)
	}
	if err != nil {
		return nil, domain.IOError("load archived snapshot", err)
	}
	vehicles, err := inventory.UnmarshalVehicles(rec.Payload)
	if err != nil {
		return nil, err
	}
	return inventory.RestoreSnapshot(rec.ID, rec.LoadedAt, rec.Source, vehicles), nil
}
