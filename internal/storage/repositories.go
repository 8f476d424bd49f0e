package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SnapshotRepository handles archived inventory snapshots.
type SnapshotRepository struct {
	db DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create archives a snapshot.
func (r *SnapshotRepository) Create(ctx context.Context, rec *SnapshotRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.LoadedAt.IsZero() {
		rec.LoadedAt = time.Now()
	}
	rec.LoadedAt = rec.LoadedAt.UTC()

	query := `
		INSERT INTO inventory_snapshots (id, source, vehicle_count, payload, loaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Source, rec.VehicleCount, string(rec.Payload), rec.LoadedAt,
	)
	return err
}

// Latest returns the most recently loaded snapshot.
func (r *SnapshotRepository) Latest(ctx context.Context) (*SnapshotRecord, error) {
	query := `
		SELECT id, source, vehicle_count, payload, loaded_at
		FROM inventory_snapshots
		ORDER BY loaded_at DESC
		LIMIT 1
	`
	rec := &SnapshotRecord{}
	var payload string
	err := r.db.QueryRowContext(ctx, query).Scan(
		&rec.ID, &rec.Source, &rec.VehicleCount, &payload, &rec.LoadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Payload = []byte(payload)
	return rec, nil
}

// List returns snapshot metadata, newest first, without payloads.
func (r *SnapshotRepository) List(ctx context.Context, limit int) ([]*SnapshotRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, source, vehicle_count, loaded_at
		FROM inventory_snapshots
		ORDER BY loaded_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*SnapshotRecord
	for rows.Next() {
		rec := &SnapshotRecord{}
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.VehicleCount, &rec.LoadedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Prune deletes all but the newest keep snapshots and returns how many
// were removed.
func (r *SnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	query := `
		DELETE FROM inventory_snapshots
		WHERE id NOT IN (
			SELECT id FROM inventory_snapshots ORDER BY loaded_at DESC LIMIT $1
		)
	`
	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SearchEventRepository handles search audit events.
type SearchEventRepository struct {
	db DB
}

// NewSearchEventRepository creates a new search event repository.
func NewSearchEventRepository(db DB) *SearchEventRepository {
	return &SearchEventRepository{db: db}
}

// Create records a search event.
func (r *SearchEventRepository) Create(ctx context.Context, event *SearchEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.CreatedAt = event.CreatedAt.UTC()
	criteria := string(event.Criteria)
	if criteria == "" {
		criteria = "{}"
	}

	query := `
		INSERT INTO search_events (id, request_id, query, criteria, snapshot_id, total_found,
			returned, alternatives, cached, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID.String(), event.RequestID, event.Query, criteria, event.SnapshotID, event.TotalFound,
		event.Returned, event.Alternatives, event.Cached, event.DurationMS, event.CreatedAt,
	)
	return err
}

// ListRecent returns the newest events.
func (r *SearchEventRepository) ListRecent(ctx context.Context, limit int) ([]*SearchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, request_id, query, criteria, snapshot_id, total_found,
			returned, alternatives, cached, duration_ms, created_at
		FROM search_events
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*SearchEvent
	for rows.Next() {
		event := &SearchEvent{}
		var id, criteria string
		var requestID, snapshotID sql.NullString
		if err := rows.Scan(
			&id, &requestID, &event.Query, &criteria, &snapshotID, &event.TotalFound,
			&event.Returned, &event.Alternatives, &event.Cached, &event.DurationMS, &event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if event.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		event.RequestID = requestID.String
		event.SnapshotID = snapshotID.String
		event.Criteria = []byte(criteria)
		events = append(events, event)
	}
	return events, rows.Err()
}

// TopQueries returns the most frequent queries since a point in time.
func (r *SearchEventRepository) TopQueries(ctx context.Context, since time.Time, limit int) ([]QueryStat, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT query, COUNT(*) AS n, SUM(CASE WHEN total_found = 0 THEN 1 ELSE 0 END) AS zero
		FROM search_events
		WHERE created_at >= $1
		GROUP BY query
		ORDER BY n DESC, query ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, since.UTC(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []QueryStat
	for rows.Next() {
		var s QueryStat
		if err := rows.Scan(&s.Query, &s.Count, &s.ZeroResult); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
