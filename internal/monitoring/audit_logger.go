// Package monitoring provides search audit logging and inventory staleness
// detection.
package monitoring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/AioliaTech/api-ia/internal/observability"
	"github.com/AioliaTech/api-ia/internal/storage"
)

// SearchEventStore persists search audit events.
type SearchEventStore interface {
	Create(ctx context.Context, event *storage.SearchEvent) error
	ListRecent(ctx context.Context, limit int) ([]*storage.SearchEvent, error)
	TopQueries(ctx context.Context, since time.Time, limit int) ([]storage.QueryStat, error)
}

// AuditLogger records every answered search.
type AuditLogger struct {
	logger *observability.Logger
	store  SearchEventStore
}

// SearchAudit describes one answered search.
type SearchAudit struct {
	RequestID    string
	Query        string
	Criteria     map[string]interface{}
	SnapshotID   string
	TotalFound   int
	Returned     int
	Alternatives int
	Cached       bool
	Duration     time.Duration
}

// NewAuditLogger creates an audit logger. store may be nil, in which case
// events are only logged.
func NewAuditLogger(logger *observability.Logger, store SearchEventStore) *AuditLogger {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &AuditLogger{
		logger: logger,
		store:  store,
	}
}

// LogSearch records a search event. Persistence failures are logged and
// returned but never affect the response already computed.
func (a *AuditLogger) LogSearch(ctx context.Context, audit SearchAudit) error {
	event := &storage.SearchEvent{
		ID:           uuid.New(),
		RequestID:    audit.RequestID,
		Query:        audit.Query,
		SnapshotID:   audit.SnapshotID,
		TotalFound:   audit.TotalFound,
		Returned:     audit.Returned,
		Alternatives: audit.Alternatives,
		Cached:       audit.Cached,
		DurationMS:   audit.Duration.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if audit.Criteria != nil {
		payload, err := json.Marshal(audit.Criteria)
		if err == nil {
			event.Criteria = payload
		}
	}

	a.logger.Info().
		Str("event_id", event.ID.String()).
		Str("request_id", event.RequestID).
		Str("query", event.Query).
		Str("snapshot_id", event.SnapshotID).
		Int("total_found", event.TotalFound).
		Int("returned", event.Returned).
		Int("alternatives", event.Alternatives).
		Bool("cached", event.Cached).
		Int64("duration_ms", event.DurationMS).
		Msg("Search event")

	if a.store == nil {
		return nil
	}
	if err := a.store.Create(ctx, event); err != nil {
		a.logger.Warn().Err(err).Str("event_id", event.ID.String()).Msg("Failed to persist search event")
		return err
	}
	return nil
}

// Recent returns the latest search events, newest first.
func (a *AuditLogger) Recent(ctx context.Context, limit int) ([]*storage.SearchEvent, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.ListRecent(ctx, limit)
}

// TopQueries returns the most frequent queries since the given time.
func (a *AuditLogger) TopQueries(ctx context.Context, since time.Time, limit int) ([]storage.QueryStat, error) {
	if a.store == nil {
		return nil, nil
	}
	return a.store.TopQueries(ctx, since, limit)
}
