// Package search answers free-text vehicle queries against the active
// inventory snapshot.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AioliaTech/api-ia/internal/cache"
	"github.com/AioliaTech/api-ia/internal/domain"
	"github.com/AioliaTech/api-ia/internal/events"
	"github.com/AioliaTech/api-ia/internal/interpreter"
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/monitoring"
	"github.com/AioliaTech/api-ia/internal/observability"
	"github.com/AioliaTech/api-ia/internal/ranking"
)

var tracer = otel.Tracer("github.com/AioliaTech/api-ia/internal/search")

// Service runs the interpret, filter and rank pipeline. It is safe for
// concurrent use; each call reads one snapshot for its whole evaluation.
type Service struct {
	reader      inventory.Reader
	interpreter *interpreter.Interpreter
	engine      *ranking.Engine
	logger      *observability.Logger

	cache    cache.Client
	cacheTTL time.Duration
	audit    *monitoring.AuditLogger
}

// Option configures a Service.
type Option func(*Service)

// WithCache caches responses per snapshot and normalized query.
func WithCache(c cache.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithAudit records every answered search.
func WithAudit(a *monitoring.AuditLogger) Option {
	return func(s *Service) {
		s.audit = a
	}
}

// NewService creates a search service.
func NewService(reader inventory.Reader, interp *interpreter.Interpreter, engine *ranking.Engine, logger *observability.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	s := &Service{
		reader:      reader,
		interpreter: interp,
		engine:      engine,
		logger:      logger.WithOperation("search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search interprets query and ranks the current inventory against it.
// It fails with a data error when no inventory is loaded and with a
// validation error when the query is blank, in that order.
func (s *Service) Search(ctx context.Context, query string) (*Response, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "search.Search")
	defer span.End()

	snap := s.reader.Current()
	if snap.Empty() {
		err := domain.DataError("no vehicles available", domain.ErrInventoryUnavailable)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		err := domain.ValidationError("query must not be blank", domain.ErrEmptyQuery)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("search.snapshot_id", snap.ID),
		attribute.Int("search.inventory_size", snap.Len()),
	)

	key := cache.SearchKey(snap.ID, query)
	if resp, ok := s.cached(ctx, key); ok {
		resp.Query = query
		resp.SnapshotID = snap.ID
		resp.Cached = true
		span.SetAttributes(attribute.Bool("search.cached", true))
		s.record(ctx, resp, time.Since(start))
		return resp, nil
	}

	c := s.interpreter.Interpret(query)
	out := s.engine.Search(c, snap.Vehicles())
	resp := newResponse(query, snap.ID, out)

	span.SetAttributes(
		attribute.Int("search.total", resp.Total),
		attribute.Bool("search.alternatives", resp.Alternatives != nil),
	)
	s.log(ctx).Debug().
		Str("snapshot_id", snap.ID).
		Int("criteria", len(resp.Criteria)).
		Int("total", resp.Total).
		Bool("alternatives", resp.Alternatives != nil).
		Msg("Search evaluated")
	s.store(ctx, key, resp)
	s.record(ctx, resp, time.Since(start))
	return resp, nil
}

func (s *Service) log(ctx context.Context) *observability.Logger {
	return s.logger.WithRequestID(middleware.GetReqID(ctx)).WithTrace(ctx)
}

// Interpret returns the criteria extracted from query without searching.
func (s *Service) Interpret(query string) (map[string]any, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ValidationError("query must not be blank", domain.ErrEmptyQuery)
	}
	c := s.interpreter.Interpret(query)
	return c.Flatten(), nil
}

// InvalidateCache drops every cached response.
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeleteByPrefix(ctx, cache.SearchPrefix)
}

// RefreshListener purges cached responses whenever a new snapshot is
// installed locally.
func (s *Service) RefreshListener() inventory.Listener {
	return func(ctx context.Context, _, current *inventory.Snapshot) {
		s.purge(ctx, current.ID)
	}
}

// EventHandler purges cached responses when another instance announces a
// refresh.
func (s *Service) EventHandler() events.Handler {
	return func(ctx context.Context, evt events.InventoryRefreshed) {
		s.purge(ctx, evt.SnapshotID)
	}
}

func (s *Service) purge(ctx context.Context, snapshotID string) {
	if err := s.InvalidateCache(ctx); err != nil {
		s.logger.Warn().Err(err).Str("snapshot_id", snapshotID).Msg("Failed to purge search cache")
		return
	}
	s.logger.Debug().Str("snapshot_id", snapshotID).Msg("Search cache purged")
}

func (s *Service) cached(ctx context.Context, key string) (*Response, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log(ctx).Warn().Err(err).Msg("Search cache read failed")
		}
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		s.log(ctx).Warn().Err(err).Msg("Discarding malformed cached response")
		return nil, false
	}
	return &resp, true
}

func (s *Service) store(ctx context.Context, key string, resp *Response) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		s.log(ctx).Warn().Err(err).Msg("Failed to encode response for cache")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log(ctx).Warn().Err(err).Msg("Search cache write failed")
	}
}

func (s *Service) record(ctx context.Context, resp *Response, elapsed time.Duration) {
	if s.audit == nil {
		return
	}
	audit := monitoring.SearchAudit{
		RequestID:  middleware.GetReqID(ctx),
		Query:      resp.Query,
		Criteria:   resp.Criteria,
		SnapshotID: resp.SnapshotID,
		TotalFound: resp.Total,
		Returned:   len(resp.Results),
		Cached:     resp.Cached,
		Duration:   elapsed,
	}
	if resp.Alternatives != nil {
		audit.Alternatives = len(resp.Alternatives.Results)
	}
	if err := s.audit.LogSearch(ctx, audit); err != nil {
		s.log(ctx).Debug().Err(err).Msg("Search audit not persisted")
	}
}
