package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/observability"
	"github.com/AioliaTech/api-ia/internal/storage"
)

// Refresher installs a new inventory snapshot on demand.
type Refresher interface {
	Refresh(ctx context.Context) (*inventory.Snapshot, error)
	Status() inventory.Status
}

// QueryStats reports search usage.
type QueryStats interface {
	TopQueries(ctx context.Context, since time.Time, limit int) ([]storage.QueryStat, error)
}

// InventoryHandler exposes the active snapshot and refresh control.
type InventoryHandler struct {
	logger    *observability.Logger
	reader    inventory.Reader
	refresher Refresher
	stats     QueryStats
}

// NewInventoryHandler creates an inventory handler. stats may be nil.
func NewInventoryHandler(logger *observability.Logger, reader inventory.Reader, refresher Refresher, stats QueryStats) *InventoryHandler {
	return &InventoryHandler{
		logger:    logger,
		reader:    reader,
		refresher: refresher,
		stats:     stats,
	}
}

// InventoryStatusDTO describes the served snapshot.
type InventoryStatusDTO struct {
	SnapshotID  string     `json:"snapshot_id,omitempty"`
	Source      string     `json:"source,omitempty"`
	Vehicles    int        `json:"vehicles"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

func (h *InventoryHandler) status(snap *inventory.Snapshot) InventoryStatusDTO {
	dto := InventoryStatusDTO{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		Vehicles:   snap.Len(),
	}
	if !snap.LoadedAt.IsZero() {
		loadedAt := snap.LoadedAt
		dto.LoadedAt = &loadedAt
	}
	st := h.refresher.Status()
	if !st.LastRun.IsZero() {
		lastRun := st.LastRun
		dto.LastRefresh = &lastRun
	}
	if st.LastErr != nil {
		dto.LastError = st.LastErr.Error()
	}
	return dto
}

// Status handles GET /api/inventory.
func (h *InventoryHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, h.status(h.reader.Current()))
}

// Refresh handles POST /api/inventory/refresh. A failed refresh keeps the
// previous snapshot and answers 502 with the current status.
func (h *InventoryHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.refresher.Refresh(r.Context())
	if err != nil {
		h.logger.Warn().Err(err).Msg("Manual inventory refresh failed")
		writeError(w, http.StatusBadGateway, "inventory refresh failed", err.Error())
		return
	}
	writeJSON(h.logger, w, http.StatusOK, h.status(snap))
}

// TopQueries handles GET /api/search/stats?hours=24&limit=20.
func (h *InventoryHandler) TopQueries(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		writeJSON(h.logger, w, http.StatusOK, []storage.QueryStat{})
		return
	}
	hours := intParam(r, "hours", 24)
	limit := intParam(r, "limit", 20)

	stats, err := h.stats.TopQueries(r.Context(), time.Now().Add(-time.Duration(hours)*time.Hour), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load query stats")
		writeError(w, http.StatusInternalServerError, "failed to load query stats", err.Error())
		return
	}
	if stats == nil {
		stats = []storage.QueryStat{}
	}
	writeJSON(h.logger, w, http.StatusOK, stats)
}

func intParam(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
