package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AioliaTech/api-ia/internal/observability"
	"github.com/AioliaTech/api-ia/internal/search"
)

// Searcher answers free-text queries.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
	Interpret(query string) (map[string]any, error)
}

// SearchHandler handles search requests.
type SearchHandler struct {
	logger   *observability.Logger
	searcher Searcher
	ready    func() bool
}

// NewSearchHandler creates a search handler. ready reports whether an
// inventory is being served.
func NewSearchHandler(logger *observability.Logger, searcher Searcher, ready func() bool) *SearchHandler {
	return &SearchHandler{
		logger:   logger,
		searcher: searcher,
		ready:    ready,
	}
}

// QueryRequest is the body of search and interpret requests.
type QueryRequest struct {
	Query string `json:"query"`
}

// InterpretResponse echoes the extracted criteria.
type InterpretResponse struct {
	Query    string         `json:"query_original"`
	Criteria map[string]any `json:"parametros_extraidos"`
}

// Search handles POST /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		writeError(w, http.StatusServiceUnavailable, msgInventoryUnavailable, "")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.searcher.Search(r.Context(), req.Query)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, resp)
}

// Interpret handles POST /api/interpret.
func (h *SearchHandler) Interpret(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	criteria, err := h.searcher.Interpret(req.Query)
	if err != nil {
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, InterpretResponse{Query: req.Query, Criteria: criteria})
}
