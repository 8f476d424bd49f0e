package search

import (
	"github.com/AioliaTech/api-ia/internal/inventory"
	"github.com/AioliaTech/api-ia/internal/ranking"
)

// Response is the answer to one search, in the wire shape clients consume.
type Response struct {
	Query        string                `json:"query_original"`
	Criteria     map[string]any        `json:"parametros_extraidos"`
	Total        int                   `json:"total_encontrado"`
	Results      []inventory.Vehicle   `json:"resultados"`
	Alternatives *AlternativesResponse `json:"alternativas,omitempty"`

	// SnapshotID identifies the inventory the response was computed from.
	SnapshotID string `json:"-"`
	Cached     bool   `json:"-"`
}

// AlternativesResponse carries fallback suggestions for an empty result.
type AlternativesResponse struct {
	Criteria map[string]any      `json:"criterios"`
	Basis    string              `json:"base"`
	Message  string              `json:"mensagem"`
	Total    int                 `json:"total_encontrado"`
	Results  []inventory.Vehicle `json:"resultados"`
}

func newResponse(query, snapshotID string, out ranking.Outcome) *Response {
	resp := &Response{
		Query:      query,
		Criteria:   out.Criteria.Flatten(),
		Total:      out.Result.Total,
		Results:    out.Result.Vehicles(),
		SnapshotID: snapshotID,
	}
	if alt := out.Alternatives; alt != nil {
		resp.Alternatives = &AlternativesResponse{
			Criteria: alt.Criteria.Flatten(),
			Basis:    alt.Basis,
			Message:  alt.Note,
			Total:    alt.Total,
			Results:  alt.Vehicles(),
		}
	}
	return resp
}
