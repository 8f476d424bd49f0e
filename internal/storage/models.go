package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SnapshotRecord is an archived inventory snapshot. Payload holds the
// vehicles as a JSON array.
type SnapshotRecord struct {
	ID           string          `json:"id" db:"id"`
	Source       string          `json:"source" db:"source"`
	VehicleCount int             `json:"vehicle_count" db:"vehicle_count"`
	Payload      json.RawMessage `json:"payload" db:"payload"`
	LoadedAt     time.Time       `json:"loaded_at" db:"loaded_at"`
}

// SearchEvent records one answered search.
type SearchEvent struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	RequestID    string          `json:"request_id,omitempty" db:"request_id"`
	Query        string          `json:"query" db:"query"`
	Criteria     json.RawMessage `json:"criteria" db:"criteria"`
	SnapshotID   string          `json:"snapshot_id,omitempty" db:"snapshot_id"`
	TotalFound   int             `json:"total_found" db:"total_found"`
	Returned     int             `json:"returned" db:"returned"`
	Alternatives int             `json:"alternatives" db:"alternatives"`
	Cached       bool            `json:"cached" db:"cached"`
	DurationMS   int64           `json:"duration_ms" db:"duration_ms"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// QueryStat is the number of times a query text was searched.
type QueryStat struct {
	Query      string `json:"query"`
	Count      int    `json:"count"`
	ZeroResult int    `json:"zero_result"`
}
