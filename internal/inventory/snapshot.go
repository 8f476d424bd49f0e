package inventory

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable, complete view of the inventory. Searches hold
// a *Snapshot for their whole evaluation; a refresh never mutates one, it
// installs a new one.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Source   string
	vehicles []Vehicle
}

// NewSnapshot copies vehicles into a fresh snapshot.
func NewSnapshot(vehicles []Vehicle, source string) *Snapshot {
	own := make([]Vehicle, len(vehicles))
	copy(own, vehicles)
	return &Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: time.Now().UTC(),
		Source:   source,
		vehicles: own,
	}
}

// Vehicles returns the records. The slice is shared between all readers
// and must not be modified.
func (s *Snapshot) Vehicles() []Vehicle {
	if s == nil {
		return nil
	}
	return s.vehicles
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.vehicles)
}

// Empty reports whether the snapshot has no records.
func (s *Snapshot) Empty() bool {
	return s.Len() == 0
}

// Reader is the read side of a Provider. Search components depend only on this.
type Reader interface {
	Current() *Snapshot
}

// Provider holds the active snapshot behind an atomic pointer. Readers
// always observe a complete snapshot, old or new.
type Provider struct {
	current atomic.Pointer[Snapshot]
}

var emptySnapshot = &Snapshot{}

// NewProvider creates a provider with no snapshot loaded.
func NewProvider() *Provider {
	return &Provider{}
}

// Current returns the active snapshot. Before the first Replace it returns
// an empty snapshot with no ID, never nil.
func (p *Provider) Current() *Snapshot {
	if s := p.current.Load(); s != nil {
		return s
	}
	return emptySnapshot
}

// Replace installs s and returns the snapshot it replaced (nil on first
// load). A nil s is ignored.
func (p *Provider) Replace(s *Snapshot) *Snapshot {
	if s == nil {
		return p.current.Load()
	}
	return p.current.Swap(s)
}

// Loaded reports whether a snapshot has ever been installed.
func (p *Provider) Loaded() bool {
	return p.current.Load() != nil
}

// RestoreSnapshot rebuilds a snapshot that was archived earlier, keeping its
// identity and load time.
func RestoreSnapshot(id string, loadedAt time.Time, source string, vehicles []Vehicle) *Snapshot {
	s := NewSnapshot(vehicles, source)
	if id != "" {
		s.ID = id
	}
	if !loadedAt.IsZero() {
		s.LoadedAt = loadedAt.UTC()
	}
	return s
}
