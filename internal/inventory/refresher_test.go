package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AioliaTech/api-ia/internal/domain"
)

type stubSource struct {
	mu       sync.Mutex
	vehicles []Vehicle
	err      error
	calls    int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context) ([]Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.vehicles, s.err
}

type memoryArchive struct {
	mu    sync.Mutex
	saved []*Snapshot
}

func (a *memoryArchive) SaveSnapshot(ctx context.Context, s *Snapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saved = append(a.saved, s)
	return nil
}

func (a *memoryArchive) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.saved) == 0 {
		return nil, domain.DataError("no archived snapshot", domain.ErrInventoryUnavailable)
	}
	return a.saved[len(a.saved)-1], nil
}

func TestRefresher_InstallsSnapshot(t *testing.T) {
	src := &stubSource{vehicles: []Vehicle{{ID: "1"}, {ID: "2"}}}
	provider := NewProvider()
	archive := &memoryArchive{}
	path := filepath.Join(t.TempDir(), "dados.json")

	r := NewRefresher(RefresherConfig{Source: src, Provider: provider, Archive: archive, WritePath: path})

	var gotOld, gotNew *Snapshot
	r.OnRefresh(func(ctx context.Context, old, current *Snapshot) {
		gotOld, gotNew = old, current
	})

	snap, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Len())
	assert.Same(t, snap, provider.Current())
	assert.Nil(t, gotOld)
	assert.Same(t, snap, gotNew)
	require.Len(t, archive.saved, 1)

	decoded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, decoded.Vehicles, 2)
	assert.NoError(t, r.Status().LastErr)
}

func TestRefresher_FailureKeepsCurrentSnapshot(t *testing.T) {
	src := &stubSource{vehicles: []Vehicle{{ID: "1"}}}
	provider := NewProvider()
	r := NewRefresher(RefresherConfig{Source: src, Provider: provider})

	first, err := r.Refresh(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name     string
		vehicles []Vehicle
		err      error
	}{
		{"source error", nil, errors.New("feed down")},
		{"empty result", []Vehicle{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src.mu.Lock()
			src.vehicles, src.err = tt.vehicles, tt.err
			src.mu.Unlock()

			_, err := r.Refresh(context.Background())
			require.Error(t, err)
			assert.Same(t, first, provider.Current())
			assert.Error(t, r.Status().LastErr)
		})
	}
}

func TestRefresher_NoSource(t *testing.T) {
	r := NewRefresher(RefresherConfig{Provider: NewProvider()})
	_, err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConfig, domain.TypeOf(err))
	assert.Equal(t, err, r.Status().LastErr)
	assert.False(t, r.cfg.Provider.Loaded())
}

func TestStoreSource_RestoresLatest(t *testing.T) {
	archive := &memoryArchive{}
	require.NoError(t, archive.SaveSnapshot(context.Background(), NewSnapshot([]Vehicle{{ID: "7"}}, "http:feed")))

	vehicles, err := NewStoreSource(archive).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 1)
	assert.Equal(t, Text("7"), vehicles[0].ID)
}

func TestHTTPSource_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/estoque.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<estoque><veiculo><id>1</id><modelo>Compass</modelo></veiculo></estoque>`))
	})
	mux.HandleFunc("/dados.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"veiculos":[{"id":"1","modelo":"Kwid"},{"id":"2","modelo":"Mobi"}]}`))
	})
	mux.HandleFunc("/down.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Run("xml", func(t *testing.T) {
		vehicles, err := NewHTTPSource(HTTPSourceConfig{URL: srv.URL + "/estoque.xml"}).Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, vehicles, 1)
		assert.Equal(t, Text("Compass"), vehicles[0].Model)
	})

	t.Run("json detected from extension", func(t *testing.T) {
		vehicles, err := NewHTTPSource(HTTPSourceConfig{URL: srv.URL + "/dados.json"}).Fetch(context.Background())
		require.NoError(t, err)
		assert.Len(t, vehicles, 2)
	})

	t.Run("upstream error", func(t *testing.T) {
		_, err := NewHTTPSource(HTTPSourceConfig{URL: srv.URL + "/down.xml", Timeout: time.Second}).Fetch(context.Background())
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeUpstream, domain.TypeOf(err))
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := NewHTTPSource(HTTPSourceConfig{}).Fetch(context.Background())
		require.Error(t, err)
		assert.Equal(t, domain.ErrorTypeConfig, domain.TypeOf(err))
	})
}
