package inventory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/AioliaTech/api-ia/internal/domain"
)

// Source produces the full vehicle list for a new snapshot.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Vehicle, error)
}

// Archive persists snapshots so a later process can restore them.
type Archive interface {
	SaveSnapshot(ctx context.Context, s *Snapshot) error
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
}

// FileSource reads a dados.json document from disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a file source.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file:" + s.Path }

// Fetch implements Source.
func (s *FileSource) Fetch(ctx context.Context) ([]Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	decoded, err := LoadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return decoded.Vehicles, nil
}

// Feed formats understood by HTTPSource.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// HTTPSourceConfig configures an HTTPSource.
type HTTPSourceConfig struct {
	URL     string
	Format  string
	Timeout time.Duration
	// RequestsPerSecond bounds outgoing fetches; zero disables the limit.
	RequestsPerSecond float64
}

// HTTPSource downloads a dealer feed. XML feeds are converted to vehicles;
// JSON feeds use the dados.json layout.
type HTTPSource struct {
	cfg     HTTPSourceConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPSource creates a feed source with an instrumented HTTP client.
func NewHTTPSource(cfg HTTPSourceConfig) *HTTPSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Format == "" {
		cfg.Format = detectFormat(cfg.URL)
	}
	src := &HTTPSource{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	if cfg.RequestsPerSecond > 0 {
		src.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return src
}

func detectFormat(url string) string {
	if strings.HasSuffix(strings.ToLower(strings.SplitN(url, "?", 2)[0]), ".json") {
		return FormatJSON
	}
	return FormatXML
}

func (s *HTTPSource) Name() string { return "http:" + s.cfg.URL }

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Vehicle, error) {
	if s.cfg.URL == "" {
		return nil, domain.ConfigError("inventory feed URL not configured", nil)
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, domain.ConfigError("build feed request", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.UpstreamError("fetch inventory feed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.UpstreamError(fmt.Sprintf("inventory feed returned %d", resp.StatusCode), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.UpstreamError("read inventory feed", err)
	}

	switch s.cfg.Format {
	case FormatJSON:
		decoded, err := Decode(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		return decoded.Vehicles, nil
	default:
		return ParseXMLFeed(bytes.NewReader(body))
	}
}

// StoreSource restores the latest archived snapshot.
type StoreSource struct {
	archive Archive
}

// NewStoreSource creates a source backed by an archive.
func NewStoreSource(archive Archive) *StoreSource {
	return &StoreSource{archive: archive}
}

func (s *StoreSource) Name() string { return "store" }

// Fetch implements Source.
func (s *StoreSource) Fetch(ctx context.Context) ([]Vehicle, error) {
	snap, err := s.archive.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Vehicles(), nil
}
