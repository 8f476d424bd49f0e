package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/AioliaTech/api-ia/internal/domain"
	"github.com/AioliaTech/api-ia/internal/normalize"
	"github.com/AioliaTech/api-ia/internal/observability"
)

// FIPEConfig configures the FIPE catalogue crawler.
type FIPEConfig struct {
	BaseURL         string
	RequestInterval time.Duration
	Burst           int
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// DefaultFIPEConfig returns the public parallelum endpoint with a polite
// request rate.
func DefaultFIPEConfig() FIPEConfig {
	return FIPEConfig{
		BaseURL:         "https://parallelum.com.br/fipe/api/v1/carros",
		RequestInterval: 200 * time.Millisecond,
		Burst:           5,
		Timeout:         30 * time.Second,
	}
}

// FIPEClient crawls the FIPE brand and model catalogue.
type FIPEClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *observability.Logger
}

// ProgressFunc is called after each brand is processed.
type ProgressFunc func(done, total int, brand string)

// NewFIPEClient creates a crawler. Zero config fields fall back to
// DefaultFIPEConfig.
func NewFIPEClient(cfg FIPEConfig, logger *observability.Logger) *FIPEClient {
	def := DefaultFIPEConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = def.RequestInterval
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	return &FIPEClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(rate.Every(cfg.RequestInterval), cfg.Burst),
		logger:  logger.WithOperation("fipe_crawl"),
	}
}

// fipeCode accepts FIPE codes that arrive as either strings or numbers.
type fipeCode string

func (c *fipeCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = fipeCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("fipe code: %w", err)
	}
	*c = fipeCode(n.String())
	return nil
}

type fipeItem struct {
	Code fipeCode `json:"codigo"`
	Name string   `json:"nome"`
}

type fipeModels struct {
	Models []fipeItem `json:"modelos"`
}

// Crawl fetches every brand and its model list. A failing brand is logged
// and skipped; failing to list brands aborts the crawl.
func (c *FIPEClient) Crawl(ctx context.Context, progress ProgressFunc) (*File, error) {
	var brands []fipeItem
	if err := c.getJSON(ctx, c.baseURL+"/marcas", &brands); err != nil {
		return nil, domain.UpstreamError("list FIPE brands", err)
	}

	c.logger.Info().Int("brands", len(brands)).Msg("Crawling FIPE catalogue")

	f := &File{}
	for i, brand := range brands {
		f.Brands = append(f.Brands, strings.ToLower(brand.Name))

		var models fipeModels
		url := fmt.Sprintf("%s/marcas/%s/modelos", c.baseURL, brand.Code)
		if err := c.getJSON(ctx, url, &models); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn().Err(err).Str("brand", brand.Name).Msg("Skipping brand without models")
		} else {
			for _, m := range models.Models {
				version := strings.ToLower(strings.TrimSpace(m.Name))
				if version == "" {
					continue
				}
				f.Versions = append(f.Versions, version)
				if base := BaseModel(version); base != "" {
					f.Models = append(f.Models, base)
				}
			}
		}

		if progress != nil {
			progress(i+1, len(brands), brand.Name)
		}
	}

	f.Sort()
	c.logger.Info().
		Int("brands", len(f.Brands)).
		Int("models", len(f.Models)).
		Int("versions", len(f.Versions)).
		Msg("FIPE crawl complete")
	return f, nil
}

// twoWordPrefixes start model names that need their second word to be
// meaningful ("grand siena", "santa fe", "land cruiser").
var twoWordPrefixes = map[string]bool{
	"grand": true, "santa": true, "land": true, "range": true, "new": true,
	"nova": true, "novo": true, "space": true, "bronco": true,
}

// BaseModel derives the base model name from a full FIPE version string,
// e.g. "onix hatch lt 1.0 8v flex 5p mec." → "onix".
func BaseModel(version string) string {
	tokens := normalize.Tokens(version)
	if len(tokens) == 0 {
		return ""
	}
	if twoWordPrefixes[tokens[0]] && len(tokens) > 1 {
		return tokens[0] + " " + tokens[1]
	}
	return tokens[0]
}

func (c *FIPEClient) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
