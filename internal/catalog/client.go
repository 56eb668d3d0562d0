package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	oneHour           = 60 * 60
	lookupCacheExpire = oneHour
	// lookup lists are short, this only guards against a runaway next chain
	maxLookupPages = 20

	SelectItemLabel = "Select item"
)

var ErrCatalogUnavailable = errors.New("catalog unavailable")

type Client struct {
	cache          *freecache.Cache
	baseURL        string // https://wger.de/api/v2
	language       int
	httpClient     *http.Client
	metricsManager *metrics.Manager
}

func NewClient(baseURL string, language int, httpClient *http.Client, metricsManager *metrics.Manager) *Client {
	megabyte := 1024 * 1024
	return &Client{
		cache:          freecache.NewCache(5 * megabyte),
		baseURL:        baseURL,
		language:       language,
		httpClient:     httpClient,
		metricsManager: metricsManager,
	}
}

func (c *Client) ListCategories(ctx context.Context) ([]Lookup, error) {
	return c.listLookup(ctx, "exercisecategory")
}

func (c *Client) ListEquipment(ctx context.Context) ([]Lookup, error) {
	return c.listLookup(ctx, "equipment")
}

// SearchURL builds the first page URL for the given search params; empty params are omitted.
func (c *Client) SearchURL(params SearchParams) string {
	searchURL := fmt.Sprintf("%s/exercise/?language=%d", c.baseURL, c.language)
	if params.Category != "" {
		searchURL += "&category=" + url.QueryEscape(params.Category)
	}
	if params.Equipment != "" {
		searchURL += "&equipment=" + url.QueryEscape(params.Equipment)
	}
	if params.Name != "" {
		searchURL += "&name=" + url.QueryEscape(params.Name)
	}
	return searchURL
}

func (c *Client) Search(ctx context.Context, params SearchParams) (_ *Page, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.search")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("search.name", params.Name),
		attribute.String("search.category", params.Category),
		attribute.String("search.equipment", params.Equipment),
	)

	page := &Page{}
	if err := c.getJSON(ctx, "exercise", c.SearchURL(params), page); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("search.count", page.Count))

	return page, nil
}

// Next fetches the page behind a next URL returned by a previous Search or Next call.
// The URL is followed verbatim.
func (c *Client) Next(ctx context.Context, nextURL string) (_ *Page, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.next")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	u, err := url.Parse(nextURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid next page url [%s]", nextURL)
	}

	page := &Page{}
	if err := c.getJSON(ctx, "exercise", nextURL, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) listLookup(ctx context.Context, endpoint string) (_ []Lookup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.listLookup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("endpoint", endpoint))

	cacheKey := []byte("lookup::" + endpoint)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		var lookups []Lookup
		if err := json.Unmarshal(cached, &lookups); err == nil {
			span.SetAttributes(attribute.Bool("from-cache", true))
			return lookups, nil
		}
		log.Errorf("failed to unmarshal cached %s lookups: %s", endpoint, err)
	}

	lookups := []Lookup{{Label: SelectItemLabel, Value: nil}}
	pageURL := fmt.Sprintf("%s/%s/", c.baseURL, endpoint)
	for i := 0; i < maxLookupPages && pageURL != ""; i++ {
		page := &lookupPage{}
		if err := c.getJSON(ctx, endpoint, pageURL, page); err != nil {
			return nil, err
		}
		for _, r := range page.Results {
			id := strconv.Itoa(r.ID)
			lookups = append(lookups, Lookup{Label: r.Name, Value: &id})
		}
		pageURL = ""
		if page.Next != nil {
			pageURL = *page.Next
		}
	}

	if lookupsJson, err := json.Marshal(lookups); err == nil {
		if err := c.cache.Set(cacheKey, lookupsJson, lookupCacheExpire); err != nil {
			log.Errorf("failed to cache %s lookups: %s", endpoint, err)
		}
	}

	return lookups, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, target any) (err error) {
	start := time.Now()
	status := "error"
	defer func() {
		c.metricsManager.CounterCatalogRequests.WithLabelValues(endpoint, status).Inc()
		c.metricsManager.HistogramCatalogLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	log.Debugf("calling catalog api: %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("new catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gymlog-backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrCatalogUnavailable, resp.StatusCode, endpoint)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrCatalogUnavailable, err)
	}

	if err := json.Unmarshal(respBytes, target); err != nil {
		return fmt.Errorf("%w: unmarshal response: %w", ErrCatalogUnavailable, err)
	}

	return nil
}
