package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const addressCacheTTL = 30 * 24 * time.Hour

var ErrAddressNotFound = errors.New("address not found")

// Client reverse geocodes coordinates with nominatim, caching addresses in redis.
type Client struct {
	mu             sync.Mutex
	baseURL        string // https://nominatim.openstreetmap.org
	httpClient     *http.Client
	redisClient    *redis.Client
	metricsManager *metrics.Manager
}

func NewClient(
	baseURL string,
	httpClient *http.Client,
	redisClient *redis.Client,
	metricsManager *metrics.Manager,
) *Client {
	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		redisClient:    redisClient,
		metricsManager: metricsManager,
	}
}

func CacheKey(coords Coordinates) string {
	// 4 decimals is ~11m, close enough to land on the same street
	return fmt.Sprintf("geocode::%.4f,%.4f", coords.Latitude, coords.Longitude)
}

func (c *Client) Reverse(ctx context.Context, coords Coordinates) (_ *Address, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "geocode.reverse")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !coords.Valid() {
		return nil, fmt.Errorf("invalid coordinates [%f, %f]", coords.Latitude, coords.Longitude)
	}

	// nominatim usage policy allows at most one request per second,
	// so concurrent lookups are serialized and try the cache first
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheKey := CacheKey(coords)
	cached, err := c.redisClient.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		addr := &Address{}
		if err := json.Unmarshal([]byte(cached), addr); err == nil {
			span.SetAttributes(attribute.Bool("geocode.from-cache", true))
			c.metricsManager.CounterGeocodeRequests.WithLabelValues("cache").Inc()
			return addr, nil
		}
		log.Errorf("failed to unmarshal cached address for [%s]: %s", cacheKey, err)
	case errors.Is(err, redis.Nil):
		log.Tracef("address for [%s] not cached", cacheKey)
	default:
		log.Errorf("failed to get cached address for [%s]: %s", cacheKey, err)
	}
	span.SetAttributes(attribute.Bool("geocode.from-cache", false))

	addr, err := c.reverseRemote(ctx, coords)
	if err != nil {
		c.metricsManager.CounterGeocodeRequests.WithLabelValues("failed").Inc()
		return nil, err
	}
	c.metricsManager.CounterGeocodeRequests.WithLabelValues("remote").Inc()

	addrJson, err := json.Marshal(addr)
	if err != nil {
		return nil, fmt.Errorf("marshal address: %w", err)
	}
	if err := c.redisClient.Set(ctx, cacheKey, addrJson, addressCacheTTL).Err(); err != nil {
		log.Errorf("failed to cache address for [%s]: %s", cacheKey, err)
	}

	return addr, nil
}

func (c *Client) reverseRemote(ctx context.Context, coords Coordinates) (*Address, error) {
	reqURL := fmt.Sprintf(
		"%s/reverse?lat=%f&lon=%f&format=jsonv2",
		c.baseURL, coords.Latitude, coords.Longitude,
	)
	log.Debugf("calling reverse geocoding: %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "gymlog-backend")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocoding: unexpected status %d", resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read reverse geocoding response: %w", err)
	}

	var geoResp reverseResponse
	if err := json.Unmarshal(respBytes, &geoResp); err != nil {
		return nil, fmt.Errorf("unmarshal reverse geocoding response: %w", err)
	}
	if geoResp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotFound, geoResp.Error)
	}

	return &geoResp.Address, nil
}
