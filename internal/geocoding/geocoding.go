// Package geocoding ищет координаты адреса через Nominatim.
//
// Запросы ограничены по частоте на стороне клиента, временные сбои
// повторяются с экспоненциальной паузой, успешные ответы кэшируются.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/pasto-verde/internal/catalog"
	"github.com/magabrotheeeer/pasto-verde/internal/config"
	"github.com/magabrotheeeer/pasto-verde/internal/lib/apperr"
	"github.com/magabrotheeeer/pasto-verde/internal/metrics"
)

const maxRetries = 3

// Cache кэш результатов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Result найденные координаты и зона доставки, если точка в нее попадает.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	Zone             string  `json:"zone,omitempty"`
}

// Client клиент Nominatim.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	citySuffix string
	cacheTTL   time.Duration
	limiter    *rate.Limiter
	cache      Cache
	log        *slog.Logger
}

// New создает клиент по настройкам.
func New(cfg config.Geocoding, cache Cache, log *slog.Logger) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		citySuffix: cfg.CitySuffix,
		cacheTTL:   cfg.CacheTTL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      cache,
		log:        log,
	}
}

func cacheKey(query string) string {
	return "geocode:" + strings.ToLower(query)
}

// Search ищет адрес в пределах города доставки.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	const op = "geocoding.Search"

	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return nil, fmt.Errorf("%s: %w", op, apperr.Validation("empty address"))
	}

	key := cacheKey(query)
	var cached Result
	found, err := c.cache.Get(key, &cached)
	if err != nil {
		c.log.Warn("failed to get from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		metrics.RecordGeocoding("hit")
		return &cached, nil
	}

	res, err := c.lookup(ctx, query)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			metrics.RecordGeocoding("miss")
		} else {
			metrics.RecordGeocoding("error")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordGeocoding("lookup")

	if err := c.cache.Set(key, res, c.cacheTTL); err != nil {
		c.log.Warn("failed to set cache", slog.String("key", key), slog.Any("err", err))
	}
	return res, nil
}

func (c *Client) lookup(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query+", "+c.citySuffix)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := c.baseURL + "/search?" + params.Encode()

	var body []byte
	operation := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("nominatim status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("nominatim status %d", resp.StatusCode))
		}
		body, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries-1), ctx)
	notify := func(err error, wait time.Duration) {
		c.log.Warn("geocoding retry", slog.String("query", query), slog.Duration("wait", wait), slog.Any("err", err))
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperr.External("geocoding", err)
	}

	return parse(body)
}

func parse(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, apperr.External("geocoding", errors.New("invalid json"))
	}
	first := gjson.GetBytes(body, "0")
	if !first.Exists() {
		return nil, apperr.NotFound("address not found")
	}
	lat, lon := first.Get("lat"), first.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		return nil, apperr.External("geocoding", errors.New("result without coordinates"))
	}

	res := &Result{
		Latitude:         lat.Float(),
		Longitude:        lon.Float(),
		FormattedAddress: first.Get("display_name").String(),
	}
	if zone, ok := catalog.ZoneFor(catalog.Point{Lat: res.Latitude, Lon: res.Longitude}); ok {
		res.Zone = zone.Name
	}
	return res, nil
}
