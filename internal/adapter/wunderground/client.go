// Package wunderground fetches PWS observations and daily forecasts from
// api.weather.com. It implements coordinator.Fetcher.
package wunderground

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	defaultCurrentURL  = "https://api.weather.com/v2/pws/observations/current"
	defaultForecastURL = "https://api.weather.com/v3/wx/forecast/daily/5day"

	// The upstream rejects Go's default agent string. net/http adds
	// Accept-Encoding: gzip on its own and decompresses transparently.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"

	// maxBodyBytes bounds response reads; real payloads are a few KB.
	maxBodyBytes = 1 << 20
)

// Config carries the immutable acquisition settings relevant to request
// construction.
type Config struct {
	APIKey           string
	Units            domain.UnitSystem
	Language         string
	NumericPrecision string // "none" suppresses the parameter entirely
	ForecastEnabled  bool
	Timeout          time.Duration
}

// Client issues the per-station request pair (current conditions, 5-day
// forecast) and merges the payloads into one document.
type Client struct {
	cfg        Config
	httpClient *http.Client
	anchor     *domain.GeoAnchor
	logger     *slog.Logger

	// Endpoint bases, overridable in tests.
	currentURL  string
	forecastURL string
}

// NewClient creates a weather.com client. The anchor supplies (and, on the
// first successful observation, learns) the forecast geocode.
func NewClient(cfg Config, anchor *domain.GeoAnchor, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		anchor:      anchor,
		logger:      logger,
		currentURL:  defaultCurrentURL,
		forecastURL: defaultForecastURL,
	}
}

// Fetch retrieves and merges one station's current conditions and forecast.
// Failures are classified per the domain error taxonomy; the caller decides
// what a failure means for the cycle.
func (c *Client) Fetch(ctx context.Context, station domain.StationConfig) (*domain.Document, error) {
	current, err := c.getJSON(ctx, c.currentRequestURL(station.ID))
	if err != nil {
		return nil, fmt.Errorf("station %s: current conditions: %w", station.ID, err)
	}
	if err := checkAPIErrors(current); err != nil {
		return nil, fmt.Errorf("station %s: %w", station.ID, err)
	}

	obs := gjson.GetBytes(current, "observations")
	if !obs.IsArray() || len(obs.Array()) == 0 {
		return nil, fmt.Errorf("station %s: %w", station.ID, domain.ErrNoObservations)
	}

	// First-write-wins: the anchor ignores this once coordinates are known.
	lat := gjson.GetBytes(current, "observations.0.lat")
	lon := gjson.GetBytes(current, "observations.0.lon")
	if lat.Exists() && lon.Exists() {
		if c.anchor.Learn(lat.Float(), lon.Float()) {
			c.logger.Info("learned forecast geocode from station",
				"station", station.ID, "lat", lat.Float(), "lon", lon.Float())
		}
	}

	var forecast []byte
	if c.cfg.ForecastEnabled {
		geocode, ok := c.anchor.Geocode()
		if !ok {
			return nil, fmt.Errorf("station %s: no coordinates available for forecast", station.ID)
		}
		forecast, err = c.getJSON(ctx, c.forecastRequestURL(geocode))
		if err != nil {
			return nil, fmt.Errorf("station %s: forecast: %w", station.ID, err)
		}
		if err := checkAPIErrors(forecast); err != nil {
			return nil, fmt.Errorf("station %s: forecast: %w", station.ID, err)
		}
		// Missing daypart data is non-fatal; day-granularity fields still work.
		dp := gjson.GetBytes(forecast, "daypart.0")
		if !dp.Exists() || dp.Type == gjson.Null {
			c.logger.Warn("no forecast daypart data available", "station", station.ID)
		}
	}

	return domain.NewDocument(current, forecast, c.cfg.Units)
}

// currentRequestURL builds the observations URL for a station. The numeric
// precision parameter is appended only when precision mode is not "none".
func (c *Client) currentRequestURL(stationID string) string {
	q := url.Values{}
	q.Set("stationId", stationID)
	if c.cfg.NumericPrecision != "" && c.cfg.NumericPrecision != "none" {
		q.Set("numericPrecision", c.cfg.NumericPrecision)
	}
	c.addSharedParams(q)
	return c.currentURL + "?" + q.Encode()
}

// forecastRequestURL builds the 5-day forecast URL. The forecast is geocoded
// rather than station-scoped, and carries the language parameter.
func (c *Client) forecastRequestURL(geocode string) string {
	q := url.Values{}
	q.Set("geocode", geocode)
	q.Set("language", c.cfg.Language)
	c.addSharedParams(q)
	return c.forecastURL + "?" + q.Encode()
}

func (c *Client) addSharedParams(q url.Values) {
	q.Set("format", "json")
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("units", string(c.cfg.Units))
}

// getJSON issues one GET with the per-request timeout and validates status
// and payload shape.
func (c *Client) getJSON(ctx context.Context, requestURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)) //nolint:errcheck // drain for connection reuse
		return nil, &domain.HTTPError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if len(body) == 0 || string(body) == "null" || !gjson.ValidBytes(body) {
		return nil, domain.ErrMalformedResponse
	}
	return body, nil
}

// checkAPIErrors turns the payload's "errors" array, when non-empty, into an
// APIError aggregating every message.
func checkAPIErrors(body []byte) error {
	errsRes := gjson.GetBytes(body, "errors")
	if !errsRes.IsArray() {
		return nil
	}
	items := errsRes.Array()
	if len(items) == 0 {
		return nil
	}
	messages := make([]string, 0, len(items))
	for _, item := range items {
		if msg := item.Get("error.message"); msg.Exists() {
			messages = append(messages, msg.String())
		} else if msg := item.Get("message"); msg.Exists() {
			messages = append(messages, msg.String())
		} else {
			messages = append(messages, item.Raw)
		}
	}
	return &domain.APIError{Messages: messages}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
