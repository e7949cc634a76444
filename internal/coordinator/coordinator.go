// Package coordinator drives the acquisition cycle: every refresh fetches
// all configured stations concurrently, then serves the document of the
// highest-priority station that answered. A cycle in which every station
// fails keeps the previous document so readers see stale data rather than
// none.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/domain"
	"github.com/couchcryptid/pws-weather-service/internal/observability"
)

// Fetcher retrieves one station's merged document.
type Fetcher interface {
	Fetch(ctx context.Context, station domain.StationConfig) (*domain.Document, error)
}

// Publisher emits the active station's snapshot after a successful cycle.
type Publisher interface {
	Publish(ctx context.Context, snap domain.ConditionsSnapshot) error
}

// SourceState tracks what the last cycle learned about a station.
type SourceState string

const (
	// SourceUnknown means the station has not been fetched yet.
	SourceUnknown SourceState = "unknown"
	SourceOnline  SourceState = "online"
	SourceOffline SourceState = "offline"
)

// SourceStatus is the operator-facing view of one configured station.
type SourceStatus struct {
	Name                string      `json:"name,omitempty"`
	Priority            int         `json:"priority"`
	Active              bool        `json:"active"`
	State               SourceState `json:"state"`
	LastSuccess         *time.Time  `json:"last_success,omitempty"`
	LastError           string      `json:"last_error,omitempty"`
	ConsecutiveFailures int         `json:"consecutive_failures"`
}

// Coordinator owns the active document and the per-station bookkeeping.
type Coordinator struct {
	fetcher   Fetcher
	publisher Publisher // nil when snapshot publishing is disabled
	metrics   *observability.Metrics
	logger    *slog.Logger

	// stations is sorted by priority; ties keep configuration order.
	stations []domain.StationConfig

	refreshing atomic.Bool
	ready      atomic.Bool

	mu            sync.RWMutex
	statuses      map[string]*SourceStatus
	activeStation domain.StationConfig
	activeDoc     *domain.Document
	lastRefreshOK bool
	failedCycles  int
}

// New builds a coordinator over the configured stations. publisher may be
// nil.
func New(fetcher Fetcher, publisher Publisher, stations []domain.StationConfig, metrics *observability.Metrics, logger *slog.Logger) *Coordinator {
	ordered := make([]domain.StationConfig, len(stations))
	copy(ordered, stations)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	statuses := make(map[string]*SourceStatus, len(ordered))
	for _, st := range ordered {
		statuses[st.ID] = &SourceStatus{
			Name:     st.Name,
			Priority: st.Priority,
			State:    SourceUnknown,
		}
	}

	return &Coordinator{
		fetcher:   fetcher,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		stations:  ordered,
		statuses:  statuses,
	}
}

type fetchResult struct {
	doc *domain.Document
	err error
}

// Refresh runs one acquisition cycle. All stations are fetched every cycle,
// even when the preferred one is healthy, so failover never serves a cold
// document and per-station health stays current. Concurrent calls coalesce:
// a Refresh that finds another in flight returns nil immediately.
//
// The returned error is non-nil only when every station failed AND no cycle
// has ever succeeded (domain.ErrNotReady); once data exists, total failures
// retain the previous document and return nil.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if !c.refreshing.CompareAndSwap(false, true) {
		c.logger.Debug("refresh already in progress, skipping")
		return nil
	}
	defer c.refreshing.Store(false)

	results := make([]fetchResult, len(c.stations))
	var wg sync.WaitGroup
	for i, station := range c.stations {
		wg.Add(1)
		go func(i int, station domain.StationConfig) {
			defer wg.Done()
			start := time.Now()
			doc, err := c.fetcher.Fetch(ctx, station)
			c.metrics.FetchDuration.WithLabelValues(station.ID).Observe(time.Since(start).Seconds())
			c.metrics.StationFetches.WithLabelValues(station.ID, fetchOutcome(err)).Inc()
			results[i] = fetchResult{doc: doc, err: err}
		}(i, station)
	}
	wg.Wait()

	now := domain.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	winner := -1
	for i, res := range results {
		status := c.statuses[c.stations[i].ID]
		if res.err != nil {
			status.State = SourceOffline
			status.LastError = res.err.Error()
			status.ConsecutiveFailures++
			c.logger.Warn("station fetch failed",
				"station", c.stations[i].ID, "error", res.err)
			continue
		}
		status.State = SourceOnline
		status.LastError = ""
		status.ConsecutiveFailures = 0
		t := now
		status.LastSuccess = &t
		if winner == -1 {
			winner = i
		}
	}

	if winner == -1 {
		c.lastRefreshOK = false
		c.failedCycles++
		c.metrics.RefreshCycles.WithLabelValues("failure").Inc()
		c.metrics.LastRefreshSuccess.Set(0)
		c.metrics.ConsecutiveFailures.Set(float64(c.failedCycles))
		c.logger.Error("refresh cycle failed, no station produced data",
			"stations", len(c.stations), "consecutive_failed_cycles", c.failedCycles)
		if !c.ready.Load() {
			return domain.ErrNotReady
		}
		// Stale document stays active until a station comes back.
		return nil
	}

	station := c.stations[winner]
	switched := c.activeStation.ID != station.ID
	c.activeStation = station
	c.activeDoc = results[winner].doc
	c.lastRefreshOK = true
	c.failedCycles = 0
	c.ready.Store(true)

	c.metrics.RefreshCycles.WithLabelValues("success").Inc()
	c.metrics.LastRefreshSuccess.Set(1)
	c.metrics.ConsecutiveFailures.Set(0)
	c.metrics.Ready.Set(1)
	for _, st := range c.stations {
		c.statuses[st.ID].Active = st.ID == station.ID
		var v float64
		if st.ID == station.ID {
			v = 1
		}
		c.metrics.ActiveStation.WithLabelValues(st.ID).Set(v)
	}

	if switched {
		c.logger.Info("active station changed",
			"station", station.ID, "priority", station.Priority)
	} else {
		c.logger.Debug("refresh cycle complete", "station", station.ID)
	}

	if c.publisher != nil {
		snap := domain.NewConditionsSnapshot(c.activeDoc, station, now, c.logger)
		if err := c.publisher.Publish(ctx, snap); err != nil {
			c.metrics.PublishErrors.Inc()
			c.logger.Warn("snapshot publish failed", "station", station.ID, "error", err)
		} else {
			c.metrics.SnapshotsPublished.Inc()
		}
	}

	return nil
}

// fetchOutcome maps a fetch error onto the station_fetches_total outcome
// label.
func fetchOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var httpErr *domain.HTTPError
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &httpErr):
		return "http_error"
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, domain.ErrNoObservations):
		return "no_observations"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	default:
		return "other"
	}
}

// Ready reports whether any refresh cycle has ever produced a document.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// CheckReadiness is the readiness-probe hook.
func (c *Coordinator) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return domain.ErrNotReady
	}
	return nil
}

// LastRefreshSucceeded reports whether the most recent cycle found a working
// station. False while serving stale data.
func (c *Coordinator) LastRefreshSucceeded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefreshOK
}

// ActiveStationID returns the station serving the active document.
func (c *Coordinator) ActiveStationID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.activeDoc == nil {
		return "", false
	}
	return c.activeStation.ID, true
}

// GetCondition reads a current-conditions field from the active document.
// Nil before the first successful cycle or when the field is absent.
func (c *Coordinator) GetCondition(field string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeDoc.Condition(field)
}

// GetForecast reads a forecast field for a daypart period from the active
// document.
func (c *Coordinator) GetForecast(field string, period int) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeDoc.Forecast(field, period)
}

// SourceStatuses returns a copy of the per-station bookkeeping.
func (c *Coordinator) SourceStatuses() map[string]SourceStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]SourceStatus, len(c.statuses))
	for id, status := range c.statuses {
		out[id] = *status
	}
	return out
}

// Snapshot renders the active document as a conditions snapshot. ok is false
// before the first successful cycle.
func (c *Coordinator) Snapshot() (domain.ConditionsSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.activeDoc == nil {
		return domain.ConditionsSnapshot{}, false
	}
	return domain.NewConditionsSnapshot(c.activeDoc, c.activeStation, domain.Now(), c.logger), true
}
