package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/pws-weather-service/internal/adapter/http"
	"github.com/couchcryptid/pws-weather-service/internal/coordinator"
	"github.com/couchcryptid/pws-weather-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCoordinator serves canned state for handler tests.
type mockCoordinator struct {
	readyErr     error
	refreshErr   error
	refreshed    int
	lastOK       bool
	activeID     string
	hasActive    bool
	conditions   map[string]any
	forecasts    map[string]any
	statuses     map[string]coordinator.SourceStatus
	snapshot     domain.ConditionsSnapshot
	hasSnapshot  bool
	forecastDays []coordinator.ForecastDay
}

func (m *mockCoordinator) CheckReadiness(_ context.Context) error { return m.readyErr }
func (m *mockCoordinator) Refresh(_ context.Context) error {
	m.refreshed++
	return m.refreshErr
}
func (m *mockCoordinator) LastRefreshSucceeded() bool         { return m.lastOK }
func (m *mockCoordinator) ActiveStationID() (string, bool)    { return m.activeID, m.hasActive }
func (m *mockCoordinator) GetCondition(field string) any      { return m.conditions[field] }
func (m *mockCoordinator) GetForecast(field string, period int) any {
	return m.forecasts[field]
}
func (m *mockCoordinator) SourceStatuses() map[string]coordinator.SourceStatus {
	return m.statuses
}
func (m *mockCoordinator) Snapshot() (domain.ConditionsSnapshot, bool) {
	return m.snapshot, m.hasSnapshot
}
func (m *mockCoordinator) DailyForecast(_ bool) []coordinator.ForecastDay {
	return m.forecastDays
}

func newTestServer(coord *mockCoordinator) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", coord, false, logger)
}

func get(srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	rec := get(newTestServer(&mockCoordinator{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := get(newTestServer(&mockCoordinator{}), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
	t.Run("not ready before first successful refresh", func(t *testing.T) {
		rec := get(newTestServer(&mockCoordinator{readyErr: domain.ErrNotReady}), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, domain.ErrNotReady.Error(), decode(t, rec)["error"])
	})
}

func TestConditions(t *testing.T) {
	temp := 31.2
	coord := &mockCoordinator{
		hasSnapshot: true,
		snapshot: domain.ConditionsSnapshot{
			StationID:   "KAZPHOEN172",
			PolledAt:    time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
			Condition:   domain.ConditionSunny,
			Temperature: &temp,
			Units:       domain.UnitSystemMetric.Units(),
		},
	}
	rec := get(newTestServer(coord), "/v1/conditions")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "KAZPHOEN172", body["station_id"])
	assert.Equal(t, "sunny", body["condition"])
	assert.Equal(t, 31.2, body["temperature"])
}

func TestConditions_NoDataYet(t *testing.T) {
	rec := get(newTestServer(&mockCoordinator{}), "/v1/conditions")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestConditionField(t *testing.T) {
	coord := &mockCoordinator{
		hasActive:  true,
		activeID:   "KAZPHOEN172",
		conditions: map[string]any{"temp": 31.2},
	}
	rec := get(newTestServer(coord), "/v1/condition/temp")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "temp", body["field"])
	assert.Equal(t, 31.2, body["value"])
	assert.Equal(t, "KAZPHOEN172", body["station"])
}

func TestConditionField_AbsentFieldIsNull(t *testing.T) {
	coord := &mockCoordinator{hasActive: true, activeID: "KAZPHOEN172"}
	rec := get(newTestServer(coord), "/v1/condition/heatIndex")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["value"])
}

func TestForecast(t *testing.T) {
	tmax := 38.0
	coord := &mockCoordinator{
		forecastDays: []coordinator.ForecastDay{
			{
				Time:           time.Date(2026, 8, 26, 7, 0, 0, 0, time.UTC),
				Condition:      domain.ConditionSunny,
				TemperatureMax: &tmax,
			},
		},
	}
	rec := get(newTestServer(coord), "/v1/forecast")
	assert.Equal(t, http.StatusOK, rec.Code)

	days, ok := decode(t, rec)["days"].([]any)
	require.True(t, ok)
	require.Len(t, days, 1)
	day := days[0].(map[string]any)
	assert.Equal(t, "sunny", day["condition"])
	assert.Equal(t, 38.0, day["temperature_max"])
}

func TestForecast_NoData(t *testing.T) {
	rec := get(newTestServer(&mockCoordinator{}), "/v1/forecast")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestForecastField(t *testing.T) {
	coord := &mockCoordinator{
		hasActive: true,
		activeID:  "KAZPHOEN172",
		forecasts: map[string]any{"iconCode": float64(32)},
	}
	rec := get(newTestServer(coord), "/v1/forecast/iconCode?period=2")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(32), body["value"])
	assert.Equal(t, float64(2), body["period"])
}

func TestForecastField_InvalidPeriod(t *testing.T) {
	coord := &mockCoordinator{hasActive: true, activeID: "KAZPHOEN172"}
	for _, period := range []string{"x", "-1", "10"} {
		rec := get(newTestServer(coord), "/v1/forecast/iconCode?period="+period)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "period %q", period)
	}
}

func TestSources(t *testing.T) {
	coord := &mockCoordinator{
		hasActive: true,
		activeID:  "KAZPHOEN172",
		lastOK:    true,
		statuses: map[string]coordinator.SourceStatus{
			"KAZPHOEN172": {Priority: 1, Active: true, State: coordinator.SourceOnline},
			"KAZPHOEN99":  {Priority: 2, State: coordinator.SourceOffline, LastError: "request timed out", ConsecutiveFailures: 3},
		},
	}
	rec := get(newTestServer(coord), "/v1/sources")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "KAZPHOEN172", body["active_station"])
	assert.Equal(t, true, body["last_refresh_succeeded"])
	sources := body["sources"].(map[string]any)
	offline := sources["KAZPHOEN99"].(map[string]any)
	assert.Equal(t, "offline", offline["state"])
	assert.Equal(t, float64(3), offline["consecutive_failures"])
}

func TestRefresh(t *testing.T) {
	coord := &mockCoordinator{lastOK: true}
	srv := newTestServer(coord)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/refresh", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, coord.refreshed)
	assert.Equal(t, true, decode(t, rec)["last_refresh_succeeded"])
}

func TestRefresh_FirstCycleFailure(t *testing.T) {
	coord := &mockCoordinator{refreshErr: domain.ErrNotReady}
	srv := newTestServer(coord)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefresh_RejectsGet(t *testing.T) {
	rec := get(newTestServer(&mockCoordinator{}), "/v1/refresh")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
