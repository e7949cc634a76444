// Package http exposes the read API, health probes, and metrics.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/coordinator"
	"github.com/couchcryptid/pws-weather-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Coordinator is the read surface the API serves from.
type Coordinator interface {
	CheckReadiness(ctx context.Context) error
	Refresh(ctx context.Context) error
	LastRefreshSucceeded() bool
	ActiveStationID() (string, bool)
	GetCondition(field string) any
	GetForecast(field string, period int) any
	SourceStatuses() map[string]coordinator.SourceStatus
	Snapshot() (domain.ConditionsSnapshot, bool)
	DailyForecast(calendarDay bool) []coordinator.ForecastDay
}

// Server exposes the conditions API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer  *http.Server
	coord       Coordinator
	calendarDay bool
	logger      *slog.Logger
}

// NewServer creates the API server. calendarDay selects the calendar-day
// temperature pair for the assembled forecast.
func NewServer(addr string, coord Coordinator, calendarDay bool, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		coord:       coord,
		calendarDay: calendarDay,
		logger:      logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/conditions", s.handleConditions)
	mux.HandleFunc("GET /v1/condition/{field}", s.handleConditionField)
	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/forecast/{field}", s.handleForecastField)
	mux.HandleFunc("GET /v1/sources", s.handleSources)
	mux.HandleFunc("POST /v1/refresh", s.handleRefresh)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.coord.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleConditions(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.coord.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no station has produced data yet")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleConditionField(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	station, ok := s.coord.ActiveStationID()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no station has produced data yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"station": station,
		"field":   field,
		"value":   s.coord.GetCondition(field),
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, _ *http.Request) {
	days := s.coord.DailyForecast(s.calendarDay)
	if days == nil {
		writeError(w, http.StatusServiceUnavailable, "no forecast data available")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"days": days})
}

func (s *Server) handleForecastField(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")
	period := 0
	if raw := r.URL.Query().Get("period"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 || p > 9 {
			writeError(w, http.StatusBadRequest, "period must be an integer between 0 and 9")
			return
		}
		period = p
	}
	station, ok := s.coord.ActiveStationID()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no station has produced data yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"station": station,
		"field":   field,
		"period":  period,
		"value":   s.coord.GetForecast(field, period),
	})
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	active, _ := s.coord.ActiveStationID()
	writeJSON(w, http.StatusOK, map[string]any{
		"active_station":         active,
		"last_refresh_succeeded": s.coord.LastRefreshSucceeded(),
		"sources":                s.coord.SourceStatuses(),
	})
}

// handleRefresh triggers a cycle out of schedule. Useful after fixing a
// station or rotating the API key.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.coord.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"last_refresh_succeeded": s.coord.LastRefreshSucceeded(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
