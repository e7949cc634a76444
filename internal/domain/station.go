package domain

import (
	"strconv"
	"sync"
)

// StationConfig describes one configured personal weather station.
// Immutable after construction.
type StationConfig struct {
	// ID is the upstream station identifier, e.g. "KAZPHOEN172".
	ID string
	// Priority orders fallback: lower values are preferred. Ties break by
	// configuration order.
	Priority int
	// Name is the operator-facing display name.
	Name string
}

// GeoAnchor holds the latitude/longitude the forecast endpoint is geocoded
// against. Writes are first-write-wins: once learned (from configuration or
// from the first successful observation), later observations never move the
// anchor, so forecast geocoding stays stable across station failover.
//
// Learn is safe to call from concurrent station fetches.
type GeoAnchor struct {
	mu       sync.Mutex
	lat, lon float64
	set      bool
}

// NewGeoAnchor returns an anchor pinned to fixed coordinates.
func NewGeoAnchor(lat, lon float64) *GeoAnchor {
	return &GeoAnchor{lat: lat, lon: lon, set: true}
}

// Learn records coordinates if none are set yet. It reports whether the
// write took effect.
func (a *GeoAnchor) Learn(lat, lon float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.set {
		return false
	}
	a.lat, a.lon = lat, lon
	a.set = true
	return true
}

// Get returns the anchored coordinates. ok is false until coordinates have
// been configured or learned.
func (a *GeoAnchor) Get() (lat, lon float64, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lat, a.lon, a.set
}

// Geocode renders the anchor as the "lat,lon" string the forecast endpoint
// expects. ok is false when no coordinates are known.
func (a *GeoAnchor) Geocode() (string, bool) {
	lat, lon, ok := a.Get()
	if !ok {
		return "", false
	}
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64), true
}
