package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoAnchor_FirstWriteWins(t *testing.T) {
	a := &GeoAnchor{}

	_, _, ok := a.Get()
	assert.False(t, ok)

	assert.True(t, a.Learn(33.45, -112.07))
	assert.False(t, a.Learn(40.71, -74.0), "second write must be rejected")

	lat, lon, ok := a.Get()
	assert.True(t, ok)
	assert.Equal(t, 33.45, lat)
	assert.Equal(t, -112.07, lon)
}

func TestGeoAnchor_PinnedByConfiguration(t *testing.T) {
	a := NewGeoAnchor(47.0, 19.0)
	assert.False(t, a.Learn(33.45, -112.07))

	geocode, ok := a.Geocode()
	assert.True(t, ok)
	assert.Equal(t, "47,19", geocode)
}

func TestGeoAnchor_ConcurrentLearn(t *testing.T) {
	a := &GeoAnchor{}

	var wg sync.WaitGroup
	wins := make(chan float64, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if a.Learn(float64(i), float64(-i)) {
				wins <- float64(i)
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []float64
	for w := range wins {
		winners = append(winners, w)
	}
	assert.Len(t, winners, 1, "exactly one concurrent write may win")

	lat, _, ok := a.Get()
	assert.True(t, ok)
	assert.Equal(t, winners[0], lat)
}

func TestGeoAnchor_Geocode_Unset(t *testing.T) {
	a := &GeoAnchor{}
	_, ok := a.Geocode()
	assert.False(t, ok)
}
