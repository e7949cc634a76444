package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnitSystem(t *testing.T) {
	m, err := ParseUnitSystem("metric")
	require.NoError(t, err)
	assert.Equal(t, UnitSystemMetric, m)

	e, err := ParseUnitSystem("imperial")
	require.NoError(t, err)
	assert.Equal(t, UnitSystemImperial, e)

	_, err = ParseUnitSystem("nautical")
	assert.Error(t, err)
}

func TestUnitSystem_Tables(t *testing.T) {
	assert.Equal(t, "metric", UnitSystemMetric.ObservationKey())
	assert.Equal(t, "imperial", UnitSystemImperial.ObservationKey())

	assert.Equal(t, Units{
		Temperature: "°C",
		Length:      "mm",
		Speed:       "km/h",
		Pressure:    "mbar",
	}, UnitSystemMetric.Units())

	assert.Equal(t, Units{
		Temperature: "°F",
		Length:      "in",
		Speed:       "mph",
		Pressure:    "inHg",
	}, UnitSystemImperial.Units())
}
