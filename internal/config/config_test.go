package config

import (
	"testing"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WU_API_KEY", testAPIKey)
	t.Setenv("WU_STATIONS", "KAZPHOEN172")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testAPIKey, cfg.APIKey)
	assert.Equal(t, []domain.StationConfig{{ID: "KAZPHOEN172", Priority: 1, Name: "KAZPHOEN172"}}, cfg.Stations)
	assert.Equal(t, domain.UnitSystemMetric, cfg.UnitSystem)
	assert.Equal(t, "en-US", cfg.Language)
	assert.Equal(t, "none", cfg.NumericPrecision)
	assert.True(t, cfg.ForecastEnabled)
	assert.False(t, cfg.CalendarDayTemperature)
	assert.False(t, cfg.CoordsPinned)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "pws-conditions", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("WU_API_KEY", testAPIKey)
	t.Setenv("WU_STATIONS", "KAZPHOEN172:1:Backyard, KAZPHOEN45:2 ,KAZTEMPE12::校庭")
	t.Setenv("UNIT_SYSTEM", "imperial")
	t.Setenv("LANGUAGE", "de-DE")
	t.Setenv("NUMERIC_PRECISION", "decimal")
	t.Setenv("FORECAST_ENABLED", "false")
	t.Setenv("CALENDAR_DAY_TEMPERATURE", "true")
	t.Setenv("LATITUDE", "33.45")
	t.Setenv("LONGITUDE", "-112.07")
	t.Setenv("REFRESH_INTERVAL", "2m")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "conditions")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []domain.StationConfig{
		{ID: "KAZPHOEN172", Priority: 1, Name: "Backyard"},
		{ID: "KAZPHOEN45", Priority: 2, Name: "KAZPHOEN45"},
		{ID: "KAZTEMPE12", Priority: 3, Name: "校庭"},
	}, cfg.Stations)
	assert.Equal(t, domain.UnitSystemImperial, cfg.UnitSystem)
	assert.Equal(t, "de-DE", cfg.Language)
	assert.Equal(t, "decimal", cfg.NumericPrecision)
	assert.False(t, cfg.ForecastEnabled)
	assert.True(t, cfg.CalendarDayTemperature)
	assert.True(t, cfg.CoordsPinned)
	assert.Equal(t, 33.45, cfg.Latitude)
	assert.Equal(t, -112.07, cfg.Longitude)
	assert.Equal(t, 2*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "conditions", cfg.KafkaTopic)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing api key", map[string]string{"WU_STATIONS": "KAZPHOEN172"}},
		{"missing stations", map[string]string{"WU_API_KEY": testAPIKey}},
		{"duplicate station", map[string]string{"WU_API_KEY": testAPIKey, "WU_STATIONS": "KAZPHOEN172,KAZPHOEN172"}},
		{"bad priority", map[string]string{"WU_API_KEY": testAPIKey, "WU_STATIONS": "KAZPHOEN172:high"}},
		{"bad unit system", map[string]string{"WU_API_KEY": testAPIKey, "WU_STATIONS": "KAZPHOEN172", "UNIT_SYSTEM": "nautical"}},
		{"bad precision", map[string]string{"WU_API_KEY": testAPIKey, "WU_STATIONS": "KAZPHOEN172", "NUMERIC_PRECISION": "full"}},
		{"bad interval", map[string]string{"WU_API_KEY": testAPIKey, "WU_STATIONS": "KAZPHOEN172", "REFRESH_INTERVAL": "sometimes"}},
		{"latitude without longitude", map[string]string{"WU_API_KEY": testAPIKey, "WU_STATIONS": "KAZPHOEN172", "LATITUDE": "33.45"}},
		{"kafka enabled without brokers", map[string]string{"WU_API_KEY": testAPIKey, "WU_STATIONS": "KAZPHOEN172", "KAFKA_ENABLED": "true"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_KafkaImplicitlyEnabledByBrokers(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "localhost:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)

	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled, "explicit KAFKA_ENABLED=false overrides brokers")
}
