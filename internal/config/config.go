package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	APIKey   string
	Stations []domain.StationConfig

	UnitSystem       domain.UnitSystem
	Language         string
	NumericPrecision string // "none" or "decimal"
	ForecastEnabled  bool
	// CalendarDayTemperature selects the calendarDay* forecast temperature
	// field pair instead of the day/night-relative one.
	CalendarDayTemperature bool

	// Latitude/Longitude pin the forecast geocode. When unset, coordinates
	// are learned from the first successful observation.
	Latitude     float64
	Longitude    float64
	CoordsPinned bool

	RefreshInterval time.Duration
	FetchTimeout    time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka snapshot sink configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	apiKey := os.Getenv("WU_API_KEY")
	if apiKey == "" {
		return nil, errors.New("WU_API_KEY is required")
	}

	stations, err := parseStations(os.Getenv("WU_STATIONS"))
	if err != nil {
		return nil, err
	}

	units, err := domain.ParseUnitSystem(envOrDefault("UNIT_SYSTEM", "metric"))
	if err != nil {
		return nil, fmt.Errorf("invalid UNIT_SYSTEM: %w", err)
	}

	precision := envOrDefault("NUMERIC_PRECISION", "none")
	if precision != "none" && precision != "decimal" {
		return nil, fmt.Errorf("invalid NUMERIC_PRECISION %q (want none or decimal)", precision)
	}

	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "5m")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:                 apiKey,
		Stations:               stations,
		UnitSystem:             units,
		Language:               envOrDefault("LANGUAGE", "en-US"),
		NumericPrecision:       precision,
		ForecastEnabled:        envBool("FORECAST_ENABLED", true),
		CalendarDayTemperature: envBool("CALENDAR_DAY_TEMPERATURE", false),
		RefreshInterval:        refreshInterval,
		FetchTimeout:           fetchTimeout,
		HTTPAddr:               envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:               envOrDefault("LOG_LEVEL", "info"),
		LogFormat:              envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:        shutdownTimeout,
		KafkaBrokers:           parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:             envOrDefault("KAFKA_TOPIC", "pws-conditions"),
	}

	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.KafkaEnabled = v == "true"
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	if err := parseCoordinates(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseStations parses WU_STATIONS: a comma-separated list of
// "id[:priority[:name]]" entries, e.g.
//
//	KAZPHOEN172:1:Backyard,KAZPHOEN45:2:Neighbor
//
// Priority defaults to the entry's position; name defaults to the id.
// Ties in priority keep configuration order.
func parseStations(raw string) ([]domain.StationConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("WU_STATIONS is required")
	}

	entries := strings.Split(raw, ",")
	stations := make([]domain.StationConfig, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for i, entry := range entries {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		id := parts[0]
		if id == "" {
			return nil, fmt.Errorf("WU_STATIONS entry %d has an empty station id", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("WU_STATIONS repeats station %s", id)
		}
		seen[id] = true

		st := domain.StationConfig{ID: id, Priority: i + 1, Name: id}
		if len(parts) > 1 && parts[1] != "" {
			p, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("WU_STATIONS station %s has invalid priority %q", id, parts[1])
			}
			st.Priority = p
		}
		if len(parts) > 2 && parts[2] != "" {
			st.Name = parts[2]
		}
		stations = append(stations, st)
	}

	return stations, nil
}

func parseCoordinates(cfg *Config) error {
	latStr, lonStr := os.Getenv("LATITUDE"), os.Getenv("LONGITUDE")
	if latStr == "" && lonStr == "" {
		return nil
	}
	if latStr == "" || lonStr == "" {
		return errors.New("LATITUDE and LONGITUDE must be set together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return fmt.Errorf("invalid LATITUDE: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return fmt.Errorf("invalid LONGITUDE: %w", err)
	}
	cfg.Latitude, cfg.Longitude, cfg.CoordsPinned = lat, lon, true
	return nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return def
}
