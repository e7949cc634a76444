package domain

import (
	"log/slog"
	"time"
)

// ConditionsSnapshot is the normalized per-cycle reading of the active
// station, served at /v1/conditions and published to the Kafka sink.
// Pointer fields are nil when the station does not report the quantity.
type ConditionsSnapshot struct {
	StationID   string `json:"station_id"`
	StationName string `json:"station_name,omitempty"`
	// ObservedAt is the upstream obsTimeUtc, passed through verbatim.
	ObservedAt string    `json:"observed_at,omitempty"`
	PolledAt   time.Time `json:"polled_at"`

	Condition Condition `json:"condition,omitempty"`

	Temperature    *float64 `json:"temperature,omitempty"`
	DewPoint       *float64 `json:"dew_point,omitempty"`
	HeatIndex      *float64 `json:"heat_index,omitempty"`
	WindChill      *float64 `json:"wind_chill,omitempty"`
	Humidity       *float64 `json:"humidity,omitempty"`
	Pressure       *float64 `json:"pressure,omitempty"`
	WindSpeed      *float64 `json:"wind_speed,omitempty"`
	WindGust       *float64 `json:"wind_gust,omitempty"`
	WindDirection  *float64 `json:"wind_direction,omitempty"`
	PrecipRate     *float64 `json:"precip_rate,omitempty"`
	PrecipTotal    *float64 `json:"precip_total,omitempty"`
	UV             *float64 `json:"uv,omitempty"`
	SolarRadiation *float64 `json:"solar_radiation,omitempty"`

	Units Units `json:"units"`
}

// NewConditionsSnapshot reads the quantities consumers care about out of a
// document through the field accessors.
func NewConditionsSnapshot(doc *Document, station StationConfig, polledAt time.Time, logger *slog.Logger) ConditionsSnapshot {
	snap := ConditionsSnapshot{
		StationID:   station.ID,
		StationName: station.Name,
		ObservedAt:  doc.ObservationTimeUTC(),
		PolledAt:    polledAt,
		Condition:   CurrentCondition(doc, logger),
		Units:       doc.units.Units(),

		Temperature:    conditionFloat(doc, "temp"),
		DewPoint:       conditionFloat(doc, "dewpt"),
		HeatIndex:      conditionFloat(doc, "heatIndex"),
		WindChill:      conditionFloat(doc, "windChill"),
		Humidity:       conditionFloat(doc, "humidity"),
		Pressure:       conditionFloat(doc, "pressure"),
		WindSpeed:      conditionFloat(doc, "windSpeed"),
		WindGust:       conditionFloat(doc, "windGust"),
		WindDirection:  conditionFloat(doc, "winddir"),
		PrecipRate:     conditionFloat(doc, "precipRate"),
		PrecipTotal:    conditionFloat(doc, "precipTotal"),
		UV:             conditionFloat(doc, "uv"),
		SolarRadiation: conditionFloat(doc, "solarRadiation"),
	}
	return snap
}

// CurrentCondition derives the active condition: today's forecast icon code
// (day half, else night half once the day half expires), falling back to a
// solar-radiation estimate when no icon is available.
func CurrentCondition(doc *Document, logger *slog.Logger) Condition {
	for _, period := range []int{0, 1} {
		icon, ok := Float(doc.Forecast("iconCode", period))
		if !ok {
			continue
		}
		if cond, mapped := ConditionForIcon(int(icon), logger); mapped {
			return cond
		}
	}
	if wm2, ok := Float(doc.Condition("solarRadiation")); ok {
		return ConditionFromSolarRadiation(wm2)
	}
	return ""
}

// Float narrows an accessor result to a float64. JSON numbers decode as
// float64; anything else (nil, strings) reports ok=false.
func Float(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func conditionFloat(doc *Document, field string) *float64 {
	if f, ok := Float(doc.Condition(field)); ok {
		return &f
	}
	return nil
}
