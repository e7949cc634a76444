package coordinator

import (
	"log/slog"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/domain"
)

// ForecastDay is one assembled day of the 5-day forecast.
type ForecastDay struct {
	Time           time.Time        `json:"time"`
	Condition      domain.Condition `json:"condition,omitempty"`
	TemperatureMax *float64         `json:"temperature_max,omitempty"`
	TemperatureMin *float64         `json:"temperature_min,omitempty"`
	Precipitation  *float64         `json:"precipitation,omitempty"`
	PrecipChance   *float64         `json:"precip_chance,omitempty"`
	WindSpeed      *float64         `json:"wind_speed,omitempty"`
	WindDirection  *float64         `json:"wind_direction,omitempty"`
	Narrative      string           `json:"narrative,omitempty"`
}

// DailyForecast assembles the 5-day forecast from the active document. Each
// day pairs the full-day arrays with the day half of the daypart arrays
// (periods 0, 2, 4, 6, 8). Once today's day half expires upstream its
// daypart entries turn null, so the first day falls forward to the night
// half. calendarDay selects the calendar-day temperature pair over the
// meteorological-day one.
//
// Returns nil before the first successful cycle or when the document has no
// forecast.
func (c *Coordinator) DailyForecast(calendarDay bool) []ForecastDay {
	c.mu.RLock()
	doc := c.activeDoc
	c.mu.RUnlock()
	return buildDailyForecast(doc, calendarDay, c.logger)
}

func buildDailyForecast(doc *domain.Document, calendarDay bool, logger *slog.Logger) []ForecastDay {
	if doc == nil {
		return nil
	}

	maxField, minField := "temperatureMax", "temperatureMin"
	if calendarDay {
		maxField, minField = "calendarDayTemperatureMax", "calendarDayTemperatureMin"
	}

	var days []ForecastDay
	for _, period := range []int{0, 2, 4, 6, 8} {
		validTime, ok := domain.Float(doc.Forecast("validTimeUtc", period))
		if !ok {
			continue
		}

		// Today's day half is nulled once it passes; use the night half.
		daypartPeriod := period
		if period == 0 {
			if _, ok := domain.Float(doc.Forecast("temperature", 0)); !ok && doc.HasDaypart() {
				daypartPeriod = 1
			}
		}

		day := ForecastDay{
			Time:           time.Unix(int64(validTime), 0).UTC(),
			TemperatureMax: forecastFloat(doc, maxField, period),
			TemperatureMin: forecastFloat(doc, minField, period),
			Precipitation:  forecastFloat(doc, "qpf", daypartPeriod),
			PrecipChance:   forecastFloat(doc, "precipChance", daypartPeriod),
			WindSpeed:      forecastFloat(doc, "windSpeed", daypartPeriod),
			WindDirection:  forecastFloat(doc, "windDirection", daypartPeriod),
		}
		if icon, ok := domain.Float(doc.Forecast("iconCode", daypartPeriod)); ok {
			if cond, mapped := domain.ConditionForIcon(int(icon), logger); mapped {
				day.Condition = cond
			}
		}
		if narrative, ok := doc.Forecast("narrative", daypartPeriod).(string); ok {
			day.Narrative = narrative
		}
		days = append(days, day)
	}
	return days
}

func forecastFloat(doc *domain.Document, field string, period int) *float64 {
	if f, ok := domain.Float(doc.Forecast(field, period)); ok {
		return &f
	}
	return nil
}
