package domain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// unitlessConditionFields sit directly on the observation object; everything
// else is read from the nested metric/imperial object.
var unitlessConditionFields = map[string]bool{
	"humidity":             true,
	"winddir":              true,
	"solarRadiation":       true,
	"uv":                   true,
	"stationID":            true,
	"neighborhood":         true,
	"obsTimeLocal":         true,
	"obsTimeUtc":           true,
	"softwareType":         true,
	"country":              true,
	"lon":                  true,
	"lat":                  true,
	"realtimeFrequency":    true,
	"epoch":                true,
	"qcStatus":             true,
	"windDirectionCardinal": true,
}

// fullDayForecastFields live in the 5-entry per-day arrays rather than the
// 10-entry daypart arrays, so a daypart period maps to day index period/2.
var fullDayForecastFields = map[string]bool{
	"temperatureMax":            true,
	"temperatureMin":            true,
	"calendarDayTemperatureMax": true,
	"calendarDayTemperatureMin": true,
	"validTimeUtc":              true,
}

// Document is the merged result of one successful station fetch: the current
// conditions payload plus, when forecasting is enabled, the 5-day forecast
// payload. Read-only once produced; the coordinator replaces documents
// wholesale, never mutates them.
type Document struct {
	raw   []byte
	units UnitSystem
}

// NewDocument shallow-merges the current and forecast payloads into one
// document. Forecast keys win on collision. forecast may be nil when
// forecast fetching is disabled.
func NewDocument(current, forecast []byte, units UnitSystem) (*Document, error) {
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(current, &merged); err != nil {
		return nil, fmt.Errorf("%w: current conditions: %v", ErrMalformedResponse, err)
	}
	if len(forecast) > 0 {
		var fc map[string]json.RawMessage
		if err := json.Unmarshal(forecast, &fc); err != nil {
			return nil, fmt.Errorf("%w: forecast: %v", ErrMalformedResponse, err)
		}
		for k, v := range fc {
			merged[k] = v
		}
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &Document{raw: raw, units: units}, nil
}

// Raw returns the merged JSON. Callers must not modify it.
func (d *Document) Raw() []byte {
	if d == nil {
		return nil
	}
	return d.raw
}

// Condition returns a current-conditions field, or nil when the document or
// the field is absent. Unit-less fields are read from the observation
// directly; unit-bearing fields from the unit-system sub-object, falling
// back to the observation itself for fields outside the known schema.
func (d *Document) Condition(field string) any {
	if d == nil {
		return nil
	}
	obs := gjson.GetBytes(d.raw, "observations.0")
	if !obs.Exists() {
		return nil
	}
	if unitlessConditionFields[field] {
		return obs.Get(field).Value()
	}
	if v := obs.Get(d.units.ObservationKey() + "." + field); v.Exists() {
		return v.Value()
	}
	return obs.Get(field).Value()
}

// Forecast returns a forecast field for the given daypart period (0–9), or
// nil on any missing key or out-of-range index. Full-day fields are indexed
// by period/2 into the 5-entry day arrays; the upstream nulls expired
// daypart entries, which surface here as nil.
func (d *Document) Forecast(field string, period int) any {
	if d == nil || period < 0 {
		return nil
	}
	if fullDayForecastFields[field] {
		return gjson.GetBytes(d.raw, field+"."+strconv.Itoa(period/2)).Value()
	}
	return gjson.GetBytes(d.raw, "daypart.0."+field+"."+strconv.Itoa(period)).Value()
}

// HasDaypart reports whether the forecast daypart structure is present and
// non-null. A missing daypart is non-fatal; only daypart-indexed fields
// resolve to nil.
func (d *Document) HasDaypart() bool {
	if d == nil {
		return false
	}
	v := gjson.GetBytes(d.raw, "daypart.0")
	return v.Exists() && v.Type != gjson.Null
}

// Coordinates returns the observing station's position from the current
// observation.
func (d *Document) Coordinates() (lat, lon float64, ok bool) {
	if d == nil {
		return 0, 0, false
	}
	latRes := gjson.GetBytes(d.raw, "observations.0.lat")
	lonRes := gjson.GetBytes(d.raw, "observations.0.lon")
	if !latRes.Exists() || !lonRes.Exists() {
		return 0, 0, false
	}
	return latRes.Float(), lonRes.Float(), true
}

// ObservationTimeUTC returns the obsTimeUtc string, or "" when absent.
func (d *Document) ObservationTimeUTC() string {
	if v, ok := d.Condition("obsTimeUtc").(string); ok {
		return v
	}
	return ""
}
