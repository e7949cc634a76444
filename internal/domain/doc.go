// Package domain models The Weather Company (TWC) personal weather station
// (PWS) data as served by api.weather.com.
//
// # Data Source
//
// Current conditions come from the v2 PWS observations endpoint
// (https://api.weather.com/v2/pws/observations/current), keyed by station id.
// The response is a JSON object with an "observations" array holding one
// observation. Unit-less fields (humidity, winddir, stationID, lat, lon, ...)
// sit directly on the observation; unit-bearing fields (temp, pressure,
// windSpeed, precipRate, ...) sit under a nested "metric" or "imperial"
// object selected by the request's units parameter.
//
// Forecasts come from the v3 daily 5-day endpoint
// (https://api.weather.com/v3/wx/forecast/daily/5day), keyed by geocode
// rather than station id. The response holds parallel arrays of 5 entries
// (one per calendar day) plus a "daypart" structure whose parallel arrays
// hold 10 entries: day/night halves for each of the 5 days. The first
// daypart entry expires mid-afternoon, at which point its values turn null.
//
// # Error reporting
//
// Either endpoint may return a top-level "errors" array of {message}
// objects instead of (or alongside) data. An HTTP 200 with an errors array
// is still a failed fetch.
//
// # Icon codes
//
// Forecast entries carry a TWC "iconCode" in the 0–47 range. Code 44 is the
// documented "Not Available (N/A)" sentinel and is deliberately unmapped.
package domain
