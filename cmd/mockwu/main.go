// Command mockwu runs a local stand-in for api.weather.com, serving canned
// current-conditions and 5-day-forecast payloads. Point the service at it to
// exercise failover without burning API quota:
//
//	go run ./cmd/mockwu -addr :9090 -fail-stations KAZPHOEN99
//
// Stations listed in -fail-stations answer 500; -api-error makes every
// station answer with an upstream-style errors payload instead.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	failStations := flag.String("fail-stations", "", "comma-separated station ids that answer 500")
	apiError := flag.Bool("api-error", false, "answer every request with an errors payload")
	latency := flag.Duration("latency", 0, "artificial delay before each response")
	flag.Parse()

	failing := map[string]bool{}
	for _, id := range strings.Split(*failStations, ",") {
		if id = strings.TrimSpace(id); id != "" {
			failing[id] = true
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/pws/observations/current", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(*latency)
		station := r.URL.Query().Get("stationId")
		logger.Info("current conditions request", "station", station)

		switch {
		case *apiError:
			serve(w, apiErrorBody)
		case failing[station]:
			w.WriteHeader(http.StatusInternalServerError)
		default:
			serve(w, fmt.Sprintf(currentBody, station, time.Now().UTC().Format(time.RFC3339)))
		}
	})
	mux.HandleFunc("GET /v3/wx/forecast/daily/5day", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(*latency)
		logger.Info("forecast request", "geocode", r.URL.Query().Get("geocode"))

		if *apiError {
			serve(w, apiErrorBody)
			return
		}
		serve(w, forecastBody(time.Now().UTC()))
	})

	logger.Info("mock weather.com upstream listening", "addr", *addr,
		"failing_stations", *failStations, "api_error", *apiError)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func serve(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body) //nolint:errcheck
}

const apiErrorBody = `{"errors": [{"error": {"code": "CDN-0001", "message": "Invalid apiKey."}}]}`

const currentBody = `{
  "observations": [
    {
      "stationID": %q,
      "obsTimeUtc": %q,
      "neighborhood": "Mock Neighborhood",
      "softwareType": "mockwu",
      "country": "US",
      "lat": 33.45,
      "lon": -112.07,
      "humidity": 42,
      "winddir": 180,
      "windDirectionCardinal": "S",
      "solarRadiation": 612.4,
      "uv": 7,
      "qcStatus": 1,
      "metric": {
        "temp": 31.2, "heatIndex": 33.0, "dewpt": 17.5, "windChill": 31.2,
        "windSpeed": 7.5, "windGust": 12.1, "pressure": 1013.2,
        "precipRate": 0.0, "precipTotal": 0.0, "elev": 331.0
      },
      "imperial": {
        "temp": 88.2, "heatIndex": 91.4, "dewpt": 63.5, "windChill": 88.2,
        "windSpeed": 4.7, "windGust": 7.5, "pressure": 29.92,
        "precipRate": 0.0, "precipTotal": 0.0, "elev": 1086.0
      }
    }
  ]
}`

// forecastBody renders a 5-day forecast whose validTimeUtc values start
// today, so the assembled forecast always looks current.
func forecastBody(now time.Time) string {
	day := now.Truncate(24 * time.Hour)
	times := make([]string, 5)
	for i := range times {
		times[i] = fmt.Sprintf("%d", day.AddDate(0, 0, i).Unix())
	}
	return fmt.Sprintf(`{
  "validTimeUtc": [%s],
  "temperatureMax": [38, 37, 36, 35, 34],
  "temperatureMin": [24, 23, 22, 21, 20],
  "calendarDayTemperatureMax": [39, 38, 37, 36, 35],
  "calendarDayTemperatureMin": [25, 24, 23, 22, 21],
  "daypart": [
    {
      "temperature": [36, 22, 35, 21, 34, 20, 33, 19, 32, 18],
      "iconCode": [32, 31, 30, 33, 28, 27, 11, 12, 4, 3],
      "qpf": [0, 0, 0.5, 0.2, 1.1, 0.4, 2.3, 1.0, 0, 0],
      "precipChance": [5, 5, 20, 10, 45, 30, 70, 55, 10, 5],
      "windSpeed": [10, 8, 12, 9, 14, 11, 18, 15, 9, 7],
      "windDirection": [180, 170, 190, 185, 200, 195, 210, 205, 160, 150],
      "narrative": ["Sunny.", "Clear.", "Partly cloudy.", "Clear.", "Cloudy.", "Cloudy.", "Showers.", "Showers.", "Thunderstorms.", "Thunderstorms."]
    }
  ]
}`, strings.Join(times, ", "))
}
