// Command wucheck performs a one-shot connectivity check against
// api.weather.com for each configured station. It exercises the same client
// the service uses, so a passing check means the service would come up ready.
//
// Usage:
//
//	WU_API_KEY=... go run ./cmd/wucheck -stations KAZPHOEN172,KAZPHOEN99
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/adapter/wunderground"
	"github.com/couchcryptid/pws-weather-service/internal/domain"
	"github.com/joho/godotenv"
)

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	_ = godotenv.Load()

	stationsFlag := flag.String("stations", os.Getenv("WU_STATIONS"), "comma-separated station ids")
	apiKey := flag.String("api-key", os.Getenv("WU_API_KEY"), "weather.com API key")
	units := flag.String("units", "metric", "unit system: metric or imperial")
	forecast := flag.Bool("forecast", true, "also fetch the 5-day forecast")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	verbose := flag.Bool("v", false, "log client activity")
	flag.Parse()

	if *stationsFlag == "" || *apiKey == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "missing required station list or API key")
		return 1
	}

	unitSystem, err := domain.ParseUnitSystem(*units)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	client := wunderground.NewClient(wunderground.Config{
		APIKey:          *apiKey,
		Units:           unitSystem,
		Language:        "en-US",
		ForecastEnabled: *forecast,
		Timeout:         *timeout,
	}, &domain.GeoAnchor{}, logger)

	ctx := context.Background()
	passed := 0
	var ids []string
	for _, id := range strings.Split(*stationsFlag, ",") {
		// Entries may carry ":priority:name" suffixes like WU_STATIONS.
		if id = strings.SplitN(strings.TrimSpace(id), ":", 2)[0]; id != "" {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		start := time.Now()
		doc, err := client.Fetch(ctx, domain.StationConfig{ID: id})
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			fmt.Printf("  %-16s \033[31mFAIL\033[0m  %v\n", id, err)
			continue
		}
		passed++

		cond := domain.CurrentCondition(doc, logger)
		temp := "n/a"
		if f, ok := domain.Float(doc.Condition("temp")); ok {
			temp = fmt.Sprintf("%.1f%s", f, unitSystem.Units().Temperature)
		}
		fmt.Printf("  %-16s \033[32mOK\033[0m    temp=%s condition=%s observed=%s (%s)\n",
			id, temp, cond, doc.ObservationTimeUTC(), elapsed)
	}

	fmt.Printf("\n%d/%d stations reachable\n", passed, len(ids))
	if passed == 0 {
		return 1
	}
	return 0
}
