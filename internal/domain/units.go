package domain

import "fmt"

// UnitSystem is the TWC API unit-system code sent in the units query
// parameter: "m" for metric, "e" for imperial.
type UnitSystem string

const (
	UnitSystemMetric   UnitSystem = "m"
	UnitSystemImperial UnitSystem = "e"
)

// ParseUnitSystem maps the configuration value ("metric"/"imperial") to the
// API code.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch s {
	case "metric":
		return UnitSystemMetric, nil
	case "imperial":
		return UnitSystemImperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q (want metric or imperial)", s)
	}
}

// ObservationKey is the name of the nested observation object that holds
// unit-bearing fields for this unit system.
func (u UnitSystem) ObservationKey() string {
	if u == UnitSystemMetric {
		return "metric"
	}
	return "imperial"
}

// Units names the concrete unit for each measured quantity under a unit
// system.
type Units struct {
	Temperature string `json:"temperature"`
	Length      string `json:"length"`
	Speed       string `json:"speed"`
	Pressure    string `json:"pressure"`
}

// Units returns the unit table for this unit system.
func (u UnitSystem) Units() Units {
	if u == UnitSystemMetric {
		return Units{
			Temperature: "°C",
			Length:      "mm",
			Speed:       "km/h",
			Pressure:    "mbar",
		}
	}
	return Units{
		Temperature: "°F",
		Length:      "in",
		Speed:       "mph",
		Pressure:    "inHg",
	}
}
