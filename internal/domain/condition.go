package domain

import "log/slog"

// Condition is the small weather-condition vocabulary consumers see.
type Condition string

const (
	ConditionClearNight     Condition = "clear-night"
	ConditionCloudy         Condition = "cloudy"
	ConditionExceptional    Condition = "exceptional"
	ConditionFog            Condition = "fog"
	ConditionHail           Condition = "hail"
	ConditionLightningRainy Condition = "lightning-rainy"
	ConditionPartlyCloudy   Condition = "partlycloudy"
	ConditionPouring        Condition = "pouring"
	ConditionRainy          Condition = "rainy"
	ConditionSnowy          Condition = "snowy"
	ConditionSnowyRainy     Condition = "snowy-rainy"
	ConditionSunny          Condition = "sunny"
	ConditionWindy          Condition = "windy"
)

// iconConditions maps TWC forecast icon codes (0–47) to conditions.
// Code 44 ("Not Available") is deliberately absent.
var iconConditions = map[int]Condition{
	0: ConditionExceptional, // tornado
	1: ConditionExceptional, // tropical storm
	2: ConditionExceptional, // hurricane
	3: ConditionLightningRainy,
	4: ConditionLightningRainy,
	5: ConditionSnowyRainy,
	6: ConditionSnowyRainy,
	7: ConditionSnowyRainy,
	8: ConditionSnowyRainy,

	9:  ConditionRainy,
	10: ConditionSnowyRainy,
	11: ConditionRainy,
	12: ConditionRainy,
	13: ConditionSnowy,
	14: ConditionSnowy,
	15: ConditionSnowy,
	16: ConditionSnowy,
	17: ConditionHail,
	18: ConditionSnowyRainy, // sleet
	19: ConditionExceptional, // dust
	20: ConditionFog,
	21: ConditionExceptional, // haze
	22: ConditionExceptional, // smoke
	23: ConditionWindy,
	24: ConditionWindy,
	25: ConditionSnowyRainy, // frigid / ice crystals
	26: ConditionCloudy,
	27: ConditionCloudy,
	28: ConditionCloudy,
	29: ConditionPartlyCloudy,
	30: ConditionPartlyCloudy,
	31: ConditionClearNight,
	32: ConditionSunny,
	33: ConditionClearNight,
	34: ConditionSunny,
	35: ConditionSnowyRainy, // mixed rain and hail
	36: ConditionExceptional, // hot
	37: ConditionLightningRainy,
	38: ConditionLightningRainy,
	39: ConditionRainy,
	40: ConditionPouring,
	41: ConditionSnowy,
	42: ConditionSnowy,
	43: ConditionExceptional, // blizzard
	45: ConditionRainy,
	46: ConditionSnowy,
	47: ConditionLightningRainy,
}

// ConditionForIcon looks up the condition for a forecast icon code. Unmapped
// codes return ok=false and are logged for operational visibility; 44 is the
// upstream "Not Available" sentinel and expected here.
func ConditionForIcon(code int, logger *slog.Logger) (Condition, bool) {
	cond, ok := iconConditions[code]
	if !ok && logger != nil {
		logger.Warn("unmapped iconCode from TWC API (44 is Not Available)", "icon_code", code)
	}
	return cond, ok
}

// ConditionFromSolarRadiation estimates the current condition from solar
// radiation intensity (W/m²), used when no forecast icon code is available.
func ConditionFromSolarRadiation(wm2 float64) Condition {
	switch {
	case wm2 > 800:
		return ConditionSunny
	case wm2 > 400:
		return ConditionPartlyCloudy
	default:
		return ConditionCloudy
	}
}
