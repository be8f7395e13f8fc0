// README: Per-mode travel cost estimation.
package maps

import "strings"

var ratePerKm = map[string]float64{
	"car":     0.5,
	"cycling": 0,
	"walking": 0,
	"bus":     0.15,
	"train":   0.25,
	"flight":  0.8,
}

const (
	defaultRatePerKm = 0.3
	// cheapestDiscount stands in for fare selection; no alternate-route
	// search is performed.
	cheapestDiscount = 0.8
)

// EstimateCost returns the estimated fare for travelling distanceMeters with
// the given transport mode. Unknown modes use the default rate.
func EstimateCost(distanceMeters int, mode, preference string) float64 {
	rate, ok := ratePerKm[strings.ToLower(mode)]
	if !ok {
		rate = defaultRatePerKm
	}
	cost := float64(distanceMeters) / 1000.0 * rate
	if strings.EqualFold(preference, "cheapest") {
		cost *= cheapestDiscount
	}
	return cost
}
