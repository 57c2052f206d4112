package analytics

import "github.com/happyhackingspace/stayprice/listing"

// Strategy names.
const (
	Conservative         = "conservative"
	Balanced             = "balanced"
	Aggressive           = "aggressive"
	BalancedOrAggressive = "balanced_or_aggressive"
)

// Strategy is a pricing strategy with its revenue projection.
type Strategy struct {
	Name           string  `json:"name"`
	Multiplier     float64 `json:"multiplier"`
	Rate           float64 `json:"rate"`
	Occupancy      float64 `json:"occupancy"`
	NightsPerMonth float64 `json:"nights_per_month"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
	AnnualRevenue  float64 `json:"annual_revenue"`
}

var strategyTable = []struct {
	name       string
	multiplier float64
	occupancy  float64
}{
	{Conservative, 0.90, 0.80},
	{Balanced, 1.00, 0.65},
	{Aggressive, 1.15, 0.50},
}

// Strategies returns the conservative, balanced and aggressive strategies
// for price.
func Strategies(price float64) []Strategy {
	out := make([]Strategy, 0, len(strategyTable))
	for _, s := range strategyTable {
		rate := price * s.multiplier
		nights := 30 * s.occupancy
		monthly := rate * nights
		out = append(out, Strategy{
			Name:           s.name,
			Multiplier:     s.multiplier,
			Rate:           rate,
			Occupancy:      s.occupancy,
			NightsPerMonth: nights,
			MonthlyRevenue: monthly,
			AnnualRevenue:  monthly * 12,
		})
	}
	return out
}

// SuggestStrategy picks the strategy that suits the listing's track record.
func SuggestStrategy(r listing.Resolved) string {
	switch {
	case r.NumberOfReviews < 5:
		return Conservative
	case r.NumberOfReviews > 50 && r.Reviews.Rating >= 4.8:
		return Aggressive
	case r.HostIsSuperhost:
		return BalancedOrAggressive
	default:
		return Balanced
	}
}
