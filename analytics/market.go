package analytics

import "maps"

// MarketBand is the nightly price spread of a neighbourhood.
type MarketBand struct {
	Low  float64 `json:"low" yaml:"low"`
	Avg  float64 `json:"avg" yaml:"avg"`
	High float64 `json:"high" yaml:"high"`
}

// Position describes a price relative to the market average.
type Position string

const (
	WellBelow Position = "well_below"
	Below     Position = "below"
	At        Position = "at"
	Above     Position = "above"
	WellAbove Position = "well_above"
)

// DefaultFallback is used for neighbourhoods missing from the market table.
var DefaultFallback = MarketBand{Low: 35, Avg: 60, High: 95}

var defaultMarket = map[string]MarketBand{
	"City Centre":        {45, 75, 120},
	"Salford District":   {35, 55, 85},
	"Trafford District":  {40, 65, 95},
	"Didsbury West":      {50, 80, 110},
	"Didsbury East":      {50, 80, 110},
	"Stockport District": {30, 50, 75},
	"Bolton District":    {28, 45, 70},
	"Bury District":      {30, 48, 72},
}

// DefaultMarket returns a copy of the Manchester market table.
func DefaultMarket() map[string]MarketBand {
	return maps.Clone(defaultMarket)
}

// MarketComparison places a price within its neighbourhood market.
type MarketComparison struct {
	Neighbourhood string     `json:"neighbourhood"`
	Band          MarketBand `json:"band"`
	Known         bool       `json:"known"`
	Position      Position   `json:"position"`
	// Ratio is price / Band.Avg, 0 when the average is not positive.
	Ratio float64 `json:"ratio"`
}

// Compare returns the market comparison for price in neighbourhood.
func (a *Analyzer) Compare(price float64, neighbourhood string) MarketComparison {
	band, ok := a.market[neighbourhood]
	if !ok {
		band = a.fallback
	}
	c := MarketComparison{
		Neighbourhood: neighbourhood,
		Band:          band,
		Known:         ok,
		Position:      PositionOf(price, band.Avg),
	}
	if band.Avg > 0 {
		c.Ratio = price / band.Avg
	}
	return c
}

// PositionOf classifies price against avg: more than 15% below is
// well_below, more than 5% below is below, and symmetrically above.
func PositionOf(price, avg float64) Position {
	switch {
	case price < avg*0.85:
		return WellBelow
	case price < avg*0.95:
		return Below
	case price > avg*1.15:
		return WellAbove
	case price > avg*1.05:
		return Above
	default:
		return At
	}
}
