// Package analytics derives business figures from a predicted nightly
// price: a summary, a market comparison, pricing strategies with revenue
// projections, price drivers and improvement recommendations.
//
// Results are structured values with stable codes; presentation is left to
// the caller.
package analytics

import (
	"maps"

	"github.com/happyhackingspace/stayprice/listing"
)

// NightsPerMonthEstimate is the booked nights assumed by the monthly
// estimate.
const NightsPerMonthEstimate = 25

// RangeFraction is the relative half-width of the reported price range.
const RangeFraction = 0.15

// Range is a closed price interval.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Summary holds the headline figures for a price.
type Summary struct {
	Price           float64 `json:"price"`
	MonthlyEstimate float64 `json:"monthly_estimate"`
	PerGuest        float64 `json:"per_guest"`
	Range           Range   `json:"range"`
}

// Report is the full analysis of a predicted price.
type Report struct {
	Summary           Summary          `json:"summary"`
	Market            MarketComparison `json:"market"`
	Strategies        []Strategy       `json:"strategies"`
	Drivers           []Driver         `json:"drivers"`
	Recommendations   []Recommendation `json:"recommendations"`
	SuggestedStrategy string           `json:"suggested_strategy"`
}

// Analyzer computes reports against a market table.
type Analyzer struct {
	market   map[string]MarketBand
	fallback MarketBand
}

// NewAnalyzer creates an Analyzer. A nil market uses DefaultMarket and a
// zero fallback uses DefaultFallback.
func NewAnalyzer(market map[string]MarketBand, fallback MarketBand) *Analyzer {
	if market == nil {
		market = DefaultMarket()
	}
	if fallback == (MarketBand{}) {
		fallback = DefaultFallback
	}
	return &Analyzer{market: maps.Clone(market), fallback: fallback}
}

// Analyze builds the report for price and the resolved listing.
func (a *Analyzer) Analyze(price float64, r listing.Resolved) Report {
	return Report{
		Summary:           Summarize(price, r.Accommodates),
		Market:            a.Compare(price, r.Neighbourhood),
		Strategies:        Strategies(price),
		Drivers:           Drivers(r),
		Recommendations:   Recommendations(r),
		SuggestedStrategy: SuggestStrategy(r),
	}
}

// Summarize returns the headline figures for price.
func Summarize(price, accommodates float64) Summary {
	perGuest := price
	if accommodates > 0 {
		perGuest = price / accommodates
	}
	spread := price * RangeFraction
	return Summary{
		Price:           price,
		MonthlyEstimate: price * NightsPerMonthEstimate,
		PerGuest:        perGuest,
		Range:           Range{Low: price - spread, High: price + spread},
	}
}
