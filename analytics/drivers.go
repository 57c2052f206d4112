package analytics

import (
	"slices"
	"strings"

	"github.com/happyhackingspace/stayprice/listing"
)

// Kind classifies a price driver.
type Kind string

const (
	KindPremium  Kind = "premium"
	KindPositive Kind = "positive"
	KindNegative Kind = "negative"
)

// Driver is a listing attribute that moves the price, with its typical
// nightly effect.
type Driver struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Kind   Kind    `json:"kind"`
}

// Priority ranks a recommendation.
type Priority string

const (
	PriorityHigh    Priority = "high"
	PriorityPremium Priority = "premium"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityPremium:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Recommendation is an action expected to raise the nightly price.
type Recommendation struct {
	Code     string   `json:"code"`
	Label    string   `json:"label"`
	Reason   string   `json:"reason"`
	Impact   Range    `json:"impact"`
	Priority Priority `json:"priority"`
}

const responseWithinHour = "within an hour"

func amenityText(r listing.Resolved) string {
	return strings.ToLower(r.Amenities)
}

func hasWorkspace(amenities string) bool {
	return strings.Contains(amenities, "workspace")
}

// Drivers lists the attributes of r that push the price up or down.
func Drivers(r listing.Resolved) []Driver {
	var out []Driver
	add := func(code, label string, amount float64, kind Kind) {
		out = append(out, Driver{Code: code, Label: label, Amount: amount, Kind: kind})
	}

	am := amenityText(r)
	if strings.Contains(am, "hot tub") {
		add("hot_tub", "Hot tub", 22, KindPremium)
	}
	if strings.Contains(am, "pool") {
		add("pool", "Pool", 18, KindPremium)
	}
	if strings.Contains(am, "gym") {
		add("gym", "Gym", 8, KindPositive)
	}
	if strings.Contains(am, "parking") {
		add("parking", "Free parking", 12, KindPositive)
	}
	if strings.Contains(am, "wifi") {
		add("wifi", "WiFi", 5, KindPositive)
	}
	if hasWorkspace(am) {
		add("workspace", "Workspace", 7, KindPositive)
	}
	if strings.Contains(am, "breakfast") {
		add("breakfast", "Breakfast", 6, KindPositive)
	}

	switch r.Neighbourhood {
	case "City Centre":
		add("location_city_centre", "City Centre location", 18, KindPremium)
	case "Didsbury West", "Didsbury East":
		add("location_didsbury", "Didsbury location", 12, KindPositive)
	case "Salford District", "Trafford District":
		add("location_good", "Good location", 8, KindPositive)
	}

	if r.Accommodates >= 6 {
		add("high_capacity", "High capacity (6+ guests)", 15, KindPositive)
	}
	if r.Bedrooms >= 3 {
		add("bedrooms", "3+ bedrooms", 10, KindPositive)
	}

	switch {
	case r.Reviews.Rating >= 4.8:
		add("excellent_reviews", "Excellent reviews (4.8+)", 8, KindPositive)
	case r.Reviews.Rating < 4.0:
		add("low_reviews", "Low reviews (<4.0)", -12, KindNegative)
	}
	if r.NumberOfReviews < 5 {
		add("few_reviews", "Few reviews (<5)", -8, KindNegative)
	}

	if r.HostIsSuperhost {
		add("superhost", "Superhost status", 7, KindPositive)
	}

	switch r.HostResponseTime {
	case responseWithinHour:
		add("fast_response", "Fast response time", 4, KindPositive)
	case "a few days or more":
		add("slow_response", "Slow response time", -6, KindNegative)
	}
	return out
}

// Recommendations lists actions that could raise the price of r, highest
// priority first. Ties keep their insertion order.
func Recommendations(r listing.Resolved) []Recommendation {
	var out []Recommendation
	add := func(code, label, reason string, lo, hi float64, p Priority) {
		out = append(out, Recommendation{Code: code, Label: label, Reason: reason, Impact: Range{lo, hi}, Priority: p})
	}

	am := amenityText(r)
	if !strings.Contains(am, "wifi") {
		add("add_wifi", "Add WiFi", "Essential for modern travellers", 5, 8, PriorityHigh)
	}
	if !strings.Contains(am, "parking") && r.Neighbourhood != "City Centre" {
		add("add_parking", "Add free parking", "High value in non-central areas", 10, 15, PriorityHigh)
	}
	if !hasWorkspace(am) {
		add("add_workspace", "Add dedicated workspace", "Popular with remote workers and business travellers", 6, 10, PriorityMedium)
	}
	if !strings.Contains(am, "hot tub") && r.Accommodates >= 4 {
		add("add_hot_tub", "Add hot tub", "Premium amenity with high return", 20, 25, PriorityPremium)
	}
	if !strings.Contains(am, "pool") && (r.PropertyType == "Entire home" || r.PropertyType == "Entire condo") {
		add("add_pool", "Add pool", "Highly desirable premium amenity", 18, 22, PriorityPremium)
	}

	switch {
	case r.NumberOfReviews < 10:
		add("more_reviews", "Get more reviews", "Aim for 15+ reviews with a 4.8+ rating", 8, 12, PriorityHigh)
	case r.Reviews.Rating < 4.5:
		add("improve_reviews", "Improve review scores", "Focus on cleanliness, communication and accuracy", 10, 18, PriorityHigh)
	}

	if !r.HostIsSuperhost && r.NumberOfReviews > 10 {
		add("superhost", "Achieve Superhost status", "Builds trust and supports premium pricing", 7, 12, PriorityMedium)
	}
	if r.HostResponseTime != responseWithinHour {
		add("response_time", "Improve response time", "Fast responses increase bookings", 4, 6, PriorityMedium)
	}
	if !r.InstantBookable {
		add("instant_book", "Enable instant booking", "Convenience for guests and more visibility", 3, 5, PriorityLow)
	}

	slices.SortStableFunc(out, func(a, b Recommendation) int {
		return a.Priority.rank() - b.Priority.rank()
	})
	return out
}
