package listing

// Appeal is the text appeal tier of a listing.
type Appeal string

const (
	AppealBasic   Appeal = "Basic"
	AppealLow     Appeal = "Low"
	AppealMedium  Appeal = "Medium"
	AppealHigh    Appeal = "High"
	AppealPremium Appeal = "Premium"
)

// Appeals lists the tiers from lowest to highest.
func Appeals() []Appeal {
	return []Appeal{AppealBasic, AppealLow, AppealMedium, AppealHigh, AppealPremium}
}

// Quality holds the composite text quality indices.
type Quality struct {
	Overall      float64 `json:"overall_text_quality"`
	Intelligence float64 `json:"text_intelligence_score"`
	Percentile   float64 `json:"text_quality_percentile"`
	Appeal       Appeal  `json:"text_appeal_category"`
}

// ScoreQuality combines the name, description and amenity groups. Name
// contributes 25%, description 50% and amenities 25%.
func ScoreQuality(name, desc, amenity Features) Quality {
	nameScore := name.number("name_luxury_score")*3 +
		name.number("name_location_score")*2 +
		name.number("name_comfort_score")*2 +
		name.number("name_view_score")*1.5 +
		name.number("name_mentions_private")*2 +
		name.number("name_mentions_entire")*1.5

	sentiment := desc.number("desc_sentiment_score")
	descScore := desc.number("desc_luxury_mentions")*3 +
		desc.number("desc_experience_mentions")*2 +
		desc.number("desc_cleanliness_mentions")*2.5 +
		desc.number("desc_safety_mentions")*2 +
		desc.number("desc_comfort_mentions")*2 +
		(sentiment+1)*5 +
		desc.number("desc_facility_mentions")*1.5 +
		desc.number("desc_location_mentions")*1.5

	amenityScore := amenity.number("luxury_amenities_score")*4 +
		amenity.number("convenience_amenities_score")*2.5 +
		amenity.number("basic_amenities_score")*2 +
		amenity.number("safety_amenities_count")*2

	overall := nameScore*0.25 + descScore*0.5 + amenityScore*0.25

	intelligence := desc.number("desc_readability")/10 +
		name.number("name_word_count")*0.5 +
		desc.number("desc_word_count")/50 +
		(sentiment+1)*2

	return Quality{
		Overall:      overall,
		Intelligence: intelligence,
		Percentile:   min(100, overall*2),
		Appeal:       AppealFor(overall),
	}
}

// AppealFor maps an overall text quality score to its tier.
func AppealFor(score float64) Appeal {
	switch {
	case score >= 50:
		return AppealPremium
	case score >= 35:
		return AppealHigh
	case score >= 20:
		return AppealMedium
	case score >= 10:
		return AppealLow
	default:
		return AppealBasic
	}
}
