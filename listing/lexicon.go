package listing

// Lexicons are matched as case-insensitive substrings, not whole words.

var positiveWords = []string{
	"amazing", "beautiful", "perfect", "excellent", "wonderful", "fantastic",
	"great", "awesome", "lovely", "stunning", "spectacular", "incredible",
	"comfortable", "cosy", "cozy", "charming", "peaceful", "relaxing",
	"enjoyable", "delightful", "convenient", "spacious", "bright", "clean",
	"modern", "stylish", "elegant", "sophisticated", "luxury", "premium",
	"superb", "outstanding", "exceptional", "brilliant", "magnificent",
	"gorgeous", "fabulous", "splendid", "marvellous", "marvelous",
}

var negativeWords = []string{
	"terrible", "awful", "bad", "horrible", "disappointing", "dirty",
	"noisy", "uncomfortable", "small", "cramped", "old", "outdated",
	"inconvenient", "difficult", "problems", "issues", "broken",
	"poor", "worst", "unpleasant", "disgusting", "nasty", "dreadful",
}

// theme is a description lexicon; its feature is desc_<name>_mentions.
type theme struct {
	name  string
	words []string
}

var descriptionThemes = []theme{
	{"luxury", []string{"luxury", "luxurious", "premium", "upscale", "high-end", "exclusive", "elegant"}},
	{"location", []string{"location", "neighbourhood", "neighborhood", "area", "district", "zone",
		"close", "near", "walking", "minutes", "central", "convenient"}},
	{"transport", []string{"metro", "tube", "underground", "subway", "bus", "train", "station",
		"transport", "uber", "taxi", "airport", "railway"}},
	{"experience", []string{"experience", "enjoy", "relax", "explore", "discover", "adventure",
		"stay", "visit", "holiday", "vacation", "getaway"}},
	{"facility", []string{"kitchen", "bathroom", "bedroom", "living", "dining", "balcony",
		"garden", "parking", "wifi", "pool", "gym"}},
	{"business", []string{"business", "work", "workspace", "office", "meetings", "conference",
		"professional", "corporate"}},
	{"safety", []string{"safe", "secure", "security", "safety", "protected", "gated", "keyless"}},
	{"cleanliness", []string{"clean", "fresh", "spotless", "sanitised", "sanitized", "hygienic", "tidy"}},
	{"comfort", []string{"comfortable", "cosy", "cozy", "relaxing", "peaceful", "quiet", "serene"}},
	{"view", []string{"view", "views", "overlook", "facing", "panoramic", "scenic"}},
	{"activity", []string{"restaurant", "shopping", "museum", "theatre", "theater", "park", "beach",
		"nightlife", "entertainment", "attractions"}},
	{"food", []string{"restaurant", "food", "dining", "cafe", "coffee", "breakfast", "kitchen"}},
	{"family", []string{"family", "children", "kids", "child-friendly", "family-friendly"}},
	{"romantic", []string{"romantic", "couple", "honeymoon", "intimate", "private"}},
}

var (
	nameLuxuryWords = []string{
		"luxury", "luxurious", "premium", "deluxe", "executive",
		"penthouse", "villa", "mansion", "suite", "presidential",
	}
	nameLocationWords = []string{
		"central", "centre", "center", "downtown", "city centre",
		"city center", "heart of", "near", "close to", "walking distance",
		"zone 1", "zone 2", "prime location",
	}
	nameComfortWords = []string{
		"cosy", "cozy", "comfortable", "spacious", "bright", "modern",
		"stylish", "beautiful", "charming", "elegant", "sophisticated",
	}
	nameViewWords = []string{
		"view", "garden", "balcony", "terrace", "sea view", "ocean view",
		"mountain view", "city view", "river view", "park view", "skyline",
	}

	nameApartmentWords = []string{"apartment", "flat", "apt"}
	nameHouseWords     = []string{"house", "home", "cottage", "townhouse"}
	nameEntireWords    = []string{"entire", "whole", "full"}
	nameCentralWords   = []string{"central", "centre", "center"}
	nameModernWords    = []string{"modern", "contemporary", "new", "renovated"}
)

var (
	urlSizeParams    = []string{"im_w=", "im_h=", "w=", "h="}
	urlLargeMarkers  = []string{"_large", "_xl", "_xxl"}
	urlMediumMarkers = []string{"_medium", "_med"}
)
