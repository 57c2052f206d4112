package listing

import (
	"slices"
	"strings"
)

// Amenity is a canonical amenity key with the synonym phrases that match it.
type Amenity struct {
	Key      string   `json:"key"`
	Synonyms []string `json:"synonyms"`
}

// AmenityCategory groups amenities; its count feature is
// lower(Name)+"_amenities_count".
type AmenityCategory struct {
	Name      string    `json:"name"`
	Amenities []Amenity `json:"amenities"`
}

var amenityCategories = []AmenityCategory{
	{"Basic", []Amenity{
		{"wifi", []string{"wifi", "wi-fi", "wireless internet", "internet"}},
		{"kitchen", []string{"kitchen", "kitchenette", "full kitchen"}},
		{"air_conditioning", []string{"air conditioning", "ac", "air con", "cooling"}},
		{"heating", []string{"heating", "heater", "central heating", "radiator"}},
		{"tv", []string{"tv", "television", "cable tv", "smart tv", "netflix"}},
		{"washer", []string{"washer", "washing machine", "laundry"}},
		{"dryer", []string{"dryer", "tumble dryer", "drying machine"}},
		{"iron", []string{"iron", "ironing board"}},
		{"hair_dryer", []string{"hair dryer", "hairdryer", "blow dryer"}},
		{"essentials", []string{"essentials", "basics", "towels", "bed sheets", "soap", "toilet paper"}},
	}},
	{"Safety", []Amenity{
		{"smoke_alarm", []string{"smoke alarm", "smoke detector", "fire alarm"}},
		{"carbon_monoxide_alarm", []string{"carbon monoxide alarm", "co detector", "carbon monoxide detector"}},
		{"first_aid_kit", []string{"first aid kit", "medical kit"}},
		{"fire_extinguisher", []string{"fire extinguisher"}},
		{"security_cameras", []string{"security cameras", "surveillance", "cctv"}},
		{"lockbox", []string{"lockbox", "key safe", "lock box"}},
		{"private_entrance", []string{"private entrance", "separate entrance", "own entrance"}},
	}},
	{"Kitchen_Dining", []Amenity{
		{"refrigerator", []string{"refrigerator", "fridge", "mini fridge", "mini-fridge"}},
		{"microwave", []string{"microwave", "micro wave"}},
		{"oven", []string{"oven", "stove", "cooktop", "hob"}},
		{"dishwasher", []string{"dishwasher", "dish washer"}},
		{"coffee_maker", []string{"coffee maker", "coffee machine", "espresso machine", "nespresso"}},
		{"dining_table", []string{"dining table", "dining area", "eating area"}},
		{"cookware", []string{"cooking basics", "pots and pans", "cookware", "dishes and silverware"}},
		{"blender", []string{"blender", "food processor"}},
		{"toaster", []string{"toaster"}},
		{"kettle", []string{"kettle", "electric kettle"}},
	}},
	{"Bathroom", []Amenity{
		{"shampoo", []string{"shampoo", "body soap", "shower gel"}},
		{"conditioner", []string{"conditioner"}},
		{"body_soap", []string{"body soap", "soap", "shower gel"}},
		{"hot_water", []string{"hot water", "hot shower"}},
		{"bathtub", []string{"bathtub", "bath tub", "bath"}},
		{"bidet", []string{"bidet"}},
		{"bathroom_essentials", []string{"bathroom essentials", "bath towels", "toilet paper"}},
	}},
	{"Bedroom_Living", []Amenity{
		{"bed_linens", []string{"bed linens", "bedding", "sheets", "pillows"}},
		{"extra_pillows", []string{"extra pillows", "pillows and blankets"}},
		{"hangers", []string{"hangers", "coat hangers", "wardrobe"}},
		{"closet", []string{"closet", "wardrobe", "clothing storage"}},
		{"desk", []string{"desk", "workspace", "laptop friendly workspace"}},
		{"chair", []string{"chair", "office chair", "desk chair"}},
		{"sofa", []string{"sofa", "couch", "living room"}},
		{"blackout_curtains", []string{"blackout curtains", "room darkening shades"}},
	}},
	{"Internet_Office", []Amenity{
		{"dedicated_workspace", []string{"dedicated workspace", "office space", "work area"}},
		{"laptop_friendly", []string{"laptop friendly", "laptop workspace"}},
		{"ethernet", []string{"ethernet connection", "wired internet"}},
		{"printer", []string{"printer"}},
		{"monitor", []string{"monitor", "external monitor"}},
	}},
	{"Entertainment", []Amenity{
		{"sound_system", []string{"sound system", "speakers", "stereo"}},
		{"game_console", []string{"game console", "playstation", "xbox", "nintendo"}},
		{"books", []string{"books", "reading material"}},
		{"board_games", []string{"board games", "card games", "games"}},
		{"music", []string{"music", "spotify", "streaming"}},
	}},
	{"Outdoor_Recreation", []Amenity{
		{"balcony", []string{"balcony", "terrace", "patio"}},
		{"garden", []string{"garden", "yard", "outdoor space"}},
		{"bbq_grill", []string{"bbq grill", "barbecue", "grill", "outdoor grill"}},
		{"outdoor_furniture", []string{"outdoor furniture", "patio furniture", "garden furniture"}},
		{"beach_access", []string{"beach access", "beachfront", "waterfront"}},
		{"mountain_view", []string{"mountain view", "mountains"}},
		{"city_view", []string{"city view", "skyline view"}},
		{"garden_view", []string{"garden view", "park view"}},
	}},
	{"Luxury", []Amenity{
		{"pool", []string{"pool", "swimming pool", "shared pool", "private pool"}},
		{"hot_tub", []string{"hot tub", "jacuzzi", "spa"}},
		{"gym", []string{"gym", "fitness centre", "exercise equipment", "weights"}},
		{"sauna", []string{"sauna", "steam room"}},
		{"concierge", []string{"concierge", "doorman", "reception"}},
		{"room_service", []string{"room service", "housekeeping"}},
		{"luxury_toiletries", []string{"luxury toiletries", "premium amenities"}},
		{"wine_cooler", []string{"wine cooler", "wine fridge", "mini bar"}},
	}},
	{"Transport_Location", []Amenity{
		{"free_parking", []string{"free parking", "parking included", "garage"}},
		{"paid_parking", []string{"paid parking", "parking available"}},
		{"ev_charger", []string{"ev charger", "electric vehicle charging", "tesla charger"}},
		{"public_transport", []string{"near public transport", "metro", "subway access"}},
		{"bicycle", []string{"bicycle", "bike", "cycling"}},
		{"airport_shuttle", []string{"airport shuttle", "transfer service"}},
	}},
	{"Family_Accessibility", []Amenity{
		{"family_friendly", []string{"family friendly", "child friendly", "kids welcome"}},
		{"crib", []string{"crib", "baby cot", "cot"}},
		{"high_chair", []string{"high chair", "baby chair"}},
		{"baby_bath", []string{"baby bath", "bathtub for babies"}},
		{"step_free_access", []string{"step free access", "wheelchair accessible", "accessible"}},
		{"wide_doorways", []string{"wide doorways", "accessible doorways"}},
		{"accessible_bathroom", []string{"accessible bathroom", "roll-in shower"}},
	}},
	{"Pet", []Amenity{
		{"pets_allowed", []string{"pets allowed", "pet friendly", "dogs allowed", "cats allowed"}},
		{"pet_bowls", []string{"pet bowls", "dog bowls"}},
		{"pet_bed", []string{"pet bed", "dog bed"}},
	}},
	{"Climate_Environment", []Amenity{
		{"fan", []string{"fan", "ceiling fan", "portable fan"}},
		{"fireplace", []string{"fireplace", "wood burning fireplace"}},
		{"humidifier", []string{"humidifier"}},
		{"air_purifier", []string{"air purifier", "hepa filter"}},
		{"mosquito_net", []string{"mosquito net", "bug net"}},
	}},
}

// Composite amenity scores: each is the number of flags set in its subset.
var amenityScores = []struct {
	feature string
	keys    []string
}{
	{"basic_amenities_score", []string{"wifi", "kitchen", "tv", "essentials", "heating"}},
	{"luxury_amenities_score", []string{"pool", "hot_tub", "gym", "concierge", "room_service"}},
	{"convenience_amenities_score", []string{"washer", "dryer", "dishwasher", "free_parking"}},
	{"comfort_amenities_count", []string{"air_conditioning", "heating", "fireplace", "fan"}},
}

// AmenityCategories returns a deep copy of the amenity dictionary in its
// fixed order.
func AmenityCategories() []AmenityCategory {
	out := make([]AmenityCategory, len(amenityCategories))
	for i, c := range amenityCategories {
		out[i] = AmenityCategory{Name: c.Name, Amenities: make([]Amenity, len(c.Amenities))}
		for j, a := range c.Amenities {
			out[i].Amenities[j] = Amenity{Key: a.Key, Synonyms: slices.Clone(a.Synonyms)}
		}
	}
	return out
}

// AmenityFeature returns the flag column name of an amenity key.
func AmenityFeature(key string) string { return "has_" + key }

// CategoryCountFeature returns the count column name of a category.
func CategoryCountFeature(category string) string {
	return strings.ToLower(category) + "_amenities_count"
}

// ParseAmenities splits a raw amenities string such as
// `["Wifi", "Hot tub"]` or `Wifi, Hot tub` into lowercased items. Order and
// duplicates are kept. Malformed input degrades to fewer, longer items.
func ParseAmenities(raw string) []string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	var items []string
	for _, part := range strings.Split(s, ",") {
		item := strings.TrimSpace(part)
		item = strings.Trim(item, `"'`)
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// HasAmenity reports whether any term occurs in any item or in the items
// joined by spaces. Items are expected to be lowercased.
func HasAmenity(items, terms []string) bool {
	if len(items) == 0 {
		return false
	}
	joined := strings.Join(items, " ")
	for _, t := range terms {
		t = strings.ToLower(t)
		if strings.Contains(joined, t) {
			return true
		}
		for _, item := range items {
			if strings.Contains(item, t) {
				return true
			}
		}
	}
	return false
}

// AmenityFeatures extracts the amenity feature group from a raw amenities
// string.
func AmenityFeatures(raw string) Features {
	items := ParseAmenities(raw)
	f := Features{"amenities_count": len(items)}
	has := make(map[string]bool)
	for _, c := range amenityCategories {
		count := 0
		for _, a := range c.Amenities {
			ok := HasAmenity(items, a.Synonyms)
			has[a.Key] = ok
			f[AmenityFeature(a.Key)] = ok
			if ok {
				count++
			}
		}
		f[CategoryCountFeature(c.Name)] = count
	}
	for _, s := range amenityScores {
		n := 0
		for _, k := range s.keys {
			if has[k] {
				n++
			}
		}
		f[s.feature] = n
	}
	return f
}
