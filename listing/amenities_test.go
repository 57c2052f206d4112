package listing

import (
	"reflect"
	"testing"
)

func TestParseAmenities(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"[]", nil},
		{`["Wifi", "Hot tub", "Wifi"]`, []string{"wifi", "hot tub", "wifi"}},
		{"Hot tub, WiFi, Pool", []string{"hot tub", "wifi", "pool"}},
		{`' Kitchen ' ,, "TV"`, []string{"kitchen", "tv"}},
		// unbalanced brackets are kept as part of the items
		{`["Wifi", "Kitchen"`, []string{`["wifi`, "kitchen"}},
		{"no separators at all", []string{"no separators at all"}},
	}
	for _, tt := range tests {
		got := ParseAmenities(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseAmenities(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestHasAmenity(t *testing.T) {
	items := []string{"hot tub", "free parking"}
	tests := []struct {
		terms []string
		want  bool
	}{
		{[]string{"jacuzzi", "hot tub"}, true},
		{[]string{"Free Parking"}, true},
		// matches across item boundaries in the joined text
		{[]string{"tub free"}, true},
		{[]string{"sauna"}, false},
	}
	for _, tt := range tests {
		if got := HasAmenity(items, tt.terms); got != tt.want {
			t.Errorf("HasAmenity(%v) = %v, want %v", tt.terms, got, tt.want)
		}
	}
	if HasAmenity(nil, []string{"wifi"}) {
		t.Error("HasAmenity on an empty list should be false")
	}
}

func TestAmenityFeatures(t *testing.T) {
	f := AmenityFeatures("Hot tub, WiFi, Pool")

	for _, k := range []string{"has_hot_tub", "has_wifi", "has_pool"} {
		if f[k] != true {
			t.Errorf("%s = %v, want true", k, f[k])
		}
	}
	var set []string
	for _, c := range amenityCategories {
		for _, a := range c.Amenities {
			if f[AmenityFeature(a.Key)] == true {
				set = append(set, a.Key)
			}
		}
	}
	if want := []string{"wifi", "pool", "hot_tub"}; !reflect.DeepEqual(set, want) {
		t.Errorf("flags set = %v, want %v", set, want)
	}

	checks := map[string]int{
		"amenities_count":             3,
		"basic_amenities_count":       1,
		"luxury_amenities_count":      2,
		"safety_amenities_count":      0,
		"basic_amenities_score":       1,
		"luxury_amenities_score":      2,
		"convenience_amenities_score": 0,
		"comfort_amenities_count":     0,
	}
	for k, want := range checks {
		if f[k] != want {
			t.Errorf("%s = %v, want %d", k, f[k], want)
		}
	}
}

func TestAmenityFeaturesEmpty(t *testing.T) {
	f := AmenityFeatures("")
	if f["amenities_count"] != 0 {
		t.Errorf("amenities_count = %v, want 0", f["amenities_count"])
	}
	// 1 count + 89 flags + 13 category counts + 4 composite scores
	if len(f) != 1+89+13+4 {
		t.Errorf("expected %d amenity features, got %d", 1+89+13+4, len(f))
	}
	for k := range f {
		if f.number(k) != 0 {
			t.Errorf("%s = %v, want 0", k, f[k])
		}
	}
}

func TestAmenityCategoriesIsCopy(t *testing.T) {
	cats := AmenityCategories()
	if len(cats) != 13 {
		t.Fatalf("expected 13 categories, got %d", len(cats))
	}
	total := 0
	for _, c := range cats {
		total += len(c.Amenities)
	}
	if total != 89 {
		t.Errorf("expected 89 amenities, got %d", total)
	}

	cats[0].Amenities[0].Synonyms[0] = "mutated"
	cats[0].Name = "mutated"
	again := AmenityCategories()
	if again[0].Name != "Basic" || again[0].Amenities[0].Synonyms[0] != "wifi" {
		t.Error("AmenityCategories exposes the shared table")
	}
}
