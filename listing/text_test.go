package listing

import (
	"math"
	"strings"
	"testing"
)

func TestReadabilityRange(t *testing.T) {
	texts := []string{
		"",
		"   ",
		"...",
		"The cat sat. The dog ran.",
		"Supercalifragilisticexpialidocious antidisestablishmentarianism",
		"Rhythm myths. Crypt lynx gym.",
		strings.Repeat("word ", 400),
		"Beautiful apartment, amazing views! Walk to the station in five minutes.",
	}
	for _, text := range texts {
		got := Readability(text)
		if got < 0 || got > 100 || math.IsNaN(got) {
			t.Errorf("Readability(%q) = %v, out of [0, 100]", text, got)
		}
	}
}

func TestReadability(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{" . . ", 0},
		// 206.835 - 1.015*3 - 84.6*1 clamps to 100
		{"The cat sat. The dog ran.", 100},
		// vowel-free text uses the word count as syllables
		{"Rhythm myths", 100},
		{"Home sweet home.", 206.835 - 1.015*3 - 84.6*2},
	}
	for _, tt := range tests {
		got := Readability(tt.text)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Readability(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestSentiment(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"amazing", 1},
		{"terrible awful", -1},
		{"amazing but noisy", 0},
		// 40 words, two positive hits: 2 / (40/20)
		{"lovely stunning " + strings.Repeat("x ", 38), 1},
		{"lovely " + strings.Repeat("x ", 59), 1.0 / 3},
	}
	for _, tt := range tests {
		got := Sentiment(tt.text)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Sentiment(%q) = %v, want %v", tt.text, got, tt.want)
		}
		if got < -1 || got > 1 {
			t.Errorf("Sentiment(%q) = %v, out of [-1, 1]", tt.text, got)
		}
	}
}

func TestNameFeatures(t *testing.T) {
	f := NameFeatures("Luxury Penthouse with City View")
	if got := f["name_luxury_score"].(int); got < 2 {
		t.Errorf("name_luxury_score = %d, want >= 2", got)
	}
	if got := f["name_view_score"].(int); got < 2 {
		t.Errorf("name_view_score = %d, want >= 2", got)
	}
	if f["name_word_count"] != 5 {
		t.Errorf("name_word_count = %v, want 5", f["name_word_count"])
	}
	if f["name_length"] != len("Luxury Penthouse with City View") {
		t.Errorf("name_length = %v", f["name_length"])
	}
}

func TestNameFeaturesFlags(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{"Cosy double room near the park", "name_mentions_room", true},
		{"Spacious 2 bedroom flat", "name_mentions_room", false},
		{"Spacious 2 bedroom flat", "name_mentions_apartment", true},
		{"Charming cottage", "name_mentions_house", true},
		{"Studio in Hulme", "name_mentions_studio", true},
		{"Converted loft", "name_mentions_loft", true},
		{"Private ensuite", "name_mentions_private", true},
		{"Whole place to yourself", "name_mentions_entire", true},
		{"City Centre pad", "name_mentions_central", true},
		{"Newly renovated", "name_mentions_modern", true},
		{"Plain place", "name_mentions_modern", false},
	}
	for _, tt := range tests {
		if got := NameFeatures(tt.name)[tt.key]; got != tt.want {
			t.Errorf("NameFeatures(%q)[%s] = %v, want %v", tt.name, tt.key, got, tt.want)
		}
	}
}

func TestNameFeaturesEmpty(t *testing.T) {
	f := NameFeatures("")
	if len(f) != 15 {
		t.Errorf("expected 15 name features, got %d", len(f))
	}
	for k := range f {
		if f.number(k) != 0 {
			t.Errorf("%s = %v, want 0", k, f[k])
		}
	}
}

func TestDescriptionFeaturesEmpty(t *testing.T) {
	f := DescriptionFeatures("")
	if len(f) != 35 {
		t.Errorf("expected 35 description features, got %d", len(f))
	}
	for k := range f {
		if f.number(k) != 0 {
			t.Errorf("%s = %v, want 0", k, f[k])
		}
	}
}

func TestDescriptionFeatures(t *testing.T) {
	desc := "Luxury flat near the station! Clean, quiet and safe. Sleeps 4?"
	f := DescriptionFeatures(desc)

	checks := map[string]any{
		"desc_length":                len(desc),
		"desc_word_count":            11,
		"desc_sentence_count":        2,
		"desc_exclamation_count":     1,
		"desc_question_count":        1,
		"desc_number_count":          1,
		"desc_luxury_mentions":       1,
		"desc_luxury_themes_score":   2,
		"desc_transport_mentions":    1,
		"desc_cleanliness_mentions":  1,
		"desc_cleanliness_score":     2,
		"desc_safety_mentions":       1,
		"desc_urgency_score":         1,
		"desc_comfort_mentions":      1,
		"desc_comfort_themes_score":  1,
		"desc_location_themes_score": f["desc_location_mentions"].(int) + 1,
	}
	for k, want := range checks {
		if f[k] != want {
			t.Errorf("%s = %v, want %v", k, f[k], want)
		}
	}
	if got, want := f["desc_emotional_score"].(float64), f["desc_sentiment_score"].(float64)*10; got != want {
		t.Errorf("desc_emotional_score = %v, want %v", got, want)
	}
	if r := f["desc_readability"].(float64); r < 0 || r > 100 {
		t.Errorf("desc_readability = %v out of range", r)
	}
}

func TestDescriptionSubstringMatching(t *testing.T) {
	// "park" inside "parking" counts for the activity theme.
	f := DescriptionFeatures("Free parking")
	if f["desc_activity_mentions"] != 1 {
		t.Errorf("desc_activity_mentions = %v, want 1", f["desc_activity_mentions"])
	}
	if f["desc_facility_mentions"] != 1 {
		t.Errorf("desc_facility_mentions = %v, want 1", f["desc_facility_mentions"])
	}
}
