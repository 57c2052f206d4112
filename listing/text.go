package listing

import (
	"strings"

	"github.com/happyhackingspace/stayprice/internal/textutil"
)

// Readability returns a Flesch reading-ease style score in [0, 100]. Vowels
// stand in for syllables. Blank text scores 0.
func Readability(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	sentences := len(textutil.Sentences(text))
	words := len(textutil.Words(text))
	if sentences == 0 || words == 0 {
		return 0
	}
	syllables := textutil.CountVowels(text)
	if syllables == 0 {
		syllables = words
	}
	wordsPerSentence := float64(words) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(words)
	return textutil.Clamp(206.835-1.015*wordsPerSentence-84.6*syllablesPerWord, 0, 100)
}

// Sentiment returns a lexicon based sentiment score in [-1, 1].
func Sentiment(text string) float64 {
	lower := strings.ToLower(text)
	words := len(textutil.Words(lower))
	if words == 0 {
		return 0
	}
	pos := textutil.CountContained(lower, positiveWords)
	neg := textutil.CountContained(lower, negativeWords)
	return textutil.Clamp(float64(pos-neg)/max(float64(words)/20, 1), -1, 1)
}

// NameFeatures extracts the listing title feature group. An empty name
// yields the all-zero group.
func NameFeatures(name string) Features {
	lower := strings.ToLower(name)
	return Features{
		"name_length":             textutil.RuneLen(name),
		"name_word_count":         len(textutil.Words(name)),
		"name_luxury_score":       textutil.CountContained(lower, nameLuxuryWords),
		"name_location_score":     textutil.CountContained(lower, nameLocationWords),
		"name_comfort_score":      textutil.CountContained(lower, nameComfortWords),
		"name_view_score":         textutil.CountContained(lower, nameViewWords),
		"name_mentions_apartment": textutil.ContainsAny(lower, nameApartmentWords),
		"name_mentions_house":     textutil.ContainsAny(lower, nameHouseWords),
		"name_mentions_studio":    strings.Contains(lower, "studio"),
		"name_mentions_loft":      strings.Contains(lower, "loft"),
		"name_mentions_room":      strings.Contains(lower, "room") && !strings.Contains(lower, "bedroom"),
		"name_mentions_private":   strings.Contains(lower, "private"),
		"name_mentions_entire":    textutil.ContainsAny(lower, nameEntireWords),
		"name_mentions_central":   textutil.ContainsAny(lower, nameCentralWords),
		"name_mentions_modern":    textutil.ContainsAny(lower, nameModernWords),
	}
}

// DescriptionFeatures extracts the description feature group. An empty
// description yields the all-zero group.
func DescriptionFeatures(desc string) Features {
	lower := strings.ToLower(desc)
	words := textutil.Words(desc)
	sentiment := Sentiment(desc)

	f := Features{
		"desc_length":            textutil.RuneLen(desc),
		"desc_word_count":        len(words),
		"desc_sentence_count":    len(textutil.Sentences(desc)),
		"avg_word_length":        textutil.MeanWordLength(words),
		"desc_char_diversity":    textutil.CharDiversity(desc),
		"desc_readability":       Readability(desc),
		"desc_sentiment_score":   sentiment,
		"desc_exclamation_count": strings.Count(desc, "!"),
		"desc_question_count":    strings.Count(desc, "?"),
		"desc_caps_ratio":        textutil.UpperRatio(desc),
		"desc_number_count":      textutil.CountWordsWithDigit(words),
	}
	mentions := make(map[string]int, len(descriptionThemes))
	for _, t := range descriptionThemes {
		n := textutil.CountContained(lower, t.words)
		mentions[t.name] = n
		f["desc_"+t.name+"_mentions"] = n
	}

	f["desc_luxury_themes_score"] = mentions["luxury"] * 2
	f["desc_location_themes_score"] = mentions["location"] + mentions["transport"]
	f["desc_experience_themes_score"] = mentions["experience"]
	f["desc_amenity_themes_score"] = mentions["facility"]
	f["desc_comfort_themes_score"] = mentions["comfort"]
	f["desc_space_themes_score"] = mentions["view"]
	f["desc_emotional_score"] = sentiment * 10
	f["desc_urgency_score"] = f["desc_exclamation_count"]
	f["desc_cleanliness_score"] = mentions["cleanliness"] * 2
	f["desc_business_score"] = mentions["business"] * 2
	return f
}
