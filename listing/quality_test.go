package listing

import (
	"math"
	"testing"
)

func TestAppealFor(t *testing.T) {
	tests := []struct {
		score float64
		want  Appeal
	}{
		{-1, AppealBasic},
		{0, AppealBasic},
		{9.99, AppealBasic},
		{10, AppealLow},
		{20, AppealMedium},
		{34.9, AppealMedium},
		{35, AppealHigh},
		{50, AppealPremium},
		{500, AppealPremium},
	}
	for _, tt := range tests {
		if got := AppealFor(tt.score); got != tt.want {
			t.Errorf("AppealFor(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestScoreQualityEmpty(t *testing.T) {
	q := ScoreQuality(NameFeatures(""), DescriptionFeatures(""), AmenityFeatures(""))
	// Only the neutral sentiment term contributes: (0+1)*5*0.5 and (0+1)*2.
	if q.Overall != 2.5 {
		t.Errorf("Overall = %v, want 2.5", q.Overall)
	}
	if q.Intelligence != 2 {
		t.Errorf("Intelligence = %v, want 2", q.Intelligence)
	}
	if q.Percentile != 5 {
		t.Errorf("Percentile = %v, want 5", q.Percentile)
	}
	if q.Appeal != AppealBasic {
		t.Errorf("Appeal = %v, want %v", q.Appeal, AppealBasic)
	}
}

func TestScoreQualityWeights(t *testing.T) {
	name := Features{"name_luxury_score": 2, "name_mentions_private": true, "name_word_count": 4}
	desc := Features{"desc_luxury_mentions": 1, "desc_sentiment_score": 0.5, "desc_readability": 60.0, "desc_word_count": 100}
	amen := Features{"luxury_amenities_score": 2, "safety_amenities_count": 3}

	q := ScoreQuality(name, desc, amen)

	wantOverall := (2*3+2)*0.25 + (1*3+1.5*5)*0.5 + (2*4+3*2)*0.25
	if math.Abs(q.Overall-wantOverall) > 1e-9 {
		t.Errorf("Overall = %v, want %v", q.Overall, wantOverall)
	}
	wantIntel := 60.0/10 + 4*0.5 + 100.0/50 + 1.5*2
	if math.Abs(q.Intelligence-wantIntel) > 1e-9 {
		t.Errorf("Intelligence = %v, want %v", q.Intelligence, wantIntel)
	}
}

func TestScoreQualityPercentileCap(t *testing.T) {
	amen := Features{"luxury_amenities_score": 100}
	q := ScoreQuality(nil, nil, amen)
	if q.Percentile != 100 {
		t.Errorf("Percentile = %v, want 100", q.Percentile)
	}
	if q.Appeal != AppealPremium {
		t.Errorf("Appeal = %v, want %v", q.Appeal, AppealPremium)
	}
}
