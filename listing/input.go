package listing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidInput marks caller-input errors reported by Input.Validate.
var ErrInvalidInput = errors.New("invalid input")

// Input is the raw listing description supplied by a caller. Every field is
// optional; Resolve substitutes the documented default for anything absent.
// JSON names follow the Inside Airbnb listings columns.
type Input struct {
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	PictureURL       *string `json:"picture_url,omitempty"`
	PropertyType     *string `json:"property_type,omitempty"`
	RoomType         *string `json:"room_type,omitempty"`
	Neighbourhood    *string `json:"neighbourhood_cleansed,omitempty"`
	HostResponseTime *string `json:"host_response_time,omitempty"`
	Amenities        *string `json:"amenities,omitempty"`
	HostSince        *string `json:"host_since,omitempty"`

	Accommodates           *float64 `json:"accommodates,omitempty"`
	Bedrooms               *float64 `json:"bedrooms,omitempty"`
	Bathrooms              *float64 `json:"bathrooms,omitempty"`
	Beds                   *float64 `json:"beds,omitempty"`
	Latitude               *float64 `json:"latitude,omitempty"`
	Longitude              *float64 `json:"longitude,omitempty"`
	NumberOfReviews        *float64 `json:"number_of_reviews,omitempty"`
	HostTotalListingsCount *float64 `json:"host_total_listings_count,omitempty"`

	ReviewScoresRating        *float64 `json:"review_scores_rating,omitempty"`
	ReviewScoresCleanliness   *float64 `json:"review_scores_cleanliness,omitempty"`
	ReviewScoresCheckin       *float64 `json:"review_scores_checkin,omitempty"`
	ReviewScoresCommunication *float64 `json:"review_scores_communication,omitempty"`
	ReviewScoresLocation      *float64 `json:"review_scores_location,omitempty"`
	ReviewScoresAccuracy      *float64 `json:"review_scores_accuracy,omitempty"`
	ReviewScoresValue         *float64 `json:"review_scores_value,omitempty"`

	HostIsSuperhost      *bool `json:"host_is_superhost,omitempty"`
	HostIdentityVerified *bool `json:"host_identity_verified,omitempty"`
	InstantBookable      *bool `json:"instant_bookable,omitempty"`
}

// String returns a pointer to s, for building an Input literal.
func String(s string) *string { return &s }

// Float returns a pointer to f, for building an Input literal.
func Float(f float64) *float64 { return &f }

// Bool returns a pointer to b, for building an Input literal.
func Bool(b bool) *bool { return &b }

// Field defaults applied by Resolve.
const (
	DefaultAccommodates      = 2
	DefaultBedrooms          = 1
	DefaultBathrooms         = 1.0
	DefaultBeds              = 1
	DefaultNumberOfReviews   = 0
	DefaultHostListingsCount = 1
	DefaultReviewScore       = 4.5
)

// ReviewScores holds the seven review sub-scores.
type ReviewScores struct {
	Rating        float64 `json:"rating"`
	Cleanliness   float64 `json:"cleanliness"`
	Checkin       float64 `json:"checkin"`
	Communication float64 `json:"communication"`
	Location      float64 `json:"location"`
	Accuracy      float64 `json:"accuracy"`
	Value         float64 `json:"value"`
}

// Mean returns the unweighted mean of the sub-scores.
func (s ReviewScores) Mean() float64 {
	return (s.Rating + s.Cleanliness + s.Checkin + s.Communication +
		s.Location + s.Accuracy + s.Value) / 7
}

// Resolved is an Input with every default applied. Text fields are empty
// when absent.
type Resolved struct {
	Name             string
	Description      string
	PictureURL       string
	PropertyType     string
	RoomType         string
	Neighbourhood    string
	HostResponseTime string
	Amenities        string

	HostSince    time.Time
	HasHostSince bool

	Accommodates           float64
	Bedrooms               float64
	Bathrooms              float64
	Beds                   float64
	Location               Coordinates
	NumberOfReviews        float64
	HostTotalListingsCount float64
	Reviews                ReviewScores

	HostIsSuperhost      bool
	HostIdentityVerified bool
	InstantBookable      bool
}

// Resolve applies the per-field defaults. It never fails: an unparseable
// host_since is treated as absent (see Validate).
func (in *Input) Resolve() Resolved {
	if in == nil {
		in = &Input{}
	}
	r := Resolved{
		Name:             str(in.Name),
		Description:      str(in.Description),
		PictureURL:       str(in.PictureURL),
		PropertyType:     str(in.PropertyType),
		RoomType:         str(in.RoomType),
		Neighbourhood:    str(in.Neighbourhood),
		HostResponseTime: str(in.HostResponseTime),
		Amenities:        str(in.Amenities),

		Accommodates:           num(in.Accommodates, DefaultAccommodates),
		Bedrooms:               num(in.Bedrooms, DefaultBedrooms),
		Bathrooms:              num(in.Bathrooms, DefaultBathrooms),
		Beds:                   num(in.Beds, DefaultBeds),
		NumberOfReviews:        num(in.NumberOfReviews, DefaultNumberOfReviews),
		HostTotalListingsCount: num(in.HostTotalListingsCount, DefaultHostListingsCount),
		Reviews: ReviewScores{
			Rating:        num(in.ReviewScoresRating, DefaultReviewScore),
			Cleanliness:   num(in.ReviewScoresCleanliness, DefaultReviewScore),
			Checkin:       num(in.ReviewScoresCheckin, DefaultReviewScore),
			Communication: num(in.ReviewScoresCommunication, DefaultReviewScore),
			Location:      num(in.ReviewScoresLocation, DefaultReviewScore),
			Accuracy:      num(in.ReviewScoresAccuracy, DefaultReviewScore),
			Value:         num(in.ReviewScoresValue, DefaultReviewScore),
		},

		HostIsSuperhost:      flag(in.HostIsSuperhost),
		HostIdentityVerified: flag(in.HostIdentityVerified),
		InstantBookable:      flag(in.InstantBookable),
	}

	loc := DefaultCoordinates
	if c, ok := NeighbourhoodCoordinates(r.Neighbourhood); ok {
		loc = c
	}
	r.Location = Coordinates{
		Latitude:  num(in.Latitude, loc.Latitude),
		Longitude: num(in.Longitude, loc.Longitude),
	}

	if in.HostSince != nil {
		if t, err := ParseDate(*in.HostSince); err == nil {
			r.HostSince, r.HasHostSince = t, true
		}
	}
	return r
}

// Validate reports caller-input errors: an unparseable host_since, negative
// counts and non-finite numbers. A nil error does not mean every field is
// present.
func (in *Input) Validate() error {
	if in == nil {
		return nil
	}
	var errs []error
	if in.HostSince != nil {
		if _, err := ParseDate(*in.HostSince); err != nil {
			errs = append(errs, fmt.Errorf("%w: host_since: %w", ErrInvalidInput, err))
		}
	}
	counts := []struct {
		name string
		v    *float64
	}{
		{"accommodates", in.Accommodates},
		{"bedrooms", in.Bedrooms},
		{"bathrooms", in.Bathrooms},
		{"beds", in.Beds},
		{"number_of_reviews", in.NumberOfReviews},
		{"host_total_listings_count", in.HostTotalListingsCount},
	}
	for _, c := range counts {
		if c.v != nil && *c.v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidInput, c.name, *c.v))
		}
	}
	all := []*float64{
		in.Accommodates, in.Bedrooms, in.Bathrooms, in.Beds, in.Latitude, in.Longitude,
		in.NumberOfReviews, in.HostTotalListingsCount, in.ReviewScoresRating,
		in.ReviewScoresCleanliness, in.ReviewScoresCheckin, in.ReviewScoresCommunication,
		in.ReviewScoresLocation, in.ReviewScoresAccuracy, in.ReviewScoresValue,
	}
	for _, v := range all {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			errs = append(errs, fmt.Errorf("%w: non-finite number %v", ErrInvalidInput, *v))
			break
		}
	}
	return errors.Join(errs...)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate parses a calendar date in one of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64, def float64) float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return def
	}
	return *p
}

func flag(p *bool) bool {
	return p != nil && *p
}
