package listing

import (
	"maps"
	"time"

	"github.com/happyhackingspace/stayprice/internal/vectorizer"
)

// Options configures the Assembler.
type Options struct {
	// ReferenceDate is the day host tenure is measured against. It should
	// match the snapshot date of the training data.
	ReferenceDate time.Time
	// ReviewsPerMonthFallback is used when tenure is unknown and the
	// defaults table has no reviews_per_month entry.
	ReviewsPerMonthFallback float64
	// NeighbourhoodGroup is written as neighbourhood_group_cleansed_<group> = 1.
	NeighbourhoodGroup string
}

// DefaultReferenceDate is the snapshot date the bundled models were trained
// against.
var DefaultReferenceDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DefaultOptions returns the options matching the Manchester models.
func DefaultOptions() Options {
	return Options{
		ReferenceDate:           DefaultReferenceDate,
		ReviewsPerMonthFallback: 0.5,
		NeighbourhoodGroup:      "Manchester",
	}
}

const daysPerMonth = 30.44

// Placeholders are features the live input cannot provide. They always take
// the defaults table value, or the fallback listed here.
var placeholders = []struct {
	column   string
	fallback float64
}{
	{"price_per_person", 30},
	{"availability_rate_365", 0.5},
	{"availability_rate_30", 0.5},
	{"days_since_last_review", 30},
	{"host_acceptance_rate", 90},
	{"host_response_rate", 95},
}

// Extraction holds the feature groups computed from one input.
type Extraction struct {
	Name        Features `json:"name"`
	Description Features `json:"description"`
	URL         Features `json:"url"`
	Amenities   Features `json:"amenities"`
	Quality     Quality  `json:"quality"`
}

// Extract runs the text, URL and amenity extractors and the quality scorer.
func Extract(r Resolved) Extraction {
	e := Extraction{
		Name:        NameFeatures(r.Name),
		Description: DescriptionFeatures(r.Description),
		URL:         URLFeatures(r.PictureURL),
		Amenities:   AmenityFeatures(r.Amenities),
	}
	e.Quality = ScoreQuality(e.Name, e.Description, e.Amenities)
	return e
}

// Assembler builds feature rows. It holds no mutable state and is safe for
// concurrent use.
type Assembler struct {
	opts Options
	dv   *vectorizer.DictVectorizer
}

// NewAssembler creates an Assembler. A zero ReferenceDate or empty
// NeighbourhoodGroup is replaced by its default.
func NewAssembler(opts Options) *Assembler {
	def := DefaultOptions()
	if opts.ReferenceDate.IsZero() {
		opts.ReferenceDate = def.ReferenceDate
	}
	if opts.NeighbourhoodGroup == "" {
		opts.NeighbourhoodGroup = def.NeighbourhoodGroup
	}
	return &Assembler{opts: opts, dv: vectorizer.NewDictVectorizer()}
}

// Options returns the assembler configuration.
func (a *Assembler) Options() Options { return a.opts }

// Assemble derives the full record for in and projects it onto columns.
func (a *Assembler) Assemble(in *Input, defaults map[string]float64, columns []string) Row {
	return Project(a.Derive(in, defaults), columns)
}

// Derive computes every feature the assembler knows on top of a copy of
// defaults. defaults is never modified.
func (a *Assembler) Derive(in *Input, defaults map[string]float64) Record {
	r := in.Resolve()
	e := Extract(r)

	rec := Record(maps.Clone(defaults))
	if rec == nil {
		rec = make(Record)
	}

	a.dv.Overlay(rec, e.Name)
	a.dv.Overlay(rec, e.Description)
	a.dv.Overlay(rec, e.URL)
	a.dv.Overlay(rec, e.Amenities)

	rec["accommodates"] = r.Accommodates
	rec["bedrooms"] = r.Bedrooms
	rec["bathrooms"] = r.Bathrooms
	rec["beds"] = r.Beds
	rec["latitude"] = r.Location.Latitude
	rec["longitude"] = r.Location.Longitude
	rec["number_of_reviews"] = r.NumberOfReviews
	rec["host_total_listings_count"] = r.HostTotalListingsCount

	rec["review_scores_rating"] = r.Reviews.Rating
	rec["review_scores_cleanliness"] = r.Reviews.Cleanliness
	rec["review_scores_checkin"] = r.Reviews.Checkin
	rec["review_scores_communication"] = r.Reviews.Communication
	rec["review_scores_location"] = r.Reviews.Location
	rec["review_scores_accuracy"] = r.Reviews.Accuracy
	rec["review_scores_value"] = r.Reviews.Value

	rec["host_is_superhost"] = boolToFloat(r.HostIsSuperhost)
	rec["host_identity_verified"] = boolToFloat(r.HostIdentityVerified)
	rec["instant_bookable"] = boolToFloat(r.InstantBookable)
	rec["host_has_profile_pic"] = 1

	if r.HasHostSince {
		rec["host_days_active"] = max(0, float64(int(a.opts.ReferenceDate.Sub(r.HostSince).Hours()/24)))
	}
	// Tenure comes from the record so a defaults-table value counts too.
	tenure := rec["host_days_active"]

	encodeOneHot(rec, RoomTypePrefix, roomTypes, r.RoomType)
	encodeOneHot(rec, PropertyTypePrefix, propertyTypes, r.PropertyType)
	encodeOneHot(rec, NeighbourhoodPrefix, neighbourhoods, r.Neighbourhood)
	encodeOneHot(rec, ResponseTimePrefix, responseTimes, r.HostResponseTime)
	encodeOneHot(rec, NeighbourhoodGroupPrefix, []string{a.opts.NeighbourhoodGroup}, a.opts.NeighbourhoodGroup)

	rec["people_per_bedroom"] = r.Accommodates / max(r.Bedrooms, 1)
	rec["avg_review_score"] = r.Reviews.Mean()

	switch v, ok := defaults["reviews_per_month"]; {
	case tenure > 0:
		rec["reviews_per_month"] = r.NumberOfReviews / max(tenure/daysPerMonth, 1)
	case ok:
		rec["reviews_per_month"] = v
	default:
		rec["reviews_per_month"] = a.opts.ReviewsPerMonthFallback
	}

	q := e.Quality
	rec["overall_text_quality"] = q.Overall
	rec["text_quality_percentile"] = q.Percentile
	rec["text_intelligence_score"] = q.Intelligence
	tiers := make([]string, 0, 5)
	for _, t := range Appeals() {
		tiers = append(tiers, string(t))
	}
	encodeOneHot(rec, TextQualityPrefix, tiers, string(q.Appeal))
	encodeOneHot(rec, TextAppealPrefix, tiers, string(q.Appeal))

	for _, p := range placeholders {
		if v, ok := defaults[p.column]; ok {
			rec[p.column] = v
		} else {
			rec[p.column] = p.fallback
		}
	}

	listings := r.HostTotalListingsCount
	rec["calculated_host_listings_count"] = listings
	rec["calculated_host_listings_count_private_rooms"] = 0
	rec["calculated_host_listings_count_shared_rooms"] = 0
	switch r.RoomType {
	case "Private room":
		rec["calculated_host_listings_count_private_rooms"] = listings
	case "Shared room":
		rec["calculated_host_listings_count_shared_rooms"] = listings
	}
	return rec
}

// Project aligns record with columns: missing and non-finite values become
// 0, columns not listed are dropped. columns is not retained.
func Project(record Record, columns []string) Row {
	return Row{
		Columns: append([]string(nil), columns...),
		Values:  vectorizer.Project(record, columns),
	}
}
