package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/happyhackingspace/stayprice/listing"
)

// ListingRecord is one row of a listings CSV.
type ListingRecord struct {
	ID    string
	URL   string
	Input listing.Input
	// Price is the listed nightly price, nil when the column is absent or blank.
	Price *float64
}

// ListingReader reads Inside Airbnb style listings CSV files. Columns are
// matched by header name; unknown columns are ignored and missing ones are
// left absent.
type ListingReader struct {
	r      *csv.Reader
	header map[string]int
	line   int
}

// NewListingReader reads the header row from r.
func NewListingReader(r io.Reader) (*ListingReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("listings csv: missing header")
		}
		return nil, fmt.Errorf("listings csv header: %w", err)
	}
	header := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := header[h]; !dup {
			header[h] = i
		}
	}
	return &ListingReader{r: cr, header: header, line: 1}, nil
}

// HasColumn reports whether the header carries the named column.
func (lr *ListingReader) HasColumn(name string) bool {
	_, ok := lr.header[name]
	return ok
}

// Next returns the next record, or io.EOF when the file is exhausted.
func (lr *ListingReader) Next() (*ListingRecord, error) {
	row, err := lr.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("listings csv line %d: %w", lr.line+1, err)
	}
	lr.line++

	get := func(col string) string {
		i, ok := lr.header[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	text := func(col string) *string {
		if v := get(col); v != "" {
			return &v
		}
		return nil
	}
	number := func(col string) *float64 { return ParseNumber(get(col)) }
	boolean := func(col string) *bool { return ParseBool(get(col)) }

	rec := &ListingRecord{
		ID:    get("id"),
		URL:   get("listing_url"),
		Price: number("price"),
		Input: listing.Input{
			Name:             text("name"),
			Description:      text("description"),
			PictureURL:       text("picture_url"),
			PropertyType:     text("property_type"),
			RoomType:         text("room_type"),
			Neighbourhood:    text("neighbourhood_cleansed"),
			HostResponseTime: text("host_response_time"),
			Amenities:        text("amenities"),
			HostSince:        text("host_since"),

			Accommodates:           number("accommodates"),
			Bedrooms:               number("bedrooms"),
			Bathrooms:              number("bathrooms"),
			Beds:                   number("beds"),
			Latitude:               number("latitude"),
			Longitude:              number("longitude"),
			NumberOfReviews:        number("number_of_reviews"),
			HostTotalListingsCount: number("host_total_listings_count"),

			ReviewScoresRating:        number("review_scores_rating"),
			ReviewScoresCleanliness:   number("review_scores_cleanliness"),
			ReviewScoresCheckin:       number("review_scores_checkin"),
			ReviewScoresCommunication: number("review_scores_communication"),
			ReviewScoresLocation:      number("review_scores_location"),
			ReviewScoresAccuracy:      number("review_scores_accuracy"),
			ReviewScoresValue:         number("review_scores_value"),

			HostIsSuperhost:      boolean("host_is_superhost"),
			HostIdentityVerified: boolean("host_identity_verified"),
			InstantBookable:      boolean("instant_bookable"),
		},
	}
	if rec.ID == "" {
		rec.ID = strconv.Itoa(lr.line - 1)
	}
	if rec.Input.Bathrooms == nil {
		rec.Input.Bathrooms = ParseNumber(firstField(get("bathrooms_text")))
	}
	return rec, nil
}

// ReadListings reads every record of the CSV file at path.
func ReadListings(path string) ([]ListingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	lr, err := NewListingReader(f)
	if err != nil {
		return nil, err
	}
	var out []ListingRecord
	for {
		rec, err := lr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
}

// ListingColumns is the header written by ListingWriter. Every column is
// one ListingReader understands.
var ListingColumns = []string{
	"id", "listing_url", "name", "description", "picture_url",
	"property_type", "room_type", "neighbourhood_cleansed", "latitude", "longitude",
	"accommodates", "bedrooms", "bathrooms", "beds", "amenities",
	"host_since", "host_response_time", "host_is_superhost", "host_identity_verified",
	"host_total_listings_count", "instant_bookable", "number_of_reviews",
	"review_scores_rating", "review_scores_cleanliness", "review_scores_checkin",
	"review_scores_communication", "review_scores_location", "review_scores_accuracy",
	"review_scores_value", "price",
}

// ListingWriter writes listings CSV files in the Inside Airbnb layout.
type ListingWriter struct {
	w *csv.Writer
}

// NewListingWriter creates a writer. The header is written unless the
// destination already holds one.
func NewListingWriter(w io.Writer, writeHeader bool) (*ListingWriter, error) {
	lw := &ListingWriter{w: csv.NewWriter(w)}
	if writeHeader {
		if err := lw.w.Write(ListingColumns); err != nil {
			return nil, fmt.Errorf("listings csv header: %w", err)
		}
		lw.w.Flush()
	}
	return lw, lw.w.Error()
}

// Write appends rec and flushes it.
func (lw *ListingWriter) Write(rec *ListingRecord) error {
	in := &rec.Input
	text := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	number := func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	}
	boolean := func(v *bool) string {
		switch {
		case v == nil:
			return ""
		case *v:
			return "t"
		default:
			return "f"
		}
	}
	row := []string{
		rec.ID, rec.URL, text(in.Name), text(in.Description), text(in.PictureURL),
		text(in.PropertyType), text(in.RoomType), text(in.Neighbourhood), number(in.Latitude), number(in.Longitude),
		number(in.Accommodates), number(in.Bedrooms), number(in.Bathrooms), number(in.Beds), text(in.Amenities),
		text(in.HostSince), text(in.HostResponseTime), boolean(in.HostIsSuperhost), boolean(in.HostIdentityVerified),
		number(in.HostTotalListingsCount), boolean(in.InstantBookable), number(in.NumberOfReviews),
		number(in.ReviewScoresRating), number(in.ReviewScoresCleanliness), number(in.ReviewScoresCheckin),
		number(in.ReviewScoresCommunication), number(in.ReviewScoresLocation), number(in.ReviewScoresAccuracy),
		number(in.ReviewScoresValue), number(rec.Price),
	}
	if err := lw.w.Write(row); err != nil {
		return fmt.Errorf("listings csv row %s: %w", rec.ID, err)
	}
	lw.w.Flush()
	return lw.w.Error()
}

// ParseNumber parses a numeric cell, tolerating currency symbols, thousands
// separators and a trailing percent sign ("$1,234.00", "95%"). Blank or
// unparseable cells yield nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseBool parses the "t"/"f" booleans of the listings export, plus the
// usual spellings. Anything else yields nil.
func ParseBool(s string) *bool {
	var b bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "1", "yes", "y":
		b = true
	case "f", "false", "0", "no", "n":
		b = false
	default:
		return nil
	}
	return &b
}

func firstField(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
