package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/happyhackingspace/stayprice/internal/textutil"
	"github.com/happyhackingspace/stayprice/listing"
)

// Parse extracts a listing input from an HTML page. Open Graph and meta tags
// provide the name, description and picture; schema.org JSON-LD, when
// present, takes precedence and adds location, rating, amenities and room
// counts.
func Parse(r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var in listing.Input
	setText(&in.Name, metaContent(doc, `meta[property="og:title"]`))
	if in.Name == nil {
		setText(&in.Name, doc.Find("title").First().Text())
	}
	setText(&in.Description, metaContent(doc, `meta[property="og:description"]`))
	if in.Description == nil {
		setText(&in.Description, metaContent(doc, `meta[name="description"]`))
	}
	setText(&in.PictureURL, metaContent(doc, `meta[property="og:image"]`))

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		for _, obj := range ldObjects(v) {
			applyLD(&in, obj)
		}
	})

	res := &Result{Input: in, Fields: presentFields(&in)}
	if res.Fields == nil {
		res.Fields = []string{}
	}
	if u := metaContent(doc, `meta[property="og:url"]`); u != "" {
		res.URL = u
	} else if u, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		res.URL = strings.TrimSpace(u)
	}
	return res, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func setText(dst **string, v string) {
	v = textutil.CollapseSpace(v)
	if v != "" {
		*dst = &v
	}
}

func setNumber(dst **float64, v any) {
	if f, ok := toFloat(v); ok {
		*dst = &f
	}
}

// ldObjects flattens a JSON-LD document into its objects, descending into
// top-level arrays and @graph.
func ldObjects(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, e := range t {
			out = append(out, ldObjects(e)...)
		}
		return out
	case map[string]any:
		out := []map[string]any{t}
		if g, ok := t["@graph"]; ok {
			out = append(out, ldObjects(g)...)
		}
		return out
	}
	return nil
}

func applyLD(in *listing.Input, obj map[string]any) {
	if !isLodging(obj) {
		return
	}
	if s, ok := obj["name"].(string); ok {
		setText(&in.Name, s)
	}
	if s, ok := obj["description"].(string); ok {
		setText(&in.Description, s)
	}
	if img := imageURL(obj["image"]); img != "" {
		in.PictureURL = &img
	}
	if geo, ok := obj["geo"].(map[string]any); ok {
		setNumber(&in.Latitude, geo["latitude"])
		setNumber(&in.Longitude, geo["longitude"])
	}
	if rating, ok := obj["aggregateRating"].(map[string]any); ok {
		if v, ok := toFloat(rating["ratingValue"]); ok {
			if best, ok := toFloat(rating["bestRating"]); ok && best > 5 {
				v = v * 5 / best
			}
			in.ReviewScoresRating = &v
		}
		setNumber(&in.NumberOfReviews, rating["reviewCount"])
		if in.NumberOfReviews == nil {
			setNumber(&in.NumberOfReviews, rating["ratingCount"])
		}
	}
	if am := amenityList(obj["amenityFeature"]); am != "" {
		in.Amenities = &am
	}
	setNumber(&in.Bedrooms, obj["numberOfRooms"])
	setNumber(&in.Bedrooms, obj["numberOfBedrooms"])
	setNumber(&in.Bathrooms, obj["numberOfBathroomsTotal"])
	setNumber(&in.Beds, obj["numberOfBeds"])
	switch occ := obj["occupancy"].(type) {
	case map[string]any:
		setNumber(&in.Accommodates, occ["value"])
		setNumber(&in.Accommodates, occ["maxValue"])
	default:
		setNumber(&in.Accommodates, occ)
	}
}

// isLodging reports whether obj describes a place to stay (or a product page
// wrapping one) rather than breadcrumbs, organisations and the like.
func isLodging(obj map[string]any) bool {
	for _, t := range typeNames(obj["@type"]) {
		switch t {
		case "VacationRental", "LodgingBusiness", "Accommodation", "Apartment",
			"House", "SingleFamilyResidence", "Room", "HotelRoom", "Suite",
			"Hotel", "BedAndBreakfast", "Hostel", "Product":
			return true
		}
	}
	return false
}

func typeNames(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func imageURL(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, e := range t {
			if s := imageURL(e); s != "" {
				return s
			}
		}
	case map[string]any:
		if s, ok := t["url"].(string); ok {
			return strings.TrimSpace(s)
		}
		if s, ok := t["contentUrl"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// amenityList renders LocationFeatureSpecification entries as the
// JSON-array string used by listing exports. Entries with value false are
// skipped.
func amenityList(v any) string {
	items, ok := v.([]any)
	if !ok {
		return ""
	}
	var names []string
	for _, e := range items {
		switch t := e.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				names = append(names, s)
			}
		case map[string]any:
			if b, ok := t["value"].(bool); ok && !b {
				continue
			}
			if s, ok := t["name"].(string); ok && strings.TrimSpace(s) != "" {
				names = append(names, strings.TrimSpace(s))
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(names); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
