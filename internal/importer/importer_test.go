package importer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!DOCTYPE html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Bright loft in the Northern Quarter">
<meta property="og:description" content="A spacious   loft close to Piccadilly.">
<meta property="og:image" content="https://a0.muscache.com/im/pictures/12345678/original.jpg">
<meta property="og:url" content="https://www.airbnb.co.uk/rooms/42">
<script type="application/ld+json">
{"@context": "https://schema.org", "@type": "BreadcrumbList", "name": "Breadcrumbs"}
</script>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@graph": [{
    "@type": "VacationRental",
    "name": "Loft with balcony",
    "geo": {"latitude": 53.4839, "longitude": "-2.2374"},
    "aggregateRating": {"ratingValue": 96, "bestRating": 100, "reviewCount": "58"},
    "amenityFeature": [
      {"@type": "LocationFeatureSpecification", "name": "Wifi", "value": true},
      {"@type": "LocationFeatureSpecification", "name": "Washer & dryer"},
      {"@type": "LocationFeatureSpecification", "name": "Pool", "value": false}
    ],
    "numberOfRooms": 2,
    "occupancy": {"@type": "QuantitativeValue", "maxValue": 4}
  }]
}
</script>
</head><body><h1>Loft</h1></body></html>`

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(listingPage))
	require.NoError(t, err)
	in := res.Input

	require.NotNil(t, in.Name)
	assert.Equal(t, "Loft with balcony", *in.Name)
	assert.Equal(t, "A spacious loft close to Piccadilly.", *in.Description)
	assert.Equal(t, "https://a0.muscache.com/im/pictures/12345678/original.jpg", *in.PictureURL)
	assert.Equal(t, 53.4839, *in.Latitude)
	assert.Equal(t, -2.2374, *in.Longitude)
	assert.InDelta(t, 4.8, *in.ReviewScoresRating, 1e-9)
	assert.Equal(t, 58.0, *in.NumberOfReviews)
	assert.Equal(t, `["Wifi","Washer & dryer"]`, *in.Amenities)
	assert.Equal(t, 2.0, *in.Bedrooms)
	assert.Equal(t, 4.0, *in.Accommodates)
	assert.Nil(t, in.RoomType)
	assert.Equal(t, "https://www.airbnb.co.uk/rooms/42", res.URL)
	assert.Contains(t, res.Fields, "amenities")
	assert.NotContains(t, res.Fields, "room_type")
}

func TestParseMetaOnly(t *testing.T) {
	page := `<html><head><title> Cosy room </title>
<meta name="description" content="Quiet street.">
<link rel="canonical" href="https://example.com/stay/7">
<script type="application/ld+json">not json</script>
</head></html>`
	res, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Cosy room", *res.Input.Name)
	assert.Equal(t, "Quiet street.", *res.Input.Description)
	assert.Nil(t, res.Input.PictureURL)
	assert.Equal(t, "https://example.com/stay/7", res.URL)
	assert.Equal(t, []string{"description", "name"}, res.Fields)
}

func TestParseCollapsesWhitespace(t *testing.T) {
	page := "<html><head>" +
		"<meta property=\"og:title\" content=\"  Garden flat\n  near Didsbury \">" +
		"<meta property=\"og:description\" content=\"Two bedrooms.\r\n\r\nPrivate   garden.\tFree parking.\">" +
		"</head></html>"
	res, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	require.NotNil(t, res.Input.Name)
	require.NotNil(t, res.Input.Description)
	assert.Equal(t, "Garden flat near Didsbury", *res.Input.Name)
	assert.Equal(t, "Two bedrooms. Private garden. Free parking.", *res.Input.Description)
}

func TestParseEmptyPage(t *testing.T) {
	res, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, res.Fields)
	assert.NotNil(t, res.Fields)
}

func newSite(t *testing.T, robots string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if robots == "" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(robots))
	})
	mux.HandleFunc("/rooms/42", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.UserAgent())
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(listingPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestImport(t *testing.T) {
	srv := newSite(t, "")
	im := New(Options{UserAgent: "test-agent", CheckRobots: true})

	res, err := im.Import(context.Background(), srv.URL+"/rooms/42")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/rooms/42", res.URL)
	assert.NotEmpty(t, res.Source)
	assert.Equal(t, "Loft with balcony", *res.Input.Name)
}

func TestImportDisallowed(t *testing.T) {
	srv := newSite(t, "User-agent: *\nDisallow: /rooms/\n")

	_, err := New(Options{UserAgent: "test-agent", CheckRobots: true}).Import(context.Background(), srv.URL+"/rooms/42")
	assert.True(t, errors.Is(err, ErrDisallowed), "got %v", err)

	res, err := New(Options{UserAgent: "test-agent"}).Import(context.Background(), srv.URL+"/rooms/42")
	require.NoError(t, err)
	assert.NotNil(t, res.Input.Name)
}

func TestAllowed(t *testing.T) {
	srv := newSite(t, "User-agent: test-agent\nDisallow: /private\n")
	im := New(Options{UserAgent: "test-agent"})

	tests := []struct {
		path string
		want bool
	}{
		{"/rooms/42", true},
		{"/private/1", false},
		{"", true},
	}
	for _, tt := range tests {
		u, err := url.Parse(srv.URL + tt.path)
		require.NoError(t, err)
		got, err := im.Allowed(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestImportErrors(t *testing.T) {
	srv := newSite(t, "")
	im := New(Options{UserAgent: "test-agent"})

	_, err := im.Import(context.Background(), "not a url")
	assert.Error(t, err)

	_, err = im.Import(context.Background(), "ftp://example.com/x")
	assert.Error(t, err)

	_, err = im.Import(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(listingPage), 0644))

	res, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4.0, *res.Input.Accommodates)

	_, err = ImportFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
