package collect

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/stayprice/internal/importer"
	"github.com/happyhackingspace/stayprice/internal/storage"
	"github.com/happyhackingspace/stayprice/listing"
)

type fakeImporter struct {
	pages map[string]*importer.Result
	calls []string
}

func (f *fakeImporter) Import(_ context.Context, pageURL string) (*importer.Result, error) {
	f.calls = append(f.calls, pageURL)
	res, ok := f.pages[pageURL]
	if !ok {
		return nil, errors.New("HTTP 404")
	}
	return res, nil
}

func newFake() *fakeImporter {
	return &fakeImporter{pages: map[string]*importer.Result{
		"https://example.com/rooms/1": {
			Input:  listing.Input{Name: listing.String("Loft"), Accommodates: listing.Float(2)},
			Fields: []string{"accommodates", "name"},
		},
		"https://example.com/rooms/2": {
			Input:  listing.Input{Name: listing.String("Flat"), Neighbourhood: listing.String("Hulme")},
			Fields: []string{"name", "neighbourhood_cleansed"},
		},
	}}
}

func writeSeeds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeds.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSeeds(t *testing.T) {
	path := writeSeeds(t, `# manchester
https://example.com/rooms/1

{"url": "https://example.com/rooms/2", "neighbourhood": "City Centre", "price": 90}
{"url": broken}
{"neighbourhood": "Hulme"}
`)
	seeds, err := LoadSeeds(path)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "https://example.com/rooms/1", seeds[0].URL)
	assert.Equal(t, "City Centre", seeds[1].Neighbourhood)
	require.NotNil(t, seeds[1].Price)
	assert.Equal(t, 90.0, *seeds[1].Price)

	_, err = LoadSeeds(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	price := 120.0
	seeds := []Seed{
		{URL: "https://example.com/rooms/1", Neighbourhood: "Ancoats", RoomType: "Entire home/apt", Price: &price},
		{URL: "https://example.com/rooms/404"},
		{URL: "https://example.com/rooms/2", Neighbourhood: "Ignored"},
		{URL: "https://EXAMPLE.com/rooms/1/#photos"},
	}
	var buf bytes.Buffer
	lw, err := storage.NewListingWriter(&buf, true)
	require.NoError(t, err)

	fake := newFake()
	seen := map[string]bool{}
	stats, err := Run(context.Background(), fake, seeds, lw, seen, Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Collected: 2, Skipped: 1, Failed: 1}, stats)
	assert.Len(t, fake.calls, 3)
	assert.Len(t, seen, 2)

	lr, err := storage.NewListingReader(&buf)
	require.NoError(t, err)
	first, err := lr.Next()
	require.NoError(t, err)
	assert.Len(t, first.ID, 12)
	assert.Equal(t, "Ancoats", *first.Input.Neighbourhood)
	assert.Equal(t, "Entire home/apt", *first.Input.RoomType)
	assert.Equal(t, 120.0, *first.Price)

	second, err := lr.Next()
	require.NoError(t, err)
	assert.Equal(t, "Hulme", *second.Input.Neighbourhood)
	assert.Nil(t, second.Price)
}

func TestRunMax(t *testing.T) {
	seeds := []Seed{{URL: "https://example.com/rooms/1"}, {URL: "https://example.com/rooms/2"}}
	lw, err := storage.NewListingWriter(&bytes.Buffer{}, true)
	require.NoError(t, err)

	fake := newFake()
	stats, err := Run(context.Background(), fake, seeds, lw, map[string]bool{}, Options{Max: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Collected)
	assert.Len(t, fake.calls, 1)
}

func TestRunCancelled(t *testing.T) {
	seeds := []Seed{{URL: "https://example.com/rooms/1"}, {URL: "https://example.com/rooms/2"}}
	lw, err := storage.NewListingWriter(&bytes.Buffer{}, true)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	fake := newFake()
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	stats, err := Run(ctx, fake, seeds, lw, map[string]bool{}, Options{Delay: time.Minute})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stats.Collected)
}

func TestSeen(t *testing.T) {
	dir := t.TempDir()

	seen, err := Seen(filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)
	assert.Empty(t, seen)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	seen, err = Seen(empty)
	require.NoError(t, err)
	assert.Empty(t, seen)

	path := filepath.Join(dir, "listings.csv")
	content := strings.Join(storage.ListingColumns, ",") + "\n" +
		"abc,https://example.com/rooms/1/" + strings.Repeat(",", len(storage.ListingColumns)-2) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	seen, err = Seen(path)
	require.NoError(t, err)
	assert.True(t, seen["https://example.com/rooms/1"])
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/rooms/1", normalizeURL("https://Example.com/rooms/1/#x"))
	assert.Equal(t, listingID("a"), listingID("a"))
	assert.NotEqual(t, listingID("a"), listingID("b"))
}
