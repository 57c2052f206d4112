// Package collect turns a list of listing page URLs into a listings CSV that
// the batch scorer reads.
package collect

import (
	"bufio"
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/happyhackingspace/stayprice/internal/importer"
	"github.com/happyhackingspace/stayprice/internal/storage"
)

// Seed is one page to collect. Neighbourhood, RoomType and Price fill in
// what the page itself does not carry.
type Seed struct {
	URL           string   `json:"url"`
	Neighbourhood string   `json:"neighbourhood,omitempty"`
	RoomType      string   `json:"room_type,omitempty"`
	Price         *float64 `json:"price,omitempty"`
}

// Importer fetches and parses one listing page.
type Importer interface {
	Import(ctx context.Context, pageURL string) (*importer.Result, error)
}

// Options tunes a collection run.
type Options struct {
	// Delay is the pause between two page fetches.
	Delay time.Duration
	// Max stops the run after that many collected pages; 0 is unlimited.
	Max int
}

// Stats summarises a collection run.
type Stats struct {
	Collected int `json:"collected"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// LoadSeeds reads a seed file. Each line is either a JSON Seed object or a
// bare URL; blank lines and lines starting with "#" are ignored.
func LoadSeeds(path string) ([]Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var seeds []Seed
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var s Seed
		if strings.HasPrefix(line, "{") {
			if err := json.Unmarshal([]byte(line), &s); err != nil {
				slog.Warn("Skipping invalid seed line", "line", line, "error", err)
				continue
			}
		} else {
			s.URL = line
		}
		if s.URL == "" {
			slog.Warn("Skipping seed without url", "line", line)
			continue
		}
		seeds = append(seeds, s)
	}
	return seeds, scanner.Err()
}

// Seen returns the normalized listing URLs already present in the listings
// CSV at path. A missing or empty file yields an empty set.
func Seen(path string) (map[string]bool, error) {
	seen := make(map[string]bool)
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		return seen, nil
	}
	if err != nil {
		return nil, err
	}
	recs, err := storage.ReadListings(path)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.URL != "" {
			seen[normalizeURL(rec.URL)] = true
		}
	}
	return seen, nil
}

// Run imports every seed not in seen and writes it to lw. seen is updated
// with each collected URL. A page that fails to import is logged and
// skipped; only write errors and cancellation stop the run.
func Run(ctx context.Context, im Importer, seeds []Seed, lw *storage.ListingWriter, seen map[string]bool, opts Options) (Stats, error) {
	var stats Stats
	fetched := 0
	for _, seed := range seeds {
		if opts.Max > 0 && stats.Collected >= opts.Max {
			break
		}
		key := normalizeURL(seed.URL)
		if seen[key] {
			stats.Skipped++
			slog.Debug("Already collected", "url", seed.URL)
			continue
		}

		if fetched > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		fetched++

		res, err := im.Import(ctx, seed.URL)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			slog.Warn("Failed to import", "url", seed.URL, "error", err)
			continue
		}

		rec := record(seed, key, res)
		if err := lw.Write(rec); err != nil {
			return stats, fmt.Errorf("write %s: %w", seed.URL, err)
		}
		seen[key] = true
		stats.Collected++
		slog.Info("Collected", "url", seed.URL, "fields", len(res.Fields), "total", stats.Collected)
	}
	return stats, nil
}

func record(seed Seed, key string, res *importer.Result) *storage.ListingRecord {
	rec := &storage.ListingRecord{
		ID:    listingID(key),
		URL:   seed.URL,
		Input: res.Input,
		Price: seed.Price,
	}
	if rec.Input.Neighbourhood == nil && seed.Neighbourhood != "" {
		v := seed.Neighbourhood
		rec.Input.Neighbourhood = &v
	}
	if rec.Input.RoomType == nil && seed.RoomType != "" {
		v := seed.RoomType
		rec.Input.RoomType = &v
	}
	return rec
}

func listingID(key string) string {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(key)))
	return hash[:12]
}

func normalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	s := u.String()
	return strings.TrimRight(s, "/")
}
