// Package importer builds a listing input from a public listing page. Pages
// are fetched over HTTP, or rendered in headless Chrome when requested, and
// parsed for Open Graph tags and schema.org JSON-LD.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/temoto/robotstxt"

	"github.com/happyhackingspace/stayprice/internal/storage"
	"github.com/happyhackingspace/stayprice/listing"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page.
var ErrDisallowed = errors.New("disallowed by robots.txt")

const maxPageBytes = 10 << 20

// Options configures an Importer.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	Render      bool
	CheckRobots bool
	// Client is used for plain fetches and robots.txt; nil builds one from
	// Timeout.
	Client *http.Client
}

// Importer fetches and parses listing pages.
type Importer struct {
	opts   Options
	client *http.Client
}

// Result is an imported listing.
type Result struct {
	URL    string        `json:"url,omitempty"`
	Source string        `json:"source,omitempty"`
	Input  listing.Input `json:"input"`
	// Fields lists the input fields found on the page.
	Fields []string `json:"fields"`
}

// New creates an Importer.
func New(opts Options) *Importer {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "stayprice/1.0"
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	return &Importer{opts: opts, client: client}
}

// Import fetches pageURL and parses it.
func (im *Importer) Import(ctx context.Context, pageURL string) (*Result, error) {
	u, err := url.Parse(pageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid listing URL %q", pageURL)
	}
	if im.opts.CheckRobots {
		allowed, err := im.Allowed(ctx, u)
		if err != nil {
			slog.Warn("robots.txt check failed, continuing", "url", pageURL, "error", err)
		} else if !allowed {
			return nil, fmt.Errorf("%s: %w", pageURL, ErrDisallowed)
		}
	}

	var html string
	if im.opts.Render {
		html, err = im.render(ctx, pageURL)
	} else {
		html, err = im.fetch(ctx, pageURL)
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("Fetched listing page", "url", pageURL, "bytes", len(html), "rendered", im.opts.Render)

	res, err := Parse(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	res.URL = pageURL
	res.Source = storage.GetDomain(pageURL)
	return res, nil
}

// ImportFile parses a saved listing page.
func ImportFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Allowed reports whether robots.txt on u's host lets the importer fetch u.
// A missing robots.txt allows everything.
func (im *Importer) Allowed(ctx context.Context, u *url.URL) (bool, error) {
	robotsURL := (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", im.opts.UserAgent)
	resp, err := im.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return false, fmt.Errorf("parse robots.txt: %w", err)
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, im.opts.UserAgent), nil
}

func (im *Importer) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", im.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := im.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(body), nil
}

func (im *Importer) render(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(im.opts.UserAgent),
		chromedp.WindowSize(1280, 900),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))
	defer cancelBrowser()
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, im.opts.Timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return html, nil
}

// presentFields lists the JSON names of the non-empty fields of in.
func presentFields(in *listing.Input) []string {
	data, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return slices.Sorted(maps.Keys(m))
}
