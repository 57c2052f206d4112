// Package stayprice predicts the nightly price of a short-term rental
// listing.
//
// It assembles the listing into the feature row a trained model expects,
// runs the model bundle (scaler + regressor) and analyses the result.
//
//	p, _ := stayprice.New()
//	pred, _ := p.Predict(&listing.Input{
//	    RoomType:     listing.String("Entire home/apt"),
//	    Accommodates: listing.Float(4),
//	})
//	fmt.Println(pred.Price)                  // 92.4
//	fmt.Println(pred.Report.Market.Position) // "above"
package stayprice

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/happyhackingspace/stayprice/analytics"
	"github.com/happyhackingspace/stayprice/internal/storage"
	"github.com/happyhackingspace/stayprice/listing"
	"github.com/happyhackingspace/stayprice/regress"
)

// Options configures a Predictor.
type Options struct {
	Listing listing.Options
	// Market is the neighbourhood price table; nil uses the built-in one.
	Market map[string]analytics.MarketBand
	// Fallback is the band for neighbourhoods missing from Market.
	Fallback analytics.MarketBand
}

// DefaultOptions returns the options matching the bundled Manchester model.
func DefaultOptions() Options {
	return Options{
		Listing:  listing.DefaultOptions(),
		Fallback: analytics.DefaultFallback,
	}
}

// Predictor wraps a model bundle with the feature assembler and analyzer.
// It is immutable after construction and safe for concurrent use.
type Predictor struct {
	bundle    *regress.Bundle
	assembler *listing.Assembler
	analyzer  *analytics.Analyzer
}

// Prediction is the result of a single prediction.
type Prediction struct {
	Price   float64          `json:"price"`
	Row     listing.Row      `json:"row"`
	Quality listing.Quality  `json:"quality"`
	Report  analytics.Report `json:"report"`
}

// New loads the predictor from "model.json", searching the current directory
// and parent directories up to the module root (where go.mod lives), then
// the user cache folder returned by ModelDir.
func New() (*Predictor, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions is New with explicit options.
func NewWithOptions(opts Options) (*Predictor, error) {
	path, err := findModel(storage.BundleFile)
	if err != nil {
		cached := filepath.Join(ModelDir(), storage.BundleFile)
		if _, statErr := os.Stat(cached); statErr != nil {
			return nil, fmt.Errorf("stayprice: %w", err)
		}
		path = cached
	}
	return LoadWithOptions(path, opts)
}

// ModelDir returns the folder downloaded models are cached in.
func ModelDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "stayprice")
	}
	return filepath.Join(dir, "stayprice")
}

func findModel(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// Stop at module root
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found", name)
}

// Load loads a predictor with the default options. path is either a bundle
// file or a folder of model artifacts.
func Load(path string) (*Predictor, error) {
	return LoadWithOptions(path, DefaultOptions())
}

// LoadWithOptions loads a predictor from path with the given options.
func LoadWithOptions(path string, opts Options) (*Predictor, error) {
	b, err := loadBundle(path)
	if err != nil {
		return nil, fmt.Errorf("stayprice: %w", err)
	}
	return NewPredictor(b, opts)
}

func loadBundle(path string) (*regress.Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return storage.NewStorage(path).LoadBundle()
	}
	return regress.LoadBundle(path)
}

// NewPredictor creates a predictor around an in-memory bundle.
func NewPredictor(b *regress.Bundle, opts Options) (*Predictor, error) {
	if b == nil {
		return nil, errors.New("stayprice: nil bundle")
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("stayprice: %w", err)
	}
	return &Predictor{
		bundle:    b,
		assembler: listing.NewAssembler(opts.Listing),
		analyzer:  analytics.NewAnalyzer(opts.Market, opts.Fallback),
	}, nil
}

// Save writes the model bundle to a file.
func (p *Predictor) Save(path string) error {
	if p.bundle == nil {
		return errors.New("stayprice: predictor not initialized")
	}
	if err := regress.SaveBundle(p.bundle, path); err != nil {
		return fmt.Errorf("stayprice: %w", err)
	}
	return nil
}

// Columns returns a copy of the model's feature columns.
func (p *Predictor) Columns() []string {
	return slices.Clone(p.bundle.FeatureColumns)
}

// Defaults returns a copy of the model's feature defaults.
func (p *Predictor) Defaults() map[string]float64 {
	return maps.Clone(p.bundle.FeatureDefaults)
}

// Metadata returns the bundle metadata.
func (p *Predictor) Metadata() regress.Metadata {
	return p.bundle.Metadata
}

// Record returns every feature the assembler derives for in, before
// alignment with the model columns.
func (p *Predictor) Record(in *listing.Input) listing.Record {
	return p.assembler.Derive(in, p.bundle.FeatureDefaults)
}

// Features returns the feature row for in, aligned with the model columns.
func (p *Predictor) Features(in *listing.Input) listing.Row {
	return p.assembler.Assemble(in, p.bundle.FeatureDefaults, p.bundle.FeatureColumns)
}

// Price predicts the nightly price for in without the analysis.
func (p *Predictor) Price(in *listing.Input) (float64, listing.Row, error) {
	row := p.Features(in)
	price, err := p.bundle.Predict(row.Values)
	if err != nil {
		return 0, row, fmt.Errorf("stayprice: %w", err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, row, fmt.Errorf("stayprice: model returned %v", price)
	}
	// Prices are floored at zero.
	return max(price, 0), row, nil
}

// Predict predicts the nightly price for in and analyses it.
func (p *Predictor) Predict(in *listing.Input) (*Prediction, error) {
	price, row, err := p.Price(in)
	if err != nil {
		return nil, err
	}
	r := in.Resolve()
	return &Prediction{
		Price:   price,
		Row:     row,
		Quality: listing.Extract(r).Quality,
		Report:  p.analyzer.Analyze(price, r),
	}, nil
}
