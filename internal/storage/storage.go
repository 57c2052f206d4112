// Package storage provides access to model artifacts and listing data files.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/happyhackingspace/stayprice/regress"
)

// Artifact file names inside a model folder.
const (
	BundleFile    = "model.json"
	ColumnsFile   = "feature_columns.json"
	DefaultsFile  = "feature_defaults.json"
	ScalerFile    = "scaler.json"
	RegressorFile = "regressor.json"
)

// Storage wraps a model artifact folder.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage for the given folder.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// LoadBundle loads the model bundle. A folder holding model.json is read as
// one file; otherwise the bundle is assembled from the split artifacts
// (feature_columns.json, feature_defaults.json, scaler.json, regressor.json).
func (s *Storage) LoadBundle() (*regress.Bundle, error) {
	path := filepath.Join(s.Folder, BundleFile)
	if _, err := os.Stat(path); err == nil {
		return regress.LoadBundle(path)
	}
	slog.Debug("No bundle file, loading split artifacts", "folder", s.Folder)
	return s.loadSplit()
}

// SaveBundle writes the bundle as a single model.json.
func (s *Storage) SaveBundle(b *regress.Bundle) error {
	if err := os.MkdirAll(s.Folder, 0755); err != nil {
		return err
	}
	return regress.SaveBundle(b, filepath.Join(s.Folder, BundleFile))
}

func (s *Storage) loadSplit() (*regress.Bundle, error) {
	var columns []string
	if err := s.readJSON(ColumnsFile, &columns); err != nil {
		return nil, fmt.Errorf("read feature columns: %w", err)
	}
	defaults := make(map[string]float64)
	if err := s.readJSON(DefaultsFile, &defaults); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read feature defaults: %w", err)
	}

	scaler, err := s.readRaw(ScalerFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read scaler: %w", err)
	}
	regressor, err := s.readRaw(RegressorFile)
	if err != nil {
		return nil, fmt.Errorf("read regressor: %w", err)
	}

	doc := map[string]any{
		"feature_columns":  columns,
		"feature_defaults": defaults,
		"regressor":        regressor,
	}
	if scaler != nil {
		doc["scaler"] = scaler
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return regress.UnmarshalBundle(data)
}

func (s *Storage) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.Folder, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *Storage) readRaw(name string) (json.RawMessage, error) {
	data, err := os.ReadFile(filepath.Join(s.Folder, name))
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: invalid JSON", name)
	}
	return json.RawMessage(data), nil
}

// GetDomain extracts the registrable domain name from a URL, without its
// public suffix ("www.airbnb.co.uk" -> "airbnb").
func GetDomain(rawURL string) string {
	host := rawURL
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.Index(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	if idx := strings.Index(domain, "."); idx >= 0 {
		return domain[:idx]
	}
	return domain
}
