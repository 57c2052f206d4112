// Package vectorizer turns heterogeneous feature dicts into numeric records
// and projects records onto a fixed column order.
package vectorizer

import (
	"math"
	"strings"
)

// DefaultSeparator joins a categorical feature name and its value, matching
// the column names produced by pandas.get_dummies.
const DefaultSeparator = "_"

// DictVectorizer converts feature dicts to named numeric values.
type DictVectorizer struct {
	Separator string
}

// NewDictVectorizer creates a DictVectorizer with the default separator.
func NewDictVectorizer() *DictVectorizer {
	return &DictVectorizer{Separator: DefaultSeparator}
}

// Transform converts a feature dict to a flat numeric record.
func (dv *DictVectorizer) Transform(d map[string]any) map[string]float64 {
	out := make(map[string]float64, len(d))
	dv.Overlay(out, d)
	return out
}

// Overlay writes the features of d into dst, overwriting existing keys.
// A string feature "name" with value "v" sets column "name_v" to 1 and clears
// every other "name_*" column already present in dst, so the group stays
// one-hot. Values of unsupported types are skipped.
func (dv *DictVectorizer) Overlay(dst map[string]float64, d map[string]any) {
	for k, v := range d {
		if s, ok := v.(string); ok {
			prefix := k + dv.sep()
			for existing := range dst {
				if strings.HasPrefix(existing, prefix) {
					dst[existing] = 0
				}
			}
			dst[dv.featureKey(k, s)] = 1
			continue
		}
		if val, ok := dv.featureValue(v); ok {
			dst[k] = val
		}
	}
}

func (dv *DictVectorizer) sep() string {
	if dv.Separator == "" {
		return DefaultSeparator
	}
	return dv.Separator
}

// featureKey returns the compound key for a categorical feature.
func (dv *DictVectorizer) featureKey(name, value string) string {
	return name + dv.sep() + value
}

// featureValue returns the numeric value for a non-categorical feature.
func (dv *DictVectorizer) featureValue(value any) (float64, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1.0, true
		}
		return 0.0, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// Project returns the values of record in the order of columns. Columns
// missing from record, and non-finite values, become 0. Keys of record that
// are not listed in columns are dropped.
func Project(record map[string]float64, columns []string) []float64 {
	out := make([]float64, len(columns))
	for i, c := range columns {
		v, ok := record[c]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}
