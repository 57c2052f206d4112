// Package listing turns a loosely specified short-term rental listing into the
// ordered numeric feature row a trained price model expects.
//
// The pipeline runs in two phases. Derive computes every feature the package
// knows how to build (text, picture URL, amenities, quality scores, one-hot
// categories and derived ratios) on top of a copy of the caller's defaults
// table. Project then aligns that record with the model's column list.
//
//	a := listing.NewAssembler(listing.DefaultOptions())
//	row := a.Assemble(in, defaults, columns)
//	fmt.Println(row.Columns, row.Values)
package listing

import (
	"maps"
	"slices"
)

// Features is one feature group: a fixed set of keys mapped to bool, int,
// float64 or string values. String values are categorical and are one-hot
// encoded when the group is merged into a Record.
type Features map[string]any

// Record is a flat numeric feature record keyed by column name.
type Record map[string]float64

// Keys returns the record's column names in sorted order.
func (r Record) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// Row is a single assembled feature row. Columns and Values have the same
// length and follow the required column order exactly.
type Row struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Get returns the value of the named column.
func (r Row) Get(name string) (float64, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Map returns the row as a column -> value map.
func (r Row) Map() map[string]float64 {
	m := make(map[string]float64, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// number reads a numeric feature, treating bools as 0/1 and anything missing
// or non-numeric as 0.
func (f Features) number(key string) float64 {
	switch v := f[key].(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
