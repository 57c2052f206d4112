package regress

import "fmt"

// StandardScaler standardises each feature as (x - mean) / scale, like
// sklearn's StandardScaler. A zero scale is treated as 1.
type StandardScaler struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

// Transform returns a new standardised row.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth("standard scaler", len(x), len(s.Mean)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}

// Validate checks the scaler against the feature row width.
func (s *StandardScaler) Validate(width int) error {
	if len(s.Scale) != len(s.Mean) {
		return fmt.Errorf("standard scaler: %w: %d means, %d scales", ErrDimension, len(s.Mean), len(s.Scale))
	}
	if len(s.FeatureNames) > 0 && len(s.FeatureNames) != len(s.Mean) {
		return fmt.Errorf("standard scaler: %w: %d feature names, %d means", ErrDimension, len(s.FeatureNames), len(s.Mean))
	}
	if err := checkFinite("standard scaler mean", s.Mean); err != nil {
		return err
	}
	if err := checkFinite("standard scaler scale", s.Scale); err != nil {
		return err
	}
	return checkWidth("standard scaler", len(s.Mean), width)
}

// IdentityScaler passes rows through unchanged.
type IdentityScaler struct{}

// Transform returns a copy of x.
func (IdentityScaler) Transform(x []float64) ([]float64, error) {
	return append([]float64(nil), x...), nil
}
