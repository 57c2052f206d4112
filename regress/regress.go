// Package regress implements the scaler and regressor collaborators that
// turn an assembled feature row into a price, and the JSON bundle they are
// shipped in.
package regress

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimension is returned when a vector does not have the width a scaler or
// regressor was fitted on.
var ErrDimension = errors.New("dimension mismatch")

// Scaler maps a raw feature row into model input space.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
}

// Regressor predicts a single value from a scaled feature row.
type Regressor interface {
	Predict(x []float64) (float64, error)
}

// validator is implemented by collaborators that can check themselves
// against the width of the feature row.
type validator interface {
	Validate(width int) error
}

func checkWidth(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s: %w: got %d values, want %d", what, ErrDimension, got, want)
	}
	return nil
}

func checkFinite(what string, x []float64) error {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: non-finite value %v at index %d", what, v, i)
		}
	}
	return nil
}
