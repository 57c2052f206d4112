package regress

// Linear is a linear regression model: dot(coef, x) + intercept.
type Linear struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// Predict returns the model output for x.
func (m *Linear) Predict(x []float64) (float64, error) {
	if err := checkWidth("linear", len(x), len(m.Coef)); err != nil {
		return 0, err
	}
	y := m.Intercept
	for i, c := range m.Coef {
		y += c * x[i]
	}
	return y, nil
}

// Validate checks the model against the feature row width.
func (m *Linear) Validate(width int) error {
	if err := checkFinite("linear coef", m.Coef); err != nil {
		return err
	}
	return checkWidth("linear", len(m.Coef), width)
}
