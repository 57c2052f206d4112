package regress

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// Target transforms applied to the regressor output.
const (
	TargetIdentity = ""
	TargetLog1p    = "log1p"
)

// Collaborator type tags used in bundle files.
const (
	TypeStandard = "standard"
	TypeIdentity = "identity"
	TypeLinear   = "linear"
	TypeTrees    = "tree_ensemble"
)

// Metadata describes where a bundle came from.
type Metadata struct {
	Name      string `json:"name,omitempty"`
	City      string `json:"city,omitempty"`
	TrainedAt string `json:"trained_at,omitempty"`
	Version   string `json:"version,omitempty"`
}

// Bundle is a trained price model with everything needed to run it: the
// ordered feature columns, the defaults table, the scaler and the regressor.
type Bundle struct {
	FeatureColumns  []string
	FeatureDefaults map[string]float64
	Scaler          Scaler
	Regressor       Regressor
	TargetTransform string
	Metadata        Metadata
}

type bundleJSON struct {
	FeatureColumns  []string           `json:"feature_columns"`
	FeatureDefaults map[string]float64 `json:"feature_defaults"`
	Scaler          json.RawMessage    `json:"scaler,omitempty"`
	Regressor       json.RawMessage    `json:"regressor"`
	TargetTransform string             `json:"target_transform,omitempty"`
	Metadata        Metadata           `json:"metadata"`
}

// Predict scales row, runs the regressor and inverts the target transform.
func (b *Bundle) Predict(row []float64) (float64, error) {
	if err := checkWidth("bundle", len(row), len(b.FeatureColumns)); err != nil {
		return 0, err
	}
	scaler := b.Scaler
	if scaler == nil {
		scaler = IdentityScaler{}
	}
	x, err := scaler.Transform(row)
	if err != nil {
		return 0, fmt.Errorf("scale: %w", err)
	}
	if b.Regressor == nil {
		return 0, errors.New("bundle has no regressor")
	}
	y, err := b.Regressor.Predict(x)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if b.TargetTransform == TargetLog1p {
		y = math.Expm1(y)
	}
	return y, nil
}

// Validate checks that the scaler and regressor fit the feature columns.
func (b *Bundle) Validate() error {
	if len(b.FeatureColumns) == 0 {
		return errors.New("bundle has no feature columns")
	}
	seen := make(map[string]struct{}, len(b.FeatureColumns))
	for _, c := range b.FeatureColumns {
		if _, dup := seen[c]; dup {
			return fmt.Errorf("duplicate feature column %q", c)
		}
		seen[c] = struct{}{}
	}
	switch b.TargetTransform {
	case TargetIdentity, TargetLog1p:
	default:
		return fmt.Errorf("unknown target transform %q", b.TargetTransform)
	}
	if b.Regressor == nil {
		return errors.New("bundle has no regressor")
	}
	width := len(b.FeatureColumns)
	if v, ok := b.Scaler.(validator); ok {
		if err := v.Validate(width); err != nil {
			return err
		}
	}
	if v, ok := b.Regressor.(validator); ok {
		if err := v.Validate(width); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the bundle with type-tagged collaborators.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	out := bundleJSON{
		FeatureColumns:  b.FeatureColumns,
		FeatureDefaults: b.FeatureDefaults,
		TargetTransform: b.TargetTransform,
		Metadata:        b.Metadata,
	}
	var err error
	if b.Scaler != nil {
		if out.Scaler, err = encodeTagged(b.Scaler); err != nil {
			return nil, err
		}
	}
	if b.Regressor != nil {
		if out.Regressor, err = encodeTagged(b.Regressor); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a bundle written by MarshalJSON.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var in bundleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*b = Bundle{
		FeatureColumns:  in.FeatureColumns,
		FeatureDefaults: in.FeatureDefaults,
		TargetTransform: in.TargetTransform,
		Metadata:        in.Metadata,
	}
	if b.FeatureDefaults == nil {
		b.FeatureDefaults = make(map[string]float64)
	}
	if len(in.Scaler) > 0 && string(in.Scaler) != "null" {
		v, err := decodeTagged(in.Scaler)
		if err != nil {
			return fmt.Errorf("scaler: %w", err)
		}
		s, ok := v.(Scaler)
		if !ok {
			return fmt.Errorf("scaler: %T is not a scaler", v)
		}
		b.Scaler = s
	}
	if len(in.Regressor) > 0 && string(in.Regressor) != "null" {
		v, err := decodeTagged(in.Regressor)
		if err != nil {
			return fmt.Errorf("regressor: %w", err)
		}
		r, ok := v.(Regressor)
		if !ok {
			return fmt.Errorf("regressor: %T is not a regressor", v)
		}
		b.Regressor = r
	}
	return nil
}

func typeOf(v any) (string, error) {
	switch v.(type) {
	case *StandardScaler:
		return TypeStandard, nil
	case IdentityScaler, *IdentityScaler:
		return TypeIdentity, nil
	case *Linear:
		return TypeLinear, nil
	case *TreeEnsemble:
		return TypeTrees, nil
	default:
		return "", fmt.Errorf("unsupported collaborator %T", v)
	}
}

func encodeTagged(v any) (json.RawMessage, error) {
	kind, err := typeOf(v)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(kind)
	return json.Marshal(fields)
}

func decodeTagged(data json.RawMessage) (any, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var v any
	switch head.Type {
	case TypeStandard:
		v = &StandardScaler{}
	case TypeIdentity:
		return IdentityScaler{}, nil
	case TypeLinear:
		v = &Linear{}
	case TypeTrees:
		v = &TreeEnsemble{}
	default:
		return nil, fmt.Errorf("unknown type %q", head.Type)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// SaveBundle writes the bundle to path as indented JSON.
func SaveBundle(b *Bundle, path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadBundle reads and validates a bundle from path.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalBundle(data)
}

// MarshalBundle serializes the bundle to JSON bytes.
func MarshalBundle(b *Bundle) ([]byte, error) {
	return json.Marshal(b)
}

// UnmarshalBundle deserializes and validates a bundle from JSON bytes.
func UnmarshalBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
