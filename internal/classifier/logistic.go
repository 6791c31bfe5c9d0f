package classifier

import (
	"context"
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/aquasafe/internal/sample"
)

//go:embed default_model.yaml
var defaultModelYAML []byte

// Artifact is the on-disk form of a trained model: a standard scaler
// followed by a logistic regression over the scaled features.
type Artifact struct {
	Name     string   `yaml:"name"`
	Version  int      `yaml:"version"`
	Features []string `yaml:"features"`
	Scaler   struct {
		Mean  []float64 `yaml:"mean"`
		Scale []float64 `yaml:"scale"`
	} `yaml:"scaler"`
	Model struct {
		Intercept    float64   `yaml:"intercept"`
		Coefficients []float64 `yaml:"coefficients"`
	} `yaml:"model"`
}

// Logistic is a Classifier backed by a loaded Artifact. It is read-only
// after construction.
type Logistic struct {
	name      string
	mean      []float64
	scale     []float64
	intercept float64
	coef      []float64
}

var _ Classifier = (*Logistic)(nil)

// LoadModel reads a model artifact from path. An empty path loads the
// embedded default model.
func LoadModel(path string) (*Logistic, error) {
	data := defaultModelYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read model artifact: %w", err)
		}
		data = b
	}
	return ParseModel(data)
}

// ParseModel decodes and validates a YAML model artifact.
func ParseModel(data []byte) (*Logistic, error) {
	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %q: %w", a.Name, err)
	}
	return &Logistic{
		name:      a.Name,
		mean:      a.Scaler.Mean,
		scale:     a.Scaler.Scale,
		intercept: a.Model.Intercept,
		coef:      a.Model.Coefficients,
	}, nil
}

// validate checks that the artifact was trained on exactly the feature
// order used by sample.Features.
func (a *Artifact) validate() error {
	n := len(sample.FeatureNames)
	if len(a.Features) != n {
		return fmt.Errorf("expected %d features, artifact lists %d", n, len(a.Features))
	}
	for i, f := range sample.FeatureNames {
		if a.Features[i] != string(f) {
			return fmt.Errorf("feature %d is %q, expected %q", i, a.Features[i], f)
		}
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("scaler needs %d means and scales", n)
	}
	if len(a.Model.Coefficients) != n {
		return fmt.Errorf("model needs %d coefficients, got %d", n, len(a.Model.Coefficients))
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("scaler scale for %s is zero", sample.FeatureNames[i])
		}
	}
	return nil
}

// Name returns the artifact name.
func (m *Logistic) Name() string {
	return m.name
}

// Predict scales the features and returns the logistic probability of the
// "safe" class.
func (m *Logistic) Predict(ctx context.Context, features []float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &PredictionError{Reason: "cancelled", Err: err}
	}
	scaled, err := m.transform(features)
	if err != nil {
		return 0, err
	}

	z := m.intercept
	for i, x := range scaled {
		z += m.coef[i] * x
	}
	p := 1 / (1 + math.Exp(-z))
	if math.IsNaN(p) {
		return 0, &PredictionError{Reason: "model produced NaN"}
	}
	return p, nil
}

func (m *Logistic) transform(features []float64) ([]float64, error) {
	if len(features) != len(m.mean) {
		return nil, &PredictionError{
			Reason: fmt.Sprintf("expected %d features, got %d", len(m.mean), len(features)),
		}
	}
	out := make([]float64, len(features))
	for i, x := range features {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &PredictionError{
				Reason: fmt.Sprintf("feature %s is not finite", sample.FeatureNames[i]),
			}
		}
		out[i] = (x - m.mean[i]) / m.scale[i]
	}
	return out, nil
}
