package model

import "fmt"

// Artifact is the persisted form of a linear regression over Features.
// Mean and Scale are optional; when present the features are standardised
// as (x-mean)/scale before the dot product.
type Artifact struct {
	Name         string    `yaml:"name" json:"name"`
	Version      string    `yaml:"version" json:"version"`
	Features     []string  `yaml:"features" json:"features"`
	Coefficients []float64 `yaml:"coefficients" json:"coefficients"`
	Intercept    float64   `yaml:"intercept" json:"intercept"`
	Mean         []float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	Scale        []float64 `yaml:"scale,omitempty" json:"scale,omitempty"`
}

type ArtifactError struct {
	msg string
}

func (e *ArtifactError) Error() string {
	return "invalid model artifact: " + e.msg
}

func (a *Artifact) Validate() error {
	if len(a.Features) != NumFeatures {
		return &ArtifactError{fmt.Sprintf("expected %d features, got %d", NumFeatures, len(a.Features))}
	}
	for i, name := range a.Features {
		if name != FeatureNames[i] {
			return &ArtifactError{fmt.Sprintf("feature %d is %q, want %q", i, name, FeatureNames[i])}
		}
	}
	if len(a.Coefficients) != NumFeatures {
		return &ArtifactError{fmt.Sprintf("expected %d coefficients, got %d", NumFeatures, len(a.Coefficients))}
	}
	if len(a.Mean) != len(a.Scale) {
		return &ArtifactError{"mean and scale must have the same length"}
	}
	if len(a.Mean) != 0 && len(a.Mean) != NumFeatures {
		return &ArtifactError{fmt.Sprintf("expected %d scaling entries, got %d", NumFeatures, len(a.Mean))}
	}
	for i, s := range a.Scale {
		if s == 0 {
			return &ArtifactError{fmt.Sprintf("scale for %s is zero", a.Features[i])}
		}
	}
	return nil
}

// LinearModel is immutable once built.
type LinearModel struct {
	name      string
	version   string
	coef      Features
	intercept float64
	mean      Features
	scale     Features
}

func NewLinearModel(a Artifact) (*LinearModel, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	m := &LinearModel{name: a.Name, version: a.Version, intercept: a.Intercept}
	copy(m.coef[:], a.Coefficients)
	for i := range m.scale {
		m.scale[i] = 1
	}
	if len(a.Mean) > 0 {
		copy(m.mean[:], a.Mean)
		copy(m.scale[:], a.Scale)
	}
	return m, nil
}

func (m *LinearModel) Predict(f Features) (float64, error) {
	y := m.intercept
	for i, x := range f {
		y += m.coef[i] * (x - m.mean[i]) / m.scale[i]
	}
	return y, nil
}

func (m *LinearModel) String() string {
	if m.version == "" {
		return m.name
	}
	return m.name + "@" + m.version
}
