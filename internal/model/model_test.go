package model

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const artifactYAML = `
name: buckling-linear
version: "2"
features: [Length_mm, Width_mm, Thickness_mm, Outer_Diameter_mm, Inner_Diameter_mm, Hole_Diameter_mm, Youngs_Modulus_MPa]
coefficients: [-0.01, 0.02, 0.5, 0.03, -0.01, -0.05, 0.001]
intercept: 1.5
`

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		pred   float64
		reason string
	}{
		{"nan", math.NaN(), "nan"},
		{"inf", math.Inf(1), "infinite"},
		{"negative inf", math.Inf(-1), "infinite"},
		{"zero", 0, "non_positive"},
		{"negative", -3, "non_positive"},
		{"too large", 1e6 + 1, "out_of_range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.pred)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidOutput)

			var oe *OutputError
			require.True(t, errors.As(err, &oe))
			assert.Equal(t, tt.reason, oe.Reason)
		})
	}

	assert.NoError(t, Validate(0.001))
	assert.NoError(t, Validate(MaxPlausibleKN))
}

func TestLinearModelPredict(t *testing.T) {
	a, err := ParseArtifact([]byte(artifactYAML))
	require.NoError(t, err)

	m, err := NewLinearModel(a)
	require.NoError(t, err)
	assert.Equal(t, "buckling-linear@2", m.String())

	f := NewFeatures(100, 20, 2, 0, 0, 0, 2300)
	got, err := m.Predict(f)
	require.NoError(t, err)
	assert.InDelta(t, 1.5-1+0.4+1+2.3, got, 1e-12)
}

func TestLinearModelStandardised(t *testing.T) {
	m, err := NewLinearModel(Artifact{
		Features:     FeatureNames[:],
		Coefficients: []float64{1, 0, 0, 0, 0, 0, 0},
		Mean:         []float64{100, 0, 0, 0, 0, 0, 0},
		Scale:        []float64{50, 1, 1, 1, 1, 1, 1},
	})
	require.NoError(t, err)

	got, err := m.Predict(Features{200})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-12)
}

func TestArtifactValidate(t *testing.T) {
	good := func() Artifact {
		return Artifact{Features: FeatureNames[:], Coefficients: make([]float64, NumFeatures)}
	}

	a := good()
	assert.NoError(t, a.Validate())

	a = good()
	a.Features = FeatureNames[:6]
	assert.Error(t, a.Validate())

	a = good()
	a.Features = append([]string{}, FeatureNames[:]...)
	a.Features[0], a.Features[1] = a.Features[1], a.Features[0]
	assert.Error(t, a.Validate())

	a = good()
	a.Coefficients = []float64{1}
	assert.Error(t, a.Validate())

	a = good()
	a.Mean = make([]float64, NumFeatures)
	assert.Error(t, a.Validate())

	a = good()
	a.Mean = make([]float64, NumFeatures)
	a.Scale = make([]float64, NumFeatures)
	var ae *ArtifactError
	assert.ErrorAs(t, a.Validate(), &ae)
}

func TestParseArtifactRejectsUnknownKeys(t *testing.T) {
	_, err := ParseArtifact([]byte("features: []\nbias: 1\n"))
	assert.Error(t, err)
}

func TestParseArtifactJSON(t *testing.T) {
	a, err := ParseArtifact([]byte(`{"name":"j","features":[],"coefficients":[1],"intercept":2}`))
	require.NoError(t, err)
	assert.Equal(t, "j", a.Name)
	assert.Equal(t, 2.0, a.Intercept)
}

func TestLoaderMissingModel(t *testing.T) {
	l := &Loader{}

	p, err := l.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLoaderLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(artifactYAML), 0o600))

	p, err := (&Loader{}).Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, p)

	got, err := p.Predict(Features{})
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)
}

func TestLoaderInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features: [a]\ncoefficients: [1]\n"), 0o600))

	_, err := (&Loader{}).Load(context.Background(), path)
	var ae *ArtifactError
	assert.ErrorAs(t, err, &ae)
}

type fakeS3 struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoaderS3(t *testing.T) {
	fake := &fakeS3{body: artifactYAML}
	p, err := (&Loader{S3: fake}).Load(context.Background(), "s3://models/buckling/v2.yaml")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "models", fake.bucket)
	assert.Equal(t, "buckling/v2.yaml", fake.key)

	fake = &fakeS3{err: errors.New("access denied")}
	_, err = (&Loader{S3: fake}).Load(context.Background(), "s3://models/buckling/v2.yaml")
	assert.ErrorContains(t, err, "access denied")

	_, err = (&Loader{S3: fake}).Load(context.Background(), "s3://models")
	assert.Error(t, err)
}

func TestPredictorFunc(t *testing.T) {
	var p Predictor = PredictorFunc(func(f Features) (float64, error) { return f[6] / 1000, nil })
	got, err := p.Predict(Features{6: 2300})
	require.NoError(t, err)
	assert.Equal(t, 2.3, got)
}
