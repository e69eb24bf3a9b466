// Package model holds the optional learned buckling-load predictor.
//
// The predictor is built once at startup and shared read-only by every
// request. A nil Predictor is a valid state and means formula-only mode.
package model

import (
	"errors"
	"fmt"
	"math"
)

// FeatureNames is the canonical feature order the predictor is trained on.
var FeatureNames = [NumFeatures]string{
	"Length_mm",
	"Width_mm",
	"Thickness_mm",
	"Outer_Diameter_mm",
	"Inner_Diameter_mm",
	"Hole_Diameter_mm",
	"Youngs_Modulus_MPa",
}

const NumFeatures = 7

// MaxPlausibleKN bounds accepted model output.
const MaxPlausibleKN = 1e6

// Features is the ordered input vector, see FeatureNames.
type Features [NumFeatures]float64

func NewFeatures(length, width, thickness, outerDiameter, innerDiameter, holeDiameter, modulusMPa float64) Features {
	return Features{length, width, thickness, outerDiameter, innerDiameter, holeDiameter, modulusMPa}
}

type Predictor interface {
	Predict(f Features) (float64, error)
}

// PredictorFunc adapts a plain function to Predictor.
type PredictorFunc func(f Features) (float64, error)

func (fn PredictorFunc) Predict(f Features) (float64, error) { return fn(f) }

var ErrInvalidOutput = errors.New("model produced an invalid estimate")

// OutputError describes why a prediction was rejected.
type OutputError struct {
	Value  float64
	Reason string
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", ErrInvalidOutput, e.Reason, e.Value)
}

func (e *OutputError) Unwrap() error { return ErrInvalidOutput }

// Validate accepts finite estimates in (0, MaxPlausibleKN].
func Validate(pred float64) error {
	switch {
	case math.IsNaN(pred):
		return &OutputError{Value: pred, Reason: "nan"}
	case math.IsInf(pred, 0):
		return &OutputError{Value: pred, Reason: "infinite"}
	case pred <= 0:
		return &OutputError{Value: pred, Reason: "non_positive"}
	case pred > MaxPlausibleKN:
		return &OutputError{Value: pred, Reason: "out_of_range"}
	}
	return nil
}
