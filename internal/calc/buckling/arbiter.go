package buckling

import (
	"errors"
	"fmt"
	"math"
	"time"

	"Buckling/internal/calc/column"
	"Buckling/internal/calc/geometry"
	"Buckling/internal/calc/material"
	"Buckling/internal/metrics"
	"Buckling/internal/model"

	"go.uber.org/zap"
)

// Uplift is applied to the formula load before it is returned.
const Uplift = 1.01

type Policy string

const (
	// PolicyFormula always returns the formula load times Uplift. The model
	// is still consulted and validated but its estimate is not returned.
	PolicyFormula Policy = "formula"
	// PolicyModel returns an accepted model estimate, else formula times Uplift.
	PolicyModel Policy = "model"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyFormula:
		return PolicyFormula, nil
	case PolicyModel:
		return PolicyModel, nil
	}
	return "", fmt.Errorf("unknown policy %q", s)
}

// FaultError is returned when the computation itself failed, e.g. the
// predictor errored or panicked.
type FaultError struct {
	Msg string
	Err error
}

// ErrOutOfRange is wrapped by the FaultError returned when an intermediate
// value or the load overflows float64.
var ErrOutOfRange = errors.New("numerical result out of range")

func (e *FaultError) Error() string { return e.Msg }

func (e *FaultError) Unwrap() error { return e.Err }

// Arbiter decides the returned load for an Input. It holds no mutable state
// and is safe for concurrent use.
type Arbiter struct {
	predictor model.Predictor
	policy    Policy
	logger    *zap.Logger
	metrics   *metrics.Recorder
}

// NewArbiter wires the arbiter. predictor may be nil (formula-only); nil
// logger and recorder are replaced by no-op versions.
func NewArbiter(predictor model.Predictor, policy Policy, logger *zap.Logger, rec *metrics.Recorder) *Arbiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop()
	}
	if policy == "" {
		policy = PolicyFormula
	}
	return &Arbiter{predictor: predictor, policy: policy, logger: logger, metrics: rec}
}

func (a *Arbiter) HasModel() bool {
	return a.predictor != nil
}

func (a *Arbiter) Policy() Policy {
	return a.policy
}

// Breakdown exposes the intermediate values of one evaluation.
type Breakdown struct {
	Shape             string   `json:"shape"`
	KnownShape        bool     `json:"known_shape"`
	ModulusGPa        float64  `json:"modulus_gpa"`
	ModulusMPa        float64  `json:"modulus_mpa"`
	IMM4              float64  `json:"i_mm4"`
	EffectiveLengthMM float64  `json:"effective_length_mm"`
	FormulaKN         float64  `json:"formula_kn"`
	ModelKN           *float64 `json:"model_kn,omitempty"`
	ModelRejected     string   `json:"model_rejected,omitempty"`
	LoadKN            float64  `json:"load_kn"`
	Source            string   `json:"source"`
}

// Predict returns the load in kN, or a *FaultError.
func (a *Arbiter) Predict(in Input) (float64, error) {
	b, err := a.Explain(in)
	if err != nil {
		return 0, err
	}
	return b.LoadKN, nil
}

func (a *Arbiter) Explain(in Input) (b Breakdown, err error) {
	start := time.Now()
	shape := geometry.ParseShape(in.Shape)

	defer func() {
		if r := recover(); r != nil {
			b = Breakdown{}
			err = &FaultError{Msg: fmt.Sprint(r)}
		}
		outcome := "ok"
		switch {
		case err != nil:
			outcome = "error"
			a.logger.Error("prediction failed", zap.String("shape", shape.String()), zap.Error(err))
		case b.FormulaKN == 0:
			outcome = "invalid_geometry"
		}
		a.metrics.Predictions.WithLabelValues(shape.String(), outcome).Inc()
		a.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	}()

	eGPa := material.ResolveModulus(in.Material, in.YoungsModulusGPa)
	b = Breakdown{
		Shape:      shape.String(),
		KnownShape: shape.Known(),
		ModulusGPa: eGPa,
		ModulusMPa: eGPa * 1000,
	}

	if a.predictor != nil {
		pred, verr, err := a.consultModel(in.Features(eGPa))
		if err != nil {
			return Breakdown{}, err
		}
		if verr != nil {
			var oe *model.OutputError
			if errors.As(verr, &oe) {
				b.ModelRejected = oe.Reason
			}
		} else {
			b.ModelKN = &pred
		}
	}

	b.IMM4 = geometry.SecondMomentOfArea(shape, in.Dimensions())
	b.EffectiveLengthMM = column.EffectiveLength(in.LengthMM)
	b.FormulaKN = column.CriticalLoadKN(eGPa, b.IMM4, in.LengthMM)
	if !finite(b.ModulusMPa, b.IMM4, b.EffectiveLengthMM, b.FormulaKN) {
		return Breakdown{}, outOfRange()
	}
	if b.FormulaKN == 0 {
		a.logger.Warn("invalid geometry",
			zap.String("shape", shape.String()),
			zap.Float64("e_mpa", b.ModulusMPa),
			zap.Float64("i_mm4", b.IMM4),
			zap.Float64("length_mm", in.LengthMM))
	} else {
		a.logger.Debug("formula evaluated",
			zap.String("shape", shape.String()),
			zap.Float64("e_mpa", b.ModulusMPa),
			zap.Float64("i_mm4", b.IMM4),
			zap.Float64("p_kn", b.FormulaKN))
	}

	b.LoadKN, b.Source = a.compose(b.FormulaKN, b.ModelKN)
	if !finite(b.LoadKN) {
		return Breakdown{}, outOfRange()
	}
	return b, nil
}

func outOfRange() *FaultError {
	return &FaultError{Msg: ErrOutOfRange.Error(), Err: ErrOutOfRange}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// consultModel returns the raw estimate and, separately, the validation error
// that caused it to be discarded. err is only set when the predictor failed.
func (a *Arbiter) consultModel(f model.Features) (pred float64, rejected error, err error) {
	pred, err = a.predictor.Predict(f)
	if err != nil {
		return 0, nil, &FaultError{Msg: err.Error(), Err: err}
	}
	a.logger.Debug("model predicted", zap.Float64("p_kn", pred))

	if verr := model.Validate(pred); verr != nil {
		reason := "invalid"
		var oe *model.OutputError
		if errors.As(verr, &oe) {
			reason = oe.Reason
		}
		a.metrics.ModelRejections.WithLabelValues(reason).Inc()
		a.logger.Debug("model output rejected, using formula", zap.Error(verr))
		return 0, verr, nil
	}
	return pred, nil, nil
}

func (a *Arbiter) compose(formulaKN float64, modelKN *float64) (float64, string) {
	if a.policy == PolicyModel && modelKN != nil {
		return *modelKN, "model"
	}
	return formulaKN * Uplift, "formula"
}
