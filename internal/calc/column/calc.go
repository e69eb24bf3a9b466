package column

import (
	"fmt"
	"math"
	"strconv"
)

// EffectiveLengthFactor is K for a column fixed at one end and free at the other.
const EffectiveLengthFactor = 2.0

// EffectiveLength returns Le = K·L in the units of lengthMM.
func EffectiveLength(lengthMM float64) float64 {
	return EffectiveLengthFactor * lengthMM
}

// CriticalLoadKN is the Euler buckling load π²EI/Le² in kN, rounded to three
// decimals. Non-positive modulus, I or length give 0.
func CriticalLoadKN(modulusGPa, iMM4, lengthMM float64) float64 {
	E := modulusGPa * 1000.0 // MPa
	Le := EffectiveLength(lengthMM)
	if !(E > 0 && iMM4 > 0 && Le > 0) {
		return 0
	}
	pcr := (math.Pi * math.Pi * E * iMM4) / (Le * Le) // N
	return round3(pcr / 1000.0)
}

// round3 rounds from the exact binary value with ties to even.
func round3(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	return r
}

type Input struct {
	E_GPa    float64 `json:"e_gpa"`
	IMM4     float64 `json:"i_mm4"`
	LengthMM float64 `json:"length_mm"`
	LoadKN   float64 `json:"load_kn"`
}

type Result struct {
	EffectiveLengthMM float64 `json:"effective_length_mm"`
	PcrKN             float64 `json:"pcr_kn"`
	Utilization       float64 `json:"utilization,omitempty"`
	OK                bool    `json:"ok"`
	Notes             string  `json:"notes"`
}

// Calculate checks an applied axial load against the fixed–free Euler load.
func Calculate(in Input) (Result, error) {
	if in.LengthMM <= 0 || in.IMM4 <= 0 || in.E_GPa <= 0 {
		return Result{}, fmt.Errorf("invalid input")
	}
	if in.LoadKN < 0 {
		return Result{}, fmt.Errorf("invalid load")
	}
	pcr := CriticalLoadKN(in.E_GPa, in.IMM4, in.LengthMM)
	if math.IsInf(pcr, 0) {
		return Result{}, fmt.Errorf("numerical result out of range")
	}
	res := Result{
		EffectiveLengthMM: EffectiveLength(in.LengthMM),
		PcrKN:             pcr,
		OK:                true,
		Notes:             "Euler buckling check for fixed–free column (K=2).",
	}
	if in.LoadKN > 0 {
		if pcr == 0 {
			res.OK = false
			return res, nil
		}
		res.Utilization = in.LoadKN / pcr
		res.OK = res.Utilization <= 1.0
	}
	return res, nil
}
