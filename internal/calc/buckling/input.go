package buckling

import (
	"Buckling/internal/calc/geometry"
	"Buckling/internal/model"
)

// Input is one prediction query. Field names on the wire match the form
// payload; every numeric field defaults to 0. Dimensions are in mm.
type Input struct {
	Shape            string  `json:"Shape"`
	Material         string  `json:"Material"`
	FibreType        string  `json:"Fibre_Type"`
	LengthMM         float64 `json:"Length_mm"`
	WidthMM          float64 `json:"Width_mm"`
	ThicknessMM      float64 `json:"Thickness_mm"`
	OuterDiameterMM  float64 `json:"Outer_Diameter_mm"`
	InnerDiameterMM  float64 `json:"Inner_Diameter_mm"`
	HoleDiameterMM   float64 `json:"Hole_Diameter_mm"`
	YoungsModulusGPa float64 `json:"Youngs_Modulus_GPa"` // 0 = resolve from Material
	PoissonsRatio    float64 `json:"Poissons_Ratio"`
	Strength0MPa     float64 `json:"Strength_0_deg_MPa"`
	Strength90MPa    float64 `json:"Strength_90_deg_MPa"`
	AreaMM2          float64 `json:"Area_mm2"`
	IMinMM4          float64 `json:"I_min_mm4"`
	IMaxMM4          float64 `json:"I_max_mm4"`
	BucklingLoadNorm float64 `json:"Buckling_Load_norm"`
}

func (in Input) Dimensions() geometry.Dimensions {
	return geometry.Dimensions{
		Width:         in.WidthMM,
		Thickness:     in.ThicknessMM,
		OuterDiameter: in.OuterDiameterMM,
		InnerDiameter: in.InnerDiameterMM,
		HoleDiameter:  in.HoleDiameterMM,
	}
}

func (in Input) Features(modulusGPa float64) model.Features {
	return model.NewFeatures(
		in.LengthMM, in.WidthMM, in.ThicknessMM,
		in.OuterDiameterMM, in.InnerDiameterMM, in.HoleDiameterMM,
		modulusGPa*1000,
	)
}

// Result is either a load or an error message, never both.
type Result struct {
	LoadKN *float64 `json:"predicted_buckling_load_kN,omitempty"`
	Error  string   `json:"error,omitempty"`
}

func NewResult(loadKN float64, err error) Result {
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{LoadKN: &loadKN}
}
