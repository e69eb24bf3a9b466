package main

import (
	"encoding/json"

	"Buckling/internal/calc/buckling"

	"github.com/spf13/cobra"
)

var (
	predictInput   buckling.Input
	predictExplain bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict the buckling load of one member",
	Long: `Predict the critical buckling load (kN) of a single member.

Examples:
  buckle predict --shape plate --material PLA -L 100 -b 20 -t 2
  buckle predict --shape "hollow cylinder" --material CF-PLA -L 300 --do 30 --di 24
  buckle predict --shape cylinder -L 50 --do 20 --modulus 3.5 --explain`,
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)

	f := predictCmd.Flags()
	f.StringVar(&predictInput.Shape, "shape", "", "Cross-section shape [required]")
	f.StringVar(&predictInput.Material, "material", "PLA", "Material (CF-PLA, GF-PLA, PLA, ABS, ...)")
	f.Float64VarP(&predictInput.LengthMM, "length", "L", 0, "Member length (mm) [required]")
	f.Float64VarP(&predictInput.WidthMM, "width", "b", 0, "Width (mm)")
	f.Float64VarP(&predictInput.ThicknessMM, "thickness", "t", 0, "Thickness (mm)")
	f.Float64Var(&predictInput.OuterDiameterMM, "do", 0, "Outer diameter (mm)")
	f.Float64Var(&predictInput.InnerDiameterMM, "di", 0, "Inner diameter (mm)")
	f.Float64Var(&predictInput.HoleDiameterMM, "hole", 0, "Hole diameter (mm)")
	f.Float64VarP(&predictInput.YoungsModulusGPa, "modulus", "E", 0, "Young's modulus (GPa), 0 = from material")
	f.BoolVar(&predictExplain, "explain", false, "Print intermediate values")
	predictCmd.MarkFlagRequired("shape")
	predictCmd.MarkFlagRequired("length")
}

func runPredict(cmd *cobra.Command, args []string) error {
	arbiter, err := newArbiter(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if predictExplain {
		b, err := arbiter.Explain(predictInput)
		if err != nil {
			return err
		}
		return enc.Encode(b)
	}

	load, err := arbiter.Predict(predictInput)
	return enc.Encode(buckling.NewResult(load, err))
}
