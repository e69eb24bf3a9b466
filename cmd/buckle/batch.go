package main

import (
	"encoding/json"
	"fmt"
	"os"

	"Buckling/internal/calc/batch"
	"Buckling/internal/calc/importer"

	"github.com/spf13/cobra"
)

var (
	batchFile    string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Predict every member listed in a spreadsheet",
	Long: `Read members from the first sheet of an .xlsx workbook and print one
JSON result per line, in row order.

The header row names the columns: Shape, Material, Length_mm, Width_mm,
Thickness_mm, Outer_Diameter_mm, Inner_Diameter_mm, Hole_Diameter_mm,
Youngs_Modulus_GPa. Unknown columns are ignored.

Examples:
  buckle batch --file members.xlsx
  buckle batch -f members.xlsx --workers 8`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Path to workbook [required]")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "Concurrent evaluations")
	batchCmd.MarkFlagRequired("file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	f, err := os.Open(batchFile)
	if err != nil {
		return err
	}
	defer f.Close()

	inputs, skipped, err := importer.ReadWorkbook(f)
	if err != nil {
		return err
	}
	for _, s := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v\n", s)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no usable rows in %s", batchFile)
	}

	arbiter, err := newArbiter(cmd.Context())
	if err != nil {
		return err
	}
	res, err := batch.Predict(cmd.Context(), arbiter, inputs, batchWorkers)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range res.Results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
