package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"Buckling/internal/calc/buckling"

	"github.com/xuri/excelize/v2"
)

type setter func(in *buckling.Input, v string) error

func text(dst func(*buckling.Input) *string) setter {
	return func(in *buckling.Input, v string) error {
		*dst(in) = v
		return nil
	}
}

func number(dst func(*buckling.Input) *float64) setter {
	return func(in *buckling.Input, v string) error {
		if v == "" {
			return nil
		}
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*dst(in) = f
		return nil
	}
}

// Header names are matched case-insensitively against the wire names of
// buckling.Input.
var columns = map[string]setter{
	"shape":               text(func(in *buckling.Input) *string { return &in.Shape }),
	"material":            text(func(in *buckling.Input) *string { return &in.Material }),
	"fibre_type":          text(func(in *buckling.Input) *string { return &in.FibreType }),
	"length_mm":           number(func(in *buckling.Input) *float64 { return &in.LengthMM }),
	"width_mm":            number(func(in *buckling.Input) *float64 { return &in.WidthMM }),
	"thickness_mm":        number(func(in *buckling.Input) *float64 { return &in.ThicknessMM }),
	"outer_diameter_mm":   number(func(in *buckling.Input) *float64 { return &in.OuterDiameterMM }),
	"inner_diameter_mm":   number(func(in *buckling.Input) *float64 { return &in.InnerDiameterMM }),
	"hole_diameter_mm":    number(func(in *buckling.Input) *float64 { return &in.HoleDiameterMM }),
	"youngs_modulus_gpa":  number(func(in *buckling.Input) *float64 { return &in.YoungsModulusGPa }),
	"poissons_ratio":      number(func(in *buckling.Input) *float64 { return &in.PoissonsRatio }),
	"strength_0_deg_mpa":  number(func(in *buckling.Input) *float64 { return &in.Strength0MPa }),
	"strength_90_deg_mpa": number(func(in *buckling.Input) *float64 { return &in.Strength90MPa }),
	"area_mm2":            number(func(in *buckling.Input) *float64 { return &in.AreaMM2 }),
	"i_min_mm4":           number(func(in *buckling.Input) *float64 { return &in.IMinMM4 }),
	"i_max_mm4":           number(func(in *buckling.Input) *float64 { return &in.IMaxMM4 }),
	"buckling_load_norm":  number(func(in *buckling.Input) *float64 { return &in.BucklingLoadNorm }),
}

// RowError marks a spreadsheet row that could not be read.
type RowError struct {
	Row int // 1-based, as shown in the spreadsheet
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ReadWorkbook parses the first sheet: a header row followed by one member
// per row. Unknown headers are ignored; a Shape column is required.
func ReadWorkbook(r io.Reader) ([]buckling.Input, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("empty sheet")
	}
	return ParseRows(rows)
}

func ParseRows(rows [][]string) ([]buckling.Input, []RowError, error) {
	header := make([]setter, len(rows[0]))
	hasShape := false
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		header[i] = columns[key]
		if key == "shape" {
			hasShape = true
		}
	}
	if !hasShape {
		return nil, nil, fmt.Errorf("missing Shape column")
	}

	var (
		inputs  []buckling.Input
		skipped []RowError
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		in, err := parseRow(header, row)
		if err != nil {
			skipped = append(skipped, RowError{Row: i + 1, Err: err})
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs, skipped, nil
}

func parseRow(header []setter, row []string) (buckling.Input, error) {
	var in buckling.Input
	for i, cell := range row {
		if i >= len(header) || header[i] == nil {
			continue
		}
		if err := header[i](&in, strings.TrimSpace(cell)); err != nil {
			return buckling.Input{}, err
		}
	}
	return in, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func toFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("bad number %q", s)
	}
	return v, nil
}
