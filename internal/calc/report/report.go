package report

import (
	"fmt"
	"io"
	"time"

	"Buckling/internal/calc/buckling"
	"Buckling/internal/calc/column"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string         `json:"project"`
	Author  string         `json:"author"`
	Title   string         `json:"title"`
	Notes   string         `json:"notes"`
	Member  buckling.Input `json:"member"`
}

// Write renders a one-page calculation sheet for the member.
func Write(w io.Writer, in Input, b buckling.Breakdown, now time.Time) error {
	if in.Title == "" {
		in.Title = "Buckling Load Calculation"
	}
	m := in.Member

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(in.Title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", in.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", in.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", now.Format("2006-01-02")))
	pdf.Ln(10)

	section(pdf, "Member")
	rows := [][2]string{
		{"Shape", b.Shape},
		{"Material", m.Material},
		{"Length", mm(m.LengthMM)},
		{"Width", mm(m.WidthMM)},
		{"Thickness", mm(m.ThicknessMM)},
		{"Outer diameter", mm(m.OuterDiameterMM)},
		{"Inner diameter", mm(m.InnerDiameterMM)},
		{"Hole diameter", mm(m.HoleDiameterMM)},
	}
	table(pdf, tr, rows)

	section(pdf, "Calculation")
	rows = [][2]string{
		{"Young's modulus E", fmt.Sprintf("%.1f MPa", b.ModulusMPa)},
		{"Second moment of area I", fmt.Sprintf("%.3f mm4", b.IMM4)},
		{"Effective length Le = K L", fmt.Sprintf("%.1f mm (K = %.0f, fixed-free)", b.EffectiveLengthMM, column.EffectiveLengthFactor)},
		{"Euler load P = pi^2 E I / Le^2", fmt.Sprintf("%.3f kN", b.FormulaKN)},
	}
	if b.ModelKN != nil {
		rows = append(rows, [2]string{"Model estimate", fmt.Sprintf("%.3f kN", *b.ModelKN)})
	} else if b.ModelRejected != "" {
		rows = append(rows, [2]string{"Model estimate", "rejected (" + b.ModelRejected + ")"})
	}
	table(pdf, tr, rows)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Predicted buckling load: %.5f kN (%s)", b.LoadKN, b.Source))
	pdf.Ln(10)
	if !b.KnownShape || b.FormulaKN == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 6, "Geometry is invalid for the selected shape; no structural response.")
		pdf.Ln(8)
	}

	if in.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(in.Notes), "", "L", false)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func table(pdf *gofpdf.Fpdf, tr func(string) string, rows [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(80, 6, tr(r[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, tr(r[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func mm(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f mm", v)
}
