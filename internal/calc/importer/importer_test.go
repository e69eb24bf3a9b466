package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Buckling/internal/calc/buckling"
	"Buckling/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func sampleRows() [][]any {
	return [][]any{
		{"Shape", "Material", "Length_mm", "Width_mm", "Thickness_mm", "Outer_Diameter_mm", "Inner_Diameter_mm", "Notes"},
		{"Plate", "PLA", 100, 20, 2, "", "", "first"},
		{"Hollow Cylinder", "CF-PLA", 200, "", "", 30, 20, ""},
		{"Plate", "PLA", "long", 20, 2, "", "", "bad length"},
		{"", "", "", "", "", "", "", ""},
	}
}

func TestReadWorkbook(t *testing.T) {
	inputs, skipped, err := ReadWorkbook(workbook(t, sampleRows()))
	require.NoError(t, err)

	require.Len(t, inputs, 2)
	assert.Equal(t, buckling.Input{Shape: "Plate", Material: "PLA", LengthMM: 100, WidthMM: 20, ThicknessMM: 2}, inputs[0])
	assert.Equal(t, "Hollow Cylinder", inputs[1].Shape)
	assert.Equal(t, 30.0, inputs[1].OuterDiameterMM)
	assert.Equal(t, 20.0, inputs[1].InnerDiameterMM)

	require.Len(t, skipped, 1)
	assert.Equal(t, 4, skipped[0].Row)
	assert.Contains(t, skipped[0].Error(), "row 4")
}

func TestParseRowsHeaderCaseInsensitive(t *testing.T) {
	inputs, _, err := ParseRows([][]string{
		{" SHAPE ", "youngs_modulus_gpa", "length_MM", "outer_diameter_mm"},
		{"Cylinder", "3.5", "80", "10"},
	})
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, 3.5, inputs[0].YoungsModulusGPa)
	assert.Equal(t, 80.0, inputs[0].LengthMM)
}

func TestParseRowsRequiresShape(t *testing.T) {
	_, _, err := ParseRows([][]string{{"Material"}, {"PLA"}})
	assert.Error(t, err)
}

func TestReadWorkbookErrors(t *testing.T) {
	_, _, err := ReadWorkbook(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)

	_, _, err = ReadWorkbook(workbook(t, [][]any{{"Shape"}}))
	assert.Error(t, err)
}

func upload(t *testing.T, h *Handler, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "members.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tools/import/xlsx", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Workbook(rec, req)
	return rec
}

func TestHandlerWorkbook(t *testing.T) {
	a := buckling.NewArbiter(nil, buckling.PolicyFormula, nil, nil)
	h := &Handler{Arbiter: a, Workers: 2}

	rec := upload(t, h, workbook(t, sampleRows()).Bytes())
	require.Equal(t, http.StatusOK, rec.Code)

	var res ImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 2, res.Count)
	assert.Len(t, res.Skipped, 1)
	require.Len(t, res.Results, 2)
	require.NotNil(t, res.Results[0].LoadKN)
	assert.InDelta(t, 0.00808, *res.Results[0].LoadKN, 1e-12)
}

func TestHandlerWorkbookRejects(t *testing.T) {
	h := &Handler{Arbiter: buckling.NewArbiter(nil, buckling.PolicyFormula, nil, nil)}

	rec := upload(t, h, []byte("garbage"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/tools/import/xlsx", nil)
	rec = httptest.NewRecorder()
	h.Workbook(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseRowsRejectsNonFiniteNumbers(t *testing.T) {
	inputs, skipped, err := ParseRows([][]string{
		{"Shape", "Length_mm", "Outer_Diameter_mm"},
		{"Cylinder", "100", "Inf"},
		{"Cylinder", "NaN", "10"},
		{"Cylinder", "100", "10"},
	})
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, 10.0, inputs[0].OuterDiameterMM)
	require.Len(t, skipped, 2)
	assert.Contains(t, skipped[0].Error(), `bad number "Inf"`)
}

type memStore struct {
	saved []repo.Prediction
}

func (m *memStore) SavePrediction(ctx context.Context, p repo.Prediction) error {
	m.saved = append(m.saved, p)
	return nil
}

func TestHandlerWorkbookRecordsPredictions(t *testing.T) {
	store := &memStore{}
	h := &Handler{Arbiter: buckling.NewArbiter(nil, buckling.PolicyFormula, nil, nil), Workers: 2, Store: store}

	rec := upload(t, h, workbook(t, sampleRows()).Bytes())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.saved, 2)
	assert.Equal(t, "Plate", store.saved[0].Shape)
	assert.Equal(t, "Hollow Cylinder", store.saved[1].Shape)
}
