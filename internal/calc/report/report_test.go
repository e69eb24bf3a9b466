package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Buckling/internal/calc/buckling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member() buckling.Input {
	return buckling.Input{Shape: "Plate", Material: "PLA", LengthMM: 100, WidthMM: 20, ThicknessMM: 2}
}

func TestWrite(t *testing.T) {
	a := buckling.NewArbiter(nil, buckling.PolicyFormula, nil, nil)
	b, err := a.Explain(member())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Write(&buf, Input{Project: "Bracket", Author: "QA", Notes: "Printed at 100% infill.", Member: member()}, b,
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteInvalidGeometry(t *testing.T) {
	a := buckling.NewArbiter(nil, buckling.PolicyFormula, nil, nil)
	b, err := a.Explain(buckling.Input{Shape: "Triangle"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Input{}, b, time.Now()))
	assert.NotZero(t, buf.Len())
}

func TestHandlerGenerate(t *testing.T) {
	h := &Handler{Arbiter: buckling.NewArbiter(nil, buckling.PolicyFormula, nil, nil)}

	body, _ := json.Marshal(Input{Title: "Strut", Member: member()})
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", bytes.NewReader([]byte("nope"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGenerateOverflow(t *testing.T) {
	h := &Handler{Arbiter: buckling.NewArbiter(nil, buckling.PolicyFormula, nil, nil)}

	body := `{"title":"Strut","member":{"Shape":"Cylinder","Material":"PLA","Length_mm":100,"Outer_Diameter_mm":1e80}}`
	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/api/tools/report/pdf", bytes.NewReader([]byte(body))))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"numerical result out of range"}`, rec.Body.String())
}
