package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"Buckling/internal/calc/buckling"
	"Buckling/internal/httpjson"
)

type Handler struct {
	Arbiter *buckling.Arbiter
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	b, err := h.Arbiter.Explain(input.Member)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, input, b, time.Now()); err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "Report generation error")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"buckling-report.pdf\"")
	buf.WriteTo(w)
}
