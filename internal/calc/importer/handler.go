package importer

import (
	"net/http"

	"Buckling/internal/calc/batch"
	"Buckling/internal/calc/buckling"
	"Buckling/internal/httpjson"

	"go.uber.org/zap"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Arbiter *buckling.Arbiter
	Workers int
	Store   buckling.PredictionStore
	Logger  *zap.Logger
}

type ImportResult struct {
	Count   int               `json:"count"`
	Skipped []string          `json:"skipped,omitempty"`
	Results []buckling.Result `json:"results"`
}

func (h *Handler) Workbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "File required")
		return
	}
	defer file.Close()

	inputs, skipped, err := ReadWorkbook(file)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid file")
		return
	}
	if len(inputs) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "No usable rows")
		return
	}

	res, err := batch.Predict(r.Context(), h.Arbiter, inputs, h.Workers)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	log := zap.NewNop()
	if h.Logger != nil {
		log = h.Logger.With(zap.String("request_id", r.Header.Get("X-Request-ID")))
	}
	batch.Record(r.Context(), h.Store, log, inputs, res)

	out := ImportResult{Count: len(res.Results), Results: res.Results}
	for _, s := range skipped {
		out.Skipped = append(out.Skipped, s.Error())
	}
	httpjson.Write(w, http.StatusOK, out)
}
