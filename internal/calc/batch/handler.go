package batch

import (
	"context"
	"encoding/json"
	"net/http"

	"Buckling/internal/calc/buckling"
	"Buckling/internal/httpjson"

	"go.uber.org/zap"
)

type Handler struct {
	Arbiter *buckling.Arbiter
	Workers int
	Store   buckling.PredictionStore
	Logger  *zap.Logger
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	res, err := Predict(r.Context(), h.Arbiter, input.Items, h.Workers)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	Record(r.Context(), h.Store, h.log(r), input.Items, res)
	httpjson.Write(w, http.StatusOK, res)
}

func (h *Handler) log(r *http.Request) *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger.With(zap.String("request_id", r.Header.Get("X-Request-ID")))
}

// Record saves every item of a finished batch, pairing items[i] with
// res.Results[i].
func Record(ctx context.Context, store buckling.PredictionStore, log *zap.Logger, items []buckling.Input, res Result) {
	if store == nil {
		return
	}
	for i, r := range res.Results {
		buckling.Save(ctx, store, log, items[i], r)
	}
}
