package buckling

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"Buckling/internal/httpjson"
	"Buckling/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PredictionStore receives every answered request. It may be nil.
type PredictionStore interface {
	SavePrediction(ctx context.Context, p repo.Prediction) error
}

type Handler struct {
	Arbiter *Arbiter
	Store   PredictionStore
	Logger  *zap.Logger
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	log := h.logger().With(zap.String("request_id", r.Header.Get("X-Request-ID")))
	log.Info("prediction requested", zap.String("shape", input.Shape), zap.String("material", input.Material))

	load, err := h.Arbiter.Predict(input)
	res := NewResult(load, err)
	Save(r.Context(), h.Store, log, input, res)

	status := http.StatusOK
	var fault *FaultError
	if errors.As(err, &fault) {
		status = http.StatusInternalServerError
	}
	httpjson.Write(w, status, res)
}

func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	b, err := h.Arbiter.Explain(input)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, b)
}

// Save records one answered input in store. A nil store is a no-op and a
// failed write is only logged.
func Save(ctx context.Context, store PredictionStore, log *zap.Logger, in Input, res Result) {
	if store == nil {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	raw, err := json.Marshal(in)
	if err != nil {
		log.Warn("failed to encode prediction input", zap.Error(err))
		return
	}
	p := repo.Prediction{
		ID:        uuid.New(),
		Shape:     in.Shape,
		Material:  in.Material,
		Input:     raw,
		LoadKN:    res.LoadKN,
		Error:     res.Error,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.SavePrediction(ctx, p); err != nil {
		log.Warn("failed to store prediction", zap.Error(err))
	}
}
