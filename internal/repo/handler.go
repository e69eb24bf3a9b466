package repo

import (
	"net/http"
	"strconv"

	"Buckling/internal/httpjson"
)

type Handler struct {
	Repo Repository
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 1000 {
			httpjson.Error(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}
	preds, err := h.Repo.RecentPredictions(r.Context(), limit)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "DB error")
		return
	}
	if preds == nil {
		preds = []Prediction{}
	}
	httpjson.Write(w, http.StatusOK, preds)
}
