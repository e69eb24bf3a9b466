package column

import (
	"encoding/json"
	"net/http"

	"Buckling/internal/httpjson"
)

type Handler struct{}

// Calc answers POST /api/tools/column/calc. Rejected inputs come back as
// 400 with the reason in the error field.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	res, err := Calculate(in)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, res)
}
