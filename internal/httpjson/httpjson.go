// Package httpjson writes JSON responses. The body is encoded before the
// status line goes out, so a value that cannot be encoded turns into a 500
// with an error body instead of a header with nothing behind it.
package httpjson

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

func Write(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		Error(w, http.StatusInternalServerError, "response encoding failed: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(errorBody{Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
