package utils

import (
	"encoding/json"
	"net/http"

	"ms-booking/internal/apperr"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a service error to its status code. Business-rule
// failures surface as a bare status; internal detail stays in the logs.
func WriteError(w http.ResponseWriter, err error) {
	w.WriteHeader(apperr.HTTPStatus(err))
}
