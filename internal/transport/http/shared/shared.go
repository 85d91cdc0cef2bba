// Package shared holds the JSON envelope helpers every handler uses so
// responses and error bodies stay uniform across features.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "agridash/pkg/domain-errors"
)

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the uniform error envelope.
// Errors without a domain code surface as internal.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), map[string]string{
		"error": string(code),
	})
}
