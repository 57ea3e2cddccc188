package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON body with the given status.
// The status is committed before encoding, so encode errors cannot be
// reported to the client; they are dropped.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// NoContent writes an empty 204 response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
