package utils

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

// JSON writes a JSON response with status code. Responses are marked
// no-store; the admin client keeps and invalidates its own cache.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// DecodeJSON reads at most 1 MiB of request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}
