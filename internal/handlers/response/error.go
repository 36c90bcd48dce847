// Package response writes the JSON bodies of the admin API.
package response

import (
	"encoding/json"
	"net/http"
)

// Error is the body of every failed request
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

// JSON writes body with the given status
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes body with status 200
func OK(w http.ResponseWriter, body any) {
	JSON(w, http.StatusOK, body)
}

// Fail writes an Error carrying status
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Error{Message: message, StatusCode: status})
}
