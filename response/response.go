// Package response writes the JSON result shape shared by every intake endpoint.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/blogem/site-intake/models"
)

// Body is the exact wire shape of a result.
type Body struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Now is the clock used for the timestamp field.
var Now = time.Now

// Send writes result as JSON with its status code. Callers must return right after.
func Send(w http.ResponseWriter, result models.Result) {
	status := result.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{
		Success:   result.Success,
		Message:   result.Message,
		Timestamp: Now().Format(time.RFC3339),
	})
}

// JSON writes an arbitrary payload, for the read-side endpoints.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
