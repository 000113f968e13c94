package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Result is the body shape shared by the auth endpoints.
type Result struct {
	Success bool              `json:"success,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	User    any               `json:"user,omitempty"`
}

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Result{Error: message})
}

// FieldErrors writes {"error": message, "fields": {...}}.
func FieldErrors(w http.ResponseWriter, status int, message string, fields map[string]string) {
	JSON(w, status, Result{Error: message, Fields: fields})
}

// Text writes a plain-text body.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
