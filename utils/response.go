package utils

import (
	"encoding/json"
	"net/http"
)

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// SendResponse wraps data in the success envelope {status, message, data}.
func SendResponse(w http.ResponseWriter, status int, data any, message string, err error) {
	resp := map[string]any{
		"status":  status,
		"message": message,
		"data":    data,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	RespondWithJSON(w, status, resp)
}

// SendError writes the error envelope {status, code, message, errors}. The code
// is a machine-stable kind; errors carries optional per-field messages.
func SendError(w http.ResponseWriter, status int, code, message string, fieldErrors map[string]string) {
	resp := map[string]any{
		"status":  status,
		"code":    code,
		"message": message,
	}
	if len(fieldErrors) > 0 {
		resp["errors"] = fieldErrors
	}
	RespondWithJSON(w, status, resp)
}

type M map[string]interface{}
