package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the error envelope every endpoint shares: a success flag
// plus an error string.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("can't encode response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, Response{Success: false, Error: message})
}
