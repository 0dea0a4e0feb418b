package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/blockwork/engine/internal/api/types"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.APIResponse{Success: false, Error: &types.APIError{Code: code, Message: message}})
}
