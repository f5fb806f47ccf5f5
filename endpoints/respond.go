package endpoints

import (
	"encoding/json"
	"net/http"

	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/utils"
)

// detailResponse reports a client input problem.
type detailResponse struct {
	Detail string `json:"detail"`
}

// errorResponse reports a collaborator failure.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("error encoding response", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeError(w http.ResponseWriter, context string, err error) {
	utils.IncrementFailures()
	logger.Error(context, err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
