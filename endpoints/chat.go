package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/EasterCompany/dex-voice-service/utils"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string  `json:"session_id,omitempty"`
	Text      *string `json:"text"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid JSON body: "+err.Error())
		return
	}
	if req.Text == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Field 'text' is required.")
		return
	}

	reply, err := h.router.Respond(r.Context(), req.SessionID, *req.Text)
	if err != nil {
		writeError(w, "chat turn failed", err)
		return
	}
	utils.IncrementChatTurns(string(reply.Branch))

	writeJSON(w, http.StatusOK, ChatResponse{Text: reply.Text, SessionID: reply.SessionID})
}
