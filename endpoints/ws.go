package endpoints

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	logger "github.com/EasterCompany/dex-voice-service/log"
	"github.com/EasterCompany/dex-voice-service/utils"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is an inbound or outbound websocket frame.
type WSMessage struct {
	Type    string          `json:"type"` // chat, reply, ping, pong, error
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSErrorPayload is the payload of an "error" frame.
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wsChatPayload struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()
	utils.IncrementWSConnections()

	logger.Debug("websocket connected", zap.String("remote", conn.RemoteAddr().String()))

	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	// Turns are answered in order on the reading goroutine, so writes never race.
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			h.wsSend(conn, "pong", nil)
		case "chat":
			h.wsChat(r.Context(), conn, msg.Payload)
		default:
			h.wsError(conn, "unknown_type", "Unknown message type: "+msg.Type)
		}
	}
}

func (h *Handler) wsChat(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) {
	var payload wsChatPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.wsError(conn, "invalid_payload", "Invalid chat payload")
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		h.wsError(conn, "invalid_request", "Field 'text' is required.")
		return
	}

	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	reply, err := h.router.Respond(ctx, payload.SessionID, payload.Text)
	if err != nil {
		utils.IncrementFailures()
		logger.Error("websocket chat turn failed", err, zap.String("session_id", payload.SessionID))
		h.wsError(conn, "chat_failed", err.Error())
		return
	}
	utils.IncrementChatTurns(string(reply.Branch))

	h.wsSend(conn, "reply", ChatResponse{Text: reply.Text, SessionID: reply.SessionID})
}

func (h *Handler) wsError(conn *websocket.Conn, code, message string) {
	h.wsSend(conn, "error", WSErrorPayload{Code: code, Message: message})
}

func (h *Handler) wsSend(conn *websocket.Conn, msgType string, payload any) {
	msg := WSMessage{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("error encoding websocket payload", err)
			return
		}
		msg.Payload = data
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		logger.Warn("websocket write failed", zap.Error(err))
	}
}
