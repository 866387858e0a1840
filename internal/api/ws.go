package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/novalabs/nova-server/internal/assistant"
	"github.com/novalabs/nova-server/internal/auth"
	"github.com/novalabs/nova-server/internal/domain"
)

// ChatSocketHandler serves the live-chat WebSocket endpoint. Each inbound
// message runs through the same resilient pipeline as the REST chat route.
type ChatSocketHandler struct {
	pipeline      *assistant.Pipeline
	auth          *auth.Service
	allowedOrigin string
	isDev         bool
}

// NewChatSocketHandler creates a new WebSocket chat handler.
func NewChatSocketHandler(pipeline *assistant.Pipeline, authSvc *auth.Service, allowedOrigin string, isDev bool) *ChatSocketHandler {
	return &ChatSocketHandler{
		pipeline:      pipeline,
		auth:          authSvc,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

type chatSocketInbound struct {
	Message string `json:"message"`
}

type chatSocketOutbound struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *ChatSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	userID, err := h.auth.VerifyToken(token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	slog.Info("Chat socket connected", "user_id", userID, "ip", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, payload, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("Chat socket closed by client", "user_id", userID)
			} else {
				slog.Warn("Chat socket read error", "error", err, "user_id", userID)
			}
			return
		}

		var msg chatSocketInbound
		if err := json.Unmarshal(payload, &msg); err != nil {
			// Treat non-JSON frames as the message text itself.
			msg.Message = string(payload)
		}

		in := domain.MessageInput{Message: msg.Message}
		if err := in.Validate(); err != nil {
			if writeErr := h.writeJSON(ctx, ws, chatSocketOutbound{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		result := h.pipeline.Chat(ctx, userID, in)
		if err := h.writeJSON(ctx, ws, chatSocketOutbound{Answer: result.Answer}); err != nil {
			slog.Warn("Chat socket write error", "error", err, "user_id", userID)
			return
		}
	}
}

func (h *ChatSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" || origin == h.allowedOrigin {
		return true
	}
	slog.Warn("Chat socket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *ChatSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
