package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/nextgen-minds/internal/chat"
	"github.com/coder/websocket"
)

const wsReadLimit = 1 << 20

// wsMessage is the envelope exchanged on /ws/chat.
type wsMessage struct {
	Type     string         `json:"type"`
	ID       string         `json:"id,omitempty"`
	Model    string         `json:"model,omitempty"`
	System   string         `json:"system,omitempty"`
	Messages []chat.Message `json:"messages,omitempty"`
}

type wsReply struct {
	Type    string        `json:"type"`
	ID      string        `json:"id,omitempty"`
	Message *chat.Message `json:"message,omitempty"`
	Usage   *chat.Usage   `json:"usage,omitempty"`
	Model   string        `json:"model,omitempty"`
	Status  int           `json:"status,omitempty"`
	Error   string        `json:"error,omitempty"`
	Errors  []FieldError  `json:"errors,omitempty"`
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.dev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.origins)
	return false
}

// ChatSocket serves a websocket that answers "chat" messages with
// completions and "ping" with "pong". Replies carry the request ID.
func (h *Handler) ChatSocket(w http.ResponseWriter, r *http.Request) {
	key := h.clientKey(r)
	if !h.checkOrigin(r) {
		Error(w, http.StatusForbidden, "Origin not allowed")
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("Failed to accept WebSocket", "error", err, "client", key)
		return
	}
	ws.SetReadLimit(wsReadLimit)
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			h.logger.Debug("Failed to close websocket", "error", closeErr, "client", key)
		}
	}()

	h.logger.Info("Chat socket opened", "client", key)
	h.chatLoop(r.Context(), ws, key)
}

func (h *Handler) chatLoop(ctx context.Context, ws *websocket.Conn, key string) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				h.logger.Debug("WebSocket closed by client", "client", key)
			} else if ctx.Err() == nil {
				h.logger.Warn("WebSocket read error", "error", err, "client", key)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.writeWS(ctx, ws, wsReply{Type: "error", Status: http.StatusBadRequest, Error: "Invalid JSON message"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.writeWS(ctx, ws, wsReply{Type: "pong", ID: msg.ID})
		case "chat":
			h.writeWS(ctx, ws, h.answer(ctx, key, msg))
		default:
			h.writeWS(ctx, ws, wsReply{Type: "error", ID: msg.ID, Status: http.StatusBadRequest, Error: "Unknown message type"})
		}
	}
}

func (h *Handler) answer(ctx context.Context, key string, msg wsMessage) wsReply {
	if !h.allow(key) {
		return wsReply{Type: "error", ID: msg.ID, Status: http.StatusTooManyRequests, Error: "Too many requests, please slow down"}
	}

	resp, err := h.chat.Complete(ctx, chat.Request{Model: msg.Model, System: msg.System, Messages: msg.Messages})
	if err != nil {
		status, body := chatFailure(err)
		return wsReply{Type: "error", ID: msg.ID, Status: status, Error: body.Message, Errors: body.Errors}
	}
	return wsReply{Type: "message", ID: msg.ID, Message: &resp.Message, Usage: &resp.Usage, Model: resp.Model}
}

func (h *Handler) writeWS(ctx context.Context, ws *websocket.Conn, v wsReply) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Failed to encode websocket reply", "error", err)
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := ws.Write(writeCtx, websocket.MessageText, data); err != nil {
		h.logger.Debug("WebSocket write error", "error", err)
	}
}
