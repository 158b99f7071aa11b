package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/ashureev/nextgen-minds/internal/auth"
	"github.com/ashureev/nextgen-minds/internal/chat"
)

// clientKey identifies the caller for rate limiting: the token subject when
// a valid bearer token is present, the remote IP otherwise.
func (h *Handler) clientKey(r *http.Request) string {
	if token := auth.BearerToken(r); token != "" && h.issuer != nil {
		if claims, err := h.issuer.Verify(token); err == nil {
			return "user:" + claims.Subject
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (h *Handler) allow(key string) bool {
	return h.limiter == nil || h.limiter.Allow(key)
}

// chatFailure maps a chat service error to a status and error body.
func chatFailure(err error) (int, ErrorBody) {
	var verr *chat.ValidationError
	var upstream *chat.UpstreamError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorBody{Message: "Validation failed", Errors: verr.Fields}
	case errors.Is(err, chat.ErrNotConfigured):
		return http.StatusNotImplemented, ErrorBody{Message: "Chat service is not configured"}
	case errors.As(err, &upstream):
		return http.StatusNotImplemented, ErrorBody{Message: "Chat service is unavailable: " + upstream.Err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrorBody{Message: "Chat request was canceled"}
	default:
		return http.StatusInternalServerError, ErrorBody{Message: "Internal server error"}
	}
}

// Chat forwards a conversation to the completion API.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	key := h.clientKey(r)
	if !h.allow(key) {
		h.logger.Warn("Chat rate limit exceeded", "client", key)
		Error(w, http.StatusTooManyRequests, "Too many requests, please slow down")
		return
	}

	var req chat.Request
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.chat.Complete(r.Context(), req)
	if err != nil {
		status, body := chatFailure(err)
		if status == http.StatusInternalServerError {
			h.internalError(w, r, err)
			return
		}
		JSON(w, status, body)
		return
	}
	JSON(w, http.StatusOK, resp)
}
