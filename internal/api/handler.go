// Package api provides HTTP handlers for the NextGen Minds API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/ashureev/nextgen-minds/internal/auth"
	"github.com/ashureev/nextgen-minds/internal/chat"
	"github.com/ashureev/nextgen-minds/internal/store"
	"github.com/google/uuid"
)

// defaultMaxRequestBodySize is the default maximum allowed request body size (1MB).
const defaultMaxRequestBodySize = 1 << 20

// FieldError describes one invalid request field.
type FieldError = chat.FieldError

// ErrorBody is the JSON envelope of every error response.
type ErrorBody struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Stack   string       `json:"stack,omitempty"`
}

// Deps are the collaborators a Handler serves requests with.
type Deps struct {
	Repo    store.Repository
	Issuer  *auth.Issuer
	Chat    *chat.Service
	Limiter *chat.RateLimiter
	Logger  *slog.Logger
	// Dev exposes stack traces in 500 responses.
	Dev            bool
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Handler serves the REST and websocket endpoints.
type Handler struct {
	repo    store.Repository
	issuer  *auth.Issuer
	chat    *chat.Service
	limiter *chat.RateLimiter
	logger  *slog.Logger
	dev     bool
	origins []string
	maxBody int64
	now     func() time.Time
	newID   func() string
}

// NewHandler creates a Handler. A nil Chat service behaves as unconfigured.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		repo:    d.Repo,
		issuer:  d.Issuer,
		chat:    d.Chat,
		limiter: d.Limiter,
		logger:  d.Logger,
		dev:     d.Dev,
		origins: d.AllowedOrigins,
		maxBody: d.MaxBodyBytes,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.chat == nil {
		h.chat = chat.NewService(nil, "", h.logger)
	}
	if h.maxBody <= 0 {
		h.maxBody = defaultMaxRequestBodySize
	}
	if len(h.origins) == 0 {
		h.origins = []string{"*"}
	}
	return h
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Message: message})
}

// ValidationFailed writes a 400 response listing the invalid fields.
func ValidationFailed(w http.ResponseWriter, fields []FieldError) {
	JSON(w, http.StatusBadRequest, ErrorBody{Message: "Validation failed", Errors: fields})
}

// internalError logs err and writes a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	body := ErrorBody{Message: "Internal server error"}
	if h.dev {
		body.Stack = fmt.Sprintf("%v\n%s", err, debug.Stack())
	}
	JSON(w, http.StatusInternalServerError, body)
}

var errEmptyBody = errors.New("request body is empty")

// decode reads a size-limited JSON body into v and writes a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		err = errEmptyBody
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	Error(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
	return false
}
