package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists everything wrong with a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid chat request: " + strings.Join(parts, "; ")
}

// Service validates requests and forwards them to a Completer.
type Service struct {
	completer    Completer
	defaultModel string
	logger       *slog.Logger
}

// NewService returns a Service. A nil completer makes every call fail with
// ErrNotConfigured.
func NewService(completer Completer, defaultModel string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{completer: completer, defaultModel: defaultModel, logger: logger}
}

// Enabled reports whether a completer is configured.
func (s *Service) Enabled() bool {
	return s.completer != nil
}

// Validate checks roles and contents of req.
func Validate(req Request) error {
	var fields []FieldError
	if len(req.Messages) == 0 {
		fields = append(fields, FieldError{Field: "messages", Message: "at least one message is required"})
	}
	for i, m := range req.Messages {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("messages[%d].role", i),
				Message: "must be one of user, assistant, system",
			})
		}
		if strings.TrimSpace(m.Content) == "" {
			fields = append(fields, FieldError{
				Field:   fmt.Sprintf("messages[%d].content", i),
				Message: "must not be empty",
			})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Complete validates req, fills in the default model and returns the
// upstream reply. Upstream failures come back as *UpstreamError.
func (s *Service) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if s.completer == nil {
		return nil, ErrNotConfigured
	}
	if req.Model == "" {
		req.Model = s.defaultModel
	}

	start := time.Now()
	resp, err := s.completer.Complete(ctx, req)
	if err != nil {
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			err = &UpstreamError{Err: err}
		}
		s.logger.Error("Completion request failed", "model", req.Model, "error", err)
		return nil, err
	}
	if resp.Model == "" {
		resp.Model = req.Model
	}
	s.logger.Info("Completion request served",
		"model", resp.Model,
		"messages", len(req.Messages),
		"total_tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start),
	)
	return resp, nil
}
