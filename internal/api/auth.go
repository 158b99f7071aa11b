package api

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/ashureev/nextgen-minds/internal/auth"
	"github.com/ashureev/nextgen-minds/internal/domain"
)

const (
	minPasswordLength = 6
	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string            `json:"token"`
	User  domain.PublicUser `json:"user"`
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (req *signupRequest) validate() []FieldError {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var fields []FieldError
	if req.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "Name is required"})
	}
	if !validEmail(req.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "A valid email is required"})
	}
	if len(req.Password) < minPasswordLength {
		fields = append(fields, FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	} else if len(req.Password) > maxPasswordBytes {
		fields = append(fields, FieldError{Field: "password", Message: "Password must be at most 72 bytes"})
	}
	return fields
}

func (req *loginRequest) validate() []FieldError {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var fields []FieldError
	if !validEmail(req.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "A valid email is required"})
	}
	if req.Password == "" {
		fields = append(fields, FieldError{Field: "password", Message: "Password is required"})
	}
	return fields
}

// Signup registers an account and returns a token for it.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		ValidationFailed(w, fields)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	now := h.now().UTC()
	user := &domain.User{
		ID:           h.newID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.repo.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.internalError(w, r, err)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	h.logger.Info("User signed up", "user_id", user.ID)
	JSON(w, http.StatusCreated, AuthResponse{Token: token, User: user.Public()})
}

// Login checks credentials and returns a fresh token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if fields := req.validate(); len(fields) > 0 {
		ValidationFailed(w, fields)
		return
	}

	user, err := h.repo.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		h.logger.Info("Login rejected", "user_id", user.ID)
		Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Email)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, AuthResponse{Token: token, User: user.Public()})
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.GetUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if errors.Is(err, domain.ErrNotFound) {
		Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, user.Public())
}

func (h *Handler) unauthorized(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusUnauthorized, "Invalid or expired token")
}
