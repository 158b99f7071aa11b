package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ashureev/nextgen-minds/internal/auth"
	"github.com/ashureev/nextgen-minds/internal/domain"
)

// GetProfile returns the caller's career profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.repo.GetProfile(r.Context(), auth.UserIDFromContext(r.Context()))
	if errors.Is(err, domain.ErrNotFound) {
		Error(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, profile)
}

// cleanList trims entries and drops blanks and repeats.
func cleanList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func validateProfileUpdate(u *domain.ProfileUpdate) []FieldError {
	var fields []FieldError
	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		u.Name = &trimmed
		if trimmed == "" {
			fields = append(fields, FieldError{Field: "name", Message: "Name must not be empty"})
		}
	}
	u.Skills = cleanList(u.Skills)
	u.Interests = cleanList(u.Interests)
	return fields
}

// UpdateProfile merges the request into the caller's profile, creating it
// on first use.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if !h.decode(w, r, &update) {
		return
	}
	if fields := validateProfileUpdate(&update); len(fields) > 0 {
		ValidationFailed(w, fields)
		return
	}

	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)
	now := h.now().UTC()

	profile, err := h.repo.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		profile = &domain.Profile{
			UserID:    userID,
			Skills:    []string{},
			Interests: []string{},
			CreatedAt: now,
		}
	case err != nil:
		h.internalError(w, r, err)
		return
	}

	update.Apply(profile)
	profile.UpdatedAt = now

	if err := h.repo.UpsertProfile(ctx, profile); err != nil {
		h.internalError(w, r, err)
		return
	}

	stored, err := h.repo.GetProfile(ctx, userID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, stored)
}
