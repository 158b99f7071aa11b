package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ashureev/nextgen-minds/internal/catalog"
	"github.com/ashureev/nextgen-minds/internal/domain"
	"github.com/go-chi/chi/v5"
)

// ListCareers returns careers, optionally filtered by ?skills= and
// ?interests= (comma-separated, every term must match).
func (h *Handler) ListCareers(w http.ResponseWriter, r *http.Request) {
	careers, err := h.repo.ListCareers(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	q := r.URL.Query()
	JSON(w, http.StatusOK, catalog.FilterCareers(careers, domain.CareerFilter{
		Skills:    catalog.ParseTerms(q.Get("skills")),
		Interests: catalog.ParseTerms(q.Get("interests")),
	}))
}

// GetCareer returns one career.
func (h *Handler) GetCareer(w http.ResponseWriter, r *http.Request) {
	career, err := h.repo.GetCareer(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		Error(w, http.StatusNotFound, "Career not found")
		return
	}
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, career)
}

// ListScholarships returns every scholarship.
func (h *Handler) ListScholarships(w http.ResponseWriter, r *http.Request) {
	scholarships, err := h.repo.ListScholarships(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, scholarships)
}

// ListColleges returns colleges, optionally filtered by ?location= and
// ?program=.
func (h *Handler) ListColleges(w http.ResponseWriter, r *http.Request) {
	colleges, err := h.repo.ListColleges(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	q := r.URL.Query()
	JSON(w, http.StatusOK, catalog.FilterColleges(colleges, domain.CollegeFilter{
		Location: strings.TrimSpace(q.Get("location")),
		Programs: catalog.ParseTerms(q.Get("program")),
	}))
}
