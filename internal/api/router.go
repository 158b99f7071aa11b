package api

import (
	"net/http"

	"github.com/ashureev/nextgen-minds/internal/auth"
	"github.com/ashureev/nextgen-minds/internal/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes mounts every endpoint on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/chat", h.Chat)
	r.Get("/ws/chat", h.ChatSocket)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", h.Signup)
		r.Post("/auth/login", h.Login)

		r.Get("/careers", h.ListCareers)
		r.Get("/careers/{id}", h.GetCareer)
		r.Get("/scholarships", h.ListScholarships)
		r.Get("/colleges", h.ListColleges)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.issuer, h.unauthorized))
			r.Get("/auth/me", h.Me)
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusNotFound, "Route not found: "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// NewRouter builds the full router with global middleware. extra runs after
// request ID and real IP resolution, before panic recovery.
func NewRouter(h *Handler, extra ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(extra...)
	r.Use(middleware.Recover(h.logger, h.dev))
	r.Use(middleware.CORS(h.origins))
	h.RegisterRoutes(r)
	return r
}
