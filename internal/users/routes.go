package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/bookshelf/internal/middleware"
	"github.com/EmpoweredVote/bookshelf/internal/webutil"
)

// SetupAuthRoutes mounts register/login/me/logout. limit wraps the
// credential endpoints.
func SetupAuthRoutes(h *Handler, session, limit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/register", webutil.MakeHandler(h.log, h.Register))
		r.Post("/login", webutil.MakeHandler(h.log, h.Login))
	})
	r.Post("/logout", webutil.MakeHandler(h.log, h.Logout))
	r.With(session).Get("/me", webutil.MakeHandler(h.log, h.Me))

	return r
}

func SetupRoutes(h *Handler, session func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(session)

	r.Get("/", webutil.MakeHandler(h.log, h.List))
	r.Get("/{id}", webutil.MakeHandler(h.log, h.Get))
	r.With(middleware.SelfOnly("id")).Put("/{id}", webutil.MakeHandler(h.log, h.Update))
	r.With(middleware.SelfOnly("id")).Delete("/{id}", webutil.MakeHandler(h.log, h.Delete))

	return r
}
