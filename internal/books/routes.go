package books

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EmpoweredVote/bookshelf/internal/webutil"
)

// SetupRoutes serves reads publicly and gates writes behind session.
func SetupRoutes(h *Handler, session func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", webutil.MakeHandler(h.log, h.List))
	r.Get("/{id}", webutil.MakeHandler(h.log, h.Get))

	r.Group(func(r chi.Router) {
		r.Use(session)
		r.Post("/", webutil.MakeHandler(h.log, h.Create))
		r.Put("/{id}", webutil.MakeHandler(h.log, h.Update))
		r.Delete("/{id}", webutil.MakeHandler(h.log, h.Delete))
	})

	return r
}
