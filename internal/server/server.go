// Package server assembles the HTTP API from the users and books modules.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/bookshelf/internal/auth"
	"github.com/EmpoweredVote/bookshelf/internal/books"
	"github.com/EmpoweredVote/bookshelf/internal/config"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/middleware"
	"github.com/EmpoweredVote/bookshelf/internal/users"
)

// Options tweak the router for tests. Zero values give the production setup.
type Options struct {
	// DisableRequestLog turns off chi's access log.
	DisableRequestLog bool
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

// Migrate creates the users and books tables in dependency order.
func Migrate(d *gorm.DB) error {
	if err := users.Init(d); err != nil {
		return err
	}
	return books.Init(d)
}

// NewRouter wires every route of the API onto a chi router.
func NewRouter(cfg *config.Config, d *gorm.DB, log logging.Logger, opts Options) http.Handler {
	tokens := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL)
	session := middleware.SessionMiddleware(tokens, cfg.Production)
	limit := middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst)

	userHandler := users.NewHandler(users.NewStore(d), tokens, cfg.Production, log.With("module", "users"))
	bookHandler := books.NewHandler(books.NewStore(d), log.With("module", "books"))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if !opts.DisableRequestLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/", RootHandler)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", users.SetupAuthRoutes(userHandler, session, limit))
		r.Mount("/users", users.SetupRoutes(userHandler, session))
		r.Mount("/books", books.SetupRoutes(bookHandler, session))
	})

	return r
}
